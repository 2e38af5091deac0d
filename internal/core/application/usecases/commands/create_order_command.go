package commands

import (
	"errors"

	"ordering/internal/core/domain/model/kernel"
	"ordering/internal/pkg/errs"
	"ordering/internal/pkg/guard"
)

var (
	ErrCreateOrderCommandIsNotConstructed = errors.New(
		"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
	)
)

// ItemModifierSpec is one modifier option on a checkout line, with its
// price snapshot as declared at order time.
type ItemModifierSpec struct {
	ModifierOptionID kernel.UUID
	Price            kernel.Money
}

// ItemSpec is one checkout line as submitted by the caller. The base
// price is resolved server-side from the catalog; modifier prices are
// order-time snapshots.
type ItemSpec struct {
	ProductID kernel.UUID
	Quantity  int
	Modifiers []ItemModifierSpec
}

// CreateOrderCommand represents a checkout request: the location, the
// lines, an optional promocode, and optional customer identity for
// display attribution.
//
// Example:
//
//	cmd, err := NewCreateOrderCommand(kernel.NewUUID(), locationID, nil, "Dana", items, "WELCOME10")
//	if err != nil {
//	    return fmt.Errorf("invalid checkout data: %w", err)
//	}
//	created, err := handler.Handle(ctx, cmd)
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID       kernel.UUID
	locationID    kernel.UUID
	userID        *kernel.UUID
	customerName  string
	items         []ItemSpec
	promocodeCode string

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand creates a checkout command.
// Validates that ids are valid, at least one line is present, every line
// has a positive quantity, and modifier snapshots are well formed.
func NewCreateOrderCommand(
	orderID kernel.UUID,
	locationID kernel.UUID,
	userID *kernel.UUID,
	customerName string,
	items []ItemSpec,
	promocodeCode string,
) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		customerName:  customerName,
		promocodeCode: promocodeCode,
		guard:         guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setLocationID(locationID),
		cmd.setUserID(userID),
		cmd.setItems(items),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

// OrderID returns the identifier the new order will be created under.
func (c CreateOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// LocationID returns the ordering location.
func (c CreateOrderCommand) LocationID() kernel.UUID {
	return c.locationID
}

// UserID returns the linked account, or nil for anonymous checkout.
func (c CreateOrderCommand) UserID() *kernel.UUID {
	return c.userID
}

// CustomerName returns the optional explicit display name.
func (c CreateOrderCommand) CustomerName() string {
	return c.customerName
}

// Items returns the checkout lines.
func (c CreateOrderCommand) Items() []ItemSpec {
	return append([]ItemSpec(nil), c.items...)
}

// PromocodeCode returns the submitted promocode, or empty.
func (c CreateOrderCommand) PromocodeCode() string {
	return c.promocodeCode
}

func (c *CreateOrderCommand) setOrderID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.orderID = id
	return nil
}

func (c *CreateOrderCommand) setLocationID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("location id", err)
	}
	c.locationID = id
	return nil
}

func (c *CreateOrderCommand) setUserID(id *kernel.UUID) error {
	if id == nil {
		return nil
	}
	if err := id.Validate(); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("user id", err)
	}
	c.userID = id
	return nil
}

func (c *CreateOrderCommand) setItems(items []ItemSpec) error {
	if len(items) == 0 {
		return errs.NewValueIsRequiredError("order items")
	}
	for _, it := range items {
		if err := it.ProductID.Validate(); err != nil {
			return errs.NewValueIsInvalidErrorWithCause("product id", err)
		}
		if it.Quantity <= 0 {
			return errs.NewValueIsInvalidError("item quantity")
		}
		for _, m := range it.Modifiers {
			if err := m.ModifierOptionID.Validate(); err != nil {
				return errs.NewValueIsInvalidErrorWithCause("modifier option id", err)
			}
			if m.Price.IsNegative() {
				return errs.NewValueIsInvalidError("modifier price")
			}
		}
	}
	c.items = append([]ItemSpec(nil), items...)
	return nil
}
