package commands

import (
	"errors"
	"fmt"

	"ordering/internal/core/domain/model/kernel"
	"ordering/internal/core/domain/model/stock"
	"ordering/internal/pkg/errs"
	"ordering/internal/pkg/guard"
)

var (
	ErrUpdateStockCommandIsNotConstructed = errors.New(
		"UpdateStockCommand must be created via NewUpdateStockCommand constructor",
	)
)

// UpdateStockCommand represents a manual override of a ledger row with
// partial-update semantics: nil fields keep their previous values.
type UpdateStockCommand struct { //nolint:recvcheck //using for validation
	locationProductID kernel.UUID
	update            stock.Update

	guard guard.ConstructorGuard
}

// NewUpdateStockCommand creates a manual stock override command.
// At least one field of the update must be set.
func NewUpdateStockCommand(locationProductID kernel.UUID, update stock.Update) (UpdateStockCommand, error) {
	cmd := UpdateStockCommand{
		update: update,
		guard:  guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setLocationProductID(locationProductID),
		validateUpdate(update),
	); err != nil {
		return UpdateStockCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c UpdateStockCommand) Validate() error {
	return c.guard.Validate(ErrUpdateStockCommandIsNotConstructed)
}

// LocationProductID returns the ledger row to update.
func (c UpdateStockCommand) LocationProductID() kernel.UUID {
	return c.locationProductID
}

// Update returns the partial update to apply.
func (c UpdateStockCommand) Update() stock.Update {
	return c.update
}

func (c *UpdateStockCommand) setLocationProductID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.locationProductID = id
	return nil
}

func validateUpdate(u stock.Update) error {
	if u.Quantity == nil && u.IsAvailable == nil && u.Reason == nil {
		return errs.NewValueIsRequiredError("stock update fields")
	}
	if u.Quantity != nil && *u.Quantity < 0 {
		return errs.NewValueIsInvalidErrorWithCause(
			"stock quantity",
			fmt.Errorf("%d is negative", *u.Quantity),
		)
	}
	return nil
}
