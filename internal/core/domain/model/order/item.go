package order

import (
	"fmt"

	"ordering/internal/core/domain/model/kernel"
	"ordering/internal/pkg/errs"
)

// ItemModifier is an immutable price snapshot of a modifier option taken at
// order time. The snapshot stays fixed even if the live modifier option
// price changes later.
type ItemModifier struct {
	modifierOptionID kernel.UUID
	price            kernel.Money
}

// NewItemModifier creates a modifier snapshot for an order item.
// The price must be non-negative.
func NewItemModifier(modifierOptionID kernel.UUID, price kernel.Money) (ItemModifier, error) {
	if err := modifierOptionID.Validate(); err != nil {
		return ItemModifier{}, err
	}
	if price.IsNegative() {
		return ItemModifier{}, errs.NewValueIsInvalidErrorWithCause(
			"modifier price",
			fmt.Errorf("%s is negative", price),
		)
	}
	return ItemModifier{modifierOptionID: modifierOptionID, price: price}, nil
}

// ModifierOptionID returns the identifier of the modifier option.
func (m ItemModifier) ModifierOptionID() kernel.UUID {
	return m.modifierOptionID
}

// Price returns the snapshotted modifier price.
func (m ItemModifier) Price() kernel.Money {
	return m.price
}

// Item is an order line. It is owned exclusively by its order, created with
// the order, and never mutated afterward.
//
// Pricing invariants held by construction:
//   - unitPrice = basePrice + sum of modifier prices
//   - totalPrice = unitPrice * quantity
type Item struct {
	productID  kernel.UUID
	quantity   int
	unitPrice  kernel.Money
	totalPrice kernel.Money
	modifiers  []ItemModifier
}

// NewItem creates an order line from a resolved base price and modifier
// snapshots. Quantity must be positive; the base price must be non-negative.
func NewItem(
	productID kernel.UUID,
	quantity int,
	basePrice kernel.Money,
	modifiers []ItemModifier,
) (Item, error) {
	if err := productID.Validate(); err != nil {
		return Item{}, err
	}
	if quantity <= 0 {
		return Item{}, errs.NewValueIsInvalidErrorWithCause(
			"quantity",
			fmt.Errorf("%d is not greater than 0", quantity),
		)
	}
	if basePrice.IsNegative() {
		return Item{}, errs.NewValueIsInvalidErrorWithCause(
			"base price",
			fmt.Errorf("%s is negative", basePrice),
		)
	}

	unitPrice := basePrice
	for _, m := range modifiers {
		unitPrice = unitPrice.Add(m.Price())
	}

	item := Item{
		productID:  productID,
		quantity:   quantity,
		unitPrice:  unitPrice,
		totalPrice: unitPrice.MulQuantity(quantity),
		modifiers:  append([]ItemModifier(nil), modifiers...),
	}
	return item, nil
}

// RestoreItem reconstructs an order line from persistence without
// recomputing prices. Used only by repository adapters.
func RestoreItem(
	productID kernel.UUID,
	quantity int,
	unitPrice kernel.Money,
	totalPrice kernel.Money,
	modifiers []ItemModifier,
) Item {
	return Item{
		productID:  productID,
		quantity:   quantity,
		unitPrice:  unitPrice,
		totalPrice: totalPrice,
		modifiers:  append([]ItemModifier(nil), modifiers...),
	}
}

// ProductID returns the identifier of the ordered product.
func (i Item) ProductID() kernel.UUID {
	return i.productID
}

// Quantity returns the ordered quantity.
func (i Item) Quantity() int {
	return i.quantity
}

// UnitPrice returns the resolved per-unit price including modifiers.
func (i Item) UnitPrice() kernel.Money {
	return i.unitPrice
}

// TotalPrice returns unitPrice multiplied by quantity.
func (i Item) TotalPrice() kernel.Money {
	return i.totalPrice
}

// Modifiers returns a copy of the modifier snapshots.
func (i Item) Modifiers() []ItemModifier {
	return append([]ItemModifier(nil), i.modifiers...)
}
