// Package stock provides the per-location product availability ledger.
// Each LocationProduct row tracks the stock quantity, availability flag,
// and an optional per-location price override consumed by the pricing
// engine.
package stock

import (
	"errors"
	"fmt"

	"ordering/internal/core/domain/model/kernel"
	"ordering/internal/pkg/errs"
)

// ErrLocationProductIsNotConstructed is returned when a LocationProduct was
// not created through its constructor.
var ErrLocationProductIsNotConstructed = errors.New(
	"LocationProduct must be created via NewLocationProduct or RestoreLocationProduct constructor",
)

// autoOutOfStockReason is set when an adjustment drives quantity to zero
// and cleared when restocking brings it back above zero. A manually set
// reason is kept.
const autoOutOfStockReason = "out of stock"

// StockStatus is the derived severity of a stock level.
type StockStatus string

const (
	// StatusOutOfStock means quantity is zero.
	StatusOutOfStock StockStatus = "out_of_stock"

	// StatusLow means quantity is positive but at or below the threshold.
	StatusLow StockStatus = "low"

	// StatusNormal means quantity is above the threshold.
	StatusNormal StockStatus = "normal"
)

// Update carries partial-update semantics for manual stock overrides.
// A nil field retains the previous value. This allows marking a product
// unavailable despite nonzero stock, or editing the reason alone.
type Update struct {
	Quantity    *int
	IsAvailable *bool
	Reason      *string
}

// LocationProduct is one row of the stock ledger: the availability and
// pricing state of a product at a single location.
type LocationProduct struct {
	id                kernel.UUID
	locationID        kernel.UUID
	productID         kernel.UUID
	stockQuantity     int
	minStockThreshold int
	isAvailable       bool
	unavailableReason string
	priceOverride     *kernel.Money

	isConstructed bool
}

// NewLocationProduct creates a ledger row for a product at a location.
// Quantity must be non-negative; availability is derived from it.
func NewLocationProduct(
	id kernel.UUID,
	locationID kernel.UUID,
	productID kernel.UUID,
	quantity int,
	minStockThreshold int,
	priceOverride *kernel.Money,
) (*LocationProduct, error) {
	lp := &LocationProduct{isConstructed: true}

	if err := errors.Join(
		lp.setID(id),
		lp.setLocationID(locationID),
		lp.setProductID(productID),
		lp.setQuantity(quantity),
		lp.setThreshold(minStockThreshold),
	); err != nil {
		return nil, err
	}

	lp.priceOverride = priceOverride
	lp.isAvailable = quantity > 0
	if quantity == 0 {
		lp.unavailableReason = autoOutOfStockReason
	}
	return lp, nil
}

// RestoreLocationProduct reconstructs a ledger row from persistence.
func RestoreLocationProduct(
	id kernel.UUID,
	locationID kernel.UUID,
	productID kernel.UUID,
	quantity int,
	minStockThreshold int,
	isAvailable bool,
	unavailableReason string,
	priceOverride *kernel.Money,
) (*LocationProduct, error) {
	lp, err := NewLocationProduct(id, locationID, productID, quantity, minStockThreshold, priceOverride)
	if err != nil {
		return nil, err
	}
	lp.isAvailable = isAvailable
	lp.unavailableReason = unavailableReason
	return lp, nil
}

// Validate ensures the instance was created through a constructor.
func (lp *LocationProduct) Validate() error {
	if lp == nil || !lp.isConstructed {
		return ErrLocationProductIsNotConstructed
	}
	return nil
}

// ID returns the ledger row identifier.
func (lp *LocationProduct) ID() kernel.UUID { return lp.id }

// LocationID returns the owning location.
func (lp *LocationProduct) LocationID() kernel.UUID { return lp.locationID }

// ProductID returns the tracked product.
func (lp *LocationProduct) ProductID() kernel.UUID { return lp.productID }

// StockQuantity returns the current quantity on hand.
func (lp *LocationProduct) StockQuantity() int { return lp.stockQuantity }

// MinStockThreshold returns the low-stock threshold.
func (lp *LocationProduct) MinStockThreshold() int { return lp.minStockThreshold }

// IsAvailable reports whether the product can be ordered at this location.
func (lp *LocationProduct) IsAvailable() bool { return lp.isAvailable }

// UnavailableReason returns the reason shown when unavailable, or empty.
func (lp *LocationProduct) UnavailableReason() string { return lp.unavailableReason }

// PriceOverride returns the location-specific price, or nil to use the
// product default.
func (lp *LocationProduct) PriceOverride() *kernel.Money { return lp.priceOverride }

// Status derives the stock severity from quantity and threshold. It is a
// pure function of current state: out_of_stock at zero, low at or below
// the threshold, otherwise normal.
func (lp *LocationProduct) Status() StockStatus {
	switch {
	case lp.stockQuantity == 0:
		return StatusOutOfStock
	case lp.stockQuantity <= lp.minStockThreshold:
		return StatusLow
	default:
		return StatusNormal
	}
}

// Adjust applies a relative quantity change, clamping at zero.
// Availability is derived: reaching zero marks the row unavailable with an
// automatic "out of stock" reason; restocking above zero restores
// availability and clears an auto-set reason. A manually set reason is a
// side effect of Update, not Adjust, and survives restocking.
func (lp *LocationProduct) Adjust(delta int) {
	newQuantity := lp.stockQuantity + delta
	if newQuantity < 0 {
		newQuantity = 0
	}
	lp.stockQuantity = newQuantity

	if newQuantity == 0 {
		lp.isAvailable = false
		if lp.unavailableReason == "" {
			lp.unavailableReason = autoOutOfStockReason
		}
		return
	}

	lp.isAvailable = true
	if lp.unavailableReason == autoOutOfStockReason {
		lp.unavailableReason = ""
	}
}

// ApplyUpdate applies a manual override with true partial-update
// semantics: omitted fields retain their previous values. Setting the
// quantity re-derives availability unless the update pins it explicitly.
func (lp *LocationProduct) ApplyUpdate(u Update) error {
	if u.Quantity != nil {
		if *u.Quantity < 0 {
			return errs.NewValueIsInvalidErrorWithCause(
				"stock quantity",
				fmt.Errorf("%d is negative", *u.Quantity),
			)
		}
		lp.stockQuantity = *u.Quantity
		lp.isAvailable = lp.stockQuantity > 0
		if lp.stockQuantity == 0 && lp.unavailableReason == "" {
			lp.unavailableReason = autoOutOfStockReason
		}
		if lp.stockQuantity > 0 && lp.unavailableReason == autoOutOfStockReason {
			lp.unavailableReason = ""
		}
	}

	if u.IsAvailable != nil {
		lp.isAvailable = *u.IsAvailable
	}

	if u.Reason != nil {
		lp.unavailableReason = *u.Reason
	}

	return nil
}

func (lp *LocationProduct) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	lp.id = id
	return nil
}

func (lp *LocationProduct) setLocationID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("location id", err)
	}
	lp.locationID = id
	return nil
}

func (lp *LocationProduct) setProductID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("product id", err)
	}
	lp.productID = id
	return nil
}

func (lp *LocationProduct) setQuantity(q int) error {
	if q < 0 {
		return errs.NewValueIsInvalidErrorWithCause(
			"stock quantity",
			fmt.Errorf("%d is negative", q),
		)
	}
	lp.stockQuantity = q
	return nil
}

func (lp *LocationProduct) setThreshold(t int) error {
	if t < 0 {
		return errs.NewValueIsInvalidErrorWithCause(
			"min stock threshold",
			fmt.Errorf("%d is negative", t),
		)
	}
	lp.minStockThreshold = t
	return nil
}
