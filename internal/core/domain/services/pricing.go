package services

import (
	"time"

	"ordering/internal/core/domain/model/kernel"
	"ordering/internal/core/domain/model/order"
	"ordering/internal/core/domain/model/promocode"
)

// ItemInput is one checkout line with its base price already resolved
// (location-specific override if present, else the product default).
// Modifier prices are order-time snapshots supplied by the caller; they
// are treated as authoritative and frozen onto the order.
type ItemInput struct {
	ProductID kernel.UUID
	Quantity  int
	BasePrice kernel.Money
	Modifiers []order.ItemModifier
}

// Quote is the pricing engine output consumed by order creation.
// Total = Subtotal - Discount and 0 <= Discount <= Subtotal always hold.
type Quote struct {
	Items       []order.Item
	Subtotal    kernel.Money
	Discount    kernel.Money
	Total       kernel.Money
	PromocodeID *kernel.UUID
}

// PricingService computes subtotal, discount, and total for a checkout.
//
// Per item: unitPrice = basePrice + sum of modifier prices;
// itemTotal = unitPrice * quantity; the subtotal accumulates item totals.
// An applicable promocode then discounts the subtotal, clamped to
// [0, subtotal].
//
// Example:
//
//	pricing := services.NewPricingService()
//	quote, err := pricing.Price(inputs, promo, locationID, time.Now())
//	if err != nil {
//	    return err // invalid line or inapplicable promocode
//	}
//	// quote.Total == quote.Subtotal - quote.Discount
type PricingService struct{}

// NewPricingService creates a new PricingService instance.
func NewPricingService() PricingService {
	return PricingService{}
}

// Price computes a quote for the given lines and optional promocode.
//
// Parameters:
//   - inputs: checkout lines with resolved base prices
//   - promo: the resolved promocode, or nil when no code was supplied
//   - locationID: the ordering location, used for promocode scope checks
//   - now: the pricing moment, used for promocode window checks
//
// Returns an InvalidPromocodeError when the code exists but cannot apply
// (inactive, out of scope, outside its window, exhausted), or a validation
// error for an invalid line.
func (s PricingService) Price(
	inputs []ItemInput,
	promo *promocode.Promocode,
	locationID kernel.UUID,
	now time.Time,
) (Quote, error) {
	items := make([]order.Item, 0, len(inputs))
	var subtotal kernel.Money

	for _, in := range inputs {
		item, err := order.NewItem(in.ProductID, in.Quantity, in.BasePrice, in.Modifiers)
		if err != nil {
			return Quote{}, err
		}
		items = append(items, item)
		subtotal = subtotal.Add(item.TotalPrice())
	}

	quote := Quote{
		Items:    items,
		Subtotal: subtotal,
		Total:    subtotal,
	}

	if promo == nil {
		return quote, nil
	}

	if err := promo.CheckApplicable(locationID, now); err != nil {
		return Quote{}, err
	}

	id := promo.ID()
	quote.Discount = promo.DiscountFor(subtotal)
	quote.Total = subtotal.Sub(quote.Discount)
	quote.PromocodeID = &id
	return quote, nil
}
