package commands

import (
	"context"
	"errors"
	"time"

	"ordering/internal/core/domain/model/order"
	"ordering/internal/core/domain/model/promocode"
	"ordering/internal/core/domain/services"
	"ordering/internal/core/ports"
	"ordering/internal/pkg/errs"
)

// CreateOrderCommandHandler handles the checkout flow: price resolution,
// promocode redemption, order-number allocation, and the transactional
// order write, followed by best-effort staff notification.
//
// The promocode usage increment happens through a conditional update
// inside the same transaction as the order write, so a limited-use code
// can never be redeemed past its limit by concurrent checkouts.
type CreateOrderCommandHandler struct {
	uowFactory   CheckoutUoWFactory
	catalog      ports.CatalogReader
	pricing      services.PricingService
	publisher    ports.EventPublisher
	storeTimeout time.Duration
}

// NewCreateOrderCommandHandler creates a handler for checkout operations.
// storeTimeout bounds every store access; a stalled store surfaces as a
// retryable InfrastructureError instead of hanging the request.
func NewCreateOrderCommandHandler(
	uowFactory CheckoutUoWFactory,
	catalog ports.CatalogReader,
	pricing services.PricingService,
	publisher ports.EventPublisher,
	storeTimeout time.Duration,
) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory:   uowFactory,
		catalog:      catalog,
		pricing:      pricing,
		publisher:    publisher,
		storeTimeout: storeTimeout,
	}
}

// Handle processes the checkout command and returns the created order.
//
// The persistence sequence (order + items + promocode increment) is
// all-or-nothing; the new_order fan-out happens only after commit and
// never affects the outcome.
func (h *CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, h.storeTimeout)
	defer cancel()

	now := time.Now().UTC()

	inputs := make([]services.ItemInput, 0, len(cmd.Items()))
	for _, it := range cmd.Items() {
		basePrice, err := h.catalog.BasePrice(ctx, cmd.LocationID(), it.ProductID)
		if err != nil {
			return nil, storeError("catalog base price", err)
		}

		modifiers := make([]order.ItemModifier, 0, len(it.Modifiers))
		for _, m := range it.Modifiers {
			mod, err := order.NewItemModifier(m.ModifierOptionID, m.Price)
			if err != nil {
				return nil, err
			}
			modifiers = append(modifiers, mod)
		}

		inputs = append(inputs, services.ItemInput{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			BasePrice: basePrice,
			Modifiers: modifiers,
		})
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, storeError("begin checkout transaction", err)
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	var promo *promocode.Promocode
	if cmd.PromocodeCode() != "" {
		found, err := uow.PromocodeRepository().GetByCode(ctx, cmd.PromocodeCode())
		if err != nil {
			if errors.Is(err, errs.ErrObjectNotFound) {
				return nil, promocode.NewInvalidPromocodeError(cmd.PromocodeCode(), promocode.ReasonUnknown)
			}
			return nil, storeError("promocode lookup", err)
		}
		promo = found
	}

	quote, err := h.pricing.Price(inputs, promo, cmd.LocationID(), now)
	if err != nil {
		return nil, err
	}

	orderRepo := uow.OrderRepository()

	number, err := orderRepo.NextOrderNumber(ctx, cmd.LocationID())
	if err != nil {
		return nil, storeError("order number allocation", err)
	}

	newOrder, err := order.NewOrder(
		cmd.OrderID(),
		number,
		cmd.LocationID(),
		cmd.UserID(),
		cmd.CustomerName(),
		quote.Items,
		quote.Subtotal,
		quote.Discount,
		quote.PromocodeID,
		now,
	)
	if err != nil {
		return nil, err
	}

	if err = orderRepo.Add(ctx, newOrder); err != nil {
		return nil, storeError("order write", err)
	}

	if promo != nil {
		if err = uow.PromocodeRepository().Redeem(ctx, promo.ID()); err != nil {
			return nil, storeError("promocode redemption", err)
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, storeError("commit checkout transaction", err)
	}

	h.publisher.PublishNewOrder(ctx, newOrder)
	return newOrder, nil
}
