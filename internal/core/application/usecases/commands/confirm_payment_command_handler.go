package commands

import (
	"context"
	"time"

	"ordering/internal/core/domain/model/order"
	"ordering/internal/core/ports"
)

// ConfirmPaymentCommandHandler applies payment confirmations, moving an
// order from created to paid and notifying the staff channel. The update
// is conditioned on the order still being in created, so a duplicate
// confirmation loses the conditional write instead of double-applying.
type ConfirmPaymentCommandHandler struct {
	uowFactory   OrderUoWFactory
	publisher    ports.EventPublisher
	storeTimeout time.Duration
}

// NewConfirmPaymentCommandHandler creates a handler for payment confirmations.
func NewConfirmPaymentCommandHandler(
	uowFactory OrderUoWFactory,
	publisher ports.EventPublisher,
	storeTimeout time.Duration,
) ConfirmPaymentCommandHandler {
	return ConfirmPaymentCommandHandler{
		uowFactory:   uowFactory,
		publisher:    publisher,
		storeTimeout: storeTimeout,
	}
}

// Handle processes the payment confirmation and returns the updated order.
func (h *ConfirmPaymentCommandHandler) Handle(
	ctx context.Context,
	cmd ConfirmPaymentCommand,
) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, h.storeTimeout)
	defer cancel()

	now := time.Now().UTC()

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, storeError("begin payment transaction", err)
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.OrderRepository()

	o, err := repo.Get(ctx, cmd.OrderID())
	if err != nil {
		return nil, storeError("order load", err)
	}

	change, err := o.ConfirmPayment(now)
	if err != nil {
		return nil, err
	}

	if err = repo.Update(ctx, o, change.From); err != nil {
		return nil, storeError("order payment update", err)
	}

	if err = repo.AppendHistory(ctx, change); err != nil {
		return nil, storeError("history append", err)
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, storeError("commit payment transaction", err)
	}

	h.publisher.PublishStatusChanged(ctx, o)
	return o, nil
}
