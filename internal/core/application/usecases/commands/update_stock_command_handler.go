package commands

import (
	"context"
	"time"

	"ordering/internal/core/domain/model/stock"
	"ordering/internal/core/ports"
)

// UpdateStockCommandHandler applies manual stock overrides, such as
// pinning a product unavailable despite nonzero stock.
type UpdateStockCommandHandler struct {
	uowFactory   StockUoWFactory
	publisher    ports.EventPublisher
	storeTimeout time.Duration
}

// NewUpdateStockCommandHandler creates a handler for manual stock overrides.
func NewUpdateStockCommandHandler(
	uowFactory StockUoWFactory,
	publisher ports.EventPublisher,
	storeTimeout time.Duration,
) UpdateStockCommandHandler {
	return UpdateStockCommandHandler{
		uowFactory:   uowFactory,
		publisher:    publisher,
		storeTimeout: storeTimeout,
	}
}

// Handle processes the override and returns the updated ledger row.
func (h *UpdateStockCommandHandler) Handle(
	ctx context.Context,
	cmd UpdateStockCommand,
) (*stock.LocationProduct, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, h.storeTimeout)
	defer cancel()

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, storeError("begin stock transaction", err)
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.StockRepository()

	lp, err := repo.Get(ctx, cmd.LocationProductID())
	if err != nil {
		return nil, storeError("stock load", err)
	}

	if err = lp.ApplyUpdate(cmd.Update()); err != nil {
		return nil, err
	}

	if err = repo.Update(ctx, lp); err != nil {
		return nil, storeError("stock update", err)
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, storeError("commit stock transaction", err)
	}

	h.publisher.PublishStockUpdate(ctx, lp)
	return lp, nil
}
