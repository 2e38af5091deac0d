package commands

import (
	"context"
	"errors"
	"time"

	"ordering/internal/core/domain/model/stock"
	"ordering/internal/core/ports"
	"ordering/internal/pkg/errs"
)

// adjustStockMaxAttempts bounds the re-read loop when concurrent
// adjustments race on the same ledger row.
const adjustStockMaxAttempts = 3

// AdjustStockCommandHandler applies relative stock adjustments to the
// per-location ledger and fans the resulting state out to the staff channel.
//
// The write is guarded on the quantity read at the start of the attempt,
// so two concurrent deltas compose instead of overwriting each other;
// the losing writer re-reads and reapplies its delta.
type AdjustStockCommandHandler struct {
	uowFactory   StockUoWFactory
	publisher    ports.EventPublisher
	storeTimeout time.Duration
}

// NewAdjustStockCommandHandler creates a handler for stock adjustments.
func NewAdjustStockCommandHandler(
	uowFactory StockUoWFactory,
	publisher ports.EventPublisher,
	storeTimeout time.Duration,
) AdjustStockCommandHandler {
	return AdjustStockCommandHandler{
		uowFactory:   uowFactory,
		publisher:    publisher,
		storeTimeout: storeTimeout,
	}
}

// Handle processes the adjustment and returns the updated ledger row.
func (h *AdjustStockCommandHandler) Handle(
	ctx context.Context,
	cmd AdjustStockCommand,
) (*stock.LocationProduct, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, h.storeTimeout)
	defer cancel()

	var lp *stock.LocationProduct
	for attempt := 0; attempt < adjustStockMaxAttempts; attempt++ {
		var err error
		lp, err = h.adjustOnce(ctx, cmd)
		if err == nil {
			h.publisher.PublishStockUpdate(ctx, lp)
			return lp, nil
		}
		if !errors.Is(err, errs.ErrConcurrencyConflict) {
			return nil, err
		}
	}

	return nil, errs.NewConcurrencyConflictError(
		"location product", cmd.LocationProductID().String(),
	)
}

// adjustOnce runs one read-adjust-write attempt in its own transaction.
// Returns an error satisfying errs.ErrConcurrencyConflict when the row
// moved between the read and the guarded write.
func (h *AdjustStockCommandHandler) adjustOnce(
	ctx context.Context,
	cmd AdjustStockCommand,
) (*stock.LocationProduct, error) {
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

	readQuantity := lp.StockQuantity()
	lp.Adjust(cmd.Delta())

	if err = repo.UpdateIfQuantity(ctx, lp, readQuantity); err != nil {
		return nil, storeError("stock update", err)
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, storeError("commit stock transaction", err)
	}

	return lp, nil
}
