package commands

import (
	"context"
	"errors"
	"time"

	"ordering/internal/core/domain/model/order"
	"ordering/internal/core/ports"
	"ordering/internal/pkg/errs"
)

// TransitionOrderCommandHandler applies staff status transitions.
//
// Per-order serialization: the status update is conditioned on the status
// the handler read at the start of the transaction. When two requests
// race on one order, exactly one write succeeds; the loser re-reads and
// reports either InvalidTransition (the move is no longer legal from the
// new status) or a retryable ConcurrencyConflict.
//
// The update+history-append is all-or-nothing; fan-out (status change,
// ready/completed specials, kitchen snapshot refresh) happens after
// commit and is best-effort.
type TransitionOrderCommandHandler struct {
	uowFactory   OrderUoWFactory
	publisher    ports.EventPublisher
	storeTimeout time.Duration
}

// NewTransitionOrderCommandHandler creates a handler for staff transitions.
func NewTransitionOrderCommandHandler(
	uowFactory OrderUoWFactory,
	publisher ports.EventPublisher,
	storeTimeout time.Duration,
) TransitionOrderCommandHandler {
	return TransitionOrderCommandHandler{
		uowFactory:   uowFactory,
		publisher:    publisher,
		storeTimeout: storeTimeout,
	}
}

// Handle processes the transition command and returns the updated order.
func (h *TransitionOrderCommandHandler) Handle(
	ctx context.Context,
	cmd TransitionOrderCommand,
) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, h.storeTimeout)
	defer cancel()

	now := time.Now().UTC()

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, storeError("begin transition transaction", err)
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.OrderRepository()

	o, err := repo.Get(ctx, cmd.OrderID())
	if err != nil {
		return nil, storeError("order load", err)
	}

	change, err := o.TransitionTo(cmd.TargetStatus(), cmd.CancellationReason(), cmd.Actor(), now)
	if err != nil {
		return nil, err
	}

	if err = repo.Update(ctx, o, change.From); err != nil {
		if errors.Is(err, errs.ErrConcurrencyConflict) {
			_ = uow.Rollback(ctx)
			return nil, h.resolveConflict(ctx, cmd, err)
		}
		return nil, storeError("order status update", err)
	}

	if err = repo.AppendHistory(ctx, change); err != nil {
		return nil, storeError("history append", err)
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, storeError("commit transition transaction", err)
	}

	h.notify(ctx, o)
	return o, nil
}

// resolveConflict decides what the loser of a transition race sees.
// A fresh read shows the winner's status: when the requested move is no
// longer legal from there, the caller gets InvalidTransition with the
// now-allowed set; in the rare case it still is legal, the conflict is
// surfaced as retryable.
func (h *TransitionOrderCommandHandler) resolveConflict(
	ctx context.Context,
	cmd TransitionOrderCommand,
	conflict error,
) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return conflict
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	current, err := uow.OrderRepository().Get(ctx, cmd.OrderID())
	if err != nil {
		return conflict
	}

	if !current.Status().CanTransitionTo(cmd.TargetStatus()) {
		return order.NewInvalidTransitionError(current.Status(), cmd.TargetStatus())
	}
	return conflict
}

func (h *TransitionOrderCommandHandler) notify(ctx context.Context, o *order.Order) {
	h.publisher.PublishStatusChanged(ctx, o)

	switch o.Status() {
	case order.Ready:
		h.publisher.PublishOrderReady(ctx, o)
	case order.Completed:
		h.publisher.PublishOrderCompleted(ctx, o.LocationID(), o.ID())
	}

	h.publisher.PublishKitchenSnapshot(ctx, o.LocationID())
}
