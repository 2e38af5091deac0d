package commands

import (
	"errors"

	"ordering/internal/core/domain/model/kernel"
	"ordering/internal/core/domain/model/order"
	"ordering/internal/pkg/guard"
)

var (
	ErrTransitionOrderCommandIsNotConstructed = errors.New(
		"TransitionOrderCommand must be created via NewTransitionOrderCommand constructor",
	)
)

// TransitionOrderCommand represents a staff request to move an order to a
// new status, optionally with a cancellation reason.
//
// Example:
//
//	cmd, err := NewTransitionOrderCommand(orderID, order.Ready, "", "barista-2")
//	if err != nil {
//	    return err
//	}
//	updated, err := handler.Handle(ctx, cmd)
type TransitionOrderCommand struct { //nolint:recvcheck //using for validation
	orderID            kernel.UUID
	targetStatus       order.Status
	cancellationReason string
	actor              string

	guard guard.ConstructorGuard
}

// NewTransitionOrderCommand creates a transition command.
// The target must be a valid status; whether the transition is allowed
// from the order's current status is decided by the state machine when
// the command is handled.
func NewTransitionOrderCommand(
	orderID kernel.UUID,
	targetStatus order.Status,
	cancellationReason string,
	actor string,
) (TransitionOrderCommand, error) {
	cmd := TransitionOrderCommand{
		cancellationReason: cancellationReason,
		actor:              actor,
		guard:              guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		targetStatus.Validate(),
	); err != nil {
		return TransitionOrderCommand{}, err
	}

	cmd.targetStatus = targetStatus
	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c TransitionOrderCommand) Validate() error {
	return c.guard.Validate(ErrTransitionOrderCommandIsNotConstructed)
}

// OrderID returns the order to transition.
func (c TransitionOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// TargetStatus returns the requested status.
func (c TransitionOrderCommand) TargetStatus() order.Status {
	return c.targetStatus
}

// CancellationReason returns the optional reason, used when cancelling.
func (c TransitionOrderCommand) CancellationReason() string {
	return c.cancellationReason
}

// Actor returns who performed the change, for the audit trail.
func (c TransitionOrderCommand) Actor() string {
	return c.actor
}

func (c *TransitionOrderCommand) setOrderID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.orderID = id
	return nil
}
