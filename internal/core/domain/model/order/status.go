package order

import (
	"errors"
	"fmt"
	"strings"

	"ordering/internal/pkg/errs"
)

// Status represents the lifecycle state of an order.
// It implements a state machine with defined transitions to ensure
// orders follow the correct kitchen workflow.
//
// State transitions (staff-facing):
//
//	Paid ──> Accepted ──> Preparing ──> Ready ──> Completed
//	  │         │             │           │
//	  └─────────┴─────────────┴───────────┴──> Cancelled
//
// Created -> Paid is driven by an external payment confirmation, and
// Refunded is only reachable through a payment event on a cancelled
// order; neither is a staff transition.
//
// The full transition graph lives in a single status-keyed table so it
// can be audited and tested in one place.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// Created is the initial status at checkout, before payment confirmation.
	Created

	// Paid indicates payment was confirmed and the order awaits acceptance.
	Paid

	// Accepted indicates staff acknowledged the order; it is queued for the kitchen.
	Accepted

	// Preparing indicates the kitchen is actively working on the order.
	Preparing

	// Ready indicates the order is prepared and waiting for pickup.
	Ready

	// Completed indicates the order was handed to the customer.
	// This is a terminal state.
	Completed

	// Cancelled indicates the order was cancelled with a recorded reason.
	// This is a terminal state for staff actions; a payment event may still
	// move it to Refunded.
	Cancelled

	// Refunded indicates a cancelled order had its payment returned.
	// Only reachable via an external payment event.
	Refunded
)

// ErrInvalidTransition is the sentinel for rejected status transitions.
// Use errors.Is to classify; the concrete InvalidTransitionError carries
// the current status, the requested target, and the allowed-next set.
var ErrInvalidTransition = errors.New("invalid status transition")

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:   "unknown",
		Created:   "created",
		Paid:      "paid",
		Accepted:  "accepted",
		Preparing: "preparing",
		Ready:     "ready",
		Completed: "completed",
		Cancelled: "cancelled",
		Refunded:  "refunded",
	}
}

func getValidStatusStrings() map[Status]string {
	//nolint:exhaustive // Unknown is intentionally excluded as it's invalid
	return map[Status]string{
		Created:   "created",
		Paid:      "paid",
		Accepted:  "accepted",
		Preparing: "preparing",
		Ready:     "ready",
		Completed: "completed",
		Cancelled: "cancelled",
		Refunded:  "refunded",
	}
}

// staffTransitions is the authoritative table of staff-facing transitions.
// A status missing from the table has no staff-reachable successors.
// Created and Refunded are payment-driven and deliberately absent.
func staffTransitions() map[Status][]Status {
	return map[Status][]Status{
		Paid:      {Accepted, Cancelled},
		Accepted:  {Preparing, Cancelled},
		Preparing: {Ready, Cancelled},
		Ready:     {Completed, Cancelled},
	}
}

// StatusFromString parses the lowercase wire representation of a status.
// Returns an error for unknown names; "unknown" itself is not accepted.
func StatusFromString(s string) (Status, error) {
	for status, name := range getValidStatusStrings() {
		if name == s {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause(
		"status",
		fmt.Errorf("%q is not a valid status", s),
	)
}

// Validate checks if the Status value is valid.
// Unknown (0) and out-of-range values are invalid.
func (s Status) Validate() error {
	if _, ok := getValidStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause(
			"status",
			fmt.Errorf("%d is not a valid status", s),
		)
	}
	return nil
}

// String returns the lowercase name of the status.
// Implements fmt.Stringer and is safe on any value, including invalid ones.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// IsTerminal reports whether the status permits no further staff
// transitions. Terminal orders are immutable except for audit reads.
func (s Status) IsTerminal() bool {
	return s == Completed || s == Cancelled || s == Refunded
}

// AllowedNext returns the set of statuses staff may move this status to.
// The returned slice is a copy; the underlying table is never exposed.
func (s Status) AllowedNext() []Status {
	next := staffTransitions()[s]
	out := make([]Status, len(next))
	copy(out, next)
	return out
}

// CanTransitionTo reports whether a staff transition to target is allowed
// from the current status.
func (s Status) CanTransitionTo(target Status) bool {
	for _, allowed := range staffTransitions()[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// TransitionTo validates a staff transition and returns the new status.
//
// Returns:
//   - (target, nil) when the table permits current -> target
//   - (Unknown, *InvalidTransitionError) otherwise, carrying the allowed set
func (s Status) TransitionTo(target Status) (Status, error) {
	if err := target.Validate(); err != nil {
		return Unknown, err
	}
	if !s.CanTransitionTo(target) {
		return Unknown, NewInvalidTransitionError(s, target)
	}
	return target, nil
}

// InvalidTransitionError reports a rejected status transition along with
// the set of transitions the current status does allow, so callers can
// surface an actionable message.
type InvalidTransitionError struct {
	Current Status
	Target  Status
	Allowed []Status
}

// NewInvalidTransitionError creates an InvalidTransitionError for the given
// current/target pair, capturing the allowed-next set of current.
func NewInvalidTransitionError(current, target Status) *InvalidTransitionError {
	return &InvalidTransitionError{
		Current: current,
		Target:  target,
		Allowed: current.AllowedNext(),
	}
}

func (e *InvalidTransitionError) Error() string {
	names := make([]string, len(e.Allowed))
	for i, s := range e.Allowed {
		names[i] = s.String()
	}
	allowed := "none"
	if len(names) > 0 {
		allowed = strings.Join(names, ", ")
	}
	return fmt.Sprintf("%s: %s -> %s (allowed: %s)",
		ErrInvalidTransition, e.Current, e.Target, allowed)
}

func (e *InvalidTransitionError) Unwrap() error {
	return ErrInvalidTransition
}

// PaymentStatus tracks the payment side of an order independently of the
// kitchen workflow status.
type PaymentStatus int

const (
	// PaymentPending indicates no payment confirmation has arrived yet.
	PaymentPending PaymentStatus = iota

	// PaymentPaid indicates the payment provider confirmed the charge.
	PaymentPaid

	// PaymentRefunded indicates the charge was returned after cancellation.
	PaymentRefunded
)

// PaymentStatusFromString parses the lowercase wire representation of a
// payment status.
func PaymentStatusFromString(s string) (PaymentStatus, error) {
	switch s {
	case "pending":
		return PaymentPending, nil
	case "paid":
		return PaymentPaid, nil
	case "refunded":
		return PaymentRefunded, nil
	default:
		return PaymentPending, errs.NewValueIsInvalidErrorWithCause(
			"payment status",
			fmt.Errorf("%q is not a valid payment status", s),
		)
	}
}

// String returns the lowercase name of the payment status.
func (p PaymentStatus) String() string {
	switch p {
	case PaymentPaid:
		return "paid"
	case PaymentRefunded:
		return "refunded"
	default:
		return "pending"
	}
}
