package order

import (
	"errors"
	"fmt"
	"time"

	"ordering/internal/core/domain/model/kernel"
	"ordering/internal/pkg/errs"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created
	// through NewOrder or RestoreOrder. This ensures all orders are properly validated.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder constructor")
)

// DefaultCancellationReason is recorded when staff cancel an order without
// supplying a reason.
const DefaultCancellationReason = "cancelled by staff"

// Order represents a customer order at a location. It is the aggregate root
// that manages the order lifecycle from checkout through the kitchen
// workflow to completion or cancellation.
//
// Order follows these invariants:
//   - totalAmount = subtotal - discountAmount
//   - 0 <= discountAmount <= subtotal
//   - every stage timestamp is set at most once
//   - status transitions follow the staff transition table; stages are
//     never skipped (completion is only reachable through ready)
//   - terminal orders (completed/cancelled/refunded) are immutable
//   - items are created with the order and never mutated afterward
//
// The struct uses private fields to ensure encapsulation; mutation only
// happens through validated methods, each of which returns the history
// row to append to the audit trail.
type Order struct {
	id          kernel.UUID
	orderNumber int
	locationID  kernel.UUID
	userID      *kernel.UUID

	status        Status
	paymentStatus PaymentStatus

	subtotal       kernel.Money
	discountAmount kernel.Money
	totalAmount    kernel.Money
	promocodeID    *kernel.UUID

	customerName       string
	cancellationReason string

	createdAt   time.Time
	acceptedAt  *time.Time
	preparingAt *time.Time
	readyAt     *time.Time
	completedAt *time.Time
	cancelledAt *time.Time

	items []Item

	isConstructed bool
}

// NewOrder creates an order at checkout with validated pricing output.
//
// The total is derived from subtotal and discount inside the constructor,
// so the money invariant holds by construction and cannot be violated by
// callers passing inconsistent values.
//
// Parameters:
//   - id: unique order identifier
//   - orderNumber: per-location sequential number (must be positive)
//   - locationID: the point of sale the order belongs to
//   - userID: optional linked account
//   - customerName: optional explicit display name
//   - items: at least one order line
//   - subtotal: sum of item totals as computed by the pricing engine
//   - discount: promocode discount, already clamped to [0, subtotal]
//   - promocodeID: the redeemed promocode, if any
//   - now: creation timestamp
func NewOrder(
	id kernel.UUID,
	orderNumber int,
	locationID kernel.UUID,
	userID *kernel.UUID,
	customerName string,
	items []Item,
	subtotal kernel.Money,
	discount kernel.Money,
	promocodeID *kernel.UUID,
	now time.Time,
) (*Order, error) {
	o := &Order{
		status:        Created,
		paymentStatus: PaymentPending,
		createdAt:     now,
		isConstructed: true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setOrderNumber(orderNumber),
		o.setLocationID(locationID),
		o.setUserID(userID),
		o.setItems(items),
		o.setAmounts(subtotal, discount),
		o.setPromocodeID(promocodeID),
	); err != nil {
		return nil, err
	}

	o.customerName = customerName
	return o, nil
}

// RestoreOrder reconstructs an order from persistence with its full state.
// Validation is limited to identity and amount consistency; stage
// timestamps are trusted as stored.
func RestoreOrder(
	id kernel.UUID,
	orderNumber int,
	locationID kernel.UUID,
	userID *kernel.UUID,
	status Status,
	paymentStatus PaymentStatus,
	subtotal kernel.Money,
	discount kernel.Money,
	promocodeID *kernel.UUID,
	customerName string,
	cancellationReason string,
	createdAt time.Time,
	acceptedAt, preparingAt, readyAt, completedAt, cancelledAt *time.Time,
	items []Item,
) (*Order, error) {
	o := &Order{
		status:             status,
		paymentStatus:      paymentStatus,
		customerName:       customerName,
		cancellationReason: cancellationReason,
		createdAt:          createdAt,
		acceptedAt:         acceptedAt,
		preparingAt:        preparingAt,
		readyAt:            readyAt,
		completedAt:        completedAt,
		cancelledAt:        cancelledAt,
		isConstructed:      true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setOrderNumber(orderNumber),
		o.setLocationID(locationID),
		o.setUserID(userID),
		o.setAmounts(subtotal, discount),
		o.setPromocodeID(promocodeID),
		status.Validate(),
	); err != nil {
		return nil, err
	}

	o.items = append([]Item(nil), items...)
	return o, nil
}

// Validate ensures the Order instance was properly constructed.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// IsEqual compares two orders by their unique identifiers.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.UUID {
	return o.id
}

// OrderNumber returns the per-location sequential order number.
func (o *Order) OrderNumber() int {
	return o.orderNumber
}

// LocationID returns the location the order belongs to.
func (o *Order) LocationID() kernel.UUID {
	return o.locationID
}

// UserID returns the linked account, or nil for anonymous orders.
func (o *Order) UserID() *kernel.UUID {
	return o.userID
}

// Status returns the current lifecycle status.
func (o *Order) Status() Status {
	return o.status
}

// PaymentStatus returns the current payment status.
func (o *Order) PaymentStatus() PaymentStatus {
	return o.paymentStatus
}

// Subtotal returns the pre-discount sum of item totals.
func (o *Order) Subtotal() kernel.Money {
	return o.subtotal
}

// DiscountAmount returns the applied promocode discount.
func (o *Order) DiscountAmount() kernel.Money {
	return o.discountAmount
}

// TotalAmount returns subtotal minus discount.
func (o *Order) TotalAmount() kernel.Money {
	return o.totalAmount
}

// PromocodeID returns the redeemed promocode, or nil.
func (o *Order) PromocodeID() *kernel.UUID {
	return o.promocodeID
}

// CustomerName returns the explicit display name, which may be empty.
func (o *Order) CustomerName() string {
	return o.customerName
}

// CancellationReason returns the recorded reason, empty unless cancelled.
func (o *Order) CancellationReason() string {
	return o.cancellationReason
}

// CreatedAt returns the checkout timestamp.
func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

// AcceptedAt returns when the order entered accepted, or nil.
func (o *Order) AcceptedAt() *time.Time {
	return o.acceptedAt
}

// PreparingAt returns when the order entered preparing, or nil.
func (o *Order) PreparingAt() *time.Time {
	return o.preparingAt
}

// ReadyAt returns when the order entered ready, or nil.
func (o *Order) ReadyAt() *time.Time {
	return o.readyAt
}

// CompletedAt returns when the order entered completed, or nil.
func (o *Order) CompletedAt() *time.Time {
	return o.completedAt
}

// CancelledAt returns when the order was cancelled, or nil.
func (o *Order) CancelledAt() *time.Time {
	return o.cancelledAt
}

// Items returns a copy of the order lines.
func (o *Order) Items() []Item {
	return append([]Item(nil), o.items...)
}

// ConfirmPayment applies an external payment confirmation, moving the order
// from created to paid. This is not a staff transition; it is only valid
// while the order is in created with payment pending.
//
// Returns the history row to append, or InvalidTransitionError when the
// order is not awaiting payment.
func (o *Order) ConfirmPayment(now time.Time) (StatusChange, error) {
	if o.status != Created || o.paymentStatus != PaymentPending {
		return StatusChange{}, NewInvalidTransitionError(o.status, Paid)
	}

	from := o.status
	o.status = Paid
	o.paymentStatus = PaymentPaid

	return StatusChange{
		OrderID: o.id,
		From:    from,
		To:      Paid,
		Source:  SourcePayment,
		At:      now,
	}, nil
}

// MarkRefunded applies an external refund event to a cancelled, paid order.
// Only reachable via the payment source; staff cannot refund.
func (o *Order) MarkRefunded(now time.Time) (StatusChange, error) {
	if o.status != Cancelled || o.paymentStatus != PaymentPaid {
		return StatusChange{}, NewInvalidTransitionError(o.status, Refunded)
	}

	from := o.status
	o.status = Refunded
	o.paymentStatus = PaymentRefunded

	return StatusChange{
		OrderID: o.id,
		From:    from,
		To:      Refunded,
		Source:  SourcePayment,
		At:      now,
	}, nil
}

// TransitionTo applies a staff transition to the target status.
//
// On success it sets the stage timestamp matching the target (exactly
// once), records the cancellation reason when cancelling (defaulting if
// omitted), and returns the history row to append. On failure the order
// is left unmutated and the error enumerates the allowed-next set.
//
// Parameters:
//   - target: the requested status
//   - reason: cancellation reason, only meaningful when target is Cancelled
//   - actor: who performed the change, recorded in the audit trail
//   - now: the transition timestamp
func (o *Order) TransitionTo(target Status, reason, actor string, now time.Time) (StatusChange, error) {
	newStatus, err := o.status.TransitionTo(target)
	if err != nil {
		return StatusChange{}, err
	}

	if err = o.setStageTimestamp(newStatus, now); err != nil {
		return StatusChange{}, err
	}

	from := o.status
	o.status = newStatus

	if newStatus == Cancelled {
		if reason == "" {
			reason = DefaultCancellationReason
		}
		o.cancellationReason = reason
	}

	return StatusChange{
		OrderID: o.id,
		From:    from,
		To:      newStatus,
		Source:  SourceStaff,
		Actor:   actor,
		At:      now,
	}, nil
}

// setStageTimestamp records the moment a stage was entered. Each stage
// timestamp is recorded once and never overwritten.
func (o *Order) setStageTimestamp(target Status, now time.Time) error {
	var slot **time.Time
	switch target {
	case Accepted:
		slot = &o.acceptedAt
	case Preparing:
		slot = &o.preparingAt
	case Ready:
		slot = &o.readyAt
	case Completed:
		slot = &o.completedAt
	case Cancelled:
		slot = &o.cancelledAt
	default:
		return nil
	}

	if *slot != nil {
		return errs.NewValueIsInvalidErrorWithCause(
			"stage timestamp",
			fmt.Errorf("%s timestamp is already set", target),
		)
	}

	ts := now
	*slot = &ts
	return nil
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setOrderNumber(n int) error {
	if n <= 0 {
		return errs.NewValueIsInvalidErrorWithCause(
			"order number",
			fmt.Errorf("%d is not greater than 0", n),
		)
	}
	o.orderNumber = n
	return nil
}

func (o *Order) setLocationID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("location id", err)
	}
	o.locationID = id
	return nil
}

func (o *Order) setUserID(id *kernel.UUID) error {
	if id == nil {
		return nil
	}
	if err := id.Validate(); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("user id", err)
	}
	o.userID = id
	return nil
}

func (o *Order) setItems(items []Item) error {
	if len(items) == 0 {
		return errs.NewValueIsRequiredError("order items")
	}
	o.items = append([]Item(nil), items...)
	return nil
}

func (o *Order) setAmounts(subtotal, discount kernel.Money) error {
	if subtotal.IsNegative() {
		return errs.NewValueIsInvalidErrorWithCause(
			"subtotal",
			fmt.Errorf("%s is negative", subtotal),
		)
	}
	if discount.IsNegative() || discount > subtotal {
		return errs.NewValueIsOutOfRangeError(
			"discount amount", discount.Cents(), 0, subtotal.Cents(),
		)
	}

	o.subtotal = subtotal
	o.discountAmount = discount
	o.totalAmount = subtotal.Sub(discount)
	return nil
}

func (o *Order) setPromocodeID(id *kernel.UUID) error {
	if id == nil {
		return nil
	}
	if err := id.Validate(); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("promocode id", err)
	}
	o.promocodeID = id
	return nil
}
