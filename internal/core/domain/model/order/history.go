package order

import (
	"time"

	"ordering/internal/core/domain/model/kernel"
)

// ChangeSource identifies the channel through which a status change was made.
type ChangeSource string

const (
	// SourceStaff marks transitions performed by staff through the queue UI.
	SourceStaff ChangeSource = "staff"

	// SourcePayment marks transitions driven by payment provider events.
	SourcePayment ChangeSource = "payment"

	// SourceSystem marks transitions performed by background processes.
	SourceSystem ChangeSource = "system"
)

// StatusChange is one row of the append-only order status audit trail.
// Rows are never updated or deleted; they preserve per-order causal order
// because each transition reads the immediately-prior persisted status
// before validating.
type StatusChange struct {
	OrderID kernel.UUID
	From    Status
	To      Status
	Source  ChangeSource
	Actor   string
	At      time.Time
}
