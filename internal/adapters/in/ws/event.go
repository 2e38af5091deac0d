// Package ws implements the realtime notification hub: an in-process
// registry of websocket subscribers keyed by location and audience.
//
// Delivery is best-effort and at-most-once. Events are pushed after the
// owning transaction commits; a slow or dead subscriber loses events
// rather than blocking the rest of the location. Kitchen displays
// reconcile through periodic full-state snapshots, so a dropped diff
// never leaves a board permanently wrong.
package ws

import (
	"fmt"

	"ordering/internal/pkg/errs"
)

// Event is one realtime message pushed to subscribers.
type Event struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// Event types pushed by the ordering core.
const (
	EventNewOrder           = "new_order"
	EventOrderStatusChanged = "order_status_changed"
	EventOrderReady         = "order_ready"
	EventOrderCompleted     = "order_completed"
	EventStockUpdate        = "stock_update"
	EventKitchenSnapshot    = "kitchen_snapshot"
)

// Audience selects which channel of a location a connection listens to.
type Audience string

const (
	// AudienceStaff receives the full operational stream: new orders,
	// status changes, and stock updates.
	AudienceStaff Audience = "staff"

	// AudienceKitchenDisplay receives the display stream: status changes,
	// ready/completed markers, and reconciling snapshots.
	AudienceKitchenDisplay Audience = "kitchen-display"
)

// ParseAudience validates the wire form of an audience.
func ParseAudience(s string) (Audience, error) {
	switch Audience(s) {
	case AudienceStaff:
		return AudienceStaff, nil
	case AudienceKitchenDisplay:
		return AudienceKitchenDisplay, nil
	default:
		return "", errs.NewValueIsInvalidErrorWithCause(
			"audience",
			fmt.Errorf("%q is not a valid audience", s),
		)
	}
}
