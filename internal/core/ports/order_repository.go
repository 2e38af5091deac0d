package ports

import (
	"context"

	"ordering/internal/core/domain/model/kernel"
	"ordering/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates
// and their append-only status history.
type OrderRepository interface {
	// NextOrderNumber atomically allocates the next per-location sequential
	// order number. Safe under concurrent checkouts at the same location.
	NextOrderNumber(ctx context.Context, locationID kernel.UUID) (int, error)

	// Add persists a new order aggregate with its items and modifier
	// snapshots. The order must be valid and not already exist.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists a status transition. The write is conditioned on
	// expectedStatus being the currently persisted status; when a
	// concurrent writer got there first, ErrConcurrencyConflict is
	// returned and nothing is written. This serializes transitions per
	// order so exactly one of two racing requests wins.
	Update(ctx context.Context, aggregate *order.Order, expectedStatus order.Status) error

	// Get retrieves an order aggregate with its items by id.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetActiveByLocation retrieves the location's non-terminal orders
	// (paid, accepted, preparing, ready) ordered by creation time
	// ascending.
	GetActiveByLocation(ctx context.Context, locationID kernel.UUID) ([]*order.Order, error)

	// GetKitchenQueue retrieves the location's orders in accepted,
	// preparing, or ready status, the input set of the kitchen display
	// aggregator.
	GetKitchenQueue(ctx context.Context, locationID kernel.UUID) ([]*order.Order, error)

	// AppendHistory appends one row to the status audit trail. Rows are
	// never updated or deleted.
	AppendHistory(ctx context.Context, change order.StatusChange) error
}
