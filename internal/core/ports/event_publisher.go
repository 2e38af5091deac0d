package ports

import (
	"context"

	"ordering/internal/core/domain/model/kernel"
	"ordering/internal/core/domain/model/order"
	"ordering/internal/core/domain/model/stock"
)

// EventPublisher fans order and stock events out to realtime display
// subscribers. Delivery is best-effort and at-most-once: publishing
// happens after the owning transaction commits, and a failed delivery
// never rolls back the committed change. Implementations log failures
// instead of returning them.
type EventPublisher interface {
	// PublishNewOrder notifies the location's staff channel of a newly
	// created order.
	PublishNewOrder(ctx context.Context, o *order.Order)

	// PublishStatusChanged notifies the location's staff and
	// kitchen-display channels of any status transition.
	PublishStatusChanged(ctx context.Context, o *order.Order)

	// PublishOrderReady notifies the location's kitchen-display channel
	// that an order entered ready. Displays treat this specially
	// (attention animation/sound), so it is emitted in addition to the
	// generic status change.
	PublishOrderReady(ctx context.Context, o *order.Order)

	// PublishOrderCompleted notifies the location's kitchen-display
	// channel that an order completed, so boards can prune it.
	PublishOrderCompleted(ctx context.Context, locationID, orderID kernel.UUID)

	// PublishStockUpdate notifies the location's staff channel of a stock
	// ledger change.
	PublishStockUpdate(ctx context.Context, lp *stock.LocationProduct)

	// PublishKitchenSnapshot pushes a full reconciling snapshot of the
	// location's preparing/ready queues to the kitchen-display channel.
	// Snapshots carry complete state rather than diffs so correctness
	// does not depend on subscription timing.
	PublishKitchenSnapshot(ctx context.Context, locationID kernel.UUID)
}
