package orderrepo

import (
	"context"
	"errors"

	"ordering/internal/core/domain/model/kernel"
	"ordering/internal/core/domain/model/order"
	"ordering/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormOrderRepository implements OrderRepository using GORM.
type GormOrderRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormOrderRepository creates a new GORM order repository.
func NewGormOrderRepository(db *gorm.DB, tracker aggregateTracker) *GormOrderRepository {
	return &GormOrderRepository{
		db:      db,
		tracker: tracker,
	}
}

// NextOrderNumber atomically allocates the next per-location order number
// through a single upsert, so concurrent checkouts at one location can
// never observe the same value.
func (r *GormOrderRepository) NextOrderNumber(ctx context.Context, locationID kernel.UUID) (int, error) {
	if err := locationID.Validate(); err != nil {
		return 0, err
	}

	var number int
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO order_counters (location_id, last_number)
		VALUES (?, 1)
		ON CONFLICT (location_id)
		DO UPDATE SET last_number = order_counters.last_number + 1
		RETURNING last_number
	`, locationID.Bytes()).Scan(&number).Error
	if err != nil {
		return 0, err
	}

	return number, nil
}

// Add saves a new order with its items and modifier snapshots.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// mutableColumns are the order columns a transition may change. Items and
// money fields are frozen at creation and never rewritten.
var mutableColumns = []string{
	"status",
	"payment_status",
	"cancellation_reason",
	"accepted_at",
	"preparing_at",
	"ready_at",
	"completed_at",
	"cancelled_at",
}

// Update persists a status transition, conditioned on expectedStatus still
// being the stored status. A concurrent writer that got there first makes
// the condition miss, and the caller gets ErrConcurrencyConflict with
// nothing written.
func (r *GormOrderRepository) Update(
	ctx context.Context,
	aggregate *order.Order,
	expectedStatus order.Status,
) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&OrderDTO{}).
		Where("id = ? AND status = ?", dto.ID, expectedStatus.String()).
		Select(mutableColumns).
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewConcurrencyConflictError("order", aggregate.ID().String())
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves an order with its items and modifier snapshots by ID.
func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	err := r.db.WithContext(ctx).
		Preload("Items.Modifiers").
		Preload("Items").
		First(&dto, "id = ?", id.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetActiveByLocation retrieves a location's non-terminal, paid-for orders
// ordered by creation time ascending.
func (r *GormOrderRepository) GetActiveByLocation(
	ctx context.Context,
	locationID kernel.UUID,
) ([]*order.Order, error) {
	return r.getByLocationAndStatuses(ctx, locationID,
		order.Paid, order.Accepted, order.Preparing, order.Ready)
}

// GetKitchenQueue retrieves the orders feeding a location's kitchen display.
func (r *GormOrderRepository) GetKitchenQueue(
	ctx context.Context,
	locationID kernel.UUID,
) ([]*order.Order, error) {
	return r.getByLocationAndStatuses(ctx, locationID,
		order.Accepted, order.Preparing, order.Ready)
}

func (r *GormOrderRepository) getByLocationAndStatuses(
	ctx context.Context,
	locationID kernel.UUID,
	statuses ...order.Status,
) ([]*order.Order, error) {
	if err := locationID.Validate(); err != nil {
		return nil, err
	}

	names := make([]string, 0, len(statuses))
	for _, s := range statuses {
		names = append(names, s.String())
	}

	var dtos []OrderDTO
	err := r.db.WithContext(ctx).
		Preload("Items.Modifiers").
		Preload("Items").
		Where("location_id = ? AND status IN ?", locationID.Bytes(), names).
		Order("created_at").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	orders := make([]*order.Order, 0, len(dtos))
	for _, dto := range dtos {
		o, convErr := toDomain(dto)
		if convErr != nil {
			return nil, convErr
		}
		orders = append(orders, o)
	}

	return orders, nil
}

// AppendHistory appends one audit trail row. The trail is append-only;
// there is no update or delete counterpart.
func (r *GormOrderRepository) AppendHistory(ctx context.Context, change order.StatusChange) error {
	dto := historyFromDomain(change)
	return r.db.WithContext(ctx).Create(&dto).Error
}
