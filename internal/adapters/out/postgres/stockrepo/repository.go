package stockrepo

import (
	"context"
	"errors"

	"ordering/internal/core/domain/model/kernel"
	"ordering/internal/core/domain/model/stock"
	"ordering/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormStockRepository implements StockRepository using GORM.
type GormStockRepository struct {
	db *gorm.DB
}

// NewGormStockRepository creates a new GORM stock repository.
func NewGormStockRepository(db *gorm.DB) *GormStockRepository {
	return &GormStockRepository{db: db}
}

// Get retrieves a ledger row by ID.
func (r *GormStockRepository) Get(ctx context.Context, id kernel.UUID) (*stock.LocationProduct, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto LocationProductDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("location product", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetByLocationAndProduct retrieves the ledger row for one product at one
// location, used for price override resolution at checkout.
func (r *GormStockRepository) GetByLocationAndProduct(
	ctx context.Context,
	locationID, productID kernel.UUID,
) (*stock.LocationProduct, error) {
	if err := errors.Join(locationID.Validate(), productID.Validate()); err != nil {
		return nil, err
	}

	var dto LocationProductDTO
	err := r.db.WithContext(ctx).
		First(&dto, "location_id = ? AND product_id = ?", locationID.Bytes(), productID.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("location product", productID.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// Update persists a ledger row. All columns are written; a quantity of
// zero or a cleared availability flag must not be skipped as zero values.
func (r *GormStockRepository) Update(ctx context.Context, aggregate *stock.LocationProduct) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).Save(&dto)
	if result.Error != nil {
		return result.Error
	}

	return nil
}

// UpdateIfQuantity persists a ledger row guarded on the quantity the
// caller read. The condition lives in the WHERE clause, so two
// concurrent adjustments on the same row cannot both win; the loser
// gets a ConcurrencyConflictError and re-reads.
func (r *GormStockRepository) UpdateIfQuantity(
	ctx context.Context,
	aggregate *stock.LocationProduct,
	expectedQuantity int,
) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).
		Model(&LocationProductDTO{}).
		Where("id = ? AND stock_quantity = ?", dto.ID, expectedQuantity).
		Updates(map[string]any{
			"stock_quantity":     dto.StockQuantity,
			"is_available":       dto.IsAvailable,
			"unavailable_reason": dto.UnavailableReason,
		})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewConcurrencyConflictError("location product", aggregate.ID().String())
	}

	return nil
}
