package promorepo

import (
	"context"
	"errors"

	"ordering/internal/core/domain/model/kernel"
	"ordering/internal/core/domain/model/promocode"
	"ordering/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormPromocodeRepository implements PromocodeRepository using GORM.
type GormPromocodeRepository struct {
	db *gorm.DB
}

// NewGormPromocodeRepository creates a new GORM promocode repository.
func NewGormPromocodeRepository(db *gorm.DB) *GormPromocodeRepository {
	return &GormPromocodeRepository{db: db}
}

// GetByCode retrieves a promocode by its customer-facing code.
func (r *GormPromocodeRepository) GetByCode(ctx context.Context, code string) (*promocode.Promocode, error) {
	if code == "" {
		return nil, errs.NewValueIsRequiredError("promocode code")
	}

	var dto PromocodeDTO
	if err := r.db.WithContext(ctx).First(&dto, "code = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("promocode", code)
		}
		return nil, err
	}

	return toDomain(dto)
}

// Redeem increments the usage count through a single conditional update.
// The guard used_count < usage_limit is evaluated inside the database, so
// two concurrent checkouts racing for the last remaining use cannot both
// get through; the loser sees an exhausted InvalidPromocodeError.
func (r *GormPromocodeRepository) Redeem(ctx context.Context, id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Exec(`
		UPDATE promocodes
		SET used_count = used_count + 1
		WHERE id = ?
		  AND is_active
		  AND used_count < usage_limit
	`, id.Bytes())
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		var code string
		if err := r.db.WithContext(ctx).
			Raw("SELECT code FROM promocodes WHERE id = ?", id.Bytes()).
			Scan(&code).Error; err != nil {
			return err
		}
		if code == "" {
			return errs.NewObjectNotFoundError("promocode", id.String())
		}
		return promocode.NewInvalidPromocodeError(code, promocode.ReasonExhausted)
	}

	return nil
}
