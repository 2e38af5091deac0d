// Package catalogrepo resolves catalog prices for checkout.
package catalogrepo

import (
	"context"
	"errors"

	"ordering/internal/core/domain/model/kernel"
	"ordering/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProductDTO represents the database structure for catalog products.
// Only the pricing-relevant slice of the catalog lives here; menu
// composition is owned elsewhere.
type ProductDTO struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"not null"`
	BasePrice int64     `gorm:"not null"`
	IsActive  bool      `gorm:"not null;default:true"`
}

// TableName specifies the database table name for products.
func (ProductDTO) TableName() string {
	return "products"
}

// LocationDTO represents the database structure for locations. Checkout
// only needs existence; the rest of the location profile is owned
// elsewhere.
type LocationDTO struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name string    `gorm:"not null"`
}

// TableName specifies the database table name for locations.
func (LocationDTO) TableName() string {
	return "locations"
}

// GormCatalogReader implements CatalogReader using GORM. Base price
// resolution prefers a location-specific override from the stock ledger
// and falls back to the product default.
type GormCatalogReader struct {
	db *gorm.DB
}

// NewGormCatalogReader creates a new GORM catalog reader.
func NewGormCatalogReader(db *gorm.DB) *GormCatalogReader {
	return &GormCatalogReader{db: db}
}

// BasePrice resolves the effective base price of a product at a location.
// Returns an ObjectNotFoundError when the location does not exist, or
// when the product does not exist, is inactive, or is marked unavailable
// at the location.
func (r *GormCatalogReader) BasePrice(
	ctx context.Context,
	locationID, productID kernel.UUID,
) (kernel.Money, error) {
	if err := errors.Join(locationID.Validate(), productID.Validate()); err != nil {
		return 0, err
	}

	var location LocationDTO
	err := r.db.WithContext(ctx).First(&location, "id = ?", locationID.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, errs.NewObjectNotFoundError("location", locationID.String())
		}
		return 0, err
	}

	var row struct {
		BasePrice     int64
		IsActive      bool
		IsAvailable   *bool
		PriceOverride *int64
	}

	err = r.db.WithContext(ctx).Raw(`
		SELECT
			p.base_price,
			p.is_active,
			lp.is_available,
			lp.price_override
		FROM products p
		LEFT JOIN location_products lp
			ON lp.product_id = p.id AND lp.location_id = ?
		WHERE p.id = ?
	`, locationID.Bytes(), productID.Bytes()).Scan(&row).Error
	if err != nil {
		return 0, err
	}

	if !row.IsActive {
		return 0, errs.NewObjectNotFoundError("product", productID.String())
	}
	if row.IsAvailable != nil && !*row.IsAvailable {
		return 0, errs.NewObjectNotFoundError("product", productID.String())
	}

	if row.PriceOverride != nil {
		return kernel.NewMoney(*row.PriceOverride)
	}
	return kernel.NewMoney(row.BasePrice)
}
