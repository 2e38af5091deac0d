// Package stockrepo persists the per-location stock ledger.
package stockrepo

import (
	"ordering/internal/core/domain/model/kernel"
	"ordering/internal/core/domain/model/stock"

	"github.com/google/uuid"
)

// LocationProductDTO represents one row of the stock ledger. A product
// appears at most once per location.
type LocationProductDTO struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey"`
	LocationID        uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_location_product;not null"`
	ProductID         uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_location_product;not null"`
	StockQuantity     int       `gorm:"not null"`
	MinStockThreshold int       `gorm:"not null"`
	IsAvailable       bool      `gorm:"not null"`
	UnavailableReason string
	PriceOverride     *int64
}

// TableName specifies the database table name for the stock ledger.
func (LocationProductDTO) TableName() string {
	return "location_products"
}

// fromDomain converts a ledger row aggregate to its database representation.
func fromDomain(lp *stock.LocationProduct) LocationProductDTO {
	var override *int64
	if price := lp.PriceOverride(); price != nil {
		cents := price.Cents()
		override = &cents
	}

	return LocationProductDTO{
		ID:                lp.ID().Bytes(),
		LocationID:        lp.LocationID().Bytes(),
		ProductID:         lp.ProductID().Bytes(),
		StockQuantity:     lp.StockQuantity(),
		MinStockThreshold: lp.MinStockThreshold(),
		IsAvailable:       lp.IsAvailable(),
		UnavailableReason: lp.UnavailableReason(),
		PriceOverride:     override,
	}
}

// toDomain converts a database DTO to a ledger row aggregate.
func toDomain(dto LocationProductDTO) (*stock.LocationProduct, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	locationID, err := kernel.UUIDFromBytes(dto.LocationID[:])
	if err != nil {
		return nil, err
	}

	productID, err := kernel.UUIDFromBytes(dto.ProductID[:])
	if err != nil {
		return nil, err
	}

	var override *kernel.Money
	if dto.PriceOverride != nil {
		price, priceErr := kernel.NewMoney(*dto.PriceOverride)
		if priceErr != nil {
			return nil, priceErr
		}
		override = &price
	}

	return stock.RestoreLocationProduct(
		id, locationID, productID,
		dto.StockQuantity, dto.MinStockThreshold,
		dto.IsAvailable, dto.UnavailableReason,
		override,
	)
}
