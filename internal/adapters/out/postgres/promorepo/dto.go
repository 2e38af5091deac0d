// Package promorepo persists promocodes and their redemption counters.
package promorepo

import (
	"time"

	"ordering/internal/core/domain/model/kernel"
	"ordering/internal/core/domain/model/promocode"

	"github.com/google/uuid"
)

// PromocodeDTO represents the database structure for promocodes.
// UsedCount is only ever changed through the conditional redemption
// update, never through a full row write.
type PromocodeDTO struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Code         string    `gorm:"uniqueIndex;not null"`
	DiscountType string    `gorm:"type:varchar(16);not null"`
	Value        int64     `gorm:"not null"`
	Scope        string    `gorm:"type:varchar(16);not null"`
	LocationID   *uuid.UUID `gorm:"type:uuid"`
	StartsAt     *time.Time
	EndsAt       *time.Time
	UsageLimit   int  `gorm:"not null"`
	UsedCount    int  `gorm:"not null;default:0"`
	IsActive     bool `gorm:"not null;default:true"`
}

// TableName specifies the database table name for promocodes.
func (PromocodeDTO) TableName() string {
	return "promocodes"
}

// fromDomain converts a promocode aggregate to its database representation.
func fromDomain(p *promocode.Promocode) PromocodeDTO {
	var locationID *uuid.UUID
	if id := p.LocationID(); id != nil {
		raw := id.Bytes()
		locationID = &raw
	}

	return PromocodeDTO{
		ID:           p.ID().Bytes(),
		Code:         p.Code(),
		DiscountType: string(p.DiscountType()),
		Value:        p.Value(),
		Scope:        string(p.Scope()),
		LocationID:   locationID,
		StartsAt:     p.StartsAt(),
		EndsAt:       p.EndsAt(),
		UsageLimit:   p.UsageLimit(),
		UsedCount:    p.UsedCount(),
		IsActive:     p.IsActive(),
	}
}

// toDomain converts a database DTO to a promocode aggregate using RestorePromocode.
func toDomain(dto PromocodeDTO) (*promocode.Promocode, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	var locationID *kernel.UUID
	if dto.LocationID != nil {
		lID, locErr := kernel.UUIDFromBytes((*dto.LocationID)[:])
		if locErr != nil {
			return nil, locErr
		}
		locationID = &lID
	}

	return promocode.RestorePromocode(
		id,
		dto.Code,
		promocode.DiscountType(dto.DiscountType),
		dto.Value,
		promocode.Scope(dto.Scope),
		locationID,
		dto.StartsAt,
		dto.EndsAt,
		dto.UsageLimit,
		dto.UsedCount,
		dto.IsActive,
	)
}
