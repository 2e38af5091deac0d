// Package identityrepo resolves account display data for attribution.
package identityrepo

import (
	"context"

	"ordering/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserDTO represents the account slice needed for order attribution.
type UserDTO struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	FirstName string
	LastName  string
}

// TableName specifies the database table name for users.
func (UserDTO) TableName() string {
	return "users"
}

// GormIdentityReader implements IdentityReader using GORM.
type GormIdentityReader struct {
	db *gorm.DB
}

// NewGormIdentityReader creates a new GORM identity reader.
func NewGormIdentityReader(db *gorm.DB) *GormIdentityReader {
	return &GormIdentityReader{db: db}
}

// FirstNames resolves first names for the given user IDs in one query.
// Unknown IDs are simply absent from the result.
func (r *GormIdentityReader) FirstNames(
	ctx context.Context,
	userIDs []kernel.UUID,
) (map[kernel.UUID]string, error) {
	names := make(map[kernel.UUID]string, len(userIDs))
	if len(userIDs) == 0 {
		return names, nil
	}

	raw := make([]uuid.UUID, 0, len(userIDs))
	for _, id := range userIDs {
		raw = append(raw, id.Bytes())
	}

	var dtos []UserDTO
	if err := r.db.WithContext(ctx).Find(&dtos, "id IN ?", raw).Error; err != nil {
		return nil, err
	}

	for _, dto := range dtos {
		id, err := kernel.UUIDFromBytes(dto.ID[:])
		if err != nil {
			return nil, err
		}
		names[id] = dto.FirstName
	}

	return names, nil
}
