package ports

import (
	"context"

	"ordering/internal/core/domain/model/kernel"
	"ordering/internal/core/domain/model/promocode"
)

// PromocodeRepository defines the persistence contract for promocodes.
type PromocodeRepository interface {
	// GetByCode retrieves a promocode by its customer-facing code.
	// Returns an ObjectNotFoundError for unknown codes.
	GetByCode(ctx context.Context, code string) (*promocode.Promocode, error)

	// Redeem increments the promocode's usage count with a single
	// conditional update guarded by usedCount < usageLimit. It never
	// reads then writes, so two concurrent checkouts against the last
	// remaining use cannot both succeed; the loser receives an
	// InvalidPromocodeError with the exhausted reason. Called inside the
	// order-creation transaction so the increment commits atomically with
	// the order write.
	Redeem(ctx context.Context, id kernel.UUID) error
}
