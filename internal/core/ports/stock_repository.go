package ports

import (
	"context"

	"ordering/internal/core/domain/model/kernel"
	"ordering/internal/core/domain/model/stock"
)

// StockRepository defines the persistence contract for the per-location
// stock ledger.
type StockRepository interface {
	// Get retrieves a ledger row by id.
	Get(ctx context.Context, id kernel.UUID) (*stock.LocationProduct, error)

	// GetByLocationAndProduct retrieves the ledger row for a product at a
	// location, used for price override resolution at checkout.
	GetByLocationAndProduct(ctx context.Context, locationID, productID kernel.UUID) (*stock.LocationProduct, error)

	// Update persists changes to a ledger row.
	Update(ctx context.Context, aggregate *stock.LocationProduct) error

	// UpdateIfQuantity persists a ledger row only while its stored
	// quantity still equals expectedQuantity, so concurrent relative
	// adjustments cannot overwrite each other. Returns
	// ConcurrencyConflictError when the stored quantity has moved.
	UpdateIfQuantity(ctx context.Context, aggregate *stock.LocationProduct, expectedQuantity int) error
}
