package ports

import (
	"context"

	"ordering/internal/core/domain/model/kernel"
)

// CatalogReader resolves product pricing for the checkout flow. The
// catalog itself (product/category CRUD) is an external collaborator;
// this core only reads resolved prices from it.
type CatalogReader interface {
	// BasePrice resolves the base price of a product at a location:
	// the location-specific override when one exists, else the product's
	// default price. Returns ObjectNotFoundError for unknown products or
	// locations.
	BasePrice(ctx context.Context, locationID, productID kernel.UUID) (kernel.Money, error)
}
