package ports

import (
	"context"

	"ordering/internal/core/domain/model/kernel"
)

// IdentityReader resolves linked-account display data. Identity is an
// external collaborator; anonymous orders are permitted, so lookups are
// best-effort and a missing account simply yields no entry.
type IdentityReader interface {
	// FirstNames resolves first names for the given user ids. Users that
	// cannot be resolved are absent from the result map.
	FirstNames(ctx context.Context, userIDs []kernel.UUID) (map[kernel.UUID]string, error)
}
