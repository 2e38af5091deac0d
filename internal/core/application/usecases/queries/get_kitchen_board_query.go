package queries

import (
	"errors"

	"ordering/internal/core/domain/model/kernel"
	"ordering/internal/pkg/guard"
)

var (
	ErrGetKitchenBoardQueryIsNotConstructed = errors.New(
		"GetKitchenBoardQuery must be created via NewGetKitchenBoardQuery constructor",
	)
)

// GetKitchenBoardQuery retrieves the derived kitchen display state for one
// location: the preparing queue, the ready queue, and their counts.
// The same result backs both the HTTP board endpoint and the pushed
// kitchen_snapshot event.
type GetKitchenBoardQuery struct {
	locationID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetKitchenBoardQuery creates a query for a location's kitchen board.
func NewGetKitchenBoardQuery(locationID kernel.UUID) (GetKitchenBoardQuery, error) {
	if err := locationID.Validate(); err != nil {
		return GetKitchenBoardQuery{}, err
	}
	return GetKitchenBoardQuery{
		locationID: locationID,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetKitchenBoardQuery) Validate() error {
	return q.guard.Validate(ErrGetKitchenBoardQueryIsNotConstructed)
}

// LocationID returns the location whose board is built.
func (q GetKitchenBoardQuery) LocationID() kernel.UUID {
	return q.locationID
}
