package queries

import (
	"errors"
	"time"

	"ordering/internal/core/domain/model/kernel"
	"ordering/internal/core/domain/model/order"
	"ordering/internal/pkg/guard"
)

var (
	ErrGetActiveOrdersQueryIsNotConstructed = errors.New(
		"GetActiveOrdersQuery must be created via NewGetActiveOrdersQuery constructor",
	)
)

// GetActiveOrdersQuery retrieves a location's in-flight orders for the
// staff dashboard: everything that is paid for but not yet handed out or
// cancelled.
//
// Example:
//
//	query, err := NewGetActiveOrdersQuery(locationID)
//	if err != nil {
//	    return fmt.Errorf("invalid location: %w", err)
//	}
//	active, err := handler.Handle(ctx, query)
type GetActiveOrdersQuery struct {
	locationID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetActiveOrdersQuery creates a query for a location's active orders.
func NewGetActiveOrdersQuery(locationID kernel.UUID) (GetActiveOrdersQuery, error) {
	if err := locationID.Validate(); err != nil {
		return GetActiveOrdersQuery{}, err
	}
	return GetActiveOrdersQuery{
		locationID: locationID,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetActiveOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetActiveOrdersQueryIsNotConstructed)
}

// LocationID returns the location whose orders are listed.
func (q GetActiveOrdersQuery) LocationID() kernel.UUID {
	return q.locationID
}

// GetActiveOrdersQueryResponse is one row of the staff dashboard list.
type GetActiveOrdersQueryResponse struct {
	ID            kernel.UUID
	OrderNumber   int
	Status        order.Status
	PaymentStatus order.PaymentStatus
	CustomerName  string
	TotalAmount   kernel.Money
	ItemCount     int
	CreatedAt     time.Time
}
