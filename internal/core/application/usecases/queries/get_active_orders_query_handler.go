package queries

import (
	"context"
	"time"

	"ordering/internal/core/domain/model/kernel"
	"ordering/internal/core/domain/model/order"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetActiveOrdersQueryHandler reads a location's active orders straight
// from the database, bypassing the aggregate layer. Active means paid,
// accepted, preparing, or ready; orders awaiting payment and terminal
// orders are excluded.
type GetActiveOrdersQueryHandler struct {
	db *gorm.DB
}

// NewGetActiveOrdersQueryHandler creates a handler for active order queries.
// Requires a GORM database connection for query execution.
func NewGetActiveOrdersQueryHandler(db *gorm.DB) GetActiveOrdersQueryHandler {
	return GetActiveOrdersQueryHandler{db: db}
}

// Handle executes the query and returns the location's active orders
// ordered by creation time ascending, oldest first.
func (h GetActiveOrdersQueryHandler) Handle(
	ctx context.Context,
	query GetActiveOrdersQuery,
) ([]GetActiveOrdersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	orders := make([]GetActiveOrdersQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			o.id,
			o.order_number,
			o.status,
			o.payment_status,
			o.customer_name,
			o.total_amount,
			(SELECT COUNT(*) FROM order_items i WHERE i.order_id = o.id) AS item_count,
			o.created_at
		FROM orders o
		WHERE o.location_id = ?
		  AND o.status IN (?, ?, ?, ?)
		ORDER BY o.created_at
	`, query.LocationID().Bytes(),
		order.Paid.String(), order.Accepted.String(), order.Preparing.String(), order.Ready.String(),
	).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var resp GetActiveOrdersQueryResponse
		var id uuid.UUID
		var status, paymentStatus string
		var totalAmount int64
		var createdAt time.Time

		err = rows.Scan(
			&id,
			&resp.OrderNumber,
			&status,
			&paymentStatus,
			&resp.CustomerName,
			&totalAmount,
			&resp.ItemCount,
			&createdAt,
		)
		if err != nil {
			return nil, err
		}

		orderID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		resp.ID = orderID

		resp.Status, err = order.StatusFromString(status)
		if err != nil {
			return nil, err
		}
		resp.PaymentStatus, err = order.PaymentStatusFromString(paymentStatus)
		if err != nil {
			return nil, err
		}

		resp.TotalAmount, err = kernel.NewMoney(totalAmount)
		if err != nil {
			return nil, err
		}
		resp.CreatedAt = createdAt

		orders = append(orders, resp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}
