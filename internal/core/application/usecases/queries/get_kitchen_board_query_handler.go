package queries

import (
	"context"
	"time"

	"ordering/internal/core/domain/model/kernel"
	"ordering/internal/core/domain/model/order"
	"ordering/internal/core/domain/services"
	"ordering/internal/core/ports"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetKitchenBoardQueryHandler builds the kitchen display state for a
// location. It reads the kitchen queue (accepted, preparing, ready)
// straight from the database, resolves display names through the identity
// reader, and delegates queue derivation to the KitchenBoard service so
// the pushed snapshot path produces the identical board.
type GetKitchenBoardQueryHandler struct {
	db       *gorm.DB
	identity ports.IdentityReader
	board    services.KitchenBoard
}

// NewGetKitchenBoardQueryHandler creates a handler for kitchen board queries.
func NewGetKitchenBoardQueryHandler(
	db *gorm.DB,
	identity ports.IdentityReader,
) GetKitchenBoardQueryHandler {
	return GetKitchenBoardQueryHandler{
		db:       db,
		identity: identity,
		board:    services.NewKitchenBoard(),
	}
}

// Handle executes the query and returns the derived board.
func (h GetKitchenBoardQueryHandler) Handle(
	ctx context.Context,
	query GetKitchenBoardQuery,
) (services.Board, error) {
	if err := query.Validate(); err != nil {
		return services.Board{}, err
	}

	orders, userIDs, err := h.loadKitchenQueue(ctx, query.LocationID())
	if err != nil {
		return services.Board{}, err
	}

	firstNames := map[kernel.UUID]string{}
	if len(userIDs) > 0 {
		firstNames, err = h.identity.FirstNames(ctx, userIDs)
		if err != nil {
			// Display attribution is cosmetic; board correctness wins.
			firstNames = map[kernel.UUID]string{}
		}
	}

	return h.board.Build(orders, firstNames, time.Now().UTC()), nil
}

// loadKitchenQueue reads the display-relevant slice of order state. Money
// fields are not selected; the board never shows amounts.
func (h GetKitchenBoardQueryHandler) loadKitchenQueue(
	ctx context.Context,
	locationID kernel.UUID,
) ([]*order.Order, []kernel.UUID, error) {
	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			order_number,
			user_id,
			customer_name,
			status,
			created_at,
			accepted_at,
			ready_at
		FROM orders
		WHERE location_id = ?
		  AND status IN (?, ?, ?)
	`, locationID.Bytes(),
		order.Accepted.String(), order.Preparing.String(), order.Ready.String(),
	).Rows()
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	var orders []*order.Order
	var userIDs []kernel.UUID

	for rows.Next() {
		var id uuid.UUID
		var userID *uuid.UUID
		var orderNumber int
		var customerName, status string
		var createdAt time.Time
		var acceptedAt, readyAt *time.Time

		err = rows.Scan(
			&id,
			&orderNumber,
			&userID,
			&customerName,
			&status,
			&createdAt,
			&acceptedAt,
			&readyAt,
		)
		if err != nil {
			return nil, nil, err
		}

		orderID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, nil, idErr
		}

		var linkedUser *kernel.UUID
		if userID != nil {
			uid, uidErr := kernel.UUIDFromBytes(userID[:])
			if uidErr != nil {
				return nil, nil, uidErr
			}
			linkedUser = &uid
			userIDs = append(userIDs, uid)
		}

		orderStatus, statusErr := order.StatusFromString(status)
		if statusErr != nil {
			return nil, nil, statusErr
		}

		o, restoreErr := order.RestoreOrder(
			orderID, orderNumber, locationID, linkedUser,
			orderStatus, order.PaymentPaid,
			kernel.Money(0), kernel.Money(0), nil,
			customerName, "",
			createdAt,
			acceptedAt, nil, readyAt, nil, nil,
			nil,
		)
		if restoreErr != nil {
			return nil, nil, restoreErr
		}
		orders = append(orders, o)
	}

	if err = rows.Err(); err != nil {
		return nil, nil, err
	}

	return orders, userIDs, nil
}
