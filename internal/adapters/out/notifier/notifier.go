// Package notifier fans committed domain changes out to realtime
// subscribers through the websocket hub.
package notifier

import (
	"context"
	"log/slog"
	"time"

	"ordering/internal/adapters/in/ws"
	"ordering/internal/core/application/usecases/queries"
	"ordering/internal/core/domain/model/kernel"
	"ordering/internal/core/domain/model/order"
	"ordering/internal/core/domain/model/stock"
	"ordering/internal/core/domain/services"
)

// HubNotifier implements the event publisher port over the in-process
// hub. Every method is called strictly after the owning transaction
// committed; failures are logged and swallowed because realtime delivery
// is best-effort by contract.
type HubNotifier struct {
	hub   *ws.Hub
	board queries.GetKitchenBoardQueryHandler
	log   *slog.Logger
}

// NewHubNotifier creates a notifier over the given hub. The board query
// handler backs kitchen snapshots, so pushed snapshots and the HTTP board
// endpoint always agree.
func NewHubNotifier(
	hub *ws.Hub,
	board queries.GetKitchenBoardQueryHandler,
	log *slog.Logger,
) *HubNotifier {
	return &HubNotifier{hub: hub, board: board, log: log}
}

type boardEntryPayload struct {
	OrderID     string `json:"order_id"`
	OrderNumber int    `json:"order_number"`
	DisplayName string `json:"display_name"`
	Status      string `json:"status"`
	WaitMinutes int    `json:"wait_minutes"`
}

type boardPayload struct {
	Preparing      []boardEntryPayload `json:"preparing"`
	Ready          []boardEntryPayload `json:"ready"`
	PreparingCount int                 `json:"preparing_count"`
	ReadyCount     int                 `json:"ready_count"`
}

func newBoardPayload(board services.Board) boardPayload {
	payload := boardPayload{
		Preparing:      make([]boardEntryPayload, 0, len(board.Preparing)),
		Ready:          make([]boardEntryPayload, 0, len(board.Ready)),
		PreparingCount: board.Stats.PreparingCount,
		ReadyCount:     board.Stats.ReadyCount,
	}
	for _, entry := range board.Preparing {
		payload.Preparing = append(payload.Preparing, newBoardEntryPayload(entry))
	}
	for _, entry := range board.Ready {
		payload.Ready = append(payload.Ready, newBoardEntryPayload(entry))
	}
	return payload
}

func newBoardEntryPayload(entry services.BoardEntry) boardEntryPayload {
	return boardEntryPayload{
		OrderID:     entry.OrderID.String(),
		OrderNumber: entry.OrderNumber,
		DisplayName: entry.DisplayName,
		Status:      entry.Status.String(),
		WaitMinutes: entry.WaitMinutes,
	}
}

type orderPayload struct {
	OrderID       string    `json:"order_id"`
	OrderNumber   int       `json:"order_number"`
	Status        string    `json:"status"`
	PaymentStatus string    `json:"payment_status"`
	CustomerName  string    `json:"customer_name,omitempty"`
	TotalAmount   int64     `json:"total_amount"`
	CreatedAt     time.Time `json:"created_at"`
}

func newOrderPayload(o *order.Order) orderPayload {
	return orderPayload{
		OrderID:       o.ID().String(),
		OrderNumber:   o.OrderNumber(),
		Status:        o.Status().String(),
		PaymentStatus: o.PaymentStatus().String(),
		CustomerName:  o.CustomerName(),
		TotalAmount:   o.TotalAmount().Cents(),
		CreatedAt:     o.CreatedAt(),
	}
}

// PublishNewOrder notifies the location's staff channel of a new order.
func (n *HubNotifier) PublishNewOrder(_ context.Context, o *order.Order) {
	n.hub.Broadcast(o.LocationID(), ws.AudienceStaff, ws.Event{
		Type:    ws.EventNewOrder,
		Payload: newOrderPayload(o),
	})
}

// PublishStatusChanged notifies staff and kitchen displays of a transition.
func (n *HubNotifier) PublishStatusChanged(_ context.Context, o *order.Order) {
	event := ws.Event{
		Type:    ws.EventOrderStatusChanged,
		Payload: newOrderPayload(o),
	}
	n.hub.Broadcast(o.LocationID(), ws.AudienceStaff, event)
	n.hub.Broadcast(o.LocationID(), ws.AudienceKitchenDisplay, event)
}

// PublishOrderReady marks an order ready on the kitchen display channel.
func (n *HubNotifier) PublishOrderReady(_ context.Context, o *order.Order) {
	n.hub.Broadcast(o.LocationID(), ws.AudienceKitchenDisplay, ws.Event{
		Type: ws.EventOrderReady,
		Payload: map[string]any{
			"order_id":     o.ID().String(),
			"order_number": o.OrderNumber(),
		},
	})
}

// PublishOrderCompleted tells kitchen displays to prune a handed-out order.
func (n *HubNotifier) PublishOrderCompleted(_ context.Context, locationID, orderID kernel.UUID) {
	n.hub.Broadcast(locationID, ws.AudienceKitchenDisplay, ws.Event{
		Type: ws.EventOrderCompleted,
		Payload: map[string]any{
			"order_id": orderID.String(),
		},
	})
}

// PublishStockUpdate notifies the staff channel of a ledger change.
func (n *HubNotifier) PublishStockUpdate(_ context.Context, lp *stock.LocationProduct) {
	n.hub.Broadcast(lp.LocationID(), ws.AudienceStaff, ws.Event{
		Type: ws.EventStockUpdate,
		Payload: map[string]any{
			"location_product_id": lp.ID().String(),
			"product_id":          lp.ProductID().String(),
			"stock_quantity":      lp.StockQuantity(),
			"is_available":        lp.IsAvailable(),
			"unavailable_reason":  lp.UnavailableReason(),
			"stock_status":        string(lp.Status()),
		},
	})
}

// PublishKitchenSnapshot pushes the full current board to kitchen
// displays. Snapshots carry complete state rather than diffs, so a
// display that missed events converges on the next snapshot.
func (n *HubNotifier) PublishKitchenSnapshot(ctx context.Context, locationID kernel.UUID) {
	query, err := queries.NewGetKitchenBoardQuery(locationID)
	if err != nil {
		n.log.Error("kitchen snapshot skipped", "error", err)
		return
	}

	board, err := n.board.Handle(ctx, query)
	if err != nil {
		n.log.Error("kitchen snapshot build failed",
			"location_id", locationID.String(), "error", err)
		return
	}

	n.hub.Broadcast(locationID, ws.AudienceKitchenDisplay, ws.Event{
		Type:    ws.EventKitchenSnapshot,
		Payload: newBoardPayload(board),
	})
}
