package http

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"ordering/internal/adapters/in/ws"
	"ordering/internal/core/application/usecases/commands"
	"ordering/internal/core/application/usecases/queries"
	"ordering/internal/core/domain/model/kernel"
	"ordering/internal/core/domain/model/order"
	"ordering/internal/core/domain/model/promocode"
	"ordering/internal/core/domain/model/stock"
	"ordering/internal/core/domain/services"
	"ordering/internal/pkg/errs"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

// Server implements the HTTP API for the ordering core.
// It coordinates between HTTP handlers and application use cases.
type Server struct {
	// Command handlers
	createOrderHandler     commands.CreateOrderCommandHandler
	transitionOrderHandler commands.TransitionOrderCommandHandler
	confirmPaymentHandler  commands.ConfirmPaymentCommandHandler
	adjustStockHandler     commands.AdjustStockCommandHandler
	updateStockHandler     commands.UpdateStockCommandHandler

	// Query handlers
	getActiveOrdersHandler queries.GetActiveOrdersQueryHandler
	getKitchenBoardHandler queries.GetKitchenBoardQueryHandler

	hub      *ws.Hub
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(
	createOrderHandler commands.CreateOrderCommandHandler,
	transitionOrderHandler commands.TransitionOrderCommandHandler,
	confirmPaymentHandler commands.ConfirmPaymentCommandHandler,
	adjustStockHandler commands.AdjustStockCommandHandler,
	updateStockHandler commands.UpdateStockCommandHandler,
	getActiveOrdersHandler queries.GetActiveOrdersQueryHandler,
	getKitchenBoardHandler queries.GetKitchenBoardQueryHandler,
	hub *ws.Hub,
	logger *slog.Logger,
) *Server {
	return &Server{
		createOrderHandler:     createOrderHandler,
		transitionOrderHandler: transitionOrderHandler,
		confirmPaymentHandler:  confirmPaymentHandler,
		adjustStockHandler:     adjustStockHandler,
		updateStockHandler:     updateStockHandler,
		getActiveOrdersHandler: getActiveOrdersHandler,
		getKitchenBoardHandler: getKitchenBoardHandler,
		hub:                    hub,
		upgrader: websocket.Upgrader{
			// Staff dashboards and kitchen displays run on other origins.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		logger: logger,
	}
}

// RegisterRoutes attaches all API routes to the echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api/v1")

	api.POST("/orders", s.CreateOrder)
	api.POST("/orders/:id/status", s.TransitionOrder)
	api.POST("/orders/:id/payment", s.ConfirmPayment)

	api.GET("/locations/:id/orders/active", s.GetActiveOrders)
	api.GET("/locations/:id/kitchen/board", s.GetKitchenBoard)

	api.PATCH("/stock/:id/adjust", s.AdjustStock)
	api.PATCH("/stock/:id", s.UpdateStock)

	api.GET("/realtime", s.Realtime)
	api.GET("/realtime/stats", s.RealtimeStats)

	e.GET("/health", s.Health)
}

// CreateOrder handles POST /api/v1/orders - checks out a new order.
func (s *Server) CreateOrder(ctx echo.Context) error {
	var req createOrderRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, errorResponse{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	cmd, err := req.toCommand()
	if err != nil {
		return s.writeError(ctx, err)
	}

	created, err := s.createOrderHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.writeError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, newOrderResponse(created))
}

// TransitionOrder handles POST /api/v1/orders/:id/status - moves an order
// through the staff lifecycle.
func (s *Server) TransitionOrder(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return s.writeError(ctx, errs.NewValueIsInvalidErrorWithCause("order id", err))
	}

	var req transitionOrderRequest
	if err = ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, errorResponse{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	target, err := order.StatusFromString(req.Status)
	if err != nil {
		return s.writeError(ctx, err)
	}

	cmd, err := commands.NewTransitionOrderCommand(orderID, target, req.CancellationReason, req.Actor)
	if err != nil {
		return s.writeError(ctx, err)
	}

	updated, err := s.transitionOrderHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, newOrderResponse(updated))
}

// ConfirmPayment handles POST /api/v1/orders/:id/payment - records a
// successful payment and moves the order into the kitchen pipeline.
func (s *Server) ConfirmPayment(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return s.writeError(ctx, errs.NewValueIsInvalidErrorWithCause("order id", err))
	}

	cmd, err := commands.NewConfirmPaymentCommand(orderID)
	if err != nil {
		return s.writeError(ctx, err)
	}

	updated, err := s.confirmPaymentHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, newOrderResponse(updated))
}

// GetActiveOrders handles GET /api/v1/locations/:id/orders/active - lists
// a location's in-flight orders for the staff dashboard.
func (s *Server) GetActiveOrders(ctx echo.Context) error {
	locationID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return s.writeError(ctx, errs.NewValueIsInvalidErrorWithCause("location id", err))
	}

	query, err := queries.NewGetActiveOrdersQuery(locationID)
	if err != nil {
		return s.writeError(ctx, err)
	}

	rows, err := s.getActiveOrdersHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.writeError(ctx, err)
	}

	response := make([]activeOrderResponse, len(rows))
	for i, row := range rows {
		response[i] = activeOrderResponse{
			ID:            row.ID.String(),
			OrderNumber:   row.OrderNumber,
			Status:        row.Status.String(),
			PaymentStatus: row.PaymentStatus.String(),
			CustomerName:  row.CustomerName,
			TotalAmount:   row.TotalAmount.Cents(),
			ItemCount:     row.ItemCount,
			CreatedAt:     row.CreatedAt,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// GetKitchenBoard handles GET /api/v1/locations/:id/kitchen/board - the
// customer-facing pickup board for a location.
func (s *Server) GetKitchenBoard(ctx echo.Context) error {
	locationID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return s.writeError(ctx, errs.NewValueIsInvalidErrorWithCause("location id", err))
	}

	query, err := queries.NewGetKitchenBoardQuery(locationID)
	if err != nil {
		return s.writeError(ctx, err)
	}

	board, err := s.getKitchenBoardHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, newBoardResponse(board))
}

// AdjustStock handles PATCH /api/v1/stock/:id/adjust - applies a signed
// delta to a ledger row.
func (s *Server) AdjustStock(ctx echo.Context) error {
	ledgerID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return s.writeError(ctx, errs.NewValueIsInvalidErrorWithCause("location product id", err))
	}

	var req adjustStockRequest
	if err = ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, errorResponse{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	cmd, err := commands.NewAdjustStockCommand(ledgerID, req.Delta)
	if err != nil {
		return s.writeError(ctx, err)
	}

	updated, err := s.adjustStockHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, newStockResponse(updated))
}

// UpdateStock handles PATCH /api/v1/stock/:id - manual overrides of a
// ledger row. Absent fields retain their previous values.
func (s *Server) UpdateStock(ctx echo.Context) error {
	ledgerID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return s.writeError(ctx, errs.NewValueIsInvalidErrorWithCause("location product id", err))
	}

	var req updateStockRequest
	if err = ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, errorResponse{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	cmd, err := commands.NewUpdateStockCommand(ledgerID, stock.Update{
		Quantity:    req.Quantity,
		IsAvailable: req.IsAvailable,
		Reason:      req.Reason,
	})
	if err != nil {
		return s.writeError(ctx, err)
	}

	updated, err := s.updateStockHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, newStockResponse(updated))
}

// Realtime handles GET /api/v1/realtime - upgrades the connection to a
// websocket and services it until it closes. The client picks its
// location and audience with query parameters or an in-band subscribe
// message; sending another subscribe message rebinds the connection.
func (s *Server) Realtime(ctx echo.Context) error {
	locationParam := ctx.QueryParam("location")
	audienceParam := ctx.QueryParam("audience")

	conn, err := s.upgrader.Upgrade(ctx.Response(), ctx.Request(), nil)
	if err != nil {
		// Upgrade already wrote the HTTP error response.
		return nil
	}

	client := ws.NewClient(s.hub, conn, s.logger)

	if locationParam != "" && audienceParam != "" {
		locationID, locErr := kernel.UUIDFromString(locationParam)
		audience, audErr := ws.ParseAudience(audienceParam)
		if locErr == nil && audErr == nil {
			s.hub.Subscribe(client, locationID, audience)
		} else {
			s.logger.Warn("ignoring invalid realtime query subscription",
				"location", locationParam, "audience", audienceParam)
		}
	}

	client.Run()
	return nil
}

// RealtimeStats handles GET /api/v1/realtime/stats - subscriber counts
// for monitoring.
func (s *Server) RealtimeStats(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, s.hub.Stats())
}

// Health handles GET /health.
func (s *Server) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// writeError maps domain and application errors onto HTTP status codes.
// Infrastructure details never leak to the client.
func (s *Server) writeError(ctx echo.Context, err error) error {
	var invalidTransition *order.InvalidTransitionError
	var invalidPromocode *promocode.InvalidPromocodeError

	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		return ctx.JSON(http.StatusNotFound, errorResponse{
			Code:    http.StatusNotFound,
			Message: err.Error(),
		})
	case errors.As(err, &invalidTransition), errors.As(err, &invalidPromocode):
		return ctx.JSON(http.StatusUnprocessableEntity, errorResponse{
			Code:    http.StatusUnprocessableEntity,
			Message: err.Error(),
		})
	case errors.Is(err, errs.ErrConcurrencyConflict):
		return ctx.JSON(http.StatusConflict, errorResponse{
			Code:    http.StatusConflict,
			Message: "Order was modified concurrently, retry the request",
		})
	case errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		return ctx.JSON(http.StatusBadRequest, errorResponse{
			Code:    http.StatusBadRequest,
			Message: err.Error(),
		})
	default:
		s.logger.Error("request failed", "error", err)
		return ctx.JSON(http.StatusServiceUnavailable, errorResponse{
			Code:    http.StatusServiceUnavailable,
			Message: "Service temporarily unavailable",
		})
	}
}

type errorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type createOrderRequest struct {
	LocationID   string             `json:"location_id"`
	UserID       *string            `json:"user_id,omitempty"`
	CustomerName string             `json:"customer_name,omitempty"`
	Promocode    string             `json:"promocode,omitempty"`
	Items        []orderItemRequest `json:"items"`
}

type orderItemRequest struct {
	ProductID string                `json:"product_id"`
	Quantity  int                   `json:"quantity"`
	Modifiers []itemModifierRequest `json:"modifiers,omitempty"`
}

type itemModifierRequest struct {
	ModifierOptionID string `json:"modifier_option_id"`
	Price            int64  `json:"price"`
}

func (r createOrderRequest) toCommand() (commands.CreateOrderCommand, error) {
	locationID, err := kernel.UUIDFromString(r.LocationID)
	if err != nil {
		return commands.CreateOrderCommand{}, errs.NewValueIsInvalidErrorWithCause("location id", err)
	}

	var userID *kernel.UUID
	if r.UserID != nil {
		id, uidErr := kernel.UUIDFromString(*r.UserID)
		if uidErr != nil {
			return commands.CreateOrderCommand{}, errs.NewValueIsInvalidErrorWithCause("user id", uidErr)
		}
		userID = &id
	}

	items := make([]commands.ItemSpec, 0, len(r.Items))
	for _, item := range r.Items {
		productID, pidErr := kernel.UUIDFromString(item.ProductID)
		if pidErr != nil {
			return commands.CreateOrderCommand{}, errs.NewValueIsInvalidErrorWithCause("product id", pidErr)
		}

		modifiers := make([]commands.ItemModifierSpec, 0, len(item.Modifiers))
		for _, m := range item.Modifiers {
			optionID, modErr := kernel.UUIDFromString(m.ModifierOptionID)
			if modErr != nil {
				return commands.CreateOrderCommand{}, errs.NewValueIsInvalidErrorWithCause("modifier option id", modErr)
			}
			price, priceErr := kernel.NewMoney(m.Price)
			if priceErr != nil {
				return commands.CreateOrderCommand{}, priceErr
			}
			modifiers = append(modifiers, commands.ItemModifierSpec{
				ModifierOptionID: optionID,
				Price:            price,
			})
		}

		items = append(items, commands.ItemSpec{
			ProductID: productID,
			Quantity:  item.Quantity,
			Modifiers: modifiers,
		})
	}

	return commands.NewCreateOrderCommand(
		kernel.NewUUID(),
		locationID,
		userID,
		r.CustomerName,
		items,
		r.Promocode,
	)
}

type transitionOrderRequest struct {
	Status             string `json:"status"`
	CancellationReason string `json:"cancellation_reason,omitempty"`
	Actor              string `json:"actor,omitempty"`
}

type adjustStockRequest struct {
	Delta int `json:"delta"`
}

type updateStockRequest struct {
	Quantity    *int    `json:"quantity,omitempty"`
	IsAvailable *bool   `json:"is_available,omitempty"`
	Reason      *string `json:"reason,omitempty"`
}

type orderResponse struct {
	ID                 string     `json:"id"`
	OrderNumber        int        `json:"order_number"`
	LocationID         string     `json:"location_id"`
	Status             string     `json:"status"`
	PaymentStatus      string     `json:"payment_status"`
	CustomerName       string     `json:"customer_name,omitempty"`
	Subtotal           int64      `json:"subtotal"`
	DiscountAmount     int64      `json:"discount_amount"`
	TotalAmount        int64      `json:"total_amount"`
	CancellationReason string     `json:"cancellation_reason,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	AcceptedAt         *time.Time `json:"accepted_at,omitempty"`
	PreparingAt        *time.Time `json:"preparing_at,omitempty"`
	ReadyAt            *time.Time `json:"ready_at,omitempty"`
	CompletedAt        *time.Time `json:"completed_at,omitempty"`
	CancelledAt        *time.Time `json:"cancelled_at,omitempty"`
}

func newOrderResponse(o *order.Order) orderResponse {
	return orderResponse{
		ID:                 o.ID().String(),
		OrderNumber:        o.OrderNumber(),
		LocationID:         o.LocationID().String(),
		Status:             o.Status().String(),
		PaymentStatus:      o.PaymentStatus().String(),
		CustomerName:       o.CustomerName(),
		Subtotal:           o.Subtotal().Cents(),
		DiscountAmount:     o.DiscountAmount().Cents(),
		TotalAmount:        o.TotalAmount().Cents(),
		CancellationReason: o.CancellationReason(),
		CreatedAt:          o.CreatedAt(),
		AcceptedAt:         o.AcceptedAt(),
		PreparingAt:        o.PreparingAt(),
		ReadyAt:            o.ReadyAt(),
		CompletedAt:        o.CompletedAt(),
		CancelledAt:        o.CancelledAt(),
	}
}

type activeOrderResponse struct {
	ID            string    `json:"id"`
	OrderNumber   int       `json:"order_number"`
	Status        string    `json:"status"`
	PaymentStatus string    `json:"payment_status"`
	CustomerName  string    `json:"customer_name,omitempty"`
	TotalAmount   int64     `json:"total_amount"`
	ItemCount     int       `json:"item_count"`
	CreatedAt     time.Time `json:"created_at"`
}

type stockResponse struct {
	ID                string `json:"id"`
	LocationID        string `json:"location_id"`
	ProductID         string `json:"product_id"`
	StockQuantity     int    `json:"stock_quantity"`
	IsAvailable       bool   `json:"is_available"`
	UnavailableReason string `json:"unavailable_reason,omitempty"`
	StockStatus       string `json:"stock_status"`
}

func newStockResponse(lp *stock.LocationProduct) stockResponse {
	return stockResponse{
		ID:                lp.ID().String(),
		LocationID:        lp.LocationID().String(),
		ProductID:         lp.ProductID().String(),
		StockQuantity:     lp.StockQuantity(),
		IsAvailable:       lp.IsAvailable(),
		UnavailableReason: lp.UnavailableReason(),
		StockStatus:       string(lp.Status()),
	}
}

type boardEntryResponse struct {
	OrderID     string `json:"order_id"`
	OrderNumber int    `json:"order_number"`
	DisplayName string `json:"display_name"`
	Status      string `json:"status"`
	WaitMinutes int    `json:"wait_minutes"`
}

type boardResponse struct {
	Preparing      []boardEntryResponse `json:"preparing"`
	Ready          []boardEntryResponse `json:"ready"`
	PreparingCount int                  `json:"preparing_count"`
	ReadyCount     int                  `json:"ready_count"`
}

func newBoardResponse(board services.Board) boardResponse {
	response := boardResponse{
		Preparing:      make([]boardEntryResponse, 0, len(board.Preparing)),
		Ready:          make([]boardEntryResponse, 0, len(board.Ready)),
		PreparingCount: board.Stats.PreparingCount,
		ReadyCount:     board.Stats.ReadyCount,
	}
	for _, entry := range board.Preparing {
		response.Preparing = append(response.Preparing, newBoardEntryResponse(entry))
	}
	for _, entry := range board.Ready {
		response.Ready = append(response.Ready, newBoardEntryResponse(entry))
	}
	return response
}

func newBoardEntryResponse(entry services.BoardEntry) boardEntryResponse {
	return boardEntryResponse{
		OrderID:     entry.OrderID.String(),
		OrderNumber: entry.OrderNumber,
		DisplayName: entry.DisplayName,
		Status:      entry.Status.String(),
		WaitMinutes: entry.WaitMinutes,
	}
}
