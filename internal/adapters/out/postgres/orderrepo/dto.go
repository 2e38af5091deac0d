// Package orderrepo provides data transfer objects and mapping functions for order persistence.
// This package implements the repository pattern for the order domain aggregate, handling
// the conversion between domain entities and database representations.
package orderrepo

import (
	"time"

	"ordering/internal/core/domain/model/kernel"
	"ordering/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// OrderDTO represents the database structure for persisting order aggregates.
// Status is stored as its lowercase string form so rows stay readable and
// the enum can grow without renumbering.
type OrderDTO struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey"`
	OrderNumber   int        `gorm:"not null"`
	LocationID    uuid.UUID  `gorm:"type:uuid;index;not null"`
	UserID        *uuid.UUID `gorm:"type:uuid;index"`
	Status        string     `gorm:"type:varchar(16);index;not null"`
	PaymentStatus string     `gorm:"type:varchar(16);not null"`

	Subtotal       int64 `gorm:"not null"`
	DiscountAmount int64 `gorm:"not null"`
	TotalAmount    int64 `gorm:"not null"`

	PromocodeID        *uuid.UUID `gorm:"type:uuid"`
	CustomerName       string
	CancellationReason string

	CreatedAt   time.Time `gorm:"not null"`
	AcceptedAt  *time.Time
	PreparingAt *time.Time
	ReadyAt     *time.Time
	CompletedAt *time.Time
	CancelledAt *time.Time

	Items []OrderItemDTO `gorm:"foreignKey:OrderID;references:ID"`
}

// TableName specifies the database table name for order entities.
func (OrderDTO) TableName() string {
	return "orders"
}

// OrderItemDTO represents one persisted order line with its price snapshot.
type OrderItemDTO struct {
	ID         uint      `gorm:"primaryKey"`
	OrderID    uuid.UUID `gorm:"type:uuid;index;not null"`
	ProductID  uuid.UUID `gorm:"type:uuid;not null"`
	Quantity   int       `gorm:"not null"`
	UnitPrice  int64     `gorm:"not null"`
	TotalPrice int64     `gorm:"not null"`

	Modifiers []OrderItemModifierDTO `gorm:"foreignKey:OrderItemID;references:ID"`
}

// TableName specifies the database table name for order items.
func (OrderItemDTO) TableName() string {
	return "order_items"
}

// OrderItemModifierDTO represents one persisted modifier price snapshot.
type OrderItemModifierDTO struct {
	ID               uint      `gorm:"primaryKey"`
	OrderItemID      uint      `gorm:"index;not null"`
	ModifierOptionID uuid.UUID `gorm:"type:uuid;not null"`
	Price            int64     `gorm:"not null"`
}

// TableName specifies the database table name for item modifiers.
func (OrderItemModifierDTO) TableName() string {
	return "order_item_modifiers"
}

// StatusHistoryDTO is one append-only row of the status audit trail.
type StatusHistoryDTO struct {
	ID         uint      `gorm:"primaryKey"`
	OrderID    uuid.UUID `gorm:"type:uuid;index;not null"`
	FromStatus string    `gorm:"type:varchar(16);not null"`
	ToStatus   string    `gorm:"type:varchar(16);not null"`
	Source     string    `gorm:"type:varchar(16);not null"`
	Actor      string
	ChangedAt  time.Time `gorm:"not null"`
}

// TableName specifies the database table name for the audit trail.
func (StatusHistoryDTO) TableName() string {
	return "order_status_history"
}

// OrderCounterDTO holds the per-location order number sequence. One row per
// location, bumped atomically on every checkout.
type OrderCounterDTO struct {
	LocationID uuid.UUID `gorm:"type:uuid;primaryKey"`
	LastNumber int       `gorm:"not null"`
}

// TableName specifies the database table name for order counters.
func (OrderCounterDTO) TableName() string {
	return "order_counters"
}

// fromDomain converts an order domain aggregate to its database representation.
func fromDomain(o *order.Order) OrderDTO {
	dto := OrderDTO{
		ID:                 o.ID().Bytes(),
		OrderNumber:        o.OrderNumber(),
		LocationID:         o.LocationID().Bytes(),
		UserID:             optionalUUID(o.UserID()),
		Status:             o.Status().String(),
		PaymentStatus:      o.PaymentStatus().String(),
		Subtotal:           o.Subtotal().Cents(),
		DiscountAmount:     o.DiscountAmount().Cents(),
		TotalAmount:        o.TotalAmount().Cents(),
		PromocodeID:        optionalUUID(o.PromocodeID()),
		CustomerName:       o.CustomerName(),
		CancellationReason: o.CancellationReason(),
		CreatedAt:          o.CreatedAt(),
		AcceptedAt:         o.AcceptedAt(),
		PreparingAt:        o.PreparingAt(),
		ReadyAt:            o.ReadyAt(),
		CompletedAt:        o.CompletedAt(),
		CancelledAt:        o.CancelledAt(),
	}

	for _, item := range o.Items() {
		itemDTO := OrderItemDTO{
			OrderID:    dto.ID,
			ProductID:  item.ProductID().Bytes(),
			Quantity:   item.Quantity(),
			UnitPrice:  item.UnitPrice().Cents(),
			TotalPrice: item.TotalPrice().Cents(),
		}
		for _, m := range item.Modifiers() {
			itemDTO.Modifiers = append(itemDTO.Modifiers, OrderItemModifierDTO{
				ModifierOptionID: m.ModifierOptionID().Bytes(),
				Price:            m.Price().Cents(),
			})
		}
		dto.Items = append(dto.Items, itemDTO)
	}

	return dto
}

// toDomain converts a database DTO to an order domain aggregate using RestoreOrder.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	locationID, err := kernel.UUIDFromBytes(dto.LocationID[:])
	if err != nil {
		return nil, err
	}

	userID, err := optionalKernelUUID(dto.UserID)
	if err != nil {
		return nil, err
	}

	promocodeID, err := optionalKernelUUID(dto.PromocodeID)
	if err != nil {
		return nil, err
	}

	status, err := order.StatusFromString(dto.Status)
	if err != nil {
		return nil, err
	}

	paymentStatus, err := order.PaymentStatusFromString(dto.PaymentStatus)
	if err != nil {
		return nil, err
	}

	subtotal, err := kernel.NewMoney(dto.Subtotal)
	if err != nil {
		return nil, err
	}

	discount, err := kernel.NewMoney(dto.DiscountAmount)
	if err != nil {
		return nil, err
	}

	items := make([]order.Item, 0, len(dto.Items))
	for _, itemDTO := range dto.Items {
		item, itemErr := itemToDomain(itemDTO)
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, item)
	}

	return order.RestoreOrder(
		id, dto.OrderNumber, locationID, userID,
		status, paymentStatus,
		subtotal, discount, promocodeID,
		dto.CustomerName, dto.CancellationReason,
		dto.CreatedAt,
		dto.AcceptedAt, dto.PreparingAt, dto.ReadyAt, dto.CompletedAt, dto.CancelledAt,
		items,
	)
}

func itemToDomain(dto OrderItemDTO) (order.Item, error) {
	productID, err := kernel.UUIDFromBytes(dto.ProductID[:])
	if err != nil {
		return order.Item{}, err
	}

	unitPrice, err := kernel.NewMoney(dto.UnitPrice)
	if err != nil {
		return order.Item{}, err
	}

	totalPrice, err := kernel.NewMoney(dto.TotalPrice)
	if err != nil {
		return order.Item{}, err
	}

	modifiers := make([]order.ItemModifier, 0, len(dto.Modifiers))
	for _, m := range dto.Modifiers {
		optionID, optErr := kernel.UUIDFromBytes(m.ModifierOptionID[:])
		if optErr != nil {
			return order.Item{}, optErr
		}
		price, priceErr := kernel.NewMoney(m.Price)
		if priceErr != nil {
			return order.Item{}, priceErr
		}
		modifier, modErr := order.NewItemModifier(optionID, price)
		if modErr != nil {
			return order.Item{}, modErr
		}
		modifiers = append(modifiers, modifier)
	}

	return order.RestoreItem(productID, dto.Quantity, unitPrice, totalPrice, modifiers), nil
}

func historyFromDomain(change order.StatusChange) StatusHistoryDTO {
	return StatusHistoryDTO{
		OrderID:    change.OrderID.Bytes(),
		FromStatus: change.From.String(),
		ToStatus:   change.To.String(),
		Source:     string(change.Source),
		Actor:      change.Actor,
		ChangedAt:  change.At,
	}
}

func optionalUUID(id *kernel.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	raw := id.Bytes()
	return &raw
}

func optionalKernelUUID(id *uuid.UUID) (*kernel.UUID, error) {
	if id == nil {
		return nil, nil
	}
	converted, err := kernel.UUIDFromBytes((*id)[:])
	if err != nil {
		return nil, err
	}
	return &converted, nil
}
