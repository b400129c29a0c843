package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Status is the order lifecycle state
type Status string

// Order statuses
const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
	StatusRefunded   Status = "refunded"
)

// ErrInvalidTransition is returned when a status change violates the
// lifecycle table
var ErrInvalidTransition = errors.New("invalid order status transition")

// ErrConcurrentModification is returned when a status write finds the order
// no longer in the status it was read at, meaning another transaction moved
// it first
var ErrConcurrentModification = errors.New("order was modified concurrently")

// transitions is the single authoritative lifecycle table. Every mutation
// path consults it; nothing bypasses it.
var transitions = map[Status][]Status{
	StatusPending:    {StatusProcessing, StatusCancelled},
	StatusProcessing: {StatusShipped, StatusCancelled},
	StatusShipped:    {StatusDelivered},
	StatusDelivered:  {},
	StatusCancelled:  {},
	StatusRefunded:   {},
}

// ValidStatus reports whether s is a known order status
func ValidStatus(s Status) bool {
	_, ok := transitions[s]
	return ok
}

// CanTransition reports whether moving from one status to another is allowed
func CanTransition(from, to Status) bool {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Terminal reports whether the status has no outgoing transitions
func (s Status) Terminal() bool {
	return len(transitions[s]) == 0
}

// FixedShippingFee is the flat checkout shipping fee in VND. Shipping-method
// based pricing is a known simplification upstream.
var FixedShippingFee = decimal.NewFromInt(50000)

// Order is immutable once created except for Status. Totals satisfy
// TotalAmount = SubTotal + ShippingFee - DiscountAmount.
type Order struct {
	ID             uint            `json:"id" gorm:"primaryKey"`
	Code           string          `json:"code" gorm:"uniqueIndex;not null"`
	UserID         *uint           `json:"user_id,omitempty" gorm:"index"` // nil for walk-in direct sales
	Status         Status          `json:"status" gorm:"type:varchar(20);not null;default:'pending';index"`
	SubTotal       decimal.Decimal `json:"sub_total" gorm:"type:decimal(20,2);not null"`
	ShippingFee    decimal.Decimal `json:"shipping_fee" gorm:"type:decimal(20,2);not null"`
	DiscountAmount decimal.Decimal `json:"discount_amount" gorm:"type:decimal(20,2);not null"`
	TotalAmount    decimal.Decimal `json:"total_amount" gorm:"type:decimal(20,2);not null"`
	RecipientName  string          `json:"recipient_name"`
	RecipientPhone string          `json:"recipient_phone"`
	Address        string          `json:"address"`
	Notes          string          `json:"notes"`
	WarehouseID    *uint           `json:"warehouse_id,omitempty"` // set for direct sales only
	Lines          []Line          `json:"lines,omitempty" gorm:"foreignKey:OrderID"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	DeletedAt      gorm.DeletedAt  `json:"-" gorm:"index"`
}

// TableName specifies the table name
func (Order) TableName() string {
	return "orders"
}

// Line is an immutable child of an order with the unit price snapshot
type Line struct {
	ID        uint            `json:"id" gorm:"primaryKey"`
	OrderID   uint            `json:"order_id" gorm:"not null;index"`
	VariantID uint            `json:"variant_id" gorm:"not null;index"`
	SKU       string          `json:"sku" gorm:"not null"`
	Quantity  int             `json:"quantity" gorm:"not null"`
	UnitPrice decimal.Decimal `json:"unit_price" gorm:"type:decimal(20,2);not null"`
	Subtotal  decimal.Decimal `json:"subtotal" gorm:"type:decimal(20,2);not null"`
	CreatedAt time.Time       `json:"created_at"`
}

// TableName specifies the table name
func (Line) TableName() string {
	return "order_lines"
}

// Shipment statuses
const (
	ShipmentPending   = "pending"
	ShipmentShipped   = "shipped"
	ShipmentInTransit = "in_transit"
	ShipmentDelivered = "delivered"
	ShipmentReturned  = "returned"
	ShipmentFailed    = "failed"
)

// Shipment is the delivery record for an order. Direct sales have none.
type Shipment struct {
	ID               uint           `json:"id" gorm:"primaryKey"`
	OrderID          uint           `json:"order_id" gorm:"not null;uniqueIndex"`
	ShippingMethodID int            `json:"shipping_method_id" gorm:"not null;default:1"`
	TrackingNumber   string         `json:"tracking_number"`
	Carrier          string         `json:"carrier"`
	Status           string         `json:"status" gorm:"default:'pending'"`
	DeliveredAt      *time.Time     `json:"delivered_at,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName specifies the table name
func (Shipment) TableName() string {
	return "shipments"
}

// OrderRepository defines the contract for order data access
type OrderRepository interface {
	Create(order *Order) error
	FindByID(id uint) (*Order, error)
	FindByCode(code string) (*Order, error)
	FindAll(limit, offset int) ([]Order, error)
	FindByUserID(userID uint, limit, offset int) ([]Order, error)
	UpdateStatus(orderID uint, from, to Status) (bool, error)

	CreateShipment(shipment *Shipment) error
	FindShipmentByOrderID(orderID uint) (*Shipment, error)
	UpdateShipment(shipment *Shipment) error
}
