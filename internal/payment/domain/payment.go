package domain

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Payment statuses
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
	StatusRefunded  = "refunded"
	StatusCancelled = "cancelled"
)

// Payment methods
const (
	MethodCOD        = 1
	MethodVNPay      = 2
	MethodCheckoutVN = 3
	MethodTestQR     = 4
)

// Payment represents the payment entity. TransactionCode is the gateway-side
// reference and the idempotency key for callback matching.
type Payment struct {
	ID              uint            `json:"id" gorm:"primaryKey"`
	OrderID         uint            `json:"order_id" gorm:"not null;uniqueIndex"`
	PaymentMethodID int             `json:"payment_method_id" gorm:"not null"`
	Amount          decimal.Decimal `json:"amount" gorm:"type:decimal(20,2);not null"`
	Currency        string          `json:"currency" gorm:"default:'VND'"`
	Status          string          `json:"status" gorm:"default:'pending';index"`
	TransactionCode string          `json:"transaction_code" gorm:"uniqueIndex;not null"`
	GatewayResponse string          `json:"gateway_response,omitempty"`
	PaidAt          *time.Time      `json:"paid_at,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	DeletedAt       gorm.DeletedAt  `json:"-" gorm:"index"`
}

// TableName specifies the table name
func (Payment) TableName() string {
	return "payments"
}

// Terminal reports whether the payment reached a final state
func (p *Payment) Terminal() bool {
	switch p.Status {
	case StatusCompleted, StatusFailed, StatusRefunded, StatusCancelled:
		return true
	}
	return false
}

// AmountMinorUnits returns the amount in the gateway's minor units (x100)
func (p *Payment) AmountMinorUnits() int64 {
	return p.Amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

// PaymentRepository defines the contract for payment data access
type PaymentRepository interface {
	Create(payment *Payment) error
	FindByID(id uint) (*Payment, error)
	FindByOrderID(orderID uint) (*Payment, error)
	FindByTransactionCode(code string) (*Payment, error)
	FindAll(limit, offset int) ([]Payment, error)
	Update(payment *Payment) error
	UpdateStatus(id uint, status string) error
}
