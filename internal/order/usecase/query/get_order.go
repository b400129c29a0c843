package query

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	orderdomain "github.com/tranqv/shopcore/internal/order/domain"
	paydomain "github.com/tranqv/shopcore/internal/payment/domain"
)

// PaymentReader resolves the payment attached to an order
type PaymentReader interface {
	FindByOrderID(orderID uint) (*paydomain.Payment, error)
}

// GetOrderQuery represents the query for one order. UserID of zero means a
// staff request with no ownership check.
type GetOrderQuery struct {
	ID     uint
	UserID uint
}

// OrderView is an order with its payment and shipment nested
type OrderView struct {
	Order    *orderdomain.Order    `json:"order"`
	Payment  *paydomain.Payment    `json:"payment,omitempty"`
	Shipment *orderdomain.Shipment `json:"shipment,omitempty"`
}

// GetOrderHandler handles get order query
type GetOrderHandler struct {
	orders   orderdomain.OrderRepository
	payments PaymentReader
}

// NewGetOrderHandler creates a new get order handler
func NewGetOrderHandler(orders orderdomain.OrderRepository, payments PaymentReader) *GetOrderHandler {
	return &GetOrderHandler{orders: orders, payments: payments}
}

// Handle executes the get order query
func (h *GetOrderHandler) Handle(query GetOrderQuery) (*OrderView, error) {
	if query.ID == 0 {
		return nil, fmt.Errorf("id is required")
	}

	order, err := h.orders.FindByID(query.ID)
	if err != nil {
		return nil, fmt.Errorf("order not found: %w", err)
	}

	if query.UserID != 0 && (order.UserID == nil || *order.UserID != query.UserID) {
		return nil, fmt.Errorf("order not found")
	}

	view := &OrderView{Order: order}

	payment, err := h.payments.FindByOrderID(order.ID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to load payment: %w", err)
	}
	view.Payment = payment

	shipment, err := h.orders.FindShipmentByOrderID(order.ID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to load shipment: %w", err)
	}
	view.Shipment = shipment

	return view, nil
}
