package query

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/tranqv/shopcore/internal/payment/domain"
)

// GetPaymentQuery fetches the payment attached to an order
type GetPaymentQuery struct {
	OrderID uint
}

// GetPaymentHandler handles payment lookups
type GetPaymentHandler struct {
	payments domain.PaymentRepository
}

// NewGetPaymentHandler creates a new GetPaymentHandler
func NewGetPaymentHandler(payments domain.PaymentRepository) *GetPaymentHandler {
	return &GetPaymentHandler{payments: payments}
}

// Handle returns the payment for the order
func (h *GetPaymentHandler) Handle(ctx context.Context, q GetPaymentQuery) (*domain.Payment, error) {
	if q.OrderID == 0 {
		return nil, fmt.Errorf("order_id is required")
	}
	payment, err := h.payments.FindByOrderID(q.OrderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("payment not found")
		}
		return nil, fmt.Errorf("failed to load payment: %w", err)
	}
	return payment, nil
}
