package query

import (
	"context"
	"fmt"

	"github.com/tranqv/shopcore/internal/payment/domain"
)

// ListPaymentsQuery pages through payments, newest first
type ListPaymentsQuery struct {
	Limit  int
	Offset int
}

// ListPaymentsHandler handles payment listing for back office views
type ListPaymentsHandler struct {
	payments domain.PaymentRepository
}

// NewListPaymentsHandler creates a new ListPaymentsHandler
func NewListPaymentsHandler(payments domain.PaymentRepository) *ListPaymentsHandler {
	return &ListPaymentsHandler{payments: payments}
}

// Handle returns one page of payments
func (h *ListPaymentsHandler) Handle(ctx context.Context, q ListPaymentsQuery) ([]domain.Payment, error) {
	if q.Limit <= 0 || q.Limit > 100 {
		q.Limit = 20
	}
	if q.Offset < 0 {
		q.Offset = 0
	}
	payments, err := h.payments.FindAll(q.Limit, q.Offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	return payments, nil
}
