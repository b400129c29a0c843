package command

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/tranqv/shopcore/internal/payment/domain"
	"github.com/tranqv/shopcore/internal/payment/gateway"
	"github.com/tranqv/shopcore/pkg/logger"
)

// CreateCheckoutVNSessionCommand requests a hosted Checkout.vn session
type CreateCheckoutVNSessionCommand struct {
	OrderID uint
}

// CreateCheckoutVNSessionHandler handles Checkout.vn session creation
type CreateCheckoutVNSessionHandler struct {
	orders   OrderReader
	payments domain.PaymentRepository
	checkout CheckoutVNGateway
}

// NewCreateCheckoutVNSessionHandler creates a new CreateCheckoutVNSessionHandler
func NewCreateCheckoutVNSessionHandler(orders OrderReader, payments domain.PaymentRepository, checkout CheckoutVNGateway) *CreateCheckoutVNSessionHandler {
	return &CreateCheckoutVNSessionHandler{orders: orders, payments: payments, checkout: checkout}
}

// Handle opens the session and stores its id as the payment's transaction
// reference
func (h *CreateCheckoutVNSessionHandler) Handle(ctx context.Context, cmd CreateCheckoutVNSessionCommand) (*gateway.Session, error) {
	if cmd.OrderID == 0 {
		return nil, fmt.Errorf("order_id is required")
	}

	order, err := h.orders.FindByID(cmd.OrderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("order not found")
		}
		return nil, fmt.Errorf("failed to load order: %w", err)
	}

	payment, err := h.payments.FindByOrderID(order.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("payment not found for order %s", order.Code)
		}
		return nil, fmt.Errorf("failed to load payment: %w", err)
	}
	if payment.Terminal() {
		return nil, ErrPaymentAlreadySettled
	}

	session, err := h.checkout.CreateSession(ctx, order.Code, payment.AmountMinorUnits())
	if err != nil {
		return nil, err
	}

	payment.TransactionCode = session.TxnRef
	payment.PaymentMethodID = domain.MethodCheckoutVN
	if err := h.payments.Update(payment); err != nil {
		return nil, fmt.Errorf("failed to save transaction reference: %w", err)
	}

	logger.Info(ctx).
		Str("order_code", order.Code).
		Str("session_id", session.TxnRef).
		Msg("checkoutvn session created")
	return session, nil
}
