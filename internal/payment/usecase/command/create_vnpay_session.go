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

// ErrPaymentAlreadySettled is returned when a session is requested for a
// payment that already reached a final state
var ErrPaymentAlreadySettled = errors.New("payment already settled")

// CreateVNPaySessionCommand requests a VNPAY redirect URL for an order
type CreateVNPaySessionCommand struct {
	OrderID  uint
	ClientIP string
	BankCode string
}

// CreateVNPaySessionHandler handles VNPAY session creation
type CreateVNPaySessionHandler struct {
	orders   OrderReader
	payments domain.PaymentRepository
	vnpay    VNPayGateway
}

// NewCreateVNPaySessionHandler creates a new CreateVNPaySessionHandler
func NewCreateVNPaySessionHandler(orders OrderReader, payments domain.PaymentRepository, vnpay VNPayGateway) *CreateVNPaySessionHandler {
	return &CreateVNPaySessionHandler{orders: orders, payments: payments, vnpay: vnpay}
}

// Handle builds the redirect URL and stores the attempt's transaction
// reference on the payment so the callback can be matched later
func (h *CreateVNPaySessionHandler) Handle(ctx context.Context, cmd CreateVNPaySessionCommand) (*gateway.Session, error) {
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

	session, err := h.vnpay.CreatePaymentURL(order.Code, payment.Amount, cmd.ClientIP, cmd.BankCode)
	if err != nil {
		return nil, fmt.Errorf("failed to create vnpay session: %w", err)
	}

	// each attempt gets a fresh reference, only the latest one can settle
	payment.TransactionCode = session.TxnRef
	payment.PaymentMethodID = domain.MethodVNPay
	if err := h.payments.Update(payment); err != nil {
		return nil, fmt.Errorf("failed to save transaction reference: %w", err)
	}

	logger.Info(ctx).
		Str("order_code", order.Code).
		Str("txn_ref", session.TxnRef).
		Msg("vnpay session created")
	return session, nil
}
