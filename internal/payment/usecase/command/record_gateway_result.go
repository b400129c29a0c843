package command

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	orderdomain "github.com/tranqv/shopcore/internal/order/domain"
	ordercommand "github.com/tranqv/shopcore/internal/order/usecase/command"
	"github.com/tranqv/shopcore/internal/payment/domain"
	"github.com/tranqv/shopcore/kafka"
	"github.com/tranqv/shopcore/pkg/logger"
)

// ErrPaymentNotFound is returned when a callback references an unknown
// transaction
var ErrPaymentNotFound = errors.New("payment not found")

// Outcome classifies how a gateway callback was applied
type Outcome int

const (
	// OutcomeCompleted means the payment settled and the order moved on
	OutcomeCompleted Outcome = iota
	// OutcomeFailed means the gateway reported failure
	OutcomeFailed
	// OutcomeAlreadyProcessed means a duplicate callback hit a settled
	// payment, nothing changed
	OutcomeAlreadyProcessed
	// OutcomeAmountMismatch means the callback amount did not match the
	// recorded amount, the payment was marked failed
	OutcomeAmountMismatch
)

// GatewayResult is a verified gateway callback, normalized across gateways.
// Signature verification happens before this command runs.
type GatewayResult struct {
	TxnRef       string
	Success      bool
	AmountMinor  int64
	ResponseCode string
	RawResponse  string
}

// RecordGatewayResultHandler applies a gateway callback to the payment and
// its order atomically. Replays of the same callback are no-ops.
type RecordGatewayResultHandler struct {
	uow       ordercommand.UnitOfWork
	publisher EventPublisher
}

// NewRecordGatewayResultHandler creates a new RecordGatewayResultHandler
func NewRecordGatewayResultHandler(uow ordercommand.UnitOfWork, publisher EventPublisher) *RecordGatewayResultHandler {
	return &RecordGatewayResultHandler{uow: uow, publisher: publisher}
}

// Handle settles or fails the payment matched by TxnRef and, on success,
// advances the order from pending to processing in the same transaction
func (h *RecordGatewayResultHandler) Handle(ctx context.Context, result GatewayResult) (Outcome, error) {
	if result.TxnRef == "" {
		return OutcomeFailed, fmt.Errorf("transaction reference is required")
	}

	var outcome Outcome
	var completed *kafka.PaymentCompletedEvent

	err := h.uow.Do(ctx, func(s ordercommand.Stores) error {
		payment, err := s.Payments.FindByTransactionCode(result.TxnRef)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPaymentNotFound
			}
			return fmt.Errorf("failed to load payment: %w", err)
		}

		if payment.Terminal() {
			outcome = OutcomeAlreadyProcessed
			return nil
		}

		// a valid signature does not make the amount trustworthy, the
		// redirect is built client-side
		if payment.AmountMinorUnits() != result.AmountMinor {
			payment.Status = domain.StatusFailed
			payment.GatewayResponse = result.RawResponse
			if err := s.Payments.Update(payment); err != nil {
				return fmt.Errorf("failed to update payment: %w", err)
			}
			outcome = OutcomeAmountMismatch
			return nil
		}

		if !result.Success {
			payment.Status = domain.StatusFailed
			payment.GatewayResponse = result.RawResponse
			if err := s.Payments.Update(payment); err != nil {
				return fmt.Errorf("failed to update payment: %w", err)
			}
			outcome = OutcomeFailed
			return nil
		}

		now := time.Now()
		payment.Status = domain.StatusCompleted
		payment.PaidAt = &now
		payment.GatewayResponse = result.RawResponse
		if err := s.Payments.Update(payment); err != nil {
			return fmt.Errorf("failed to update payment: %w", err)
		}

		order, err := s.Orders.FindByID(payment.OrderID)
		if err != nil {
			return fmt.Errorf("failed to load order: %w", err)
		}
		if orderdomain.CanTransition(order.Status, orderdomain.StatusProcessing) {
			// zero rows means the order moved concurrently, e.g. a cancel
			// that just committed; the payment still settles, the order
			// stays where the other writer put it
			if _, err := s.Orders.UpdateStatus(order.ID, order.Status, orderdomain.StatusProcessing); err != nil {
				return fmt.Errorf("failed to update order status: %w", err)
			}
		}

		outcome = OutcomeCompleted
		completed = &kafka.PaymentCompletedEvent{
			EventID:         uuid.New().String(),
			EventType:       kafka.EventTypePaymentCompleted,
			PaymentID:       payment.ID,
			OrderID:         order.ID,
			OrderCode:       order.Code,
			Amount:          payment.Amount.StringFixed(2),
			PaymentMethodID: payment.PaymentMethodID,
			TransactionCode: payment.TransactionCode,
			Timestamp:       now,
		}
		return nil
	})
	if err != nil {
		return OutcomeFailed, err
	}

	if completed != nil && h.publisher != nil {
		if err := h.publisher.PublishPaymentCompleted(ctx, *completed); err != nil {
			logger.Error(ctx).Err(err).
				Str("txn_ref", result.TxnRef).
				Msg("failed to publish payment completed event")
		}
	}
	return outcome, nil
}
