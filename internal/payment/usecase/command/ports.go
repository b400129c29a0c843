package command

import (
	"context"

	"github.com/shopspring/decimal"

	orderdomain "github.com/tranqv/shopcore/internal/order/domain"
	"github.com/tranqv/shopcore/internal/payment/gateway"
	"github.com/tranqv/shopcore/kafka"
)

// OrderReader resolves orders for session creation
type OrderReader interface {
	FindByID(id uint) (*orderdomain.Order, error)
}

// VNPayGateway builds signed VNPAY redirect URLs
type VNPayGateway interface {
	CreatePaymentURL(orderCode string, amount decimal.Decimal, clientIP, bankCode string) (*gateway.Session, error)
}

// CheckoutVNGateway opens hosted Checkout.vn sessions
type CheckoutVNGateway interface {
	CreateSession(ctx context.Context, orderCode string, amountMinor int64) (*gateway.Session, error)
}

// EventPublisher publishes payment events after commit; failures are logged,
// never propagated to the caller
type EventPublisher interface {
	PublishPaymentCompleted(ctx context.Context, event kafka.PaymentCompletedEvent) error
}
