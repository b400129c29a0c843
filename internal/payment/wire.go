//go:build wireinject
// +build wireinject

package payment

import (
	"github.com/google/wire"
	"gorm.io/gorm"

	"github.com/tranqv/shopcore/internal/config"
	httpdelivery "github.com/tranqv/shopcore/internal/payment/delivery/http"
	"github.com/tranqv/shopcore/internal/payment/usecase/command"
	"github.com/tranqv/shopcore/internal/payment/usecase/query"
)

var RepositorySet = wire.NewSet(
	ProvidePaymentRepository,
	ProvideOrderReader,
	ProvideUnitOfWork,
)

var GatewaySet = wire.NewSet(
	ProvideVNPay,
	ProvideCheckoutVN,
	ProvideVNPayGateway,
	ProvideCheckoutVNGateway,
)

var HandlerSet = wire.NewSet(
	command.NewCreateVNPaySessionHandler,
	command.NewCreateCheckoutVNSessionHandler,
	command.NewRecordGatewayResultHandler,
	query.NewGetPaymentHandler,
	query.NewListPaymentsHandler,
)

// InitializeHTTPHandler initializes the payment HTTP handler with all dependencies
func InitializeHTTPHandler(db *gorm.DB, cfg *config.Config, publisher command.EventPublisher) (*httpdelivery.PaymentHandler, error) {
	wire.Build(
		RepositorySet,
		GatewaySet,
		HandlerSet,
		httpdelivery.NewPaymentHandler,
	)
	return nil, nil
}
