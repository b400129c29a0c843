//go:build wireinject
// +build wireinject

package order

import (
	"github.com/google/wire"
	"gorm.io/gorm"

	httpdelivery "github.com/tranqv/shopcore/internal/order/delivery/http"
	"github.com/tranqv/shopcore/internal/order/usecase/command"
	"github.com/tranqv/shopcore/internal/order/usecase/query"
)

var RepositorySet = wire.NewSet(
	ProvideOrderRepository,
	ProvideUnitOfWork,
	ProvideVariantReader,
	ProvidePaymentReader,
)

var HandlerSet = wire.NewSet(
	command.NewPlaceOrderHandler,
	command.NewPlaceDirectSaleHandler,
	command.NewCancelOrderHandler,
	command.NewUpdateStatusHandler,
	command.NewMarkShippedHandler,
	command.NewMarkDeliveredHandler,
	query.NewGetOrderHandler,
	query.NewListOrdersHandler,
	query.NewGetMyOrdersHandler,
)

// InitializeHTTPHandler initializes the order HTTP handler with all dependencies
func InitializeHTTPHandler(db *gorm.DB, publisher command.EventPublisher) (*httpdelivery.OrderHandler, error) {
	wire.Build(
		RepositorySet,
		HandlerSet,
		httpdelivery.NewOrderHandler,
	)
	return nil, nil
}
