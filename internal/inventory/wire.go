//go:build wireinject
// +build wireinject

package inventory

import (
	"github.com/google/wire"
	"gorm.io/gorm"

	httpdelivery "github.com/tranqv/shopcore/internal/inventory/delivery/http"
	"github.com/tranqv/shopcore/internal/inventory/usecase/command"
	"github.com/tranqv/shopcore/internal/inventory/usecase/query"
)

var RepositorySet = wire.NewSet(
	ProvideInventoryRepository,
)

var HandlerSet = wire.NewSet(
	command.NewCreateWarehouseHandler,
	command.NewUpsertRecordHandler,
	command.NewAdjustStockHandler,
	query.NewGetAvailabilityHandler,
	query.NewListInventoryHandler,
	query.NewLowStockHandler,
)

// InitializeHTTPHandler initializes the inventory HTTP handler with all dependencies
func InitializeHTTPHandler(db *gorm.DB) (*httpdelivery.InventoryHandler, error) {
	wire.Build(
		RepositorySet,
		HandlerSet,
		httpdelivery.NewInventoryHandler,
	)
	return nil, nil
}
