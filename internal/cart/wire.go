//go:build wireinject
// +build wireinject

package cart

import (
	"github.com/google/wire"
	"gorm.io/gorm"

	httpdelivery "github.com/tranqv/shopcore/internal/cart/delivery/http"
	"github.com/tranqv/shopcore/internal/cart/usecase/command"
	"github.com/tranqv/shopcore/internal/cart/usecase/query"
)

var RepositorySet = wire.NewSet(
	ProvideCartRepository,
	ProvideVariantReader,
	ProvideAvailabilityReader,
)

var HandlerSet = wire.NewSet(
	command.NewAddItemHandler,
	command.NewUpdateItemHandler,
	command.NewClearCartHandler,
	query.NewListItemsHandler,
)

// InitializeHTTPHandler initializes the cart HTTP handler with all dependencies
func InitializeHTTPHandler(db *gorm.DB) (*httpdelivery.CartHandler, error) {
	wire.Build(
		RepositorySet,
		HandlerSet,
		httpdelivery.NewCartHandler,
	)
	return nil, nil
}
