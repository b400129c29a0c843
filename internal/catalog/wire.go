//go:build wireinject
// +build wireinject

package catalog

import (
	"github.com/google/wire"
	"gorm.io/gorm"

	httpdelivery "github.com/tranqv/shopcore/internal/catalog/delivery/http"
	"github.com/tranqv/shopcore/internal/catalog/usecase/command"
	"github.com/tranqv/shopcore/internal/catalog/usecase/query"
)

var RepositorySet = wire.NewSet(
	ProvideProductRepository,
)

var HandlerSet = wire.NewSet(
	command.NewCreateProductHandler,
	command.NewUpdateProductHandler,
	command.NewDeleteProductHandler,
	command.NewCreateVariantHandler,
	query.NewGetProductHandler,
	query.NewListProductsHandler,
)

// InitializeHTTPHandler initializes the catalog HTTP handler with all dependencies
func InitializeHTTPHandler(db *gorm.DB) (*httpdelivery.CatalogHandler, error) {
	wire.Build(
		RepositorySet,
		HandlerSet,
		httpdelivery.NewCatalogHandler,
	)
	return nil, nil
}
