package cart

import (
	"gorm.io/gorm"

	"github.com/tranqv/shopcore/internal/cart/domain"
	"github.com/tranqv/shopcore/internal/cart/repository"
	"github.com/tranqv/shopcore/internal/cart/usecase/command"
	catalogrepo "github.com/tranqv/shopcore/internal/catalog/repository"
	invrepo "github.com/tranqv/shopcore/internal/inventory/repository"
)

// ProvideCartRepository provides the cart repository
func ProvideCartRepository(db *gorm.DB) domain.CartRepository {
	return repository.NewGormCartRepository(db)
}

// ProvideVariantReader provides variant lookups from the catalog
func ProvideVariantReader(db *gorm.DB) command.VariantReader {
	return catalogrepo.NewGormProductRepositoryWithTracing(db)
}

// ProvideAvailabilityReader provides stock availability from the ledger
func ProvideAvailabilityReader(db *gorm.DB) command.AvailabilityReader {
	return invrepo.NewGormInventoryRepositoryWithTracing(db)
}
