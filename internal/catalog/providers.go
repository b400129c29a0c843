package catalog

import (
	"gorm.io/gorm"

	"github.com/tranqv/shopcore/internal/catalog/domain"
	"github.com/tranqv/shopcore/internal/catalog/repository"
)

// ProvideProductRepository provides the product repository with tracing
func ProvideProductRepository(db *gorm.DB) domain.ProductRepository {
	return repository.NewGormProductRepositoryWithTracing(db)
}
