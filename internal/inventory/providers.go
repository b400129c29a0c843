package inventory

import (
	"gorm.io/gorm"

	"github.com/tranqv/shopcore/internal/inventory/domain"
	"github.com/tranqv/shopcore/internal/inventory/repository"
)

// ProvideInventoryRepository provides the inventory repository with tracing
func ProvideInventoryRepository(db *gorm.DB) domain.InventoryRepository {
	return repository.NewGormInventoryRepositoryWithTracing(db)
}
