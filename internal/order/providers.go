package order

import (
	"gorm.io/gorm"

	catalogrepo "github.com/tranqv/shopcore/internal/catalog/repository"
	"github.com/tranqv/shopcore/internal/order/domain"
	"github.com/tranqv/shopcore/internal/order/repository"
	"github.com/tranqv/shopcore/internal/order/usecase/command"
	"github.com/tranqv/shopcore/internal/order/usecase/query"
	payrepo "github.com/tranqv/shopcore/internal/payment/repository"
)

// ProvideOrderRepository provides the order repository
func ProvideOrderRepository(db *gorm.DB) domain.OrderRepository {
	return repository.NewGormOrderRepository(db)
}

// ProvideUnitOfWork provides the transactional unit of work
func ProvideUnitOfWork(db *gorm.DB) command.UnitOfWork {
	return repository.NewGormUnitOfWork(db)
}

// ProvideVariantReader provides variant lookups from the catalog
func ProvideVariantReader(db *gorm.DB) command.VariantReader {
	return catalogrepo.NewGormProductRepositoryWithTracing(db)
}

// ProvidePaymentReader provides payment lookups for order views
func ProvidePaymentReader(db *gorm.DB) query.PaymentReader {
	return payrepo.NewGormPaymentRepository(db)
}
