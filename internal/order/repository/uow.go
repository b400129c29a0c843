package repository

import (
	"context"

	"gorm.io/gorm"

	cartrepo "github.com/tranqv/shopcore/internal/cart/repository"
	invrepo "github.com/tranqv/shopcore/internal/inventory/repository"
	"github.com/tranqv/shopcore/internal/order/usecase/command"
	payrepo "github.com/tranqv/shopcore/internal/payment/repository"
)

// GormUnitOfWork runs order placement and lifecycle mutations inside one
// database transaction, handing the commands transaction-bound stores
type GormUnitOfWork struct {
	db *gorm.DB
}

// NewGormUnitOfWork creates a new unit of work
func NewGormUnitOfWork(db *gorm.DB) *GormUnitOfWork {
	return &GormUnitOfWork{db: db}
}

// Do executes fn inside a transaction. A non-nil error from fn rolls back
// every write made through the stores.
func (u *GormUnitOfWork) Do(ctx context.Context, fn func(s command.Stores) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(command.Stores{
			Orders:    NewGormOrderRepository(tx),
			Inventory: invrepo.NewGormInventoryRepository(tx),
			Payments:  payrepo.NewGormPaymentRepository(tx),
			Carts:     cartrepo.NewGormCartRepository(tx),
		})
	})
}
