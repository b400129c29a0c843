package payment

import (
	"gorm.io/gorm"

	"github.com/tranqv/shopcore/internal/config"
	orderrepo "github.com/tranqv/shopcore/internal/order/repository"
	ordercommand "github.com/tranqv/shopcore/internal/order/usecase/command"
	"github.com/tranqv/shopcore/internal/payment/domain"
	"github.com/tranqv/shopcore/internal/payment/gateway"
	"github.com/tranqv/shopcore/internal/payment/repository"
	"github.com/tranqv/shopcore/internal/payment/usecase/command"
)

// ProvidePaymentRepository provides the payment repository
func ProvidePaymentRepository(db *gorm.DB) domain.PaymentRepository {
	return repository.NewGormPaymentRepository(db)
}

// ProvideOrderReader provides order lookups for session creation
func ProvideOrderReader(db *gorm.DB) command.OrderReader {
	return orderrepo.NewGormOrderRepository(db)
}

// ProvideUnitOfWork provides the transactional unit of work shared with orders
func ProvideUnitOfWork(db *gorm.DB) ordercommand.UnitOfWork {
	return orderrepo.NewGormUnitOfWork(db)
}

// ProvideVNPay provides the VNPAY gateway adapter
func ProvideVNPay(cfg *config.Config) *gateway.VNPay {
	return gateway.NewVNPay(cfg.VNPay)
}

// ProvideCheckoutVN provides the Checkout.vn gateway adapter
func ProvideCheckoutVN(cfg *config.Config) *gateway.CheckoutVN {
	return gateway.NewCheckoutVN(cfg.CheckoutVN)
}

// ProvideVNPayGateway binds the adapter to the command port
func ProvideVNPayGateway(g *gateway.VNPay) command.VNPayGateway {
	return g
}

// ProvideCheckoutVNGateway binds the adapter to the command port
func ProvideCheckoutVNGateway(g *gateway.CheckoutVN) command.CheckoutVNGateway {
	return g
}
