package command

import (
	"context"

	cartdomain "github.com/tranqv/shopcore/internal/cart/domain"
	catalogdomain "github.com/tranqv/shopcore/internal/catalog/domain"
	invdomain "github.com/tranqv/shopcore/internal/inventory/domain"
	orderdomain "github.com/tranqv/shopcore/internal/order/domain"
	paydomain "github.com/tranqv/shopcore/internal/payment/domain"
	"github.com/tranqv/shopcore/kafka"
)

// OrderStore is the order-side persistence surface inside a transaction
type OrderStore interface {
	Create(order *orderdomain.Order) error
	FindByID(id uint) (*orderdomain.Order, error)
	UpdateStatus(orderID uint, from, to orderdomain.Status) (bool, error)
	CreateShipment(shipment *orderdomain.Shipment) error
	FindShipmentByOrderID(orderID uint) (*orderdomain.Shipment, error)
	UpdateShipment(shipment *orderdomain.Shipment) error
}

// InventoryStore is the ledger surface inside a transaction
type InventoryStore interface {
	FindRecordsByVariant(variantID uint) ([]invdomain.Record, error)
	DecrementOnHand(variantID, warehouseID uint, qty int) (bool, error)
	IncrementOnHand(variantID, warehouseID uint, qty int) error
	FindRecord(variantID, warehouseID uint) (*invdomain.Record, error)
	CreateMovement(movement *invdomain.StockMovement) error
	FindMovementsByOrder(orderID uint) ([]invdomain.StockMovement, error)
}

// PaymentStore is the payment surface inside a transaction
type PaymentStore interface {
	Create(payment *paydomain.Payment) error
	FindByOrderID(orderID uint) (*paydomain.Payment, error)
	FindByTransactionCode(code string) (*paydomain.Payment, error)
	Update(payment *paydomain.Payment) error
	UpdateStatus(id uint, status string) error
}

// CartStore is the cart surface inside a transaction
type CartStore interface {
	FindByUser(userID uint) ([]cartdomain.Line, error)
	Clear(userID uint) error
}

// Stores bundles the transaction-scoped stores handed to a unit of work
type Stores struct {
	Orders    OrderStore
	Inventory InventoryStore
	Payments  PaymentStore
	Carts     CartStore
}

// UnitOfWork runs fn inside one database transaction. Either every write fn
// performs commits, or none do.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(s Stores) error) error
}

// VariantReader resolves variants for SKU and price snapshots
type VariantReader interface {
	FindVariantByID(id uint) (*catalogdomain.Variant, error)
}

// EventPublisher publishes domain events after commit; failures are logged,
// never propagated to the caller
type EventPublisher interface {
	PublishOrderPlaced(ctx context.Context, event kafka.OrderPlacedEvent) error
}
