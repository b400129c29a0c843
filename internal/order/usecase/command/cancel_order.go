package command

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	invdomain "github.com/tranqv/shopcore/internal/inventory/domain"
	orderdomain "github.com/tranqv/shopcore/internal/order/domain"
	paydomain "github.com/tranqv/shopcore/internal/payment/domain"
)

// CancelOrderCommand cancels an order with compensating stock restoration.
// UserID is the requester; zero means a staff-side cancellation with no
// ownership check.
type CancelOrderCommand struct {
	OrderID uint
	UserID  uint
}

// CancelOrderHandler handles order cancellation
type CancelOrderHandler struct {
	uow UnitOfWork
}

// NewCancelOrderHandler creates a new cancel order handler
func NewCancelOrderHandler(uow UnitOfWork) *CancelOrderHandler {
	return &CancelOrderHandler{uow: uow}
}

// Handle executes the cancellation as one compensating transaction
func (h *CancelOrderHandler) Handle(ctx context.Context, cmd CancelOrderCommand) error {
	if cmd.OrderID == 0 {
		return fmt.Errorf("order_id is required")
	}

	return h.uow.Do(ctx, func(s Stores) error {
		order, err := s.Orders.FindByID(cmd.OrderID)
		if err != nil {
			return fmt.Errorf("order not found: %w", err)
		}

		if cmd.UserID != 0 && (order.UserID == nil || *order.UserID != cmd.UserID) {
			return fmt.Errorf("order not found")
		}

		return cancelInTx(s, order)
	})
}

// cancelInTx applies the cancellation side effects inside the caller's
// transaction: status change, exact restock of the placement allocations,
// and the payment transition. Shared with the manual status update path.
func cancelInTx(s Stores, order *orderdomain.Order) error {
	if !orderdomain.CanTransition(order.Status, orderdomain.StatusCancelled) {
		return fmt.Errorf("%w: %s -> %s", orderdomain.ErrInvalidTransition, order.Status, orderdomain.StatusCancelled)
	}

	movements, err := s.Inventory.FindMovementsByOrder(order.ID)
	if err != nil {
		return fmt.Errorf("failed to load stock movements: %w", err)
	}

	for _, m := range movements {
		if m.QuantityChange >= 0 {
			continue // only reverse placement decrements
		}
		restore := -m.QuantityChange
		if err := s.Inventory.IncrementOnHand(m.VariantID, m.WarehouseID, restore); err != nil {
			return fmt.Errorf("failed to restore stock: %w", err)
		}

		record, err := s.Inventory.FindRecord(m.VariantID, m.WarehouseID)
		if err != nil {
			return fmt.Errorf("failed to reload inventory record: %w", err)
		}

		orderID := order.ID
		if err := s.Inventory.CreateMovement(&invdomain.StockMovement{
			VariantID:      m.VariantID,
			WarehouseID:    m.WarehouseID,
			OrderID:        &orderID,
			QuantityChange: restore,
			QuantityAfter:  record.QuantityOnHand,
			Reference:      invdomain.RefOrderCancellation,
		}); err != nil {
			return fmt.Errorf("failed to record stock movement: %w", err)
		}
	}

	// the guarded write is what makes the restock above safe: if another
	// transaction already moved the order, zero rows come back and the whole
	// transaction rolls back, restock included
	updated, err := s.Orders.UpdateStatus(order.ID, order.Status, orderdomain.StatusCancelled)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}
	if !updated {
		return fmt.Errorf("%w: order %d is no longer %s", orderdomain.ErrConcurrentModification, order.ID, order.Status)
	}

	payment, err := s.Payments.FindByOrderID(order.ID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to load payment: %w", err)
		}
	} else {
		target := paydomain.StatusCancelled
		if payment.Status == paydomain.StatusCompleted {
			target = paydomain.StatusRefunded
		}
		if err := s.Payments.UpdateStatus(payment.ID, target); err != nil {
			return fmt.Errorf("failed to update payment status: %w", err)
		}
	}

	shipment, err := s.Orders.FindShipmentByOrderID(order.ID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to load shipment: %w", err)
		}
		return nil // direct sales have no shipment
	}
	shipment.Status = orderdomain.ShipmentFailed
	if err := s.Orders.UpdateShipment(shipment); err != nil {
		return fmt.Errorf("failed to update shipment: %w", err)
	}

	return nil
}
