package command

import (
	"context"
	"fmt"
	"time"

	orderdomain "github.com/tranqv/shopcore/internal/order/domain"
)

// MarkDeliveredCommand records final delivery of a shipped order
type MarkDeliveredCommand struct {
	OrderID uint
}

// MarkDeliveredHandler handles mark delivered command
type MarkDeliveredHandler struct {
	uow UnitOfWork
}

// NewMarkDeliveredHandler creates a new mark delivered handler
func NewMarkDeliveredHandler(uow UnitOfWork) *MarkDeliveredHandler {
	return &MarkDeliveredHandler{uow: uow}
}

// Handle executes the mark delivered command
func (h *MarkDeliveredHandler) Handle(ctx context.Context, cmd MarkDeliveredCommand) error {
	if cmd.OrderID == 0 {
		return fmt.Errorf("order_id is required")
	}

	return h.uow.Do(ctx, func(s Stores) error {
		order, err := s.Orders.FindByID(cmd.OrderID)
		if err != nil {
			return fmt.Errorf("order not found: %w", err)
		}

		if !orderdomain.CanTransition(order.Status, orderdomain.StatusDelivered) {
			return fmt.Errorf("%w: %s -> %s", orderdomain.ErrInvalidTransition, order.Status, orderdomain.StatusDelivered)
		}

		shipment, err := s.Orders.FindShipmentByOrderID(cmd.OrderID)
		if err != nil {
			return fmt.Errorf("shipment not found: %w", err)
		}

		now := time.Now()
		shipment.Status = orderdomain.ShipmentDelivered
		shipment.DeliveredAt = &now
		if err := s.Orders.UpdateShipment(shipment); err != nil {
			return fmt.Errorf("failed to update shipment: %w", err)
		}

		updated, err := s.Orders.UpdateStatus(order.ID, order.Status, orderdomain.StatusDelivered)
		if err != nil {
			return fmt.Errorf("failed to update order status: %w", err)
		}
		if !updated {
			return fmt.Errorf("%w: order %d is no longer %s", orderdomain.ErrConcurrentModification, order.ID, order.Status)
		}

		return nil
	})
}
