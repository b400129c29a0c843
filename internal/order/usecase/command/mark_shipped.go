package command

import (
	"context"
	"fmt"

	orderdomain "github.com/tranqv/shopcore/internal/order/domain"
)

// MarkShippedCommand hands an order to a carrier
type MarkShippedCommand struct {
	OrderID        uint
	TrackingNumber string
	Carrier        string
}

// MarkShippedHandler handles mark shipped command
type MarkShippedHandler struct {
	uow UnitOfWork
}

// NewMarkShippedHandler creates a new mark shipped handler
func NewMarkShippedHandler(uow UnitOfWork) *MarkShippedHandler {
	return &MarkShippedHandler{uow: uow}
}

// Handle executes the mark shipped command: shipment gets the tracking info,
// the order transitions through the lifecycle table
func (h *MarkShippedHandler) Handle(ctx context.Context, cmd MarkShippedCommand) error {
	if cmd.OrderID == 0 {
		return fmt.Errorf("order_id is required")
	}
	if cmd.TrackingNumber == "" {
		return fmt.Errorf("tracking_number is required")
	}

	return h.uow.Do(ctx, func(s Stores) error {
		order, err := s.Orders.FindByID(cmd.OrderID)
		if err != nil {
			return fmt.Errorf("order not found: %w", err)
		}

		if !orderdomain.CanTransition(order.Status, orderdomain.StatusShipped) {
			return fmt.Errorf("%w: %s -> %s", orderdomain.ErrInvalidTransition, order.Status, orderdomain.StatusShipped)
		}

		shipment, err := s.Orders.FindShipmentByOrderID(cmd.OrderID)
		if err != nil {
			return fmt.Errorf("shipment not found: %w", err)
		}

		shipment.TrackingNumber = cmd.TrackingNumber
		shipment.Carrier = cmd.Carrier
		shipment.Status = orderdomain.ShipmentShipped
		if err := s.Orders.UpdateShipment(shipment); err != nil {
			return fmt.Errorf("failed to update shipment: %w", err)
		}

		updated, err := s.Orders.UpdateStatus(order.ID, order.Status, orderdomain.StatusShipped)
		if err != nil {
			return fmt.Errorf("failed to update order status: %w", err)
		}
		if !updated {
			return fmt.Errorf("%w: order %d is no longer %s", orderdomain.ErrConcurrentModification, order.ID, order.Status)
		}

		return nil
	})
}
