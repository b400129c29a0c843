package command

import (
	"context"
	"fmt"

	orderdomain "github.com/tranqv/shopcore/internal/order/domain"
)

// UpdateStatusCommand is a manual status transition (staff endpoint)
type UpdateStatusCommand struct {
	OrderID uint
	Status  orderdomain.Status
}

// UpdateStatusHandler handles manual status updates. Every transition goes
// through the lifecycle table; a move to cancelled triggers the full
// compensating cancellation, not a bare column update.
type UpdateStatusHandler struct {
	uow UnitOfWork
}

// NewUpdateStatusHandler creates a new update status handler
func NewUpdateStatusHandler(uow UnitOfWork) *UpdateStatusHandler {
	return &UpdateStatusHandler{uow: uow}
}

// Handle executes the update status command
func (h *UpdateStatusHandler) Handle(ctx context.Context, cmd UpdateStatusCommand) error {
	if cmd.OrderID == 0 {
		return fmt.Errorf("order_id is required")
	}
	if !orderdomain.ValidStatus(cmd.Status) {
		return fmt.Errorf("invalid status: %s", cmd.Status)
	}

	return h.uow.Do(ctx, func(s Stores) error {
		order, err := s.Orders.FindByID(cmd.OrderID)
		if err != nil {
			return fmt.Errorf("order not found: %w", err)
		}

		if cmd.Status == orderdomain.StatusCancelled {
			return cancelInTx(s, order)
		}

		if !orderdomain.CanTransition(order.Status, cmd.Status) {
			return fmt.Errorf("%w: %s -> %s", orderdomain.ErrInvalidTransition, order.Status, cmd.Status)
		}

		updated, err := s.Orders.UpdateStatus(order.ID, order.Status, cmd.Status)
		if err != nil {
			return fmt.Errorf("failed to update order status: %w", err)
		}
		if !updated {
			return fmt.Errorf("%w: order %d is no longer %s", orderdomain.ErrConcurrentModification, order.ID, order.Status)
		}

		return nil
	})
}
