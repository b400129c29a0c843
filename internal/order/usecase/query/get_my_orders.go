package query

import (
	"fmt"

	orderdomain "github.com/tranqv/shopcore/internal/order/domain"
)

// GetMyOrdersQuery represents the query for the authenticated user's orders
type GetMyOrdersQuery struct {
	UserID uint
	Limit  int
	Offset int
}

// GetMyOrdersHandler handles get my orders query
type GetMyOrdersHandler struct {
	orders orderdomain.OrderRepository
}

// NewGetMyOrdersHandler creates a new get my orders handler
func NewGetMyOrdersHandler(orders orderdomain.OrderRepository) *GetMyOrdersHandler {
	return &GetMyOrdersHandler{orders: orders}
}

// Handle executes the get my orders query
func (h *GetMyOrdersHandler) Handle(query GetMyOrdersQuery) ([]orderdomain.Order, error) {
	if query.UserID == 0 {
		return nil, fmt.Errorf("user_id is required")
	}
	if query.Limit <= 0 || query.Limit > 100 {
		query.Limit = 20
	}
	if query.Offset < 0 {
		query.Offset = 0
	}

	orders, err := h.orders.FindByUserID(query.UserID, query.Limit, query.Offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	return orders, nil
}
