package query

import (
	"fmt"

	orderdomain "github.com/tranqv/shopcore/internal/order/domain"
)

// ListOrdersQuery represents the query to list all orders (staff endpoint)
type ListOrdersQuery struct {
	Limit  int
	Offset int
}

// ListOrdersHandler handles list orders query
type ListOrdersHandler struct {
	orders orderdomain.OrderRepository
}

// NewListOrdersHandler creates a new list orders handler
func NewListOrdersHandler(orders orderdomain.OrderRepository) *ListOrdersHandler {
	return &ListOrdersHandler{orders: orders}
}

// Handle executes the list orders query
func (h *ListOrdersHandler) Handle(query ListOrdersQuery) ([]orderdomain.Order, error) {
	if query.Limit <= 0 || query.Limit > 100 {
		query.Limit = 20
	}
	if query.Offset < 0 {
		query.Offset = 0
	}

	orders, err := h.orders.FindAll(query.Limit, query.Offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	return orders, nil
}
