package query

import (
	"fmt"

	"github.com/shopspring/decimal"
	cartdomain "github.com/tranqv/shopcore/internal/cart/domain"
)

// ListItemsQuery represents the query for a user's cart contents
type ListItemsQuery struct {
	UserID uint
}

// CartView is the cart contents with the running subtotal
type CartView struct {
	Lines    []cartdomain.Line `json:"lines"`
	SubTotal decimal.Decimal   `json:"sub_total"`
}

// ListItemsHandler handles list items query
type ListItemsHandler struct {
	carts cartdomain.CartRepository
}

// NewListItemsHandler creates a new list items handler
func NewListItemsHandler(carts cartdomain.CartRepository) *ListItemsHandler {
	return &ListItemsHandler{carts: carts}
}

// Handle executes the list items query
func (h *ListItemsHandler) Handle(query ListItemsQuery) (*CartView, error) {
	if query.UserID == 0 {
		return nil, fmt.Errorf("user_id is required")
	}

	lines, err := h.carts.FindByUser(query.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	subTotal := decimal.Zero
	for _, line := range lines {
		subTotal = subTotal.Add(line.Subtotal())
	}

	return &CartView{Lines: lines, SubTotal: subTotal}, nil
}
