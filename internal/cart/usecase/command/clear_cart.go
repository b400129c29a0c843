package command

import (
	"fmt"

	cartdomain "github.com/tranqv/shopcore/internal/cart/domain"
)

// ClearCartCommand removes every line from a user's cart
type ClearCartCommand struct {
	UserID uint
}

// ClearCartHandler handles clear cart command
type ClearCartHandler struct {
	carts cartdomain.CartRepository
}

// NewClearCartHandler creates a new clear cart handler
func NewClearCartHandler(carts cartdomain.CartRepository) *ClearCartHandler {
	return &ClearCartHandler{carts: carts}
}

// Handle executes the clear cart command
func (h *ClearCartHandler) Handle(cmd ClearCartCommand) error {
	if cmd.UserID == 0 {
		return fmt.Errorf("user_id is required")
	}

	if err := h.carts.Clear(cmd.UserID); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}

	return nil
}
