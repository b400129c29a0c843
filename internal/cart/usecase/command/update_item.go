package command

import (
	"fmt"

	cartdomain "github.com/tranqv/shopcore/internal/cart/domain"
	invdomain "github.com/tranqv/shopcore/internal/inventory/domain"
)

// UpdateItemCommand sets a cart line to an explicit quantity; zero removes it
type UpdateItemCommand struct {
	UserID    uint
	VariantID uint
	Quantity  int
}

// UpdateItemHandler handles update item command
type UpdateItemHandler struct {
	carts        cartdomain.CartRepository
	variants     VariantReader
	availability AvailabilityReader
}

// NewUpdateItemHandler creates a new update item handler
func NewUpdateItemHandler(carts cartdomain.CartRepository, variants VariantReader, availability AvailabilityReader) *UpdateItemHandler {
	return &UpdateItemHandler{carts: carts, variants: variants, availability: availability}
}

// Handle executes the update item command
func (h *UpdateItemHandler) Handle(cmd UpdateItemCommand) (*cartdomain.Line, error) {
	if cmd.UserID == 0 {
		return nil, fmt.Errorf("user_id is required")
	}
	if cmd.VariantID == 0 {
		return nil, fmt.Errorf("variant_id is required")
	}
	if cmd.Quantity < 0 {
		return nil, fmt.Errorf("quantity cannot be negative")
	}

	line, err := h.carts.FindLine(cmd.UserID, cmd.VariantID)
	if err != nil {
		return nil, fmt.Errorf("cart line not found: %w", err)
	}

	if cmd.Quantity == 0 {
		if err := h.carts.DeleteLine(cmd.UserID, cmd.VariantID); err != nil {
			return nil, fmt.Errorf("failed to remove cart line: %w", err)
		}
		return nil, nil
	}

	available, err := h.availability.Availability(cmd.VariantID)
	if err != nil {
		return nil, fmt.Errorf("failed to check availability: %w", err)
	}
	if available < cmd.Quantity {
		variant, verr := h.variants.FindVariantByID(cmd.VariantID)
		sku := fmt.Sprintf("variant-%d", cmd.VariantID)
		if verr == nil {
			sku = variant.SKU
		}
		return nil, &invdomain.InsufficientStockError{
			SKU:       sku,
			Available: available,
			Requested: cmd.Quantity,
		}
	}

	line.Quantity = cmd.Quantity
	if err := h.carts.SaveLine(line); err != nil {
		return nil, fmt.Errorf("failed to save cart line: %w", err)
	}

	return line, nil
}
