package command

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	cartdomain "github.com/tranqv/shopcore/internal/cart/domain"
	catalogdomain "github.com/tranqv/shopcore/internal/catalog/domain"
	invdomain "github.com/tranqv/shopcore/internal/inventory/domain"
)

// VariantReader resolves variants for price snapshots
type VariantReader interface {
	FindVariantByID(id uint) (*catalogdomain.Variant, error)
}

// AvailabilityReader reads ledger-summed availability for a variant
type AvailabilityReader interface {
	Availability(variantID uint) (int, error)
}

// AddItemCommand represents the command to add a variant to a user's cart
type AddItemCommand struct {
	UserID    uint
	VariantID uint
	Quantity  int
}

// AddItemHandler handles add item command
type AddItemHandler struct {
	carts        cartdomain.CartRepository
	variants     VariantReader
	availability AvailabilityReader
}

// NewAddItemHandler creates a new add item handler
func NewAddItemHandler(carts cartdomain.CartRepository, variants VariantReader, availability AvailabilityReader) *AddItemHandler {
	return &AddItemHandler{carts: carts, variants: variants, availability: availability}
}

// Handle executes the add item command. A repeat add sums quantities and
// re-validates the summed total against availability.
func (h *AddItemHandler) Handle(cmd AddItemCommand) (*cartdomain.Line, error) {
	if cmd.UserID == 0 {
		return nil, fmt.Errorf("user_id is required")
	}
	if cmd.VariantID == 0 {
		return nil, fmt.Errorf("variant_id is required")
	}
	if cmd.Quantity < 1 {
		return nil, fmt.Errorf("quantity must be at least 1")
	}

	variant, err := h.variants.FindVariantByID(cmd.VariantID)
	if err != nil {
		return nil, fmt.Errorf("variant not found: %w", err)
	}
	if !variant.IsActive {
		return nil, fmt.Errorf("variant %s is no longer sold", variant.SKU)
	}

	requested := cmd.Quantity
	line, err := h.carts.FindLine(cmd.UserID, cmd.VariantID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to load cart line: %w", err)
	}
	if line != nil {
		requested += line.Quantity
	}

	available, err := h.availability.Availability(cmd.VariantID)
	if err != nil {
		return nil, fmt.Errorf("failed to check availability: %w", err)
	}
	if available < requested {
		return nil, &invdomain.InsufficientStockError{
			SKU:       variant.SKU,
			Available: available,
			Requested: requested,
		}
	}

	if line == nil {
		line = &cartdomain.Line{
			UserID:    cmd.UserID,
			VariantID: cmd.VariantID,
		}
	}
	line.Quantity = requested
	line.Price = variant.Price // snapshot at add time

	if err := h.carts.SaveLine(line); err != nil {
		return nil, fmt.Errorf("failed to save cart line: %w", err)
	}

	return line, nil
}
