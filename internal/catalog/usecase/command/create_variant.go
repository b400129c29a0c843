package command

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/tranqv/shopcore/internal/catalog/domain"
)

// CreateVariantCommand represents the command to add a variant to a product
type CreateVariantCommand struct {
	ProductID  uint
	SKU        string
	Attributes string
	Price      decimal.Decimal
}

// CreateVariantHandler handles create variant command
type CreateVariantHandler struct {
	repo domain.ProductRepository
}

// NewCreateVariantHandler creates a new create variant handler
func NewCreateVariantHandler(repo domain.ProductRepository) *CreateVariantHandler {
	return &CreateVariantHandler{repo: repo}
}

// Handle executes the create variant command
func (h *CreateVariantHandler) Handle(cmd CreateVariantCommand) (*domain.Variant, error) {
	if cmd.ProductID == 0 {
		return nil, fmt.Errorf("product_id is required")
	}
	if cmd.SKU == "" {
		return nil, fmt.Errorf("sku is required")
	}
	if cmd.Price.IsNegative() || cmd.Price.IsZero() {
		return nil, fmt.Errorf("price must be greater than 0")
	}

	if _, err := h.repo.FindByID(cmd.ProductID); err != nil {
		return nil, fmt.Errorf("product not found: %w", err)
	}

	if existing, _ := h.repo.FindVariantBySKU(cmd.SKU); existing != nil {
		return nil, fmt.Errorf("sku already exists: %s", cmd.SKU)
	}

	variant := &domain.Variant{
		ProductID:  cmd.ProductID,
		SKU:        cmd.SKU,
		Attributes: cmd.Attributes,
		Price:      cmd.Price,
		IsActive:   true,
	}

	if err := h.repo.CreateVariant(variant); err != nil {
		return nil, fmt.Errorf("failed to create variant: %w", err)
	}

	return variant, nil
}
