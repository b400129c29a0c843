package command

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/tranqv/shopcore/internal/catalog/domain"
)

// CreateProductCommand represents the command to create a product with variants
type CreateProductCommand struct {
	Name        string
	Slug        string
	Description string
	Variants    []CreateVariantInput
}

// CreateVariantInput is one variant row in a create product command
type CreateVariantInput struct {
	SKU        string
	Attributes string
	Price      decimal.Decimal
}

// CreateProductHandler handles create product command
type CreateProductHandler struct {
	repo domain.ProductRepository
}

// NewCreateProductHandler creates a new create product handler
func NewCreateProductHandler(repo domain.ProductRepository) *CreateProductHandler {
	return &CreateProductHandler{repo: repo}
}

// Handle executes the create product command
func (h *CreateProductHandler) Handle(cmd CreateProductCommand) (*domain.Product, error) {
	if cmd.Name == "" {
		return nil, fmt.Errorf("name is required")
	}
	if cmd.Slug == "" {
		cmd.Slug = strings.ToLower(strings.ReplaceAll(cmd.Name, " ", "-"))
	}

	product := &domain.Product{
		Name:        cmd.Name,
		Slug:        cmd.Slug,
		Description: cmd.Description,
		IsActive:    true,
	}

	for _, v := range cmd.Variants {
		if v.SKU == "" {
			return nil, fmt.Errorf("variant sku is required")
		}
		if v.Price.IsNegative() || v.Price.IsZero() {
			return nil, fmt.Errorf("variant %s: price must be greater than 0", v.SKU)
		}
		product.Variants = append(product.Variants, domain.Variant{
			SKU:        v.SKU,
			Attributes: v.Attributes,
			Price:      v.Price,
			IsActive:   true,
		})
	}

	if err := h.repo.Create(product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	return product, nil
}
