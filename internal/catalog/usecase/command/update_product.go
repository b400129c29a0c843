package command

import (
	"fmt"

	"github.com/tranqv/shopcore/internal/catalog/domain"
)

// UpdateProductCommand represents the command to update a product
type UpdateProductCommand struct {
	ID          uint
	Name        *string
	Description *string
	IsActive    *bool
}

// UpdateProductHandler handles update product command
type UpdateProductHandler struct {
	repo domain.ProductRepository
}

// NewUpdateProductHandler creates a new update product handler
func NewUpdateProductHandler(repo domain.ProductRepository) *UpdateProductHandler {
	return &UpdateProductHandler{repo: repo}
}

// Handle executes the update product command
func (h *UpdateProductHandler) Handle(cmd UpdateProductCommand) (*domain.Product, error) {
	if cmd.ID == 0 {
		return nil, fmt.Errorf("id is required")
	}

	product, err := h.repo.FindByID(cmd.ID)
	if err != nil {
		return nil, fmt.Errorf("product not found: %w", err)
	}

	if cmd.Name != nil {
		product.Name = *cmd.Name
	}
	if cmd.Description != nil {
		product.Description = *cmd.Description
	}
	if cmd.IsActive != nil {
		product.IsActive = *cmd.IsActive
	}

	if err := h.repo.Update(product); err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	return product, nil
}
