package query

import (
	"fmt"

	"github.com/tranqv/shopcore/internal/catalog/domain"
)

// GetProductQuery represents the query to get a product
type GetProductQuery struct {
	ID   uint
	Slug string
}

// GetProductHandler handles get product query
type GetProductHandler struct {
	repo domain.ProductRepository
}

// NewGetProductHandler creates a new get product handler
func NewGetProductHandler(repo domain.ProductRepository) *GetProductHandler {
	return &GetProductHandler{repo: repo}
}

// Handle executes the get product query
func (h *GetProductHandler) Handle(query GetProductQuery) (*domain.Product, error) {
	if query.ID == 0 && query.Slug == "" {
		return nil, fmt.Errorf("id or slug is required")
	}

	if query.ID != 0 {
		product, err := h.repo.FindByID(query.ID)
		if err != nil {
			return nil, fmt.Errorf("product not found: %w", err)
		}
		return product, nil
	}

	product, err := h.repo.FindBySlug(query.Slug)
	if err != nil {
		return nil, fmt.Errorf("product not found: %w", err)
	}
	return product, nil
}
