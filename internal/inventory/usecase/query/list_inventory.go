package query

import (
	"fmt"

	"github.com/tranqv/shopcore/internal/inventory/domain"
)

// ListInventoryQuery represents the query to list ledger rows
type ListInventoryQuery struct {
	Limit  int
	Offset int
}

// ListInventoryHandler handles list inventory query
type ListInventoryHandler struct {
	repo domain.InventoryRepository
}

// NewListInventoryHandler creates a new list inventory handler
func NewListInventoryHandler(repo domain.InventoryRepository) *ListInventoryHandler {
	return &ListInventoryHandler{repo: repo}
}

// Handle executes the list inventory query
func (h *ListInventoryHandler) Handle(query ListInventoryQuery) ([]domain.Record, error) {
	if query.Limit <= 0 || query.Limit > 100 {
		query.Limit = 20
	}
	if query.Offset < 0 {
		query.Offset = 0
	}

	records, err := h.repo.FindAll(query.Limit, query.Offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list inventory: %w", err)
	}

	return records, nil
}
