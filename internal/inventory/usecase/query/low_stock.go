package query

import (
	"fmt"

	"github.com/tranqv/shopcore/internal/inventory/domain"
)

// LowStockQuery represents the query for rows at or below reorder level
type LowStockQuery struct {
	Limit int
}

// LowStockHandler handles low stock query
type LowStockHandler struct {
	repo domain.InventoryRepository
}

// NewLowStockHandler creates a new low stock handler
func NewLowStockHandler(repo domain.InventoryRepository) *LowStockHandler {
	return &LowStockHandler{repo: repo}
}

// Handle executes the low stock query
func (h *LowStockHandler) Handle(query LowStockQuery) ([]domain.Record, error) {
	if query.Limit <= 0 || query.Limit > 200 {
		query.Limit = 50
	}

	records, err := h.repo.FindLowStock(query.Limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list low stock rows: %w", err)
	}

	return records, nil
}
