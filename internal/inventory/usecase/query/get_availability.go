package query

import (
	"fmt"

	"github.com/tranqv/shopcore/internal/inventory/domain"
)

// GetAvailabilityQuery represents the query for a variant's total availability
type GetAvailabilityQuery struct {
	VariantID uint
}

// AvailabilityResult is the availability broken down per warehouse
type AvailabilityResult struct {
	VariantID uint            `json:"variant_id"`
	Available int             `json:"available"`
	Records   []domain.Record `json:"records"`
}

// GetAvailabilityHandler handles get availability query
type GetAvailabilityHandler struct {
	repo domain.InventoryRepository
}

// NewGetAvailabilityHandler creates a new get availability handler
func NewGetAvailabilityHandler(repo domain.InventoryRepository) *GetAvailabilityHandler {
	return &GetAvailabilityHandler{repo: repo}
}

// Handle executes the get availability query
func (h *GetAvailabilityHandler) Handle(query GetAvailabilityQuery) (*AvailabilityResult, error) {
	if query.VariantID == 0 {
		return nil, fmt.Errorf("variant_id is required")
	}

	records, err := h.repo.FindRecordsByVariant(query.VariantID)
	if err != nil {
		return nil, fmt.Errorf("failed to load inventory records: %w", err)
	}

	total := 0
	for _, r := range records {
		total += r.Available()
	}

	return &AvailabilityResult{
		VariantID: query.VariantID,
		Available: total,
		Records:   records,
	}, nil
}
