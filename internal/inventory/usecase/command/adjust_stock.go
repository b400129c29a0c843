package command

import (
	"fmt"

	"github.com/tranqv/shopcore/internal/inventory/domain"
)

// AdjustStockCommand represents a manual stock adjustment on one ledger row
type AdjustStockCommand struct {
	VariantID   uint
	WarehouseID uint
	Change      int // signed
	Notes       string
}

// AdjustStockHandler handles adjust stock command
type AdjustStockHandler struct {
	repo domain.InventoryRepository
}

// NewAdjustStockHandler creates a new adjust stock handler
func NewAdjustStockHandler(repo domain.InventoryRepository) *AdjustStockHandler {
	return &AdjustStockHandler{repo: repo}
}

// Handle executes the adjust stock command
func (h *AdjustStockHandler) Handle(cmd AdjustStockCommand) error {
	if cmd.VariantID == 0 {
		return fmt.Errorf("variant_id is required")
	}
	if cmd.WarehouseID == 0 {
		return fmt.Errorf("warehouse_id is required")
	}
	if cmd.Change == 0 {
		return fmt.Errorf("change must be non-zero")
	}

	if _, err := h.repo.FindRecord(cmd.VariantID, cmd.WarehouseID); err != nil {
		return fmt.Errorf("inventory record not found: %w", err)
	}

	if err := h.repo.AdjustQuantity(cmd.VariantID, cmd.WarehouseID, cmd.Change, cmd.Notes); err != nil {
		return fmt.Errorf("failed to adjust stock: %w", err)
	}

	return nil
}
