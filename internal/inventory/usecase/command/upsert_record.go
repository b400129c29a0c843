package command

import (
	"fmt"

	"github.com/tranqv/shopcore/internal/inventory/domain"
)

// UpsertRecordCommand creates or replaces a (variant, warehouse) ledger row
type UpsertRecordCommand struct {
	VariantID        uint
	WarehouseID      uint
	QuantityOnHand   int
	QuantityReserved int
	ReorderLevel     int
}

// UpsertRecordHandler handles upsert record command
type UpsertRecordHandler struct {
	repo domain.InventoryRepository
}

// NewUpsertRecordHandler creates a new upsert record handler
func NewUpsertRecordHandler(repo domain.InventoryRepository) *UpsertRecordHandler {
	return &UpsertRecordHandler{repo: repo}
}

// Handle executes the upsert record command
func (h *UpsertRecordHandler) Handle(cmd UpsertRecordCommand) (*domain.Record, error) {
	if cmd.VariantID == 0 {
		return nil, fmt.Errorf("variant_id is required")
	}
	if cmd.WarehouseID == 0 {
		return nil, fmt.Errorf("warehouse_id is required")
	}
	if cmd.QuantityOnHand < 0 || cmd.QuantityReserved < 0 {
		return nil, fmt.Errorf("quantities cannot be negative")
	}

	if _, err := h.repo.FindWarehouseByID(cmd.WarehouseID); err != nil {
		return nil, fmt.Errorf("warehouse not found: %w", err)
	}

	record := &domain.Record{
		VariantID:        cmd.VariantID,
		WarehouseID:      cmd.WarehouseID,
		QuantityOnHand:   cmd.QuantityOnHand,
		QuantityReserved: cmd.QuantityReserved,
		ReorderLevel:     cmd.ReorderLevel,
	}

	if err := h.repo.UpsertRecord(record); err != nil {
		return nil, fmt.Errorf("failed to upsert inventory record: %w", err)
	}

	return record, nil
}
