package command

import (
	"fmt"

	"github.com/tranqv/shopcore/internal/inventory/domain"
)

// CreateWarehouseCommand represents the command to create a warehouse
type CreateWarehouseCommand struct {
	Code    string
	Name    string
	Address string
}

// CreateWarehouseHandler handles create warehouse command
type CreateWarehouseHandler struct {
	repo domain.InventoryRepository
}

// NewCreateWarehouseHandler creates a new create warehouse handler
func NewCreateWarehouseHandler(repo domain.InventoryRepository) *CreateWarehouseHandler {
	return &CreateWarehouseHandler{repo: repo}
}

// Handle executes the create warehouse command
func (h *CreateWarehouseHandler) Handle(cmd CreateWarehouseCommand) (*domain.Warehouse, error) {
	if cmd.Code == "" {
		return nil, fmt.Errorf("code is required")
	}
	if cmd.Name == "" {
		return nil, fmt.Errorf("name is required")
	}

	if existing, _ := h.repo.FindWarehouseByCode(cmd.Code); existing != nil {
		return nil, fmt.Errorf("warehouse code already exists: %s", cmd.Code)
	}

	warehouse := &domain.Warehouse{
		Code:     cmd.Code,
		Name:     cmd.Name,
		Address:  cmd.Address,
		IsActive: true,
	}

	if err := h.repo.CreateWarehouse(warehouse); err != nil {
		return nil, fmt.Errorf("failed to create warehouse: %w", err)
	}

	return warehouse, nil
}
