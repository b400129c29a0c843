package domain

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Warehouse represents a physical stock location
type Warehouse struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	Code      string         `json:"code" gorm:"uniqueIndex;not null"`
	Name      string         `json:"name" gorm:"not null"`
	Address   string         `json:"address"`
	IsActive  bool           `json:"is_active" gorm:"default:true"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName specifies the table name
func (Warehouse) TableName() string {
	return "warehouses"
}

// Record is the per-(variant, warehouse) inventory ledger row.
// Reservations are advisory: QuantityReserved may exceed QuantityOnHand,
// availability clamps at zero.
type Record struct {
	ID               uint           `json:"id" gorm:"primaryKey"`
	VariantID        uint           `json:"variant_id" gorm:"not null;index:idx_inventory_variant_warehouse,unique"`
	WarehouseID      uint           `json:"warehouse_id" gorm:"not null;index:idx_inventory_variant_warehouse,unique"`
	QuantityOnHand   int            `json:"quantity_on_hand" gorm:"not null;default:0"`
	QuantityReserved int            `json:"quantity_reserved" gorm:"not null;default:0"`
	ReorderLevel     int            `json:"reorder_level" gorm:"not null;default:0"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName specifies the table name
func (Record) TableName() string {
	return "inventory_records"
}

// Available returns max(0, on-hand - reserved)
func (r Record) Available() int {
	available := r.QuantityOnHand - r.QuantityReserved
	if available < 0 {
		return 0
	}
	return available
}

// LowStock reports whether the row has fallen to its reorder level
func (r Record) LowStock() bool {
	return r.Available() <= r.ReorderLevel
}

// StockMovement is an append-only audit row per stock-affecting event.
// Rows are written once per warehouse touched and never mutated.
type StockMovement struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	VariantID      uint      `json:"variant_id" gorm:"not null;index"`
	WarehouseID    uint      `json:"warehouse_id" gorm:"not null;index"`
	OrderID        *uint     `json:"order_id,omitempty" gorm:"index"`
	QuantityChange int       `json:"quantity_change" gorm:"not null"`
	QuantityAfter  int       `json:"quantity_after" gorm:"not null"`
	Reference      string    `json:"reference"`
	Notes          string    `json:"notes"`
	CreatedAt      time.Time `json:"created_at"`
}

// TableName specifies the table name
func (StockMovement) TableName() string {
	return "stock_movements"
}

// Movement references
const (
	RefOrderPlacement    = "order-placement"
	RefOrderCancellation = "order-cancellation"
	RefDirectSale        = "direct-sale"
	RefManualAdjustment  = "manual-adjustment"
)

// Allocation is one warehouse's share of an order line allocation
type Allocation struct {
	WarehouseID uint
	Quantity    int
}

// InsufficientStockError reports a failed stock check, naming the SKU
// and both sides of the comparison
type InsufficientStockError struct {
	SKU       string
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: available %d, requested %d", e.SKU, e.Available, e.Requested)
}

// PlanAllocation distributes a requested quantity across warehouse rows,
// consuming from available warehouses greedily in the order given.
// It returns the per-warehouse plan, or the total availability when the
// request cannot be satisfied.
func PlanAllocation(records []Record, requested int) ([]Allocation, int) {
	total := 0
	for _, r := range records {
		total += r.Available()
	}
	if total < requested {
		return nil, total
	}

	var plan []Allocation
	remaining := requested
	for _, r := range records {
		if remaining == 0 {
			break
		}
		take := r.Available()
		if take > remaining {
			take = remaining
		}
		if take == 0 {
			continue
		}
		plan = append(plan, Allocation{WarehouseID: r.WarehouseID, Quantity: take})
		remaining -= take
	}
	return plan, total
}

// InventoryRepository defines the contract for inventory data access
type InventoryRepository interface {
	CreateWarehouse(warehouse *Warehouse) error
	FindWarehouseByID(id uint) (*Warehouse, error)
	FindWarehouseByCode(code string) (*Warehouse, error)
	FindAllWarehouses(limit, offset int) ([]Warehouse, error)

	UpsertRecord(record *Record) error
	FindRecord(variantID, warehouseID uint) (*Record, error)
	FindRecordsByVariant(variantID uint) ([]Record, error)
	FindAll(limit, offset int) ([]Record, error)
	Availability(variantID uint) (int, error)
	AdjustQuantity(variantID, warehouseID uint, change int, notes string) error
	FindLowStock(limit int) ([]Record, error)

	CreateMovement(movement *StockMovement) error
	FindMovementsByOrder(orderID uint) ([]StockMovement, error)
}
