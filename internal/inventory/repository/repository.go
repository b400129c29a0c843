package repository

import (
	"errors"
	"fmt"

	"github.com/tranqv/shopcore/internal/inventory/domain"
	"gorm.io/gorm"
)

type GormInventoryRepository struct {
	db *gorm.DB
}

func NewGormInventoryRepository(db *gorm.DB) *GormInventoryRepository {
	return &GormInventoryRepository{db: db}
}

func (r *GormInventoryRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&domain.Warehouse{}, &domain.Record{}, &domain.StockMovement{})
}

// WithTx returns a repository bound to the given transaction
func (r *GormInventoryRepository) WithTx(tx *gorm.DB) *GormInventoryRepository {
	return &GormInventoryRepository{db: tx}
}

func (r *GormInventoryRepository) CreateWarehouse(warehouse *domain.Warehouse) error {
	return r.db.Create(warehouse).Error
}

func (r *GormInventoryRepository) FindWarehouseByID(id uint) (*domain.Warehouse, error) {
	var warehouse domain.Warehouse
	err := r.db.First(&warehouse, id).Error
	if err != nil {
		return nil, err
	}
	return &warehouse, nil
}

func (r *GormInventoryRepository) FindWarehouseByCode(code string) (*domain.Warehouse, error) {
	var warehouse domain.Warehouse
	err := r.db.Where("code = ?", code).First(&warehouse).Error
	if err != nil {
		return nil, err
	}
	return &warehouse, nil
}

func (r *GormInventoryRepository) FindAllWarehouses(limit, offset int) ([]domain.Warehouse, error) {
	var warehouses []domain.Warehouse
	err := r.db.Limit(limit).Offset(offset).Find(&warehouses).Error
	return warehouses, err
}

// UpsertRecord creates a ledger row or saves an existing one. Uniqueness of
// (variant, warehouse) among live rows is enforced by the partial unique index.
func (r *GormInventoryRepository) UpsertRecord(record *domain.Record) error {
	var existing domain.Record
	err := r.db.Where("variant_id = ? AND warehouse_id = ?", record.VariantID, record.WarehouseID).
		First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return r.db.Create(record).Error
	}
	if err != nil {
		return err
	}

	existing.QuantityOnHand = record.QuantityOnHand
	existing.QuantityReserved = record.QuantityReserved
	existing.ReorderLevel = record.ReorderLevel
	*record = existing
	return r.db.Save(&existing).Error
}

func (r *GormInventoryRepository) FindRecord(variantID, warehouseID uint) (*domain.Record, error) {
	var record domain.Record
	err := r.db.Where("variant_id = ? AND warehouse_id = ?", variantID, warehouseID).
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *GormInventoryRepository) FindRecordsByVariant(variantID uint) ([]domain.Record, error) {
	var records []domain.Record
	err := r.db.Where("variant_id = ?", variantID).
		Order("warehouse_id asc").
		Find(&records).Error
	return records, err
}

func (r *GormInventoryRepository) FindAll(limit, offset int) ([]domain.Record, error) {
	var records []domain.Record
	err := r.db.Limit(limit).Offset(offset).Find(&records).Error
	return records, err
}

// Availability sums max(0, on_hand - reserved) across warehouses on read.
// The ledger is the single source of truth; there is no denormalized counter.
func (r *GormInventoryRepository) Availability(variantID uint) (int, error) {
	records, err := r.FindRecordsByVariant(variantID)
	if err != nil {
		return 0, err
	}
	total := 0
	for _, rec := range records {
		total += rec.Available()
	}
	return total, nil
}

// DecrementOnHand applies an atomic conditional decrement. It succeeds only
// when the row still has enough available quantity at update time, which
// closes the check-then-act window between concurrent checkouts.
func (r *GormInventoryRepository) DecrementOnHand(variantID, warehouseID uint, qty int) (bool, error) {
	if qty <= 0 {
		return false, fmt.Errorf("quantity must be greater than 0")
	}
	res := r.db.Model(&domain.Record{}).
		Where("variant_id = ? AND warehouse_id = ? AND quantity_on_hand - quantity_reserved >= ?",
			variantID, warehouseID, qty).
		UpdateColumn("quantity_on_hand", gorm.Expr("quantity_on_hand - ?", qty))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// IncrementOnHand restores quantity on cancellation, unconditionally
func (r *GormInventoryRepository) IncrementOnHand(variantID, warehouseID uint, qty int) error {
	if qty <= 0 {
		return fmt.Errorf("quantity must be greater than 0")
	}
	return r.db.Model(&domain.Record{}).
		Where("variant_id = ? AND warehouse_id = ?", variantID, warehouseID).
		UpdateColumn("quantity_on_hand", gorm.Expr("quantity_on_hand + ?", qty)).Error
}

// AdjustQuantity applies a manual signed adjustment and writes the audit row
func (r *GormInventoryRepository) AdjustQuantity(variantID, warehouseID uint, change int, notes string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		txRepo := r.WithTx(tx)

		if change < 0 {
			ok, err := txRepo.DecrementOnHand(variantID, warehouseID, -change)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("adjustment would take stock below reserved quantity")
			}
		} else {
			if err := txRepo.IncrementOnHand(variantID, warehouseID, change); err != nil {
				return err
			}
		}

		record, err := txRepo.FindRecord(variantID, warehouseID)
		if err != nil {
			return err
		}

		return txRepo.CreateMovement(&domain.StockMovement{
			VariantID:      variantID,
			WarehouseID:    warehouseID,
			QuantityChange: change,
			QuantityAfter:  record.QuantityOnHand,
			Reference:      domain.RefManualAdjustment,
			Notes:          notes,
		})
	})
}

func (r *GormInventoryRepository) FindLowStock(limit int) ([]domain.Record, error) {
	var records []domain.Record
	err := r.db.
		Where("quantity_on_hand - quantity_reserved <= reorder_level").
		Limit(limit).
		Find(&records).Error
	return records, err
}

func (r *GormInventoryRepository) CreateMovement(movement *domain.StockMovement) error {
	return r.db.Create(movement).Error
}

func (r *GormInventoryRepository) FindMovementsByOrder(orderID uint) ([]domain.StockMovement, error) {
	var movements []domain.StockMovement
	err := r.db.Where("order_id = ?", orderID).Order("id asc").Find(&movements).Error
	return movements, err
}
