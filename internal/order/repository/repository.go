package repository

import (
	"github.com/tranqv/shopcore/internal/order/domain"
	"gorm.io/gorm"
)

type GormOrderRepository struct {
	db *gorm.DB
}

func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

func (r *GormOrderRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&domain.Order{}, &domain.Line{}, &domain.Shipment{})
}

// WithTx returns a repository bound to the given transaction
func (r *GormOrderRepository) WithTx(tx *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: tx}
}

// Create inserts the order together with its lines
func (r *GormOrderRepository) Create(order *domain.Order) error {
	return r.db.Create(order).Error
}

func (r *GormOrderRepository) FindByID(id uint) (*domain.Order, error) {
	var order domain.Order
	err := r.db.Preload("Lines").First(&order, id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *GormOrderRepository) FindByCode(code string) (*domain.Order, error) {
	var order domain.Order
	err := r.db.Preload("Lines").Where("code = ?", code).First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *GormOrderRepository) FindAll(limit, offset int) ([]domain.Order, error) {
	var orders []domain.Order
	err := r.db.Preload("Lines").Limit(limit).Offset(offset).Order("id desc").Find(&orders).Error
	return orders, err
}

func (r *GormOrderRepository) FindByUserID(userID uint, limit, offset int) ([]domain.Order, error) {
	var orders []domain.Order
	err := r.db.Preload("Lines").
		Where("user_id = ?", userID).
		Limit(limit).Offset(offset).
		Order("id desc").
		Find(&orders).Error
	return orders, err
}

// UpdateStatus moves the order to a new status only if the row still holds
// the status it was read at. Reports whether a row was updated; zero rows
// means another transaction moved the order first and the caller must abort.
func (r *GormOrderRepository) UpdateStatus(orderID uint, from, to domain.Status) (bool, error) {
	res := r.db.Model(&domain.Order{}).
		Where("id = ? AND status = ?", orderID, from).
		Update("status", to)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *GormOrderRepository) CreateShipment(shipment *domain.Shipment) error {
	return r.db.Create(shipment).Error
}

func (r *GormOrderRepository) FindShipmentByOrderID(orderID uint) (*domain.Shipment, error) {
	var shipment domain.Shipment
	err := r.db.Where("order_id = ?", orderID).First(&shipment).Error
	if err != nil {
		return nil, err
	}
	return &shipment, nil
}

func (r *GormOrderRepository) UpdateShipment(shipment *domain.Shipment) error {
	return r.db.Save(shipment).Error
}
