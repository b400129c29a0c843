package repository

import (
	"errors"

	"github.com/tranqv/shopcore/internal/cart/domain"
	"gorm.io/gorm"
)

type GormCartRepository struct {
	db *gorm.DB
}

func NewGormCartRepository(db *gorm.DB) *GormCartRepository {
	return &GormCartRepository{db: db}
}

func (r *GormCartRepository) AutoMigrate() error {
	if err := r.db.AutoMigrate(&domain.Line{}); err != nil {
		return err
	}
	// Unique among non-deleted rows only, so re-adding after a soft delete
	// does not collide with the dead row.
	return r.db.Exec(
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_cart_lines_user_variant_live
		 ON cart_lines (user_id, variant_id) WHERE deleted_at IS NULL`,
	).Error
}

// WithTx returns a repository bound to the given transaction
func (r *GormCartRepository) WithTx(tx *gorm.DB) *GormCartRepository {
	return &GormCartRepository{db: tx}
}

func (r *GormCartRepository) FindLine(userID, variantID uint) (*domain.Line, error) {
	var line domain.Line
	err := r.db.Where("user_id = ? AND variant_id = ?", userID, variantID).First(&line).Error
	if err != nil {
		return nil, err
	}
	return &line, nil
}

func (r *GormCartRepository) FindByUser(userID uint) ([]domain.Line, error) {
	var lines []domain.Line
	err := r.db.Where("user_id = ?", userID).Order("id asc").Find(&lines).Error
	return lines, err
}

// SaveLine creates or updates a live line. When a soft-deleted row exists for
// the same (user, variant) it is resurrected in place instead of inserting a
// second row.
func (r *GormCartRepository) SaveLine(line *domain.Line) error {
	if line.ID != 0 {
		return r.db.Save(line).Error
	}

	var dead domain.Line
	err := r.db.Unscoped().
		Where("user_id = ? AND variant_id = ? AND deleted_at IS NOT NULL", line.UserID, line.VariantID).
		First(&dead).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return r.db.Create(line).Error
	}

	if err := r.db.Unscoped().Model(&dead).Updates(map[string]interface{}{
		"deleted_at": nil,
		"quantity":   line.Quantity,
		"price":      line.Price,
	}).Error; err != nil {
		return err
	}

	// the caller gets the resurrected row back, not a zero-ID phantom
	line.ID = dead.ID
	line.CreatedAt = dead.CreatedAt
	line.UpdatedAt = dead.UpdatedAt
	return nil
}

func (r *GormCartRepository) DeleteLine(userID, variantID uint) error {
	return r.db.Where("user_id = ? AND variant_id = ?", userID, variantID).
		Delete(&domain.Line{}).Error
}

func (r *GormCartRepository) Clear(userID uint) error {
	return r.db.Where("user_id = ?", userID).Delete(&domain.Line{}).Error
}
