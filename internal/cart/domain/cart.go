package domain

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Line is one (user, variant) cart entry. Price is snapshotted at add time.
// Uniqueness of (user, variant) holds among non-deleted rows only, so a
// re-added item never collides with its soft-deleted predecessor; the
// repository migration creates the partial unique index.
type Line struct {
	ID        uint            `json:"id" gorm:"primaryKey"`
	UserID    uint            `json:"user_id" gorm:"not null;index"`
	VariantID uint            `json:"variant_id" gorm:"not null;index"`
	Quantity  int             `json:"quantity" gorm:"not null"`
	Price     decimal.Decimal `json:"price" gorm:"type:decimal(20,2);not null"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	DeletedAt gorm.DeletedAt  `json:"-" gorm:"index"`
}

// TableName specifies the table name
func (Line) TableName() string {
	return "cart_lines"
}

// Subtotal returns price x quantity
func (l Line) Subtotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// CartRepository defines the contract for cart data access
type CartRepository interface {
	FindLine(userID, variantID uint) (*Line, error)
	FindByUser(userID uint) ([]Line, error)
	SaveLine(line *Line) error
	DeleteLine(userID, variantID uint) error
	Clear(userID uint) error
}
