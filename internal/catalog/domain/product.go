package domain

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product represents a sellable product
type Product struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	Name        string         `json:"name" gorm:"not null"`
	Slug        string         `json:"slug" gorm:"uniqueIndex;not null"`
	Description string         `json:"description"`
	IsActive    bool           `json:"is_active" gorm:"default:true"`
	Variants    []Variant      `json:"variants,omitempty" gorm:"foreignKey:ProductID"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName specifies the table name
func (Product) TableName() string {
	return "products"
}

// Variant is a purchasable SKU-level configuration of a product.
// Availability always comes from the inventory ledger summed on read;
// there is no denormalized stock counter here.
type Variant struct {
	ID         uint            `json:"id" gorm:"primaryKey"`
	ProductID  uint            `json:"product_id" gorm:"not null;index"`
	SKU        string          `json:"sku" gorm:"uniqueIndex;not null"`
	Attributes string          `json:"attributes"` // e.g. "size=M,color=red"
	Price      decimal.Decimal `json:"price" gorm:"type:decimal(20,2);not null"`
	IsActive   bool            `json:"is_active" gorm:"default:true"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
	DeletedAt  gorm.DeletedAt  `json:"-" gorm:"index"`
}

// TableName specifies the table name
func (Variant) TableName() string {
	return "variants"
}

// ProductRepository defines the contract for catalog data access
type ProductRepository interface {
	Create(product *Product) error
	FindByID(id uint) (*Product, error)
	FindBySlug(slug string) (*Product, error)
	FindAll(limit, offset int) ([]Product, error)
	Update(product *Product) error
	Delete(id uint) error
	Count() (int64, error)

	CreateVariant(variant *Variant) error
	FindVariantByID(id uint) (*Variant, error)
	FindVariantBySKU(sku string) (*Variant, error)
	FindVariantsByProductID(productID uint) ([]Variant, error)
	UpdateVariant(variant *Variant) error
	DeleteVariant(id uint) error
}
