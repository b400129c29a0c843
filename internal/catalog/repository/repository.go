package repository

import (
	"github.com/tranqv/shopcore/internal/catalog/domain"
	"gorm.io/gorm"
)

type GormProductRepository struct {
	db *gorm.DB
}

func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

func (r *GormProductRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&domain.Product{}, &domain.Variant{})
}

func (r *GormProductRepository) Create(product *domain.Product) error {
	return r.db.Create(product).Error
}

func (r *GormProductRepository) FindByID(id uint) (*domain.Product, error) {
	var product domain.Product
	err := r.db.Preload("Variants").First(&product, id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *GormProductRepository) FindBySlug(slug string) (*domain.Product, error) {
	var product domain.Product
	err := r.db.Preload("Variants").Where("slug = ?", slug).First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *GormProductRepository) FindAll(limit, offset int) ([]domain.Product, error) {
	var products []domain.Product
	err := r.db.Preload("Variants").Limit(limit).Offset(offset).Find(&products).Error
	return products, err
}

func (r *GormProductRepository) Update(product *domain.Product) error {
	return r.db.Save(product).Error
}

func (r *GormProductRepository) Delete(id uint) error {
	return r.db.Delete(&domain.Product{}, id).Error
}

func (r *GormProductRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&domain.Product{}).Count(&count).Error
	return count, err
}

func (r *GormProductRepository) CreateVariant(variant *domain.Variant) error {
	return r.db.Create(variant).Error
}

func (r *GormProductRepository) FindVariantByID(id uint) (*domain.Variant, error) {
	var variant domain.Variant
	err := r.db.First(&variant, id).Error
	if err != nil {
		return nil, err
	}
	return &variant, nil
}

func (r *GormProductRepository) FindVariantBySKU(sku string) (*domain.Variant, error) {
	var variant domain.Variant
	err := r.db.Where("sku = ?", sku).First(&variant).Error
	if err != nil {
		return nil, err
	}
	return &variant, nil
}

func (r *GormProductRepository) FindVariantsByProductID(productID uint) ([]domain.Variant, error) {
	var variants []domain.Variant
	err := r.db.Where("product_id = ?", productID).Find(&variants).Error
	return variants, err
}

func (r *GormProductRepository) UpdateVariant(variant *domain.Variant) error {
	return r.db.Save(variant).Error
}

func (r *GormProductRepository) DeleteVariant(id uint) error {
	return r.db.Delete(&domain.Variant{}, id).Error
}
