package models

import (
	"errors"

	"gorm.io/gorm"
)

type ProductsRepository struct {
	db *gorm.DB
}

// ErrProductNotFound is returned when a product is not found.
var ErrProductNotFound = errors.New("product not found")

func NewProductsRepository(db *gorm.DB) *ProductsRepository {
	return &ProductsRepository{
		db: db,
	}
}

// FindByID loads a product with its variants and images. Variants come back
// in admin-defined order so size pickers and the cart render consistently.
func (r *ProductsRepository) FindByID(id uint) (*Product, error) {
	var product Product
	if err := r.preloaded().First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err // Other DB error
	}
	return &product, nil
}

// FindBySlug serves the storefront product page.
func (r *ProductsRepository) FindBySlug(slug string) (*Product, error) {
	var product Product
	if err := r.preloaded().Where("slug = ?", slug).First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return &product, nil
}

func (r *ProductsRepository) preloaded() *gorm.DB {
	return r.db.
		Preload("Variants", func(db *gorm.DB) *gorm.DB {
			return db.Order("variants.position ASC, variants.id ASC")
		}).
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("images.position ASC, images.id ASC")
		})
}
