package models

import (
	"github.com/shopspring/decimal"
)

// Product represents a storefront product.
// Quantity is a denormalized aggregate: whenever the product has at least one
// active size variant it mirrors the sum of their quantities (kept in sync by
// the StockReconciler); without size variants it is independently editable.
type Product struct {
	ID       uint            `gorm:"primaryKey"`
	Name     string          `gorm:"not null"`
	Slug     string          `gorm:"uniqueIndex;not null"`
	Price    decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	InStock  bool            `gorm:"not null;default:true"`
	Quantity int             `gorm:"not null;default:0"`
	Images   []Image         `gorm:"foreignKey:ProductID"`
	Variants []Variant       `gorm:"foreignKey:ProductID"`
}

func (p *Product) TableName() string {
	return "products"
}

// HasSizeVariants reports whether any size variant is attached, active or not.
// Size selection is mandatory on the cart side as soon as one exists.
func (p *Product) HasSizeVariants() bool {
	for _, v := range p.Variants {
		if v.Type == VariantTypeSize {
			return true
		}
	}
	return false
}

// ActiveSizeVariant returns the active size variant with the given name.
func (p *Product) ActiveSizeVariant(name string) (*Variant, bool) {
	for i := range p.Variants {
		v := &p.Variants[i]
		if v.Type == VariantTypeSize && v.IsActive && v.Name == name {
			return v, true
		}
	}
	return nil, false
}

// FirstImageURL returns the URL of the product's first image, or "" when the
// product has none.
func (p *Product) FirstImageURL() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0].URL
}
