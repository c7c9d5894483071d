package models

// VariantType distinguishes size options (stock-bounded) from color options
// (unlimited notional stock).
type VariantType string

const (
	VariantTypeSize  VariantType = "size"
	VariantTypeColor VariantType = "color"
)

// Variant is one size or color option of a product. Quantity is only
// meaningful for size variants.
type Variant struct {
	ID        uint        `gorm:"primaryKey"`
	ProductID uint        `gorm:"not null;index"`
	Type      VariantType `gorm:"not null"`
	Name      string      `gorm:"not null"`
	Value     string
	Quantity  int  `gorm:"not null;default:0"`
	IsActive  bool `gorm:"not null;default:true"`
	Position  int  `gorm:"not null;default:0"`
}

func (v *Variant) TableName() string {
	return "variants"
}

// ActiveSizeTotal sums the quantities of active size variants and reports how
// many there are. The reconciler only rewrites the product aggregate when the
// count is non-zero.
func ActiveSizeTotal(variants []Variant) (total int, active int) {
	for _, v := range variants {
		if v.Type == VariantTypeSize && v.IsActive {
			total += v.Quantity
			active++
		}
	}
	return total, active
}
