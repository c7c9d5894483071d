package stock

import (
	"github.com/wmlepcha/valensita/models"
)

// ProductProvider is the read surface the ledger needs from the catalog.
type ProductProvider interface {
	FindByID(id uint) (*models.Product, error)
}

// Ledger answers availability questions about live variant stock. It is a
// pure read view: it never subtracts in-cart reservations (the cart store
// applies its own projected quantity against these numbers) and never writes.
type Ledger struct {
	products ProductProvider
}

func NewLedger(products ProductProvider) *Ledger {
	return &Ledger{products: products}
}

// AvailableForSize returns the quantity of the active size variant named
// size, or 0 when the product or variant is missing or inactive. Stock-out is
// zero availability, not an error.
func (l *Ledger) AvailableForSize(productID uint, size string) int {
	product, err := l.products.FindByID(productID)
	if err != nil {
		return 0
	}
	variant, ok := product.ActiveSizeVariant(size)
	if !ok {
		return 0
	}
	return variant.Quantity
}

// HasSizes reports whether the product carries any size variant at all, which
// is what makes size selection mandatory when adding to the cart.
func (l *Ledger) HasSizes(productID uint) bool {
	product, err := l.products.FindByID(productID)
	if err != nil {
		return false
	}
	return product.HasSizeVariants()
}
