package models

import (
	"gorm.io/gorm"
)

// StockReconciler keeps Product.Quantity equal to the sum of its active size
// variant quantities. It is the single reconciliation point: the variants
// repository invokes it once after every variant write, replacing the
// scattered per-callback recomputation the admin UI used to do.
type StockReconciler struct {
	db *gorm.DB
}

func NewStockReconciler(db *gorm.DB) *StockReconciler {
	return &StockReconciler{db: db}
}

// Reconcile recomputes the aggregate for one product. Products with zero
// active size variants are left untouched: their quantity is independently
// authoritative and must not be overwritten. Idempotent.
func (s *StockReconciler) Reconcile(productID uint) error {
	return s.reconcile(s.db, productID)
}

func (s *StockReconciler) reconcile(tx *gorm.DB, productID uint) error {
	var variants []Variant
	if err := tx.
		Where("product_id = ? AND type = ?", productID, VariantTypeSize).
		Find(&variants).Error; err != nil {
		return err
	}

	total, active := ActiveSizeTotal(variants)
	if active == 0 {
		return nil
	}

	return tx.Model(&Product{}).
		Where("id = ?", productID).
		Update("quantity", total).Error
}
