package models

import (
	"errors"

	"gorm.io/gorm"
)

// ErrVariantNotFound is returned when a variant is not found.
var ErrVariantNotFound = errors.New("variant not found")

// VariantsRepository is the only write path for variants. Every mutation runs
// inside a transaction that ends with stock reconciliation, so the product
// aggregate can never be observed out of sync with its size variants.
type VariantsRepository struct {
	db         *gorm.DB
	reconciler *StockReconciler
}

func NewVariantsRepository(db *gorm.DB) *VariantsRepository {
	return &VariantsRepository{
		db:         db,
		reconciler: NewStockReconciler(db),
	}
}

func (r *VariantsRepository) GetByID(id uint) (*Variant, error) {
	var variant Variant
	if err := r.db.First(&variant, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVariantNotFound
		}
		return nil, err
	}
	return &variant, nil
}

func (r *VariantsRepository) Create(variant *Variant) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(variant).Error; err != nil {
			return err
		}
		return r.reconciler.reconcile(tx, variant.ProductID)
	})
}

func (r *VariantsRepository) Update(variant *Variant) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		// Save writes all fields, including zero values like IsActive=false.
		if err := tx.Save(variant).Error; err != nil {
			return err
		}
		return r.reconciler.reconcile(tx, variant.ProductID)
	})
}

func (r *VariantsRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var variant Variant
		if err := tx.First(&variant, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrVariantNotFound
			}
			return err
		}
		if err := tx.Delete(&variant).Error; err != nil {
			return err
		}
		return r.reconciler.reconcile(tx, variant.ProductID)
	})
}

// SetActive toggles a batch of variants, the bulk action the admin list view
// exposes. Each affected product is reconciled once. The returned count is
// the number of rows actually updated, so callers see through IDs that
// matched nothing.
func (r *VariantsRepository) SetActive(ids []uint, active bool) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	var affected int64
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var variants []Variant
		if err := tx.Where("id IN ?", ids).Find(&variants).Error; err != nil {
			return err
		}
		result := tx.Model(&Variant{}).
			Where("id IN ?", ids).
			Update("is_active", active)
		if result.Error != nil {
			return result.Error
		}
		affected = result.RowsAffected

		products := make(map[uint]struct{}, len(variants))
		for _, v := range variants {
			products[v.ProductID] = struct{}{}
		}
		for productID := range products {
			if err := r.reconciler.reconcile(tx, productID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return affected, nil
}
