package cart

// StockPolicy tunes the stock check for products without size variants.
type StockPolicy struct {
	// ZeroQuantityIsUnlimited preserves the storefront's legacy rule: a
	// sizeless product with in_stock=true and quantity=0 accepts unbounded
	// additions. Almost certainly a latent bug in the original behavior, so
	// it is isolated here where flipping it cannot disturb the rest of the
	// reservation logic.
	ZeroQuantityIsUnlimited bool
}

// DefaultStockPolicy matches the original storefront behavior.
func DefaultStockPolicy() StockPolicy {
	return StockPolicy{ZeroQuantityIsUnlimited: true}
}
