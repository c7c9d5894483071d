package cart

import (
	"errors"
	"fmt"
)

// ErrLineNotFound is returned when a cart line key does not exist in the
// session. Removing the same key twice reports this on the second call.
var ErrLineNotFound = errors.New("cart line not found")

// ErrSizeRequired is returned when a product carries size variants but the
// request named none.
var ErrSizeRequired = errors.New("size is required for this product")

type StockReason string

const (
	ReasonSizeUnavailable   StockReason = "size_unavailable"
	ReasonOutOfStock        StockReason = "out_of_stock"
	ReasonInsufficientStock StockReason = "insufficient_stock"
)

// StockError is a stock-check failure. Insufficient-stock messages always
// carry the numeric limit so the storefront can show "only N available".
type StockError struct {
	Reason    StockReason
	Size      string
	Available int
}

func (e *StockError) Error() string {
	switch e.Reason {
	case ReasonSizeUnavailable:
		return fmt.Sprintf("size %q is not available for this product", e.Size)
	case ReasonOutOfStock:
		if e.Size != "" {
			return fmt.Sprintf("size %q is out of stock", e.Size)
		}
		return "product is out of stock"
	default:
		if e.Size != "" {
			return fmt.Sprintf("only %d available in size %q", e.Available, e.Size)
		}
		return fmt.Sprintf("only %d available", e.Available)
	}
}
