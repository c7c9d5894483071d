package cart

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
)

// Line is one cart entry. Lines live in the session store, not the database.
type Line struct {
	Key       string `json:"key"`
	ProductID uint   `json:"product_id"`
	Quantity  int    `json:"quantity"`
	Size      string `json:"size,omitempty"`
	Color     string `json:"color,omitempty"`
}

// Lines is the session cart map, keyed by LineKey. At most one line exists
// per (product, size, color) triple.
type Lines map[string]Line

// LineKey derives the deterministic key for a (product, size, color)
// combination, so repeated additions of the same combination collapse into
// one line. Size and color are length-prefixed: delimiter characters inside a
// value cannot make two distinct triples hash alike.
func LineKey(productID uint, size, color string) string {
	h := sha1.New()
	fmt.Fprintf(h, "%d|%d|%s|%d|%s", productID, len(size), size, len(color), color)
	return hex.EncodeToString(h.Sum(nil))
}
