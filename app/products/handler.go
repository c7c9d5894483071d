package products

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/wmlepcha/valensita/models"
)

type Image struct {
	URL      string `json:"url"`
	Position int    `json:"position"`
}

type Variant struct {
	ID       uint   `json:"id"`
	Type     string `json:"type"`
	Name     string `json:"name"`
	Value    string `json:"value,omitempty"`
	Quantity int    `json:"quantity"`
	IsActive bool   `json:"is_active"`
}

type Response struct {
	ID       uint      `json:"id"`
	Name     string    `json:"name"`
	Slug     string    `json:"slug"`
	Price    float64   `json:"price"`
	InStock  bool      `json:"in_stock"`
	Quantity int       `json:"quantity"`
	Images   []Image   `json:"images"`
	Variants []Variant `json:"variants"`
}

type ProductProvider interface {
	FindBySlug(slug string) (*models.Product, error)
}

// ProductsHandler serves the storefront product page feed.
type ProductsHandler struct {
	repo ProductProvider
}

func NewProductsHandler(r ProductProvider) *ProductsHandler {
	return &ProductsHandler{repo: r}
}

func (h *ProductsHandler) HandleGetProduct(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")

	product, err := h.repo.FindBySlug(slug)
	if err != nil {
		if errors.Is(err, models.ErrProductNotFound) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]string{"error": "Product not found"})
			return
		}
		http.Error(w, "Failed to retrieve product", http.StatusInternalServerError)
		return
	}

	images := make([]Image, len(product.Images))
	for i, img := range product.Images {
		images[i] = Image{
			URL:      img.URL,
			Position: img.Position,
		}
	}

	variants := make([]Variant, len(product.Variants))
	for i, v := range product.Variants {
		variants[i] = Variant{
			ID:       v.ID,
			Type:     string(v.Type),
			Name:     v.Name,
			Value:    v.Value,
			Quantity: v.Quantity,
			IsActive: v.IsActive,
		}
	}

	response := Response{
		ID:       product.ID,
		Name:     product.Name,
		Slug:     product.Slug,
		Price:    product.Price.InexactFloat64(),
		InStock:  product.InStock,
		Quantity: product.Quantity,
		Images:   images,
		Variants: variants,
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
