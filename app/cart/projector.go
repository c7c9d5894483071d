package cart

import (
	"errors"
	"sort"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/wmlepcha/valensita/internal/metrics"
	"github.com/wmlepcha/valensita/models"
)

// PlaceholderImage is served for products that have no photos yet.
const PlaceholderImage = "/images/placeholder.png"

type CartItemView struct {
	Key       string  `json:"key"`
	ProductID uint    `json:"product_id"`
	Name      string  `json:"name"`
	Slug      string  `json:"slug"`
	Price     float64 `json:"price"`
	Image     string  `json:"image"`
	Quantity  int     `json:"quantity"`
	Size      string  `json:"size,omitempty"`
	Color     string  `json:"color,omitempty"`
	Subtotal  float64 `json:"subtotal"`
}

type CartView struct {
	Items []CartItemView `json:"items"`
	Count int            `json:"count"`
	Total float64        `json:"total"`
}

// Projector joins raw cart lines with current catalog data into the priced
// view the storefront renders. Projection is a read with one deliberate side
// effect: lines whose product no longer exists are compacted out of the
// session itself, so a stale cart self-heals on the next read instead of
// erroring.
type Projector struct {
	store    *Store
	products ProductProvider
	metrics  *metrics.CartMetrics
	log      logrus.FieldLogger
}

func NewProjector(store *Store, products ProductProvider, m *metrics.CartMetrics, log logrus.FieldLogger) *Projector {
	return &Projector{
		store:    store,
		products: products,
		metrics:  m,
		log:      log,
	}
}

func (p *Projector) Project(sessionID string) (CartView, error) {
	lines, err := p.store.Lines(sessionID)
	if err != nil {
		return CartView{}, err
	}

	keys := make([]string, 0, len(lines))
	for key := range lines {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	view := CartView{Items: make([]CartItemView, 0, len(lines))}
	total := decimal.Zero
	var stale []string

	for _, key := range keys {
		line := lines[key]
		product, err := p.products.FindByID(line.ProductID)
		if errors.Is(err, models.ErrProductNotFound) {
			stale = append(stale, key)
			continue
		}
		if err != nil {
			return CartView{}, err
		}

		subtotal := product.Price.Mul(decimal.NewFromInt(int64(line.Quantity)))
		total = total.Add(subtotal)

		image := product.FirstImageURL()
		if image == "" {
			image = PlaceholderImage
		}

		view.Items = append(view.Items, CartItemView{
			Key:       line.Key,
			ProductID: line.ProductID,
			Name:      product.Name,
			Slug:      product.Slug,
			Price:     product.Price.InexactFloat64(),
			Image:     image,
			Quantity:  line.Quantity,
			Size:      line.Size,
			Color:     line.Color,
			Subtotal:  subtotal.InexactFloat64(),
		})
		view.Count += line.Quantity
	}
	view.Total = total.InexactFloat64()

	if len(stale) > 0 {
		if err := p.store.Compact(sessionID, stale...); err != nil {
			return CartView{}, err
		}
		p.metrics.ObservePruned(len(stale))
		p.log.WithFields(logrus.Fields{
			"session_id": sessionID,
			"pruned":     len(stale),
		}).Info("compacted cart lines referencing deleted products")
	}

	return view, nil
}
