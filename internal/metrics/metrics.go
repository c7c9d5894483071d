package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

// CartMetrics counts cart operations and their stock-check outcomes. A nil
// *CartMetrics is valid and records nothing, which keeps metrics optional in
// unit tests.
type CartMetrics struct {
	adds    prometheus.Counter
	updates prometheus.Counter
	removes prometheus.Counter
	clears  prometheus.Counter

	stockRejected *prometheus.CounterVec
	prunedLines   prometheus.Counter
}

// NewCartMetrics registers the cart metrics against the default registerer.
func NewCartMetrics() *CartMetrics {
	return newCartMetricsWithRegisterer(prometheus.DefaultRegisterer)
}

func newCartMetricsWithRegisterer(registerer prometheus.Registerer) *CartMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &CartMetrics{
		adds: registerCounter(registerer, prometheus.CounterOpts{
			Name: "storefront_cart_adds_total",
			Help: "Total number of successful cart add operations",
		}),
		updates: registerCounter(registerer, prometheus.CounterOpts{
			Name: "storefront_cart_updates_total",
			Help: "Total number of successful cart quantity updates",
		}),
		removes: registerCounter(registerer, prometheus.CounterOpts{
			Name: "storefront_cart_removes_total",
			Help: "Total number of successful cart line removals",
		}),
		clears: registerCounter(registerer, prometheus.CounterOpts{
			Name: "storefront_cart_clears_total",
			Help: "Total number of cart clear operations",
		}),
		stockRejected: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "storefront_cart_stock_rejected_total",
			Help: "Cart mutations rejected by the stock check, by reason",
		}, []string{"reason"}),
		prunedLines: registerCounter(registerer, prometheus.CounterOpts{
			Name: "storefront_cart_pruned_lines_total",
			Help: "Cart lines dropped during projection because their product was deleted",
		}),
	}
}

func (m *CartMetrics) ObserveAdd() {
	if m == nil {
		return
	}
	m.adds.Inc()
}

func (m *CartMetrics) ObserveUpdate() {
	if m == nil {
		return
	}
	m.updates.Inc()
}

func (m *CartMetrics) ObserveRemove() {
	if m == nil {
		return
	}
	m.removes.Inc()
}

func (m *CartMetrics) ObserveClear() {
	if m == nil {
		return
	}
	m.clears.Inc()
}

func (m *CartMetrics) ObserveStockRejected(reason string) {
	if m == nil {
		return
	}
	m.stockRejected.WithLabelValues(reason).Inc()
}

func (m *CartMetrics) ObservePruned(n int) {
	if m == nil {
		return
	}
	m.prunedLines.Add(float64(n))
}

func registerCounter(registerer prometheus.Registerer, opts prometheus.CounterOpts) prometheus.Counter {
	counter := prometheus.NewCounter(opts)
	if err := registerer.Register(counter); err != nil {
		var already prometheus.AlreadyRegisteredError
		if errors.As(err, &already) {
			return already.ExistingCollector.(prometheus.Counter)
		}
		panic(err)
	}
	return counter
}

func registerCounterVec(registerer prometheus.Registerer, opts prometheus.CounterOpts, labels []string) *prometheus.CounterVec {
	vec := prometheus.NewCounterVec(opts, labels)
	if err := registerer.Register(vec); err != nil {
		var already prometheus.AlreadyRegisteredError
		if errors.As(err, &already) {
			return already.ExistingCollector.(*prometheus.CounterVec)
		}
		panic(err)
	}
	return vec
}
