package cart

import (
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/wmlepcha/valensita/app/session"
	"github.com/wmlepcha/valensita/models"
)

const sessionKey = "cart"

// ProductProvider is the catalog read surface the cart needs.
type ProductProvider interface {
	FindByID(id uint) (*models.Product, error)
}

// StockLedger answers live availability questions; the cart only ever reads
// it. Actual stock decrement belongs to order placement, which is out of this
// service's hands.
type StockLedger interface {
	AvailableForSize(productID uint, size string) int
	HasSizes(productID uint) bool
}

// Store is the authoritative holder of a session's cart lines. Every
// mutating call validates against live stock before committing, and runs as
// one read-modify-write over the whole map under a per-session mutex so
// concurrent tabs cannot lose updates.
type Store struct {
	sessions session.Store
	products ProductProvider
	ledger   StockLedger
	policy   StockPolicy
	log      logrus.FieldLogger

	locks sync.Map // session ID -> *sync.Mutex
}

func NewStore(sessions session.Store, products ProductProvider, ledger StockLedger, policy StockPolicy, log logrus.FieldLogger) *Store {
	return &Store{
		sessions: sessions,
		products: products,
		ledger:   ledger,
		policy:   policy,
		log:      log,
	}
}

// Add puts quantity units of a (product, size, color) combination in the
// cart. Quantities for the same combination accumulate; the accumulated
// total is what gets checked against available stock.
func (s *Store) Add(sessionID string, productID uint, quantity int, size, color string) (Lines, error) {
	defer s.lockSession(sessionID)()

	product, err := s.products.FindByID(productID)
	if err != nil {
		return nil, err
	}

	lines, err := s.load(sessionID)
	if err != nil {
		return nil, err
	}
	key := LineKey(productID, size, color)
	projected := lines[key].Quantity + quantity

	if err := s.checkStock(product, size, projected); err != nil {
		return nil, err
	}

	lines[key] = Line{
		Key:       key,
		ProductID: productID,
		Quantity:  projected,
		Size:      size,
		Color:     color,
	}
	if err := s.save(sessionID, lines); err != nil {
		return nil, err
	}
	return lines, nil
}

// Update sets a line's quantity to an absolute value, re-validated against
// current stock with the same rules as Add.
func (s *Store) Update(sessionID, key string, quantity int) (Lines, error) {
	defer s.lockSession(sessionID)()

	lines, err := s.load(sessionID)
	if err != nil {
		return nil, err
	}
	line, ok := lines[key]
	if !ok {
		return nil, ErrLineNotFound
	}

	product, err := s.products.FindByID(line.ProductID)
	if err != nil {
		return nil, err
	}
	if err := s.checkStock(product, line.Size, quantity); err != nil {
		return nil, err
	}

	line.Quantity = quantity
	lines[key] = line
	if err := s.save(sessionID, lines); err != nil {
		return nil, err
	}
	return lines, nil
}

// Remove deletes a line. A missing key is reported, not swallowed, so a
// double remove surfaces as ErrLineNotFound.
func (s *Store) Remove(sessionID, key string) (Lines, error) {
	defer s.lockSession(sessionID)()

	lines, err := s.load(sessionID)
	if err != nil {
		return nil, err
	}
	if _, ok := lines[key]; !ok {
		return nil, ErrLineNotFound
	}
	delete(lines, key)
	if err := s.save(sessionID, lines); err != nil {
		return nil, err
	}
	return lines, nil
}

// Clear unconditionally empties the session's cart.
func (s *Store) Clear(sessionID string) error {
	defer s.lockSession(sessionID)()
	return s.sessions.Forget(sessionID, sessionKey)
}

// Count is the sum of all line quantities, the number the header badge shows.
func (s *Store) Count(sessionID string) (int, error) {
	lines, err := s.load(sessionID)
	if err != nil {
		return 0, err
	}
	total := 0
	for _, line := range lines {
		total += line.Quantity
	}
	return total, nil
}

// Lines returns a copy of the session's cart map.
func (s *Store) Lines(sessionID string) (Lines, error) {
	return s.load(sessionID)
}

// Compact drops the given keys from the stored cart. The projector calls it
// for lines whose product disappeared from the catalog; the prune is applied
// to the session itself, not just the rendered view.
func (s *Store) Compact(sessionID string, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	defer s.lockSession(sessionID)()

	lines, err := s.load(sessionID)
	if err != nil {
		return err
	}
	for _, key := range keys {
		delete(lines, key)
	}
	return s.save(sessionID, lines)
}

// checkStock validates a requested absolute quantity for one line. The
// ledger decides whether size selection is mandatory; the chosen size must
// then be an active variant and the quantity must fit its stock. Sizeless
// products fall back to the product's own in_stock flag and quantity field
// per the store policy.
func (s *Store) checkStock(product *models.Product, size string, requested int) error {
	if s.ledger.HasSizes(product.ID) {
		if size == "" {
			return ErrSizeRequired
		}
		if _, ok := product.ActiveSizeVariant(size); !ok {
			return &StockError{Reason: ReasonSizeUnavailable, Size: size}
		}
		available := s.ledger.AvailableForSize(product.ID, size)
		if available <= 0 {
			return &StockError{Reason: ReasonOutOfStock, Size: size}
		}
		if requested > available {
			return &StockError{Reason: ReasonInsufficientStock, Size: size, Available: available}
		}
		return nil
	}

	if !product.InStock {
		return &StockError{Reason: ReasonOutOfStock}
	}
	if product.Quantity == 0 {
		if s.policy.ZeroQuantityIsUnlimited {
			return nil
		}
		return &StockError{Reason: ReasonOutOfStock}
	}
	if requested > product.Quantity {
		return &StockError{Reason: ReasonInsufficientStock, Available: product.Quantity}
	}
	return nil
}

func (s *Store) lockSession(sessionID string) func() {
	v, _ := s.locks.LoadOrStore(sessionID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// load surfaces session backend errors instead of substituting an empty
// cart: a mutating caller would otherwise save the empty map over the user's
// real cart. Self-healing is reserved for dangling product lines.
func (s *Store) load(sessionID string) (Lines, error) {
	lines := Lines{}
	if _, err := s.sessions.Get(sessionID, sessionKey, &lines); err != nil {
		s.log.WithError(err).WithField("session_id", sessionID).Warn("failed to read cart from session")
		return nil, err
	}
	return lines, nil
}

func (s *Store) save(sessionID string, lines Lines) error {
	return s.sessions.Put(sessionID, sessionKey, lines)
}
