package cart

import (
	"sync"

	"fashionhub/internal/catalog"
)

// LineItem is one row in the cart: one product id with its quantity and
// running subtotal. UnitPrice is snapshotted when the product is first added;
// later price changes on the product do not touch existing lines.
type LineItem struct {
	ProductID string  `json:"productId"`
	Title     string  `json:"title"`
	UnitPrice float64 `json:"unitPrice"`
	Quantity  int     `json:"quantity"`
	LineTotal float64 `json:"lineTotal"`
	Thumbnail string  `json:"thumbnail,omitempty"`
}

// Snapshot is a copyable view of the whole cart.
type Snapshot struct {
	Items         []LineItem `json:"items"`
	TotalQuantity int        `json:"totalQuantity"`
	TotalPrice    float64    `json:"totalPrice"`
}

// Store owns one client's cart. All mutation goes through its methods; the
// invariants totalQuantity == sum(quantity) and totalPrice == sum(lineTotal)
// hold after every operation, with both totals clamped at zero.
type Store struct {
	mu            sync.Mutex
	items         []LineItem
	totalQuantity int
	totalPrice    float64

	// onChange, when set, receives a snapshot after every mutation. It is the
	// persistence hook; failures there never affect cart state.
	onChange func(Snapshot)
}

// NewStore creates an empty cart.
func NewStore() *Store {
	return &Store{}
}

// OnChange installs the post-mutation snapshot hook.
func (s *Store) OnChange(fn func(Snapshot)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = fn
}

// Restore replaces the cart contents from a persisted snapshot.
func (s *Store) Restore(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append([]LineItem(nil), snap.Items...)
	s.totalQuantity = snap.TotalQuantity
	s.totalPrice = snap.TotalPrice
	s.clampLocked()
}

// AddToCart adds one unit of p. An existing line for p.ID grows by one;
// otherwise a new line with quantity one is created.
func (s *Store) AddToCart(p catalog.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if item := s.findLocked(p.ID); item != nil {
		item.Quantity++
		item.LineTotal += p.Price
	} else {
		s.items = append(s.items, LineItem{
			ProductID: p.ID,
			Title:     p.Title,
			UnitPrice: p.Price,
			Quantity:  1,
			LineTotal: p.Price,
			Thumbnail: p.Thumbnail,
		})
	}

	s.totalQuantity++
	s.totalPrice += p.Price
	s.changedLocked()
}

// IncreaseQuantity adds one unit to an existing line. Unknown ids are no-ops.
func (s *Store) IncreaseQuantity(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item := s.findLocked(id)
	if item == nil {
		return
	}
	item.Quantity++
	item.LineTotal += item.UnitPrice
	s.totalQuantity++
	s.totalPrice += item.UnitPrice
	s.changedLocked()
}

// DecreaseQuantity removes one unit from an existing line, dropping the line
// entirely when its quantity would fall below one. Unknown ids are no-ops.
func (s *Store) DecreaseQuantity(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item := s.findLocked(id)
	if item == nil {
		return
	}

	if item.Quantity > 1 {
		item.Quantity--
		item.LineTotal -= item.UnitPrice
		s.totalQuantity--
		s.totalPrice -= item.UnitPrice
	} else {
		// Remove by the line's remaining amount, not the unit price twice.
		s.totalQuantity -= item.Quantity
		s.totalPrice -= item.LineTotal
		s.removeLocked(id)
	}
	s.clampLocked()
	s.changedLocked()
}

// RemoveFromCart deletes the whole line for id. Unknown ids are no-ops.
func (s *Store) RemoveFromCart(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item := s.findLocked(id)
	if item == nil {
		return
	}
	s.totalQuantity -= item.Quantity
	s.totalPrice -= item.LineTotal
	s.removeLocked(id)
	s.clampLocked()
	s.changedLocked()
}

// Items returns a copy of the line items in insertion order.
func (s *Store) Items() []LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]LineItem(nil), s.items...)
}

// TotalQuantity returns the number of units across all lines.
func (s *Store) TotalQuantity() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totalQuantity
}

// TotalPrice returns the sum of all line totals.
func (s *Store) TotalPrice() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totalPrice
}

// Snapshot returns a copy of the full cart state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() Snapshot {
	return Snapshot{
		Items:         append([]LineItem{}, s.items...),
		TotalQuantity: s.totalQuantity,
		TotalPrice:    s.totalPrice,
	}
}

func (s *Store) findLocked(id string) *LineItem {
	for i := range s.items {
		if s.items[i].ProductID == id {
			return &s.items[i]
		}
	}
	return nil
}

func (s *Store) removeLocked(id string) {
	kept := s.items[:0]
	for _, item := range s.items {
		if item.ProductID != id {
			kept = append(kept, item)
		}
	}
	s.items = kept
}

// clampLocked keeps totals from going negative under floating-point drift or
// a restored snapshot with bad totals.
func (s *Store) clampLocked() {
	if s.totalQuantity < 0 {
		s.totalQuantity = 0
	}
	if s.totalPrice < 0 {
		s.totalPrice = 0
	}
}

func (s *Store) changedLocked() {
	if s.onChange != nil {
		s.onChange(s.snapshotLocked())
	}
}
