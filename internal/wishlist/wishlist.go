package wishlist

import (
	"sync"

	"fashionhub/internal/catalog"
)

// Entry is the trimmed record kept for a liked product.
type Entry struct {
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	Price     float64 `json:"price"`
	Thumbnail string  `json:"thumbnail"`
}

// Store owns one client's wishlist: a de-duplicated set keyed by product id,
// kept in insertion order. At most one entry exists per id at any time.
type Store struct {
	mu      sync.Mutex
	entries []Entry

	onChange func([]Entry)
}

// NewStore creates an empty wishlist.
func NewStore() *Store {
	return &Store{}
}

// OnChange installs the post-mutation snapshot hook.
func (s *Store) OnChange(fn func([]Entry)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = fn
}

// Restore replaces the wishlist contents from a persisted snapshot.
func (s *Store) Restore(entries []Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append([]Entry(nil), entries...)
}

// Toggle removes p when present and inserts a trimmed entry otherwise. The
// entry's thumbnail falls back to the first image when the product has none.
func (s *Store) Toggle(p catalog.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.hasLocked(p.ID) {
		s.removeLocked(p.ID)
	} else {
		thumb := p.Thumbnail
		if thumb == "" && len(p.Images) > 0 {
			thumb = p.Images[0]
		}
		s.entries = append(s.entries, Entry{
			ID:        p.ID,
			Title:     p.Title,
			Price:     p.Price,
			Thumbnail: thumb,
		})
	}
	s.changedLocked()
}

// Remove filters out the entry for id; absent ids are no-ops.
func (s *Store) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeLocked(id)
	s.changedLocked()
}

// Clear empties the wishlist.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = nil
	s.changedLocked()
}

// Items returns a copy of the entries in insertion order.
func (s *Store) Items() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Entry{}, s.entries...)
}

// Count returns the number of entries.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Has reports whether id is on the wishlist.
func (s *Store) Has(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hasLocked(id)
}

func (s *Store) hasLocked(id string) bool {
	for _, e := range s.entries {
		if e.ID == id {
			return true
		}
	}
	return false
}

func (s *Store) removeLocked(id string) {
	kept := s.entries[:0]
	for _, e := range s.entries {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	s.entries = kept
}

func (s *Store) changedLocked() {
	if s.onChange != nil {
		s.onChange(append([]Entry{}, s.entries...))
	}
}
