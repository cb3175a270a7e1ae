package wishlist

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"fashionhub/internal/localstore"
	"fashionhub/internal/logger"
)

// Manager hands out per-client wishlists, restoring and snapshotting them
// through the KV when one is configured. Persistence is best-effort.
type Manager struct {
	mu     sync.Mutex
	stores map[string]*Store
	kv     localstore.KV
}

// NewManager creates a wishlist manager; kv may be nil for memory-only lists.
func NewManager(kv localstore.KV) *Manager {
	return &Manager{stores: map[string]*Store{}, kv: kv}
}

// For returns the wishlist of one client, creating (and restoring) it on demand.
func (m *Manager) For(ctx context.Context, clientID string) *Store {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.stores[clientID]; ok {
		return s
	}

	s := NewStore()
	if m.kv != nil {
		key := "wishlist:" + clientID
		if data, err := m.kv.Get(ctx, key); err != nil {
			logger.Warnf("wishlist manager: loading %s: %v", key, err)
		} else if data != nil {
			var entries []Entry
			if err := json.Unmarshal(data, &entries); err != nil {
				logger.Warnf("wishlist manager: corrupt snapshot under %s, starting empty", key)
			} else {
				s.Restore(entries)
			}
		}
		s.OnChange(func(entries []Entry) { m.persist(key, entries) })
	}

	m.stores[clientID] = s
	return s
}

func (m *Manager) persist(key string, entries []Entry) {
	data, err := json.Marshal(entries)
	if err != nil {
		logger.Errorf("wishlist manager: marshal snapshot: %v", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := m.kv.Set(ctx, key, data); err != nil {
		logger.Warnf("wishlist manager: persisting %s: %v", key, err)
	}
}
