package cart

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"fashionhub/internal/localstore"
	"fashionhub/internal/logger"
)

// Manager hands out per-client carts. With a KV configured, carts are
// restored on first touch and snapshotted after every mutation, both
// best-effort: persistence trouble degrades to a log line, never to a
// broken cart.
type Manager struct {
	mu     sync.Mutex
	stores map[string]*Store
	kv     localstore.KV
}

// NewManager creates a cart manager; kv may be nil for memory-only carts.
func NewManager(kv localstore.KV) *Manager {
	return &Manager{stores: map[string]*Store{}, kv: kv}
}

// For returns the cart of one client, creating (and restoring) it on demand.
func (m *Manager) For(ctx context.Context, clientID string) *Store {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.stores[clientID]; ok {
		return s
	}

	s := NewStore()
	if m.kv != nil {
		key := "cart:" + clientID
		if data, err := m.kv.Get(ctx, key); err != nil {
			logger.Warnf("cart manager: loading %s: %v", key, err)
		} else if data != nil {
			var snap Snapshot
			if err := json.Unmarshal(data, &snap); err != nil {
				logger.Warnf("cart manager: corrupt snapshot under %s, starting empty", key)
			} else {
				s.Restore(snap)
			}
		}
		s.OnChange(func(snap Snapshot) { m.persist(key, snap) })
	}

	m.stores[clientID] = s
	return s
}

func (m *Manager) persist(key string, snap Snapshot) {
	data, err := json.Marshal(snap)
	if err != nil {
		logger.Errorf("cart manager: marshal snapshot: %v", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := m.kv.Set(ctx, key, data); err != nil {
		logger.Warnf("cart manager: persisting %s: %v", key, err)
	}
}
