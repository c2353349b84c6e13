package store

import (
	"context"
	"sync"
	"time"

	"brewleaf/internal/cart/models"
)

type entry struct {
	snapshot  models.Snapshot
	expiresAt time.Time
}

// InMemory keeps cart snapshots in process. Entries expire after the
// configured TTL of inactivity, matching the Redis store.
type InMemory struct {
	mu    sync.RWMutex
	carts map[string]entry
	ttl   time.Duration
	now   func() time.Time
}

func NewInMemory(ttl time.Duration) *InMemory {
	return &InMemory{carts: make(map[string]entry), ttl: ttl, now: time.Now}
}

// Load returns the session's cart, or an empty cart when none is stored.
func (s *InMemory) Load(_ context.Context, session string) (*models.Cart, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.carts[session]
	if !ok || (s.ttl > 0 && s.now().After(e.expiresAt)) {
		return models.NewCart(), nil
	}
	return models.FromSnapshot(e.snapshot), nil
}

func (s *InMemory) Save(_ context.Context, session string, cart *models.Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.carts[session] = entry{snapshot: cart.Snapshot(), expiresAt: s.now().Add(s.ttl)}
	return nil
}

func (s *InMemory) Delete(_ context.Context, session string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, session)
	return nil
}
