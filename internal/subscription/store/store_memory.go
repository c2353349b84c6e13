package store

import (
	"context"
	"fmt"
	"sync"

	"brewleaf/internal/subscription/models"
	id "brewleaf/pkg/domain"
	"brewleaf/pkg/platform/sentinel"
)

type InMemory struct {
	mu    sync.RWMutex
	subs  map[id.SubscriptionID]models.Subscription
	order []id.SubscriptionID
}

func NewInMemory() *InMemory {
	return &InMemory{subs: make(map[id.SubscriptionID]models.Subscription)}
}

func (s *InMemory) Create(_ context.Context, sub *models.Subscription) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.subs[sub.ID]; ok {
		return fmt.Errorf("subscription %s: %w", sub.ID, sentinel.ErrAlreadyUsed)
	}
	s.subs[sub.ID] = *sub
	s.order = append(s.order, sub.ID)
	return nil
}

func (s *InMemory) FindByID(_ context.Context, subID id.SubscriptionID) (*models.Subscription, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sub, ok := s.subs[subID]
	if !ok {
		return nil, fmt.Errorf("subscription %s: %w", subID, sentinel.ErrNotFound)
	}
	return &sub, nil
}

// ListByUser returns newest first.
func (s *InMemory) ListByUser(_ context.Context, userID id.UserID) ([]*models.Subscription, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Subscription
	for i := len(s.order) - 1; i >= 0; i-- {
		if sub := s.subs[s.order[i]]; sub.UserID == userID {
			out = append(out, &sub)
		}
	}
	return out, nil
}

func (s *InMemory) Update(_ context.Context, sub *models.Subscription) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.subs[sub.ID]; !ok {
		return fmt.Errorf("subscription %s: %w", sub.ID, sentinel.ErrNotFound)
	}
	s.subs[sub.ID] = *sub
	return nil
}
