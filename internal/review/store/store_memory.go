package store

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"

	"brewleaf/internal/review/models"
	id "brewleaf/pkg/domain"
	"brewleaf/pkg/platform/sentinel"
)

type reviewKey struct {
	user    id.UserID
	product id.ProductID
}

// InMemory stores reviews per product and enforces one review per
// (user, product).
type InMemory struct {
	mu        sync.RWMutex
	byProduct map[id.ProductID][]*models.Review
	seen      map[reviewKey]struct{}
}

func NewInMemory() *InMemory {
	return &InMemory{
		byProduct: make(map[id.ProductID][]*models.Review),
		seen:      make(map[reviewKey]struct{}),
	}
}

func (s *InMemory) Create(_ context.Context, r *models.Review) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := reviewKey{user: r.UserID, product: r.ProductID}
	if _, ok := s.seen[key]; ok {
		return fmt.Errorf("review by user %s for product %s: %w", r.UserID, r.ProductID, sentinel.ErrAlreadyUsed)
	}
	s.seen[key] = struct{}{}
	cp := *r
	s.byProduct[r.ProductID] = append(s.byProduct[r.ProductID], &cp)
	return nil
}

// Delete removes a review and frees its (user, product) slot.
func (s *InMemory) Delete(_ context.Context, reviewID id.ReviewID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for productID, stored := range s.byProduct {
		for i, r := range stored {
			if r.ID != reviewID {
				continue
			}
			s.byProduct[productID] = slices.Delete(stored, i, i+1)
			delete(s.seen, reviewKey{user: r.UserID, product: r.ProductID})
			return nil
		}
	}
	return fmt.Errorf("review %s: %w", reviewID, sentinel.ErrNotFound)
}

// ListByProduct returns newest first.
func (s *InMemory) ListByProduct(_ context.Context, productID id.ProductID) ([]*models.Review, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stored := s.byProduct[productID]
	out := make([]*models.Review, 0, len(stored))
	for _, r := range stored {
		cp := *r
		out = append(out, &cp)
	}
	slices.SortStableFunc(out, func(a, b *models.Review) int { return cmp.Compare(b.CreatedAt.UnixNano(), a.CreatedAt.UnixNano()) })
	return out, nil
}

func (s *InMemory) Ratings(_ context.Context, productID id.ProductID) ([]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stored := s.byProduct[productID]
	out := make([]int, len(stored))
	for i, r := range stored {
		out[i] = r.Rating
	}
	return out, nil
}
