package store

import (
	"context"
	"fmt"
	"sync"

	"brewleaf/internal/order/models"
	id "brewleaf/pkg/domain"
	"brewleaf/pkg/money"
	"brewleaf/pkg/platform/sentinel"
)

// InMemory keeps orders in placement order.
type InMemory struct {
	mu     sync.RWMutex
	orders map[id.OrderID]*models.Order
	order  []id.OrderID
}

func NewInMemory() *InMemory {
	return &InMemory{orders: make(map[id.OrderID]*models.Order)}
}

func (s *InMemory) Create(_ context.Context, o *models.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.orders[o.ID]; ok {
		return fmt.Errorf("order %s: %w", o.ID, sentinel.ErrAlreadyUsed)
	}
	s.orders[o.ID] = o.Clone()
	s.order = append(s.order, o.ID)
	return nil
}

func (s *InMemory) FindByID(_ context.Context, orderID id.OrderID) (*models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.orders[orderID]
	if !ok {
		return nil, fmt.Errorf("order %s: %w", orderID, sentinel.ErrNotFound)
	}
	return o.Clone(), nil
}

// ListByUser returns newest first.
func (s *InMemory) ListByUser(_ context.Context, userID id.UserID) ([]*models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Order
	for i := len(s.order) - 1; i >= 0; i-- {
		if o := s.orders[s.order[i]]; o.UserID == userID {
			out = append(out, o.Clone())
		}
	}
	return out, nil
}

func (s *InMemory) UpdateStatus(_ context.Context, orderID id.OrderID, status models.Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[orderID]
	if !ok {
		return fmt.Errorf("order %s: %w", orderID, sentinel.ErrNotFound)
	}
	o.Status = status
	return nil
}

func (s *InMemory) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.orders), nil
}

func (s *InMemory) Revenue(_ context.Context) (money.Amount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var total money.Amount
	for _, o := range s.orders {
		total = total.Add(o.Total)
	}
	return total, nil
}

// Recent returns up to limit orders, newest first.
func (s *InMemory) Recent(_ context.Context, limit int) ([]*models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Order, 0, min(limit, len(s.order)))
	for i := len(s.order) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.orders[s.order[i]].Clone())
	}
	return out, nil
}
