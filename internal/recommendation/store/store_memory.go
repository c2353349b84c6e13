package store

import (
	"context"
	"fmt"
	"sync"

	"brewleaf/internal/recommendation/models"
	id "brewleaf/pkg/domain"
	"brewleaf/pkg/platform/sentinel"
)

// InMemory keeps the latest quiz result per user.
type InMemory struct {
	mu      sync.RWMutex
	results map[id.UserID]*models.QuizResult
}

func NewInMemory() *InMemory {
	return &InMemory{results: make(map[id.UserID]*models.QuizResult)}
}

func (s *InMemory) Upsert(_ context.Context, result *models.QuizResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results[result.UserID] = clone(result)
	return nil
}

func (s *InMemory) FindByUser(_ context.Context, userID id.UserID) (*models.QuizResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.results[userID]
	if !ok {
		return nil, fmt.Errorf("quiz result for user %s: %w", userID, sentinel.ErrNotFound)
	}
	return clone(r), nil
}

func clone(r *models.QuizResult) *models.QuizResult {
	cp := *r
	cp.Answers.FlavorProfile = append([]string{}, r.Answers.FlavorProfile...)
	cp.RecommendedIDs = append([]id.ProductID{}, r.RecommendedIDs...)
	return &cp
}
