package user

import (
	"context"
	"fmt"
	"sync"

	"brewleaf/internal/auth/models"
	id "brewleaf/pkg/domain"
	"brewleaf/pkg/email"
	"brewleaf/pkg/platform/sentinel"
)

// InMemoryUserStore indexes users by id and by normalized email.
type InMemoryUserStore struct {
	mu      sync.RWMutex
	users   map[id.UserID]*models.User
	byEmail map[string]id.UserID
}

func New() *InMemoryUserStore {
	return &InMemoryUserStore{
		users:   make(map[id.UserID]*models.User),
		byEmail: make(map[string]id.UserID),
	}
}

// Save inserts a user. A taken email returns sentinel.ErrAlreadyUsed.
func (s *InMemoryUserStore) Save(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := email.Normalize(user.Email)
	if owner, ok := s.byEmail[key]; ok && owner != user.ID {
		return fmt.Errorf("email %s: %w", key, sentinel.ErrAlreadyUsed)
	}
	cp := *user
	s.users[user.ID] = &cp
	s.byEmail[key] = user.ID
	return nil
}

func (s *InMemoryUserStore) FindByID(_ context.Context, userID id.UserID) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[userID]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", userID, sentinel.ErrNotFound)
	}
	cp := *u
	return &cp, nil
}

func (s *InMemoryUserStore) FindByEmail(_ context.Context, address string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	userID, ok := s.byEmail[email.Normalize(address)]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", address, sentinel.ErrNotFound)
	}
	cp := *s.users[userID]
	return &cp, nil
}

// CountByRole counts users holding role.
func (s *InMemoryUserStore) CountByRole(_ context.Context, role string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var n int
	for _, u := range s.users {
		if string(u.Role) == role {
			n++
		}
	}
	return n, nil
}
