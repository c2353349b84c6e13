package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"brewleaf/internal/cart/models"
)

const cartKeyPrefix = "cart:session:"

// Redis stores each cart as a JSON snapshot under one key. Every save
// refreshes the TTL, so abandoned carts expire on their own.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedis(client *redis.Client, ttl time.Duration) *Redis {
	return &Redis{client: client, ttl: ttl}
}

func (s *Redis) Load(ctx context.Context, session string) (*models.Cart, error) {
	raw, err := s.client.Get(ctx, cartKeyPrefix+session).Bytes()
	if errors.Is(err, redis.Nil) {
		return models.NewCart(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	var snap models.Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, fmt.Errorf("decode cart: %w", err)
	}
	return models.FromSnapshot(snap), nil
}

func (s *Redis) Save(ctx context.Context, session string, cart *models.Cart) error {
	raw, err := json.Marshal(cart.Snapshot())
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	if err := s.client.Set(ctx, cartKeyPrefix+session, raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	return nil
}

func (s *Redis) Delete(ctx context.Context, session string) error {
	if err := s.client.Del(ctx, cartKeyPrefix+session).Err(); err != nil {
		return fmt.Errorf("delete cart: %w", err)
	}
	return nil
}
