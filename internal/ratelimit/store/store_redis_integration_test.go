//go:build integration

package store_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"brewleaf/internal/ratelimit/models"
	"brewleaf/internal/ratelimit/store"
	"brewleaf/pkg/testutil/containers"
)

type RedisLimiterSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	store *store.Redis
	ctx   context.Context
}

func TestRedisLimiterSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisLimiterSuite))
}

func (s *RedisLimiterSuite) SetupSuite() {
	s.redis = containers.NewRedisContainer(s.T())
	s.store = store.NewRedis(s.redis.Client)
}

func (s *RedisLimiterSuite) SetupTest() {
	s.ctx = context.Background()
	s.Require().NoError(s.redis.FlushAll(s.ctx))
}

func (s *RedisLimiterSuite) TestLimitAndReset() {
	limit := models.Limit{Requests: 3, Window: time.Minute}
	key := models.Key(models.ClassAuth, "203.0.113.9")

	for i := range 3 {
		res, err := s.store.Allow(s.ctx, key, limit)
		s.Require().NoError(err)
		s.True(res.Allowed)
		s.Equal(2-i, res.Remaining)
	}
	res, err := s.store.Allow(s.ctx, key, limit)
	s.Require().NoError(err)
	s.False(res.Allowed)
	s.Positive(res.RetryAfter)

	s.Require().NoError(s.store.Reset(s.ctx, key))
	res, err = s.store.Allow(s.ctx, key, limit)
	s.Require().NoError(err)
	s.True(res.Allowed)
}

func (s *RedisLimiterSuite) TestConcurrentChecksShareOneWindow() {
	limit := models.Limit{Requests: 10, Window: time.Minute}
	key := models.Key(models.ClassWrite, "198.51.100.4")

	var (
		wg      sync.WaitGroup
		allowed atomic.Int32
	)
	for range 40 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := s.store.Allow(s.ctx, key, limit)
			s.NoError(err)
			if err == nil && res.Allowed {
				allowed.Add(1)
			}
		}()
	}
	wg.Wait()
	s.Equal(int32(10), allowed.Load())
}
