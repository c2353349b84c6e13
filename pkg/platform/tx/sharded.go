package tx

import (
	"context"
	"sync"
	"time"

	dErrors "brewleaf/pkg/domain-errors"
)

// numShards spreads keys over enough mutexes that unrelated keys rarely
// contend.
const numShards = 128

// DefaultLockTimeout bounds how long a caller may wait for and hold a key.
const DefaultLockTimeout = 5 * time.Second

// ShardedLock serializes work per key using a fixed set of mutexes selected by
// an FNV-1a hash of the key. Two different keys may share a shard; the same
// key always maps to the same shard.
type ShardedLock struct {
	shards  [numShards]sync.Mutex
	timeout time.Duration
}

// NewShardedLock returns a lock set. A zero timeout uses DefaultLockTimeout.
func NewShardedLock(timeout time.Duration) *ShardedLock {
	return &ShardedLock{timeout: timeout}
}

// WithLock runs fn while holding the shard for key. It fails with
// CodeTimeout if ctx is already done before or after acquiring the shard.
func (l *ShardedLock) WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}

	timeout := l.timeout
	if timeout == 0 {
		timeout = DefaultLockTimeout
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	shard := &l.shards[hashKey(key)%numShards]
	shard.Lock()
	defer shard.Unlock()

	// Check again after acquiring lock
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}
	return fn(ctx)
}

// hashKey is 32-bit FNV-1a.
func hashKey(s string) uint32 {
	const (
		fnvOffset = 2166136261
		fnvPrime  = 16777619
	)
	h := uint32(fnvOffset)
	for i := 0; i < len(s); i++ {
		h ^= uint32(s[i])
		h *= fnvPrime
	}
	return h
}
