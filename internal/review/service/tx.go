package service

import (
	"context"

	id "brewleaf/pkg/domain"
	"brewleaf/pkg/platform/tx"
)

// ProductTx is the per-product transactional boundary around "insert review,
// re-read ratings, write aggregate". Implementations either hold a database
// row lock on the product or, in memory, a per-product mutex.
type ProductTx interface {
	RunInTx(ctx context.Context, productID id.ProductID, fn func(ctx context.Context) error) error
}

// ShardedTx serializes work per product with a sharded mutex. It is the
// in-memory counterpart of the Postgres row lock.
type ShardedTx struct {
	locks *tx.ShardedLock
}

func NewShardedTx() *ShardedTx {
	return &ShardedTx{locks: tx.NewShardedLock(0)}
}

func (t *ShardedTx) RunInTx(ctx context.Context, productID id.ProductID, fn func(ctx context.Context) error) error {
	return t.locks.WithLock(ctx, productID.String(), fn)
}
