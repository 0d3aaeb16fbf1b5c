package orders

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/pagecart/bookstore-api/internal/redisx"
)

// RedisStatusCache caches the current status per order so status polls skip
// the store. Misses and redis failures fall through; the store stays the
// source of truth.
type RedisStatusCache struct{ R *redis.Client }

func (c *RedisStatusCache) GetStatus(ctx context.Context, orderID string) (Status, bool) {
	s, err := c.R.Get(ctx, fmt.Sprintf(redisx.KeyOrderStatus, orderID)).Result()
	if err != nil || s == "" {
		return "", false
	}
	st, err := ParseStatus(s)
	if err != nil {
		return "", false
	}
	return st, true
}

func (c *RedisStatusCache) SetStatus(ctx context.Context, orderID string, status Status) {
	_ = c.R.Set(ctx, fmt.Sprintf(redisx.KeyOrderStatus, orderID), string(status), redisx.TTLStatusCache).Err()
}
