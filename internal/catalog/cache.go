package catalog

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/pagecart/bookstore-api/internal/redisx"
)

// RedisCache caches book lookups. Misses and redis failures both fall
// through to the store; the cache is never the source of truth.
type RedisCache struct{ R *redis.Client }

func (c *RedisCache) GetBook(ctx context.Context, id string) (Book, bool) {
	s, err := c.R.Get(ctx, fmt.Sprintf(redisx.KeyBook, id)).Result()
	if err != nil || s == "" {
		return Book{}, false
	}
	var b Book
	if err := json.Unmarshal([]byte(s), &b); err != nil {
		return Book{}, false
	}
	return b, true
}

func (c *RedisCache) SetBook(ctx context.Context, b Book) {
	raw, err := json.Marshal(b)
	if err != nil {
		return
	}
	_ = c.R.Set(ctx, fmt.Sprintf(redisx.KeyBook, b.ID), raw, redisx.TTLBookCache).Err()
}

func (c *RedisCache) DeleteBook(ctx context.Context, id string) {
	_ = c.R.Del(ctx, fmt.Sprintf(redisx.KeyBook, id)).Err()
}
