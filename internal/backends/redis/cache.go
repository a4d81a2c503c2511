package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hsforms/internal/ports"
	"hsforms/internal/types"

	"github.com/klauspost/compress/s2"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

const (
	cacheKeyNameTemplate = "_hsforms_cache_%s"
)

// Cache implements ports.Cache on Redis. Values are stored s2-compressed.
// Writes use SET NX so that when several processes miss at once the first stored
// value wins and every caller returns it.
type Cache struct {
	cli *redis.Client
}

var _ ports.Cache = (*Cache)(nil)

func NewCache(cli *redis.Client) *Cache {
	return &Cache{cli: cli}
}

func (c *Cache) GetOrSet(ctx context.Context, key string, ttl time.Duration, compute ports.Compute) ([]byte, error) {
	cacheKey := getCacheKeyName(key)
	v, found, err := c.get(ctx, cacheKey)
	if err != nil {
		return nil, err
	}
	if found {
		return v, nil
	}

	fresh, err := compute(ctx)
	if err != nil {
		return nil, err
	}
	ok, err := c.cli.SetNX(ctx, cacheKey, s2.Encode(nil, fresh), ttl).Result()
	if err != nil {
		return nil, types.Err(types.ErrCacheAccess, err, "set %s", key)
	}
	if ok {
		return fresh, nil
	}

	// Another writer got there first.
	v, found, err = c.get(ctx, cacheKey)
	if err != nil {
		return nil, err
	}
	if !found {
		// It expired or was deleted in between; ours is as good as any.
		log.WithField("key", key).Debug("cache entry vanished after concurrent write")
		return fresh, nil
	}
	return v, nil
}

func (c *Cache) Delete(ctx context.Context, key string) error {
	out := c.cli.Del(ctx, getCacheKeyName(key))
	if out.Err() != nil {
		return types.Err(types.ErrCacheAccess, out.Err(), "")
	}
	return nil
}

func (c *Cache) get(ctx context.Context, cacheKey string) ([]byte, bool, error) {
	out, err := c.cli.Get(ctx, cacheKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, types.Err(types.ErrCacheAccess, err, "get %s", cacheKey)
	}
	v, err := s2.Decode(nil, out)
	if err != nil {
		return nil, false, types.Err(types.ErrCacheAccess, err, "decode %s", cacheKey)
	}
	return v, true, nil
}

func getCacheKeyName(key string) string {
	return fmt.Sprintf(cacheKeyNameTemplate, key)
}
