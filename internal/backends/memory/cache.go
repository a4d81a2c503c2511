package memory

import (
	"context"
	"time"

	"hsforms/internal/ports"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

// Cache implements ports.Cache in process. Concurrent misses on the same key share
// a single compute call.
type Cache struct {
	ttl   *TTL[string, []byte]
	group singleflight.Group
}

var _ ports.Cache = (*Cache)(nil)

func NewCache() *Cache {
	return &Cache{ttl: NewTTL[string, []byte]()}
}

func (c *Cache) GetOrSet(ctx context.Context, key string, ttl time.Duration, compute ports.Compute) ([]byte, error) {
	if v, ok := c.ttl.Get(key); ok {
		return v, nil
	}
	v, err, _ := c.group.Do(key, func() (any, error) {
		// A caller that lost the race to an earlier flight finds the value here.
		if v, ok := c.ttl.Get(key); ok {
			return v, nil
		}
		b, err := compute(ctx)
		if err != nil {
			return nil, err
		}
		c.ttl.Set(key, b, ttl)
		return b, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

func (c *Cache) Delete(_ context.Context, key string) error {
	c.ttl.Delete(key)
	return nil
}

// Sweep drops expired entries.
func (c *Cache) Sweep() int {
	return c.ttl.Sweep()
}

// RunSweeper calls Sweep every interval until ctx is done. Expiry is otherwise lazy, so
// a long running process needs this to release entries nobody reads again.
func (c *Cache) RunSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := c.Sweep(); n > 0 {
				log.WithField("dropped", n).Debug("swept expired cache entries")
			}
		}
	}
}
