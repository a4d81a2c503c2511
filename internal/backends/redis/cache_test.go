package redis

import (
	"context"
	"time"
)

func (s *UnitTestSuite) TestCacheGetOrSet() {
	ctx := context.Background()
	c := NewCache(s.cli)
	calls := 0
	compute := func(context.Context) ([]byte, error) {
		calls++
		return []byte(`[{"name":"A","id":"1"}]`), nil
	}

	v, err := c.GetOrSet(ctx, "k", time.Minute, compute)
	s.NoError(err)
	s.JSONEq(`[{"name":"A","id":"1"}]`, string(v))

	v, err = c.GetOrSet(ctx, "k", time.Minute, compute)
	s.NoError(err)
	s.JSONEq(`[{"name":"A","id":"1"}]`, string(v))
	s.Equal(1, calls)

	ttl, err := s.cli.TTL(ctx, getCacheKeyName("k")).Result()
	s.NoError(err)
	s.Greater(ttl, 50*time.Second)

	s.NoError(c.Delete(ctx, "k"))
	_, err = c.GetOrSet(ctx, "k", time.Minute, compute)
	s.NoError(err)
	s.Equal(2, calls)
}

func (s *UnitTestSuite) TestCacheFirstWriterWins() {
	ctx := context.Background()
	c := NewCache(s.cli)

	v, err := c.GetOrSet(ctx, "k", time.Minute, func(ctx context.Context) ([]byte, error) {
		// A concurrent process stores its value while we compute.
		_, err := NewCache(s.cli).GetOrSet(ctx, "k", time.Minute, func(context.Context) ([]byte, error) {
			return []byte("first"), nil
		})
		s.NoError(err)
		return []byte("second"), nil
	})
	s.NoError(err)
	s.Equal("first", string(v))
}
