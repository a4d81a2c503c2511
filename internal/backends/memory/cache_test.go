package memory

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"
)

func (s *UnitTestSuite) TestCacheGetOrSet() {
	ctx := context.Background()
	c := NewCache()
	calls := 0
	compute := func(context.Context) ([]byte, error) {
		calls++
		return []byte("v1"), nil
	}

	v, err := c.GetOrSet(ctx, "k", time.Minute, compute)
	s.NoError(err)
	s.Equal("v1", string(v))

	v, err = c.GetOrSet(ctx, "k", time.Minute, compute)
	s.NoError(err)
	s.Equal("v1", string(v))
	s.Equal(1, calls)

	s.NoError(c.Delete(ctx, "k"))
	_, err = c.GetOrSet(ctx, "k", time.Minute, compute)
	s.NoError(err)
	s.Equal(2, calls)
}

func (s *UnitTestSuite) TestCacheComputeErrorNotStored() {
	ctx := context.Background()
	c := NewCache()
	boom := errors.New("boom")

	_, err := c.GetOrSet(ctx, "k", time.Minute, func(context.Context) ([]byte, error) {
		return nil, boom
	})
	s.ErrorIs(err, boom)

	v, err := c.GetOrSet(ctx, "k", time.Minute, func(context.Context) ([]byte, error) {
		return []byte("ok"), nil
	})
	s.NoError(err)
	s.Equal("ok", string(v))
}

func (s *UnitTestSuite) TestCacheExpiry() {
	ctx := context.Background()
	c := NewCache()
	now := time.Unix(1_700_000_000, 0)
	c.ttl.now = func() time.Time { return now }
	calls := 0
	compute := func(context.Context) ([]byte, error) {
		calls++
		return []byte("v"), nil
	}

	_, _ = c.GetOrSet(ctx, "k", 600*time.Second, compute)
	now = now.Add(599 * time.Second)
	_, _ = c.GetOrSet(ctx, "k", 600*time.Second, compute)
	s.Equal(1, calls)

	now = now.Add(2 * time.Second)
	_, _ = c.GetOrSet(ctx, "k", 600*time.Second, compute)
	s.Equal(2, calls)
	s.Equal(0, c.Sweep())
}

func (s *UnitTestSuite) TestCacheConcurrentMissComputesOnce() {
	ctx := context.Background()
	c := NewCache()
	var calls atomic.Int32
	release := make(chan struct{})
	compute := func(context.Context) ([]byte, error) {
		calls.Add(1)
		<-release
		return []byte("shared"), nil
	}

	var wg sync.WaitGroup
	results := make([]string, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err := c.GetOrSet(ctx, "k", time.Minute, compute)
			s.NoError(err)
			results[i] = string(v)
		}(i)
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	s.Equal(int32(1), calls.Load())
	for _, r := range results {
		s.Equal("shared", r)
	}
}

func (s *UnitTestSuite) TestCacheRunSweeper() {
	ctx, cancel := context.WithCancel(context.Background())
	c := NewCache()
	_, err := c.GetOrSet(ctx, "gone", time.Millisecond, func(context.Context) ([]byte, error) {
		return []byte("v"), nil
	})
	s.NoError(err)

	done := make(chan struct{})
	go func() {
		c.RunSweeper(ctx, 10*time.Millisecond)
		close(done)
	}()

	s.Eventually(func() bool {
		c.ttl.mu.RLock()
		defer c.ttl.mu.RUnlock()
		return len(c.ttl.data) == 0
	}, time.Second, 10*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		s.Fail("sweeper did not stop")
	}
}
