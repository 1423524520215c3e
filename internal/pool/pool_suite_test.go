package pool_test

import (
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/KirkDiggler/fps-hud/internal/errors"
	"github.com/KirkDiggler/fps-hud/internal/pool"
	"github.com/KirkDiggler/fps-hud/internal/uuid"
	mockuuid "github.com/KirkDiggler/fps-hud/internal/uuid/mock"
)

// toast stands in for a display element
type toast struct {
	text      string
	visible   bool
	destroyed bool
}

type PoolSuite struct {
	suite.Suite
	mu      sync.Mutex
	journal []string
}

func TestPoolSuite(t *testing.T) {
	suite.Run(t, new(PoolSuite))
}

func (s *PoolSuite) SetupTest() {
	s.journal = nil
}

func (s *PoolSuite) record(entry string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.journal = append(s.journal, entry)
}

func (s *PoolSuite) config(initial, maxSize int, policy pool.Policy) pool.Config[*toast] {
	return pool.Config[*toast]{
		Name:        "toasts",
		InitialSize: initial,
		MaxSize:     maxSize,
		Policy:      policy,
		New:         func() *toast { return &toast{} },
		Activate: func(t *toast, params any) {
			text, _ := params.(string)
			t.text = text
			t.visible = true
			s.record("activate:" + text)
		},
		Reset: func(t *toast) {
			s.record("reset:" + t.text)
			t.text = ""
			t.visible = false
		},
		Destroy: func(t *toast) {
			t.destroyed = true
		},
		IDGenerator: uuid.NewSequentialGenerator("toast"),
	}
}

func (s *PoolSuite) newPool(initial, maxSize int, policy pool.Policy) *pool.Pool[*toast] {
	p, err := pool.New(s.config(initial, maxSize, policy))
	s.Require().NoError(err)
	return p
}

func (s *PoolSuite) assertConservation(p *pool.Pool[*toast]) {
	stats := p.Stats()
	s.Equal(stats.Total, stats.Available+stats.InUse, "available + inUse must equal total")
}

func (s *PoolSuite) TestPrewarm() {
	p := s.newPool(4, 10, pool.PolicyGrow)

	stats := p.Stats()
	s.Equal(pool.Stats{Available: 4, Total: 4, Created: 4}, stats)
}

func (s *PoolSuite) TestAcquireActivatesAndReleaseResets() {
	p := s.newPool(1, 2, pool.PolicyGrow)

	item, err := p.Acquire("Double Kill")
	s.Require().NoError(err)
	s.Equal(pool.StateInUse, item.State())
	s.True(item.Value.visible)
	s.Equal("Double Kill", item.Value.text)

	s.True(p.Release(item))
	s.Equal(pool.StateAvailable, item.State())
	s.False(item.Value.visible)
	s.Empty(item.Value.text)

	s.Equal(pool.Stats{Available: 1, Total: 1, Created: 1, Acquired: 1, Released: 1}, p.Stats())
}

func (s *PoolSuite) TestLIFOReuseAndHookOrder() {
	p := s.newPool(2, 5, pool.PolicyGrow)

	a, err := p.Acquire("a")
	s.Require().NoError(err)
	b, err := p.Acquire("b")
	s.Require().NoError(err)

	s.True(p.Release(a))
	s.True(p.Release(b))

	again, err := p.Acquire("c")
	s.Require().NoError(err)

	s.Same(b, again, "most recently released item is reused first")
	s.Equal([]string{"activate:a", "activate:b", "reset:a", "reset:b", "activate:c"}, s.journal)
	s.Equal(2, p.Stats().Created)
}

func (s *PoolSuite) TestReleaseIsIdempotent() {
	p := s.newPool(1, 1, pool.PolicyGrow)

	item, err := p.Acquire("x")
	s.Require().NoError(err)

	s.True(p.Release(item))
	s.False(p.Release(item))
	s.False(p.Release(nil))

	stats := p.Stats()
	s.Equal(1, stats.Released)
	s.Equal(1, stats.Available)
	s.assertConservation(p)
}

func (s *PoolSuite) TestReleaseForeignItem() {
	p := s.newPool(0, 0, pool.PolicyGrow)
	other := s.newPool(0, 0, pool.PolicyGrow)

	item, err := other.Acquire("elsewhere")
	s.Require().NoError(err)

	s.False(p.Release(item))
	s.assertConservation(p)
}

func (s *PoolSuite) TestExhaustionGrow() {
	core, logs := observer.New(zap.WarnLevel)
	cfg := s.config(2, 3, pool.PolicyGrow)
	cfg.Logger = zap.New(core)
	p, err := pool.New(cfg)
	s.Require().NoError(err)

	for i := 0; i < 3; i++ {
		_, err := p.Acquire("kill")
		s.Require().NoError(err)
	}

	// MaxSize is advisory under the default policy
	fourth, err := p.Acquire("overflow")
	s.Require().NoError(err)
	s.NotNil(fourth)
	_, err = p.Acquire("overflow")
	s.Require().NoError(err)

	stats := p.Stats()
	s.Equal(5, stats.Total)
	s.Equal(5, stats.InUse)
	s.Equal(5, stats.Created)
	s.Len(logs.FilterMessage("pool grew past max size").All(), 1)
}

func (s *PoolSuite) TestExhaustionReject() {
	p := s.newPool(2, 3, pool.PolicyReject)

	items := make([]*pool.Item[*toast], 0, 3)
	for i := 0; i < 3; i++ {
		item, err := p.Acquire("kill")
		s.Require().NoError(err)
		items = append(items, item)
	}

	item, err := p.Acquire("overflow")
	s.Nil(item)
	s.Require().Error(err)
	s.True(errors.IsPoolExhausted(err))
	s.Equal(3, errors.GetMeta(err)["max_size"])

	stats := p.Stats()
	s.Equal(3, stats.Total)
	s.Equal(3, stats.Acquired)

	// Capacity returns after a release
	s.True(p.Release(items[1]))
	again, err := p.Acquire("retry")
	s.Require().NoError(err)
	s.Same(items[1], again)
}

func (s *PoolSuite) TestExhaustionEvictOldest() {
	var evicted []string
	cfg := s.config(2, 3, pool.PolicyEvictOldest)
	cfg.OnEvict = func(item *pool.Item[*toast]) {
		evicted = append(evicted, item.Value.text)
	}
	p, err := pool.New(cfg)
	s.Require().NoError(err)

	first, err := p.Acquire("first")
	s.Require().NoError(err)
	_, err = p.Acquire("second")
	s.Require().NoError(err)
	_, err = p.Acquire("third")
	s.Require().NoError(err)

	fourth, err := p.Acquire("fourth")
	s.Require().NoError(err)

	s.Same(first, fourth)
	s.Equal([]string{"first"}, evicted)
	s.Equal("fourth", fourth.Value.text)
	s.Contains(s.journal, "reset:first")

	stats := p.Stats()
	s.Equal(3, stats.Total)
	s.Equal(3, stats.InUse)
	s.Equal(1, stats.Evicted)
	s.Equal(4, stats.Acquired)
	s.assertConservation(p)
}

func (s *PoolSuite) TestConservationUnderRandomLoad() {
	p := s.newPool(3, 8, pool.PolicyReject)
	rng := rand.New(rand.NewSource(42))
	var held []*pool.Item[*toast]

	for step := 0; step < 500; step++ {
		if len(held) > 0 && rng.Intn(2) == 0 {
			idx := rng.Intn(len(held))
			s.True(p.Release(held[idx]))
			held = append(held[:idx], held[idx+1:]...)
		} else {
			item, err := p.Acquire("load")
			if err != nil {
				s.True(errors.IsPoolExhausted(err))
				s.Len(held, 8)
			} else {
				held = append(held, item)
			}
		}
		s.assertConservation(p)
		s.Equal(len(held), p.Stats().InUse)
	}

	s.LessOrEqual(p.Stats().Created, 8)
}

func (s *PoolSuite) TestReleaseAfter() {
	p := s.newPool(1, 1, pool.PolicyGrow)

	item, err := p.Acquire("auto")
	s.Require().NoError(err)

	p.ReleaseAfter(item, 10*time.Millisecond)

	s.Eventually(func() bool {
		return p.Stats().Available == 1
	}, time.Second, 5*time.Millisecond)
	s.Equal(1, p.Stats().Released)
}

func (s *PoolSuite) TestReleaseAfterCancelled() {
	p := s.newPool(1, 1, pool.PolicyGrow)

	item, err := p.Acquire("sticky")
	s.Require().NoError(err)

	cancel := p.ReleaseAfter(item, 20*time.Millisecond)
	s.True(cancel())

	time.Sleep(40 * time.Millisecond)
	s.Equal(1, p.Stats().InUse)
}

func (s *PoolSuite) TestStaleTimerDoesNotReclaimReacquiredItem() {
	p := s.newPool(1, 1, pool.PolicyGrow)

	item, err := p.Acquire("first")
	s.Require().NoError(err)
	p.ReleaseAfter(item, 20*time.Millisecond)

	// Manual release races ahead of the timer, then the item is handed out again
	s.True(p.Release(item))
	again, err := p.Acquire("second")
	s.Require().NoError(err)
	s.Same(item, again)

	time.Sleep(50 * time.Millisecond)
	s.Equal(pool.StateInUse, again.State())
	s.Equal("second", again.Value.text)
	s.Equal(1, p.Stats().Released)
}

func (s *PoolSuite) TestClose() {
	p := s.newPool(2, 4, pool.PolicyGrow)

	held, err := p.Acquire("held")
	s.Require().NoError(err)

	p.Close()
	p.Close()

	s.True(held.Value.destroyed)
	s.False(p.Release(held))

	_, err = p.Acquire("late")
	s.Require().Error(err)
	s.True(errors.IsUnavailable(err))

	s.Equal(0, p.Stats().Total)
}

func (s *PoolSuite) TestItemIDsFromGenerator() {
	ctrl := gomock.NewController(s.T())
	gen := mockuuid.NewMockGenerator(ctrl)
	gomock.InOrder(
		gen.EXPECT().New().Return("entry-a"),
		gen.EXPECT().New().Return("entry-b"),
	)

	cfg := s.config(1, 0, pool.PolicyGrow)
	cfg.IDGenerator = gen
	p, err := pool.New(cfg)
	s.Require().NoError(err)

	first, err := p.Acquire("1")
	s.Require().NoError(err)
	second, err := p.Acquire("2")
	s.Require().NoError(err)

	s.Equal("entry-a", first.ID)
	s.Equal("entry-b", second.ID)
}

func (s *PoolSuite) TestInvalidConfig() {
	testCases := []struct {
		name   string
		mutate func(*pool.Config[*toast])
	}{
		{name: "missing constructor", mutate: func(c *pool.Config[*toast]) { c.New = nil }},
		{name: "negative initial", mutate: func(c *pool.Config[*toast]) { c.InitialSize = -1 }},
		{name: "initial above max", mutate: func(c *pool.Config[*toast]) { c.InitialSize = 5; c.MaxSize = 2 }},
		{name: "unknown policy", mutate: func(c *pool.Config[*toast]) { c.Policy = "block" }},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			cfg := s.config(1, 3, pool.PolicyGrow)
			tc.mutate(&cfg)
			_, err := pool.New(cfg)
			s.Require().Error(err)
			s.True(errors.IsInvalidArgument(err))
		})
	}
}

func (s *PoolSuite) TestConcurrentAcquireRelease() {
	p := s.newPool(4, 16, pool.PolicyGrow)
	var wg sync.WaitGroup

	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				item, err := p.Acquire("burst")
				if err != nil {
					return
				}
				p.Release(item)
			}
		}()
	}
	wg.Wait()

	stats := p.Stats()
	s.Equal(800, stats.Acquired)
	s.Equal(800, stats.Released)
	s.Zero(stats.InUse)
	s.assertConservation(p)
}
