package analysis

import (
	"context"
	"slices"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/lox/holdemcore/poker"
)

// cacheKey is the full tuple an estimate depends on. Hole and community
// cards are sorted since card order never changes the result.
type cacheKey struct {
	hole      [2]poker.Card
	community [5]poker.Card
	boardLen  int
	opponents int
	trials    int
	seed      uint64
}

// Cache memoises equity estimates of one Simulator. It only ever returns a
// result computed for the identical tuple, and is safe for concurrent use.
type Cache struct {
	sim     *Simulator
	entries *lru.Cache[cacheKey, EquityResult]
	hits    atomic.Int64
	misses  atomic.Int64
}

// NewCache wraps sim with an LRU memo holding up to size results.
func NewCache(sim *Simulator, size int) (*Cache, error) {
	entries, err := lru.New[cacheKey, EquityResult](size)
	if err != nil {
		return nil, err
	}
	return &Cache{sim: sim, entries: entries}, nil
}

// EstimateEquity returns the memoised result for the tuple or runs the
// simulator and stores it. Errors are never cached.
func (c *Cache) EstimateEquity(ctx context.Context, hole, community []poker.Card, opponents, trials int) (EquityResult, error) {
	key, ok := c.key(hole, community, opponents, trials)
	if ok {
		if res, found := c.entries.Get(key); found {
			c.hits.Add(1)
			return cloneResult(res), nil
		}
	}
	c.misses.Add(1)

	res, err := c.sim.EstimateEquity(ctx, hole, community, opponents, trials)
	if err != nil {
		return EquityResult{}, err
	}
	if ok {
		c.entries.Add(key, cloneResult(res))
	}
	return res, nil
}

// EstimateWinProbability is EstimateEquity reduced to the probability.
func (c *Cache) EstimateWinProbability(ctx context.Context, hole, community []poker.Card, opponents, trials int) (float64, error) {
	res, err := c.EstimateEquity(ctx, hole, community, opponents, trials)
	if err != nil {
		return 0, err
	}
	return res.Probability(), nil
}

// Stats returns the number of cache hits and misses so far.
func (c *Cache) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

// Len returns the number of cached results.
func (c *Cache) Len() int { return c.entries.Len() }

// key builds the lookup key; ok is false for inputs the simulator will reject.
func (c *Cache) key(hole, community []poker.Card, opponents, trials int) (cacheKey, bool) {
	if len(hole) != 2 || len(community) > 5 {
		return cacheKey{}, false
	}
	k := cacheKey{
		boardLen:  len(community),
		opponents: opponents,
		trials:    trials,
		seed:      c.sim.Seed(),
	}
	copy(k.hole[:], hole)
	slices.Sort(k.hole[:])
	copy(k.community[:], community)
	slices.Sort(k.community[:len(community)])
	return k, true
}

func cloneResult(r EquityResult) EquityResult {
	r.TiedWith = slices.Clone(r.TiedWith)
	return r
}
