package analysis

import (
	"context"
	"errors"
	"fmt"
	"io"
	rand "math/rand/v2"
	"runtime"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"golang.org/x/sync/errgroup"

	"github.com/lox/holdemcore/internal/randutil"
	"github.com/lox/holdemcore/poker"
)

var (
	ErrInvalidHoleCards = errors.New("exactly 2 hole cards required")
	ErrInvalidCommunity = errors.New("at most 5 community cards allowed")
	ErrInvalidOpponents = errors.New("at least 1 opponent required")
	ErrDivisionByZero   = errors.New("trials must be non-zero")
	ErrInvalidTrials    = errors.New("trials must be positive")
	ErrNotEnoughCards   = errors.New("not enough cards left in the deck")
)

// ctxCheckInterval is how many trials a worker runs between context checks.
const ctxCheckInterval = 1024

// Simulator estimates equity by sampling. It holds no per-call state and is
// safe for concurrent use.
type Simulator struct {
	seed    uint64
	workers int
	logger  *log.Logger
	clock   quartz.Clock
}

// SimulatorOption configures a Simulator.
type SimulatorOption func(*Simulator)

// WithSeed sets the base seed every trial stream is derived from.
func WithSeed(seed uint64) SimulatorOption {
	return func(s *Simulator) { s.seed = seed }
}

// WithWorkers sets the number of goroutines trials are split across.
// Values below 1 are ignored.
func WithWorkers(n int) SimulatorOption {
	return func(s *Simulator) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *log.Logger) SimulatorOption {
	return func(s *Simulator) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock sets the clock used to time runs.
func WithClock(clock quartz.Clock) SimulatorOption {
	return func(s *Simulator) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// NewSimulator creates a simulator. By default it uses seed 0, one worker per
// CPU up to 8, a discarding logger and the real clock.
func NewSimulator(opts ...SimulatorOption) *Simulator {
	s := &Simulator{
		workers: min(runtime.NumCPU(), 8),
		logger:  log.New(io.Discard),
		clock:   quartz.NewReal(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Seed returns the simulator's base seed.
func (s *Simulator) Seed() uint64 { return s.seed }

// EstimateWinProbability returns seat 0's share of the pot against opponents
// random hands, averaged over trials completed deals.
func (s *Simulator) EstimateWinProbability(ctx context.Context, hole, community []poker.Card, opponents, trials int) (float64, error) {
	res, err := s.EstimateEquity(ctx, hole, community, opponents, trials)
	if err != nil {
		return 0, err
	}
	return res.Probability(), nil
}

// EstimateEquity runs the win-probability simulation and returns the full
// tally of wins, splits and losses.
func (s *Simulator) EstimateEquity(ctx context.Context, hole, community []poker.Card, opponents, trials int) (EquityResult, error) {
	if opponents < 1 {
		return EquityResult{}, ErrInvalidOpponents
	}
	remaining, err := validate(hole, community, trials)
	if err != nil {
		return EquityResult{}, err
	}
	missing := 5 - len(community)
	need := missing + 2*opponents
	if need > len(remaining) {
		return EquityResult{}, fmt.Errorf("%w: need %d, have %d", ErrNotEnoughCards, need, len(remaining))
	}

	start := s.clock.Now()
	parts, err := runChunks(ctx, s.workers, trials, func(ctx context.Context, lo, hi int) (EquityResult, error) {
		smp := newSampler(s.seed, remaining)
		tally := EquityResult{TiedWith: make([]int64, opponents+2)}
		board := make([]poker.Card, 0, 5)
		seven := make([]poker.Card, 7)
		ranks := make([]poker.HandRank, opponents+1)

		var err error
		for i := lo; i < hi; i++ {
			if (i-lo)%ctxCheckInterval == 0 {
				if err := ctx.Err(); err != nil {
					return EquityResult{}, err
				}
			}
			drawn := smp.draw(uint64(i), need)
			board = append(append(board[:0], community...), drawn[:missing]...)

			copy(seven, hole)
			copy(seven[2:], board)
			if ranks[0], err = poker.Evaluate(seven...); err != nil {
				return EquityResult{}, err
			}
			for o := 0; o < opponents; o++ {
				copy(seven, drawn[missing+2*o:missing+2*o+2])
				if ranks[o+1], err = poker.Evaluate(seven...); err != nil {
					return EquityResult{}, err
				}
			}

			winners := poker.CompareBest(ranks)
			switch {
			case winners[0] != 0:
				tally.Losses++
			case len(winners) == 1:
				tally.Wins++
			default:
				tally.TiedWith[len(winners)]++
			}
			tally.Trials++
		}
		return tally, nil
	})
	if err != nil {
		return EquityResult{}, err
	}

	var total EquityResult
	for _, p := range parts {
		total.merge(p)
	}
	s.logger.Debug("equity estimate",
		"hole", poker.FormatCards(hole),
		"board", poker.FormatCards(community),
		"opponents", opponents,
		"trials", trials,
		"workers", len(parts),
		"probability", total.Probability(),
		"elapsed", s.clock.Now().Sub(start))
	return total, nil
}

// EstimateCategoryDistribution completes the board trials times and counts
// which category seat 0's best hand falls into.
func (s *Simulator) EstimateCategoryDistribution(ctx context.Context, hole, community []poker.Card, trials int) (CategoryDistribution, error) {
	remaining, err := validate(hole, community, trials)
	if err != nil {
		return CategoryDistribution{}, err
	}
	missing := 5 - len(community)

	start := s.clock.Now()
	parts, err := runChunks(ctx, s.workers, trials, func(ctx context.Context, lo, hi int) (CategoryDistribution, error) {
		smp := newSampler(s.seed, remaining)
		var dist CategoryDistribution
		seven := make([]poker.Card, 0, 7)

		for i := lo; i < hi; i++ {
			if (i-lo)%ctxCheckInterval == 0 {
				if err := ctx.Err(); err != nil {
					return CategoryDistribution{}, err
				}
			}
			drawn := smp.draw(uint64(i), missing)
			seven = append(append(append(seven[:0], hole...), community...), drawn...)
			hr, err := poker.Evaluate(seven...)
			if err != nil {
				return CategoryDistribution{}, err
			}
			dist.Counts[hr.Category]++
			dist.Trials++
		}
		return dist, nil
	})
	if err != nil {
		return CategoryDistribution{}, err
	}

	var total CategoryDistribution
	for _, p := range parts {
		for c, n := range p.Counts {
			total.Counts[c] += n
		}
		total.Trials += p.Trials
	}
	s.logger.Debug("category distribution",
		"hole", poker.FormatCards(hole),
		"board", poker.FormatCards(community),
		"trials", trials,
		"elapsed", s.clock.Now().Sub(start))
	return total, nil
}

// validate checks the known cards and trial count and returns the deck left
// once they are removed.
func validate(hole, community []poker.Card, trials int) ([]poker.Card, error) {
	if len(hole) != 2 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidHoleCards, len(hole))
	}
	if len(community) > 5 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidCommunity, len(community))
	}
	switch {
	case trials == 0:
		return nil, ErrDivisionByZero
	case trials < 0:
		return nil, fmt.Errorf("%w: got %d", ErrInvalidTrials, trials)
	}

	known := make([]poker.Card, 0, len(hole)+len(community))
	known = append(append(known, hole...), community...)
	seen := make(map[poker.Card]bool, len(known))
	for _, c := range known {
		if !c.Valid() {
			return nil, fmt.Errorf("%w: %#02x", poker.ErrInvalidCard, uint8(c))
		}
		if seen[c] {
			return nil, fmt.Errorf("%w: %s", poker.ErrDuplicateCard, c)
		}
		seen[c] = true
	}
	return poker.Remaining(known...), nil
}

// runChunks splits [0, trials) into contiguous ranges, one per worker, and
// returns the per-range results in range order.
func runChunks[T any](ctx context.Context, workers, trials int, work func(ctx context.Context, lo, hi int) (T, error)) ([]T, error) {
	n := max(min(workers, trials), 1)
	results := make([]T, n)

	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < n; w++ {
		lo, hi := trials*w/n, trials*(w+1)/n
		g.Go(func() error {
			r, err := work(ctx, lo, hi)
			if err != nil {
				return err
			}
			results[w] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// sampler draws trial cards from a fixed remaining deck. Each draw restarts
// from the same deck order and the trial's own stream, so a trial's cards do
// not depend on which trials the worker ran before it.
type sampler struct {
	seed uint64
	base []poker.Card
	buf  []poker.Card
	src  *rand.PCG
	rng  *rand.Rand
}

func newSampler(seed uint64, base []poker.Card) *sampler {
	src := rand.NewPCG(0, 0)
	return &sampler{
		seed: seed,
		base: base,
		buf:  make([]poker.Card, len(base)),
		src:  src,
		rng:  rand.New(src),
	}
}

// draw returns n cards for trial using a partial Fisher-Yates shuffle. The
// slice is only valid until the next call.
func (s *sampler) draw(trial uint64, n int) []poker.Card {
	copy(s.buf, s.base)
	randutil.SeedStream(s.src, s.seed, trial)
	for i := 0; i < n; i++ {
		j := i + s.rng.IntN(len(s.buf)-i)
		s.buf[i], s.buf[j] = s.buf[j], s.buf[i]
	}
	return s.buf[:n]
}
