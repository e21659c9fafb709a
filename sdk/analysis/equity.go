// Package analysis estimates hand equity by seeded Monte Carlo sampling.
//
// Every trial draws from its own random stream derived from the simulator
// seed and the trial index, and workers keep exact integer tallies, so an
// estimate is bit-identical for a given (hole, community, opponents, trials,
// seed) no matter how many workers run it.
package analysis

import (
	"math"

	"github.com/lox/holdemcore/poker"
)

// EquityResult represents the result of an equity calculation for seat 0.
type EquityResult struct {
	// Wins counts trials seat 0 won outright.
	Wins int64
	// TiedWith[k] counts trials where seat 0 split the pot among k winners
	// (k >= 2). Entries 0 and 1 are always zero.
	TiedWith []int64
	Losses   int64
	Trials   int64
}

// Ties returns the number of trials seat 0 split.
func (e EquityResult) Ties() int64 {
	var n int64
	for _, c := range e.TiedWith {
		n += c
	}
	return n
}

// WinRate returns the fraction of trials won outright.
func (e EquityResult) WinRate() float64 {
	if e.Trials == 0 {
		return 0.0
	}
	return float64(e.Wins) / float64(e.Trials)
}

// TieRate returns the fraction of trials split.
func (e EquityResult) TieRate() float64 {
	if e.Trials == 0 {
		return 0.0
	}
	return float64(e.Ties()) / float64(e.Trials)
}

// LossRate returns the fraction of trials lost.
func (e EquityResult) LossRate() float64 {
	if e.Trials == 0 {
		return 0.0
	}
	return float64(e.Losses) / float64(e.Trials)
}

// Probability returns seat 0's share of the credit: 1 per outright win and
// 1/k per k-way split, over all trials.
func (e EquityResult) Probability() float64 {
	if e.Trials == 0 {
		return 0.0
	}
	credit := float64(e.Wins)
	for k, n := range e.TiedWith {
		if k >= 2 && n > 0 {
			credit += float64(n) / float64(k)
		}
	}
	return credit / float64(e.Trials)
}

// ConfidenceInterval returns the 95% confidence interval for the probability.
func (e EquityResult) ConfidenceInterval() (lower, upper float64) {
	p := e.Probability()
	n := float64(e.Trials)

	if n == 0 {
		return 0.0, 0.0
	}

	// Standard error for binomial proportion
	se := math.Sqrt((p * (1.0 - p)) / n)
	margin := 1.96 * se

	lower = math.Max(0.0, p-margin)
	upper = math.Min(1.0, p+margin)

	return lower, upper
}

func (e *EquityResult) merge(o EquityResult) {
	e.Wins += o.Wins
	e.Losses += o.Losses
	e.Trials += o.Trials
	if len(e.TiedWith) < len(o.TiedWith) {
		e.TiedWith = append(e.TiedWith, make([]int64, len(o.TiedWith)-len(e.TiedWith))...)
	}
	for k, n := range o.TiedWith {
		e.TiedWith[k] += n
	}
}

// CategoryDistribution counts the category seat 0's completed hand reached.
type CategoryDistribution struct {
	Counts [poker.NumCategories]int64
	Trials int64
}

// Frequency returns the fraction of trials that ended in category c.
func (d CategoryDistribution) Frequency(c poker.Category) float64 {
	if d.Trials == 0 || int(c) >= len(d.Counts) {
		return 0.0
	}
	return float64(d.Counts[c]) / float64(d.Trials)
}

// Frequencies returns the non-zero frequencies by category.
func (d CategoryDistribution) Frequencies() map[poker.Category]float64 {
	out := make(map[poker.Category]float64)
	for c, n := range d.Counts {
		if n > 0 {
			out[poker.Category(c)] = float64(n) / float64(d.Trials)
		}
	}
	return out
}
