package game

import (
	"fmt"
	"math"
	"slices"
)

// Stats accumulates one seat's results over a session, measured in big
// blinds.
type Stats struct {
	Hands  int
	SumBB  float64
	SumBB2 float64
	Values []float64

	ShowdownWins    int
	NonShowdownWins int
	ShowdownBB      float64
	NonShowdownBB   float64

	// ByPosition is indexed by table position, 0 being the small blind.
	ByPosition [MaxSeats]PositionStats
}

// PositionStats is the part of a seat's results played from one position.
type PositionStats struct {
	Hands int
	SumBB float64
}

// Add records one hand: the seat's net in big blinds, whether the hand
// reached a showdown and the position the seat played it from.
func (s *Stats) Add(netBB float64, showdown bool, position int) {
	s.Hands++
	s.SumBB += netBB
	s.SumBB2 += netBB * netBB
	s.Values = append(s.Values, netBB)

	if showdown {
		s.ShowdownBB += netBB
		if netBB > 0 {
			s.ShowdownWins++
		}
	} else {
		s.NonShowdownBB += netBB
		if netBB > 0 {
			s.NonShowdownWins++
		}
	}

	if position >= 0 && position < len(s.ByPosition) {
		s.ByPosition[position].Hands++
		s.ByPosition[position].SumBB += netBB
	}
}

// Mean returns the average result per hand.
func (s *Stats) Mean() float64 {
	if s.Hands == 0 {
		return 0
	}
	return s.SumBB / float64(s.Hands)
}

// Variance returns the sample variance of the results.
func (s *Stats) Variance() float64 {
	if s.Hands < 2 {
		return 0
	}
	mean := s.Mean()
	return (s.SumBB2 - float64(s.Hands)*mean*mean) / float64(s.Hands-1)
}

func (s *Stats) StdDev() float64 { return math.Sqrt(s.Variance()) }

// StdError returns the standard error of the mean.
func (s *Stats) StdError() float64 {
	if s.Hands == 0 {
		return 0
	}
	return s.StdDev() / math.Sqrt(float64(s.Hands))
}

// ConfidenceInterval95 returns the 95% confidence interval for the mean.
func (s *Stats) ConfidenceInterval95() (float64, float64) {
	mean := s.Mean()
	margin := 1.96 * s.StdError()
	return mean - margin, mean + margin
}

// Percentile returns the value at p, interpolating between neighbouring
// results. p is clamped to [0, 1].
func (s *Stats) Percentile(p float64) float64 {
	if len(s.Values) == 0 {
		return 0
	}
	p = min(max(p, 0), 1)
	sorted := slices.Sorted(slices.Values(s.Values))

	index := p * float64(len(sorted)-1)
	lower := int(index)
	upper := lower + 1
	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}
	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

func (s *Stats) Median() float64 { return s.Percentile(0.5) }

// PositionMean returns the average result from one table position.
func (s *Stats) PositionMean(position int) float64 {
	if position < 0 || position >= len(s.ByPosition) {
		return 0
	}
	ps := s.ByPosition[position]
	if ps.Hands == 0 {
		return 0
	}
	return ps.SumBB / float64(ps.Hands)
}

// Validate checks that the showdown split and per-position counts add up.
func (s *Stats) Validate() error {
	if math.Abs(s.SumBB-s.ShowdownBB-s.NonShowdownBB) > 1e-6 {
		return fmt.Errorf("ledger mismatch: total=%.6f, showdown=%.6f, non-showdown=%.6f",
			s.SumBB, s.ShowdownBB, s.NonShowdownBB)
	}
	if len(s.Values) != s.Hands {
		return fmt.Errorf("values length (%d) does not match hands count (%d)", len(s.Values), s.Hands)
	}
	if wins := s.ShowdownWins + s.NonShowdownWins; wins > s.Hands {
		return fmt.Errorf("total wins (%d) exceeds total hands (%d)", wins, s.Hands)
	}
	positioned := 0
	for _, ps := range s.ByPosition {
		positioned += ps.Hands
	}
	if positioned != s.Hands {
		return fmt.Errorf("position hands total (%d) does not match total hands (%d)", positioned, s.Hands)
	}
	return nil
}
