package game

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatsEmpty(t *testing.T) {
	t.Parallel()

	var s Stats
	assert.Zero(t, s.Mean())
	assert.Zero(t, s.Variance())
	assert.Zero(t, s.StdError())
	assert.Zero(t, s.Median())
	assert.Zero(t, s.PositionMean(0))
	assert.NoError(t, s.Validate())
}

func TestStatsAdd(t *testing.T) {
	t.Parallel()

	var s Stats
	s.Add(1, false, 0)
	s.Add(-1, true, 1)
	s.Add(3, true, 0)
	s.Add(-2, false, 2)
	s.Add(0, true, 1)

	assert.Equal(t, 5, s.Hands)
	assert.InDelta(t, 0.2, s.Mean(), 1e-9)
	assert.InDelta(t, 0.0, s.Median(), 1e-9)
	assert.Equal(t, 1, s.ShowdownWins)
	assert.Equal(t, 1, s.NonShowdownWins)
	assert.InDelta(t, 2.0, s.ShowdownBB, 1e-9)
	assert.InDelta(t, -1.0, s.NonShowdownBB, 1e-9)
	assert.Equal(t, 2, s.ByPosition[0].Hands)
	assert.InDelta(t, 2.0, s.PositionMean(0), 1e-9)
	assert.InDelta(t, -0.5, s.PositionMean(1), 1e-9)
	assert.Zero(t, s.PositionMean(-1))
	require.NoError(t, s.Validate())

	// Stored values are not reordered by Percentile.
	assert.Equal(t, []float64{1, -1, 3, -2, 0}, s.Values)
}

func TestStatsPercentiles(t *testing.T) {
	t.Parallel()

	var s Stats
	for i := 1; i <= 5; i++ {
		s.Add(float64(i), false, 0)
	}

	tests := []struct {
		p    float64
		want float64
	}{
		{-1.0, 1},
		{-0.01, 1},
		{0.0, 1},
		{0.25, 2},
		{0.5, 3},
		{0.75, 4},
		{0.9, 4.6},
		{1.0, 5},
		{2.0, 5},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, s.Percentile(tt.p), 1e-9, "p=%v", tt.p)
	}

	lo, hi := s.ConfidenceInterval95()
	assert.InDelta(t, s.Mean(), (lo+hi)/2, 1e-9)
	assert.Greater(t, hi, lo)
}

func TestStatsValidateDetectsMismatch(t *testing.T) {
	t.Parallel()

	s := Stats{Hands: 1, SumBB: 2, Values: []float64{2}, ShowdownBB: 1}
	assert.ErrorContains(t, s.Validate(), "ledger mismatch")

	s = Stats{Hands: 2, Values: []float64{0}}
	assert.ErrorContains(t, s.Validate(), "values length")
}

func TestSessionStats(t *testing.T) {
	t.Parallel()

	s := NewSession(3)
	for i := range 4 {
		s.AddSeat("", &randomAgent{rng: newRand(int64(i))}, 2000)
	}
	results, err := s.Play(context.Background(), 60)
	require.NoError(t, err)

	totalBB := 0.0
	for _, seat := range s.Seats() {
		st := s.Stats(seat.Seq)
		require.NoError(t, st.Validate())
		assert.InDelta(t, float64(seat.Stack-2000)/DefaultBigBlind, st.SumBB, 1e-9)
		totalBB += st.SumBB
	}
	assert.InDelta(t, 0.0, totalBB, 1e-9)

	// Every seat played every hand while it had chips.
	hands := 0
	for _, res := range results {
		hands += len(res.Seq)
	}
	played := 0
	for _, seat := range s.Seats() {
		played += s.Stats(seat.Seq).Hands
	}
	assert.Equal(t, hands, played)

	assert.Zero(t, s.Stats(99).Hands)
}
