package analysis

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/holdemcore/poker"
)

func TestApproxCategoryProbabilitiesTrackSampling(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		hole  string
		board string
	}{
		{"suited broadway preflop", "HA HK", ""},
		{"offsuit rags preflop", "H7 D2", ""},
		{"flush and straight draw", "HA HK", "HQ HJ C2"},
		{"open ended straight flush draw", "H9 H8", "H7 H6 C2"},
	}

	sim := NewSimulator(WithSeed(21))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			hole, board := cards(tt.hole), cards(tt.board)

			approx, err := ApproxCategoryProbabilities(hole, board)
			require.NoError(t, err)
			dist, err := sim.EstimateCategoryDistribution(context.Background(), hole, board, 20000)
			require.NoError(t, err)

			var total float64
			for c := range poker.NumCategories {
				total += approx[c]
				assert.InDelta(t, dist.Frequency(poker.Category(c)), approx[c], 0.1, poker.Category(c).String())
			}
			assert.InDelta(t, 1.0, total, 1e-9)
		})
	}
}

func TestApproxCategoryProbabilitiesMadeHands(t *testing.T) {
	t.Parallel()

	// Aces full on the flop: quads need the last ace or both sevens.
	flop, err := ApproxCategoryProbabilities(cards("HA DA"), cards("SA C7 D7"))
	require.NoError(t, err)
	assert.InDelta(t, 1.0/23, flop[poker.FourOfAKind], 1e-3)
	assert.InDelta(t, 1-1.0/23, flop[poker.FullHouse], 1e-3)
	assert.Zero(t, flop[poker.StraightFlush])
	assert.Zero(t, flop[poker.Pair])

	river, err := ApproxCategoryProbabilities(cards("C5 D5"), cards("S5 H9 D9 C2 H3"))
	require.NoError(t, err)
	for c := range poker.NumCategories {
		want := 0.0
		if poker.Category(c) == poker.FullHouse {
			want = 1.0
		}
		assert.InDelta(t, want, river[c], 1e-12, poker.Category(c).String())
	}

	royal, err := ApproxCategoryProbabilities(cards("HA HK"), cards("HQ HJ H10"))
	require.NoError(t, err)
	assert.InDelta(t, 1.0, royal[poker.StraightFlush], 1e-12)
}

func TestApproxWinProbabilityTracksSampling(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		hole      string
		board     string
		opponents int
	}{
		{"pocket aces heads up", "HA DA", "", 1},
		{"straight flush draw heads up", "H9 H8", "H7 H6 C2", 1},
		{"aces full on the flop", "HA DA", "SA C7 D7", 1},
		{"full house on the river multiway", "C5 D5", "S5 H9 D9 C2 H3", 3},
	}

	sim := NewSimulator(WithSeed(22))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			hole, board := cards(tt.hole), cards(tt.board)

			approx, err := ApproxWinProbability(hole, board, tt.opponents)
			require.NoError(t, err)
			sampled, err := sim.EstimateWinProbability(context.Background(), hole, board, tt.opponents, 5000)
			require.NoError(t, err)

			assert.InDelta(t, sampled, approx, 0.25)
			assert.GreaterOrEqual(t, approx, 0.0)
			assert.LessOrEqual(t, approx, 1.0)
		})
	}
}

func TestApproxWinProbabilityOrdering(t *testing.T) {
	t.Parallel()

	aces, err := ApproxWinProbability(cards("HA DA"), nil, 1)
	require.NoError(t, err)
	rags, err := ApproxWinProbability(cards("H7 D2"), nil, 1)
	require.NoError(t, err)
	assert.Greater(t, aces, rags)

	prev := 1.0
	for _, opponents := range []int{1, 2, 4, 8} {
		p, err := ApproxWinProbability(cards("HA DA"), nil, opponents)
		require.NoError(t, err)
		assert.Less(t, p, prev, "opponents=%d", opponents)
		prev = p
	}
}

func TestApproxValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		hole      []poker.Card
		board     []poker.Card
		opponents int
		want      error
	}{
		{"one hole card", cards("HA"), nil, 1, ErrInvalidHoleCards},
		{"six community cards", cards("HA DA"), cards("C2 C3 C4 C5 C6 C7"), 1, ErrInvalidCommunity},
		{"duplicate card", cards("HA DA"), cards("HA C2 C3"), 1, poker.ErrDuplicateCard},
		{"invalid card", []poker.Card{poker.MustParseCard("HA"), 0}, nil, 1, poker.ErrInvalidCard},
		{"no opponents", cards("HA DA"), nil, 0, ErrInvalidOpponents},
		{"too many opponents", cards("HA DA"), nil, 23, ErrNotEnoughCards},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := ApproxWinProbability(tt.hole, tt.board, tt.opponents)
			assert.ErrorIs(t, err, tt.want)
			if tt.opponents > 0 && tt.want != ErrNotEnoughCards {
				_, err = ApproxCategoryProbabilities(tt.hole, tt.board)
				assert.ErrorIs(t, err, tt.want)
			}
		})
	}
}
