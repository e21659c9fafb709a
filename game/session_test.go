package game

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionSeatNames(t *testing.T) {
	t.Parallel()

	s := NewSession(1)
	a := s.AddSeat("", callAgent{}, 1000)
	b := s.AddSeat("bob", callAgent{}, 1000)
	c := s.AddSeat("", &randomAgent{}, 1000)
	d := s.AddSeat("", BetFunc(nil), 1000)

	assert.Equal(t, "callAgent0", a.Name)
	assert.Equal(t, "bob", b.Name)
	assert.Equal(t, 1, b.Seq)
	assert.Equal(t, "randomAgent2", c.Name)
	assert.Equal(t, "BetFunc3", d.Name)

	// Sequence numbers are per session.
	other := NewSession(1)
	assert.Equal(t, "callAgent0", other.AddSeat("", callAgent{}, 1000).Name)
}

func TestSessionRotatesBlinds(t *testing.T) {
	t.Parallel()

	s := NewSession(7, WithBigBlind(20), WithMinimalUnit(10))
	for range 3 {
		s.AddSeat("", callAgent{}, 1000)
	}

	first, err := s.PlayHand(context.Background())
	require.NoError(t, err)
	second, err := s.PlayHand(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []int{0, 1, 2}, first.Seq)
	assert.Equal(t, []int{1, 2, 0}, second.Seq)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, 2, s.HandsPlayed())

	total := 0
	for _, seat := range s.Seats() {
		total += seat.Stack
	}
	assert.Equal(t, 3000, total)
}

func TestSessionPlaysUntilOneSeatLeft(t *testing.T) {
	t.Parallel()

	s := NewSession(11)
	for range 3 {
		s.AddSeat("", allInAgent{}, 200)
	}

	results, err := s.Play(context.Background(), 200)
	require.NoError(t, err)
	assert.Less(t, len(results), 200)

	withChips := 0
	total := 0
	for _, seat := range s.Seats() {
		total += seat.Stack
		if seat.Stack > 0 {
			withChips++
		}
		assert.GreaterOrEqual(t, seat.Stack, 0)
	}
	assert.Equal(t, 1, withChips)
	assert.Equal(t, 600, total)

	_, err = s.PlayHand(context.Background())
	assert.ErrorIs(t, err, ErrNotEnoughPlayers)

	// Busted seats never appear in later hands.
	last := results[len(results)-1]
	assert.GreaterOrEqual(t, len(last.Seq), 2)
}

func TestSessionRandomPlayConservesChips(t *testing.T) {
	t.Parallel()

	s := NewSession(21)
	for i := range 5 {
		s.AddSeat("", &randomAgent{rng: newRand(int64(i))}, 500)
	}

	results, err := s.Play(context.Background(), 150)
	require.NoError(t, err)
	require.NotEmpty(t, results)

	total := 0
	for _, seat := range s.Seats() {
		assert.GreaterOrEqual(t, seat.Stack, 0)
		total += seat.Stack
	}
	assert.Equal(t, 2500, total)
	for _, res := range results {
		assert.Equal(t, 0, sum(res.Net))
	}
}
