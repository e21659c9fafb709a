package game

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckAction(t *testing.T) {
	t.Parallel()

	const bb = 20
	tests := []struct {
		name      string
		decl      Declaration
		open      int
		prior     int
		remaining int
		legal     bool
	}{
		{"check with no open bet", Declaration{Check, 0}, 0, 0, 1000, true},
		{"check facing a bet", Declaration{Check, 0}, 40, 0, 1000, false},
		{"check with an amount", Declaration{Check, 10}, 0, 0, 1000, false},
		{"call with no open bet", Declaration{Call, 0}, 0, 0, 1000, false},
		{"call matching open bet", Declaration{Call, 40}, 40, 20, 1000, true},
		{"call short of open bet", Declaration{Call, 30}, 40, 20, 1000, false},
		{"big blind calls its own bet", Declaration{Call, 20}, 20, 20, 1000, true},
		{"bet at big blind", Declaration{Bet, 20}, 0, 0, 1000, true},
		{"bet below big blind", Declaration{Bet, 10}, 0, 0, 1000, false},
		{"bet facing a bet", Declaration{Bet, 100}, 40, 0, 1000, false},
		{"raise to twice", Declaration{Raise, 80}, 40, 0, 1000, true},
		{"raise above twice", Declaration{Raise, 95}, 40, 0, 1000, true},
		{"raise below twice", Declaration{Raise, 79}, 40, 0, 1000, false},
		{"raise with no open bet", Declaration{Raise, 80}, 0, 0, 1000, false},
		{"raise_more at twice", Declaration{RaiseMore, 80}, 40, 0, 1000, false},
		{"raise_more above twice", Declaration{RaiseMore, 81}, 40, 0, 1000, true},
		{"fold keeps prior bet", Declaration{Fold, 20}, 40, 20, 1000, true},
		{"fold changes bet", Declaration{Fold, 0}, 40, 20, 1000, false},
		{"fold with no open bet", Declaration{Fold, 0}, 0, 0, 1000, true},
		{"all-in commits remaining", Declaration{AllIn, 350}, 40, 0, 350, true},
		{"all-in below open bet", Declaration{AllIn, 30}, 40, 0, 30, true},
		{"all-in short of remaining", Declaration{AllIn, 300}, 40, 0, 350, false},
		{"amount above remaining", Declaration{Raise, 400}, 40, 0, 350, false},
		{"call of whole stack must be all-in", Declaration{Call, 350}, 350, 0, 350, false},
		{"bet of whole stack must be all-in", Declaration{Bet, 100}, 0, 0, 100, false},
		{"blind cannot be declared", Declaration{Blind, 20}, 20, 0, 1000, false},
		{"padding cannot be declared", Declaration{Padding, 0}, 0, 0, 1000, false},
		{"negative amount", Declaration{AllIn, -1}, 0, 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := CheckAction(tt.decl, tt.open, tt.prior, tt.remaining, bb)
			if tt.legal {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrIllegalAction)

			var illegal *IllegalActionError
			require.True(t, errors.As(err, &illegal))
			assert.Equal(t, tt.decl.Action, illegal.Action)
			assert.Equal(t, tt.decl.Amount, illegal.Amount)
			assert.Equal(t, tt.open, illegal.OpenBet)
			assert.Equal(t, tt.prior, illegal.PriorBet)
		})
	}
}

func TestIllegalActionErrorMessage(t *testing.T) {
	t.Parallel()

	err := &IllegalActionError{Seat: 2, Name: "bob", OpenBet: 0, PriorBet: 0, Action: Call, Amount: 0, Reason: "call must match a positive open bet"}
	assert.Equal(t, "illegal action: seat 2 (bob) open-bet(0) call 0 (prior 0): call must match a positive open bet", err.Error())
}

func TestActionHelpers(t *testing.T) {
	t.Parallel()

	for _, a := range []Action{Blind, Fold, Check, Bet, Call, Raise, RaiseMore, AllIn, Padding} {
		parsed, ok := ParseAction(a.String())
		require.True(t, ok, a.String())
		assert.Equal(t, a, parsed)
		assert.Equal(t, a == Fold || a == AllIn, a.IsHandOver(), a.String())
	}
	_, ok := ParseAction("shove")
	assert.False(t, ok)

	assert.Equal(t, []Action{Fold, Check, AllIn, Bet}, LegalActions(0))
	assert.Equal(t, []Action{Fold, Call, Raise, RaiseMore, AllIn}, LegalActions(20))

	assert.Equal(t, "preflop", PreFlop.String())
	assert.Equal(t, "river", River.String())
	assert.Equal(t, "raise_more", RaiseMore.String())
}
