package game

import (
	rand "math/rand/v2"

	"github.com/lox/holdemcore/internal/randutil"
	"github.com/lox/holdemcore/poker"
)

// callAgent checks when it can and otherwise calls, going all-in when the
// call would take its whole stack.
type callAgent struct{ NopNotifier }

func (callAgent) Bet(openBet int, view View, seat int) (Action, int) {
	remaining := view.Remaining(seat)
	switch {
	case openBet == 0:
		return Check, 0
	case openBet >= remaining:
		return AllIn, remaining
	default:
		return Call, openBet
	}
}

// foldAgent folds whenever it faces a bet.
type foldAgent struct{ NopNotifier }

func (foldAgent) Bet(openBet int, view View, seat int) (Action, int) {
	if openBet == 0 {
		return Check, 0
	}
	return Fold, view.RoundBet(seat)
}

// allInAgent shoves every time it is asked.
type allInAgent struct{ NopNotifier }

func (allInAgent) Bet(_ int, view View, seat int) (Action, int) {
	return AllIn, view.Remaining(seat)
}

// scriptAgent plays a fixed list of declarations, then falls back to calling.
type scriptAgent struct {
	NopNotifier
	script []Declaration
}

func (a *scriptAgent) Bet(openBet int, view View, seat int) (Action, int) {
	if len(a.script) == 0 {
		return callAgent{}.Bet(openBet, view, seat)
	}
	d := a.script[0]
	a.script = a.script[1:]
	return d.Action, d.Amount
}

// randomAgent picks a random legal declaration.
type randomAgent struct {
	NopNotifier
	rng *rand.Rand
}

func (a *randomAgent) Bet(openBet int, view View, seat int) (Action, int) {
	remaining := view.Remaining(seat)
	switch a.rng.IntN(6) {
	case 0:
		return Fold, view.RoundBet(seat)
	case 1:
		return AllIn, remaining
	case 2, 3:
		return callAgent{}.Bet(openBet, view, seat)
	}

	if openBet == 0 {
		amount := view.BigBlind() * (1 + a.rng.IntN(3))
		if amount >= remaining {
			return AllIn, remaining
		}
		return Bet, amount
	}
	amount := 2*openBet + a.rng.IntN(openBet+1)
	switch {
	case amount >= remaining:
		return AllIn, remaining
	case amount == 2*openBet:
		return Raise, amount
	default:
		return RaiseMore, amount
	}
}

// recordingAgent counts the notifications it receives.
type recordingAgent struct {
	callAgent

	started   int
	hole      []poker.Card
	community [][]poker.Card
	rounds    int
	reward    int
	rewarded  bool
}

func (a *recordingAgent) StartNewHand() {
	a.started++
}

func (a *recordingAgent) NotifyHoleCards(hole []poker.Card) {
	a.hole = hole
}

func (a *recordingAgent) NotifyCommunityCards(community []poker.Card) {
	a.community = append(a.community, community)
}

func (a *recordingAgent) NotifyRoundOver() {
	a.rounds++
}

func (a *recordingAgent) NotifyReward(net int) {
	a.reward = net
	a.rewarded = true
}

func seatsFor(stack int, agents ...Agent) []Seat {
	seats := make([]Seat, len(agents))
	for i, a := range agents {
		seats[i] = Seat{Seq: i, Name: string(rune('a' + i)), Agent: a, Stack: stack}
	}
	return seats
}

func sum(xs []int) int {
	total := 0
	for _, x := range xs {
		total += x
	}
	return total
}

func newRand(seed int64) *rand.Rand { return randutil.New(seed) }
