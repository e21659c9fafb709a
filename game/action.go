package game

import (
	"errors"
	"fmt"
)

// Round is a betting round.
type Round int

const (
	PreFlop Round = iota
	Flop
	Turn
	River
)

// NumRounds is the number of betting rounds in a hand.
const NumRounds = 4

func (r Round) String() string {
	switch r {
	case PreFlop:
		return "preflop"
	case Flop:
		return "flop"
	case Turn:
		return "turn"
	case River:
		return "river"
	default:
		return fmt.Sprintf("round(%d)", int(r))
	}
}

// Action is the state a seat declares for the current round.
type Action int

const (
	// Blind is the state of a seat that has not acted this round, including
	// the seats that posted the blinds.
	Blind Action = iota
	Fold
	Check
	Bet
	Call
	Raise
	// RaiseMore is a raise strictly above twice the open bet.
	RaiseMore
	AllIn
	// Padding fills history rows for seats that never acted in the scan that
	// closed a round.
	Padding
)

var actionNames = [...]string{
	Blind:     "blind",
	Fold:      "fold",
	Check:     "check",
	Bet:       "bet",
	Call:      "call",
	Raise:     "raise",
	RaiseMore: "raise_more",
	AllIn:     "all_in",
	Padding:   "padding",
}

func (a Action) String() string {
	if a >= 0 && int(a) < len(actionNames) {
		return actionNames[a]
	}
	return fmt.Sprintf("action(%d)", int(a))
}

// IsHandOver reports whether a seat in this state takes no further decisions
// this hand.
func (a Action) IsHandOver() bool {
	return a == Fold || a == AllIn
}

// ParseAction parses the lower-case action names produced by String.
func ParseAction(s string) (Action, bool) {
	for a, name := range actionNames {
		if name == s {
			return Action(a), true
		}
	}
	return 0, false
}

// LegalActions returns the actions a seat may declare against openBet.
func LegalActions(openBet int) []Action {
	if openBet == 0 {
		return []Action{Fold, Check, AllIn, Bet}
	}
	return []Action{Fold, Call, Raise, RaiseMore, AllIn}
}

// Declaration is an action together with the seat's total bet for the round.
type Declaration struct {
	Action Action
	Amount int
}

// ErrIllegalAction is matched by every *IllegalActionError.
var ErrIllegalAction = errors.New("illegal action")

// IllegalActionError describes a declaration that broke the betting rules.
// It is fatal to the hand.
type IllegalActionError struct {
	Seat     int
	Name     string
	OpenBet  int
	PriorBet int
	Action   Action
	Amount   int
	Reason   string
}

func (e *IllegalActionError) Error() string {
	who := fmt.Sprintf("seat %d", e.Seat)
	if e.Name != "" {
		who = fmt.Sprintf("%s (%s)", who, e.Name)
	}
	return fmt.Sprintf("%s: %s open-bet(%d) %s %d (prior %d): %s",
		ErrIllegalAction, who, e.OpenBet, e.Action, e.Amount, e.PriorBet, e.Reason)
}

func (e *IllegalActionError) Is(target error) bool {
	return target == ErrIllegalAction
}

// CheckAction validates a declaration against the open bet, the seat's bet
// so far this round, what the seat can still commit this round and the big
// blind. It returns nil or an *IllegalActionError with Seat unset.
//
// Beyond the per-action table, an amount above remaining is never legal, and
// committing all of remaining must be declared as AllIn.
func CheckAction(d Declaration, openBet, priorBet, remaining, bigBlind int) error {
	fail := func(reason string) error {
		return &IllegalActionError{
			Seat:     -1,
			OpenBet:  openBet,
			PriorBet: priorBet,
			Action:   d.Action,
			Amount:   d.Amount,
			Reason:   reason,
		}
	}

	if d.Amount < 0 {
		return fail("negative amount")
	}
	if d.Amount > remaining {
		return fail(fmt.Sprintf("amount exceeds remaining stack %d", remaining))
	}
	if d.Action != AllIn && d.Action != Fold && d.Amount == remaining {
		return fail("committing the whole stack must be declared all_in")
	}

	switch d.Action {
	case Fold:
		if d.Amount != priorBet {
			return fail("fold must keep the prior bet")
		}
	case Check:
		if openBet != 0 || d.Amount != 0 {
			return fail("check needs no open bet and a zero amount")
		}
	case Bet:
		if openBet != 0 {
			return fail("bet needs no open bet")
		}
		if d.Amount < bigBlind {
			return fail(fmt.Sprintf("bet below big blind %d", bigBlind))
		}
	case Call:
		if openBet <= 0 || d.Amount != openBet {
			return fail("call must match a positive open bet")
		}
	case Raise:
		if openBet <= 0 || d.Amount < 2*openBet {
			return fail("raise must be at least twice a positive open bet")
		}
	case RaiseMore:
		if openBet <= 0 || d.Amount <= 2*openBet {
			return fail("raise_more must exceed twice a positive open bet")
		}
	case AllIn:
		if d.Amount != remaining {
			return fail(fmt.Sprintf("all_in must commit the remaining stack %d", remaining))
		}
	default:
		return fail("action cannot be declared")
	}
	return nil
}
