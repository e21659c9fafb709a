package game

import "slices"

// View is the read-only window agents get onto a hand in progress.
type View interface {
	Round() Round
	NumSeats() int
	BigBlind() int
	// CumulativeBet is what seat i committed in completed rounds.
	CumulativeBet(i int) int
	// RoundBet is seat i's total bet in the current round.
	RoundBet(i int) int
	LastAction(i int) Action
	// Remaining is the largest round bet seat i can still make.
	Remaining(i int) int
	// NumLeft counts seats that have not folded.
	NumLeft() int
	NumAllIn() int
	// ActiveCount counts seats that have neither folded nor gone all-in.
	ActiveCount() int
	// TotalPot is the pot collected from completed rounds.
	TotalPot() int
	// MaxEarning is the most a seat betting bet this round could win if
	// everyone else stopped now.
	MaxEarning(bet int) int
	// AllInThreshold is the main pot seat i is eligible for, known once the
	// round in which it went all-in has closed.
	AllInThreshold(i int) (int, bool)
	// History returns the per-scan snapshots recorded so far in round r.
	History(r Round) []Snapshot
	// Pots partitions everything committed so far into main and side pots.
	Pots() []Pot
}

// Snapshot is the table state at the end of one scan over the seats.
type Snapshot struct {
	Actions []Action
	Bets    []int
}

// Context is the betting state of one hand. It is created when the hand
// starts, mutated by every action and read once by settlement.
type Context struct {
	bigBlind   int
	stacks     []int
	cumBets    []int
	roundBets  []int
	actions    []Action
	thresholds []*int

	round    Round
	totalPot int
	numLeft  int
	numAllIn int
	history  [NumRounds][]Snapshot
}

var _ View = (*Context)(nil)

// NewContext creates the context for a hand between seats with the given
// starting stacks.
func NewContext(stacks []int, bigBlind int) *Context {
	n := len(stacks)
	return &Context{
		bigBlind:   bigBlind,
		stacks:     slices.Clone(stacks),
		cumBets:    make([]int, n),
		roundBets:  make([]int, n),
		actions:    make([]Action, n),
		thresholds: make([]*int, n),
		numLeft:    n,
	}
}

func (c *Context) Round() Round            { return c.round }
func (c *Context) NumSeats() int           { return len(c.stacks) }
func (c *Context) BigBlind() int           { return c.bigBlind }
func (c *Context) CumulativeBet(i int) int { return c.cumBets[i] }
func (c *Context) RoundBet(i int) int      { return c.roundBets[i] }
func (c *Context) LastAction(i int) Action { return c.actions[i] }
func (c *Context) Remaining(i int) int     { return c.stacks[i] - c.cumBets[i] }
func (c *Context) NumLeft() int            { return c.numLeft }
func (c *Context) NumAllIn() int           { return c.numAllIn }
func (c *Context) ActiveCount() int        { return c.numLeft - c.numAllIn }
func (c *Context) TotalPot() int           { return c.totalPot }

// Stack is seat i's stack when the hand started.
func (c *Context) Stack(i int) int { return c.stacks[i] }

// Committed is everything seat i has put in so far, this round included.
func (c *Context) Committed(i int) int { return c.cumBets[i] + c.roundBets[i] }

func (c *Context) MaxEarning(bet int) int {
	total := c.totalPot
	for _, b := range c.roundBets {
		total += min(b, bet)
	}
	return total
}

func (c *Context) AllInThreshold(i int) (int, bool) {
	if c.thresholds[i] == nil {
		return 0, false
	}
	return *c.thresholds[i], true
}

func (c *Context) History(r Round) []Snapshot {
	if r < PreFlop || r > River {
		return nil
	}
	out := make([]Snapshot, len(c.history[r]))
	for i, s := range c.history[r] {
		out[i] = Snapshot{Actions: slices.Clone(s.Actions), Bets: slices.Clone(s.Bets)}
	}
	return out
}

func (c *Context) Pots() []Pot {
	folded := make([]bool, len(c.actions))
	for i, a := range c.actions {
		folded[i] = a == Fold
	}
	return SidePots(c.committed(), folded)
}

// Contesting returns the seats that have not folded, in seat order.
func (c *Context) Contesting() []int {
	var seats []int
	for i, a := range c.actions {
		if a != Fold {
			seats = append(seats, i)
		}
	}
	return seats
}

func (c *Context) committed() []int {
	out := make([]int, len(c.stacks))
	for i := range out {
		out[i] = c.Committed(i)
	}
	return out
}

// setAction records seat i's declaration, keeping the fold and all-in
// counters in step with state changes.
func (c *Context) setAction(i int, a Action, bet int) {
	if c.actions[i] != a {
		switch a {
		case Fold:
			c.numLeft--
		case AllIn:
			c.numAllIn++
		}
	}
	c.actions[i] = a
	c.roundBets[i] = bet
}

// finishScan records a snapshot of the scan that just ended. When the round
// is over, closer is the seat whose action closed it: later seats that still
// had decisions pending are recorded as Padding. Closing a round fixes the
// main pot of every new all-in, moves round bets into the pot and resets the
// seats still in play.
func (c *Context) finishScan(roundOver bool, closer int) {
	if roundOver && closer >= 0 {
		for i := closer + 1; i < len(c.actions); i++ {
			if !c.actions[i].IsHandOver() {
				c.actions[i] = Padding
			}
		}
	}
	c.history[c.round] = append(c.history[c.round], Snapshot{
		Actions: slices.Clone(c.actions),
		Bets:    slices.Clone(c.roundBets),
	})
	if !roundOver {
		return
	}

	for i, a := range c.actions {
		if a != AllIn || c.thresholds[i] != nil {
			continue
		}
		pot := c.totalPot
		for _, b := range c.roundBets {
			pot += min(b, c.roundBets[i])
		}
		c.thresholds[i] = &pot
	}
	for i, b := range c.roundBets {
		c.cumBets[i] += b
		c.totalPot += b
		if !c.actions[i].IsHandOver() {
			c.actions[i] = Blind
		}
		c.roundBets[i] = 0
	}
}
