package game

import "github.com/lox/holdemcore/poker"

// Agent makes the betting decisions for one seat. Calls are synchronous and
// made from the goroutine running the hand.
type Agent interface {
	// StartNewHand is called before any cards are dealt.
	StartNewHand()
	// NotifyHoleCards delivers the seat's two private cards.
	NotifyHoleCards(hole []poker.Card)
	// NotifyCommunityCards delivers all community cards dealt so far.
	NotifyCommunityCards(community []poker.Card)
	// Bet returns the seat's declaration against openBet. The amount is the
	// seat's total bet for the round.
	Bet(openBet int, view View, seat int) (Action, int)
	// NotifyRoundOver is called on every agent when a betting round closes.
	NotifyRoundOver()
	// NotifyReward delivers the seat's net result for the hand.
	NotifyReward(net int)
}

// NopNotifier implements every Agent notification as a no-op. Embed it in
// agents that only need Bet.
type NopNotifier struct{}

func (NopNotifier) StartNewHand()                     {}
func (NopNotifier) NotifyHoleCards([]poker.Card)      {}
func (NopNotifier) NotifyCommunityCards([]poker.Card) {}
func (NopNotifier) NotifyRoundOver()                  {}
func (NopNotifier) NotifyReward(int)                  {}

// BetFunc adapts a plain function to the Agent interface.
type BetFunc func(openBet int, view View, seat int) (Action, int)

func (f BetFunc) Bet(openBet int, view View, seat int) (Action, int) { return f(openBet, view, seat) }
func (BetFunc) StartNewHand()                                        {}
func (BetFunc) NotifyHoleCards([]poker.Card)                         {}
func (BetFunc) NotifyCommunityCards([]poker.Card)                    {}
func (BetFunc) NotifyRoundOver()                                     {}
func (BetFunc) NotifyReward(int)                                     {}
