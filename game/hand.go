package game

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/lox/holdemcore/poker"
)

const (
	DefaultBigBlind    = 20
	DefaultMinimalUnit = 10
	// MaxSeats is the most seats a single deck can serve with burns.
	MaxSeats = 22
)

var (
	ErrTooFewSeats   = errors.New("at least 2 seats required")
	ErrTooManySeats  = fmt.Errorf("at most %d seats supported", MaxSeats)
	ErrInvalidSeat   = errors.New("invalid seat")
	ErrInvalidBlinds = errors.New("invalid blinds")
	ErrShortDeck     = errors.New("deck cannot serve the hand")
	ErrHandPlayed    = errors.New("hand already played")
)

// Seat is a participant in a hand. Seats are listed in acting order: seat 0
// posts the small blind and seat 1 the big blind.
type Seat struct {
	Seq   int
	Name  string
	Agent Agent
	Stack int
}

// HandOption configures a Hand during creation.
type HandOption func(*handConfig)

type handConfig struct {
	bigBlind int
	unit     int
	logger   *log.Logger
	id       string
}

// WithBigBlind sets the big blind. Defaults to DefaultBigBlind.
func WithBigBlind(bb int) HandOption {
	return func(c *handConfig) { c.bigBlind = bb }
}

// WithMinimalUnit sets the chip unit pots are split in. Defaults to
// DefaultMinimalUnit.
func WithMinimalUnit(unit int) HandOption {
	return func(c *handConfig) { c.unit = unit }
}

// WithLogger sets the logger for hand events.
func WithLogger(logger *log.Logger) HandOption {
	return func(c *handConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithID sets the hand id. Defaults to a fresh UUIDv7.
func WithID(id string) HandOption {
	return func(c *handConfig) { c.id = id }
}

// Result is the outcome of a hand, indexed by seat position.
type Result struct {
	ID        string
	Seq       []int
	Names     []string
	Net       []int
	Hole      [][]poker.Card
	Community []poker.Card
	// Hands holds each contesting seat's best hand when there was a showdown.
	Hands    []poker.HandRank
	Showdown bool
	TotalPot int
	Pots     []Pot
}

// Hand runs a single hand of no-limit hold'em.
type Hand struct {
	id         string
	seats      []Seat
	deck       *poker.Deck
	bigBlind   int
	smallBlind int
	unit       int
	logger     *log.Logger

	ctx       *Context
	hole      [][]poker.Card
	community []poker.Card
	played    bool
}

// NewHand validates the seats and blinds and prepares a hand. The deck must
// be freshly shuffled; it is dealt from without reshuffling.
func NewHand(seats []Seat, deck *poker.Deck, opts ...HandOption) (*Hand, error) {
	cfg := &handConfig{
		bigBlind: DefaultBigBlind,
		unit:     DefaultMinimalUnit,
		logger:   log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	switch {
	case len(seats) < 2:
		return nil, ErrTooFewSeats
	case len(seats) > MaxSeats:
		return nil, ErrTooManySeats
	case cfg.unit <= 0 || cfg.bigBlind < cfg.unit:
		return nil, fmt.Errorf("%w: big blind %d, unit %d", ErrInvalidBlinds, cfg.bigBlind, cfg.unit)
	case deck == nil || deck.CardsRemaining() < 2*len(seats)+8:
		return nil, ErrShortDeck
	}
	stacks := make([]int, len(seats))
	for i, s := range seats {
		if s.Agent == nil {
			return nil, fmt.Errorf("%w: seat %d has no agent", ErrInvalidSeat, i)
		}
		if s.Stack <= 0 {
			return nil, fmt.Errorf("%w: seat %d has stack %d", ErrInvalidSeat, i, s.Stack)
		}
		stacks[i] = s.Stack
	}
	if cfg.id == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return nil, fmt.Errorf("hand id: %w", err)
		}
		cfg.id = id.String()
	}

	return &Hand{
		id:         cfg.id,
		seats:      slices.Clone(seats),
		deck:       deck,
		bigBlind:   cfg.bigBlind,
		smallBlind: max(cfg.bigBlind/cfg.unit/2, 1) * cfg.unit,
		unit:       cfg.unit,
		logger:     cfg.logger.With("hand", cfg.id),
		ctx:        NewContext(stacks, cfg.bigBlind),
		hole:       make([][]poker.Card, len(seats)),
	}, nil
}

// ID returns the hand id.
func (h *Hand) ID() string { return h.id }

// Context exposes the hand's betting state.
func (h *Hand) Context() *Context { return h.ctx }

// Play deals and plays the hand to completion. It stops early with ctx's
// error if ctx is done between two actions, and with an *IllegalActionError
// if an agent breaks the rules.
func (h *Hand) Play(ctx context.Context) (*Result, error) {
	if h.played {
		return nil, ErrHandPlayed
	}
	h.played = true

	h.logger.Debug("hand start", "seats", len(h.seats), "small_blind", h.smallBlind, "big_blind", h.bigBlind)
	for _, s := range h.seats {
		s.Agent.StartNewHand()
	}
	for i, s := range h.seats {
		h.hole[i] = h.deck.Deal(2)
		s.Agent.NotifyHoleCards(slices.Clone(h.hole[i]))
	}

	if err := h.playRound(ctx, PreFlop); err != nil {
		return nil, err
	}
	streets := []struct {
		round Round
		cards int
	}{{Flop, 3}, {Turn, 1}, {River, 1}}
	for _, st := range streets {
		if h.ctx.NumLeft() <= 1 {
			break
		}
		h.deck.DealOne() // burn
		h.community = append(h.community, h.deck.Deal(st.cards)...)
		h.logger.Debug("community", "round", st.round, "cards", poker.FormatCards(h.community))
		for _, s := range h.seats {
			s.Agent.NotifyCommunityCards(slices.Clone(h.community))
		}
		if err := h.playRound(ctx, st.round); err != nil {
			return nil, err
		}
	}

	return h.settle()
}

// playRound runs one betting round. Seats are scanned in order until every
// seat still able to act has acted since the last raise.
func (h *Hand) playRound(ctx context.Context, round Round) error {
	c := h.ctx
	if c.ActiveCount() <= 1 {
		h.logger.Debug("round skipped", "round", round, "active", c.ActiveCount())
		return nil
	}
	c.round = round

	openBet, start := 0, 0
	if round == PreFlop {
		h.postBlind(0, h.smallBlind)
		h.postBlind(1, h.bigBlind)
		openBet, start = h.bigBlind, 2
	}

	ready := 0 // seats still in play that have acted since the last raise
	for {
		for i := start; i < c.NumSeats(); i++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			prevAction, prevBet := c.actions[i], c.roundBets[i]

			var action Action
			var amount int
			switch {
			case prevAction.IsHandOver():
				action, amount = prevAction, prevBet
			case prevBet == openBet && c.ActiveCount() == 1:
				// Everyone else is out or all-in and this seat already matches.
				action, amount = Call, prevBet
				if openBet == 0 {
					action = Check
				}
			default:
				action, amount = h.seats[i].Agent.Bet(openBet, c, i)
				if err := CheckAction(Declaration{action, amount}, openBet, prevBet, c.Remaining(i), h.bigBlind); err != nil {
					var illegal *IllegalActionError
					if errors.As(err, &illegal) {
						illegal.Seat = i
						illegal.Name = h.seats[i].Name
					}
					h.logger.Error("illegal action", "round", round, "seat", i, "name", h.seats[i].Name, "err", err)
					return err
				}
				h.logger.Debug("action", "round", round, "seat", i, "action", action, "amount", amount, "open", openBet)
			}
			c.setAction(i, action, amount)

			if amount > openBet {
				ready = 0
			}
			if !action.IsHandOver() {
				ready++
			}
			openBet = max(openBet, amount)

			if ready == c.ActiveCount() {
				c.finishScan(true, i)
				h.logger.Debug("round over", "round", round, "pot", c.TotalPot(), "left", c.NumLeft(), "all_in", c.NumAllIn())
				for _, s := range h.seats {
					s.Agent.NotifyRoundOver()
				}
				return nil
			}
		}
		c.finishScan(false, -1)
		start = 0
	}
}

// postBlind forces seat i to bet amount, or its whole stack if that is less.
func (h *Hand) postBlind(i, amount int) {
	c := h.ctx
	if remaining := c.Remaining(i); amount >= remaining {
		c.setAction(i, AllIn, remaining)
	} else {
		c.setAction(i, Blind, amount)
	}
	h.logger.Debug("blind", "seat", i, "amount", c.RoundBet(i), "action", c.LastAction(i))
}

func (h *Hand) settle() (*Result, error) {
	c := h.ctx
	n := c.NumSeats()
	res := &Result{
		ID:        h.id,
		Seq:       make([]int, n),
		Names:     make([]string, n),
		Hole:      h.hole,
		Community: h.community,
		Hands:     make([]poker.HandRank, n),
		TotalPot:  c.TotalPot(),
		Pots:      c.Pots(),
	}
	for i, s := range h.seats {
		res.Seq[i] = s.Seq
		res.Names[i] = s.Name
	}

	contesting := c.Contesting()
	ranks := make([]int, n)
	if len(contesting) > 1 {
		res.Showdown = true
		evals := make([]poker.HandRank, len(contesting))
		for k, i := range contesting {
			cards := append(slices.Clone(h.hole[i]), h.community...)
			hr, err := poker.Evaluate(cards...)
			if err != nil {
				return nil, fmt.Errorf("evaluate seat %d: %w", i, err)
			}
			evals[k] = hr
			res.Hands[i] = hr
		}
		for k, place := range poker.DenseRank(evals) {
			ranks[contesting[k]] = place
		}
	}

	net, err := Settle(c, ranks, h.unit)
	if err != nil {
		h.logger.Error("settlement failed", "err", err)
		return nil, err
	}
	res.Net = net
	h.logger.Debug("hand over", "pot", res.TotalPot, "showdown", res.Showdown, "net", net)

	for i, s := range h.seats {
		s.Agent.NotifyReward(net[i])
	}
	return res, nil
}
