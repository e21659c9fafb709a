package game

import (
	"context"
	"errors"
	"fmt"
	"io"
	rand "math/rand/v2"
	"reflect"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/lox/holdemcore/internal/randutil"
	"github.com/lox/holdemcore/poker"
)

// ErrNotEnoughPlayers is returned when fewer than two seats have chips.
var ErrNotEnoughPlayers = errors.New("fewer than 2 seats with chips")

// Session plays a series of hands at one table. Stacks carry over between
// hands, the blinds move one seat per hand and busted seats sit out.
type Session struct {
	seats    []*Seat
	stats    []*Stats // indexed by Seq
	nextSeq  int
	button   int
	played   int
	bigBlind int
	handOpts []HandOption
	rng      *rand.Rand
	logger   *log.Logger
}

// NewSession creates a session whose decks are shuffled from seed. The hand
// options are applied to every hand.
func NewSession(seed int64, opts ...HandOption) *Session {
	cfg := &handConfig{bigBlind: DefaultBigBlind, logger: log.New(io.Discard)}
	for _, opt := range opts {
		opt(cfg)
	}
	return &Session{
		bigBlind: cfg.bigBlind,
		handOpts: opts,
		rng:      randutil.New(seed),
		logger:   cfg.logger,
	}
}

// AddSeat joins an agent to the table with the given stack. An empty name
// defaults to the agent's type name followed by the seat's sequence number.
func (s *Session) AddSeat(name string, agent Agent, stack int) *Seat {
	seq := s.nextSeq
	s.nextSeq++
	if name == "" {
		name = fmt.Sprintf("%s%d", agentKind(agent), seq)
	}
	seat := &Seat{Seq: seq, Name: name, Agent: agent, Stack: stack}
	s.seats = append(s.seats, seat)
	s.stats = append(s.stats, &Stats{})
	return seat
}

// Seats returns the seats in joining order with their current stacks.
func (s *Session) Seats() []Seat {
	out := make([]Seat, len(s.seats))
	for i, seat := range s.seats {
		out[i] = *seat
	}
	return out
}

// Stats returns a copy of the results of the seat with sequence number seq.
func (s *Session) Stats(seq int) Stats {
	if seq < 0 || seq >= len(s.stats) {
		return Stats{}
	}
	st := *s.stats[seq]
	st.Values = slices.Clone(st.Values)
	return st
}

// HandsPlayed returns the number of hands completed.
func (s *Session) HandsPlayed() int { return s.played }

// PlayHand plays the next hand and applies its result to the stacks.
func (s *Session) PlayHand(ctx context.Context) (*Result, error) {
	order := s.tableOrder()
	if len(order) < 2 {
		return nil, ErrNotEnoughPlayers
	}

	seats := make([]Seat, len(order))
	for i, seat := range order {
		seats[i] = *seat
	}
	hand, err := NewHand(seats, poker.NewDeck(s.rng), s.handOpts...)
	if err != nil {
		return nil, err
	}
	res, err := hand.Play(ctx)
	if err != nil {
		return nil, fmt.Errorf("hand %s: %w", hand.ID(), err)
	}

	for i, seat := range order {
		seat.Stack += res.Net[i]
		s.stats[seat.Seq].Add(float64(res.Net[i])/float64(s.bigBlind), res.Showdown, i)
	}
	s.button++
	s.played++
	s.logger.Info("hand complete", "hand", res.ID, "number", s.played, "pot", res.TotalPot)
	return res, nil
}

// Play plays up to hands hands, stopping early when fewer than two seats
// have chips left. It returns the results of the hands played.
func (s *Session) Play(ctx context.Context, hands int) ([]*Result, error) {
	var results []*Result
	for range hands {
		res, err := s.PlayHand(ctx)
		if errors.Is(err, ErrNotEnoughPlayers) {
			break
		}
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}
	return results, nil
}

// tableOrder returns the seats with chips, rotated so the blinds move.
func (s *Session) tableOrder() []*Seat {
	var live []*Seat
	for _, seat := range s.seats {
		if seat.Stack > 0 {
			live = append(live, seat)
		}
	}
	if len(live) == 0 {
		return nil
	}
	k := s.button % len(live)
	return slices.Concat(live[k:], live[:k])
}

func agentKind(agent Agent) string {
	t := reflect.TypeOf(agent)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Name() == "" {
		return "agent"
	}
	return t.Name()
}
