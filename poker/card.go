package poker

import (
	"fmt"
	"strconv"
	"strings"
)

// Suit is one of the four card suits. The zero value is not a valid suit.
type Suit uint8

const (
	Hearts Suit = iota + 1
	Diamonds
	Spades
	Clubs
)

// Suits lists every suit in deck order.
var Suits = [...]Suit{Hearts, Diamonds, Spades, Clubs}

func (s Suit) String() string {
	switch s {
	case Hearts:
		return "H"
	case Diamonds:
		return "D"
	case Spades:
		return "S"
	case Clubs:
		return "C"
	default:
		return "?"
	}
}

// Rank is a card rank in 2..14, where 14 is the Ace.
type Rank uint8

const (
	Two Rank = iota + 2
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	Ace
)

// aceLow is the virtual rank an Ace takes in the wheel straight. It only ever
// appears inside straight detection and tie-break tuples, never on a Card.
const aceLow Rank = 1

func (r Rank) String() string {
	switch r {
	case Jack:
		return "J"
	case Queen:
		return "Q"
	case King:
		return "K"
	case Ace, aceLow:
		return "A"
	default:
		return strconv.Itoa(int(r))
	}
}

// Card is an immutable (suit, rank) pair packed into a byte: the suit in the
// high nibble and the rank in the low nibble. The zero Card is invalid.
type Card uint8

// NewCard returns the card with the given rank and suit.
func NewCard(rank Rank, suit Suit) Card {
	return Card(uint8(suit)<<4 | uint8(rank))
}

// Rank returns the card's rank (2..14).
func (c Card) Rank() Rank { return Rank(c & 0x0F) }

// Suit returns the card's suit.
func (c Card) Suit() Suit { return Suit(c >> 4) }

// Valid reports whether c is one of the 52 cards of a standard deck.
func (c Card) Valid() bool {
	s, r := c.Suit(), c.Rank()
	return s >= Hearts && s <= Clubs && r >= Two && r <= Ace
}

// index maps a valid card onto 0..51.
func (c Card) index() int {
	return int(c.Suit()-Hearts)*13 + int(c.Rank()-Two)
}

// String formats the card as its short token: suit letter then rank, e.g.
// "HA", "S10", "C9".
func (c Card) String() string {
	if !c.Valid() {
		return "??"
	}
	return c.Suit().String() + c.Rank().String()
}

// ParseCard decodes a short card token. Both the suit-first form ("HA",
// "h14", "S10", "dT") and the rank-first form ("Ah", "Ts", "10c") are
// accepted, case-insensitively. Malformed tokens return ok == false.
func ParseCard(token string) (card Card, ok bool) {
	s := strings.ToUpper(strings.TrimSpace(token))
	if len(s) < 2 {
		return 0, false
	}

	if suit, ok := parseSuit(s[0]); ok {
		rank, ok := parseRank(s[1:])
		if !ok {
			return 0, false
		}
		return NewCard(rank, suit), true
	}

	suit, ok := parseSuit(s[len(s)-1])
	if !ok {
		return 0, false
	}
	rank, ok := parseRank(s[:len(s)-1])
	if !ok {
		return 0, false
	}
	return NewCard(rank, suit), true
}

// MustParseCard is like ParseCard but panics on malformed input.
func MustParseCard(token string) Card {
	c, ok := ParseCard(token)
	if !ok {
		panic(fmt.Sprintf("poker: invalid card %q", token))
	}
	return c
}

// ParseCards decodes a list of tokens separated by whitespace or commas.
func ParseCards(s string) ([]Card, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})
	cards := make([]Card, 0, len(fields))
	for _, f := range fields {
		c, ok := ParseCard(f)
		if !ok {
			return nil, fmt.Errorf("invalid card %q", f)
		}
		cards = append(cards, c)
	}
	return cards, nil
}

// MustParseCards is like ParseCards but panics on malformed input.
func MustParseCards(s string) []Card {
	cards, err := ParseCards(s)
	if err != nil {
		panic("poker: " + err.Error())
	}
	return cards
}

// FormatCards joins the short tokens of cards with single spaces.
func FormatCards(cards []Card) string {
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}

func parseSuit(b byte) (Suit, bool) {
	switch b {
	case 'H':
		return Hearts, true
	case 'D':
		return Diamonds, true
	case 'S':
		return Spades, true
	case 'C':
		return Clubs, true
	}
	return 0, false
}

func parseRank(s string) (Rank, bool) {
	switch s {
	case "T":
		return Ten, true
	case "J":
		return Jack, true
	case "Q":
		return Queen, true
	case "K":
		return King, true
	case "A":
		return Ace, true
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < int(Two) || n > int(Ace) {
		return 0, false
	}
	return Rank(n), true
}
