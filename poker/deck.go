package poker

import (
	"math/rand/v2"
	"slices"
)

// FullDeck returns the 52 cards in a fixed order: suits in Suits order, ranks
// ascending within each suit.
func FullDeck() []Card {
	cards := make([]Card, 0, 52)
	for _, suit := range Suits {
		for rank := Two; rank <= Ace; rank++ {
			cards = append(cards, NewCard(rank, suit))
		}
	}
	return cards
}

// Deck is a shuffled deck dealt from the top.
type Deck struct {
	cards []Card
	next  int
	rng   *rand.Rand // Random source for deterministic shuffling
}

// NewDeck creates a shuffled deck with explicit RNG. Any excluded cards are
// left out, which is how callers build the remainder of a partially known deal.
func NewDeck(rng *rand.Rand, exclude ...Card) *Deck {
	if rng == nil {
		panic("poker: rng is required for deck creation")
	}
	d := &Deck{
		cards: Remaining(exclude...),
		rng:   rng,
	}
	d.Shuffle()
	return d
}

// NewStackedDeck returns a deck that deals cards in the given order, for
// replaying a known deal. It has no random source, so Shuffle only rewinds it.
func NewStackedDeck(cards []Card) *Deck {
	return &Deck{cards: slices.Clone(cards)}
}

// Remaining returns the ordered deck without the given cards.
func Remaining(exclude ...Card) []Card {
	var used uint64
	for _, c := range exclude {
		if c.Valid() {
			used |= 1 << c.index()
		}
	}
	cards := make([]Card, 0, 52)
	for _, c := range FullDeck() {
		if used&(1<<c.index()) == 0 {
			cards = append(cards, c)
		}
	}
	return cards
}

// Shuffle shuffles the deck using Fisher-Yates and resets the deal position.
// A stacked deck keeps its order.
func (d *Deck) Shuffle() {
	d.next = 0
	if d.rng == nil {
		return
	}
	for i := len(d.cards) - 1; i > 0; i-- {
		j := d.rng.IntN(i + 1)
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
}

// Deal deals n cards from the deck, or nil if fewer than n remain.
func (d *Deck) Deal(n int) []Card {
	if n < 0 || d.next+n > len(d.cards) {
		return nil
	}
	cards := make([]Card, n)
	copy(cards, d.cards[d.next:d.next+n])
	d.next += n
	return cards
}

// DealOne deals a single card from the deck.
func (d *Deck) DealOne() (Card, bool) {
	if d.next >= len(d.cards) {
		return 0, false
	}
	card := d.cards[d.next]
	d.next++
	return card, true
}

// CardsRemaining returns the number of cards left in the deck.
func (d *Deck) CardsRemaining() int {
	return len(d.cards) - d.next
}
