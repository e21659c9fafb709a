package poker

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

var (
	// ErrCardCount is returned when a hand has fewer than 2 or more than 7 cards.
	ErrCardCount = errors.New("hand must have between 2 and 7 cards")
	// ErrDuplicateCard is returned when the same card appears twice.
	ErrDuplicateCard = errors.New("duplicate card")
	// ErrInvalidCard is returned for cards outside the 52-card deck.
	ErrInvalidCard = errors.New("invalid card")
)

// Category enumerates the categories of poker hands ordered from weakest to strongest.
type Category uint8

const (
	HighCard Category = iota
	Pair
	TwoPairs
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
)

// NumCategories is the number of hand categories.
const NumCategories = int(StraightFlush) + 1

var categoryNames = [...]string{
	HighCard:      "High Card",
	Pair:          "Pair",
	TwoPairs:      "Two Pairs",
	ThreeOfAKind:  "Three of a Kind",
	Straight:      "Straight",
	Flush:         "Flush",
	FullHouse:     "Full House",
	FourOfAKind:   "Four of a Kind",
	StraightFlush: "Straight Flush",
}

func (c Category) String() string {
	if int(c) < len(categoryNames) {
		return categoryNames[c]
	}
	return fmt.Sprintf("Category(%d)", uint8(c))
}

// HandRank is the comparable strength of a hand: its category plus up to five
// tie-break ranks ordered for lexicographic comparison. Unused trailing ranks
// are zero. Two HandRanks are equal exactly when the hands tie.
type HandRank struct {
	Category Category
	Ranks    [5]Rank
}

// Key packs the rank into a single integer that orders the same way as
// Compare: category in bits 20-23 and each tie-break rank in a 4-bit nibble.
func (hr HandRank) Key() uint32 {
	k := uint32(hr.Category) << 20
	for i, r := range hr.Ranks {
		k |= uint32(r) << (16 - 4*i)
	}
	return k
}

// Compare returns -1, 0 or +1 as hr is weaker than, equal to or stronger than other.
func (hr HandRank) Compare(other HandRank) int {
	a, b := hr.Key(), other.Key()
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func (hr HandRank) String() string {
	parts := make([]string, 0, len(hr.Ranks))
	for _, r := range hr.Ranks {
		if r == 0 {
			break
		}
		parts = append(parts, r.String())
	}
	return fmt.Sprintf("%s [%s]", hr.Category, strings.Join(parts, " "))
}

// Evaluate ranks the best hand that can be made from 2 to 7 cards. Straights
// and flushes need five cards; shorter hands are ranked on pairs, trips and
// high cards alone.
func Evaluate(cards ...Card) (HandRank, error) {
	if len(cards) < 2 || len(cards) > 7 {
		return HandRank{}, fmt.Errorf("%w: got %d", ErrCardCount, len(cards))
	}

	var (
		seen      uint64
		rankMask  uint16
		suitMasks [Clubs + 1]uint16
		suitCount [Clubs + 1]int
		counts    [Ace + 1]int
	)
	for _, c := range cards {
		if !c.Valid() {
			return HandRank{}, fmt.Errorf("%w: %#02x", ErrInvalidCard, uint8(c))
		}
		bit := uint64(1) << c.index()
		if seen&bit != 0 {
			return HandRank{}, fmt.Errorf("%w: %s", ErrDuplicateCard, c)
		}
		seen |= bit

		r, s := c.Rank(), c.Suit()
		rankMask |= 1 << r
		suitMasks[s] |= 1 << r
		suitCount[s]++
		counts[r]++
	}

	// At most one suit can hold five of seven cards.
	var flush HandRank
	hasFlush := false
	for _, s := range Suits {
		if suitCount[s] < 5 {
			continue
		}
		if high := straightHigh(suitMasks[s]); high != 0 {
			return HandRank{Category: StraightFlush, Ranks: straightRanks(high)}, nil
		}
		flush = HandRank{Category: Flush}
		topRanks(suitMasks[s], flush.Ranks[:])
		hasFlush = true
		break
	}

	groups := groupRanks(&counts)
	hr := HandRank{}
	switch {
	case groups[0].count == 4:
		q := groups[0].rank
		hr.Category = FourOfAKind
		hr.Ranks = [5]Rank{q, q, q, q}
		topRanks(rankMask&^(1<<q), hr.Ranks[4:])
		return hr, nil

	case groups[0].count == 3 && groups[1].count >= 2:
		t, p := groups[0].rank, groups[1].rank
		return HandRank{Category: FullHouse, Ranks: [5]Rank{t, t, t, p, p}}, nil

	case hasFlush:
		return flush, nil
	}

	if high := straightHigh(rankMask); high != 0 {
		return HandRank{Category: Straight, Ranks: straightRanks(high)}, nil
	}

	switch {
	case groups[0].count == 3:
		t := groups[0].rank
		hr.Category = ThreeOfAKind
		hr.Ranks = [5]Rank{t, t, t}
		topRanks(rankMask&^(1<<t), hr.Ranks[3:])

	case groups[0].count == 2 && groups[1].count == 2:
		p1, p2 := groups[0].rank, groups[1].rank
		hr.Category = TwoPairs
		hr.Ranks = [5]Rank{p1, p1, p2, p2}
		topRanks(rankMask&^(1<<p1|1<<p2), hr.Ranks[4:])

	case groups[0].count == 2:
		p := groups[0].rank
		hr.Category = Pair
		hr.Ranks = [5]Rank{p, p}
		topRanks(rankMask&^(1<<p), hr.Ranks[2:])

	default:
		hr.Category = HighCard
		topRanks(rankMask, hr.Ranks[:])
	}
	return hr, nil
}

// MustEvaluate is like Evaluate but panics on invalid input.
func MustEvaluate(cards ...Card) HandRank {
	hr, err := Evaluate(cards...)
	if err != nil {
		panic("poker: " + err.Error())
	}
	return hr
}

// CompareBest returns the indexes of every hand tied for the best rank, in
// ascending index order.
func CompareBest(hands []HandRank) []int {
	if len(hands) == 0 {
		return nil
	}
	best := hands[0].Key()
	for _, h := range hands[1:] {
		best = max(best, h.Key())
	}
	var winners []int
	for i, h := range hands {
		if h.Key() == best {
			winners = append(winners, i)
		}
	}
	return winners
}

// DenseRank assigns each hand its place among the distinct ranks present:
// 0 for the best, tied hands share a place and places are contiguous.
func DenseRank(hands []HandRank) []int {
	keys := make([]uint32, len(hands))
	for i, h := range hands {
		keys[i] = h.Key()
	}
	distinct := slices.Clone(keys)
	slices.Sort(distinct)
	distinct = slices.Compact(distinct)
	slices.Reverse(distinct)

	places := make([]int, len(hands))
	for i, k := range keys {
		places[i], _ = slices.BinarySearchFunc(distinct, k, func(a, b uint32) int {
			// distinct is descending
			switch {
			case a > b:
				return -1
			case a < b:
				return 1
			default:
				return 0
			}
		})
	}
	return places
}

type rankGroup struct {
	rank  Rank
	count int
}

// groupRanks orders the ranks present by multiplicity, then by rank, highest
// first. The result always has two entries so callers can index groups[1].
func groupRanks(counts *[Ace + 1]int) []rankGroup {
	groups := make([]rankGroup, 0, 7)
	for r := Ace; r >= Two; r-- {
		if counts[r] > 0 {
			groups = append(groups, rankGroup{rank: r, count: counts[r]})
		}
	}
	slices.SortStableFunc(groups, func(a, b rankGroup) int {
		return b.count - a.count
	})
	for len(groups) < 2 {
		groups = append(groups, rankGroup{})
	}
	return groups
}

// topRanks fills dst with the highest ranks set in mask, leaving zeros when
// the mask runs out.
func topRanks(mask uint16, dst []Rank) {
	i := 0
	for r := Ace; r >= Two && i < len(dst); r-- {
		if mask&(1<<r) != 0 {
			dst[i] = r
			i++
		}
	}
}

// straightHigh returns the top rank of the highest straight in mask, or 0.
// An Ace also counts as the virtual low rank below Two.
func straightHigh(mask uint16) Rank {
	if mask&(1<<Ace) != 0 {
		mask |= 1 << aceLow
	}
	for high := Ace; high >= Five; high-- {
		run := uint16(0x1F) << (high - 4)
		if mask&run == run {
			return high
		}
	}
	return 0
}

func straightRanks(high Rank) [5]Rank {
	return [5]Rank{high, high - 1, high - 2, high - 3, high - 4}
}
