package analysis

import (
	"fmt"
	"math"

	"github.com/lox/holdemcore/poker"
)

// The approximations below need no sampling. For each category they take the
// exact hypergeometric odds of every individual pattern that makes it (one
// rank reaching three of a kind, one straight window filling in) and combine
// them as if the patterns were independent, so results are estimates that
// usually land within a few points of the sampled figures.

const handSize = 7

// reach holds, per category, the probability that the completed seven-card
// hand contains that category's pattern. Containment is not exclusive: a
// full house also contains a pair.
type reach [poker.NumCategories]float64

// draw describes the unseen cards: n more are taken from the left in the deck.
type draw struct {
	left, n int
}

// atLeast is the chance of drawing at least k of a subset of size size.
func (d draw) atLeast(size, k int) float64 {
	if k <= 0 {
		return 1.0
	}
	if k > size || k > d.n {
		return 0.0
	}
	var sum float64
	for x := k; x <= min(size, d.n); x++ {
		sum += binomial(size, x) * binomial(d.left-size, d.n-x)
	}
	return sum / binomial(d.left, d.n)
}

// atLeastBoth is the chance of drawing at least k1 of one subset and at least
// k2 of a second, disjoint subset.
func (d draw) atLeastBoth(size1, k1, size2, k2 int) float64 {
	k1, k2 = max(k1, 0), max(k2, 0)
	if k1 > size1 || k2 > size2 || k1+k2 > d.n {
		return 0.0
	}
	var sum float64
	for x1 := k1; x1 <= min(size1, d.n); x1++ {
		for x2 := k2; x2 <= min(size2, d.n-x1); x2++ {
			sum += binomial(size1, x1) * binomial(size2, x2) * binomial(d.left-size1-size2, d.n-x1-x2)
		}
	}
	return sum / binomial(d.left, d.n)
}

// allOf is the chance that each of the given specific cards is drawn.
func (d draw) allOf(cards int) float64 {
	if cards > d.n {
		return 0.0
	}
	p := 1.0
	for x := range cards {
		p *= float64(d.n-x) / float64(d.left-x)
	}
	return p
}

// everyRank is the chance that each of missing ranks, none of them already
// held, turns up at least once. Exact, by inclusion-exclusion.
func (d draw) everyRank(missing int) float64 {
	if missing > d.n {
		return 0.0
	}
	var sum float64
	for j := 0; j <= missing; j++ {
		term := binomial(missing, j) * binomial(d.left-4*j, d.n)
		if j%2 == 1 {
			term = -term
		}
		sum += term
	}
	return math.Max(0, sum/binomial(d.left, d.n))
}

func binomial(n, k int) float64 {
	if k < 0 || k > n {
		return 0.0
	}
	k = min(k, n-k)
	r := 1.0
	for i := range k {
		r = r * float64(n-i) / float64(i+1)
	}
	return math.Round(r)
}

// anyOf combines independent chances into the chance at least one happens.
type anyOf float64

func (a *anyOf) add(p float64) {
	*a = anyOf(1 - (1-float64(*a))*(1-p))
}

// straightWindows lists the five ranks of every straight, wheel first.
var straightWindows = func() [][5]poker.Rank {
	out := make([][5]poker.Rank, 0, 10)
	for high := poker.Five; high <= poker.Ace; high++ {
		var w [5]poker.Rank
		for i := range w {
			r := high - 4 + poker.Rank(i)
			if r < poker.Two {
				r = poker.Ace
			}
			w[i] = r
		}
		out = append(out, w)
	}
	return out
}()

func newReach(known []poker.Card) reach {
	d := draw{left: len(poker.FullDeck()) - len(known), n: handSize - len(known)}

	var ranks [poker.Ace + 1]int
	var suits [poker.Clubs + 1]int
	held := make(map[poker.Card]bool, len(known))
	for _, c := range known {
		ranks[c.Rank()]++
		suits[c.Suit()]++
		held[c] = true
	}

	ofAKind := func(k int) float64 {
		var a anyOf
		for r := poker.Two; r <= poker.Ace; r++ {
			a.add(d.atLeast(4-ranks[r], k-ranks[r]))
		}
		return float64(a)
	}
	// combo covers two ranks reaching k1 and k2 of a kind. ordered tries
	// both role assignments, which matters when k1 != k2.
	combo := func(k1, k2 int, ordered bool) float64 {
		var a anyOf
		for r1 := poker.Two; r1 <= poker.Ace; r1++ {
			for r2 := poker.Two; r2 <= poker.Ace; r2++ {
				if r1 == r2 || (!ordered && r2 < r1) {
					continue
				}
				a.add(d.atLeastBoth(4-ranks[r1], k1-ranks[r1], 4-ranks[r2], k2-ranks[r2]))
			}
		}
		return float64(a)
	}

	var straight, straightFlush, flush anyOf
	for _, w := range straightWindows {
		missing := 0
		for _, r := range w {
			if ranks[r] == 0 {
				missing++
			}
		}
		straight.add(d.everyRank(missing))

		for _, s := range poker.Suits {
			missing := 0
			for _, r := range w {
				if !held[poker.NewCard(r, s)] {
					missing++
				}
			}
			straightFlush.add(d.allOf(missing))
		}
	}
	for _, s := range poker.Suits {
		flush.add(d.atLeast(13-suits[s], 5-suits[s]))
	}

	var out reach
	out[poker.HighCard] = 1.0
	out[poker.Pair] = ofAKind(2)
	out[poker.TwoPairs] = combo(2, 2, false)
	out[poker.ThreeOfAKind] = ofAKind(3)
	out[poker.Straight] = float64(straight)
	out[poker.Flush] = float64(flush)
	out[poker.FullHouse] = combo(3, 2, true)
	out[poker.FourOfAKind] = ofAKind(4)
	out[poker.StraightFlush] = float64(straightFlush)
	return out
}

// best turns containment odds into the odds of each category being the best
// one made. The result sums to 1 because HighCard is always reachable.
func (r reach) best() [poker.NumCategories]float64 {
	var out [poker.NumCategories]float64
	missed := 1.0
	for c := poker.NumCategories - 1; c >= 0; c-- {
		out[c] = r[c] * missed
		missed *= 1 - r[c]
	}
	return out
}

// ApproxCategoryProbabilities estimates, without sampling, the probability of
// each category being the best hand hole and community make once the board
// is complete. It is the analytic counterpart of EstimateCategoryDistribution.
func ApproxCategoryProbabilities(hole, community []poker.Card) ([poker.NumCategories]float64, error) {
	if _, err := validate(hole, community, 1); err != nil {
		return [poker.NumCategories]float64{}, err
	}
	known := make([]poker.Card, 0, len(hole)+len(community))
	known = append(append(known, hole...), community...)
	return newReach(known).best(), nil
}

// ApproxWinProbability estimates, without sampling, seat 0's share of the pot
// against that many random hands. Each opponent's category odds come from
// the community cards alone, and a tie in category counts as half a win.
func ApproxWinProbability(hole, community []poker.Card, opponents int) (float64, error) {
	if opponents < 1 {
		return 0.0, ErrInvalidOpponents
	}
	remaining, err := validate(hole, community, 1)
	if err != nil {
		return 0.0, err
	}
	if need := 5 - len(community) + 2*opponents; need > len(remaining) {
		return 0.0, fmt.Errorf("%w: need %d, have %d", ErrNotEnoughCards, need, len(remaining))
	}

	known := make([]poker.Card, 0, len(hole)+len(community))
	known = append(append(known, hole...), community...)
	mine := newReach(known).best()
	theirs := newReach(community).best()

	var win, below float64
	for c := range poker.NumCategories {
		beat := below + 0.5*theirs[c]
		win += mine[c] * math.Pow(beat, float64(opponents))
		below += theirs[c]
	}
	return win, nil
}
