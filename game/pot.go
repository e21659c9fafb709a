package game

import (
	"errors"
	"fmt"
	"slices"
	"sort"
)

var (
	// ErrNoContestingSeats is returned when settlement finds every seat folded.
	ErrNoContestingSeats = errors.New("no contesting seats at showdown")
	// ErrUnclaimedPot is returned when no claimant is eligible for part of the pot.
	ErrUnclaimedPot = errors.New("pot left unclaimed")
)

// Pot is one partition of the pot and the seats that can win it.
type Pot struct {
	Amount   int
	Eligible []int
}

// SidePots partitions the contributions into a main pot and side pots. Each
// level is set by a non-folded seat's total contribution; folded seats pay
// into every level they reached but are never eligible. The amounts sum to
// the total contributed.
func SidePots(contributions []int, folded []bool) []Pot {
	var levels []int
	for i, c := range contributions {
		if !folded[i] && c > 0 {
			levels = append(levels, c)
		}
	}
	slices.Sort(levels)
	levels = slices.Compact(levels)
	if len(levels) == 0 {
		total := 0
		for _, c := range contributions {
			total += c
		}
		if total == 0 {
			return nil
		}
		return []Pot{{Amount: total}}
	}

	var pots []Pot
	prev := 0
	for n, level := range levels {
		last := n == len(levels)-1
		pot := Pot{}
		for i, c := range contributions {
			if c <= prev {
				continue
			}
			if last {
				// Anything above the top contesting level belongs here too.
				pot.Amount += c - prev
			} else {
				pot.Amount += min(c, level) - prev
			}
			if !folded[i] && c >= level {
				pot.Eligible = append(pot.Eligible, i)
			}
		}
		if pot.Amount > 0 {
			pots = append(pots, pot)
		}
		prev = level
	}
	return pots
}

// Divide splits totalPot among the non-folded seats. thresholds holds each
// seat's all-in main pot (nil when the seat never went all-in) and ranks its
// dense hand rank, 0 being best. Rank levels are paid from best down. Within
// a level, claimants are ordered by eligible pot; each claimant's increment
// over what has already been paid out is split evenly, in multiples of unit,
// between it and every later claimant of the level, the remainder going to
// the first of them. The returned gross awards are in seat order.
func Divide(totalPot int, thresholds []*int, ranks []int, unit int) ([]int, error) {
	if len(thresholds) != len(ranks) {
		return nil, fmt.Errorf("%d thresholds for %d ranks", len(thresholds), len(ranks))
	}
	if unit <= 0 {
		return nil, fmt.Errorf("minimal unit must be positive, got %d", unit)
	}

	awards := make([]int, len(ranks))
	if len(ranks) == 0 {
		if totalPot > 0 {
			return nil, fmt.Errorf("%w: %d", ErrUnclaimedPot, totalPot)
		}
		return awards, nil
	}

	exhausted := 0
	for level := slices.Min(ranks); exhausted < totalPot; level++ {
		type claimant struct{ seat, cap int }
		var claimants []claimant
		for i, r := range ranks {
			if r != level {
				continue
			}
			limit := totalPot
			if thresholds[i] != nil {
				limit = min(*thresholds[i], totalPot)
			}
			claimants = append(claimants, claimant{seat: i, cap: limit})
		}
		if len(claimants) == 0 {
			if level > slices.Max(ranks) {
				return nil, fmt.Errorf("%w: %d of %d", ErrUnclaimedPot, totalPot-exhausted, totalPot)
			}
			continue
		}
		sort.SliceStable(claimants, func(a, b int) bool { return claimants[a].cap < claimants[b].cap })

		for k, cl := range claimants {
			share := cl.cap - exhausted
			if share <= 0 {
				continue
			}
			for m, amount := range divideEvenly(share, len(claimants)-k, unit) {
				awards[claimants[k+m].seat] += amount
			}
			exhausted = cl.cap
		}
	}
	return awards, nil
}

// divideEvenly splits amount into num shares that are multiples of unit,
// except the first which also takes the remainder.
func divideEvenly(amount, num, unit int) []int {
	if num == 1 {
		return []int{amount}
	}
	share := amount / unit / num * unit
	shares := make([]int, num)
	shares[0] = amount - share*(num-1)
	for i := 1; i < num; i++ {
		shares[i] = share
	}
	return shares
}

// Settle pays out a finished hand. ranks is indexed by seat and only read for
// seats that did not fold. The result is each seat's net: gross award minus
// everything it committed; the nets sum to zero.
func Settle(c *Context, ranks []int, unit int) ([]int, error) {
	contesting := c.Contesting()
	if len(contesting) == 0 {
		return nil, ErrNoContestingSeats
	}

	gross := make([]int, c.NumSeats())
	if len(contesting) == 1 {
		gross[contesting[0]] = c.TotalPot()
	} else {
		if len(ranks) != c.NumSeats() {
			return nil, fmt.Errorf("%d ranks for %d seats", len(ranks), c.NumSeats())
		}
		thresholds := make([]*int, len(contesting))
		sub := make([]int, len(contesting))
		for n, i := range contesting {
			thresholds[n] = c.thresholds[i]
			sub[n] = ranks[i]
		}
		shares, err := Divide(c.TotalPot(), thresholds, sub, unit)
		if err != nil {
			return nil, err
		}
		for n, i := range contesting {
			gross[i] = shares[n]
		}
	}

	net := make([]int, len(gross))
	for i := range net {
		net[i] = gross[i] - c.CumulativeBet(i)
	}
	return net, nil
}
