package main

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/lox/holdemcore/game"
	"github.com/lox/holdemcore/internal/randutil"
	"github.com/lox/holdemcore/poker"
	"github.com/lox/holdemcore/sdk/analysis"
)

// EquityCmd estimates each hand's share of the pot against random opponents.
type EquityCmd struct {
	Hands     []string `arg:"" help:"Hole cards, one hand per argument (e.g. 'AhKh' or 'HA HK')"`
	Board     string   `short:"b" help:"Known community cards"`
	Opponents int      `short:"o" help:"Number of random opponents (default from config)"`
	Trials    int      `short:"t" help:"Number of Monte Carlo trials (default from config)"`
	Seed      *uint64  `help:"Random seed for reproducible results (default from config)"`
	Workers   int      `short:"w" help:"Number of worker goroutines (default from config)"`
}

func (cmd *EquityCmd) Run(g *Globals) error {
	cfg, logger, err := g.load()
	if err != nil {
		return err
	}
	holes, err := parseHoles(cmd.Hands)
	if err != nil {
		return err
	}
	board, err := parseBoard(cmd.Board)
	if err != nil {
		return err
	}
	for i, hole := range holes {
		if err := checkDuplicates([][]poker.Card{hole}, board); err != nil {
			return fmt.Errorf("hand %d: %w", i+1, err)
		}
	}

	ec := cfg.Equity
	if cmd.Opponents > 0 {
		ec.Opponents = cmd.Opponents
	}
	if cmd.Trials > 0 {
		ec.Trials = cmd.Trials
	}
	if cmd.Seed != nil {
		ec.Seed = *cmd.Seed
	}
	if cmd.Workers > 0 {
		ec.Workers = cmd.Workers
	}

	cache, err := analysis.NewCache(analysis.NewSimulator(ec.SimulatorOptions(logger)...), ec.CacheSize)
	if err != nil {
		return err
	}

	w := g.writer()
	renderBoard(w, board)
	tw := newTable(w)
	fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
		headerStyle.Render("hand"),
		headerStyle.Render("equity"),
		headerStyle.Render("win"),
		headerStyle.Render("tie"),
		headerStyle.Render("95% ci"))

	start := time.Now()
	for _, hole := range holes {
		res, err := cache.EstimateEquity(context.Background(), hole, board, ec.Opponents, ec.Trials)
		if err != nil {
			return fmt.Errorf("%s: %w", poker.FormatCards(hole), err)
		}
		lo, hi := res.ConfidenceInterval()
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			handStyle.Render(poker.FormatCards(hole)),
			winStyle.Render(percent(res.Probability())),
			winStyle.Render(percent(res.WinRate())),
			tieStyle.Render(percent(res.TieRate())),
			dimStyle.Render(percent(lo)+" - "+percent(hi)))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	hits, misses := cache.Stats()
	logger.Debug("equity cache", "hits", hits, "misses", misses, "entries", cache.Len())

	fmt.Fprintf(w, "\n%s trials against %d opponent(s), seed %d, in %v\n",
		humanize.Comma(int64(ec.Trials)), ec.Opponents, ec.Seed,
		time.Since(start).Truncate(time.Millisecond))
	return nil
}

// CategoriesCmd shows how often a hand finishes in each category once the
// board is completed at random.
type CategoriesCmd struct {
	Hand   string  `arg:"" help:"Hole cards (e.g. 'AhKh')"`
	Board  string  `short:"b" help:"Known community cards"`
	Trials int     `short:"t" help:"Number of Monte Carlo trials (default from config)"`
	Seed   *uint64 `help:"Random seed for reproducible results (default from config)"`
}

func (cmd *CategoriesCmd) Run(g *Globals) error {
	cfg, logger, err := g.load()
	if err != nil {
		return err
	}
	holes, err := parseHoles([]string{cmd.Hand})
	if err != nil {
		return err
	}
	board, err := parseBoard(cmd.Board)
	if err != nil {
		return err
	}
	if err := checkDuplicates(holes, board); err != nil {
		return err
	}

	ec := cfg.Equity
	if cmd.Trials > 0 {
		ec.Trials = cmd.Trials
	}
	if cmd.Seed != nil {
		ec.Seed = *cmd.Seed
	}
	sim := analysis.NewSimulator(ec.SimulatorOptions(logger)...)
	dist, err := sim.EstimateCategoryDistribution(context.Background(), holes[0], board, ec.Trials)
	if err != nil {
		return err
	}
	approx, err := analysis.ApproxCategoryProbabilities(holes[0], board)
	if err != nil {
		return err
	}

	w := g.writer()
	renderBoard(w, board)
	tw := newTable(w)
	fmt.Fprintf(tw, "%s\t%s\t%s\n",
		categoryStyle.Render("hand"),
		handStyle.Render(poker.FormatCards(holes[0])),
		headerStyle.Render("approx"))
	for c := poker.StraightFlush; ; c-- {
		sampled := dimStyle.Render(".")
		if dist.Counts[c] > 0 {
			sampled = tieStyle.Render(percent(dist.Frequency(c)))
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", categoryStyle.Render(c.String()), sampled, dimStyle.Render(percent(approx[c])))
		if c == poker.HighCard {
			break
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(w, "\n%s trials, seed %d\n", humanize.Comma(dist.Trials), ec.Seed)
	return nil
}

// RankCmd ranks complete hands against a shared board.
type RankCmd struct {
	Hands []string `arg:"" help:"Hole cards, one hand per argument"`
	Board string   `short:"b" help:"Community cards"`
}

func (cmd *RankCmd) Run(g *Globals) error {
	holes, err := parseHoles(cmd.Hands)
	if err != nil {
		return err
	}
	board, err := parseBoard(cmd.Board)
	if err != nil {
		return err
	}
	if err := checkDuplicates(holes, board); err != nil {
		return err
	}

	ranks := make([]poker.HandRank, len(holes))
	for i, hole := range holes {
		if ranks[i], err = poker.Evaluate(append(slices.Clone(hole), board...)...); err != nil {
			return fmt.Errorf("hand %d: %w", i+1, err)
		}
	}
	places := poker.DenseRank(ranks)

	w := g.writer()
	renderBoard(w, board)
	tw := newTable(w)
	fmt.Fprintf(tw, "%s\t%s\t%s\n",
		headerStyle.Render("place"),
		headerStyle.Render("hand"),
		headerStyle.Render("best"))
	for i, hole := range holes {
		place := fmt.Sprintf("%d", places[i]+1)
		if places[i] == 0 {
			place = winStyle.Render(place)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n",
			place,
			handStyle.Render(poker.FormatCards(hole)),
			categoryStyle.Render(ranks[i].String()))
	}
	return tw.Flush()
}

// ShowdownCmd plays a hand in which every seat moves all-in at its first
// decision and prints how the pot is split.
type ShowdownCmd struct {
	Hands  []string `arg:"" help:"Hole cards, one hand per seat starting with the small blind"`
	Board  string   `short:"b" help:"Community cards; missing cards are dealt at random"`
	Stacks []int    `short:"s" help:"Stack per seat (default from config)"`
	Seed   int64    `help:"Random seed for the missing board cards"`
}

func (cmd *ShowdownCmd) Run(g *Globals) error {
	cfg, logger, err := g.load()
	if err != nil {
		return err
	}
	holes, err := parseHoles(cmd.Hands)
	if err != nil {
		return err
	}
	board, err := parseBoard(cmd.Board)
	if err != nil {
		return err
	}
	if err := checkDuplicates(holes, board); err != nil {
		return err
	}
	if len(cmd.Stacks) != 0 && len(cmd.Stacks) != len(holes) {
		return fmt.Errorf("got %d stacks for %d hands", len(cmd.Stacks), len(holes))
	}

	shove := game.BetFunc(func(_ int, view game.View, seat int) (game.Action, int) {
		return game.AllIn, view.Remaining(seat)
	})
	seats := make([]game.Seat, len(holes))
	for i := range holes {
		stack := cfg.Table.Stack
		if len(cmd.Stacks) > 0 {
			stack = cmd.Stacks[i]
		}
		seats[i] = game.Seat{Seq: i, Name: fmt.Sprintf("seat%d", i+1), Agent: shove, Stack: stack}
	}

	hand, err := game.NewHand(seats, stackDeck(holes, board, cmd.Seed), cfg.Table.HandOptions(logger)...)
	if err != nil {
		return err
	}
	res, err := hand.Play(context.Background())
	if err != nil {
		return err
	}

	w := g.writer()
	renderBoard(w, res.Community)
	tw := newTable(w)
	fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
		headerStyle.Render("seat"),
		headerStyle.Render("hand"),
		headerStyle.Render("stack"),
		headerStyle.Render("best"),
		headerStyle.Render("net"))
	for i, s := range seats {
		best := dimStyle.Render("-")
		if res.Hands[i] != (poker.HandRank{}) {
			best = categoryStyle.Render(res.Hands[i].String())
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			s.Name,
			handStyle.Render(poker.FormatCards(res.Hole[i])),
			humanize.Comma(int64(s.Stack)),
			best,
			renderNet(res.Net[i]))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(w)
	for i, p := range res.Pots {
		name := "main pot"
		if i > 0 {
			name = fmt.Sprintf("side pot %d", i)
		}
		eligible := make([]string, len(p.Eligible))
		for k, seat := range p.Eligible {
			eligible[k] = seats[seat].Name
		}
		fmt.Fprintf(w, "%s %s: %s\n", name, humanize.Comma(int64(p.Amount)), strings.Join(eligible, " "))
	}
	return nil
}

// stackDeck lays out a deck that deals the given holes and board in dealing
// order, filling burns and missing board cards from a seeded shuffle.
func stackDeck(holes [][]poker.Card, board []poker.Card, seed int64) *poker.Deck {
	known := slices.Concat(slices.Concat(holes...), board)
	rest := poker.NewDeck(randutil.New(seed), known...)
	next := func() poker.Card {
		c, _ := rest.DealOne()
		return c
	}

	order := slices.Concat(holes...)
	for street, n := range []int{3, 1, 1} {
		order = append(order, next()) // burn
		start := []int{0, 3, 4}[street]
		for k := start; k < start+n; k++ {
			if k < len(board) {
				order = append(order, board[k])
			} else {
				order = append(order, next())
			}
		}
	}
	return poker.NewStackedDeck(order)
}
