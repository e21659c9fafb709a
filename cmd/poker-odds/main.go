package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"

	"github.com/lox/holdemcore/internal/config"
	"github.com/lox/holdemcore/poker"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Globals

	Version    kong.VersionFlag `short:"v" help:"Show version"`
	Equity     EquityCmd        `cmd:"" help:"Estimate win probability against random opponents"`
	Categories CategoriesCmd    `cmd:"" help:"Show which hand categories a hand can finish as"`
	Rank       RankCmd          `cmd:"" help:"Rank hands against a board"`
	Showdown   ShowdownCmd      `cmd:"" help:"Settle an all-in pre-flop showdown with side pots"`
}

// Globals are the flags shared by every command.
type Globals struct {
	Config   string `short:"c" help:"Path to HCL config file" default:"holdem.hcl" type:"path"`
	LogLevel string `help:"Override the configured log level"`
	NoColor  bool   `help:"Disable colored output"`

	out io.Writer `kong:"-"`
}

func main() {
	cli := CLI{Globals: Globals{out: os.Stdout}}
	ctx := kong.Parse(&cli,
		kong.Name("poker-odds"),
		kong.Description("Hand ranking, equity and settlement tools for No-Limit Hold'em"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	if cli.NoColor {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
	err := ctx.Run(&cli.Globals)
	ctx.FatalIfErrorf(err)
}

// load reads the config file and applies command-line overrides.
func (g *Globals) load() (*config.Config, *log.Logger, error) {
	cfg, err := config.Load(g.Config)
	if err != nil {
		return nil, nil, err
	}
	if g.LogLevel != "" {
		cfg.LogLevel = g.LogLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	return cfg, cfg.Logger(), nil
}

func (g *Globals) writer() io.Writer {
	if g.out == nil {
		return os.Stdout
	}
	return g.out
}

// parseHand reads cards written either as separate tokens ("Ah Kh", "HA,HK")
// or run together in two-character pairs ("AhKh").
func parseHand(s string) ([]poker.Card, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	cards, err := poker.ParseCards(s)
	if err == nil {
		return cards, nil
	}
	if strings.ContainsAny(s, " ,") || len(s)%2 != 0 {
		return nil, err
	}
	tokens := make([]string, 0, len(s)/2)
	for i := 0; i < len(s); i += 2 {
		tokens = append(tokens, s[i:i+2])
	}
	return poker.ParseCards(strings.Join(tokens, " "))
}

// parseHoles parses one two-card hand per argument.
func parseHoles(args []string) ([][]poker.Card, error) {
	holes := make([][]poker.Card, 0, len(args))
	for i, arg := range args {
		hole, err := parseHand(arg)
		if err != nil {
			return nil, fmt.Errorf("hand %d: %w", i+1, err)
		}
		if len(hole) != 2 {
			return nil, fmt.Errorf("hand %d: must contain exactly 2 cards, got %d", i+1, len(hole))
		}
		holes = append(holes, hole)
	}
	return holes, nil
}

// parseBoard parses up to five community cards.
func parseBoard(s string) ([]poker.Card, error) {
	board, err := parseHand(s)
	if err != nil {
		return nil, fmt.Errorf("board: %w", err)
	}
	if len(board) > 5 {
		return nil, fmt.Errorf("board cannot have more than 5 cards, got %d", len(board))
	}
	return board, nil
}

// checkDuplicates rejects a card that appears in more than one place.
func checkDuplicates(holes [][]poker.Card, board []poker.Card) error {
	seen := make(map[poker.Card]bool)
	for _, c := range board {
		if seen[c] {
			return fmt.Errorf("duplicate card on board: %s", c)
		}
		seen[c] = true
	}
	for i, hole := range holes {
		for _, c := range hole {
			if seen[c] {
				return fmt.Errorf("duplicate card found in hand %d: %s", i+1, c)
			}
			seen[c] = true
		}
	}
	return nil
}
