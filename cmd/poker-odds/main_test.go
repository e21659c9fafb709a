package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/holdemcore/poker"
)

func TestParseHand(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
		hasError bool
	}{
		{name: "run together", input: "AcKh", expected: "CA HK"},
		{name: "spaced", input: "Ac Kh", expected: "CA HK"},
		{name: "suit first with comma", input: "HA,S10", expected: "HA S10"},
		{name: "empty", input: "  ", expected: ""},
		{name: "invalid card", input: "AcXy", hasError: true},
		{name: "odd length", input: "AcK", hasError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cards, err := parseHand(tt.input)
			if tt.hasError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, poker.FormatCards(cards))
		})
	}
}

func TestParseHoles(t *testing.T) {
	t.Parallel()

	holes, err := parseHoles([]string{"AcKh", "Qd Qs"})
	require.NoError(t, err)
	assert.Len(t, holes, 2)

	_, err = parseHoles([]string{"AcKhQd"})
	assert.ErrorContains(t, err, "hand 1: must contain exactly 2 cards")

	_, err = parseHoles([]string{"AcKh", "Ac"})
	assert.ErrorContains(t, err, "hand 2")

	_, err = parseBoard("2c3c4c5c6c7c")
	assert.ErrorContains(t, err, "more than 5 cards")
}

func TestCheckDuplicates(t *testing.T) {
	t.Parallel()

	holes := [][]poker.Card{poker.MustParseCards("HA HK"), poker.MustParseCards("DA DK")}
	assert.NoError(t, checkDuplicates(holes, poker.MustParseCards("C2 C3 C4")))
	assert.ErrorContains(t, checkDuplicates(holes, poker.MustParseCards("HA")), "hand 1: HA")
	assert.ErrorContains(t, checkDuplicates(holes, poker.MustParseCards("C2 C2")), "board")
}

func TestStackDeck(t *testing.T) {
	t.Parallel()

	holes := [][]poker.Card{poker.MustParseCards("HA DA"), poker.MustParseCards("HK DK")}
	board := poker.MustParseCards("S9 CJ H4 D8")
	deck := stackDeck(holes, board, 3)
	require.Equal(t, 12, deck.CardsRemaining())

	dealt := deck.Deal(12)
	assert.Equal(t, poker.MustParseCards("HA DA HK DK"), dealt[:4])
	assert.Equal(t, board[:3], dealt[5:8])
	assert.Equal(t, board[3], dealt[9])

	seen := make(map[poker.Card]bool)
	for _, c := range dealt {
		assert.False(t, seen[c], "duplicate %s", c)
		seen[c] = true
	}

	// The filled cards depend only on the seed.
	again := stackDeck(holes, board, 3).Deal(12)
	assert.Equal(t, dealt, again)
}

func testGlobals(t *testing.T) (*Globals, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	return &Globals{
		Config: filepath.Join(t.TempDir(), "missing.hcl"),
		out:    &out,
	}, &out
}

func TestEquityCommand(t *testing.T) {
	g, out := testGlobals(t)
	seed := uint64(5)
	cmd := &EquityCmd{
		Hands:  []string{"AhAd", "7c2d", "AhAd"},
		Trials: 2000,
		Seed:   &seed,
	}
	require.NoError(t, cmd.Run(g))

	s := out.String()
	assert.Contains(t, s, "HA DA")
	assert.Contains(t, s, "C7 D2")
	assert.Contains(t, s, "2,000 trials against 1 opponent(s), seed 5")
}

func TestEquityCommandRejectsBoardOverlap(t *testing.T) {
	g, _ := testGlobals(t)
	cmd := &EquityCmd{Hands: []string{"AhAd"}, Board: "Ah 2c 3c"}
	assert.ErrorContains(t, cmd.Run(g), "duplicate card")
}

func TestCategoriesCommand(t *testing.T) {
	g, out := testGlobals(t)
	seed := uint64(1)
	cmd := &CategoriesCmd{Hand: "AhKh", Board: "Qh Jh Th", Trials: 500, Seed: &seed}
	require.NoError(t, cmd.Run(g))

	s := out.String()
	assert.Contains(t, s, "Straight Flush")
	assert.Contains(t, s, "100.0%")
	assert.Contains(t, s, "approx")
	assert.Contains(t, s, "500 trials, seed 1")
}

func TestRankCommand(t *testing.T) {
	g, out := testGlobals(t)
	cmd := &RankCmd{Hands: []string{"AhAd", "KhKd", "AcAs"}, Board: "2c 7d 9s Jh 4c"}
	require.NoError(t, cmd.Run(g))

	s := out.String()
	assert.Contains(t, s, "Pair [A A J 9 7]")
	assert.Contains(t, s, "Pair [K K J 9 7]")
}

func TestShowdownCommand(t *testing.T) {
	g, out := testGlobals(t)
	cmd := &ShowdownCmd{
		Hands:  []string{"HA DA", "HK DK", "C7 D2"},
		Board:  "S9 CJ H4 D8 S5",
		Stacks: []int{100, 300, 500},
	}
	require.NoError(t, cmd.Run(g))

	s := out.String()
	assert.Contains(t, s, "+200")
	assert.Contains(t, s, "+100")
	assert.Contains(t, s, "-300")
	assert.Contains(t, s, "main pot 300: seat1 seat2 seat3")
	assert.Contains(t, s, "side pot 1 400: seat2 seat3")
	assert.Contains(t, s, "side pot 2 200: seat3")

	bad := &ShowdownCmd{Hands: []string{"HA DA", "HK DK"}, Stacks: []int{100}}
	assert.ErrorContains(t, bad.Run(g), "got 1 stacks for 2 hands")
}
