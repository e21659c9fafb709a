package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/lox/holdemcore/poker"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15"))

	handStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("14"))

	winStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10"))

	tieStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("11"))

	lossStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9"))

	categoryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("12"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8"))
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func percent(p float64) string {
	return fmt.Sprintf("%.1f%%", p*100)
}

// signed formats a chip amount with an explicit sign.
func signed(n int) string {
	if n > 0 {
		return "+" + humanize.Comma(int64(n))
	}
	return humanize.Comma(int64(n))
}

func renderNet(n int) string {
	switch {
	case n > 0:
		return winStyle.Render(signed(n))
	case n < 0:
		return lossStyle.Render(signed(n))
	default:
		return dimStyle.Render("0")
	}
}

func renderBoard(w io.Writer, board []poker.Card) {
	if len(board) == 0 {
		return
	}
	fmt.Fprintf(w, "%s\n", headerStyle.Render("board"))
	fmt.Fprintf(w, "%s\n\n", handStyle.Render(poker.FormatCards(board)))
}
