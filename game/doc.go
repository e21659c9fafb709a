// Package game runs no-limit hold'em hands between pluggable agents.
//
// A Hand deals the cards, drives the four betting rounds through a Context,
// checks every declared action against the legality table in CheckAction and
// settles the pot, including side pots for interleaved all-ins. Agents only
// ever see the Context through the read-only View interface.
//
// Amounts declared by agents are the seat's total bet for the current round,
// not the increment: calling an open bet of 40 after posting a 20 big blind
// is declared as Call 40.
//
// Basic usage:
//
//	hand, err := game.NewHand(seats, poker.NewDeck(rng),
//		game.WithBigBlind(20), game.WithMinimalUnit(10))
//	if err != nil {
//		return err
//	}
//	result, err := hand.Play(ctx)
//
// A Session keeps stacks across hands and rotates the blinds.
package game
