// Package bot implements the fixed-depth alpha-beta minimax search that
// drives the virtual bot player, over the same move generator and board
// model the human action validator uses (C7 of the design).
package bot

import (
	"github.com/hiveserver/hiveserver/internal/board"
	"github.com/hiveserver/hiveserver/internal/hexcoord"
	"github.com/hiveserver/hiveserver/internal/rules"
)

// Position is the slice of match.State the search needs: board, hands, and
// which colours have placed their Queen. It intentionally excludes turn
// number, log, and phase — those stay owned by match.State.
type Position struct {
	Board       *board.Board
	Hands       map[board.Colour]board.Hand
	QueenPlaced map[board.Colour]bool
}

// Clone returns an independent copy, used before applying a candidate move
// during search so sibling branches never observe each other's mutations.
func (p Position) Clone() Position {
	hands := make(map[board.Colour]board.Hand, len(p.Hands))
	for c, h := range p.Hands {
		hands[c] = h.Clone()
	}
	queenPlaced := make(map[board.Colour]bool, len(p.QueenPlaced))
	for c, v := range p.QueenPlaced {
		queenPlaced[c] = v
	}
	return Position{Board: p.Board.Clone(), Hands: hands, QueenPlaced: queenPlaced}
}

// Kind distinguishes a placement candidate from a move candidate.
type Kind string

const (
	KindPlace Kind = "PLACE"
	KindMove  Kind = "MOVE"
)

// Candidate is one legal action available to the side to move.
type Candidate struct {
	Kind    Kind
	Species board.Species // set for KindPlace
	Hex     hexcoord.Hex  // placement destination, for KindPlace
	From    hexcoord.Hex  // move source, for KindMove
	To      hexcoord.Hex  // move destination, for KindMove
}

func personalTurnIndex(turnNumber int) int {
	return (turnNumber + 1) / 2
}

// mustPlaceQueen reports the Queen-opening constraint for colour at
// turnNumber: no later than that colour's 4th personal turn.
func mustPlaceQueen(pos Position, colour board.Colour, turnNumber int) bool {
	return personalTurnIndex(turnNumber) >= 4 && !pos.QueenPlaced[colour]
}

// generateMoves returns every legal (species, coordinate) placement and
// (from, to) move available to colour at turnNumber, per §4.7's move
// generator: placements gated by the Queen-opening constraint, moves gated
// on the Queen already being on the board.
func generateMoves(pos Position, colour board.Colour, turnNumber int) []Candidate {
	engine := rules.New(pos.Board)
	forceQueen := mustPlaceQueen(pos, colour, turnNumber)

	var out []Candidate
	species := board.AllSpecies[:]
	if forceQueen {
		species = []board.Species{board.Queen}
	}
	for _, sp := range species {
		if pos.Hands[colour].Count(sp) < 1 {
			continue
		}
		for _, h := range engine.ValidPlacements(colour) {
			out = append(out, Candidate{Kind: KindPlace, Species: sp, Hex: h})
		}
	}

	if pos.QueenPlaced[colour] {
		for _, h := range pos.Board.Occupied() {
			top, _ := pos.Board.TopAt(h)
			if top.Colour != colour {
				continue
			}
			for _, dst := range engine.PieceMoves(h) {
				out = append(out, Candidate{Kind: KindMove, From: h, To: dst})
			}
		}
	}
	return out
}

// apply returns the position resulting from applying c on behalf of colour,
// without mutating pos.
func apply(pos Position, colour board.Colour, c Candidate) Position {
	next := pos.Clone()
	switch c.Kind {
	case KindPlace:
		next.Board.Push(c.Hex, board.Piece{ID: "search", Species: c.Species, Colour: colour})
		next.Hands[colour].Take(c.Species)
		if c.Species == board.Queen {
			next.QueenPlaced[colour] = true
		}
	case KindMove:
		p, _ := next.Board.PopTop(c.From)
		next.Board.Push(c.To, p)
	}
	return next
}
