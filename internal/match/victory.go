package match

import (
	"github.com/hiveserver/hiveserver/internal/board"
	"github.com/hiveserver/hiveserver/internal/hexcoord"
)

// findQueen locates colour's Queen on the board, if placed, including a
// Queen covered by a Beetle.
func (s *State) findQueen(colour board.Colour) (hexcoord.Hex, bool) {
	for _, h := range s.Board.Occupied() {
		cell, _ := s.Board.Get(h)
		for _, p := range cell.Stack {
			if p.Species == board.Queen && p.Colour == colour {
				return h, true
			}
		}
	}
	return hexcoord.Hex{}, false
}

// isSurrounded reports whether every neighbour of h is occupied — the
// Queen's own cell is never counted, and a Beetle sitting atop the Queen
// occupies the Queen's cell rather than one of its neighbours, so it never
// counts toward the surround either.
func (s *State) isSurrounded(h hexcoord.Hex) bool {
	for _, n := range hexcoord.Neighbours(h) {
		if !s.Board.IsOccupied(n) {
			return false
		}
	}
	return true
}

// runVictoryCheck evaluates both Queens after a commit, before the turn
// flips, and transitions to Terminal if either is surrounded.
func (s *State) runVictoryCheck(mover board.Colour) {
	whiteQueen, whitePlaced := s.findQueen(board.White)
	blackQueen, blackPlaced := s.findQueen(board.Black)

	whiteSurrounded := whitePlaced && s.isSurrounded(whiteQueen)
	blackSurrounded := blackPlaced && s.isSurrounded(blackQueen)

	switch {
	case whiteSurrounded && blackSurrounded:
		// The moving side caused the double-surround and therefore loses.
		s.Phase = Terminal
		s.Winner = winnerOf(mover.Opponent())
		s.appendLog("both queens surrounded; " + string(mover.Opponent()) + " wins")
	case whiteSurrounded:
		s.Phase = Terminal
		s.Winner = WinsBlack
		s.appendLog("white queen surrounded; black wins")
	case blackSurrounded:
		s.Phase = Terminal
		s.Winner = WinsWhite
		s.appendLog("black queen surrounded; white wins")
	}
}

func winnerOf(c board.Colour) Winner {
	if c == board.White {
		return WinsWhite
	}
	return WinsBlack
}
