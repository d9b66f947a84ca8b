// Package match implements the per-match state machine: turns, hands, the
// move clock, victory detection, and the action validator that authorises
// client actions against it (C4/C5 of the design).
package match

import (
	"fmt"
	"time"

	"github.com/hiveserver/hiveserver/internal/board"
	"github.com/hiveserver/hiveserver/internal/hexcoord"
	"github.com/hiveserver/hiveserver/internal/rules"
)

// Phase is the match's coarse lifecycle state.
type Phase string

const (
	Waiting  Phase = "WAITING"
	Active   Phase = "ACTIVE"
	Terminal Phase = "TERMINAL"
)

// Winner encodes the wire "winner" field.
type Winner string

const (
	NoWinner   Winner = ""
	WinsWhite  Winner = "WHITE"
	WinsBlack  Winner = "BLACK"
	WinsDraw   Winner = "DRAW"
)

// MoveClockBudget is the default per-turn budget (§4.4, §6 Configuration).
const MoveClockBudget = 30 * time.Second

// QueenOpeningDeadline is the personal turn index by which a Queen must be
// on the board.
const QueenOpeningDeadline = 4

// State is the authoritative per-match state machine. The match object is
// process-wide: one State persists across matches, reset in place by
// ResetForNewMatch rather than replaced, so C6 rotation never leaves a
// stale reference alive elsewhere.
type State struct {
	Board       *board.Board
	Hands       map[board.Colour]board.Hand
	QueenPlaced map[board.Colour]bool

	TurnNumber int
	Current    board.Colour
	Phase      Phase
	Winner     Winner

	Log []string

	lastCommit time.Time
}

// NewState returns a fresh match in the Waiting phase, with an empty board
// and full hands, ready to be moved to Active once both seats are filled.
func NewState() *State {
	s := &State{}
	s.ResetForNewMatch()
	return s
}

// ResetForNewMatch reconstructs the board and hands from initial constants.
// Only the participants and board reset across matches; the State object
// itself is retained (§3 Lifecycles).
func (s *State) ResetForNewMatch() {
	s.Board = board.New()
	s.Hands = map[board.Colour]board.Hand{
		board.White: board.NewHand(),
		board.Black: board.NewHand(),
	}
	s.QueenPlaced = map[board.Colour]bool{
		board.White: false,
		board.Black: false,
	}
	s.TurnNumber = 1
	s.Current = board.White
	s.Phase = Waiting
	s.Winner = NoWinner
	s.Log = nil
	s.lastCommit = time.Time{}
}

// Activate transitions Waiting -> Active once both seats are filled, and
// anchors the move clock.
func (s *State) Activate(now time.Time) {
	s.Phase = Active
	s.lastCommit = now
}

// PersonalTurnIndex returns ceil(turnNumber/2), the Queen-opening deadline
// unit.
func (s *State) PersonalTurnIndex() int {
	return (s.TurnNumber + 1) / 2
}

// rulesEngine returns a fresh rule engine bound to the live board.
func (s *State) rulesEngine() *rules.Engine {
	return rules.New(s.Board)
}

// appendLog records a human-readable event line.
func (s *State) appendLog(line string) {
	s.Log = append(s.Log, line)
}

// commitTurn runs the shared post-mutation sequence: victory check, then
// (if not terminal) flip colour, advance the turn counter, and reset the
// clock anchor.
func (s *State) commitTurn(now time.Time, mover board.Colour) {
	s.runVictoryCheck(mover)
	if s.Phase == Terminal {
		return
	}
	s.Current = s.Current.Opponent()
	s.TurnNumber++
	s.lastCommit = now
}

// checkHiveInvariant declares the match a draw if the board is disconnected
// outside of a search context — a fatal bug (§7 kind 6), not a rule
// rejection. The engine stays running; only this match is abandoned. Returns
// ErrInvariantViolation when the invariant broke, wrapped with the detail a
// log line needs, so the caller can surface it the way it surfaces any other
// sentinel-carrying condition.
func (s *State) checkHiveInvariant() error {
	if s.Board.Len() > 0 && !s.Board.IsHiveConnected(nil) {
		s.Phase = Terminal
		s.Winner = WinsDraw
		s.appendLog("internal invariant violation: hive disconnected; match declared a draw")
		return fmt.Errorf("%w: hive disconnected after commit", ErrInvariantViolation)
	}
	return nil
}

// applyPlace mutates the board/hand for a PLACE action. Callers must have
// already validated legality; applyPlace only performs the mutation and the
// shared commit sequence. The action has already taken effect by the time
// this returns a non-nil error: checkHiveInvariant fires after the mutation,
// not before it, so ErrInvariantViolation reports an already-committed draw,
// not a rejected action.
func (s *State) applyPlace(now time.Time, colour board.Colour, species board.Species, h hexcoord.Hex) error {
	id := newPieceID()
	s.Board.Push(h, board.Piece{ID: id, Species: species, Colour: colour})
	s.Hands[colour].Take(species)
	if species == board.Queen {
		s.QueenPlaced[colour] = true
	}
	s.appendLog(placeLogLine(colour, species, h))
	if err := s.checkHiveInvariant(); err != nil {
		return err
	}
	s.commitTurn(now, colour)
	return nil
}

// applyMove mutates the board for a MOVE action. See applyPlace's comment on
// ErrInvariantViolation's already-committed semantics.
func (s *State) applyMove(now time.Time, colour board.Colour, from, to hexcoord.Hex) error {
	p, _ := s.Board.PopTop(from)
	s.Board.Push(to, p)
	s.appendLog(moveLogLine(colour, from, to))
	if err := s.checkHiveInvariant(); err != nil {
		return err
	}
	s.commitTurn(now, colour)
	return nil
}

// applyPass commits a clock-driven or explicit pass: no board/hand change.
func (s *State) applyPass(now time.Time, colour board.Colour, reason string) {
	s.appendLog(reason)
	s.commitTurn(now, colour)
}

// applyForfeit ends the match immediately in favour of the opponent of
// colour.
func (s *State) applyForfeit(colour board.Colour) {
	s.Phase = Terminal
	if colour == board.White {
		s.Winner = WinsBlack
	} else {
		s.Winner = WinsWhite
	}
	s.appendLog(string(colour) + " forfeited")
}
