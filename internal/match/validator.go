package match

import (
	"fmt"
	"time"

	"github.com/hiveserver/hiveserver/internal/board"
)

// isValidSpecies reports whether s is one of the five recognised species.
func isValidSpecies(s board.Species) bool {
	for _, want := range board.AllSpecies {
		if s == want {
			return true
		}
	}
	return false
}

// Validate authorises action on behalf of sender (already resolved to a
// seated colour by the caller — C6/C8 own "not seated" rejection) and, on
// success, applies it. On any failure the match is left untouched and a
// sentinel error is returned; the one exception is ErrInvariantViolation,
// which reports an action that was already applied and ended the match in a
// draw (see applyPlace). The caller (C8) reduces every rejection to a
// generic wire message, never leaking which check failed.
func (s *State) Validate(now time.Time, sender board.Colour, action Action) error {
	if s.Phase == Terminal {
		return ErrMatchTerminal
	}
	if action.Type != ActionForfeit && sender != s.Current {
		return ErrNotYourTurn
	}

	switch action.Type {
	case ActionPlace:
		return s.validatePlace(now, sender, action)
	case ActionMove:
		return s.validateMove(now, sender, action)
	case ActionForfeit:
		s.applyForfeit(sender)
		return nil
	default:
		return fmt.Errorf("%w: unrecognised action type %q", ErrMalformed, action.Type)
	}
}

func (s *State) validatePlace(now time.Time, sender board.Colour, action Action) error {
	if !isValidSpecies(action.Species) {
		return fmt.Errorf("%w: unrecognised species %q", ErrMalformed, action.Species)
	}
	hand := s.Hands[sender]
	if hand.Count(action.Species) < 1 {
		return fmt.Errorf("%w: no %s left in hand", ErrIllegalMove, action.Species)
	}

	personalTurn := s.PersonalTurnIndex()
	queenPlaced := s.QueenPlaced[sender]
	if personalTurn >= QueenOpeningDeadline && !queenPlaced && action.Species != board.Queen {
		return fmt.Errorf("%w: queen must be placed by personal turn %d", ErrIllegalMove, QueenOpeningDeadline)
	}

	legal := s.rulesEngine().ValidPlacements(sender)
	if !containsHex(legal, action.Hex) {
		return fmt.Errorf("%w: %s is not a legal placement", ErrIllegalMove, action.Hex)
	}

	return s.applyPlace(now, sender, action.Species, action.Hex)
}

func (s *State) validateMove(now time.Time, sender board.Colour, action Action) error {
	if !s.QueenPlaced[sender] {
		return ErrQueenNotPlaced
	}
	cell, ok := s.Board.Get(action.From)
	if !ok {
		return fmt.Errorf("%w: no piece at %s", ErrIllegalMove, action.From)
	}
	top := cell.Top()
	if top.Colour != sender {
		return fmt.Errorf("%w: %s does not own the piece at %s", ErrIllegalMove, sender, action.From)
	}

	legal := s.rulesEngine().PieceMoves(action.From)
	if !containsHex(legal, action.To) {
		return fmt.Errorf("%w: %s is not reachable from %s", ErrIllegalMove, action.To, action.From)
	}

	return s.applyMove(now, sender, action.From, action.To)
}
