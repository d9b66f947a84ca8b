package match

import "errors"

// Sentinel errors returned by Validate and the mutation helpers. Wrapped
// with fmt.Errorf("%w", ...) where extra context helps a log line, and
// checked with errors.Is by callers — the same idiom kushgupta-hiver-TTT's
// engine and yagoggame-gomaster's pool use for their own sentinel sets.
var (
	ErrNotYourTurn        = errors.New("match: not sender's turn")
	ErrMatchTerminal      = errors.New("match: match is terminal")
	ErrMalformed          = errors.New("match: malformed action")
	ErrIllegalMove        = errors.New("match: illegal move")
	ErrQueenNotPlaced     = errors.New("match: queen not yet placed")
	ErrInvariantViolation = errors.New("match: internal invariant violation")
)
