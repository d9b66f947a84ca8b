// Package seating implements the King-of-the-Hill queue and seat rotation:
// who sits where, who is promoted next, and how a bot opponent is seated
// and torn down.
package seating

import (
	"golang.org/x/exp/rand"

	"github.com/hiveserver/hiveserver/internal/board"
)

// Identity is a waiting or seated participant's stable session-level
// identity. The seating controller exclusively owns Identity values once
// they are queued or seated; no other component retains one past its
// lifecycle here.
type Identity struct {
	SessionID string
	Nickname  string
	IsBot     bool
}

// Seat is an occupied chair: an identity plus the running match state the
// spec attaches to a seat (hand/board state lives in match.State, keyed by
// colour; Seat only carries the identity-facing bookkeeping).
type Seat struct {
	Identity Identity
	Wins     int
}

// Controller owns seat assignment and the FIFO challenger queue. It holds
// no reference to match.State: callers pass colours and identities across
// the boundary, and the controller reports what changed so the caller can
// drive C4's reset/activate transitions.
type Controller struct {
	White *Seat
	Black *Seat
	queue []Identity
}

// New returns an empty controller: both seats vacant, queue empty.
func New() *Controller {
	return &Controller{}
}

// QueueLen reports how many challengers are waiting.
func (c *Controller) QueueLen() int {
	return len(c.queue)
}

// QueueNames returns the waiting identities' display names, in order —
// the only queue detail the wire snapshot schema exposes.
func (c *Controller) QueueNames() []string {
	out := make([]string, 0, len(c.queue))
	for _, id := range c.queue {
		out = append(out, id.Nickname)
	}
	return out
}

// SeatOf returns the colour the given session currently occupies, if any.
func (c *Controller) SeatOf(sessionID string) (board.Colour, bool) {
	if c.White != nil && c.White.Identity.SessionID == sessionID {
		return board.White, true
	}
	if c.Black != nil && c.Black.Identity.SessionID == sessionID {
		return board.Black, true
	}
	return "", false
}

// seatByColour returns the seat pointer for colour.
func (c *Controller) seatByColour(colour board.Colour) **Seat {
	if colour == board.White {
		return &c.White
	}
	return &c.Black
}

// JoinOutcome tells the caller what a join produced, so it can drive C4.
type JoinOutcome struct {
	Seated        bool
	Colour        board.Colour
	MatchReady    bool // both seats now filled: caller should (re)start the match
	InterruptsBot bool // a bot match was displaced; caller should reset with two humans
	Queued        bool
}

// JoinAsHuman seats id per §4.6: interrupt an active bot match, else fill an
// empty seat (White first), else queue.
func (c *Controller) JoinAsHuman(id Identity, botMatchActive bool) JoinOutcome {
	if botMatchActive {
		var displaced board.Colour
		if c.White != nil && c.White.Identity.IsBot {
			displaced = board.White
		} else {
			displaced = board.Black
		}
		*c.seatByColour(displaced) = &Seat{Identity: id}
		return JoinOutcome{Seated: true, Colour: displaced, InterruptsBot: true, MatchReady: true}
	}

	if c.White == nil {
		c.White = &Seat{Identity: id}
		return JoinOutcome{Seated: true, Colour: board.White, MatchReady: c.Black != nil}
	}
	if c.Black == nil {
		c.Black = &Seat{Identity: id}
		return JoinOutcome{Seated: true, Colour: board.Black, MatchReady: true}
	}

	c.queue = append(c.queue, id)
	return JoinOutcome{Queued: true}
}

// BotMatchAllowed reports whether a bot match may be started: the queue
// must be empty and no human already sits opposite an open seat.
func (c *Controller) BotMatchAllowed() bool {
	if len(c.queue) > 0 {
		return false
	}
	return c.White == nil || c.Black == nil
}

// StartBotMatch seats a bot in the empty colour (random if both empty), and
// returns which colour the bot took plus whether it moves first (White).
func (c *Controller) StartBotMatch(bot Identity, rng *rand.Rand) (colour board.Colour, botMovesFirst bool) {
	bot.IsBot = true
	switch {
	case c.White == nil && c.Black == nil:
		if rng.Intn(2) == 0 {
			colour = board.White
		} else {
			colour = board.Black
		}
	case c.White == nil:
		colour = board.White
	default:
		colour = board.Black
	}
	*c.seatByColour(colour) = &Seat{Identity: bot}
	return colour, colour == board.White
}

// Rotate applies King-of-the-Hill rotation after a Terminal match: the
// winner retains their seat as White; the loser is appended to the queue
// tail; the queue's previous head becomes Black. If the queue was empty,
// both participants rematch with the winner as White.
func (c *Controller) Rotate(winner board.Colour) {
	winnerSeat := *c.seatByColour(winner)
	loserSeat := *c.seatByColour(winner.Opponent())

	if winnerSeat != nil {
		winnerSeat.Wins++
	}

	var next *Seat
	if len(c.queue) > 0 {
		head := c.queue[0]
		c.queue = c.queue[1:]
		next = &Seat{Identity: head}
		if loserSeat != nil && !loserSeat.Identity.IsBot {
			c.queue = append(c.queue, loserSeat.Identity)
		}
	} else {
		next = loserSeat
	}

	c.White = winnerSeat
	c.Black = next
}

// Disconnect removes sessionID from wherever it sits, per §4.6: a seated
// human disconnecting during an active match forfeits (caller applies the
// forfeit against match.State before calling this); a bot-match human
// disconnecting tears down both seats. Disconnect also prunes the queue.
func (c *Controller) Disconnect(sessionID string) (colour board.Colour, wasSeated bool) {
	if c.White != nil && c.White.Identity.SessionID == sessionID {
		colour = board.White
		wasSeated = true
		if c.Black != nil && c.Black.Identity.IsBot {
			c.White, c.Black = nil, nil
		} else {
			c.White = nil
		}
		return colour, wasSeated
	}
	if c.Black != nil && c.Black.Identity.SessionID == sessionID {
		colour = board.Black
		wasSeated = true
		if c.White != nil && c.White.Identity.IsBot {
			c.White, c.Black = nil, nil
		} else {
			c.Black = nil
		}
		return colour, wasSeated
	}

	for i, id := range c.queue {
		if id.SessionID == sessionID {
			c.queue = append(c.queue[:i], c.queue[i+1:]...)
			break
		}
	}
	return "", false
}

// TearDownBotMatch clears both seats, used when the human in a bot match
// disconnects.
func (c *Controller) TearDownBotMatch() {
	c.White, c.Black = nil, nil
}
