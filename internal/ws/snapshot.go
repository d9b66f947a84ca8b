package ws

import (
	"time"

	"github.com/hiveserver/hiveserver/internal/board"
	"github.com/hiveserver/hiveserver/internal/hexcoord"
	"github.com/hiveserver/hiveserver/internal/match"
	"github.com/hiveserver/hiveserver/internal/seating"
)

// Snapshot is the full broadcast state, matching the wire schema documented
// in §6: board as an ordered (coordinate, cell) sequence, both seats under
// players, the queue as display names only, remaining clock seconds, the
// accumulated log, and the winner if any. Snapshots are self-contained and
// idempotent to replay.
type Snapshot struct {
	Phase         string           `json:"phase"`
	Winner        *string          `json:"winner"`
	TurnNumber    int              `json:"turnNumber"`
	CurrentPlayer string           `json:"currentPlayer"`
	TimeLeft      int              `json:"timeLeft"`
	Board         []BoardEntry     `json:"board"`
	Players       map[string]*Seat `json:"players"`
	Queue         []string         `json:"queue"`
	Log           []string         `json:"log"`
}

// BoardEntry is one occupied coordinate paired with its cell, encoded as the
// ["q,r", cell] tuple §6 documents.
type BoardEntry [2]interface{}

// BoardCell is a BoardEntry's second element: the coordinate restated as a
// {q,r,s} object plus the base-first piece stack.
type BoardCell struct {
	Hex   HexCoord    `json:"hex"`
	Stack []PieceInfo `json:"stack"`
}

// HexCoord is the wire-facing cubic coordinate object.
type HexCoord struct {
	Q int `json:"q"`
	R int `json:"r"`
	S int `json:"s"`
}

// PieceInfo is the wire-facing shape of a single placed piece.
type PieceInfo struct {
	ID    string `json:"id"`
	Type  string `json:"type"`
	Color string `json:"color"`
}

// Seat is the wire-facing shape of one occupied colour seat. A vacant seat
// is a nil *Seat, marshalling to JSON null per §6.
type Seat struct {
	ID       string         `json:"id"`
	Nickname string         `json:"nickname"`
	Hand     map[string]int `json:"hand"`
	Wins     int            `json:"wins"`
	IsBot    bool           `json:"isBot,omitempty"`
}

// BuildSnapshot assembles the broadcast snapshot from the live match state
// and seating controller. Callers hold the engine's exclusive access at call
// time, so no locking is needed here.
func BuildSnapshot(s *match.State, seats *seating.Controller, now time.Time, budget time.Duration) Snapshot {
	snap := Snapshot{
		Phase:         string(s.Phase),
		Winner:        winnerField(s.Winner),
		TurnNumber:    s.TurnNumber,
		CurrentPlayer: string(s.Current),
		TimeLeft:      s.SecondsRemaining(now, budget),
		Queue:         seats.QueueNames(),
		Log:           s.Log,
		Players:       map[string]*Seat{},
	}

	for _, entry := range s.Board.Ordered() {
		cell := BoardCell{Hex: hexObject(entry.Hex)}
		for _, p := range entry.Cell.Stack {
			cell.Stack = append(cell.Stack, PieceInfo{ID: p.ID, Type: string(p.Species), Color: string(p.Colour)})
		}
		snap.Board = append(snap.Board, BoardEntry{entry.Hex.String(), cell})
	}

	snap.Players[string(board.White)] = seatSnapshot(seats.White, s.Hands[board.White])
	snap.Players[string(board.Black)] = seatSnapshot(seats.Black, s.Hands[board.Black])

	return snap
}

func hexObject(h hexcoord.Hex) HexCoord {
	return HexCoord{Q: h.Q, R: h.R, S: h.S}
}

func winnerField(w match.Winner) *string {
	if w == match.NoWinner {
		return nil
	}
	s := string(w)
	return &s
}

func seatSnapshot(seat *seating.Seat, hand board.Hand) *Seat {
	if seat == nil {
		return nil
	}
	out := &Seat{
		ID:       seat.Identity.SessionID,
		Nickname: seat.Identity.Nickname,
		Wins:     seat.Wins,
		IsBot:    seat.Identity.IsBot,
	}
	if hand != nil {
		out.Hand = map[string]int{}
		for _, sp := range board.AllSpecies {
			out.Hand[string(sp)] = hand.Count(sp)
		}
	}
	return out
}

func (s Snapshot) toMsg() Msg {
	m := map[string]interface{}{
		"phase":         s.Phase,
		"winner":        s.Winner,
		"turnNumber":    s.TurnNumber,
		"currentPlayer": s.CurrentPlayer,
		"timeLeft":      s.TimeLeft,
		"board":         s.Board,
		"players":       s.Players,
		"queue":         s.Queue,
		"log":           s.Log,
	}
	return Msg{T: msgState, M: m}
}
