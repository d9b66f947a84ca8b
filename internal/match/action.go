package match

import (
	"github.com/hiveserver/hiveserver/internal/board"
	"github.com/hiveserver/hiveserver/internal/hexcoord"
)

// ActionType names the three external actions the wire protocol accepts.
type ActionType string

const (
	ActionPlace   ActionType = "PLACE"
	ActionMove    ActionType = "MOVE"
	ActionForfeit ActionType = "FORFEIT"
)

// Action is the internal, already-decoded form of a client action message.
// Coordinate bounds are enforced at decode time (internal/ws), so a
// received Action's Hex/From/To are always in-bounds Hex values.
type Action struct {
	Type    ActionType
	Species board.Species
	Hex     hexcoord.Hex
	From    hexcoord.Hex
	To      hexcoord.Hex
}
