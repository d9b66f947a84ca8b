package ws

import (
	"fmt"

	"github.com/hiveserver/hiveserver/internal/board"
	"github.com/hiveserver/hiveserver/internal/hexcoord"
	"github.com/hiveserver/hiveserver/internal/match"
)

// decodeAction turns a game_action payload into an internal/match.Action.
// Coordinates are parsed and bounds-checked here, per internal/match's own
// comment that its Action fields are always in-bounds by the time they
// arrive — this is the boundary that guarantee holds at. senderColour is the
// sender's seated colour, used to enforce §4.5 rule 3: a piece colour, when
// present on the wire, must agree with the sender's own colour.
func decodeAction(m map[string]interface{}, senderColour board.Colour) (match.Action, error) {
	kind := stringField(m, "type")
	switch kind {
	case "PLACE":
		piece := mapField(m, "piece")
		species := board.Species(stringField(piece, "type"))
		if colour := stringField(piece, "color"); colour != "" && board.Colour(colour) != senderColour {
			return match.Action{}, fmt.Errorf("ws: piece colour %q does not match sender colour %q", colour, senderColour)
		}
		h, err := hexcoord.Parse(stringField(m, "hex"))
		if err != nil {
			return match.Action{}, err
		}
		return match.Action{Type: match.ActionPlace, Species: species, Hex: h}, nil
	case "MOVE":
		from, err := hexcoord.Parse(stringField(m, "from"))
		if err != nil {
			return match.Action{}, err
		}
		to, err := hexcoord.Parse(stringField(m, "to"))
		if err != nil {
			return match.Action{}, err
		}
		return match.Action{Type: match.ActionMove, From: from, To: to}, nil
	default:
		return match.Action{}, fmt.Errorf("ws: unrecognised game_action type %q", kind)
	}
}
