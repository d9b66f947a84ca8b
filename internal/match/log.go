package match

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/hiveserver/hiveserver/internal/board"
	"github.com/hiveserver/hiveserver/internal/hexcoord"
)

// newPieceID mints a stable piece identifier, minted once per placement.
// The pack widely uses google/uuid for entity identifiers (piece IDs here,
// session/room IDs in internal/ws); a raw incrementing counter would not
// survive a future multi-match-instance deployment the way a UUID does.
func newPieceID() string {
	return uuid.NewString()
}

func placeLogLine(colour board.Colour, species board.Species, h hexcoord.Hex) string {
	return fmt.Sprintf("%s placed %s at %s", colour, species, h)
}

func moveLogLine(colour board.Colour, from, to hexcoord.Hex) string {
	return fmt.Sprintf("%s moved %s -> %s", colour, from, to)
}
