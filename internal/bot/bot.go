package bot

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/hiveserver/hiveserver/internal/board"
)

// suspensionWarningThreshold is §4.7's 5-second synchronous-compute guard.
const suspensionWarningThreshold = 5 * time.Second

// Play runs the search synchronously and returns the chosen candidate. If
// the search takes longer than the suspension warning threshold, a warning
// is logged — the search still runs to completion; depth is not lowered by
// this implementation (§4.7 notes that as a possible future variant).
func Play(logger zerolog.Logger, pos Position, botColour board.Colour, turnNumber, depth int) Result {
	start := time.Now()
	result := Search(pos, botColour, turnNumber, depth)
	if elapsed := time.Since(start); elapsed > suspensionWarningThreshold {
		logger.Warn().
			Dur("elapsed", elapsed).
			Int("depth", depth).
			Str("colour", string(botColour)).
			Msg("bot search exceeded suspension threshold")
	}
	return result
}
