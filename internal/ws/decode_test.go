package ws

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hiveserver/hiveserver/internal/board"
	"github.com/hiveserver/hiveserver/internal/hexcoord"
	"github.com/hiveserver/hiveserver/internal/match"
)

func TestDecodeActionPlaceMatchesDocumentedUppercaseType(t *testing.T) {
	payload := map[string]interface{}{
		"type": "PLACE",
		"piece": map[string]interface{}{
			"type":  "QUEEN",
			"color": "WHITE",
		},
		"hex": "0,0",
	}

	action, err := decodeAction(payload, board.White)
	require.NoError(t, err)
	assert.Equal(t, match.ActionPlace, action.Type)
	assert.Equal(t, board.Queen, action.Species)
	assert.Equal(t, hexcoord.New(0, 0), action.Hex)
}

func TestDecodeActionMoveMatchesDocumentedUppercaseType(t *testing.T) {
	payload := map[string]interface{}{
		"type": "MOVE",
		"from": "0,0",
		"to":   "1,0",
	}

	action, err := decodeAction(payload, board.Black)
	require.NoError(t, err)
	assert.Equal(t, match.ActionMove, action.Type)
	assert.Equal(t, hexcoord.New(0, 0), action.From)
	assert.Equal(t, hexcoord.New(1, 0), action.To)
}

func TestDecodeActionRejectsLowercaseType(t *testing.T) {
	payload := map[string]interface{}{
		"type": "place",
		"piece": map[string]interface{}{
			"type":  "QUEEN",
			"color": "WHITE",
		},
		"hex": "0,0",
	}

	_, err := decodeAction(payload, board.White)
	assert.Error(t, err)
}

func TestDecodeActionRejectsPieceColourMismatchedWithSender(t *testing.T) {
	payload := map[string]interface{}{
		"type": "PLACE",
		"piece": map[string]interface{}{
			"type":  "QUEEN",
			"color": "BLACK",
		},
		"hex": "0,0",
	}

	_, err := decodeAction(payload, board.White)
	assert.Error(t, err)
}

func TestDecodeActionAllowsPieceColourOmitted(t *testing.T) {
	payload := map[string]interface{}{
		"type": "PLACE",
		"piece": map[string]interface{}{
			"type": "QUEEN",
		},
		"hex": "0,0",
	}

	action, err := decodeAction(payload, board.White)
	require.NoError(t, err)
	assert.Equal(t, board.Queen, action.Species)
}
