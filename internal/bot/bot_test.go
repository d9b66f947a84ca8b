package bot

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"

	"github.com/hiveserver/hiveserver/internal/board"
	"github.com/hiveserver/hiveserver/internal/hexcoord"
)

func emptyPosition() Position {
	return Position{
		Board:       board.New(),
		Hands:       map[board.Colour]board.Hand{board.White: board.NewHand(), board.Black: board.NewHand()},
		QueenPlaced: map[board.Colour]bool{},
	}
}

func TestSearchOpeningPlacesSomewhereLegal(t *testing.T) {
	pos := emptyPosition()
	result := Search(pos, board.White, 1, DefaultDepth)
	require.True(t, result.Found)
	assert.Equal(t, KindPlace, result.Candidate.Kind)
	assert.Equal(t, hexcoord.New(0, 0), result.Candidate.Hex, "first placement on an empty board must be the origin")
}

func TestSearchForcesQueenOnFourthPersonalTurn(t *testing.T) {
	pos := emptyPosition()
	pos.Board.Push(hexcoord.New(0, 0), board.Piece{ID: "w1", Species: board.Ant, Colour: board.White})
	pos.Board.Push(hexcoord.New(1, 0), board.Piece{ID: "b1", Species: board.Ant, Colour: board.Black})
	pos.Board.Push(hexcoord.New(-1, 0), board.Piece{ID: "w2", Species: board.Ant, Colour: board.White})
	pos.Board.Push(hexcoord.New(2, 0), board.Piece{ID: "b2", Species: board.Ant, Colour: board.Black})
	pos.Board.Push(hexcoord.New(0, -1), board.Piece{ID: "w3", Species: board.Ant, Colour: board.White})
	pos.Hands[board.White].Take(board.Ant)
	pos.Hands[board.White].Take(board.Ant)
	pos.Hands[board.White].Take(board.Ant)
	pos.Hands[board.Black].Take(board.Ant)
	pos.Hands[board.Black].Take(board.Ant)

	// White's 4th personal turn is turnNumber 7 (personalTurnIndex = (7+1)/2 = 4).
	result := Search(pos, board.White, 7, DefaultDepth)
	require.True(t, result.Found)
	assert.Equal(t, KindPlace, result.Candidate.Kind)
	assert.Equal(t, board.Queen, result.Candidate.Species)
}

func TestGenerateMovesExcludesMovesBeforeQueenPlaced(t *testing.T) {
	pos := emptyPosition()
	pos.Board.Push(hexcoord.New(0, 0), board.Piece{ID: "w1", Species: board.Ant, Colour: board.White})
	pos.Hands[board.White].Take(board.Ant)

	candidates := generateMoves(pos, board.White, 3)
	for _, c := range candidates {
		assert.NotEqual(t, KindMove, c.Kind, "no piece may move before its Queen is placed")
	}
}

func TestEvaluateFavoursSurroundedEnemyQueen(t *testing.T) {
	pos := emptyPosition()
	blackQueenAt := hexcoord.New(0, 0)
	pos.Board.Push(blackQueenAt, board.Piece{ID: "bq", Species: board.Queen, Colour: board.Black})
	pos.Board.Push(hexcoord.New(5, 5), board.Piece{ID: "wq", Species: board.Queen, Colour: board.White})
	pos.QueenPlaced[board.Black] = true
	pos.QueenPlaced[board.White] = true
	for dir := 0; dir < 6; dir++ {
		pos.Board.Push(hexcoord.Neighbour(blackQueenAt, dir), board.Piece{ID: "w", Species: board.Ant, Colour: board.White})
	}

	scoreSurrounded := evaluate(pos, board.White)

	pos2 := emptyPosition()
	pos2.Board.Push(blackQueenAt, board.Piece{ID: "bq", Species: board.Queen, Colour: board.Black})
	pos2.Board.Push(hexcoord.New(5, 5), board.Piece{ID: "wq", Species: board.Queen, Colour: board.White})
	pos2.QueenPlaced[board.Black] = true
	pos2.QueenPlaced[board.White] = true
	scoreOpen := evaluate(pos2, board.White)

	assert.Greater(t, scoreSurrounded, scoreOpen)
}

func TestBotVsBotReachesTerminalWithinBoundedTurns(t *testing.T) {
	pos := emptyPosition()
	current := board.White
	logger := zerolog.Nop()

	const maxTurns = 200
	turn := 1
	for ; turn <= maxTurns; turn++ {
		result := Play(logger, pos, current, turn, 1)
		if !result.Found {
			break
		}
		pos = apply(pos, current, result.Candidate)
		if surrounded(pos, board.White) || surrounded(pos, board.Black) {
			break
		}
		current = current.Opponent()
	}
	assert.Less(t, turn, maxTurns, "a bot-vs-bot match should reach a terminal-ish state well within the turn cap")
}

func surrounded(pos Position, colour board.Colour) bool {
	q, ok := findQueenHex(pos, colour)
	if !ok {
		return false
	}
	_, occupied := neighbourOccupancy(pos, q)
	return occupied == 6
}

func TestSchedulerArmFiresWithinBounds(t *testing.T) {
	bounds := DelayBounds{Min: 5 * time.Millisecond, Max: 15 * time.Millisecond}
	s := NewScheduler(bounds, rand.New(rand.NewSource(1)))

	done := make(chan struct{})
	start := time.Now()
	s.Arm(func() { close(done) })

	select {
	case <-done:
		elapsed := time.Since(start)
		assert.GreaterOrEqual(t, elapsed, bounds.Min)
	case <-time.After(200 * time.Millisecond):
		t.Fatal("scheduler never fired")
	}
}

func TestSchedulerCancelPreventsFire(t *testing.T) {
	bounds := DelayBounds{Min: 5 * time.Millisecond, Max: 10 * time.Millisecond}
	s := NewScheduler(bounds, rand.New(rand.NewSource(1)))

	fired := false
	s.Arm(func() { fired = true })
	s.Cancel()

	time.Sleep(30 * time.Millisecond)
	assert.False(t, fired, "cancelling before the delay elapses must suppress the callback")
}
