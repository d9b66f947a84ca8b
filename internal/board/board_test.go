package board

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hiveserver/hiveserver/internal/hexcoord"
)

func TestPushPopEmptiesCell(t *testing.T) {
	b := New()
	h := hexcoord.New(0, 0)
	b.Push(h, Piece{ID: "1", Species: Queen, Colour: White})
	assert.True(t, b.IsOccupied(h))

	p, ok := b.PopTop(h)
	require.True(t, ok)
	assert.Equal(t, Queen, p.Species)
	assert.False(t, b.IsOccupied(h), "cell must be removed once its stack empties")
}

func TestBeetleStackTopVisibility(t *testing.T) {
	b := New()
	h := hexcoord.New(0, 0)
	b.Push(h, Piece{ID: "1", Species: Queen, Colour: Black})
	b.Push(h, Piece{ID: "2", Species: Beetle, Colour: White})

	top, ok := b.TopAt(h)
	require.True(t, ok)
	assert.Equal(t, Beetle, top.Species)
	assert.Equal(t, White, top.Colour)
	assert.Equal(t, 2, b.StackHeight(h))

	popped, _ := b.PopTop(h)
	assert.Equal(t, Beetle, popped.Species)
	top2, _ := b.TopAt(h)
	assert.Equal(t, Queen, top2.Species)
}

func TestIsHiveConnectedEmptyAndSingleton(t *testing.T) {
	b := New()
	assert.True(t, b.IsHiveConnected(nil))

	b.Push(hexcoord.New(0, 0), Piece{ID: "1", Species: Ant, Colour: White})
	assert.True(t, b.IsHiveConnected(nil))
}

func TestIsHiveConnectedDetectsSplit(t *testing.T) {
	b := New()
	b.Push(hexcoord.New(0, 0), Piece{ID: "1", Species: Ant, Colour: White})
	b.Push(hexcoord.New(5, 5), Piece{ID: "2", Species: Ant, Colour: Black})
	assert.False(t, b.IsHiveConnected(nil))
}

func TestIsHiveConnectedIgnoringCoordinate(t *testing.T) {
	b := New()
	a := hexcoord.New(0, 0)
	mid := hexcoord.New(1, 0)
	c := hexcoord.New(2, 0)
	b.Push(a, Piece{ID: "1", Species: Ant, Colour: White})
	b.Push(mid, Piece{ID: "2", Species: Ant, Colour: Black})
	b.Push(c, Piece{ID: "3", Species: Ant, Colour: White})

	assert.True(t, b.IsHiveConnected(nil))
	assert.False(t, b.IsHiveConnected(&mid), "removing the bridging cell should disconnect the hive")
}

func TestOrderedIsSortedByQThenR(t *testing.T) {
	b := New()
	b.Push(hexcoord.New(2, -1), Piece{ID: "1", Species: Ant, Colour: White})
	b.Push(hexcoord.New(0, 0), Piece{ID: "2", Species: Ant, Colour: White})
	b.Push(hexcoord.New(0, -1), Piece{ID: "3", Species: Ant, Colour: White})

	ordered := b.Ordered()
	require.Len(t, ordered, 3)
	assert.Equal(t, hexcoord.New(0, -1), ordered[0].Hex)
	assert.Equal(t, hexcoord.New(0, 0), ordered[1].Hex)
	assert.Equal(t, hexcoord.New(2, -1), ordered[2].Hex)
}

func TestCloneIsIndependent(t *testing.T) {
	b := New()
	h := hexcoord.New(0, 0)
	b.Push(h, Piece{ID: "1", Species: Queen, Colour: White})

	clone := b.Clone()
	clone.Push(h, Piece{ID: "2", Species: Beetle, Colour: White})

	assert.Equal(t, 1, b.StackHeight(h))
	assert.Equal(t, 2, clone.StackHeight(h))
}

func TestHandTakeNeverGoesNegative(t *testing.T) {
	h := NewHand()
	assert.Equal(t, 1, h.Count(Queen))
	assert.True(t, h.Take(Queen))
	assert.Equal(t, 0, h.Count(Queen))
	assert.False(t, h.Take(Queen))
	assert.Equal(t, 0, h.Count(Queen))
}

func TestHandSumsToEleven(t *testing.T) {
	h := NewHand()
	total := 0
	for _, s := range AllSpecies {
		total += h.Count(s)
	}
	assert.Equal(t, 11, total)
}
