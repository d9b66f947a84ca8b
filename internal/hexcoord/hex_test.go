package hexcoord

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNeighbourRoundTrip(t *testing.T) {
	origin := New(0, 0)
	for dir := 0; dir < 6; dir++ {
		n := Neighbour(origin, dir)
		assert.True(t, AreNeighbours(origin, n), "direction %d should be adjacent to origin", dir)
		assert.Equal(t, 1, Distance(origin, n))
	}
}

func TestNeighboursCoversAllSixDirections(t *testing.T) {
	origin := New(2, -3)
	ns := Neighbours(origin)
	seen := map[Key]bool{}
	for _, n := range ns {
		seen[n.AsKey()] = true
	}
	assert.Len(t, seen, 6)
}

func TestDistance(t *testing.T) {
	a := New(0, 0)
	b := New(3, -1)
	assert.Equal(t, 3, Distance(a, b))
}

func TestInBounds(t *testing.T) {
	assert.True(t, InBounds(New(50, -50)))
	assert.False(t, InBounds(New(51, 0)))
	assert.False(t, InBounds(New(0, -51)))
}

func TestStringParseRoundTrip(t *testing.T) {
	h := New(-4, 7)
	s := h.String()
	assert.Equal(t, "-4,7", s)

	parsed, err := Parse(s)
	require.NoError(t, err)
	assert.Equal(t, h, parsed)
}

func TestParseRejectsMalformed(t *testing.T) {
	cases := []string{"", "1", "1,2,3", "a,b", "1,", ",1"}
	for _, c := range cases {
		_, err := Parse(c)
		assert.Error(t, err, "expected error for %q", c)
	}
}

func TestParseRejectsOutOfBounds(t *testing.T) {
	_, err := Parse("51,0")
	assert.Error(t, err)
}
