package board

import (
	"sort"

	"github.com/hiveserver/hiveserver/internal/hexcoord"
)

// Cell is a non-empty ordered stack of pieces at one coordinate. The last
// element is the top: the only one visible to adjacency and placement
// queries. Only a Beetle may sit above another piece.
type Cell struct {
	Stack []Piece
}

// Top returns the visible piece of the cell.
func (c Cell) Top() Piece {
	return c.Stack[len(c.Stack)-1]
}

// Board maps coordinates to non-empty cells. The zero value is an empty
// board, ready to use.
type Board struct {
	cells map[hexcoord.Key]*Cell
}

// New returns an empty board.
func New() *Board {
	return &Board{cells: make(map[hexcoord.Key]*Cell)}
}

// Get returns the cell at h and whether one exists.
func (b *Board) Get(h hexcoord.Hex) (Cell, bool) {
	c, ok := b.cells[h.AsKey()]
	if !ok {
		return Cell{}, false
	}
	return *c, true
}

// IsOccupied reports whether any piece sits at h.
func (b *Board) IsOccupied(h hexcoord.Hex) bool {
	_, ok := b.cells[h.AsKey()]
	return ok
}

// TopAt returns the top piece at h, if any.
func (b *Board) TopAt(h hexcoord.Hex) (Piece, bool) {
	c, ok := b.cells[h.AsKey()]
	if !ok {
		return Piece{}, false
	}
	return c.Top(), true
}

// Push places p on top of the stack at h, creating the cell if needed. Only
// a Beetle may land on an already-occupied cell; the caller (the rule
// engine) is responsible for enforcing that before calling Push.
func (b *Board) Push(h hexcoord.Hex, p Piece) {
	key := h.AsKey()
	c, ok := b.cells[key]
	if !ok {
		b.cells[key] = &Cell{Stack: []Piece{p}}
		return
	}
	c.Stack = append(c.Stack, p)
}

// PopTop removes and returns the top piece at h. The cell is deleted once
// its stack empties, so empty cells are never represented.
func (b *Board) PopTop(h hexcoord.Hex) (Piece, bool) {
	key := h.AsKey()
	c, ok := b.cells[key]
	if !ok {
		return Piece{}, false
	}
	n := len(c.Stack)
	p := c.Stack[n-1]
	c.Stack = c.Stack[:n-1]
	if len(c.Stack) == 0 {
		delete(b.cells, key)
	}
	return p, true
}

// StackHeight returns the number of pieces stacked at h.
func (b *Board) StackHeight(h hexcoord.Hex) int {
	c, ok := b.cells[h.AsKey()]
	if !ok {
		return 0
	}
	return len(c.Stack)
}

// Occupied returns every occupied coordinate, order unspecified.
func (b *Board) Occupied() []hexcoord.Hex {
	out := make([]hexcoord.Hex, 0, len(b.cells))
	for k := range b.cells {
		out = append(out, hexcoord.New(k.Q, k.R))
	}
	return out
}

// Len returns the number of occupied cells.
func (b *Board) Len() int { return len(b.cells) }

// OrderedEntry pairs a coordinate with its cell for deterministic snapshots.
type OrderedEntry struct {
	Hex  hexcoord.Hex
	Cell Cell
}

// Ordered returns every occupied cell sorted by (Q, R), the encoding order
// the wire snapshot schema requires.
func (b *Board) Ordered() []OrderedEntry {
	out := make([]OrderedEntry, 0, len(b.cells))
	for k, c := range b.cells {
		out = append(out, OrderedEntry{Hex: hexcoord.New(k.Q, k.R), Cell: *c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Hex.Q != out[j].Hex.Q {
			return out[i].Hex.Q < out[j].Hex.Q
		}
		return out[i].Hex.R < out[j].Hex.R
	})
	return out
}

// IsHiveConnected reports whether the occupied coordinates, minus an
// optional coordinate treated as vacated, form a single connected
// component under hex adjacency. Empty and singleton sets are trivially
// connected. This is a fresh breadth-first traversal every call: the hive's
// topology can change on any move, so a cached result would be unsafe.
func (b *Board) IsHiveConnected(ignoring *hexcoord.Hex) bool {
	active := make(map[hexcoord.Key]bool, len(b.cells))
	for k := range b.cells {
		active[k] = true
	}
	if ignoring != nil {
		delete(active, ignoring.AsKey())
	}
	if len(active) <= 1 {
		return true
	}

	var start hexcoord.Key
	for k := range active {
		start = k
		break
	}

	visited := map[hexcoord.Key]bool{start: true}
	queue := []hexcoord.Hex{hexcoord.New(start.Q, start.R)}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, n := range hexcoord.Neighbours(cur) {
			key := n.AsKey()
			if !active[key] || visited[key] {
				continue
			}
			visited[key] = true
			queue = append(queue, n)
		}
	}
	return len(visited) == len(active)
}

// Clone returns a deep copy, used by the bot's search to explore moves
// without mutating the live board.
func (b *Board) Clone() *Board {
	out := New()
	for k, c := range b.cells {
		stack := make([]Piece, len(c.Stack))
		copy(stack, c.Stack)
		out.cells[k] = &Cell{Stack: stack}
	}
	return out
}
