// Package rules implements Hive placement legality and per-species movement
// generation over a board.Board: the One-Hive, Freedom-to-Move,
// Queen-opening, and Beetle-stacking constraints.
package rules

import (
	"github.com/hiveserver/hiveserver/internal/board"
	"github.com/hiveserver/hiveserver/internal/hexcoord"
)

// Engine evaluates move legality against a single board. It holds no state
// of its own beyond the board reference; callers own turn/hand bookkeeping.
type Engine struct {
	Board *board.Board
}

// New wraps b in a rule Engine.
func New(b *board.Board) *Engine {
	return &Engine{Board: b}
}

// ValidPlacements returns the coordinates where colour may place a new
// piece, per the three cases in the placement legality rule.
func (e *Engine) ValidPlacements(colour board.Colour) []hexcoord.Hex {
	if e.Board.Len() == 0 {
		return []hexcoord.Hex{hexcoord.New(0, 0)}
	}

	if !e.hasColourOnBoard(colour) {
		return e.emptyNeighboursOfAnyOccupied()
	}

	seen := map[hexcoord.Key]bool{}
	var out []hexcoord.Hex
	for _, h := range e.Board.Occupied() {
		top, _ := e.Board.TopAt(h)
		if top.Colour != colour {
			continue
		}
		for _, n := range hexcoord.Neighbours(h) {
			key := n.AsKey()
			if e.Board.IsOccupied(n) || seen[key] {
				continue
			}
			if e.touchesOpposingTop(n, colour) {
				continue
			}
			seen[key] = true
			out = append(out, n)
		}
	}
	return out
}

func (e *Engine) hasColourOnBoard(colour board.Colour) bool {
	for _, h := range e.Board.Occupied() {
		top, _ := e.Board.TopAt(h)
		if top.Colour == colour {
			return true
		}
	}
	return false
}

func (e *Engine) emptyNeighboursOfAnyOccupied() []hexcoord.Hex {
	seen := map[hexcoord.Key]bool{}
	var out []hexcoord.Hex
	for _, h := range e.Board.Occupied() {
		for _, n := range hexcoord.Neighbours(h) {
			key := n.AsKey()
			if e.Board.IsOccupied(n) || seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, n)
		}
	}
	return out
}

// touchesOpposingTop reports whether h is adjacent to any occupied cell
// whose top piece belongs to the opposing colour.
func (e *Engine) touchesOpposingTop(h hexcoord.Hex, colour board.Colour) bool {
	for _, n := range hexcoord.Neighbours(h) {
		top, ok := e.Board.TopAt(n)
		if ok && top.Colour != colour {
			return true
		}
	}
	return false
}

// slideGateOpen implements the Freedom-to-Move check for a ground-level
// slide from a to b: forbidden if both common neighbours of a and b are
// occupied. occupied is a predicate so beetle-stack removal semantics can be
// substituted by callers exploring "source treated as empty".
func slideGateOpen(a, b hexcoord.Hex, occupied func(hexcoord.Hex) bool) bool {
	blocked := 0
	for _, n := range hexcoord.Neighbours(a) {
		if !hexcoord.AreNeighbours(n, b) {
			continue
		}
		if occupied(n) {
			blocked++
		}
	}
	return blocked < 2
}

// touchesHiveOtherThan reports whether h is adjacent to an occupied cell
// other than source (source is treated specially since the moving piece is
// mid-slide away from it).
func touchesHiveOtherThan(h, source hexcoord.Hex, occupied func(hexcoord.Hex) bool) bool {
	for _, n := range hexcoord.Neighbours(h) {
		if n.AsKey() == source.AsKey() {
			continue
		}
		if occupied(n) {
			return true
		}
	}
	return false
}

// groundSlideSteps returns every empty coordinate reachable from source by
// one legal ground-level slide step, treating source itself as vacated.
func (e *Engine) groundSlideSteps(source hexcoord.Hex) []hexcoord.Hex {
	occupied := func(h hexcoord.Hex) bool {
		if h.AsKey() == source.AsKey() {
			return false
		}
		return e.Board.IsOccupied(h)
	}

	var out []hexcoord.Hex
	for _, n := range hexcoord.Neighbours(source) {
		if occupied(n) {
			continue
		}
		if !slideGateOpen(source, n, occupied) {
			continue
		}
		if !touchesHiveOtherThan(n, source, occupied) {
			continue
		}
		out = append(out, n)
	}
	return out
}

// PieceMoves returns the destinations a piece at `from` may move to, per
// its species' rule. It returns nil if the source cell is empty.
func (e *Engine) PieceMoves(from hexcoord.Hex) []hexcoord.Hex {
	cell, ok := e.Board.Get(from)
	if !ok {
		return nil
	}
	top := cell.Top()

	if len(cell.Stack) == 1 && !e.Board.IsHiveConnected(&from) {
		return nil
	}

	switch top.Species {
	case board.Queen:
		return e.groundSlideSteps(from)
	case board.Ant:
		return e.antMoves(from)
	case board.Spider:
		return e.spiderMoves(from)
	case board.Beetle:
		return e.beetleMoves(from)
	case board.Grasshopper:
		return e.grasshopperMoves(from)
	default:
		return nil
	}
}

// antMoves explores the full slide perimeter breadth-first: any coordinate
// reachable through a chain of legal ground slide steps.
func (e *Engine) antMoves(from hexcoord.Hex) []hexcoord.Hex {
	visited := map[hexcoord.Key]bool{from.AsKey(): true}
	queue := []hexcoord.Hex{from}
	var out []hexcoord.Hex

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, step := range e.groundSlideStepsFrom(from, cur) {
			key := step.AsKey()
			if visited[key] {
				continue
			}
			visited[key] = true
			out = append(out, step)
			queue = append(queue, step)
		}
	}
	return out
}

// groundSlideStepsFrom computes legal slide steps from `cur`, while treating
// the original source (not `cur`) as the vacated cell throughout the walk —
// the piece never actually occupies intermediate cells.
func (e *Engine) groundSlideStepsFrom(source, cur hexcoord.Hex) []hexcoord.Hex {
	occupied := func(h hexcoord.Hex) bool {
		if h.AsKey() == source.AsKey() {
			return false
		}
		return e.Board.IsOccupied(h)
	}

	var out []hexcoord.Hex
	for _, n := range hexcoord.Neighbours(cur) {
		if occupied(n) {
			continue
		}
		if !slideGateOpen(cur, n, occupied) {
			continue
		}
		if !touchesHiveOtherThan(n, source, occupied) {
			continue
		}
		out = append(out, n)
	}
	return out
}

// spiderMoves enumerates all length-three sliding walks with no revisits
// within a path, returning the distinct endpoints.
func (e *Engine) spiderMoves(from hexcoord.Hex) []hexcoord.Hex {
	endpoints := map[hexcoord.Key]bool{}
	visited := map[hexcoord.Key]bool{from.AsKey(): true}
	e.spiderWalk(from, from, visited, 0, endpoints)

	out := make([]hexcoord.Hex, 0, len(endpoints))
	for k := range endpoints {
		out = append(out, hexcoord.New(k.Q, k.R))
	}
	return out
}

func (e *Engine) spiderWalk(source, cur hexcoord.Hex, visited map[hexcoord.Key]bool, depth int, endpoints map[hexcoord.Key]bool) {
	if depth == 3 {
		endpoints[cur.AsKey()] = true
		return
	}
	for _, step := range e.groundSlideStepsFrom(source, cur) {
		key := step.AsKey()
		if visited[key] {
			continue
		}
		visited[key] = true
		e.spiderWalk(source, step, visited, depth+1, endpoints)
		delete(visited, key)
	}
}

// beetleMoves returns the one-step destinations: empty cells reachable by a
// slide, or any occupied neighbour (a climb, which the Freedom-to-Move gate
// does not restrict).
func (e *Engine) beetleMoves(from hexcoord.Hex) []hexcoord.Hex {
	// A beetle climbing off a stack (height > 1) leaves the base piece
	// behind, so the source hex still counts as occupied for the gate check;
	// only a ground beetle (height 1) truly vacates it. The hive-contact check
	// excludes the source hex in both cases.
	sourceStaysOccupied := e.Board.StackHeight(from) > 1
	occupied := func(h hexcoord.Hex) bool {
		if h.AsKey() == from.AsKey() {
			return sourceStaysOccupied
		}
		return e.Board.IsOccupied(h)
	}

	var out []hexcoord.Hex
	for _, n := range hexcoord.Neighbours(from) {
		if occupied(n) {
			out = append(out, n) // climb
			continue
		}
		if !slideGateOpen(from, n, occupied) {
			continue
		}
		if !touchesHiveOtherThan(n, from, occupied) {
			continue
		}
		out = append(out, n)
	}
	return out
}

// grasshopperMoves jumps, per direction, over one or more contiguous
// occupied cells to the first empty cell beyond. A direction whose
// immediate neighbour is empty yields no move.
func (e *Engine) grasshopperMoves(from hexcoord.Hex) []hexcoord.Hex {
	var out []hexcoord.Hex
	for dir := 0; dir < 6; dir++ {
		cur := hexcoord.Neighbour(from, dir)
		if !e.Board.IsOccupied(cur) {
			continue
		}
		for e.Board.IsOccupied(cur) {
			cur = hexcoord.Neighbour(cur, dir)
		}
		out = append(out, cur)
	}
	return out
}
