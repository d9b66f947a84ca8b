package bot

import (
	"math"
	"sort"

	"github.com/hiveserver/hiveserver/internal/board"
	"github.com/hiveserver/hiveserver/internal/hexcoord"
)

// DefaultDepth is the fixed search depth §4.7 specifies for the bot's
// alpha-beta search.
const DefaultDepth = 3

// Result is the outcome of a search: the chosen candidate and whether any
// legal move existed at all.
type Result struct {
	Candidate Candidate
	Score     float64
	Found     bool
}

// Search runs fixed-depth alpha-beta minimax over pos, choosing the best
// action for botColour to play at turnNumber. Grounded on
// korjavin-virusgame's minimax/alpha-beta structure, generalized from a
// two-outcome board game to Hive's placement-or-move action space.
func Search(pos Position, botColour board.Colour, turnNumber, depth int) Result {
	candidates := generateMoves(pos, botColour, turnNumber)
	if len(candidates) == 0 {
		return Result{}
	}
	orderCandidates(candidates, pos, botColour)

	alpha, beta := math.Inf(-1), math.Inf(1)
	best := candidates[0]
	bestScore := math.Inf(-1)

	for _, c := range candidates {
		child := apply(pos, botColour, c)
		score := minimax(child, botColour, botColour.Opponent(), turnNumber+1, depth-1, alpha, beta)
		if score > bestScore {
			bestScore = score
			best = c
		}
		if bestScore > alpha {
			alpha = bestScore
		}
	}
	return Result{Candidate: best, Score: bestScore, Found: true}
}

// minimax evaluates node from botColour's perspective; toMove alternates
// each ply, matching Hive's strict turn order.
func minimax(pos Position, botColour, toMove board.Colour, turnNumber, depth int, alpha, beta float64) float64 {
	candidates := generateMoves(pos, toMove, turnNumber)
	if depth == 0 || len(candidates) == 0 {
		return evaluate(pos, botColour)
	}
	orderCandidates(candidates, pos, toMove)

	if toMove == botColour {
		best := math.Inf(-1)
		for _, c := range candidates {
			child := apply(pos, toMove, c)
			score := minimax(child, botColour, toMove.Opponent(), turnNumber+1, depth-1, alpha, beta)
			if score > best {
				best = score
			}
			if best > alpha {
				alpha = best
			}
			if alpha >= beta {
				break
			}
		}
		return best
	}

	worst := math.Inf(1)
	for _, c := range candidates {
		child := apply(pos, toMove, c)
		score := minimax(child, botColour, toMove.Opponent(), turnNumber+1, depth-1, alpha, beta)
		if score < worst {
			worst = score
		}
		if worst < beta {
			beta = worst
		}
		if alpha >= beta {
			break
		}
	}
	return worst
}

// orderCandidates biases the search toward historically strong moves first,
// which tightens the alpha-beta window earlier: any Queen placement first,
// then moves/placements that land closer to the enemy
// Queen (climbing onto it or a neighbour is the direct win path).
func orderCandidates(candidates []Candidate, pos Position, colour board.Colour) {
	enemyQueen, hasEnemyQueen := findQueenHex(pos, colour.Opponent())
	score := func(c Candidate) int {
		dest := c.Hex
		if c.Kind == KindMove {
			dest = c.To
		}
		s := 0
		if c.Species == board.Queen {
			s -= 100
		}
		if hasEnemyQueen {
			s += hexcoord.Distance(dest, enemyQueen)
		}
		return s
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return score(candidates[i]) < score(candidates[j])
	})
}
