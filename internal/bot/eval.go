package bot

import (
	"github.com/hiveserver/hiveserver/internal/board"
	"github.com/hiveserver/hiveserver/internal/hexcoord"
)

// materialWeight is the fixed per-species weight, scaled 0.8, per §4.7's
// evaluation function.
var materialWeight = map[board.Species]float64{
	board.Queen:       1000 * 0.8,
	board.Ant:         200 * 0.8,
	board.Beetle:      180 * 0.8,
	board.Spider:      150 * 0.8,
	board.Grasshopper: 120 * 0.8,
}

const (
	queenSafetyPerEmptyNeighbour     = 40.0
	queenSurroundedPenalty           = -2000.0
	queenNotPlacedPenalty            = -150.0
	enemyQueenPerOccupiedNeighbour   = 70.0
	enemyQueenSurroundedBonus        = 2000.0
	mobilityWeight                   = 3.0
	stuckPieceWeight                 = 40.0
	disconnectedHivePenalty          = -1000.0
	queenProximityWeight             = 5.0
	queenProximityHorizon            = 10
)

// evaluate scores pos from botColour's perspective: positive favours the
// bot. Every term is computed once for botColour and once for the opponent
// and combined per §4.7's "bot minus opponent" / symmetric sign convention.
func evaluate(pos Position, botColour board.Colour) float64 {
	opp := botColour.Opponent()

	score := materialTerm(pos, botColour) - materialTerm(pos, opp)
	score += queenSafetyTerm(pos, botColour) + enemyQueenSafetyTerm(pos, opp)

	mobilityBot, stuckBot := mobilityAndStuck(pos, botColour)
	mobilityOpp, stuckOpp := mobilityAndStuck(pos, opp)
	score += mobilityWeight * float64(mobilityBot-mobilityOpp)
	score += stuckPieceWeight * float64(stuckOpp-stuckBot)

	if !pos.Board.IsHiveConnected(nil) {
		score += disconnectedHivePenalty
	}

	score += queenProximityTerm(pos, botColour, opp)

	return score
}

func materialTerm(pos Position, colour board.Colour) float64 {
	total := 0.0
	for _, h := range pos.Board.Occupied() {
		top, _ := pos.Board.TopAt(h)
		if top.Colour == colour {
			total += materialWeight[top.Species]
		}
	}
	return total
}

// queenSafetyTerm scores colour's own Queen: reward empty neighbours,
// heavily penalise a full surround, and penalise not having placed it yet
// (on every turn, not only near the opening deadline).
func queenSafetyTerm(pos Position, colour board.Colour) float64 {
	q, ok := findQueenHex(pos, colour)
	if !ok {
		if pos.QueenPlaced[colour] {
			return 0
		}
		return queenNotPlacedPenalty
	}
	empty, occupied := neighbourOccupancy(pos, q)
	if occupied == 6 {
		return queenSurroundedPenalty
	}
	return queenSafetyPerEmptyNeighbour * float64(empty)
}

// enemyQueenSafetyTerm scores the opponent's Queen from botColour's
// perspective: occupied neighbours and a full surround both favour the bot.
func enemyQueenSafetyTerm(pos Position, opponent board.Colour) float64 {
	q, ok := findQueenHex(pos, opponent)
	if !ok {
		return 0
	}
	_, occupied := neighbourOccupancy(pos, q)
	if occupied == 6 {
		return enemyQueenSurroundedBonus
	}
	return enemyQueenPerOccupiedNeighbour * float64(occupied)
}

func neighbourOccupancy(pos Position, h hexcoord.Hex) (empty, occupied int) {
	for _, n := range hexcoord.Neighbours(h) {
		if pos.Board.IsOccupied(n) {
			occupied++
		} else {
			empty++
		}
	}
	return empty, occupied
}

func findQueenHex(pos Position, colour board.Colour) (hexcoord.Hex, bool) {
	for _, h := range pos.Board.Occupied() {
		top, _ := pos.Board.TopAt(h)
		if top.Colour == colour && top.Species == board.Queen {
			return h, true
		}
	}
	return hexcoord.Hex{}, false
}

// mobilityAndStuck returns colour's total empty-neighbour count across its
// on-board pieces, and how many of those pieces have zero empty neighbours.
// This is the cheap proxy §4.7 specifies (empty-neighbour count), distinct
// from the exact legal-move count the search itself already explores.
func mobilityAndStuck(pos Position, colour board.Colour) (mobility, stuck int) {
	for _, h := range pos.Board.Occupied() {
		top, _ := pos.Board.TopAt(h)
		if top.Colour != colour {
			continue
		}
		empty, _ := neighbourOccupancy(pos, h)
		mobility += empty
		if empty == 0 {
			stuck++
		}
	}
	return mobility, stuck
}

// queenProximityTerm rewards the bot's Queen being close to the enemy
// Queen, capped at a horizon of 10 hexes, when both are on the board.
func queenProximityTerm(pos Position, botColour, opp board.Colour) float64 {
	own, ok1 := findQueenHex(pos, botColour)
	enemy, ok2 := findQueenHex(pos, opp)
	if !ok1 || !ok2 {
		return 0
	}
	d := queenProximityHorizon - hexcoord.Distance(own, enemy)
	if d < 0 {
		d = 0
	}
	return queenProximityWeight * float64(d)
}
