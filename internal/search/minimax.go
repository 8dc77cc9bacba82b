// Package search scores tic-tac-toe positions by exhaustive minimax.
//
// X is always the maximizing side and O the minimizing side, whoever asks.
// Terminal scores are shifted by depth so that a quicker win scores higher
// than a slower one and a slower loss scores higher than a quicker one.
//
// There is no visited set or transposition table: every move fills a cell,
// so a board can never repeat along a path and the tree is finite.
package search

import (
	"math"
	"sync/atomic"

	"github.com/rocketscienceinc/tictactoe-oracle/internal/entity"
)

// WinScore is greater than the deepest possible ply, so any win outranks any draw.
const WinScore = entity.Height*entity.Width + 1

type Engine struct {
	nodes atomic.Uint64
}

func NewEngine() *Engine {
	return &Engine{}
}

// Score - game-theoretic value of state under optimal play, measured from
// state itself (depth 0).
func (that *Engine) Score(state entity.GameState) int {
	return that.ScoreAt(state, 0)
}

// ScoreAt - like Score, for a state already depth plies below the root.
func (that *Engine) ScoreAt(state entity.GameState, depth int) int {
	that.nodes.Add(1)

	switch entity.Classify(state) {
	case entity.WinX:
		return WinScore - depth
	case entity.WinO:
		return depth - WinScore
	case entity.Draw:
		return 0
	}

	maximizing := state.Turn() == entity.PlayerX

	best := math.MaxInt
	if maximizing {
		best = math.MinInt
	}

	for _, move := range entity.LegalMoves(state) {
		child, err := entity.ApplyMove(state, move.Row, move.Col)
		if err != nil {
			// LegalMoves only lists empty in-bounds cells
			panic(err)
		}

		score := that.ScoreAt(child, depth+1)
		if maximizing && score > best || !maximizing && score < best {
			best = score
		}
	}

	return best
}

// Nodes - total positions visited since the engine was created.
func (that *Engine) Nodes() uint64 {
	return that.nodes.Load()
}

// Predict - the outcome a score promises under optimal play.
func Predict(score int) entity.Outcome {
	switch {
	case score > 0:
		return entity.WinX
	case score < 0:
		return entity.WinO
	default:
		return entity.Draw
	}
}

// PliesToEnd - how many plies from the scored node the forced result lands,
// given the depth the score was taken at. Draws run to a full board and
// report -1.
func PliesToEnd(score, depth int) int {
	switch {
	case score > 0:
		return WinScore - score - depth
	case score < 0:
		return WinScore + score - depth
	default:
		return -1
	}
}
