package entity

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-oracle/internal/apperror"
)

type Outcome int

const (
	InProgress Outcome = iota
	WinX
	WinO
	Draw
)

func (that Outcome) String() string {
	switch that {
	case WinX:
		return "x_won"
	case WinO:
		return "o_won"
	case Draw:
		return "draw"
	default:
		return "in_progress"
	}
}

// Winner - the winning mark, or Empty for a draw or an unfinished game.
func (that Outcome) Winner() Cell {
	switch that {
	case WinX:
		return PlayerX
	case WinO:
		return PlayerO
	default:
		return Empty
	}
}

func (that Outcome) IsTerminal() bool {
	return that != InProgress
}

// WinLines - the three rows, the three columns and both diagonals.
var WinLines = [8][3]Move{
	{{0, 0}, {0, 1}, {0, 2}},
	{{1, 0}, {1, 1}, {1, 2}},
	{{2, 0}, {2, 1}, {2, 2}},
	{{0, 0}, {1, 0}, {2, 0}},
	{{0, 1}, {1, 1}, {2, 1}},
	{{0, 2}, {1, 2}, {2, 2}},
	{{0, 0}, {1, 1}, {2, 2}},
	{{0, 2}, {1, 1}, {2, 0}},
}

// LegalMoves - every empty cell in row-major order.
func LegalMoves(state GameState) []Move {
	moves := make([]Move, 0, Height*Width)
	for row := 0; row < Height; row++ {
		for col := 0; col < Width; col++ {
			if state.board[row][col] == Empty {
				moves = append(moves, Move{Row: row, Col: col})
			}
		}
	}

	return moves
}

// ApplyMove - returns the state after the side to move marks (row, col).
// The input state is left untouched.
func ApplyMove(state GameState, row, col int) (GameState, error) {
	move := Move{Row: row, Col: col}

	if !move.InBounds() {
		return state, fmt.Errorf("%w: %w %s", apperror.ErrIllegalMove, apperror.ErrOutOfBounds, move)
	}

	if state.board[row][col] != Empty {
		return state, fmt.Errorf("%w: %w %s", apperror.ErrIllegalMove, apperror.ErrCellOccupied, move)
	}

	next := state
	next.board[row][col] = state.turn
	next.turn = state.turn.Opponent()

	return next, nil
}

// Classify - checks all eight lines on every call. If both marks own a line,
// which legal play cannot produce, the side that moved last is the winner.
func Classify(state GameState) Outcome {
	var xLine, oLine bool

	for _, line := range WinLines {
		a := state.board[line[0].Row][line[0].Col]
		b := state.board[line[1].Row][line[1].Col]
		c := state.board[line[2].Row][line[2].Col]

		if a == Empty || a != b || b != c {
			continue
		}

		switch a {
		case PlayerX:
			xLine = true
		case PlayerO:
			oLine = true
		}
	}

	switch {
	case xLine && oLine:
		if state.turn.Opponent() == PlayerO {
			return WinO
		}
		return WinX
	case xLine:
		return WinX
	case oLine:
		return WinO
	}

	// the game continues until every square is taken
	if state.Filled() == Height*Width {
		return Draw
	}

	return InProgress
}
