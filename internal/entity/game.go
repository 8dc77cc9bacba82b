package entity

import (
	"errors"
	"fmt"
	"strings"
)

const (
	Height = 3
	Width  = 3
)

// Cell - content of one board square. PlayerX and PlayerO double as the turn marker.
type Cell uint8

const (
	Empty Cell = iota
	PlayerX
	PlayerO
)

var (
	ErrInvalidBoard = errors.New("invalid board")
	ErrInvalidTurn  = errors.New("invalid turn")
)

func (that Cell) String() string {
	switch that {
	case PlayerX:
		return "X"
	case PlayerO:
		return "O"
	default:
		return ""
	}
}

// Opponent - returns the other mark. Empty has no opponent.
func (that Cell) Opponent() Cell {
	switch that {
	case PlayerX:
		return PlayerO
	case PlayerO:
		return PlayerX
	default:
		return Empty
	}
}

// ParseCell - accepts "X", "O" (any case) and returns the mark.
func ParseCell(s string) (Cell, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "X":
		return PlayerX, nil
	case "O":
		return PlayerO, nil
	default:
		return Empty, fmt.Errorf("%w: %q", ErrInvalidTurn, s)
	}
}

type Move struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (that Move) String() string {
	return fmt.Sprintf("(%d, %d)", that.Row, that.Col)
}

func (that Move) InBounds() bool {
	return that.Row >= 0 && that.Row < Height && that.Col >= 0 && that.Col < Width
}

// Suggestion - a best move together with the minimax score it was chosen with.
type Suggestion struct {
	Move  Move `json:"move"`
	Score int  `json:"score"`
}

type Board [Height][Width]Cell

// String - renders the board as three lines of "X", "O" and ".".
func (that Board) String() string {
	var sb strings.Builder

	for row := 0; row < Height; row++ {
		if row > 0 {
			sb.WriteByte('\n')
		}
		for col := 0; col < Width; col++ {
			switch that[row][col] {
			case PlayerX:
				sb.WriteByte('X')
			case PlayerO:
				sb.WriteByte('O')
			default:
				sb.WriteByte('.')
			}
		}
	}

	return sb.String()
}

// ParseBoard - reads the form produced by Board.String. Rows may also be separated by "/".
func ParseBoard(s string) (Board, error) {
	var board Board

	rows := strings.FieldsFunc(s, func(r rune) bool {
		return r == '\n' || r == '/'
	})
	if len(rows) != Height {
		return board, fmt.Errorf("%w: expected %d rows, got %d", ErrInvalidBoard, Height, len(rows))
	}

	for row, line := range rows {
		line = strings.TrimSpace(line)
		if len(line) != Width {
			return board, fmt.Errorf("%w: row %d has %d cells", ErrInvalidBoard, row, len(line))
		}

		for col := 0; col < Width; col++ {
			switch line[col] {
			case 'X', 'x':
				board[row][col] = PlayerX
			case 'O', 'o':
				board[row][col] = PlayerO
			case '.', '_', '-', ' ':
				board[row][col] = Empty
			default:
				return board, fmt.Errorf("%w: unexpected %q at (%d, %d)", ErrInvalidBoard, line[col], row, col)
			}
		}
	}

	return board, nil
}

// GameState - one ply of a match. It is a value: copying it copies the board,
// so no state ever shares cells with another.
type GameState struct {
	board Board
	turn  Cell
}

// NewGameState - the empty initial state, X to move.
func NewGameState() GameState {
	return GameState{turn: PlayerX}
}

// NewGameStateFrom - builds a state from an arbitrary position.
func NewGameStateFrom(board Board, turn Cell) (GameState, error) {
	if turn != PlayerX && turn != PlayerO {
		return GameState{}, fmt.Errorf("%w: %d", ErrInvalidTurn, turn)
	}

	for row := 0; row < Height; row++ {
		for col := 0; col < Width; col++ {
			if board[row][col] > PlayerO {
				return GameState{}, fmt.Errorf("%w: cell (%d, %d) holds %d", ErrInvalidBoard, row, col, board[row][col])
			}
		}
	}

	return GameState{board: board, turn: turn}, nil
}

func (that GameState) Board() Board {
	return that.board
}

func (that GameState) Turn() Cell {
	return that.turn
}

func (that GameState) At(row, col int) Cell {
	return that.board[row][col]
}

// Filled - number of non-empty cells.
func (that GameState) Filled() int {
	filled := 0
	for row := 0; row < Height; row++ {
		for col := 0; col < Width; col++ {
			if that.board[row][col] != Empty {
				filled++
			}
		}
	}

	return filled
}

// Key - compact identity of the position, board then side to move.
func (that GameState) Key() string {
	return strings.ReplaceAll(that.board.String(), "\n", "") + ":" + that.turn.String()
}
