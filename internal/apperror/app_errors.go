package apperror

import "errors"

var (
	ErrIllegalMove        = errors.New("illegal move")
	ErrOutOfBounds        = errors.New("cell is out of bounds")
	ErrCellOccupied       = errors.New("cell is already occupied")
	ErrMatchFinished      = errors.New("match is already finished")
	ErrSuggestionNotFound = errors.New("suggestion not found")
)
