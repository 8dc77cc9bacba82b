package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/exp/rand"

	"github.com/rocketscienceinc/tictactoe-oracle/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-oracle/internal/entity"
)

const (
	LevelOptimal = "optimal"
	LevelRandom  = "random"
)

var (
	ErrNoAvailableMoves = errors.New("no available moves")
	ErrUnknownLevel     = errors.New("unknown bot level")
	ErrMoveRejected     = errors.New("bot move was rejected")
)

type BotService interface {
	Mark() entity.Cell
	MakeTurn(ctx context.Context) (entity.Move, error)
	Respond(ctx context.Context) (entity.Move, bool, error)
}

type matchController interface {
	PlayAs(mark entity.Cell, row, col int) bool
	CurrentState() entity.GameState
	IsActive() bool
}

type suggester interface {
	Suggest(ctx context.Context, state entity.GameState) (entity.Move, bool)
}

type botService struct {
	logger *slog.Logger

	mark       entity.Cell
	level      string
	rng        *rand.Rand
	controller matchController
	oracle     suggester
}

// NewBotService - a bot playing mark. The seed only matters for LevelRandom.
func NewBotService(
	logger *slog.Logger,
	mark entity.Cell,
	level string,
	seed uint64,
	controller matchController,
	oracle suggester,
) (BotService, error) {
	if level != LevelOptimal && level != LevelRandom {
		return nil, fmt.Errorf("%w: %s", ErrUnknownLevel, level)
	}

	if mark != entity.PlayerX && mark != entity.PlayerO {
		return nil, fmt.Errorf("%w: %d", entity.ErrInvalidTurn, mark)
	}

	return &botService{
		logger:     logger.With("component", "bot", "mark", mark.String(), "level", level),
		mark:       mark,
		level:      level,
		rng:        rand.New(rand.NewSource(seed)),
		controller: controller,
		oracle:     oracle,
	}, nil
}

func (that *botService) Mark() entity.Cell {
	return that.mark
}

// MakeTurn - picks a cell for the current state and pushes it through the controller.
func (that *botService) MakeTurn(ctx context.Context) (entity.Move, error) {
	if !that.controller.IsActive() {
		return entity.Move{}, apperror.ErrMatchFinished
	}

	state := that.controller.CurrentState()
	if state.Turn() != that.mark {
		return entity.Move{}, fmt.Errorf("bot plays %s, %s is to move", that.mark, state.Turn())
	}

	move, err := that.chooseMove(ctx, state)
	if err != nil {
		return entity.Move{}, err
	}

	if !that.controller.PlayAs(that.mark, move.Row, move.Col) {
		return entity.Move{}, fmt.Errorf("%w: %s", ErrMoveRejected, move)
	}

	that.logger.Debug("bot moved", "move", move)

	return move, nil
}

// Respond - plays only when the match is active and it is the bot's turn.
func (that *botService) Respond(ctx context.Context) (entity.Move, bool, error) {
	if !that.controller.IsActive() || that.controller.CurrentState().Turn() != that.mark {
		return entity.Move{}, false, nil
	}

	move, err := that.MakeTurn(ctx)
	if err != nil {
		return entity.Move{}, false, fmt.Errorf("bot failed to make turn: %w", err)
	}

	return move, true, nil
}

func (that *botService) chooseMove(ctx context.Context, state entity.GameState) (entity.Move, error) {
	if that.level == LevelOptimal {
		move, ok := that.oracle.Suggest(ctx, state)
		if !ok {
			return entity.Move{}, ErrNoAvailableMoves
		}
		return move, nil
	}

	moves := entity.LegalMoves(state)
	if len(moves) == 0 {
		return entity.Move{}, ErrNoAvailableMoves
	}

	return moves[that.rng.Intn(len(moves))], nil
}
