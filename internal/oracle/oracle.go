package oracle

import (
	"context"
	"errors"
	"log/slog"

	"github.com/rocketscienceinc/tictactoe-oracle/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-oracle/internal/entity"
	"github.com/rocketscienceinc/tictactoe-oracle/internal/search"
)

type suggestionCache interface {
	Get(ctx context.Context, state entity.GameState) (entity.Suggestion, error)
	Set(ctx context.Context, state entity.GameState, suggestion entity.Suggestion) error
}

type Oracle struct {
	logger *slog.Logger
	engine *search.Engine
	cache  suggestionCache
}

// New - cache may be nil, in which case every suggestion is searched.
func New(logger *slog.Logger, engine *search.Engine, cache suggestionCache) *Oracle {
	return &Oracle{
		logger: logger,
		engine: engine,
		cache:  cache,
	}
}

// BestMove - the optimal move for the side to act, or false on a terminal state.
// Ties go to the first move in row-major order.
func (that *Oracle) BestMove(state entity.GameState) (entity.Move, bool) {
	move, _, ok := that.bestMove(state)
	return move, ok
}

// Suggest - BestMove backed by the suggestion cache. Cache failures are
// logged and fall through to a fresh search.
func (that *Oracle) Suggest(ctx context.Context, state entity.GameState) (entity.Move, bool) {
	suggestion, ok := that.SuggestWithScore(ctx, state)
	return suggestion.Move, ok
}

// SuggestWithScore - Suggest plus the score of the chosen move, so callers can
// predict the outcome without searching again.
func (that *Oracle) SuggestWithScore(ctx context.Context, state entity.GameState) (entity.Suggestion, bool) {
	log := that.logger.With("method", "SuggestWithScore", "state", state.Key())

	if entity.Classify(state).IsTerminal() {
		return entity.Suggestion{}, false
	}

	if that.cache != nil {
		suggestion, err := that.cache.Get(ctx, state)
		switch {
		case err == nil:
			log.Debug("suggestion served from cache", "move", suggestion.Move, "score", suggestion.Score)
			return suggestion, true
		case !errors.Is(err, apperror.ErrSuggestionNotFound):
			log.Error("could not read suggestion cache", "error", err)
		}
	}

	before := that.engine.Nodes()

	move, score, ok := that.bestMove(state)
	if !ok {
		return entity.Suggestion{}, false
	}

	log.Debug("suggestion searched",
		"move", move,
		"score", score,
		"predicted", search.Predict(score).String(),
		"nodes", that.engine.Nodes()-before,
	)

	suggestion := entity.Suggestion{Move: move, Score: score}

	if that.cache != nil {
		if err := that.cache.Set(ctx, state, suggestion); err != nil {
			log.Error("could not store suggestion", "error", err)
		}
	}

	return suggestion, true
}

// Evaluate - value of the position under optimal play, 0 meaning a draw.
func (that *Oracle) Evaluate(state entity.GameState) int {
	return that.engine.Score(state)
}

func (that *Oracle) bestMove(state entity.GameState) (entity.Move, int, bool) {
	if entity.Classify(state).IsTerminal() {
		return entity.Move{}, 0, false
	}

	maximizing := state.Turn() == entity.PlayerX

	var (
		bestMove  entity.Move
		bestScore int
		found     bool
	)

	for _, move := range entity.LegalMoves(state) {
		child, err := entity.ApplyMove(state, move.Row, move.Col)
		if err != nil {
			panic(err)
		}

		score := that.engine.ScoreAt(child, 1)
		if !found || maximizing && score > bestScore || !maximizing && score < bestScore {
			bestMove, bestScore, found = move, score, true
		}
	}

	return bestMove, bestScore, found
}
