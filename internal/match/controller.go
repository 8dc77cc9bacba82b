package match

import (
	"log/slog"
	"sync"

	"github.com/rocketscienceinc/tictactoe-oracle/internal/entity"
)

type Status int

const (
	StatusActive Status = iota
	StatusFinished
)

func (that Status) String() string {
	if that == StatusFinished {
		return "finished"
	}
	return "active"
}

// Controller - owns the history of one match and the stack of intents not yet applied.
type Controller struct {
	logger *slog.Logger

	mu      sync.RWMutex
	history []entity.GameState
	pending []entity.Move
	status  Status
}

func NewController(logger *slog.Logger) *Controller {
	return &Controller{
		logger:  logger.With("component", "match"),
		history: []entity.GameState{entity.NewGameState()},
		status:  StatusActive,
	}
}

// SubmitIntent - pushes a raw coordinate pair. Nothing is validated here.
func (that *Controller) SubmitIntent(row, col int) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.pending = append(that.pending, entity.Move{Row: row, Col: col})
}

// Tick - pops the most recent intent and tries to apply it. Illegal intents
// are dropped without surfacing an error. Reports whether a move was applied.
func (that *Controller) Tick() bool {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.status == StatusFinished || len(that.pending) == 0 {
		return false
	}

	last := len(that.pending) - 1
	intent := that.pending[last]
	that.pending = that.pending[:last]

	return that.apply(intent)
}

// Play - pushes an intent and ticks it under one lock, so the move applied is
// always the caller's own. Intents queued by SubmitIntent stay where they are.
func (that *Controller) Play(row, col int) bool {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.status == StatusFinished {
		return false
	}

	return that.apply(entity.Move{Row: row, Col: col})
}

// PlayAs - like Play, but only when mark is the side to move.
func (that *Controller) PlayAs(mark entity.Cell, row, col int) bool {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.status == StatusFinished {
		return false
	}

	if turn := that.history[len(that.history)-1].Turn(); turn != mark {
		that.logger.Debug("intent dropped", "move", entity.Move{Row: row, Col: col}, "mark", mark.String(), "turn", turn.String())
		return false
	}

	return that.apply(entity.Move{Row: row, Col: col})
}

// apply - caller holds the write lock.
func (that *Controller) apply(intent entity.Move) bool {
	current := that.history[len(that.history)-1]

	next, err := entity.ApplyMove(current, intent.Row, intent.Col)
	if err != nil {
		that.logger.Debug("intent dropped", "move", intent, "error", err)
		return false
	}

	that.history = append(that.history, next)

	if outcome := entity.Classify(next); outcome.IsTerminal() {
		that.status = StatusFinished
		that.logger.Info("match finished", "outcome", outcome.String(), "plies", len(that.history)-1)
	}

	return true
}

// CurrentState - the last element of the history.
func (that *Controller) CurrentState() entity.GameState {
	that.mu.RLock()
	defer that.mu.RUnlock()

	return that.history[len(that.history)-1]
}

func (that *Controller) IsActive() bool {
	that.mu.RLock()
	defer that.mu.RUnlock()

	return that.status == StatusActive
}

func (that *Controller) Status() Status {
	that.mu.RLock()
	defer that.mu.RUnlock()

	return that.status
}

func (that *Controller) Outcome() entity.Outcome {
	return entity.Classify(that.CurrentState())
}

// History - a copy of every state from the initial one to the current one.
func (that *Controller) History() []entity.GameState {
	that.mu.RLock()
	defer that.mu.RUnlock()

	return append([]entity.GameState(nil), that.history...)
}

// Pending - number of intents waiting on the stack.
func (that *Controller) Pending() int {
	that.mu.RLock()
	defer that.mu.RUnlock()

	return len(that.pending)
}

// Reset - discards the match and starts over from the empty board.
func (that *Controller) Reset() {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.history = []entity.GameState{entity.NewGameState()}
	that.pending = nil
	that.status = StatusActive

	that.logger.Info("match reset")
}
