package match

import (
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-oracle/internal/entity"
)

func newTestController() *Controller {
	return NewController(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func play(t *testing.T, controller *Controller, moves ...entity.Move) {
	t.Helper()

	for _, move := range moves {
		controller.SubmitIntent(move.Row, move.Col)
		require.True(t, controller.Tick(), "move %s was not applied", move)
	}
}

func TestNewController(t *testing.T) {
	// Given: a fresh controller
	controller := newTestController()

	// Then: it is active with only the empty state in history
	assert.True(t, controller.IsActive())
	assert.Equal(t, StatusActive, controller.Status())
	assert.Equal(t, entity.NewGameState(), controller.CurrentState())
	assert.Len(t, controller.History(), 1)
	assert.Equal(t, entity.InProgress, controller.Outcome())
}

func TestController_SubmitIntent(t *testing.T) {
	t.Run("Queues without applying", func(t *testing.T) {
		controller := newTestController()

		// When: an intent is submitted
		controller.SubmitIntent(1, 1)

		// Then: it waits on the stack and the board is untouched
		assert.Equal(t, 1, controller.Pending())
		assert.Len(t, controller.History(), 1)
	})

	t.Run("Accepts out of bounds coordinates", func(t *testing.T) {
		controller := newTestController()

		controller.SubmitIntent(-4, 12)

		assert.Equal(t, 1, controller.Pending())
	})
}

func TestController_Tick(t *testing.T) {
	t.Run("No-op on an empty stack", func(t *testing.T) {
		controller := newTestController()

		assert.False(t, controller.Tick())
		assert.Len(t, controller.History(), 1)
	})

	t.Run("Applies a legal intent", func(t *testing.T) {
		// Given: X submits the centre
		controller := newTestController()
		controller.SubmitIntent(1, 1)

		// When: the controller ticks
		applied := controller.Tick()

		// Then: a new state is appended with O to move
		require.True(t, applied)
		assert.Len(t, controller.History(), 2)
		assert.Equal(t, entity.PlayerX, controller.CurrentState().At(1, 1))
		assert.Equal(t, entity.PlayerO, controller.CurrentState().Turn())
		assert.Zero(t, controller.Pending())
	})

	t.Run("Most recent intent wins", func(t *testing.T) {
		// Given: two intents queued before a tick
		controller := newTestController()
		controller.SubmitIntent(0, 0)
		controller.SubmitIntent(2, 2)

		// When: the controller ticks once
		require.True(t, controller.Tick())

		// Then: the later click is applied and the earlier one is still queued
		assert.Equal(t, entity.PlayerX, controller.CurrentState().At(2, 2))
		assert.Equal(t, entity.Empty, controller.CurrentState().At(0, 0))
		assert.Equal(t, 1, controller.Pending())
	})

	t.Run("Drops an intent on an occupied cell", func(t *testing.T) {
		// Given: X holds the corner
		controller := newTestController()
		play(t, controller, entity.Move{Row: 0, Col: 0})
		before := controller.CurrentState()

		// When: O clicks the same corner
		controller.SubmitIntent(0, 0)
		applied := controller.Tick()

		// Then: nothing changes and the intent is gone
		assert.False(t, applied)
		assert.Equal(t, before, controller.CurrentState())
		assert.Len(t, controller.History(), 2)
		assert.Zero(t, controller.Pending())
		assert.True(t, controller.IsActive())
	})

	t.Run("Drops an out of bounds intent", func(t *testing.T) {
		controller := newTestController()
		controller.SubmitIntent(3, 0)

		assert.False(t, controller.Tick())
		assert.Len(t, controller.History(), 1)
		assert.Zero(t, controller.Pending())
	})

	t.Run("Finishes on a win", func(t *testing.T) {
		// Given: X is one move from completing the top row
		controller := newTestController()
		play(t, controller,
			entity.Move{Row: 0, Col: 0},
			entity.Move{Row: 1, Col: 0},
			entity.Move{Row: 0, Col: 1},
			entity.Move{Row: 1, Col: 1},
		)

		// When: X completes it
		play(t, controller, entity.Move{Row: 0, Col: 2})

		// Then: the match is finished with X as winner
		assert.False(t, controller.IsActive())
		assert.Equal(t, StatusFinished, controller.Status())
		assert.Equal(t, entity.WinX, controller.Outcome())

		// And: further intents are ignored
		controller.SubmitIntent(2, 2)
		assert.False(t, controller.Tick())
		assert.Len(t, controller.History(), 6)
	})

	t.Run("Finishes on a draw", func(t *testing.T) {
		controller := newTestController()
		play(t, controller,
			entity.Move{Row: 0, Col: 0},
			entity.Move{Row: 0, Col: 1},
			entity.Move{Row: 0, Col: 2},
			entity.Move{Row: 1, Col: 1},
			entity.Move{Row: 1, Col: 0},
			entity.Move{Row: 1, Col: 2},
			entity.Move{Row: 2, Col: 1},
			entity.Move{Row: 2, Col: 0},
			entity.Move{Row: 2, Col: 2},
		)

		assert.False(t, controller.IsActive())
		assert.Equal(t, entity.Draw, controller.Outcome())
	})
}

func TestController_HistoryChain(t *testing.T) {
	// Given: a few applied moves
	controller := newTestController()
	play(t, controller,
		entity.Move{Row: 1, Col: 1},
		entity.Move{Row: 0, Col: 0},
		entity.Move{Row: 2, Col: 2},
	)

	// Then: every state is one legal move away from its predecessor
	history := controller.History()
	require.Len(t, history, 4)

	for i := 1; i < len(history); i++ {
		assert.Equal(t, history[i-1].Filled()+1, history[i].Filled())
		assert.Equal(t, history[i-1].Turn().Opponent(), history[i].Turn())
	}

	// And: the returned slice is a copy
	history[0] = history[3]
	assert.Equal(t, entity.NewGameState(), controller.History()[0])
}

func TestController_Reset(t *testing.T) {
	controller := newTestController()
	play(t, controller, entity.Move{Row: 0, Col: 0})
	controller.SubmitIntent(1, 1)

	controller.Reset()

	assert.True(t, controller.IsActive())
	assert.Len(t, controller.History(), 1)
	assert.Zero(t, controller.Pending())
}

func TestController_ConcurrentReaders(t *testing.T) {
	controller := newTestController()

	var wg sync.WaitGroup
	for worker := 0; worker < 4; worker++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for iter := 0; iter < 100; iter++ {
				_ = controller.CurrentState()
				_ = controller.IsActive()
			}
		}()
	}

	for _, move := range []entity.Move{{Row: 1, Col: 1}, {Row: 0, Col: 0}, {Row: 2, Col: 2}} {
		controller.SubmitIntent(move.Row, move.Col)
		controller.Tick()
	}

	wg.Wait()
	assert.Len(t, controller.History(), 4)
}

func TestController_Play(t *testing.T) {
	t.Run("Applies its own move past queued intents", func(t *testing.T) {
		// Given: another caller has queued an intent without ticking
		controller := newTestController()
		controller.SubmitIntent(2, 2)

		// When: a move is played directly
		applied := controller.Play(1, 1)

		// Then: the played cell is marked and the queued intent is untouched
		require.True(t, applied)
		assert.Equal(t, entity.PlayerX, controller.CurrentState().At(1, 1))
		assert.Equal(t, entity.Empty, controller.CurrentState().At(2, 2))
		assert.Equal(t, 1, controller.Pending())
	})

	t.Run("Reports its own illegal move", func(t *testing.T) {
		controller := newTestController()
		controller.SubmitIntent(1, 1)

		assert.False(t, controller.Play(5, 5))
		assert.Len(t, controller.History(), 1)
		assert.Equal(t, 1, controller.Pending())
	})

	t.Run("Refuses moves once finished", func(t *testing.T) {
		controller := newTestController()
		play(t, controller,
			entity.Move{Row: 0, Col: 0},
			entity.Move{Row: 1, Col: 0},
			entity.Move{Row: 0, Col: 1},
			entity.Move{Row: 1, Col: 1},
			entity.Move{Row: 0, Col: 2},
		)

		assert.False(t, controller.Play(2, 2))
		assert.Len(t, controller.History(), 6)
	})
}

func TestController_PlayAs(t *testing.T) {
	controller := newTestController()

	// When: O tries to open the match
	applied := controller.PlayAs(entity.PlayerO, 1, 1)

	// Then: it is refused because X is to move
	assert.False(t, applied)
	assert.Len(t, controller.History(), 1)

	// And: X may play
	require.True(t, controller.PlayAs(entity.PlayerX, 1, 1))
	assert.Equal(t, entity.PlayerO, controller.CurrentState().Turn())
}

func TestController_ConcurrentPlayers(t *testing.T) {
	// Given: one goroutine per cell plus one per illegal coordinate
	controller := newTestController()

	cells := make([]entity.Move, 0, entity.Height*entity.Width)
	for row := 0; row < entity.Height; row++ {
		for col := 0; col < entity.Width; col++ {
			cells = append(cells, entity.Move{Row: row, Col: col})
		}
	}

	applied := make([]bool, len(cells))
	illegal := make([]bool, 4)

	// When: all of them play at once
	var wg sync.WaitGroup
	for i, cell := range cells {
		i, cell := i, cell
		wg.Add(1)
		go func() {
			defer wg.Done()
			applied[i] = controller.Play(cell.Row, cell.Col)
		}()
	}
	for i := range illegal {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			illegal[i] = controller.Play(entity.Height+i, -1)
		}()
	}
	wg.Wait()

	// Then: every caller that was told its move applied owns a marked cell
	state := controller.CurrentState()
	appliedCount := 0
	for i, cell := range cells {
		if applied[i] {
			appliedCount++
			assert.NotEqual(t, entity.Empty, state.At(cell.Row, cell.Col), "move %s", cell)
		} else {
			assert.Equal(t, entity.Empty, state.At(cell.Row, cell.Col), "move %s", cell)
		}
	}

	// And: no illegal coordinate was ever reported as applied
	for i := range illegal {
		assert.False(t, illegal[i])
	}

	assert.Equal(t, appliedCount, len(controller.History())-1)
	assert.Equal(t, appliedCount, state.Filled())
	assert.Zero(t, controller.Pending())
}
