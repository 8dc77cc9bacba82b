// Package terminal is a line-oriented host for a single match. Each line is
// either "row col", "new" to start over or "q" to quit.
package terminal

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/muesli/termenv"

	"github.com/rocketscienceinc/tictactoe-oracle/internal/entity"
)

type matchController interface {
	Play(row, col int) bool
	PlayAs(mark entity.Cell, row, col int) bool
	CurrentState() entity.GameState
	IsActive() bool
	Reset()
}

type suggester interface {
	Suggest(ctx context.Context, state entity.GameState) (entity.Move, bool)
}

type bot interface {
	Mark() entity.Cell
	Respond(ctx context.Context) (entity.Move, bool, error)
}

type Host struct {
	logger *slog.Logger

	controller matchController
	oracle     suggester
	bot        bot

	in  io.Reader
	out *termenv.Output
}

// New - bot may be nil for a two-human match.
func New(
	logger *slog.Logger,
	controller matchController,
	oracle suggester,
	bot bot,
	in io.Reader,
	out io.Writer,
	opts ...termenv.OutputOption,
) *Host {
	return &Host{
		logger:     logger.With("component", "terminal"),
		controller: controller,
		oracle:     oracle,
		bot:        bot,
		in:         in,
		out:        termenv.NewOutput(out, opts...),
	}
}

// Run - reads commands until "q", end of input or ctx cancellation.
func (that *Host) Run(ctx context.Context) error {
	lines := make(chan string)
	readErr := make(chan error, 1)

	go func() {
		defer close(lines)

		scanner := bufio.NewScanner(that.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				readErr <- nil
				return
			}
		}
		readErr <- scanner.Err()
	}()

	that.respond(ctx)
	that.render(ctx)
	that.prompt()

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				if err := <-readErr; err != nil {
					return fmt.Errorf("failed to read input: %w", err)
				}
				return nil
			}

			if quit := that.handle(ctx, strings.TrimSpace(line)); quit {
				return nil
			}
		}
	}
}

func (that *Host) handle(ctx context.Context, line string) bool {
	switch strings.ToLower(line) {
	case "":
		that.prompt()
		return false
	case "q", "quit", "exit":
		fmt.Fprintln(that.out, "bye")
		return true
	case "new":
		that.controller.Reset()
		that.respond(ctx)
		that.render(ctx)
		that.prompt()
		return false
	}

	row, col, err := parseCoordinates(line)
	if err != nil {
		fmt.Fprintln(that.out, that.out.String(err.Error()).Foreground(that.out.Color("3")))
		that.prompt()
		return false
	}

	if !that.controller.IsActive() {
		fmt.Fprintln(that.out, "match is over, type new or q")
		that.prompt()
		return false
	}

	if !that.play(row, col) {
		fmt.Fprintf(that.out, "cell (%d, %d) is not available\n", row, col)
		that.prompt()
		return false
	}

	that.respond(ctx)
	that.render(ctx)
	that.prompt()

	return false
}

// play - with a bot present the human only ever plays the other mark.
func (that *Host) play(row, col int) bool {
	if that.bot != nil {
		return that.controller.PlayAs(that.bot.Mark().Opponent(), row, col)
	}
	return that.controller.Play(row, col)
}

func (that *Host) respond(ctx context.Context) {
	if that.bot == nil {
		return
	}

	move, played, err := that.bot.Respond(ctx)
	if err != nil {
		that.logger.Error("bot could not respond", "error", err)
		return
	}

	if played {
		fmt.Fprintf(that.out, "bot plays %s\n", move)
	}
}

func (that *Host) render(ctx context.Context) {
	state := that.controller.CurrentState()

	var sb strings.Builder
	sb.WriteString("    0   1   2\n")
	for row := 0; row < entity.Height; row++ {
		if row > 0 {
			sb.WriteString("   ---+---+---\n")
		}
		fmt.Fprintf(&sb, "%d ", row)
		for col := 0; col < entity.Width; col++ {
			if col > 0 {
				sb.WriteByte('|')
			}
			sb.WriteString(" " + that.symbol(state.At(row, col)) + " ")
		}
		sb.WriteByte('\n')
	}

	fmt.Fprint(that.out, sb.String())

	outcome := entity.Classify(state)
	switch outcome {
	case entity.WinX, entity.WinO:
		fmt.Fprintf(that.out, "%s wins\n", outcome.Winner())
	case entity.Draw:
		fmt.Fprintln(that.out, "draw")
	default:
		if move, ok := that.oracle.Suggest(ctx, state); ok {
			fmt.Fprintf(that.out, "%s to move, suggested move: %s\n", state.Turn(), move)
		}
	}
}

func (that *Host) prompt() {
	fmt.Fprint(that.out, "> ")
}

func (that *Host) symbol(cell entity.Cell) string {
	switch cell {
	case entity.PlayerX:
		return that.out.String("X").Foreground(that.out.Color("1")).Bold().String()
	case entity.PlayerO:
		return that.out.String("O").Foreground(that.out.Color("4")).Bold().String()
	default:
		return "."
	}
}

func parseCoordinates(line string) (int, int, error) {
	fields := strings.FieldsFunc(line, func(r rune) bool {
		return r == ' ' || r == ',' || r == '\t'
	})
	if len(fields) != 2 {
		return 0, 0, fmt.Errorf("expected \"row col\", got %q", line)
	}

	row, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0, 0, fmt.Errorf("row %q is not a number", fields[0])
	}

	col, err := strconv.Atoi(fields[1])
	if err != nil {
		return 0, 0, fmt.Errorf("col %q is not a number", fields[1])
	}

	return row, col, nil
}
