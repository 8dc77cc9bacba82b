package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/rocketscienceinc/tictactoe-oracle/internal/entity"
)

const shutdownTimeout = 5 * time.Second

type matchController interface {
	Play(row, col int) bool
	PlayAs(mark entity.Cell, row, col int) bool
	CurrentState() entity.GameState
	IsActive() bool
	History() []entity.GameState
	Reset()
}

type suggester interface {
	SuggestWithScore(ctx context.Context, state entity.GameState) (entity.Suggestion, bool)
}

type bot interface {
	Mark() entity.Cell
	Respond(ctx context.Context) (entity.Move, bool, error)
}

type cacheCleaner interface {
	DeleteAll(ctx context.Context) (int64, error)
}

type Server struct {
	logger *slog.Logger

	controller matchController
	oracle     suggester
	bot        bot
	cache      cacheCleaner
}

// New - bot and cache are optional and may be nil.
func New(logger *slog.Logger, controller matchController, oracle suggester, bot bot, cache cacheCleaner) *Server {
	return &Server{
		logger:     logger.With("component", "rest"),
		controller: controller,
		oracle:     oracle,
		bot:        bot,
		cache:      cache,
	}
}

// Routes - the HTTP surface of the match.
func (that *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/ping", pingHandler)

	r.Route("/match", func(r chi.Router) {
		r.Get("/", that.handleState)
		r.Get("/history", that.handleHistory)
		r.Get("/suggestion", that.handleSuggestion)
		r.Post("/intent", that.handleIntent)
		r.Post("/reset", that.handleReset)
	})

	r.Delete("/oracle/cache", that.handleClearCache)

	return r
}

// Start - serves until ctx is canceled, then shuts down gracefully.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      that.Routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shutdown server: %w", err)
		}
		return nil
	}
}
