package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/rocketscienceinc/tictactoe-oracle/internal/config"
	"github.com/rocketscienceinc/tictactoe-oracle/internal/entity"
	"github.com/rocketscienceinc/tictactoe-oracle/internal/match"
	"github.com/rocketscienceinc/tictactoe-oracle/internal/oracle"
	"github.com/rocketscienceinc/tictactoe-oracle/internal/repository"
	"github.com/rocketscienceinc/tictactoe-oracle/internal/repository/storage"
	"github.com/rocketscienceinc/tictactoe-oracle/internal/search"
	"github.com/rocketscienceinc/tictactoe-oracle/internal/service"
	"github.com/rocketscienceinc/tictactoe-oracle/transport/rest"
	"github.com/rocketscienceinc/tictactoe-oracle/transport/terminal"
)

var ErrAddrNotFound = errors.New("redis address string is empty")

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()

	var suggestions repository.SuggestionRepository
	if conf.Oracle.Cache {
		redisAddrString := conf.Redis.GetRedisAddr()
		if redisAddrString == "" {
			return ErrAddrNotFound
		}

		redisStorage, err := storage.New(ctx, redisAddrString)
		if err != nil {
			return fmt.Errorf("could not connect to redis storage: %w", err)
		}

		defer func() {
			if err = redisStorage.Close(); err != nil {
				log.Error("could not close redis storage", "error", err)
			}
		}()

		suggestions = repository.NewSuggestionRepository(redisStorage, conf.Oracle.CacheTTL)
		log.Info("Suggestion cache enabled", "addr", redisAddrString)
	}

	engine := search.NewEngine()
	moveOracle := oracle.New(logger, engine, suggestions)
	controller := match.NewController(logger)

	botService, err := newBot(logger, conf.Bot, controller, moveOracle)
	if err != nil {
		return fmt.Errorf("could not create bot: %w", err)
	}

	switch conf.Host {
	case config.HostHTTP:
		log.Info("Starting HTTP server", "port", conf.HTTPPort)

		if botService != nil {
			if _, _, err = botService.Respond(ctx); err != nil {
				return fmt.Errorf("bot could not open the match: %w", err)
			}
		}

		server := rest.New(logger, controller, moveOracle, botService, suggestions)
		if err = server.Start(ctx, conf.HTTPPort); err != nil {
			return fmt.Errorf("HTTP server error: %w", err)
		}
	default:
		host := terminal.New(logger, controller, moveOracle, botService, os.Stdin, os.Stdout)
		if err = host.Run(ctx); err != nil {
			return fmt.Errorf("terminal host error: %w", err)
		}
	}

	log.Info("Application stopped", "nodes", engine.Nodes())

	return nil
}

func newBot(logger *slog.Logger, conf config.Bot, controller *match.Controller, moveOracle *oracle.Oracle) (service.BotService, error) {
	if !conf.Enabled {
		return nil, nil //nolint: nilnil // a disabled bot is not an error
	}

	mark, err := entity.ParseCell(conf.Mark)
	if err != nil {
		return nil, fmt.Errorf("invalid bot mark: %w", err)
	}

	return service.NewBotService(logger, mark, conf.Level, conf.Seed, controller, moveOracle)
}
