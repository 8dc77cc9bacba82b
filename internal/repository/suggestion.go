package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/tictactoe-oracle/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-oracle/internal/entity"
)

const suggestionKeyPrefix = "suggestion:"

type SuggestionRepository interface {
	Get(ctx context.Context, state entity.GameState) (entity.Suggestion, error)
	Set(ctx context.Context, state entity.GameState, suggestion entity.Suggestion) error
	DeleteAll(ctx context.Context) (int64, error)
}

type dbSuggestion struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSuggestionRepository - a zero ttl keeps entries forever. Best moves
// never change for a given position, so expiry only bounds memory.
func NewSuggestionRepository(client *redis.Client, ttl time.Duration) SuggestionRepository {
	return &dbSuggestion{
		client: client,
		ttl:    ttl,
	}
}

func (that *dbSuggestion) Get(ctx context.Context, state entity.GameState) (entity.Suggestion, error) {
	response, err := that.client.Get(ctx, suggestionKey(state)).Result()
	if errors.Is(err, redis.Nil) {
		return entity.Suggestion{}, apperror.ErrSuggestionNotFound
	}

	if err != nil {
		return entity.Suggestion{}, fmt.Errorf("failed to get suggestion: %w", err)
	}

	var suggestion entity.Suggestion
	if err = json.Unmarshal([]byte(response), &suggestion); err != nil {
		return entity.Suggestion{}, fmt.Errorf("failed to unmarshal suggestion: %w", err)
	}

	return suggestion, nil
}

func (that *dbSuggestion) Set(ctx context.Context, state entity.GameState, suggestion entity.Suggestion) error {
	suggestionJSON, err := json.Marshal(suggestion)
	if err != nil {
		return fmt.Errorf("could not marshal suggestion: %w", err)
	}

	if err = that.client.Set(ctx, suggestionKey(state), suggestionJSON, that.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set suggestion: %w", err)
	}

	return nil
}

// DeleteAll - removes every cached suggestion and reports how many were dropped.
func (that *dbSuggestion) DeleteAll(ctx context.Context) (int64, error) {
	var deleted int64

	iter := that.client.Scan(ctx, 0, suggestionKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		n, err := that.client.Del(ctx, iter.Val()).Result()
		if err != nil {
			return deleted, fmt.Errorf("failed to delete suggestion: %w", err)
		}
		deleted += n
	}

	if err := iter.Err(); err != nil {
		return deleted, fmt.Errorf("failed to scan suggestions: %w", err)
	}

	return deleted, nil
}

func suggestionKey(state entity.GameState) string {
	return suggestionKeyPrefix + state.Key()
}
