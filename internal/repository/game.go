package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rocketscienceinc/reversi-backend/internal/apperror"
	"github.com/rocketscienceinc/reversi-backend/internal/entity"
)

var ErrGameNotFound = errors.New("game not found")

const waitingPublicGamesKey = "games:waiting:public"

type GameRepository interface {
	CreateOrUpdate(ctx context.Context, game *entity.Game) error
	GetByID(ctx context.Context, id string) (*entity.Game, error)
	GetWaitingPublicGame(ctx context.Context) (*entity.Game, error)
	DeleteByID(ctx context.Context, id string) error
}

type dbGame struct {
	client *redis.Client
}

func NewGameRepository(client *redis.Client) GameRepository {
	return &dbGame{
		client: client,
	}
}

func (that *dbGame) CreateOrUpdate(ctx context.Context, game *entity.Game) error {
	gameJSON, err := json.Marshal(game)
	if err != nil {
		return fmt.Errorf("could not marshal game: %w", err)
	}

	gameKey := "game:" + game.ID
	if err = that.client.Set(ctx, gameKey, gameJSON, 0).Err(); err != nil {
		return fmt.Errorf("failed to set game: %w", err)
	}

	// Public games waiting for an opponent are kept in a side set so
	// matchmaking can pick one without scanning keys.
	if game.IsPublic() && game.IsWaiting() {
		if err = that.client.SAdd(ctx, waitingPublicGamesKey, game.ID).Err(); err != nil {
			return fmt.Errorf("failed to add game to waiting set: %w", err)
		}
		return nil
	}

	if err = that.client.SRem(ctx, waitingPublicGamesKey, game.ID).Err(); err != nil {
		return fmt.Errorf("failed to remove game from waiting set: %w", err)
	}

	return nil
}

func (that *dbGame) GetByID(ctx context.Context, id string) (*entity.Game, error) {
	gameKey := "game:" + id

	response, err := that.client.Get(ctx, gameKey).Result()

	if errors.Is(err, redis.Nil) {
		return &entity.Game{}, ErrGameNotFound
	}

	if err != nil {
		return &entity.Game{}, fmt.Errorf("failed to get game by ID: %w", err)
	}

	var existingGame entity.Game
	if err = json.Unmarshal([]byte(response), &existingGame); err != nil {
		return &entity.Game{}, fmt.Errorf("failed to unmarshal game: %w", err)
	}

	return &existingGame, nil
}

func (that *dbGame) GetWaitingPublicGame(ctx context.Context) (*entity.Game, error) {
	id, err := that.client.SRandMember(ctx, waitingPublicGamesKey).Result()

	if errors.Is(err, redis.Nil) {
		return nil, apperror.ErrNoActiveGames
	}

	if err != nil {
		return nil, fmt.Errorf("failed to pick waiting game: %w", err)
	}

	game, err := that.GetByID(ctx, id)
	if errors.Is(err, ErrGameNotFound) {
		// Stale entry; drop it so the set heals itself.
		if remErr := that.client.SRem(ctx, waitingPublicGamesKey, id).Err(); remErr != nil {
			return nil, fmt.Errorf("failed to remove stale waiting game: %w", remErr)
		}
		return nil, apperror.ErrNoActiveGames
	}

	if err != nil {
		return nil, err
	}

	return game, nil
}

func (that *dbGame) DeleteByID(ctx context.Context, id string) error {
	gameKey := "game:" + id

	if err := that.client.Del(ctx, gameKey).Err(); err != nil {
		return fmt.Errorf("failed to delete game by ID: %w", err)
	}

	if err := that.client.SRem(ctx, waitingPublicGamesKey, id).Err(); err != nil {
		return fmt.Errorf("failed to remove game from waiting set: %w", err)
	}

	return nil
}
