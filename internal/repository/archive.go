package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rocketscienceinc/reversi-backend/internal/entity"
)

// ArchivedGame is the durable record of a finished match.
type ArchivedGame struct {
	ID         string    `json:"id"`
	Winner     string    `json:"winner"`
	BlackScore int       `json:"black_score"`
	WhiteScore int       `json:"white_score"`
	FinishedAt time.Time `json:"finished_at"`
}

type ArchiveRepository interface {
	Save(ctx context.Context, game *entity.Game, scores map[string]int) error
	GetByID(ctx context.Context, id string) (*ArchivedGame, error)
}

type dbArchive struct {
	conn *sql.DB
}

func NewArchiveRepository(conn *sql.DB) ArchiveRepository {
	return &dbArchive{
		conn: conn,
	}
}

func (that *dbArchive) Save(ctx context.Context, game *entity.Game, scores map[string]int) error {
	query := `INSERT OR REPLACE INTO archived_games (id, winner, black_score, white_score, finished_at)
		VALUES (?, ?, ?, ?, ?)`

	_, err := that.conn.ExecContext(ctx, query,
		game.ID,
		game.Winner,
		scores[entity.PlayerBlack],
		scores[entity.PlayerWhite],
		time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to archive game: %w", err)
	}

	return nil
}

func (that *dbArchive) GetByID(ctx context.Context, id string) (*ArchivedGame, error) {
	query := `SELECT id, winner, black_score, white_score, finished_at
		FROM archived_games WHERE id = ?`

	var archived ArchivedGame

	row := that.conn.QueryRowContext(ctx, query, id)
	err := row.Scan(&archived.ID, &archived.Winner, &archived.BlackScore, &archived.WhiteScore, &archived.FinishedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrGameNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get archived game: %w", err)
	}

	return &archived, nil
}
