package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ringside/blackjack-api/internal/core/domain"
	"github.com/ringside/blackjack-api/internal/core/ports"
)

// GameRepository implements ports.GameRepository on the game_history table.
type GameRepository struct {
	db *gorm.DB
}

// NewGameRepository creates a new GameRepository.
func NewGameRepository(db *gorm.DB) *GameRepository {
	return &GameRepository{db: db}
}

var _ ports.GameRepository = (*GameRepository)(nil)

func (r *GameRepository) Create(ctx context.Context, record *domain.GameRecord) error {
	if record.PlayedAt.IsZero() {
		record.PlayedAt = time.Now().UTC()
	}
	m, err := newGameModel(record)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(m).Error; err != nil {
		return fmt.Errorf("%w: create game: %w", domain.ErrStorage, err)
	}
	record.ID = m.ID
	return nil
}

// ListRecent returns up to limit records, newest first.
func (r *GameRepository) ListRecent(ctx context.Context, userID int64, limit int) ([]*domain.GameRecord, error) {
	var rows []gameModel
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("played_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("%w: list games: %w", domain.ErrStorage, err)
	}

	records := make([]*domain.GameRecord, 0, len(rows))
	for i := range rows {
		rec, err := rows[i].toDomain()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrStorage, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

type totalsRow struct {
	TotalGames     int64
	Wins           int64
	Losses         int64
	Pushes         int64
	SumPlayerScore int64
	SumDealerScore int64
	HighestScore   sql.NullInt64
	FirstGame      sql.NullTime
	LastGame       sql.NullTime
}

// Totals aggregates all of the user's games in one query.
func (r *GameRepository) Totals(ctx context.Context, userID int64) (*domain.GameTotals, error) {
	var row totalsRow
	err := r.db.WithContext(ctx).
		Model(&gameModel{}).
		Select(`COUNT(*) AS total_games,
			COALESCE(SUM(CASE WHEN result = 'win' THEN 1 ELSE 0 END), 0) AS wins,
			COALESCE(SUM(CASE WHEN result = 'lose' THEN 1 ELSE 0 END), 0) AS losses,
			COALESCE(SUM(CASE WHEN result = 'push' THEN 1 ELSE 0 END), 0) AS pushes,
			COALESCE(SUM(player_score), 0) AS sum_player_score,
			COALESCE(SUM(dealer_score), 0) AS sum_dealer_score,
			MAX(player_score) AS highest_score,
			MIN(played_at) AS first_game,
			MAX(played_at) AS last_game`).
		Where("user_id = ?", userID).
		Scan(&row).Error
	if err != nil {
		return nil, fmt.Errorf("%w: game totals: %w", domain.ErrStorage, err)
	}
	return row.toDomain(), nil
}

func (row totalsRow) toDomain() *domain.GameTotals {
	t := &domain.GameTotals{
		TotalGames:     row.TotalGames,
		Wins:           row.Wins,
		Losses:         row.Losses,
		Pushes:         row.Pushes,
		SumPlayerScore: row.SumPlayerScore,
		SumDealerScore: row.SumDealerScore,
	}
	if row.HighestScore.Valid {
		t.HighestScore = int(row.HighestScore.Int64)
	}
	if row.FirstGame.Valid {
		first := row.FirstGame.Time.UTC()
		t.FirstGame = &first
	}
	if row.LastGame.Valid {
		last := row.LastGame.Time.UTC()
		t.LastGame = &last
	}
	return t
}
