package ports

import (
	"context"

	"github.com/ringside/blackjack-api/internal/core/domain"
)

// GameRepository is the history store for finished rounds.
type GameRepository interface {
	// Create inserts the record and fills in its ID and PlayedAt.
	Create(ctx context.Context, record *domain.GameRecord) error
	// ListRecent returns the user's newest records first.
	ListRecent(ctx context.Context, userID int64, limit int) ([]*domain.GameRecord, error)
	// Totals aggregates every record of the user.
	Totals(ctx context.Context, userID int64) (*domain.GameTotals, error)
}

// IdempotencyStore remembers which record a save idempotency key produced.
type IdempotencyStore interface {
	// Reserve claims key for the user. When the key was already completed it
	// returns the stored record ID and reserved=false. A key claimed but not
	// yet completed yields domain.ErrSaveInProgress.
	Reserve(ctx context.Context, userID int64, key string) (recordID int64, reserved bool, err error)
	// Complete binds a reserved key to the record it produced.
	Complete(ctx context.Context, userID int64, key string, recordID int64) error
	// Release drops a reservation whose save failed.
	Release(ctx context.Context, userID int64, key string) error
}
