package ports

import (
	"context"

	"github.com/ringside/blackjack-api/internal/core/domain"
)

// SaveGameInput carries a finished round submitted by the client.
type SaveGameInput struct {
	UserID         int64
	PlayerHand     domain.Hand
	DealerHand     domain.Hand
	Result         domain.Result
	PlayerScore    int
	DealerScore    int
	IdempotencyKey string
}

// SaveGameResult is returned after a save.
type SaveGameResult struct {
	RecordID int64
	// Replayed is true when the idempotency key matched an earlier save.
	Replayed bool
}

// HistoryService persists finished rounds and reports on them.
type HistoryService interface {
	Save(ctx context.Context, input SaveGameInput) (*SaveGameResult, error)
	History(ctx context.Context, userID int64, limit int) ([]*domain.GameRecord, error)
	Stats(ctx context.Context, userID int64) (*domain.Stats, error)
}
