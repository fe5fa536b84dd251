package ports

import (
	"context"

	"github.com/ringside/blackjack-api/internal/core/domain"
)

// RoundEventRepository persists the round audit trail.
type RoundEventRepository interface {
	InsertEvent(ctx context.Context, event *domain.RoundEvent) error
}
