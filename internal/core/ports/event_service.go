package ports

import (
	"context"

	"github.com/ringside/blackjack-api/internal/core/domain"
)

// RoundEventService records audited round events.
type RoundEventService interface {
	Process(ctx context.Context, event domain.RoundEvent) error
}
