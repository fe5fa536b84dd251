package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/ringside/blackjack-api/internal/api/metrics"
	"github.com/ringside/blackjack-api/internal/core/domain"
	"github.com/ringside/blackjack-api/internal/core/ports"
)

type roundEventService struct {
	repo ports.RoundEventRepository
	log  zerolog.Logger
}

// NewRoundEventService returns a RoundEventService implementation.
func NewRoundEventService(repo ports.RoundEventRepository, log zerolog.Logger) ports.RoundEventService {
	return &roundEventService{repo: repo, log: log}
}

// Process writes one round event to the audit trail.
func (s *roundEventService) Process(ctx context.Context, event domain.RoundEvent) error {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	start := time.Now()
	err := s.repo.InsertEvent(ctx, &event)
	metrics.AuditWriteDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.AuditEventsTotal.WithLabelValues("failed").Inc()
		return fmt.Errorf("process round event: %w", err)
	}
	metrics.AuditEventsTotal.WithLabelValues("written").Inc()

	s.log.Debug().
		Int64("user_id", event.UserID).
		Str("action", string(event.Action)).
		Bool("game_over", event.GameOver).
		Msg("round event recorded")

	return nil
}
