package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/ringside/blackjack-api/internal/api/metrics"
	"github.com/ringside/blackjack-api/internal/core/domain"
	"github.com/ringside/blackjack-api/internal/core/ports"
)

const (
	DefaultHistoryLimit = 10
	MaxHistoryLimit     = 100
)

type historyService struct {
	repo        ports.GameRepository
	idempotency ports.IdempotencyStore
	log         zerolog.Logger
}

// NewHistoryService returns a HistoryService implementation. A nil
// idempotency store saves every request as a new record.
func NewHistoryService(repo ports.GameRepository, idempotency ports.IdempotencyStore, log zerolog.Logger) ports.HistoryService {
	return &historyService{repo: repo, idempotency: idempotency, log: log}
}

// Save validates and persists a finished round. A repeated idempotency key
// returns the record the first request created.
func (s *historyService) Save(ctx context.Context, in ports.SaveGameInput) (*ports.SaveGameResult, error) {
	record := &domain.GameRecord{
		UserID:      in.UserID,
		PlayerHand:  in.PlayerHand,
		DealerHand:  in.DealerHand,
		Result:      in.Result,
		PlayerScore: in.PlayerScore,
		DealerScore: in.DealerScore,
	}
	if err := record.Validate(); err != nil {
		metrics.GamesSavedTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	useKey := s.idempotency != nil && in.IdempotencyKey != ""
	if useKey {
		existingID, reserved, err := s.idempotency.Reserve(ctx, in.UserID, in.IdempotencyKey)
		if err != nil {
			metrics.GamesSavedTotal.WithLabelValues("error").Inc()
			return nil, fmt.Errorf("save game: %w", err)
		}
		if !reserved {
			metrics.GamesSavedTotal.WithLabelValues("replayed").Inc()
			s.log.Debug().Int64("user_id", in.UserID).Int64("game_id", existingID).Msg("save replayed")
			return &ports.SaveGameResult{RecordID: existingID, Replayed: true}, nil
		}
	}

	if err := s.repo.Create(ctx, record); err != nil {
		if useKey {
			if relErr := s.idempotency.Release(ctx, in.UserID, in.IdempotencyKey); relErr != nil {
				s.log.Warn().Err(relErr).Int64("user_id", in.UserID).Msg("failed to release idempotency key")
			}
		}
		metrics.GamesSavedTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("save game: %w", err)
	}

	if useKey {
		s.complete(ctx, in.UserID, in.IdempotencyKey, record.ID)
	}

	metrics.GamesSavedTotal.WithLabelValues("created").Inc()
	s.log.Info().
		Int64("user_id", in.UserID).
		Int64("game_id", record.ID).
		Str("result", string(record.Result)).
		Msg("game saved")

	return &ports.SaveGameResult{RecordID: record.ID}, nil
}

// complete binds the key to the saved record, trying once more on failure.
// A second failure is only logged; the pending marker then expires on its own.
func (s *historyService) complete(ctx context.Context, userID int64, key string, recordID int64) {
	err := s.idempotency.Complete(ctx, userID, key, recordID)
	if err == nil {
		return
	}
	s.log.Debug().Err(err).Int64("user_id", userID).Int64("game_id", recordID).Msg("retrying idempotency key completion")
	if err = s.idempotency.Complete(ctx, userID, key, recordID); err != nil {
		s.log.Warn().Err(err).Int64("user_id", userID).Int64("game_id", recordID).Msg("failed to complete idempotency key")
	}
}

// History returns the newest records first. limit <= 0 selects the default
// and anything above MaxHistoryLimit is capped.
func (s *historyService) History(ctx context.Context, userID int64, limit int) ([]*domain.GameRecord, error) {
	switch {
	case limit <= 0:
		limit = DefaultHistoryLimit
	case limit > MaxHistoryLimit:
		limit = MaxHistoryLimit
	}

	records, err := s.repo.ListRecent(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("game history: %w", err)
	}
	if records == nil {
		records = []*domain.GameRecord{}
	}
	return records, nil
}

func (s *historyService) Stats(ctx context.Context, userID int64) (*domain.Stats, error) {
	totals, err := s.repo.Totals(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("game stats: %w", err)
	}
	stats := domain.NewStats(*totals)
	return &stats, nil
}
