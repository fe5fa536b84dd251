package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/ringside/blackjack-api/internal/api/metrics"
	"github.com/ringside/blackjack-api/internal/core/domain"
	"github.com/ringside/blackjack-api/internal/core/ports"
)

// EventSink receives audited round events. Enqueue must not block.
type EventSink interface {
	Enqueue(event domain.RoundEvent)
}

type discardSink struct{}

func (discardSink) Enqueue(domain.RoundEvent) {}

// RoundService is the stateless round engine. Nothing about a round is kept
// between requests; clients hold the deck and both hands and resubmit them.
type RoundService struct {
	rng    domain.Random
	events EventSink
	log    zerolog.Logger
}

// NewRoundService returns a RoundService. A nil sink disables auditing.
func NewRoundService(rng domain.Random, events EventSink, log zerolog.Logger) *RoundService {
	if events == nil {
		events = discardSink{}
	}
	return &RoundService{rng: rng, events: events, log: log}
}

// Start shuffles and deals a new round.
func (s *RoundService) Start(_ context.Context, userID int64) (*ports.RoundView, error) {
	round, err := domain.Deal(s.rng)
	if err != nil {
		return nil, err
	}

	if round.Natural() {
		metrics.NaturalsDealtTotal.Inc()
		s.log.Debug().Int64("user_id", userID).Msg("natural dealt")
	}
	return s.finish(userID, domain.ActionStart, round), nil
}

// Hit draws a card for the player from the submitted state.
func (s *RoundService) Hit(_ context.Context, in ports.RoundInput) (*ports.RoundView, error) {
	round, err := s.restore(domain.ActionHit, in)
	if err != nil {
		return nil, err
	}
	if err := round.Hit(); err != nil {
		return nil, s.reject(domain.ActionHit, in.UserID, err)
	}
	return s.finish(in.UserID, domain.ActionHit, round), nil
}

// Stand plays the dealer out from the submitted state and settles the round.
func (s *RoundService) Stand(_ context.Context, in ports.RoundInput) (*ports.RoundView, error) {
	round, err := s.restore(domain.ActionStand, in)
	if err != nil {
		return nil, err
	}
	if err := round.Stand(); err != nil {
		return nil, s.reject(domain.ActionStand, in.UserID, err)
	}
	return s.finish(in.UserID, domain.ActionStand, round), nil
}

func (s *RoundService) restore(action domain.RoundAction, in ports.RoundInput) (*domain.Round, error) {
	round, err := domain.RestoreRound(in.Deck, in.PlayerHand, in.DealerHand)
	if err != nil {
		return nil, s.reject(action, in.UserID, err)
	}
	return round, nil
}

func (s *RoundService) reject(action domain.RoundAction, userID int64, err error) error {
	if errors.Is(err, domain.ErrInvalidState) {
		metrics.RoundRejectionsTotal.WithLabelValues(string(action)).Inc()
		s.log.Info().Err(err).Int64("user_id", userID).Str("action", string(action)).Msg("round state rejected")
	}
	return err
}

func (s *RoundService) finish(userID int64, action domain.RoundAction, round *domain.Round) *ports.RoundView {
	metrics.RoundActionsTotal.WithLabelValues(string(action)).Inc()
	if round.GameOver {
		metrics.RoundOutcomesTotal.WithLabelValues(string(round.Result)).Inc()
	}

	s.events.Enqueue(domain.RoundEvent{
		UserID:      userID,
		Action:      action,
		PlayerHand:  round.PlayerHand,
		DealerHand:  round.DealerHand,
		PlayerScore: round.PlayerScore(),
		DealerScore: round.DealerScore(),
		GameOver:    round.GameOver,
		Result:      round.Result,
		DeckSize:    len(round.Deck),
		OccurredAt:  time.Now().UTC(),
	})

	return viewOf(round)
}

// viewOf renders the round for the client, hiding the hole card while the
// round is open.
func viewOf(r *domain.Round) *ports.RoundView {
	v := &ports.RoundView{
		PlayerHand:     r.PlayerHand,
		FullDealerHand: r.DealerHand,
		PlayerScore:    r.PlayerScore(),
		Deck:           r.Deck,
		GameOver:       r.GameOver,
		Blackjack:      r.Natural(),
	}
	if !r.GameOver {
		v.DealerHand = domain.Hand{r.DealerHand[0], domain.HiddenCard}
		return v
	}

	dealerScore := r.DealerScore()
	result := r.Result
	v.DealerHand = r.DealerHand
	v.DealerScore = &dealerScore
	v.Result = &result
	return v
}
