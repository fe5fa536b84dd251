package ports

import (
	"context"

	"github.com/ringside/blackjack-api/internal/core/domain"
)

// RoundInput is the client-held state resubmitted with every action.
type RoundInput struct {
	UserID     int64
	Deck       domain.Deck
	PlayerHand domain.Hand
	DealerHand domain.Hand
}

// RoundView is what the client sees after an action. While the round is
// open DealerHand conceals the hole card and DealerScore and Result are nil.
type RoundView struct {
	PlayerHand     domain.Hand
	DealerHand     domain.Hand
	FullDealerHand domain.Hand
	PlayerScore    int
	DealerScore    *int
	Deck           domain.Deck
	GameOver       bool
	Result         *domain.Result
	Blackjack      bool
}

// RoundService runs the stateless round engine.
type RoundService interface {
	Start(ctx context.Context, userID int64) (*RoundView, error)
	Hit(ctx context.Context, input RoundInput) (*RoundView, error)
	Stand(ctx context.Context, input RoundInput) (*RoundView, error)
}
