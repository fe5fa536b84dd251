package handler

import (
	"time"

	"github.com/ringside/blackjack-api/internal/core/domain"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request types ---

type cardRequest struct {
	Suit string `json:"suit" validate:"required,oneof=♠ ♥ ♦ ♣"`
	Rank string `json:"rank" validate:"required,oneof=A 2 3 4 5 6 7 8 9 10 J Q K"`
}

type roundRequest struct {
	Deck       []cardRequest `json:"deck"       validate:"required,dive"`
	PlayerHand []cardRequest `json:"playerHand" validate:"required,min=2,dive"`
	DealerHand []cardRequest `json:"dealerHand" validate:"required,len=2,dive"`
}

type saveGameRequest struct {
	PlayerHand  []cardRequest `json:"playerHand"  validate:"required,min=1,dive"`
	DealerHand  []cardRequest `json:"dealerHand"  validate:"required,min=1,dive"`
	Result      string        `json:"result"      validate:"required,oneof=win lose push"`
	PlayerScore int           `json:"playerScore" validate:"required,gt=0"`
	DealerScore int           `json:"dealerScore" validate:"required,gt=0"`
}

// --- Response types ---

type roundResponse struct {
	PlayerHand     domain.Hand    `json:"playerHand"`
	DealerHand     domain.Hand    `json:"dealerHand"`
	FullDealerHand domain.Hand    `json:"fullDealerHand"`
	PlayerScore    int            `json:"playerScore"`
	DealerScore    *int           `json:"dealerScore"`
	Deck           domain.Deck    `json:"deck"`
	GameOver       bool           `json:"gameOver"`
	Result         *domain.Result `json:"result"`
	Blackjack      bool           `json:"blackjack"`
}

type saveGameResponse struct {
	Success  bool  `json:"success"`
	RecordID int64 `json:"recordId"`
	Replayed bool  `json:"replayed,omitempty"`
}

type gameRecordResponse struct {
	ID          int64         `json:"id"`
	UserID      int64         `json:"userId"`
	PlayerHand  domain.Hand   `json:"playerHand"`
	DealerHand  domain.Hand   `json:"dealerHand"`
	Result      domain.Result `json:"result"`
	PlayerScore int           `json:"playerScore"`
	DealerScore int           `json:"dealerScore"`
	PlayedAt    time.Time     `json:"playedAt"`
}
