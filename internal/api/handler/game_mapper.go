package handler

import (
	"github.com/ringside/blackjack-api/internal/core/domain"
	"github.com/ringside/blackjack-api/internal/core/ports"
)

// --- Request → Service input ---

func toCards(in []cardRequest) []domain.Card {
	out := make([]domain.Card, len(in))
	for i, c := range in {
		out[i] = domain.Card{Suit: domain.Suit(c.Suit), Rank: domain.Rank(c.Rank)}
	}
	return out
}

func toRoundInput(req roundRequest, userID int64) ports.RoundInput {
	return ports.RoundInput{
		UserID:     userID,
		Deck:       domain.Deck(toCards(req.Deck)),
		PlayerHand: domain.Hand(toCards(req.PlayerHand)),
		DealerHand: domain.Hand(toCards(req.DealerHand)),
	}
}

func toSaveInput(req saveGameRequest, userID int64, idempotencyKey string) ports.SaveGameInput {
	return ports.SaveGameInput{
		UserID:         userID,
		PlayerHand:     domain.Hand(toCards(req.PlayerHand)),
		DealerHand:     domain.Hand(toCards(req.DealerHand)),
		Result:         domain.Result(req.Result),
		PlayerScore:    req.PlayerScore,
		DealerScore:    req.DealerScore,
		IdempotencyKey: idempotencyKey,
	}
}

// --- Service output → Response ---

func toRoundResponse(v *ports.RoundView) roundResponse {
	return roundResponse{
		PlayerHand:     v.PlayerHand,
		DealerHand:     v.DealerHand,
		FullDealerHand: v.FullDealerHand,
		PlayerScore:    v.PlayerScore,
		DealerScore:    v.DealerScore,
		Deck:           v.Deck,
		GameOver:       v.GameOver,
		Result:         v.Result,
		Blackjack:      v.Blackjack,
	}
}

func toGameRecordResponses(records []*domain.GameRecord) []gameRecordResponse {
	out := make([]gameRecordResponse, 0, len(records))
	for _, r := range records {
		out = append(out, gameRecordResponse{
			ID:          r.ID,
			UserID:      r.UserID,
			PlayerHand:  r.PlayerHand,
			DealerHand:  r.DealerHand,
			Result:      r.Result,
			PlayerScore: r.PlayerScore,
			DealerScore: r.DealerScore,
			PlayedAt:    r.PlayedAt,
		})
	}
	return out
}
