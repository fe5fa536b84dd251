package domain

import "time"

// RoundAction names a step of the round engine.
type RoundAction string

const (
	ActionStart RoundAction = "start"
	ActionHit   RoundAction = "hit"
	ActionStand RoundAction = "stand"
)

// RoundEvent is one audited engine step: what the client submitted was
// replayed and this is what the engine produced.
type RoundEvent struct {
	UserID      int64
	Action      RoundAction
	PlayerHand  Hand
	DealerHand  Hand
	PlayerScore int
	DealerScore int
	GameOver    bool
	Result      Result // empty while the round is open
	DeckSize    int
	OccurredAt  time.Time
}
