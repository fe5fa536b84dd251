package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/ringside/blackjack-api/internal/core/domain"
	"github.com/ringside/blackjack-api/internal/core/ports"
)

const roundEventsCollection = "round_events"

// RoundEventRepository implements ports.RoundEventRepository using MongoDB.
type RoundEventRepository struct {
	col *mongo.Collection
}

// NewRoundEventRepository creates a new RoundEventRepository.
func NewRoundEventRepository(db *mongo.Database) *RoundEventRepository {
	return &RoundEventRepository{col: db.Collection(roundEventsCollection)}
}

var _ ports.RoundEventRepository = (*RoundEventRepository)(nil)

// roundEventDoc is the stored shape of a round event.
type roundEventDoc struct {
	UserID      int64         `bson:"user_id"`
	Action      string        `bson:"action"`
	PlayerHand  []domain.Card `bson:"player_hand"`
	DealerHand  []domain.Card `bson:"dealer_hand"`
	PlayerScore int           `bson:"player_score"`
	DealerScore int           `bson:"dealer_score"`
	GameOver    bool          `bson:"game_over"`
	Result      string        `bson:"result,omitempty"`
	DeckSize    int           `bson:"deck_size"`
	OccurredAt  time.Time     `bson:"occurred_at"`
	RecordedAt  time.Time     `bson:"recorded_at"`
}

func toRoundEventDoc(e *domain.RoundEvent, now time.Time) roundEventDoc {
	return roundEventDoc{
		UserID:      e.UserID,
		Action:      string(e.Action),
		PlayerHand:  e.PlayerHand,
		DealerHand:  e.DealerHand,
		PlayerScore: e.PlayerScore,
		DealerScore: e.DealerScore,
		GameOver:    e.GameOver,
		Result:      string(e.Result),
		DeckSize:    e.DeckSize,
		OccurredAt:  e.OccurredAt.UTC(),
		RecordedAt:  now.UTC(),
	}
}

// InsertEvent appends a round event to the round_events audit collection.
func (r *RoundEventRepository) InsertEvent(ctx context.Context, event *domain.RoundEvent) error {
	if _, err := r.col.InsertOne(ctx, toRoundEventDoc(event, time.Now())); err != nil {
		return fmt.Errorf("%w: insert round event: %w", domain.ErrStorage, err)
	}
	return nil
}

// EnsureIndexes creates necessary indexes on the round_events collection.
func (r *RoundEventRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "occurred_at", Value: -1}}},
		{Keys: bson.D{{Key: "action", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
