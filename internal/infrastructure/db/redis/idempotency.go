package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ringside/blackjack-api/internal/core/domain"
	"github.com/ringside/blackjack-api/internal/core/ports"
)

const (
	defaultIdempotencyTTL = 24 * time.Hour
	pendingMarker         = "pending"
	// pendingTTL bounds how long a reservation that never completed blocks
	// retries with the same key.
	pendingTTL = 30 * time.Second
)

// IdempotencyStore remembers which game record a save key produced.
// Key format: idem:save:<user_id>:<key>
// The value is "pending" while the save runs, then the record ID.
type IdempotencyStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewIdempotencyStore creates an IdempotencyStore wrapping the given Redis
// client. A ttl <= 0 selects 24 hours.
func NewIdempotencyStore(client *redis.Client, ttl time.Duration) *IdempotencyStore {
	if ttl <= 0 {
		ttl = defaultIdempotencyTTL
	}
	return &IdempotencyStore{client: client, ttl: ttl}
}

var _ ports.IdempotencyStore = (*IdempotencyStore)(nil)

// Reserve claims key for the user with SETNX. The pending marker lives for
// pendingTTL; Complete extends the key to the full ttl.
func (s *IdempotencyStore) Reserve(ctx context.Context, userID int64, key string) (int64, bool, error) {
	k := s.key(userID, key)
	ok, err := s.client.SetNX(ctx, k, pendingMarker, min(s.ttl, pendingTTL)).Result()
	if err != nil {
		return 0, false, fmt.Errorf("%w: idempotency reserve: %w", domain.ErrStorage, err)
	}
	if ok {
		return 0, true, nil
	}

	val, err := s.client.Get(ctx, k).Result()
	if errors.Is(err, redis.Nil) {
		// expired between SETNX and GET
		return s.Reserve(ctx, userID, key)
	}
	if err != nil {
		return 0, false, fmt.Errorf("%w: idempotency lookup: %w", domain.ErrStorage, err)
	}
	if val == pendingMarker {
		return 0, false, domain.ErrSaveInProgress
	}
	id, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("%w: idempotency value %q: %w", domain.ErrStorage, val, err)
	}
	return id, false, nil
}

// Complete binds the key to the record it produced, refreshing the TTL.
func (s *IdempotencyStore) Complete(ctx context.Context, userID int64, key string, recordID int64) error {
	if err := s.client.Set(ctx, s.key(userID, key), strconv.FormatInt(recordID, 10), s.ttl).Err(); err != nil {
		return fmt.Errorf("%w: idempotency complete: %w", domain.ErrStorage, err)
	}
	return nil
}

// Release drops a reservation whose save failed.
func (s *IdempotencyStore) Release(ctx context.Context, userID int64, key string) error {
	if err := s.client.Del(ctx, s.key(userID, key)).Err(); err != nil {
		return fmt.Errorf("%w: idempotency release: %w", domain.ErrStorage, err)
	}
	return nil
}

func (s *IdempotencyStore) key(userID int64, key string) string {
	return fmt.Sprintf("idem:save:%d:%s", userID, key)
}
