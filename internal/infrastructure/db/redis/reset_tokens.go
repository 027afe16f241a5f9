package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dbu-council/council-system/internal/core/domain"
)

const defaultResetTokenTTL = 10 * time.Minute

// ResetTokenStore holds single-use password-reset tokens in Redis.
// Key format: reset:<token>, value is the account id.
type ResetTokenStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewResetTokenStore creates a ResetTokenStore wrapping the given client.
// A non-positive ttl falls back to the default.
func NewResetTokenStore(client *redis.Client, ttl time.Duration) *ResetTokenStore {
	if ttl <= 0 {
		ttl = defaultResetTokenTTL
	}
	return &ResetTokenStore{client: client, ttl: ttl}
}

// Save stores the token against the account id with the configured TTL.
func (s *ResetTokenStore) Save(ctx context.Context, token, accountID string) error {
	if err := s.client.Set(ctx, s.key(token), accountID, s.ttl).Err(); err != nil {
		return fmt.Errorf("save reset token: %w", err)
	}
	return nil
}

// Consume returns the account id for token and deletes it in the same
// operation, so a token cannot be redeemed twice.
func (s *ResetTokenStore) Consume(ctx context.Context, token string) (string, error) {
	accountID, err := s.client.GetDel(ctx, s.key(token)).Result()
	if errors.Is(err, redis.Nil) {
		return "", domain.ErrInvalidResetToken
	}
	if err != nil {
		return "", fmt.Errorf("consume reset token: %w", err)
	}
	return accountID, nil
}

func (s *ResetTokenStore) key(token string) string {
	return "reset:" + token
}
