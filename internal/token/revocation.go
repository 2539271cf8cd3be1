package token

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const revocationKeyPrefix = "token:revoked:"

// RevocationSet records token IDs revoked before natural expiry. Entries carry
// a TTL equal to the token's remaining lifetime so the set purges itself.
type RevocationSet struct {
	client *redis.Client
}

// NewRevocationSet constructs a RevocationSet backed by Redis.
func NewRevocationSet(client *redis.Client) *RevocationSet {
	return &RevocationSet{client: client}
}

// Add marks a token ID as revoked for the given duration. Idempotent.
func (rs *RevocationSet) Add(ctx context.Context, jti string, ttl time.Duration) error {
	return rs.client.Set(ctx, revocationKeyPrefix+jti, "1", ttl).Err()
}

// Contains reports whether a token ID has been revoked.
func (rs *RevocationSet) Contains(ctx context.Context, jti string) (bool, error) {
	n, err := rs.client.Exists(ctx, revocationKeyPrefix+jti).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
