package utils

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenBlacklist invalidates JWTs on logout. Entries live in redis with a
// TTL matching the token's remaining lifetime, so they expire on their own.
type TokenBlacklist struct {
	rdb *redis.Client
}

func NewTokenBlacklist(rdb *redis.Client) *TokenBlacklist {
	return &TokenBlacklist{rdb: rdb}
}

func blacklistKey(token string) string { return "blacklist:" + token }

func (b *TokenBlacklist) Revoke(ctx context.Context, token string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil // already expired
	}
	return b.rdb.Set(ctx, blacklistKey(token), "1", ttl).Err()
}

// IsRevoked fails open: a redis outage must not lock every user out.
func (b *TokenBlacklist) IsRevoked(ctx context.Context, token string) bool {
	n, err := b.rdb.Exists(ctx, blacklistKey(token)).Result()
	if err != nil {
		return false
	}
	return n > 0
}
