package utils

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestBlacklist(t *testing.T) (*TokenBlacklist, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewTokenBlacklist(rdb), mr
}

func TestRevokeAndCheck(t *testing.T) {
	blacklist, _ := newTestBlacklist(t)
	ctx := context.Background()

	if blacklist.IsRevoked(ctx, "token-a") {
		t.Fatal("fresh token must not be revoked")
	}
	if err := blacklist.Revoke(ctx, "token-a", time.Hour); err != nil {
		t.Fatalf("Revoke: %v", err)
	}
	if !blacklist.IsRevoked(ctx, "token-a") {
		t.Fatal("revoked token must be reported revoked")
	}
	if blacklist.IsRevoked(ctx, "token-b") {
		t.Fatal("other tokens must be unaffected")
	}
}

func TestRevokeEntryExpiresWithTTL(t *testing.T) {
	blacklist, mr := newTestBlacklist(t)
	ctx := context.Background()

	if err := blacklist.Revoke(ctx, "token-a", time.Minute); err != nil {
		t.Fatalf("Revoke: %v", err)
	}
	mr.FastForward(2 * time.Minute)
	if blacklist.IsRevoked(ctx, "token-a") {
		t.Fatal("entry must expire with the token lifetime")
	}
}

func TestRevokeExpiredTokenIsNoOp(t *testing.T) {
	blacklist, _ := newTestBlacklist(t)
	ctx := context.Background()
	if err := blacklist.Revoke(ctx, "token-a", -time.Minute); err != nil {
		t.Fatalf("Revoke of an expired token must be a no-op, got %v", err)
	}
	if blacklist.IsRevoked(ctx, "token-a") {
		t.Fatal("expired token needs no blacklist entry")
	}
}

func TestIsRevokedFailsOpenWhenRedisIsDown(t *testing.T) {
	blacklist, mr := newTestBlacklist(t)
	mr.Close()
	if blacklist.IsRevoked(context.Background(), "token-a") {
		t.Fatal("redis outage must fail open")
	}
}
