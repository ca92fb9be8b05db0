//go:build integration_redis

package repo_test

import (
	"context"
	"testing"

	"birdspot/internal/platform/store/storetest"
	"birdspot/internal/services/quota/repo"
)

func TestRedisLedger(t *testing.T) {
	rdb := storetest.RedisClient(t)
	exerciseLedger(t, repo.NewRedis(rdb))

	ctx := context.Background()
	l := repo.NewRedis(rdb)
	if _, err := l.Increment(ctx, "carol", "2026-05-01"); err != nil {
		t.Fatalf("increment: %v", err)
	}
	if v, err := rdb.Get(ctx, repo.Key("carol", "2026-05-01")).Int(); err != nil || v != 1 {
		t.Fatalf("raw key = %d %v", v, err)
	}
	if ttl := rdb.TTL(ctx, repo.Key("carol", "2026-05-01")).Val(); ttl <= 0 {
		t.Fatalf("counter has no expiry: %v", ttl)
	}
}
