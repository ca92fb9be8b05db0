//go:build integration_redis

package repo_test

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"birdspot/internal/platform/store/storetest"
	"birdspot/internal/services/resultcache/repo"
)

func TestRedisRoundTrip(t *testing.T) {
	rdb := storetest.RedisClient(t)
	r := repo.NewRedis(rdb)
	ctx := context.Background()

	if _, ok, err := r.Get(ctx, "audio_missing"); ok || err != nil {
		t.Fatalf("missing key = %v %v", ok, err)
	}
	for i := 0; i < 3; i++ {
		if err := r.Set(ctx, fmt.Sprintf("audio_%d", i), json.RawMessage(`{"i":1}`)); err != nil {
			t.Fatalf("set: %v", err)
		}
	}
	// unrelated keys are not counted
	if err := rdb.Set(ctx, "other:key", "x", 0).Err(); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if n, err := r.Count(ctx); err != nil || n != 3 {
		t.Fatalf("count = %d %v", n, err)
	}
	ttl, err := rdb.TTL(ctx, repo.KeyPrefix+"audio_0").Result()
	if err != nil || ttl >= 0 {
		t.Fatalf("entries must not expire, ttl = %v %v", ttl, err)
	}
	got, ok, err := r.Get(ctx, "audio_1")
	if err != nil || !ok || string(got) != `{"i":1}` {
		t.Fatalf("get = %s %v %v", got, ok, err)
	}
	if ok, _ := r.Delete(ctx, "audio_1"); !ok {
		t.Fatalf("delete reported missing")
	}
}
