package repo

import (
	"context"
	"encoding/json"
	"errors"

	perr "birdspot/internal/platform/errors"

	"github.com/redis/go-redis/v9"
)

// KeyPrefix namespaces cache entries in a shared redis
const KeyPrefix = "birdspot:cache:"

// Redis keeps each result as a plain string key with no expiry
type Redis struct {
	rdb redis.UniversalClient
}

// NewRedis builds the redis repo
func NewRedis(rdb redis.UniversalClient) *Redis {
	if rdb == nil {
		panic("resultcache: redis backend requires a client")
	}
	return &Redis{rdb: rdb}
}

var _ Repo = (*Redis)(nil)

// Get implements Repo
func (r *Redis) Get(ctx context.Context, key string) (json.RawMessage, bool, error) {
	b, err := r.rdb.Get(ctx, KeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, perr.FromRedis(err, "result cache get")
	}
	return json.RawMessage(b), true, nil
}

// Set implements Repo
func (r *Redis) Set(ctx context.Context, key string, value json.RawMessage) error {
	return perr.FromRedis(r.rdb.Set(ctx, KeyPrefix+key, []byte(value), 0).Err(), "result cache set")
}

// Delete implements Repo
func (r *Redis) Delete(ctx context.Context, key string) (bool, error) {
	n, err := r.rdb.Del(ctx, KeyPrefix+key).Result()
	if err != nil {
		return false, perr.FromRedis(err, "result cache delete")
	}
	return n > 0, nil
}

// Count implements Repo by scanning the key prefix
func (r *Redis) Count(ctx context.Context) (int64, error) {
	var (
		n      int64
		cursor uint64
	)
	for {
		keys, next, err := r.rdb.Scan(ctx, cursor, KeyPrefix+"*", 1000).Result()
		if err != nil {
			return 0, perr.FromRedis(err, "result cache count")
		}
		n += int64(len(keys))
		if next == 0 {
			return n, nil
		}
		cursor = next
	}
}
