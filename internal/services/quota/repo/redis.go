package repo

import (
	"context"
	"errors"
	"time"

	perr "birdspot/internal/platform/errors"
	"birdspot/internal/services/quota/domain"

	"github.com/redis/go-redis/v9"
)

// KeyPrefix namespaces counters in a shared redis
const KeyPrefix = "birdspot:quota:"

// Retention bounds how long a day counter outlives its day
const Retention = 48 * time.Hour

// incrementIfBelow returns {count, accepted}
var incrementIfBelow = redis.NewScript(`
local cur = tonumber(redis.call('GET', KEYS[1]) or '0')
local limit = tonumber(ARGV[1])
if cur >= limit then
  return {cur, 0}
end
local n = redis.call('INCR', KEYS[1])
redis.call('EXPIRE', KEYS[1], ARGV[2])
return {n, 1}
`)

// Redis stores one integer key per identity and day
type Redis struct {
	rdb redis.UniversalClient
}

// NewRedis builds the redis ledger
func NewRedis(rdb redis.UniversalClient) *Redis {
	if rdb == nil {
		panic("quota: redis backend requires a client")
	}
	return &Redis{rdb: rdb}
}

var _ domain.Ledger = (*Redis)(nil)

// Key is the redis key of one counter
func Key(identity, day string) string { return KeyPrefix + day + ":" + identity }

// Count implements domain.Ledger
func (r *Redis) Count(ctx context.Context, identity, day string) (int, error) {
	n, err := r.rdb.Get(ctx, Key(identity, day)).Int()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, perr.FromRedis(err, "quota count")
	}
	return n, nil
}

// Increment implements domain.Ledger
func (r *Redis) Increment(ctx context.Context, identity, day string) (int, error) {
	k := Key(identity, day)
	var incr *redis.IntCmd
	_, err := r.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		incr = p.Incr(ctx, k)
		p.Expire(ctx, k, Retention)
		return nil
	})
	if err != nil {
		return 0, perr.FromRedis(err, "quota increment")
	}
	return int(incr.Val()), nil
}

// IncrementIfBelow implements domain.Ledger with a Lua script
func (r *Redis) IncrementIfBelow(ctx context.Context, identity, day string, limit int) (int, bool, error) {
	res, err := incrementIfBelow.Run(ctx, r.rdb, []string{Key(identity, day)}, limit, int(Retention.Seconds())).Int64Slice()
	if err != nil {
		return 0, false, perr.FromRedis(err, "quota increment if below")
	}
	if len(res) != 2 {
		return 0, false, perr.Internalf("quota script returned %d values", len(res))
	}
	return int(res[0]), res[1] == 1, nil
}

// Reset implements domain.Ledger
func (r *Redis) Reset(ctx context.Context, identity, day string) error {
	return perr.FromRedis(r.rdb.Del(ctx, Key(identity, day)).Err(), "quota reset")
}
