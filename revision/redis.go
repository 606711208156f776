package revision

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis shares per-slot revisions across processes and survives restarts.
// Optionally, a TTL can be applied to revision keys to bound growth for
// short-lived slots.
type Redis struct {
	rdb redis.UniversalClient
	ns  string        // logical namespace; should match the slot store namespace
	ttl time.Duration // 0 disables expiry
}

var _ Store = (*Redis)(nil)

func NewRedis(client redis.UniversalClient, namespace string) *Redis {
	return &Redis{rdb: client, ns: namespace}
}

// NewRedisWithTTL creates a Redis-backed revision store with TTL.
// If ttl <= 0, keys do not expire.
func NewRedisWithTTL(client redis.UniversalClient, namespace string, ttl time.Duration) *Redis {
	return &Redis{rdb: client, ns: namespace, ttl: ttl}
}

func (s *Redis) key(k string) string { return "rev:" + s.ns + ":" + k }

func (s *Redis) Current(ctx context.Context, slotKey string) (uint64, error) {
	res, err := s.rdb.Get(ctx, s.key(slotKey)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	u, err := strconv.ParseUint(res, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("redis revision parse: %w", err)
	}
	return u, nil
}

// Bump increments the revision and (optionally) refreshes TTL.
// When ttl > 0, INCR + EXPIRE are pipelined in a single round-trip.
func (s *Redis) Bump(ctx context.Context, slotKey string) (uint64, error) {
	k := s.key(slotKey)

	if s.ttl <= 0 {
		v, err := s.rdb.Incr(ctx, k).Result()
		if err != nil {
			return 0, err
		}
		return uint64(v), nil
	}

	var incr *redis.IntCmd
	_, err := s.rdb.Pipelined(ctx, func(p redis.Pipeliner) error {
		incr = p.Incr(ctx, k)
		p.Expire(ctx, k, s.ttl)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return uint64(incr.Val()), nil
}

// Close is a no-op; the client is owned by whoever created it.
func (s *Redis) Close(context.Context) error { return nil }
