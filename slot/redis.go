package slot

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/unkn0wn-root/rentslot/internal/util"
)

// Balances are stored as decimal integers so INCRBY/DECRBY apply directly.
// Both scripts return 0 when the debited account cannot cover the amount.
var (
	transferScript = redis.NewScript(`
local from = tonumber(redis.call('GET', KEYS[1]) or '0')
local amt = tonumber(ARGV[1])
if from < amt then
	return 0
end
redis.call('DECRBY', KEYS[1], amt)
redis.call('INCRBY', KEYS[2], amt)
return 1
`)

	adjustScript = redis.NewScript(`
local cur = tonumber(redis.call('GET', KEYS[1]) or '0')
local delta = tonumber(ARGV[1])
if cur + delta < 0 then
	return 0
end
redis.call('INCRBY', KEYS[1], delta)
return 1
`)
)

// RedisLedger keeps balances in Redis and applies every transfer atomically
// via a Lua script, so it is safe to share across processes.
type RedisLedger struct {
	rdb redis.UniversalClient
	ns  string // logical namespace; should match StoreOptions.Namespace
}

var _ Ledger = (*RedisLedger)(nil)

func NewRedisLedger(client redis.UniversalClient, namespace string) *RedisLedger {
	return &RedisLedger{rdb: client, ns: namespace}
}

func (l *RedisLedger) key(a Account) string { return util.StorageKey("acct", l.ns, string(a)) }

// Balance returns the current balance. Missing accounts hold zero.
func (l *RedisLedger) Balance(ctx context.Context, a Account) (uint64, error) {
	res, err := l.rdb.Get(ctx, l.key(a)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	u, err := strconv.ParseUint(res, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("redis balance parse: %w", err)
	}
	return u, nil
}

func (l *RedisLedger) Transfer(ctx context.Context, from, to Account, amount uint64) error {
	if amount == 0 || from == to {
		return nil
	}
	ok, err := transferScript.Run(ctx, l.rdb, []string{l.key(from), l.key(to)}, amount).Int64()
	if err != nil {
		return err
	}
	if ok == 0 {
		return fmt.Errorf("transfer %d from %q: %w", amount, from, ErrInsufficientFunds)
	}
	return nil
}

func (l *RedisLedger) Adjust(ctx context.Context, a Account, delta int64) error {
	if delta == 0 {
		return nil
	}
	ok, err := adjustScript.Run(ctx, l.rdb, []string{l.key(a)}, delta).Int64()
	if err != nil {
		return err
	}
	if ok == 0 {
		return fmt.Errorf("adjust %q by %d: %w", a, delta, ErrInsufficientFunds)
	}
	return nil
}
