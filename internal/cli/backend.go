package cli

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	pr "github.com/unkn0wn-root/rentslot/provider"
	"github.com/unkn0wn-root/rentslot/provider/bigcache"
	"github.com/unkn0wn-root/rentslot/provider/memory"
	"github.com/unkn0wn-root/rentslot/provider/redis"
	"github.com/unkn0wn-root/rentslot/provider/ristretto"
	"github.com/unkn0wn-root/rentslot/revision"
	"github.com/unkn0wn-root/rentslot/slot"
)

// backend bundles the slot store with the revision store that matches it.
// The store owns the provider; the manager owns revs.
type backend struct {
	store *slot.Store
	revs  revision.Store
}

func openBackend(ctx context.Context, cfg Config) (*backend, error) {
	var (
		p      pr.Provider
		ledger slot.Ledger
		revs   revision.Store = revision.NewLocal()
		err    error
	)
	switch cfg.Backend {
	case "memory":
		p = memory.New()
	case "bigcache":
		// slots are written without a TTL; keep them for the process lifetime
		p, err = bigcache.New(bigcache.Config{LifeWindow: 24 * time.Hour})
	case "ristretto":
		p, err = ristretto.New(ristretto.Config{NumCounters: 1e5, MaxCost: 64 << 20, BufferItems: 64})
	case "redis":
		client := goredis.NewClient(&goredis.Options{Addr: cfg.RedisAddr})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("redis %s: %w", cfg.RedisAddr, err)
		}
		rp, rerr := redis.New(redis.Config{Client: client, CloseClient: true})
		if rerr != nil {
			_ = client.Close()
			return nil, fmt.Errorf("open redis backend: %w", rerr)
		}
		p = rp
		ledger = slot.NewRedisLedger(rp.Client(), cfg.Namespace)
		if cfg.RevisionTTL > 0 {
			revs = revision.NewRedisWithTTL(rp.Client(), cfg.Namespace, cfg.RevisionTTL)
		} else {
			revs = revision.NewRedis(rp.Client(), cfg.Namespace)
		}
	default:
		return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s backend: %w", cfg.Backend, err)
	}

	st, err := slot.NewStore(slot.StoreOptions{Namespace: cfg.Namespace, Provider: p, Ledger: ledger})
	if err != nil {
		_ = p.Close(ctx)
		return nil, err
	}
	return &backend{store: st, revs: revs}, nil
}
