package cli

import (
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds rentslot command configuration.
type Config struct {
	Backend    string        `env:"RENTSLOT_BACKEND" envDefault:"memory"`
	RedisAddr  string        `env:"RENTSLOT_REDIS_ADDR" envDefault:"localhost:6379"`
	Namespace  string        `env:"RENTSLOT_NAMESPACE" envDefault:"rentslot"`
	Slot       string        `env:"RENTSLOT_SLOT" envDefault:"state"`
	Payer      string        `env:"RENTSLOT_PAYER" envDefault:"payer"`
	Format     string        `env:"RENTSLOT_FORMAT" envDefault:"json"`
	Log        string        `env:"RENTSLOT_LOG" envDefault:"none"`
	Duplicates string        `env:"RENTSLOT_DUPLICATES" envDefault:"reject"`
	KeepResize bool          `env:"RENTSLOT_KEEP_RESIZE"`
	Timeout    time.Duration `env:"RENTSLOT_TIMEOUT" envDefault:"30s"`

	// RevisionTTL expires redis revision counters; 0 keeps them forever.
	RevisionTTL time.Duration `env:"RENTSLOT_REVISION_TTL"`

	// Ops are the positional arguments, executed in order.
	Ops []string
}

// ParseConfig reads environment defaults, then flag overrides.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	fs.StringVar(&cfg.Backend, "backend", cfg.Backend, "slot backend (memory|bigcache|ristretto|redis)")
	fs.StringVar(&cfg.RedisAddr, "redis-addr", cfg.RedisAddr, "redis address for -backend=redis")
	fs.StringVar(&cfg.Namespace, "namespace", cfg.Namespace, "key namespace for slots and balances")
	fs.StringVar(&cfg.Slot, "slot", cfg.Slot, "slot account id")
	fs.StringVar(&cfg.Payer, "payer", cfg.Payer, "account that funds growth and receives refunds")
	fs.StringVar(&cfg.Format, "format", cfg.Format, "show output format (json|cbor|msgpack|proto)")
	fs.StringVar(&cfg.Log, "log", cfg.Log, "log backend (zap|logrus|slog|none)")
	fs.StringVar(&cfg.Duplicates, "duplicates", cfg.Duplicates, "duplicate append policy (reject|allow|ignore)")
	fs.BoolVar(&cfg.KeepResize, "keep-resize", cfg.KeepResize, "leave a slot resized when its funding transfer fails")
	fs.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "overall timeout")
	fs.DurationVar(&cfg.RevisionTTL, "revision-ttl", cfg.RevisionTTL, "expiry for redis revision counters (0 = none)")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	cfg.Ops = fs.Args()

	for name, v := range map[string]string{"backend": cfg.Backend, "format": cfg.Format, "log": cfg.Log} {
		if strings.TrimSpace(v) == "" {
			return Config{}, fmt.Errorf("-%s must not be empty", name)
		}
	}
	return cfg, nil
}
