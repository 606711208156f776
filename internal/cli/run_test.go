package cli

import (
	"bytes"
	"context"
	"encoding/hex"
	"errors"
	"flag"
	"strings"
	"testing"
	"time"

	"github.com/unkn0wn-root/rentslot"
	"github.com/unkn0wn-root/rentslot/codec"
	"github.com/unkn0wn-root/rentslot/record"
)

func testConfig(ops ...string) Config {
	return Config{
		Backend:    "memory",
		Namespace:  "test",
		Slot:       "state",
		Payer:      "payer",
		Format:     "json",
		Log:        "none",
		Duplicates: "reject",
		Ops:        ops,
	}
}

func TestParseConfigEnvAndFlags(t *testing.T) {
	t.Setenv("RENTSLOT_BACKEND", "bigcache")
	t.Setenv("RENTSLOT_PAYER", "alice")
	t.Setenv("RENTSLOT_TIMEOUT", "5s")
	t.Setenv("RENTSLOT_REVISION_TTL", "1h")

	fs := flag.NewFlagSet("rentslot", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, []string{"-payer=bob", "init", "show"})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Backend != "bigcache" {
		t.Fatalf("expected env backend, got %q", cfg.Backend)
	}
	if cfg.Payer != "bob" {
		t.Fatalf("expected flag to override env, got %q", cfg.Payer)
	}
	if cfg.Timeout != 5*time.Second || cfg.Format != "json" || cfg.Slot != "state" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.RevisionTTL != time.Hour {
		t.Fatalf("expected revision ttl from env, got %v", cfg.RevisionTTL)
	}
	if strings.Join(cfg.Ops, " ") != "init show" {
		t.Fatalf("unexpected ops %v", cfg.Ops)
	}
}

func TestParseOps(t *testing.T) {
	tests := []struct {
		args    []string
		want    int
		wantErr bool
	}{
		{args: nil, wantErr: true},
		{args: []string{"init", "add", "a", "remove", "a", "show"}, want: 4},
		{args: []string{"fund", "payer", "100"}, want: 1},
		{args: []string{"add"}, wantErr: true},
		{args: []string{"fund", "payer"}, wantErr: true},
		{args: []string{"fund", "payer", "-1"}, wantErr: true},
		{args: []string{"fund", "payer", "9223372036854775808"}, wantErr: true},
		{args: []string{"explode"}, wantErr: true},
	}
	for _, tc := range tests {
		got, err := parseOps(tc.args)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("expected error for %v", tc.args)
			}
			continue
		}
		if err != nil {
			t.Fatalf("unexpected error for %v: %v", tc.args, err)
		}
		if len(got) != tc.want {
			t.Fatalf("%v: expected %d ops, got %d", tc.args, tc.want, len(got))
		}
	}
}

func TestParseKey(t *testing.T) {
	e := record.DeriveElement("x")
	if parseKey(e.String()) != e {
		t.Fatalf("hex key should parse verbatim")
	}
	if parseKey("x") != e {
		t.Fatalf("label should derive")
	}
}

func TestRunScenario(t *testing.T) {
	var out, errOut bytes.Buffer
	cfg := testConfig("fund", "payer", "10000000", "init", "add", "alice", "add", "bob", "remove", "alice", "show")

	if err := Run(context.Background(), cfg, &out, &errOut); err != nil {
		t.Fatalf("run: %v (stderr %q)", err, errOut.String())
	}
	got := out.String()
	for _, want := range []string{
		"fund payer: balance=10000000",
		"init: grow 0->4 required=918720 elements=0 revision=1",
		"grow 4->36 required=1113600 elements=1 revision=2",
		"grow 36->68 required=1113600 elements=2 revision=3",
		"shrink 68->36 required=1113600 elements=1 revision=4",
		`"length": 36`,
		`"revision": 4`,
		`"rentExempt": true`,
		record.DeriveElement("bob").String(),
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("output missing %q:\n%s", want, got)
		}
	}
}

func TestRunUnfundedInit(t *testing.T) {
	err := Run(context.Background(), testConfig("init"), nil, nil)
	if !errors.Is(err, rentslot.ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}
}

func TestRunRejectsDuplicate(t *testing.T) {
	cfg := testConfig("fund", "payer", "10000000", "init", "add", "k", "add", "k")
	err := Run(context.Background(), cfg, nil, nil)
	if !errors.Is(err, rentslot.ErrDuplicateElement) {
		t.Fatalf("expected ErrDuplicateElement, got %v", err)
	}

	cfg.Duplicates = "ignore"
	if err := Run(context.Background(), cfg, nil, nil); err != nil {
		t.Fatalf("ignore policy: %v", err)
	}
}

func TestRunCBORShowOnBigcache(t *testing.T) {
	var out bytes.Buffer
	cfg := testConfig("fund", "payer", "10000000", "init", "add", "k", "show")
	cfg.Backend = "bigcache"
	cfg.Format = "cbor"

	if err := Run(context.Background(), cfg, &out, nil); err != nil {
		t.Fatalf("run: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	raw, err := hex.DecodeString(lines[len(lines)-1])
	if err != nil {
		t.Fatalf("show output is not hex: %v", err)
	}
	snap, err := codec.MustCBOR[rentslot.Snapshot]().Decode(raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if snap.Length != 36 || len(snap.Keys) != 1 || snap.Keys[0] != record.DeriveElement("k").String() {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
}

func TestRunLogsWithSlog(t *testing.T) {
	var errOut bytes.Buffer
	cfg := testConfig("fund", "payer", "10000000", "init")
	cfg.Log = "slog"

	if err := Run(context.Background(), cfg, nil, &errOut); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(errOut.String(), "slot initialized") {
		t.Fatalf("expected init log, got %q", errOut.String())
	}
}

func TestRunRejectsBadConfig(t *testing.T) {
	for name, mutate := range map[string]func(*Config){
		"backend":    func(c *Config) { c.Backend = "etcd" },
		"format":     func(c *Config) { c.Format = "xml" },
		"log":        func(c *Config) { c.Log = "syslog" },
		"duplicates": func(c *Config) { c.Duplicates = "maybe" },
	} {
		cfg := testConfig("show")
		mutate(&cfg)
		if err := Run(context.Background(), cfg, nil, nil); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestEncodeSnapshotFormats(t *testing.T) {
	snap := rentslot.Snapshot{Slot: "s", Keys: []string{"aa"}, Length: 36, Balance: 7}
	for f := range formats {
		text, err := encodeSnapshot(f, snap)
		if err != nil || text == "" {
			t.Fatalf("%s: %q %v", f, text, err)
		}
	}
}

func TestRunRedisUnreachable(t *testing.T) {
	cfg := testConfig("show")
	cfg.Backend = "redis"
	cfg.RedisAddr = "127.0.0.1:1"
	cfg.RevisionTTL = time.Minute

	err := Run(context.Background(), cfg, nil, nil)
	if err == nil || !strings.Contains(err.Error(), "redis 127.0.0.1:1") {
		t.Fatalf("expected redis dial error, got %v", err)
	}
}

func TestCloseWithKeepsFirstError(t *testing.T) {
	errRun := errors.New("run")
	errClose := errors.New("close")
	failing := func(context.Context) error { return errClose }
	ok := func(context.Context) error { return nil }

	var err error
	closeWith(context.Background(), &err, ok)
	if err != nil {
		t.Fatalf("clean close set %v", err)
	}
	closeWith(context.Background(), &err, failing)
	if !errors.Is(err, errClose) {
		t.Fatalf("close error dropped, got %v", err)
	}

	err = errRun
	closeWith(context.Background(), &err, failing)
	if !errors.Is(err, errRun) {
		t.Fatalf("close error replaced run error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = nil
	closeWith(ctx, &err, func(c context.Context) error { return c.Err() })
	if err != nil {
		t.Fatalf("close saw cancelled context: %v", err)
	}
}
