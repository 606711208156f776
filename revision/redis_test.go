package revision

import (
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func TestRedisConstructors(t *testing.T) {
	c := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	t.Cleanup(func() { _ = c.Close() })

	if s := NewRedis(c, "ns"); s.ttl != 0 || s.key("state") != "rev:ns:state" {
		t.Fatalf("NewRedis: ttl=%v key=%q", s.ttl, s.key("state"))
	}
	if s := NewRedisWithTTL(c, "ns", time.Minute); s.ttl != time.Minute || s.rdb != c {
		t.Fatalf("NewRedisWithTTL: ttl=%v", s.ttl)
	}
}
