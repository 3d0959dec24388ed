package redisad

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
)

func newTestCache(t *testing.T, prefix string) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	return New(mr.Addr(), "", 0, prefix), mr
}

func TestCacheRoundTrip(t *testing.T) {
	c, _ := newTestCache(t, "")
	ctx := context.Background()

	type payload struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}

	var out payload
	ok, err := c.Get(ctx, "missing", &out)
	if err != nil {
		t.Fatalf("Get miss: %v", err)
	}
	if ok {
		t.Fatalf("expected a miss")
	}

	in := payload{Name: "x", Count: 3}
	if err := c.Set(ctx, "k1", in, 60); err != nil {
		t.Fatalf("Set: %v", err)
	}
	ok, err = c.Get(ctx, "k1", &out)
	if err != nil || !ok {
		t.Fatalf("Get hit: ok=%v err=%v", ok, err)
	}
	if out != in {
		t.Fatalf("round trip = %+v, want %+v", out, in)
	}

	if err := c.Del(ctx, "k1"); err != nil {
		t.Fatalf("Del: %v", err)
	}
	ok, _ = c.Get(ctx, "k1", &out)
	if ok {
		t.Fatalf("key survived Del")
	}
}

func TestCachePrefixAndTTL(t *testing.T) {
	c, mr := newTestCache(t, "gw")
	ctx := context.Background()

	if err := c.Set(ctx, "cfg:h1", map[string]string{"a": "b"}, 120); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if !mr.Exists("gw:cfg:h1") {
		t.Fatalf("prefixed key not found; keys = %v", mr.Keys())
	}
	ttl := mr.TTL("gw:cfg:h1")
	if ttl <= 0 {
		t.Fatalf("ttl = %v", ttl)
	}

	// expiry makes it a miss again
	mr.FastForward(ttl)
	var out map[string]string
	ok, err := c.Get(ctx, "cfg:h1", &out)
	if err != nil {
		t.Fatalf("Get after expiry: %v", err)
	}
	if ok {
		t.Fatalf("expected miss after TTL")
	}
}
