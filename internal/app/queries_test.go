package app

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"pms_gateway/internal/domain"
)

// fakeCache stores marshaled values in memory, like the redis adapter
// but without the server.
type fakeCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newFakeCache() *fakeCache { return &fakeCache{data: map[string][]byte{}} }

func (c *fakeCache) Get(_ context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dst)
}

func (c *fakeCache) Set(_ context.Context, key string, v any, _ int) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.data[key] = b
	c.mu.Unlock()
	return nil
}

func (c *fakeCache) Del(_ context.Context, key string) error {
	c.mu.Lock()
	delete(c.data, key)
	c.mu.Unlock()
	return nil
}

func TestQueryServiceCachesSlowReads(t *testing.T) {
	cf := newCountingFactory()
	cache := newFakeCache()
	gw := NewGateway(cf.build, nil, cache)
	register(t, gw, "h1", domain.ProviderSmoobu)
	q := NewQueryService(gw, cache, time.Minute)
	ctx := context.Background()

	first, err := q.GetRoomTypes(ctx, "h1")
	if err != nil {
		t.Fatalf("GetRoomTypes: %v", err)
	}
	if len(first) != 1 {
		t.Fatalf("got %d room types", len(first))
	}
	if _, ok := cache.data["pms:roomtypes:h1"]; !ok {
		t.Fatalf("room types were not cached")
	}

	// mutating the returned slice must not poison the cache
	first[0].Name = "Mutated"
	second, err := q.GetRoomTypes(ctx, "h1")
	if err != nil {
		t.Fatalf("GetRoomTypes (cached): %v", err)
	}
	if second[0].Name != "Standard" {
		t.Fatalf("cached value was mutated: %+v", second[0])
	}

	if _, err := q.GetConfiguration(ctx, "h1"); err != nil {
		t.Fatalf("GetConfiguration: %v", err)
	}
	if _, ok := cache.data["pms:cfg:h1"]; !ok {
		t.Fatalf("configuration was not cached")
	}
}

func TestQueryServiceAvailabilityNotCached(t *testing.T) {
	cf := newCountingFactory()
	cache := newFakeCache()
	gw := NewGateway(cf.build, nil, cache)
	register(t, gw, "h1", domain.ProviderSmoobu)
	q := NewQueryService(gw, cache, time.Minute)

	p := domain.AvailabilityParams{StartDate: "2026-09-01", EndDate: "2026-09-02"}
	if _, err := q.GetAvailability(context.Background(), "h1", p); err != nil {
		t.Fatalf("GetAvailability: %v", err)
	}
	if len(cache.data) != 0 {
		t.Fatalf("availability must not be cached, cache holds %d keys", len(cache.data))
	}
}

func TestReRegisterInvalidatesCachedReads(t *testing.T) {
	cf := newCountingFactory()
	cache := newFakeCache()
	gw := NewGateway(cf.build, nil, cache)
	register(t, gw, "h1", domain.ProviderSmoobu)
	q := NewQueryService(gw, cache, time.Minute)
	ctx := context.Background()

	if _, err := q.GetConfiguration(ctx, "h1"); err != nil {
		t.Fatalf("GetConfiguration: %v", err)
	}
	if _, err := q.GetRoomTypes(ctx, "h1"); err != nil {
		t.Fatalf("GetRoomTypes: %v", err)
	}

	// switching providers must drop the stale read models
	register(t, gw, "h1", domain.ProviderMews)
	if len(cache.data) != 0 {
		t.Fatalf("expected cache invalidation on re-register, %d keys remain", len(cache.data))
	}
	cfg, err := q.GetConfiguration(ctx, "h1")
	if err != nil {
		t.Fatalf("GetConfiguration after switch: %v", err)
	}
	if cfg.ID != "mews" {
		t.Fatalf("expected fresh provider data, got %+v", cfg)
	}
}
