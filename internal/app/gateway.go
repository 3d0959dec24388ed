package app

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"pms_gateway/internal/domain"
)

// AdapterFactory builds a fresh adapter for a provider type and
// credential map.
type AdapterFactory func(t domain.ProviderType, creds map[string]string, env domain.Environment) (domain.PMSAdapter, error)

// Gateway routes canonical calls to the right provider adapter. It owns
// two maps keyed by hotel id: the connection registry and the adapter
// instance cache. Re-registering a connection evicts the cached adapter
// so stale credentials are never observed. Both store and cache may be
// nil; the gateway is fully functional in memory.
type Gateway struct {
	factory AdapterFactory
	store   domain.ConnectionStore
	cache   domain.Cache

	mu       sync.RWMutex
	conns    map[string]domain.Connection
	adapters map[string]domain.PMSAdapter
}

func NewGateway(f AdapterFactory, store domain.ConnectionStore, cache domain.Cache) *Gateway {
	return &Gateway{
		factory:  f,
		store:    store,
		cache:    cache,
		conns:    make(map[string]domain.Connection),
		adapters: make(map[string]domain.PMSAdapter),
	}
}

// RegisterConnection upserts a hotel's provider connection and evicts
// any cached adapter for that hotel. IsActive is honored as supplied:
// a connection registered inactive stays inactive until re-registered.
func (g *Gateway) RegisterConnection(ctx context.Context, c domain.Connection) (domain.Connection, error) {
	if c.HotelID == "" {
		return domain.Connection{}, fmt.Errorf("register connection: hotel id is required")
	}
	if c.ProviderType == "" {
		return domain.Connection{}, fmt.Errorf("register connection: provider type is required")
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	if c.Environment == "" {
		c.Environment = domain.EnvProduction
	}

	g.mu.Lock()
	prev, hadPrev := g.conns[c.HotelID]
	g.conns[c.HotelID] = c
	delete(g.adapters, c.HotelID)
	g.mu.Unlock()

	g.invalidateReads(ctx, c.HotelID)

	if g.store != nil {
		if err := g.store.UpsertConnection(ctx, c); err != nil {
			// roll back so memory matches what actually persisted
			g.mu.Lock()
			if hadPrev {
				g.conns[c.HotelID] = prev
			} else {
				delete(g.conns, c.HotelID)
			}
			delete(g.adapters, c.HotelID)
			g.mu.Unlock()
			return domain.Connection{}, fmt.Errorf("persist connection for %s: %w", c.HotelID, err)
		}
	}
	return c, nil
}

// Hydrate loads persisted connections into the in-memory registry.
// Called once at boot; adapters are still built lazily on first use.
func (g *Gateway) Hydrate(ctx context.Context) error {
	if g.store == nil {
		return nil
	}
	conns, err := g.store.ListConnections(ctx)
	if err != nil {
		return fmt.Errorf("hydrate connections: %w", err)
	}
	g.mu.Lock()
	for _, c := range conns {
		g.conns[c.HotelID] = c
	}
	g.mu.Unlock()
	log.Info().Int("count", len(conns)).Msg("connection registry hydrated")
	return nil
}

func (g *Gateway) GetConnection(hotelID string) (domain.Connection, error) {
	g.mu.RLock()
	c, ok := g.conns[hotelID]
	g.mu.RUnlock()
	if !ok {
		return domain.Connection{}, &domain.NoConnectionError{HotelID: hotelID}
	}
	return c, nil
}

func (g *Gateway) ListConnections() []domain.Connection {
	g.mu.RLock()
	out := make([]domain.Connection, 0, len(g.conns))
	for _, c := range g.conns {
		out = append(out, c)
	}
	g.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].HotelID < out[j].HotelID })
	return out
}

// RemoveConnection deactivates a hotel's connection (never deletes it)
// and evicts the cached adapter.
func (g *Gateway) RemoveConnection(ctx context.Context, hotelID string) error {
	g.mu.Lock()
	c, ok := g.conns[hotelID]
	if ok {
		c.IsActive = false
		g.conns[hotelID] = c
		delete(g.adapters, hotelID)
	}
	g.mu.Unlock()
	if !ok {
		return &domain.NoConnectionError{HotelID: hotelID}
	}

	g.invalidateReads(ctx, hotelID)

	if g.store != nil {
		if err := g.store.DeactivateConnection(ctx, hotelID); err != nil {
			return fmt.Errorf("deactivate connection for %s: %w", hotelID, err)
		}
	}
	return nil
}

// getAdapter returns the cached adapter for a hotel, building one from
// the active connection on first use.
func (g *Gateway) getAdapter(hotelID string) (domain.PMSAdapter, error) {
	g.mu.RLock()
	a, ok := g.adapters[hotelID]
	g.mu.RUnlock()
	if ok {
		return a, nil
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if a, ok := g.adapters[hotelID]; ok {
		return a, nil
	}
	c, ok := g.conns[hotelID]
	if !ok {
		return nil, &domain.NoConnectionError{HotelID: hotelID}
	}
	if !c.IsActive {
		return nil, &domain.InactiveConnectionError{HotelID: hotelID}
	}
	a, err := g.factory(c.ProviderType, c.Credentials, c.Environment)
	if err != nil {
		return nil, err
	}
	g.adapters[hotelID] = a
	return a, nil
}

func (g *Gateway) GetConfiguration(ctx context.Context, hotelID string) (domain.HotelConfiguration, error) {
	a, err := g.getAdapter(hotelID)
	if err != nil {
		return domain.HotelConfiguration{}, err
	}
	return a.GetConfiguration(ctx)
}

func (g *Gateway) GetAvailability(ctx context.Context, hotelID string, p domain.AvailabilityParams) ([]domain.Availability, error) {
	a, err := g.getAdapter(hotelID)
	if err != nil {
		return nil, err
	}
	return a.GetAvailability(ctx, p)
}

func (g *Gateway) GetReservations(ctx context.Context, hotelID string, p domain.ReservationParams) ([]domain.Reservation, error) {
	a, err := g.getAdapter(hotelID)
	if err != nil {
		return nil, err
	}
	return a.GetReservations(ctx, p)
}

func (g *Gateway) GetRoomTypes(ctx context.Context, hotelID string) ([]domain.RoomType, error) {
	a, err := g.getAdapter(hotelID)
	if err != nil {
		return nil, err
	}
	return a.GetRoomTypes(ctx)
}

func (g *Gateway) GetRates(ctx context.Context, hotelID string) ([]domain.Rate, error) {
	a, err := g.getAdapter(hotelID)
	if err != nil {
		return nil, err
	}
	return a.GetRates(ctx)
}

// TestConnection validates a credential set without touching the
// registry or the adapter cache: build a throwaway adapter,
// authenticate, fetch the configuration. This is the one place where
// errors are swallowed and translated into a structured result, so
// credential-validation callers never need error handling.
func (g *Gateway) TestConnection(ctx context.Context, t domain.ProviderType, creds map[string]string, env domain.Environment) domain.TestResult {
	a, err := g.factory(t, creds, env)
	if err != nil {
		return domain.TestResult{Success: false, Message: err.Error()}
	}
	if _, err := a.Authenticate(ctx, false); err != nil {
		return domain.TestResult{Success: false, Message: err.Error()}
	}
	cfg, err := a.GetConfiguration(ctx)
	if err != nil {
		return domain.TestResult{Success: false, Message: err.Error()}
	}
	return domain.TestResult{Success: true, Message: "connection ok", Data: &cfg}
}

// TouchLastSync stamps a successful pull-sync on the connection.
func (g *Gateway) TouchLastSync(ctx context.Context, hotelID string) error {
	now := time.Now().UTC()
	g.mu.Lock()
	c, ok := g.conns[hotelID]
	if ok {
		c.LastSyncAt = &now
		g.conns[hotelID] = c
	}
	g.mu.Unlock()
	if !ok {
		return &domain.NoConnectionError{HotelID: hotelID}
	}
	if g.store != nil {
		return g.store.TouchLastSync(ctx, hotelID)
	}
	return nil
}

// invalidateReads drops the cached read-model entries for a hotel so a
// new connection is visible immediately.
func (g *Gateway) invalidateReads(ctx context.Context, hotelID string) {
	if g.cache == nil {
		return
	}
	for _, key := range readKeys(hotelID) {
		if err := g.cache.Del(ctx, key); err != nil {
			log.Warn().Err(err).Str("hotel", hotelID).Str("key", key).Msg("cache invalidation failed")
		}
	}
}

func readKeys(hotelID string) []string {
	return []string{
		"pms:cfg:" + hotelID,
		"pms:roomtypes:" + hotelID,
		"pms:rates:" + hotelID,
	}
}
