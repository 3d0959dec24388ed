package app

import (
	"context"
	"errors"
	"sync"
	"testing"

	"pms_gateway/internal/domain"
)

// fakeAdapter returns canned values, or err from every method.
type fakeAdapter struct {
	id  string
	err error
}

func (f *fakeAdapter) Authenticate(context.Context, bool) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "tok-" + f.id, nil
}

func (f *fakeAdapter) GetConfiguration(context.Context) (domain.HotelConfiguration, error) {
	if f.err != nil {
		return domain.HotelConfiguration{}, f.err
	}
	return domain.HotelConfiguration{ID: f.id, Name: "Hotel " + f.id, Timezone: "UTC", Currency: "USD"}, nil
}

func (f *fakeAdapter) GetAvailability(context.Context, domain.AvailabilityParams) ([]domain.Availability, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []domain.Availability{{Date: "2026-09-01", RoomTypeID: "std", Available: 2, Rate: 100, Currency: "USD"}}, nil
}

func (f *fakeAdapter) GetReservations(context.Context, domain.ReservationParams) ([]domain.Reservation, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []domain.Reservation{{ID: "r1", GuestName: "Guest", Status: "confirmed", Currency: "USD"}}, nil
}

func (f *fakeAdapter) GetRoomTypes(context.Context) ([]domain.RoomType, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []domain.RoomType{{ID: "std", Name: "Standard", Capacity: 2}}, nil
}

func (f *fakeAdapter) GetRates(context.Context) ([]domain.Rate, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []domain.Rate{{ID: "bar", Name: "BAR", RoomTypeID: "std", Price: 100, Currency: "USD"}}, nil
}

// countingFactory records how many adapters it built, keyed by provider
// type, and fails whole providers on demand.
type countingFactory struct {
	mu     sync.Mutex
	builds map[domain.ProviderType]int
	fail   map[domain.ProviderType]error
}

func newCountingFactory() *countingFactory {
	return &countingFactory{builds: map[domain.ProviderType]int{}, fail: map[domain.ProviderType]error{}}
}

func (cf *countingFactory) build(t domain.ProviderType, creds map[string]string, _ domain.Environment) (domain.PMSAdapter, error) {
	cf.mu.Lock()
	defer cf.mu.Unlock()
	cf.builds[t]++
	return &fakeAdapter{id: string(t), err: cf.fail[t]}, nil
}

func (cf *countingFactory) count(t domain.ProviderType) int {
	cf.mu.Lock()
	defer cf.mu.Unlock()
	return cf.builds[t]
}

func register(t *testing.T, gw *Gateway, hotelID string, pt domain.ProviderType) domain.Connection {
	t.Helper()
	c, err := gw.RegisterConnection(context.Background(), domain.Connection{
		HotelID:      hotelID,
		ProviderType: pt,
		Credentials:  map[string]string{"api_key": "k"},
		IsActive:     true,
	})
	if err != nil {
		t.Fatalf("RegisterConnection: %v", err)
	}
	return c
}

// failingStore rejects every write; reads succeed empty.
type failingStore struct{ err error }

func (f *failingStore) UpsertConnection(context.Context, domain.Connection) error { return f.err }
func (f *failingStore) ListConnections(context.Context) ([]domain.Connection, error) {
	return nil, nil
}
func (f *failingStore) DeactivateConnection(context.Context, string) error { return f.err }
func (f *failingStore) TouchLastSync(context.Context, string) error        { return f.err }

func TestRegisterRollsBackOnPersistFailure(t *testing.T) {
	store := &failingStore{err: errors.New("db down")}
	gw := NewGateway(newCountingFactory().build, store, nil)

	_, err := gw.RegisterConnection(context.Background(), domain.Connection{
		HotelID:      "h1",
		ProviderType: domain.ProviderSmoobu,
		Credentials:  map[string]string{"api_key": "k"},
		IsActive:     true,
	})
	if err == nil {
		t.Fatalf("expected persist failure to surface")
	}

	// the in-memory registry must match what actually persisted: nothing
	_, err = gw.GetConnection("h1")
	var nc *domain.NoConnectionError
	if !errors.As(err, &nc) {
		t.Fatalf("want NoConnectionError after rollback, got %v", err)
	}
	if got := gw.ListConnections(); len(got) != 0 {
		t.Fatalf("registry holds %d connections after failed persist", len(got))
	}
}

func TestRegisterRollbackRestoresPreviousConnection(t *testing.T) {
	store := &failingStore{}
	gw := NewGateway(newCountingFactory().build, store, nil)
	register(t, gw, "h1", domain.ProviderSmoobu)

	// second write fails; the first registration must survive untouched
	store.err = errors.New("db down")
	_, err := gw.RegisterConnection(context.Background(), domain.Connection{
		HotelID:      "h1",
		ProviderType: domain.ProviderMews,
		Credentials:  map[string]string{"access_token": "t"},
		IsActive:     true,
	})
	if err == nil {
		t.Fatalf("expected persist failure to surface")
	}
	c, err := gw.GetConnection("h1")
	if err != nil {
		t.Fatalf("GetConnection: %v", err)
	}
	if c.ProviderType != domain.ProviderSmoobu {
		t.Fatalf("previous connection not restored, provider = %s", c.ProviderType)
	}
	cfg, err := gw.GetConfiguration(context.Background(), "h1")
	if err != nil {
		t.Fatalf("GetConfiguration: %v", err)
	}
	if cfg.ID != "smoobu" {
		t.Fatalf("adapter rebuilt for wrong provider: %+v", cfg)
	}
}

func TestRegisterConnectionDefaults(t *testing.T) {
	gw := NewGateway(newCountingFactory().build, nil, nil)
	c := register(t, gw, "h1", domain.ProviderSmoobu)
	if c.ID == "" {
		t.Fatalf("expected a generated connection id")
	}
	if c.Environment != domain.EnvProduction {
		t.Fatalf("environment = %q", c.Environment)
	}
	if !c.IsActive {
		t.Fatalf("registered connection should be active")
	}
	if c.CreatedAt.IsZero() {
		t.Fatalf("expected CreatedAt to be stamped")
	}
}

func TestRegisterConnectionValidation(t *testing.T) {
	gw := NewGateway(newCountingFactory().build, nil, nil)
	if _, err := gw.RegisterConnection(context.Background(), domain.Connection{ProviderType: domain.ProviderMews}); err == nil {
		t.Fatalf("expected error for missing hotel id")
	}
	if _, err := gw.RegisterConnection(context.Background(), domain.Connection{HotelID: "h1"}); err == nil {
		t.Fatalf("expected error for missing provider type")
	}
}

func TestAdapterCachedUntilReRegister(t *testing.T) {
	cf := newCountingFactory()
	gw := NewGateway(cf.build, nil, nil)
	register(t, gw, "h1", domain.ProviderSmoobu)
	ctx := context.Background()

	if _, err := gw.GetRoomTypes(ctx, "h1"); err != nil {
		t.Fatalf("GetRoomTypes: %v", err)
	}
	if _, err := gw.GetRates(ctx, "h1"); err != nil {
		t.Fatalf("GetRates: %v", err)
	}
	if got := cf.count(domain.ProviderSmoobu); got != 1 {
		t.Fatalf("factory built %d adapters, want 1 (cached)", got)
	}

	// re-registering evicts the cached adapter
	register(t, gw, "h1", domain.ProviderSmoobu)
	if _, err := gw.GetRoomTypes(ctx, "h1"); err != nil {
		t.Fatalf("GetRoomTypes after re-register: %v", err)
	}
	if got := cf.count(domain.ProviderSmoobu); got != 2 {
		t.Fatalf("factory built %d adapters, want 2 after eviction", got)
	}
}

func TestNoConnection(t *testing.T) {
	gw := NewGateway(newCountingFactory().build, nil, nil)
	_, err := gw.GetConfiguration(context.Background(), "ghost")
	var nc *domain.NoConnectionError
	if !errors.As(err, &nc) {
		t.Fatalf("want NoConnectionError, got %v", err)
	}
}

func TestRemovedConnectionIsInactive(t *testing.T) {
	gw := NewGateway(newCountingFactory().build, nil, nil)
	register(t, gw, "h1", domain.ProviderSmoobu)
	if err := gw.RemoveConnection(context.Background(), "h1"); err != nil {
		t.Fatalf("RemoveConnection: %v", err)
	}

	_, err := gw.GetConfiguration(context.Background(), "h1")
	var ic *domain.InactiveConnectionError
	if !errors.As(err, &ic) {
		t.Fatalf("want InactiveConnectionError, got %v", err)
	}

	// the record survives, deactivated
	c, err := gw.GetConnection("h1")
	if err != nil {
		t.Fatalf("GetConnection: %v", err)
	}
	if c.IsActive {
		t.Fatalf("removed connection should be inactive")
	}

	// re-registering reactivates
	register(t, gw, "h1", domain.ProviderSmoobu)
	if _, err := gw.GetConfiguration(context.Background(), "h1"); err != nil {
		t.Fatalf("GetConfiguration after re-register: %v", err)
	}
}

func TestRegisterInactiveConnectionStaysInactive(t *testing.T) {
	gw := NewGateway(newCountingFactory().build, nil, nil)
	c, err := gw.RegisterConnection(context.Background(), domain.Connection{
		HotelID:      "h1",
		ProviderType: domain.ProviderSmoobu,
		Credentials:  map[string]string{"api_key": "k"},
		IsActive:     false,
	})
	if err != nil {
		t.Fatalf("RegisterConnection: %v", err)
	}
	if c.IsActive {
		t.Fatalf("supplied inactive flag was overridden")
	}

	_, err = gw.GetConfiguration(context.Background(), "h1")
	var ic *domain.InactiveConnectionError
	if !errors.As(err, &ic) {
		t.Fatalf("want InactiveConnectionError, got %v", err)
	}

	// re-registering active brings it into service
	register(t, gw, "h1", domain.ProviderSmoobu)
	if _, err := gw.GetConfiguration(context.Background(), "h1"); err != nil {
		t.Fatalf("GetConfiguration after activation: %v", err)
	}
}

func TestRemoveUnknownConnection(t *testing.T) {
	gw := NewGateway(newCountingFactory().build, nil, nil)
	err := gw.RemoveConnection(context.Background(), "ghost")
	var nc *domain.NoConnectionError
	if !errors.As(err, &nc) {
		t.Fatalf("want NoConnectionError, got %v", err)
	}
}

func TestHotelFailureIsolation(t *testing.T) {
	cf := newCountingFactory()
	cf.fail[domain.ProviderMews] = &domain.UpstreamError{Provider: domain.ProviderMews, Endpoint: "/x", Status: 500, Message: "boom"}
	gw := NewGateway(cf.build, nil, nil)
	register(t, gw, "bad", domain.ProviderMews)
	register(t, gw, "good", domain.ProviderSmoobu)
	ctx := context.Background()

	if _, err := gw.GetConfiguration(ctx, "bad"); err == nil {
		t.Fatalf("expected upstream failure for bad hotel")
	}
	cfg, err := gw.GetConfiguration(ctx, "good")
	if err != nil {
		t.Fatalf("good hotel should be unaffected: %v", err)
	}
	if cfg.ID != "smoobu" {
		t.Fatalf("config = %+v", cfg)
	}
}

func TestListConnectionsSorted(t *testing.T) {
	gw := NewGateway(newCountingFactory().build, nil, nil)
	register(t, gw, "zulu", domain.ProviderSmoobu)
	register(t, gw, "alpha", domain.ProviderMews)
	out := gw.ListConnections()
	if len(out) != 2 || out[0].HotelID != "alpha" || out[1].HotelID != "zulu" {
		t.Fatalf("ListConnections = %+v", out)
	}
}

func TestTestConnectionNeverErrors(t *testing.T) {
	cf := newCountingFactory()
	cf.fail[domain.ProviderMews] = &domain.AuthenticationError{Provider: domain.ProviderMews, Status: 401, Message: "bad token"}
	gw := NewGateway(cf.build, nil, nil)
	ctx := context.Background()

	res := gw.TestConnection(ctx, domain.ProviderMews, map[string]string{"access_token": "x"}, domain.EnvProduction)
	if res.Success {
		t.Fatalf("expected failure result")
	}
	if res.Message == "" {
		t.Fatalf("failure result should carry a message")
	}
	if res.Data != nil {
		t.Fatalf("failure result should carry no data")
	}

	ok := gw.TestConnection(ctx, domain.ProviderSmoobu, map[string]string{"api_key": "k"}, domain.EnvProduction)
	if !ok.Success || ok.Data == nil || ok.Data.ID != "smoobu" {
		t.Fatalf("success result = %+v", ok)
	}

	// testing never touches the registry or the adapter cache
	if _, err := gw.GetConnection("smoobu"); err == nil {
		t.Fatalf("TestConnection must not register anything")
	}
}

func TestTouchLastSync(t *testing.T) {
	gw := NewGateway(newCountingFactory().build, nil, nil)
	register(t, gw, "h1", domain.ProviderSmoobu)
	if err := gw.TouchLastSync(context.Background(), "h1"); err != nil {
		t.Fatalf("TouchLastSync: %v", err)
	}
	c, _ := gw.GetConnection("h1")
	if c.LastSyncAt == nil {
		t.Fatalf("LastSyncAt not stamped")
	}
}
