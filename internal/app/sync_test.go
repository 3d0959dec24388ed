package app

import (
	"context"
	"sync"
	"testing"

	"pms_gateway/internal/domain"
)

type fakeSnapshots struct {
	mu           sync.Mutex
	availability map[string][]domain.Availability
	reservations map[string][]domain.Reservation
}

func newFakeSnapshots() *fakeSnapshots {
	return &fakeSnapshots{
		availability: map[string][]domain.Availability{},
		reservations: map[string][]domain.Reservation{},
	}
}

func (f *fakeSnapshots) UpsertAvailability(_ context.Context, hotelID string, av []domain.Availability) error {
	f.mu.Lock()
	f.availability[hotelID] = av
	f.mu.Unlock()
	return nil
}

func (f *fakeSnapshots) UpsertReservations(_ context.Context, hotelID string, rs []domain.Reservation) error {
	f.mu.Lock()
	f.reservations[hotelID] = rs
	f.mu.Unlock()
	return nil
}

func TestSyncHotelStoresSnapshotsAndStamps(t *testing.T) {
	cf := newCountingFactory()
	gw := NewGateway(cf.build, nil, nil)
	register(t, gw, "h1", domain.ProviderSmoobu)
	snaps := newFakeSnapshots()
	svc := NewSyncService(gw, snaps, 7)

	if err := svc.SyncHotel(context.Background(), "h1"); err != nil {
		t.Fatalf("SyncHotel: %v", err)
	}
	if len(snaps.availability["h1"]) == 0 {
		t.Fatalf("availability snapshot not stored")
	}
	if len(snaps.reservations["h1"]) == 0 {
		t.Fatalf("reservation snapshot not stored")
	}
	c, _ := gw.GetConnection("h1")
	if c.LastSyncAt == nil {
		t.Fatalf("LastSyncAt not stamped after sync")
	}
}

func TestSyncHotelPropagatesUpstreamFailure(t *testing.T) {
	cf := newCountingFactory()
	cf.fail[domain.ProviderMews] = &domain.UpstreamError{Provider: domain.ProviderMews, Status: 503, Message: "down"}
	gw := NewGateway(cf.build, nil, nil)
	register(t, gw, "h1", domain.ProviderMews)
	snaps := newFakeSnapshots()
	svc := NewSyncService(gw, snaps, 7)

	if err := svc.SyncHotel(context.Background(), "h1"); err == nil {
		t.Fatalf("expected sync failure")
	}
	c, _ := gw.GetConnection("h1")
	if c.LastSyncAt != nil {
		t.Fatalf("failed sync must not stamp LastSyncAt")
	}
}
