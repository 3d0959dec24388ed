// internal/adapters/pms/stub.go
package pms

import (
	"context"
	"fmt"
	"time"

	"pms_gateway/internal/domain"
)

// stubAdapter serves fixed, deterministic sample data behind the same
// contract as the live adapters. The factory selects it for the
// explicit mock provider type and for recognized providers registered
// without credentials (pre-onboarding); it is never a catch-all for
// unknown types.
type stubAdapter struct {
	provider domain.ProviderType
	display  string
}

func newStub(provider domain.ProviderType, display string) *stubAdapter {
	return &stubAdapter{provider: provider, display: display}
}

func (s *stubAdapter) Authenticate(_ context.Context, _ bool) (string, error) {
	return "stub-token", nil
}

func (s *stubAdapter) GetConfiguration(_ context.Context) (domain.HotelConfiguration, error) {
	addr := "1 Demo Street, Springfield, US"
	return domain.HotelConfiguration{
		ID:       "demo-" + string(s.provider),
		Name:     s.display + " Demo Hotel",
		Timezone: "UTC",
		Currency: "USD",
		Address:  &addr,
	}, nil
}

var stubRoomTypes = []domain.RoomType{
	{ID: "std", Name: "Standard Room", Capacity: 2},
	{ID: "dlx", Name: "Deluxe Suite", Capacity: 4},
}

func (s *stubAdapter) GetAvailability(_ context.Context, p domain.AvailabilityParams) ([]domain.Availability, error) {
	start, err := time.Parse("2006-01-02", p.StartDate)
	if err != nil {
		start = time.Now().UTC().Truncate(24 * time.Hour)
	}
	end, err := time.Parse("2006-01-02", p.EndDate)
	if err != nil || end.Before(start) {
		end = start.AddDate(0, 0, 7)
	}

	var out []domain.Availability
	for d, i := start, 0; !d.After(end); d, i = d.AddDate(0, 0, 1), i+1 {
		for j, rt := range stubRoomTypes {
			if p.RoomTypeID != "" && p.RoomTypeID != rt.ID {
				continue
			}
			out = append(out, domain.Availability{
				Date:       d.Format("2006-01-02"),
				RoomTypeID: rt.ID,
				Available:  3 + (i+j)%3,
				Rate:       120 + float64(j)*60,
				Currency:   "USD",
			})
		}
	}
	return out, nil
}

func (s *stubAdapter) GetReservations(_ context.Context, p domain.ReservationParams) ([]domain.Reservation, error) {
	rs := []domain.Reservation{
		{
			ID: fmt.Sprintf("%s-res-1001", s.provider), GuestName: "Alice Martin",
			RoomTypeID: "std", CheckIn: "2026-09-10", CheckOut: "2026-09-13",
			Status: "confirmed", Total: 360, Currency: "USD",
		},
		{
			ID: fmt.Sprintf("%s-res-1002", s.provider), GuestName: "Bram de Vries",
			RoomTypeID: "dlx", CheckIn: "2026-09-12", CheckOut: "2026-09-14",
			Status: "pending", Total: 360, Currency: "USD",
		},
	}
	if p.Status == "" {
		return rs, nil
	}
	out := rs[:0:0]
	for _, r := range rs {
		if r.Status == p.Status {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *stubAdapter) GetRoomTypes(_ context.Context) ([]domain.RoomType, error) {
	out := make([]domain.RoomType, len(stubRoomTypes))
	copy(out, stubRoomTypes)
	return out, nil
}

func (s *stubAdapter) GetRates(_ context.Context) ([]domain.Rate, error) {
	return []domain.Rate{
		{ID: "bar-std", Name: "Best Available Rate", RoomTypeID: "std", Price: 120, Currency: "USD"},
		{ID: "bar-dlx", Name: "Best Available Rate", RoomTypeID: "dlx", Price: 180, Currency: "USD"},
	}, nil
}
