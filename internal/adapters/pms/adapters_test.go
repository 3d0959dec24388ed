package pms

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"pms_gateway/internal/domain"
)

// Adapter normalization tests against fake upstreams. base_url in the
// credential map points the adapter at the test server.

func TestCloudbedsNormalization(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/access_token", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"access_token":"tok","expires_in":3600}`))
	})
	mux.HandleFunc("/getHotelDetails", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("propertyID") != "po-1" {
			t.Errorf("propertyID param missing")
		}
		_, _ = w.Write([]byte(`{"data":{
			"propertyID":"po-1","propertyName":"Seaside Inn","propertyTimezone":"Europe/Lisbon",
			"propertyCurrency":{"currencyCode":"eur"},
			"address":{"street":"5 Shore Rd","city":"Faro","country":"PT"}}}`))
	})
	mux.HandleFunc("/getReservations", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":[
			{"reservationID":"r-1","guestName":"Jane Doe","roomTypeID":7,
			 "startDate":"2026-09-10","endDate":"2026-09-12","status":"confirmed","total":240.5},
			{"reservationID":"r-2","firstName":"Ann","lastName":"Wu","roomTypeID":"8",
			 "startDate":"2026-09-11T15:00:00Z","endDate":"2026-09-13","status":"pending","total":"99,9"}]}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	a, err := New(domain.ProviderCloudbeds, map[string]string{
		"client_id": "id", "client_secret": "sec", "property_id": "po-1", "base_url": srv.URL,
	}, domain.EnvProduction)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ctx := context.Background()

	cfg, err := a.GetConfiguration(ctx)
	if err != nil {
		t.Fatalf("GetConfiguration: %v", err)
	}
	if cfg.ID != "po-1" || cfg.Name != "Seaside Inn" || cfg.Timezone != "Europe/Lisbon" {
		t.Fatalf("config = %+v", cfg)
	}
	if cfg.Currency != "EUR" {
		t.Fatalf("currency = %q", cfg.Currency)
	}
	if cfg.Address == nil || *cfg.Address != "5 Shore Rd, Faro, PT" {
		t.Fatalf("address = %v", cfg.Address)
	}

	rs, err := a.GetReservations(ctx, domain.ReservationParams{StartDate: "2026-09-01", EndDate: "2026-09-30"})
	if err != nil {
		t.Fatalf("GetReservations: %v", err)
	}
	if len(rs) != 2 {
		t.Fatalf("got %d reservations", len(rs))
	}
	if rs[0].GuestName != "Jane Doe" || rs[0].RoomTypeID != "7" || rs[0].Total != 240.5 {
		t.Fatalf("first reservation = %+v", rs[0])
	}
	if rs[1].GuestName != "Ann Wu" || rs[1].CheckIn != "2026-09-11" || rs[1].Total != 99.9 {
		t.Fatalf("second reservation = %+v", rs[1])
	}
	if rs[1].Currency != "USD" {
		t.Fatalf("default currency = %q", rs[1].Currency)
	}
}

func TestChannexFlattensJSONAPIRecords(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/room_types", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("user-api-key") != "ck-1" {
			t.Errorf("user-api-key header missing")
		}
		_, _ = w.Write([]byte(`{"data":[
			{"id":"rt-1","attributes":{"title":"King Room","occ_adults":2,"description":"Sea view"}},
			{"id":"rt-2","attributes":{"title":"Twin Room","occ_adults":3}}]}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	a, err := New(domain.ProviderChannex, map[string]string{
		"api_key": "ck-1", "property_id": "prop-9", "base_url": srv.URL,
	}, domain.EnvProduction)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	rts, err := a.GetRoomTypes(context.Background())
	if err != nil {
		t.Fatalf("GetRoomTypes: %v", err)
	}
	if len(rts) != 2 {
		t.Fatalf("got %d room types", len(rts))
	}
	if rts[0].ID != "rt-1" || rts[0].Name != "King Room" || rts[0].Capacity != 2 {
		t.Fatalf("first room type = %+v", rts[0])
	}
	if rts[0].Description == nil || *rts[0].Description != "Sea view" {
		t.Fatalf("description = %v", rts[0].Description)
	}
	if rts[1].Description != nil {
		t.Fatalf("second description should be nil")
	}
}

func TestBeds24BareArrays(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/getBookings", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("token") != "b-tok" || q.Get("propKey") != "pk-1" {
			t.Errorf("auth query params missing: %v", q)
		}
		_, _ = w.Write([]byte(`[
			{"bookId":5551,"firstName":"Liam","lastName":"Byrne","roomId":12,
			 "firstNight":"2026-10-01","lastNight":"2026-10-04","status":"confirmed","price":420}]`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	a, err := New(domain.ProviderBeds24, map[string]string{
		"token": "b-tok", "prop_key": "pk-1", "base_url": srv.URL,
	}, domain.EnvProduction)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	rs, err := a.GetReservations(context.Background(), domain.ReservationParams{StartDate: "2026-10-01", EndDate: "2026-10-31"})
	if err != nil {
		t.Fatalf("GetReservations: %v", err)
	}
	if len(rs) != 1 {
		t.Fatalf("got %d reservations", len(rs))
	}
	r := rs[0]
	if r.ID != "5551" || r.GuestName != "Liam Byrne" || r.RoomTypeID != "12" {
		t.Fatalf("reservation = %+v", r)
	}
	if r.Currency != "GBP" {
		t.Fatalf("default currency = %q", r.Currency)
	}
}

func TestSandboxBaseSelection(t *testing.T) {
	a, err := New(domain.ProviderCloudbeds, map[string]string{
		"client_id": "id", "client_secret": "sec", "property_id": "1",
	}, domain.EnvSandbox)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	cb := a.(*cloudbeds)
	if cb.base != "https://api-sandbox.cloudbeds.com/api/v1.2" {
		t.Fatalf("sandbox base = %q", cb.base)
	}
}
