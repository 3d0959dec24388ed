package httpserver_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	httpserver "pms_gateway/internal/adapters/http_server"
	"pms_gateway/internal/adapters/pms"
	redisad "pms_gateway/internal/adapters/redis"
	"pms_gateway/internal/app"
	"pms_gateway/internal/domain"
)

// newTestAPI wires the full read path: chi router, gateway with the
// real adapter factory, redis-backed query cache. Hotels registered
// against the mock provider exercise everything but the network.
func newTestAPI(t *testing.T) http.Handler {
	t.Helper()
	mr := miniredis.RunT(t)
	cache := redisad.New(mr.Addr(), "", 0, "")
	gw := app.NewGateway(pms.New, nil, cache)
	q := app.NewQueryService(gw, cache, time.Minute)

	srv := httpserver.New()
	srv.MountHandlers(&httpserver.Handlers{GW: gw, Q: q})
	return srv.Mux()
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rd *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		rd = bytes.NewReader(b)
	} else {
		rd = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func registerMock(t *testing.T, h http.Handler, hotelID string) {
	t.Helper()
	rr := doJSON(t, h, http.MethodPost, "/v1/connections", map[string]any{
		"hotel_id":      hotelID,
		"provider_type": "mock",
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("register status = %d, body = %s", rr.Code, rr.Body.String())
	}
}

func TestHealthz(t *testing.T) {
	h := newTestAPI(t)
	rr := doJSON(t, h, http.MethodGet, "/healthz", nil)
	if rr.Code != http.StatusOK || rr.Body.String() != "ok" {
		t.Fatalf("healthz = %d %q", rr.Code, rr.Body.String())
	}
}

func TestConnectionLifecycleOverHTTP(t *testing.T) {
	h := newTestAPI(t)
	registerMock(t, h, "h1")

	rr := doJSON(t, h, http.MethodGet, "/v1/connections/h1", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("get connection = %d", rr.Code)
	}
	var conn map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &conn); err != nil {
		t.Fatalf("decode connection: %v", err)
	}
	if conn["provider_type"] != "mock" || conn["is_active"] != true {
		t.Fatalf("connection = %v", conn)
	}
	if _, leaked := conn["credentials"]; leaked {
		t.Fatalf("credentials must never serialize outward")
	}

	rr = doJSON(t, h, http.MethodDelete, "/v1/connections/h1", nil)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("delete = %d", rr.Code)
	}

	// reads against a deactivated connection conflict
	rr = doJSON(t, h, http.MethodGet, "/v1/hotels/h1/configuration", nil)
	if rr.Code != http.StatusConflict {
		t.Fatalf("inactive read = %d, want 409", rr.Code)
	}
}

func TestRegisterInactiveConnectionOverHTTP(t *testing.T) {
	h := newTestAPI(t)
	rr := doJSON(t, h, http.MethodPost, "/v1/connections", map[string]any{
		"hotel_id":      "h1",
		"provider_type": "mock",
		"is_active":     false,
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("register status = %d, body = %s", rr.Code, rr.Body.String())
	}
	var conn map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &conn); err != nil {
		t.Fatalf("decode connection: %v", err)
	}
	if conn["is_active"] != false {
		t.Fatalf("is_active = %v, want false as supplied", conn["is_active"])
	}

	rr = doJSON(t, h, http.MethodGet, "/v1/hotels/h1/configuration", nil)
	if rr.Code != http.StatusConflict {
		t.Fatalf("read against inactive registration = %d, want 409", rr.Code)
	}

	// omitting the flag keeps the default: active
	registerMock(t, h, "h1")
	rr = doJSON(t, h, http.MethodGet, "/v1/hotels/h1/configuration", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("read after activation = %d", rr.Code)
	}
}

func TestUnknownHotelIs404(t *testing.T) {
	h := newTestAPI(t)
	rr := doJSON(t, h, http.MethodGet, "/v1/hotels/ghost/room-types", nil)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/problem+json" {
		t.Fatalf("content type = %q", ct)
	}
}

func TestUnknownProviderIs400(t *testing.T) {
	h := newTestAPI(t)
	registerMock(t, h, "h1") // sanity: the route itself works

	rr := doJSON(t, h, http.MethodPost, "/v1/connections", map[string]any{
		"hotel_id":      "h2",
		"provider_type": "fancy_pms",
		"credentials":   map[string]string{"api_key": "k"},
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("register of unknown type = %d", rr.Code)
	}
	// the factory rejects it on first use
	rr = doJSON(t, h, http.MethodGet, "/v1/hotels/h2/configuration", nil)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("read with unknown provider = %d, want 400", rr.Code)
	}
}

func TestTestConnectionEndpoint(t *testing.T) {
	h := newTestAPI(t)

	rr := doJSON(t, h, http.MethodPost, "/v1/connections/test", map[string]any{
		"provider_type": "mock",
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("test status = %d", rr.Code)
	}
	var res domain.TestResult
	if err := json.Unmarshal(rr.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if !res.Success || res.Data == nil || res.Data.Name != "Mock PMS Demo Hotel" {
		t.Fatalf("result = %+v", res)
	}

	// failures come back as a 200 with success=false
	rr = doJSON(t, h, http.MethodPost, "/v1/connections/test", map[string]any{
		"provider_type": "fancy_pms",
		"credentials":   map[string]string{"k": "v"},
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("failing test status = %d, want 200", rr.Code)
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if res.Success || res.Message == "" {
		t.Fatalf("result = %+v", res)
	}
}

func TestHotelReadsAndETag(t *testing.T) {
	h := newTestAPI(t)
	registerMock(t, h, "h1")

	rr := doJSON(t, h, http.MethodGet, "/v1/hotels/h1/configuration", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("configuration = %d", rr.Code)
	}
	etag := rr.Header().Get("ETag")
	if etag == "" {
		t.Fatalf("expected an ETag")
	}

	req := httptest.NewRequest(http.MethodGet, "/v1/hotels/h1/configuration", nil)
	req.Header.Set("If-None-Match", etag)
	rr2 := httptest.NewRecorder()
	h.ServeHTTP(rr2, req)
	if rr2.Code != http.StatusNotModified {
		t.Fatalf("conditional read = %d, want 304", rr2.Code)
	}

	rr = doJSON(t, h, http.MethodGet, "/v1/hotels/h1/availability?start_date=2026-09-01&end_date=2026-09-03", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("availability = %d", rr.Code)
	}
	var av []domain.Availability
	if err := json.Unmarshal(rr.Body.Bytes(), &av); err != nil {
		t.Fatalf("decode availability: %v", err)
	}
	if len(av) != 6 {
		t.Fatalf("got %d availability cells, want 6", len(av))
	}

	rr = doJSON(t, h, http.MethodGet, "/v1/hotels/h1/availability", nil)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("availability without range = %d, want 400", rr.Code)
	}

	rr = doJSON(t, h, http.MethodGet, "/v1/hotels/h1/reservations?status=confirmed", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("reservations = %d", rr.Code)
	}
	var rs []domain.Reservation
	if err := json.Unmarshal(rr.Body.Bytes(), &rs); err != nil {
		t.Fatalf("decode reservations: %v", err)
	}
	if len(rs) != 1 || rs[0].Status != "confirmed" {
		t.Fatalf("reservations = %+v", rs)
	}

	rr = doJSON(t, h, http.MethodGet, "/v1/hotels/h1/rates", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("rates = %d", rr.Code)
	}
}
