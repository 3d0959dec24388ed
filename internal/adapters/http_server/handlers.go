package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"pms_gateway/internal/app"
	"pms_gateway/internal/domain"
)

type Handlers struct {
	GW *app.Gateway
	Q  *app.QueryService
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })

	s.mux.Post("/v1/connections", h.registerConnection)
	s.mux.Get("/v1/connections", h.listConnections)
	s.mux.Get("/v1/connections/{hotelID}", h.getConnection)
	s.mux.Delete("/v1/connections/{hotelID}", h.removeConnection)
	s.mux.Post("/v1/connections/test", h.testConnection)

	s.mux.Get("/v1/hotels/{hotelID}/configuration", h.getConfiguration)
	s.mux.Get("/v1/hotels/{hotelID}/availability", h.getAvailability)
	s.mux.Get("/v1/hotels/{hotelID}/reservations", h.getReservations)
	s.mux.Get("/v1/hotels/{hotelID}/room-types", h.getRoomTypes)
	s.mux.Get("/v1/hotels/{hotelID}/rates", h.getRates)
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// writeDomainErr maps the gateway's error taxonomy onto HTTP statuses.
func writeDomainErr(w http.ResponseWriter, err error) {
	var (
		noConn   *domain.NoConnectionError
		inactive *domain.InactiveConnectionError
		unknown  *domain.UnknownProviderError
		badCfg   *domain.ConfigurationError
		authErr  *domain.AuthenticationError
		upstream *domain.UpstreamError
	)
	switch {
	case errors.As(err, &noConn):
		writeProblem(w, http.StatusNotFound, "No Connection", err.Error())
	case errors.As(err, &inactive):
		writeProblem(w, http.StatusConflict, "Inactive Connection", err.Error())
	case errors.As(err, &unknown), errors.As(err, &badCfg):
		writeProblem(w, http.StatusBadRequest, "Invalid Connection", err.Error())
	case errors.As(err, &authErr):
		writeProblem(w, http.StatusBadGateway, "Provider Authentication Failed", err.Error())
	case errors.As(err, &upstream):
		writeProblem(w, http.StatusBadGateway, "Provider Request Failed", err.Error())
	default:
		writeProblem(w, http.StatusInternalServerError, "Internal Error", err.Error())
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

func writeCacheable(w http.ResponseWriter, r *http.Request, v any) {
	etag, body := calcETagAndBody(v)
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag) // include ETag on 304
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write response body")
	}
}

type registerRequest struct {
	HotelID      string            `json:"hotel_id"`
	ProviderType string            `json:"provider_type"`
	Credentials  map[string]string `json:"credentials"`
	Environment  string            `json:"environment"`
	IsActive     *bool             `json:"is_active"` // omitted means active
}

func (h *Handlers) registerConnection(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", "request body must be valid JSON")
		return
	}
	if req.HotelID == "" || req.ProviderType == "" {
		writeProblem(w, http.StatusBadRequest, "Invalid Connection", "hotel_id and provider_type are required")
		return
	}
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	conn, err := h.GW.RegisterConnection(r.Context(), domain.Connection{
		HotelID:      req.HotelID,
		ProviderType: domain.ProviderType(req.ProviderType),
		Credentials:  req.Credentials,
		Environment:  domain.Environment(req.Environment),
		IsActive:     active,
	})
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, conn)
}

func (h *Handlers) listConnections(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.GW.ListConnections())
}

func (h *Handlers) getConnection(w http.ResponseWriter, r *http.Request) {
	conn, err := h.GW.GetConnection(chi.URLParam(r, "hotelID"))
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, conn)
}

func (h *Handlers) removeConnection(w http.ResponseWriter, r *http.Request) {
	if err := h.GW.RemoveConnection(r.Context(), chi.URLParam(r, "hotelID")); err != nil {
		writeDomainErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type testRequest struct {
	ProviderType string            `json:"provider_type"`
	Credentials  map[string]string `json:"credentials"`
	Environment  string            `json:"environment"`
}

func (h *Handlers) testConnection(w http.ResponseWriter, r *http.Request) {
	var req testRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", "request body must be valid JSON")
		return
	}
	// Always 200: failure is reported in the result, not as an HTTP error.
	res := h.GW.TestConnection(r.Context(), domain.ProviderType(req.ProviderType), req.Credentials, domain.Environment(req.Environment))
	writeJSON(w, http.StatusOK, res)
}

func (h *Handlers) getConfiguration(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.Q.GetConfiguration(r.Context(), chi.URLParam(r, "hotelID"))
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeCacheable(w, r, cfg)
}

func (h *Handlers) getAvailability(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	p := domain.AvailabilityParams{
		StartDate:  q.Get("start_date"),
		EndDate:    q.Get("end_date"),
		RoomTypeID: q.Get("room_type_id"),
	}
	if p.StartDate == "" || p.EndDate == "" {
		writeProblem(w, http.StatusBadRequest, "Invalid Range", "start_date and end_date are required (YYYY-MM-DD)")
		return
	}
	out, err := h.Q.GetAvailability(r.Context(), chi.URLParam(r, "hotelID"), p)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) getReservations(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	p := domain.ReservationParams{
		StartDate: q.Get("start_date"),
		EndDate:   q.Get("end_date"),
		Status:    q.Get("status"),
	}
	out, err := h.Q.GetReservations(r.Context(), chi.URLParam(r, "hotelID"), p)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) getRoomTypes(w http.ResponseWriter, r *http.Request) {
	out, err := h.Q.GetRoomTypes(r.Context(), chi.URLParam(r, "hotelID"))
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeCacheable(w, r, out)
}

func (h *Handlers) getRates(w http.ResponseWriter, r *http.Request) {
	out, err := h.Q.GetRates(r.Context(), chi.URLParam(r, "hotelID"))
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeCacheable(w, r, out)
}
