package app

import (
	"context"
	"time"

	"pms_gateway/internal/domain"
)

// QueryService is a read-through cache over the gateway's slow-moving
// reads (configuration, room types, rates). Availability and
// reservations are too volatile to cache and go straight through.
type QueryService struct {
	gw       *Gateway
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewQueryService(gw *Gateway, c domain.Cache, ttl time.Duration) *QueryService {
	return &QueryService{gw: gw, cache: c, cacheTTL: ttl}
}

func (s *QueryService) GetConfiguration(ctx context.Context, hotelID string) (domain.HotelConfiguration, error) {
	key := "pms:cfg:" + hotelID
	var cfg domain.HotelConfiguration
	if ok, _ := s.cache.Get(ctx, key, &cfg); ok {
		return cfg, nil
	}
	cfg, err := s.gw.GetConfiguration(ctx, hotelID)
	if err != nil {
		return domain.HotelConfiguration{}, err
	}
	_ = s.cache.Set(ctx, key, cfg, int(s.cacheTTL.Seconds()))
	return cfg, nil
}

func (s *QueryService) GetRoomTypes(ctx context.Context, hotelID string) ([]domain.RoomType, error) {
	key := "pms:roomtypes:" + hotelID
	var rts []domain.RoomType
	if ok, _ := s.cache.Get(ctx, key, &rts); ok {
		return rts, nil
	}
	rts, err := s.gw.GetRoomTypes(ctx, hotelID)
	if err != nil {
		return nil, err
	}
	// copy before caching so callers can't mutate the cached value
	cp := make([]domain.RoomType, len(rts))
	copy(cp, rts)
	_ = s.cache.Set(ctx, key, cp, int(s.cacheTTL.Seconds()))
	return rts, nil
}

func (s *QueryService) GetRates(ctx context.Context, hotelID string) ([]domain.Rate, error) {
	key := "pms:rates:" + hotelID
	var rates []domain.Rate
	if ok, _ := s.cache.Get(ctx, key, &rates); ok {
		return rates, nil
	}
	rates, err := s.gw.GetRates(ctx, hotelID)
	if err != nil {
		return nil, err
	}
	cp := make([]domain.Rate, len(rates))
	copy(cp, rates)
	_ = s.cache.Set(ctx, key, cp, int(s.cacheTTL.Seconds()))
	return rates, nil
}

func (s *QueryService) GetAvailability(ctx context.Context, hotelID string, p domain.AvailabilityParams) ([]domain.Availability, error) {
	return s.gw.GetAvailability(ctx, hotelID, p)
}

func (s *QueryService) GetReservations(ctx context.Context, hotelID string, p domain.ReservationParams) ([]domain.Reservation, error) {
	return s.gw.GetReservations(ctx, hotelID, p)
}
