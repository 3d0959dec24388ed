package app

import (
	"context"
	"fmt"
	"time"

	"pms_gateway/internal/domain"
)

// SyncService pulls availability and reservation snapshots for a hotel
// through the gateway and records them for downstream consumers
// (scoring, reporting). One failing hotel never affects another; the
// caller decides how to handle per-hotel errors.
type SyncService struct {
	gw         *Gateway
	snaps      domain.SnapshotStore
	windowDays int
}

func NewSyncService(gw *Gateway, snaps domain.SnapshotStore, windowDays int) *SyncService {
	if windowDays <= 0 {
		windowDays = 30
	}
	return &SyncService{gw: gw, snaps: snaps, windowDays: windowDays}
}

func (s *SyncService) SyncHotel(ctx context.Context, hotelID string) error {
	start := time.Now().UTC()
	end := start.AddDate(0, 0, s.windowDays)
	from := start.Format("2006-01-02")
	to := end.Format("2006-01-02")

	av, err := s.gw.GetAvailability(ctx, hotelID, domain.AvailabilityParams{StartDate: from, EndDate: to})
	if err != nil {
		return fmt.Errorf("sync availability for %s: %w", hotelID, err)
	}
	if s.snaps != nil && len(av) > 0 {
		if err := s.snaps.UpsertAvailability(ctx, hotelID, av); err != nil {
			return fmt.Errorf("store availability for %s: %w", hotelID, err)
		}
	}

	rs, err := s.gw.GetReservations(ctx, hotelID, domain.ReservationParams{StartDate: from, EndDate: to})
	if err != nil {
		return fmt.Errorf("sync reservations for %s: %w", hotelID, err)
	}
	if s.snaps != nil && len(rs) > 0 {
		if err := s.snaps.UpsertReservations(ctx, hotelID, rs); err != nil {
			return fmt.Errorf("store reservations for %s: %w", hotelID, err)
		}
	}

	return s.gw.TouchLastSync(ctx, hotelID)
}
