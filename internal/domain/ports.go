package domain

import "context"

// PMSAdapter is the capability set every provider adapter implements.
// All methods accept canonical parameters and return canonical records.
type PMSAdapter interface {
	// Authenticate obtains a usable credential for the upstream call
	// layer. force discards any cached token first. For static-key
	// providers it simply returns the stored key.
	Authenticate(ctx context.Context, force bool) (string, error)

	GetConfiguration(ctx context.Context) (HotelConfiguration, error)
	GetAvailability(ctx context.Context, p AvailabilityParams) ([]Availability, error)
	GetReservations(ctx context.Context, p ReservationParams) ([]Reservation, error)
	GetRoomTypes(ctx context.Context) ([]RoomType, error)
	GetRates(ctx context.Context) ([]Rate, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

// ConnectionStore persists connections across restarts. The gateway
// works without one (nil store); cmd/api hydrates the registry from it
// at boot.
type ConnectionStore interface {
	UpsertConnection(ctx context.Context, c Connection) error
	ListConnections(ctx context.Context) ([]Connection, error)
	DeactivateConnection(ctx context.Context, hotelID string) error
	TouchLastSync(ctx context.Context, hotelID string) error
}

// SnapshotStore records pull-sync output for downstream consumers.
type SnapshotStore interface {
	UpsertAvailability(ctx context.Context, hotelID string, cells []Availability) error
	UpsertReservations(ctx context.Context, hotelID string, rs []Reservation) error
}

// TestResult is the structured outcome of a credential validation.
type TestResult struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	Data    *HotelConfiguration `json:"data,omitempty"`
}
