package domain

import "time"

type ProviderType string

const (
	ProviderCloudbeds   ProviderType = "cloudbeds"
	ProviderApaleo      ProviderType = "apaleo"
	ProviderOpera       ProviderType = "opera"
	ProviderGuestline   ProviderType = "guestline"
	ProviderHostaway    ProviderType = "hostaway"
	ProviderGuesty      ProviderType = "guesty"
	ProviderStayntouch  ProviderType = "stayntouch"
	ProviderSiteminder  ProviderType = "siteminder"
	ProviderSmoobu      ProviderType = "smoobu"
	ProviderLodgify     ProviderType = "lodgify"
	ProviderChannex     ProviderType = "channex"
	ProviderMews        ProviderType = "mews"
	ProviderProtel      ProviderType = "protel"
	ProviderBeds24      ProviderType = "beds24"
	ProviderHotelogix   ProviderType = "hotelogix"
	ProviderEzee        ProviderType = "ezee"
	ProviderMyallocator ProviderType = "myallocator"
	ProviderMock        ProviderType = "mock"
)

type Environment string

const (
	EnvSandbox    Environment = "sandbox"
	EnvProduction Environment = "production"
)

// Connection is a hotel's stored credentials/config for one provider.
// Owned by the registry; adapters never mutate it. Credentials are
// opaque here — their shape is provider-specific.
// Credentials never serialize outward; they only cross the wire on the
// way in.
type Connection struct {
	ID           string            `json:"id"`
	HotelID      string            `json:"hotel_id"`
	ProviderType ProviderType      `json:"provider_type"`
	Credentials  map[string]string `json:"-"`
	Environment  Environment       `json:"environment"`
	IsActive     bool              `json:"is_active"`
	CreatedAt    time.Time         `json:"created_at"`
	LastSyncAt   *time.Time        `json:"last_sync_at,omitempty"`
}
