package pms

import (
	"context"
	"errors"
	"testing"

	"pms_gateway/internal/domain"
)

func TestUnknownProviderFailsFast(t *testing.T) {
	_, err := New("fancy_pms", map[string]string{"api_key": "k"}, domain.EnvProduction)
	var ue *domain.UnknownProviderError
	if !errors.As(err, &ue) {
		t.Fatalf("want UnknownProviderError, got %v", err)
	}
	if ue.Provider != "fancy_pms" {
		t.Fatalf("provider = %q", ue.Provider)
	}
}

func TestMockProviderGetsStub(t *testing.T) {
	a, err := New(domain.ProviderMock, map[string]string{"whatever": "x"}, domain.EnvProduction)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, ok := a.(*stubAdapter); !ok {
		t.Fatalf("mock provider should build the stub, got %T", a)
	}
}

func TestCredentiallessProviderGetsStub(t *testing.T) {
	a, err := New(domain.ProviderCloudbeds, nil, domain.EnvProduction)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	s, ok := a.(*stubAdapter)
	if !ok {
		t.Fatalf("credential-less recognized provider should build the stub, got %T", a)
	}
	cfg, err := s.GetConfiguration(context.Background())
	if err != nil {
		t.Fatalf("GetConfiguration: %v", err)
	}
	if cfg.ID != "demo-cloudbeds" {
		t.Fatalf("stub config id = %q", cfg.ID)
	}
}

func TestMissingCredentialField(t *testing.T) {
	_, err := New(domain.ProviderCloudbeds, map[string]string{"client_id": "id"}, domain.EnvProduction)
	var ce *domain.ConfigurationError
	if !errors.As(err, &ce) {
		t.Fatalf("want ConfigurationError, got %v", err)
	}
	if ce.Field != "client_secret" {
		t.Fatalf("missing field = %q", ce.Field)
	}
}

func TestEveryRegisteredProviderBuilds(t *testing.T) {
	// Full credential maps per provider so every constructor runs.
	creds := map[domain.ProviderType]map[string]string{
		domain.ProviderCloudbeds:   {"client_id": "a", "client_secret": "b", "property_id": "1"},
		domain.ProviderApaleo:      {"client_id": "a", "client_secret": "b", "property_id": "1"},
		domain.ProviderOpera:       {"client_id": "a", "client_secret": "b", "hotel_id": "1"},
		domain.ProviderGuestline:   {"client_id": "a", "client_secret": "b", "site_id": "1"},
		domain.ProviderHostaway:    {"account_id": "a", "client_secret": "b"},
		domain.ProviderGuesty:      {"client_id": "a", "client_secret": "b"},
		domain.ProviderStayntouch:  {"client_id": "a", "client_secret": "b", "hotel_id": "1"},
		domain.ProviderSiteminder:  {"client_id": "a", "client_secret": "b", "property_id": "1"},
		domain.ProviderSmoobu:      {"api_key": "k"},
		domain.ProviderLodgify:     {"api_key": "k", "property_id": "1"},
		domain.ProviderChannex:     {"api_key": "k", "property_id": "1"},
		domain.ProviderMews:        {"access_token": "k"},
		domain.ProviderProtel:      {"api_key": "k", "hotel_id": "1"},
		domain.ProviderBeds24:      {"token": "t", "prop_key": "p"},
		domain.ProviderHotelogix:   {"api_key": "k", "hotel_code": "1"},
		domain.ProviderEzee:        {"auth_code": "k", "hotel_code": "1"},
		domain.ProviderMyallocator: {"auth_token": "t", "property_id": "1"},
	}
	for _, pt := range ProviderTypes() {
		if pt == domain.ProviderMock {
			continue
		}
		c, ok := creds[pt]
		if !ok {
			t.Fatalf("no credential fixture for %s", pt)
		}
		a, err := New(pt, c, domain.EnvProduction)
		if err != nil {
			t.Fatalf("New(%s): %v", pt, err)
		}
		if _, ok := a.(*stubAdapter); ok {
			t.Fatalf("New(%s) returned the stub despite credentials", pt)
		}
	}
}

func TestDisplayName(t *testing.T) {
	if got := DisplayName(domain.ProviderOpera); got != "Oracle OPERA Cloud" {
		t.Fatalf("DisplayName = %q", got)
	}
	if got := DisplayName("nope"); got != "nope" {
		t.Fatalf("DisplayName fallback = %q", got)
	}
}
