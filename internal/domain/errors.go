package domain

import "fmt"

// ConfigurationError: a required credential field is missing or invalid
// at adapter construction. Fatal, never retried.
type ConfigurationError struct {
	Provider ProviderType
	Field    string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s: missing or invalid credential %q", e.Provider, e.Field)
}

// UnknownProviderError: the factory was asked for an unrecognized type.
type UnknownProviderError struct {
	Provider ProviderType
}

func (e *UnknownProviderError) Error() string {
	return fmt.Sprintf("unknown provider type %q", e.Provider)
}

// AuthenticationError: token exchange failed, or the single
// retry-after-refresh was also rejected.
type AuthenticationError struct {
	Provider ProviderType
	Status   int
	Message  string
}

func (e *AuthenticationError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: authentication failed (status %d): %s", e.Provider, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: authentication failed: %s", e.Provider, e.Message)
}

// UpstreamError: any non-2xx upstream response outside the 401-retry
// path, or a non-JSON body. Message is probed from the upstream error
// body when parseable.
type UpstreamError struct {
	Provider ProviderType
	Endpoint string
	Status   int
	Message  string
	NonJSON  bool
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s %s: upstream error (status %d): %s", e.Provider, e.Endpoint, e.Status, e.Message)
}

type NoConnectionError struct {
	HotelID string
}

func (e *NoConnectionError) Error() string {
	return fmt.Sprintf("no connection registered for hotel %q", e.HotelID)
}

type InactiveConnectionError struct {
	HotelID string
}

func (e *InactiveConnectionError) Error() string {
	return fmt.Sprintf("connection for hotel %q is inactive", e.HotelID)
}
