// internal/adapters/pms/token.go
package pms

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"pms_gateway/internal/domain"
)

// tokenCache is owned exclusively by one authenticator instance, which
// is owned by one adapter instance. Concurrent calls for the same hotel
// share the adapter, so access is guarded.
type tokenCache struct {
	mu        sync.Mutex
	token     string
	expiresAt time.Time
}

// clientCredentials implements the OAuth2-style exchange: POST client
// id/secret to a token endpoint, cache {accessToken, expiresAt}, reuse
// the token until it is within refreshBuffer of expiry.
type clientCredentials struct {
	provider     domain.ProviderType
	tokenURL     string
	clientID     string
	clientSecret string
	basicAuth    bool       // send credentials via Basic auth instead of form fields
	extraForm    url.Values // provider-specific extra form fields
	hc           *http.Client
	cache        tokenCache
}

func newClientCredentials(provider domain.ProviderType, tokenURL, id, secret string, basicAuth bool) *clientCredentials {
	return &clientCredentials{
		provider:     provider,
		tokenURL:     tokenURL,
		clientID:     id,
		clientSecret: secret,
		basicAuth:    basicAuth,
		hc:           &http.Client{Timeout: requestTimeout},
	}
}

func (a *clientCredentials) Refreshable() bool { return true }

func (a *clientCredentials) Apply(req *http.Request, token string) {
	req.Header.Set("Authorization", "Bearer "+token)
}

func (a *clientCredentials) Token(ctx context.Context, force bool) (string, error) {
	a.cache.mu.Lock()
	defer a.cache.mu.Unlock()

	if !force && a.cache.token != "" && time.Now().Add(refreshBuffer).Before(a.cache.expiresAt) {
		return a.cache.token, nil
	}

	form := url.Values{"grant_type": {"client_credentials"}}
	for k, vs := range a.extraForm {
		for _, v := range vs {
			form.Add(k, v)
		}
	}
	if !a.basicAuth {
		form.Set("client_id", a.clientID)
		form.Set("client_secret", a.clientSecret)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	if a.basicAuth {
		req.SetBasicAuth(a.clientID, a.clientSecret)
	}

	resp, err := a.hc.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", &domain.AuthenticationError{Provider: a.provider, Message: err.Error()}
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &domain.AuthenticationError{
			Provider: a.provider,
			Status:   resp.StatusCode,
			Message:  probeErrorMessage(body, resp.StatusCode),
		}
	}

	// Token endpoints disagree on field names; accept the usual ones.
	var tr struct {
		AccessToken  string `json:"access_token"`
		AccessToken2 string `json:"accessToken"`
		Token        string `json:"token"`
		ExpiresIn    int64  `json:"expires_in"`
		ExpiresIn2   int64  `json:"expiresIn"`
	}
	if err := json.Unmarshal(body, &tr); err != nil {
		return "", &domain.AuthenticationError{
			Provider: a.provider,
			Status:   resp.StatusCode,
			Message:  "token endpoint returned a non-JSON body",
		}
	}
	token := tr.AccessToken
	if token == "" {
		token = tr.AccessToken2
	}
	if token == "" {
		token = tr.Token
	}
	if token == "" {
		return "", &domain.AuthenticationError{Provider: a.provider, Message: "token endpoint returned no access token"}
	}
	expires := tr.ExpiresIn
	if expires == 0 {
		expires = tr.ExpiresIn2
	}
	if expires <= 0 {
		expires = 3600
	}

	a.cache.token = token
	a.cache.expiresAt = time.Now().Add(time.Duration(expires) * time.Second)
	return token, nil
}

// apiKey: the credential itself is the token, sent as a fixed header.
// Refreshing would not change it, so a 401 is surfaced directly.
type apiKey struct {
	key    string
	header string
}

func (a apiKey) Refreshable() bool { return false }

func (a apiKey) Token(_ context.Context, _ bool) (string, error) { return a.key, nil }

func (a apiKey) Apply(req *http.Request, token string) {
	req.Header.Set(a.header, token)
}

// queryKey: like apiKey but appended to every outbound URL. extra holds
// additional fixed query parameters some providers require alongside
// the key (account ids, hotel codes).
type queryKey struct {
	key   string
	param string
	extra url.Values
}

func (a queryKey) Refreshable() bool { return false }

func (a queryKey) Token(_ context.Context, _ bool) (string, error) { return a.key, nil }

func (a queryKey) Apply(req *http.Request, token string) {
	q := req.URL.Query()
	q.Set(a.param, token)
	for k, vs := range a.extra {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	req.URL.RawQuery = q.Encode()
}
