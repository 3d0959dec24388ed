// internal/adapters/pms/client.go
package pms

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"pms_gateway/internal/adapters/observability"
	"pms_gateway/internal/domain"
)

const (
	// Ceiling on every upstream call. A timeout is treated like any
	// other network failure.
	requestTimeout = 30 * time.Second

	// A token judged valid at check time must still be valid when the
	// upstream server processes the request; the buffer covers one
	// round trip under normal latency.
	refreshBuffer = 60 * time.Second
)

// authenticator is one of the three auth families: client-credentials
// exchange, static header key, query-string key.
type authenticator interface {
	// Token returns a usable credential; force discards any cached one.
	Token(ctx context.Context, force bool) (string, error)
	// Apply attaches the credential to an outbound request.
	Apply(req *http.Request, token string)
	// Refreshable reports whether a 401 merits a forced refresh and a
	// single retry. Static keys cannot be refreshed.
	Refreshable() bool
}

// client is the upstream call layer shared by all live adapters.
type client struct {
	provider domain.ProviderType
	base     string
	hc       *http.Client
	rl       *rate.Limiter
	auth     authenticator
}

func newClient(provider domain.ProviderType, base string, auth authenticator, rps int) *client {
	if rps <= 0 {
		rps = 5
	}
	return &client{
		provider: provider,
		base:     strings.TrimRight(base, "/"),
		hc:       &http.Client{Timeout: requestTimeout},
		rl:       rate.NewLimiter(rate.Limit(rps), rps),
		auth:     auth,
	}
}

// Authenticate satisfies the adapter contract; adapters embed *client.
func (c *client) Authenticate(ctx context.Context, force bool) (string, error) {
	return c.auth.Token(ctx, force)
}

func (c *client) getJSON(ctx context.Context, path string, q url.Values, out any) error {
	return c.doJSON(ctx, http.MethodGet, path, q, out)
}

// doJSON performs one upstream call with client-side rate limiting and
// the uniform retry policy: an unauthorized response is retried exactly
// once after a forced token refresh; everything else surfaces
// immediately as a typed error.
func (c *client) doJSON(ctx context.Context, method, path string, q url.Values, out any) error {
	if err := c.rl.Wait(ctx); err != nil {
		return err
	}

	token, err := c.auth.Token(ctx, false)
	if err != nil {
		return err
	}

	for attempt := 0; ; attempt++ {
		u := c.base + path
		if len(q) > 0 {
			u += "?" + q.Encode()
		}
		req, err := http.NewRequestWithContext(ctx, method, u, nil)
		if err != nil {
			return err
		}
		c.auth.Apply(req, token)
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", "pms-gateway/1.0")

		start := time.Now()
		resp, err := c.hc.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			observability.ObserveExternal(string(c.provider), path, 0, time.Since(start))
			return &domain.UpstreamError{
				Provider: c.provider,
				Endpoint: path,
				Message:  fmt.Sprintf("request failed: %v", err),
			}
		}
		observability.ObserveExternal(string(c.provider), path, resp.StatusCode, time.Since(start))

		switch {
		case resp.StatusCode >= 200 && resp.StatusCode < 300:
			if resp.StatusCode == http.StatusNoContent || out == nil {
				io.Copy(io.Discard, resp.Body)
				resp.Body.Close()
				return nil
			}
			err := json.NewDecoder(resp.Body).Decode(out)
			resp.Body.Close()
			if err != nil {
				return &domain.UpstreamError{
					Provider: c.provider,
					Endpoint: path,
					Status:   resp.StatusCode,
					Message:  "response body is not valid JSON",
					NonJSON:  true,
				}
			}
			return nil

		case resp.StatusCode == http.StatusUnauthorized:
			body := readErrorBody(resp)
			if attempt == 0 && c.auth.Refreshable() {
				token, err = c.auth.Token(ctx, true)
				if err != nil {
					return err
				}
				continue
			}
			return &domain.AuthenticationError{
				Provider: c.provider,
				Status:   resp.StatusCode,
				Message:  probeErrorMessage(body, resp.StatusCode),
			}

		default:
			body := readErrorBody(resp)
			return &domain.UpstreamError{
				Provider: c.provider,
				Endpoint: path,
				Status:   resp.StatusCode,
				Message:  probeErrorMessage(body, resp.StatusCode),
				NonJSON:  len(body) > 0 && !json.Valid(body),
			}
		}
	}
}

func readErrorBody(resp *http.Response) []byte {
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	resp.Body.Close()
	return b
}

// probeErrorMessage extracts a human-readable message from an upstream
// error body, trying conventional keys in priority order.
func probeErrorMessage(body []byte, status int) string {
	var m map[string]any
	if len(body) > 0 && json.Unmarshal(body, &m) == nil {
		for _, k := range []string{"message", "error_description", "error", "detail", "title"} {
			switch v := m[k].(type) {
			case string:
				if s := strings.TrimSpace(v); s != "" {
					return s
				}
			case map[string]any:
				if s, ok := v["message"].(string); ok && strings.TrimSpace(s) != "" {
					return strings.TrimSpace(s)
				}
			}
		}
	}
	return fmt.Sprintf("request failed with status %d", status)
}
