package common

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/skyweather/internal/metrics"
)

const maxBodyBytes = 4 << 20

var (
	errRateLimited  = errors.New("rate limited")
	errUnexpected   = errors.New("unexpected status code")
	errCircuitOpen  = errors.New("circuit breaker open")
	errNoHTTPClient = errors.New("http client not configured")
)

// Upstream performs GET requests against one provider behind a circuit breaker.
// There are no retries: a failed call is final and the caller moves to its next tier.
type Upstream struct {
	name      string
	client    *http.Client
	circuit   *gobreaker.CircuitBreaker
	userAgent string
}

// NewUpstream builds an Upstream with the breaker settings shared by every provider.
func NewUpstream(name string, client *http.Client) *Upstream {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
		IsSuccessful: func(err error) bool {
			// A superseded request says nothing about the provider's health.
			return err == nil || errors.Is(err, context.Canceled)
		},
	})
	return &Upstream{
		name:    name,
		client:  client,
		circuit: cb,
	}
}

// WithUserAgent sets the User-Agent header sent on every request.
func (u *Upstream) WithUserAgent(ua string) *Upstream {
	u.userAgent = ua
	return u
}

// Name returns the provider name used in errors and metrics.
func (u *Upstream) Name() string {
	return u.name
}

// Get fetches rawURL and returns the response body of a 2xx response.
func (u *Upstream) Get(ctx context.Context, rawURL string) ([]byte, error) {
	if u.client == nil {
		return nil, NewNetworkError(u.name, errNoHTTPClient)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, NewInvalidResponseError(u.name, fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	if u.userAgent != "" {
		req.Header.Set("User-Agent", u.userAgent)
	}

	start := time.Now()
	result, err := u.circuit.Execute(func() (interface{}, error) {
		resp, execErr := u.client.Do(req)
		if execErr != nil {
			return nil, NewNetworkError(u.name, execErr)
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusTooManyRequests {
			return nil, NewInvalidResponseError(u.name, errRateLimited)
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, NewInvalidResponseError(u.name, fmt.Errorf("%w: %d", errUnexpected, resp.StatusCode))
		}

		body, readErr := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
		if readErr != nil {
			return nil, NewNetworkError(u.name, fmt.Errorf("read body: %w", readErr))
		}
		return body, nil
	})
	metrics.UpstreamLatency.WithLabelValues(u.name).Observe(time.Since(start).Seconds())

	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			err = NewNetworkError(u.name, fmt.Errorf("%w: %v", errCircuitOpen, err))
		}
		metrics.UpstreamRequestsTotal.WithLabelValues(u.name, string(KindOf(err))).Inc()
		return nil, err
	}
	metrics.UpstreamRequestsTotal.WithLabelValues(u.name, "ok").Inc()

	body, ok := result.([]byte)
	if !ok {
		return nil, NewInvalidResponseError(u.name, fmt.Errorf("unexpected result type from circuit breaker"))
	}
	return body, nil
}

// GetJSON fetches rawURL and decodes the body into out.
func (u *Upstream) GetJSON(ctx context.Context, rawURL string, out any) error {
	body, err := u.Get(ctx, rawURL)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return NewInvalidResponseError(u.name, fmt.Errorf("decode response: %w", err))
	}
	return nil
}
