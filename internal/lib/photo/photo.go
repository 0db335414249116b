// Package photo fetches random profile pictures for new users.
//
// The upstream is best effort: any failure, timeout or open breaker yields
// no photo and the user is created without one.
package photo

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"

	"github.com/deppfellow/users-service/internal/config"
	"github.com/deppfellow/users-service/internal/middleware"
)

// MaxPhotoBytes caps how much of the upstream body is read.
const MaxPhotoBytes = 10 << 20

// Fetcher returns image bytes, or nil when no photo is available.
type Fetcher interface {
	Fetch(ctx context.Context) []byte
}

// Client fetches photos from the configured endpoint.
type Client struct {
	url     string
	timeout time.Duration
	http    *http.Client
	cb      *gobreaker.CircuitBreaker
	logger  *zerolog.Logger
}

var _ Fetcher = (*Client)(nil)

// NewClient builds a Client from the integration config. Requests go
// through the New Relic round tripper so fetches show up as external
// segments of the calling transaction.
func NewClient(cfg config.IntegrationConfig, logger *zerolog.Logger) *Client {
	st := gobreaker.Settings{
		Name:        "ProfilePhotoCircuitBreaker",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("profile photo circuit breaker state changed")
		},
	}

	return &Client{
		url:     cfg.ProfilePhotoURL,
		timeout: cfg.ProfilePhotoTimeout,
		http:    &http.Client{Transport: newrelic.NewRoundTripper(nil)},
		cb:      gobreaker.NewCircuitBreaker(st),
		logger:  logger,
	}
}

// Fetch downloads one photo. It never returns an error; failures are
// logged and reported as nil.
func (c *Client) Fetch(ctx context.Context) []byte {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	val, err := c.cb.Execute(func() (interface{}, error) {
		return c.get(ctx)
	})
	if err != nil {
		middleware.LoggerFromContext(ctx, c.logger).Error().
			Err(err).
			Str("url", c.url).
			Msg("error fetching profile photo")
		if txn := newrelic.FromContext(ctx); txn != nil {
			txn.Application().RecordCustomEvent("ProfilePhotoFetchFailed", map[string]interface{}{
				"url":   c.url,
				"error": err.Error(),
			})
		}
		return nil
	}

	data, _ := val.([]byte)
	if len(data) == 0 {
		return nil
	}
	return data
}

func (c *Client) get(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build photo request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request photo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("photo endpoint returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxPhotoBytes))
	if err != nil {
		return nil, fmt.Errorf("read photo body: %w", err)
	}
	return data, nil
}
