// Package apiclient fetches sensor readings from the backend REST API.
// Identical requests are de-duplicated through a dedupe.Group.
package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/cwbudde/algo-vibe/internal/dedupe"
	"github.com/cwbudde/algo-vibe/measure/vibration"
)

var (
	// ErrNotFound is returned when the backend has no reading for a sensor.
	ErrNotFound = errors.New("apiclient: sensor not found")
	// ErrBackend wraps transport failures and unexpected backend responses.
	ErrBackend = errors.New("apiclient: backend failure")
)

const maxBodyBytes = 32 << 20

// DefaultTimeout bounds a backend request when New is given no timeout.
// Shared fetches outlive the callers that started them, so every request
// needs a bound.
const DefaultTimeout = 5 * time.Second

// Client reads payloads from the backend.
type Client struct {
	baseURL string
	http    *http.Client
	group   *dedupe.Group
	logger  *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithGroup sets the de-duplication group.
func WithGroup(g *dedupe.Group) Option {
	return func(cl *Client) {
		if g != nil {
			cl.group = g
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(cl *Client) {
		if l != nil {
			cl.logger = l
		}
	}
}

// New returns a Client for the backend at baseURL. A non-positive timeout
// selects DefaultTimeout.
func New(baseURL string, timeout time.Duration, opts ...Option) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		logger:  zap.NewNop(),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.group == nil {
		c.group = dedupe.NewGroup(nil, c.logger)
	}

	return c
}

// Payload returns the latest reading of sensorID together with how the
// de-duplication group served it.
func (c *Client) Payload(ctx context.Context, sensorID string) (vibration.Payload, dedupe.Outcome, error) {
	if strings.TrimSpace(sensorID) == "" {
		return vibration.Payload{}, dedupe.Fetched, fmt.Errorf("%w: empty sensor id", ErrNotFound)
	}

	endpoint := c.baseURL + "/sensors/" + url.PathEscape(sensorID) + "/latest"

	raw, outcome, err := c.group.Do(ctx, endpoint, func(ctx context.Context) ([]byte, error) {
		return c.get(ctx, endpoint)
	})
	if err != nil {
		return vibration.Payload{}, outcome, err
	}

	var p vibration.Payload
	if err := json.Unmarshal(raw, &p); err != nil {
		return vibration.Payload{}, outcome, fmt.Errorf("%w: decode payload: %v", ErrBackend, err)
	}

	return p, outcome, nil
}

func (c *Client) get(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBackend, err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBackend, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("backend request",
		zap.String("url", endpoint),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrNotFound
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, fmt.Errorf("%w: %s returned %d", ErrBackend, endpoint, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrBackend, err)
	}

	return body, nil
}
