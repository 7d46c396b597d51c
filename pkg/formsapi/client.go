package formsapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const maxResponseBytes = 4 << 20

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.http = client
		}
	}
}

// WithToken sends token as a bearer credential.
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = strings.TrimSpace(token)
	}
}

// WithRateLimit paces requests to rps with the given burst. Zero rps
// disables pacing.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithRetries sets how many times a failed request is retried.
func WithRetries(retries int) Option {
	return func(c *Client) {
		if retries >= 0 {
			c.retries = uint64(retries)
		}
	}
}

// WithBackoff overrides the exponential backoff bounds.
func WithBackoff(initial, maxInterval time.Duration) Option {
	return func(c *Client) {
		if initial > 0 {
			c.initialInterval = initial
		}
		if maxInterval > 0 {
			c.maxInterval = maxInterval
		}
	}
}

// WithLogger routes retry diagnostics to logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Client talks to the forms service.
type Client struct {
	endpoints       Endpoints
	http            *http.Client
	token           string
	limiter         *rate.Limiter
	retries         uint64
	initialInterval time.Duration
	maxInterval     time.Duration
	logger          *zap.Logger
}

// NewClient builds a client for the API at baseURL.
func NewClient(baseURL string, options ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("formsapi: base URL is required")
	}
	c := &Client{
		endpoints:       Endpoints{BaseURL: baseURL},
		http:            &http.Client{Timeout: 30 * time.Second},
		limiter:         rate.NewLimiter(rate.Limit(5), 1),
		retries:         3,
		initialInterval: 500 * time.Millisecond,
		maxInterval:     8 * time.Second,
		logger:          zap.NewNop(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(c)
		}
	}
	return c, nil
}

// Endpoints returns the URL builder for this client's API.
func (c *Client) Endpoints() Endpoints { return c.endpoints }

// GetForm fetches a form resource.
func (c *Client) GetForm(ctx context.Context, formID string) (Form, error) {
	if strings.TrimSpace(formID) == "" {
		return Form{}, errors.New("formsapi: form id is required")
	}
	var form Form
	if err := c.do(ctx, http.MethodGet, c.endpoints.FormURL(formID), nil, &form); err != nil {
		return Form{}, err
	}
	return form, nil
}

// UpdateSpecs replaces the form's spec text and returns the updated form.
func (c *Client) UpdateSpecs(ctx context.Context, formID, specs string) (Form, error) {
	if strings.TrimSpace(formID) == "" {
		return Form{}, errors.New("formsapi: form id is required")
	}
	payload, err := json.Marshal(map[string]string{"specs": specs})
	if err != nil {
		return Form{}, fmt.Errorf("formsapi: encode request: %w", err)
	}
	var form Form
	if err := c.do(ctx, http.MethodPatch, c.endpoints.FormURL(formID), payload, &form); err != nil {
		return Form{}, err
	}
	return form, nil
}

func (c *Client) do(ctx context.Context, method, url string, body []byte, out any) error {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = c.initialInterval
	policy.MaxInterval = c.maxInterval
	policy.MaxElapsedTime = 0

	attempt := 0
	operation := func() error {
		attempt++
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return backoff.Permanent(err)
			}
		}
		err := c.once(ctx, method, url, body, out)
		var apiErr *APIError
		if errors.As(err, &apiErr) && !apiErr.Temporary() {
			return backoff.Permanent(err)
		}
		if ctx.Err() != nil {
			return backoff.Permanent(ctx.Err())
		}
		return err
	}
	notify := func(err error, wait time.Duration) {
		c.logger.Warn("formsapi: retrying request",
			zap.String("method", method),
			zap.String("url", url),
			zap.Int("attempt", attempt),
			zap.Duration("wait", wait),
			zap.Error(err),
		)
	}

	b := backoff.WithContext(backoff.WithMaxRetries(policy, c.retries), ctx)
	if err := backoff.RetryNotify(operation, b, notify); err != nil {
		return err
	}
	return nil
}

func (c *Client) once(ctx context.Context, method, url string, body []byte, out any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return backoff.Permanent(fmt.Errorf("formsapi: build request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("formsapi: %s %s: %w", method, url, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("formsapi: read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newAPIError(resp.StatusCode, data)
	}
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return backoff.Permanent(fmt.Errorf("formsapi: decode response: %w", err))
	}
	return nil
}
