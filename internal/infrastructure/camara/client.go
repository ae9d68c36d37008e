// Package camara implements the upstream HTTP access layer: a rate-limited,
// retrying client and the typed resource accessors built on top of it.
package camara

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"

	"lupa/internal/bootstrap/config"
	"lupa/internal/bootstrap/logging"
	"lupa/internal/errs"
)

// StatusError is a non-2xx upstream answer. 429 and 5xx are transient and
// retried; anything else fails the call.
type StatusError struct {
	Code int
	Path string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("camara API %s: unexpected status %d", e.Path, e.Code)
}

func (e *StatusError) Transient() bool {
	return e.Code == http.StatusTooManyRequests || e.Code >= 500
}

// IsNotFound reports whether err is an upstream 404.
func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == http.StatusNotFound
}

// Client serializes outbound GETs against the upstream API, enforcing a
// global minimum interval between requests and retrying transient failures.
// The last-request marker and its lock are owned by the instance; every
// extraction path must share one Client so the interval holds process-wide.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	minInterval time.Duration
	timeout     time.Duration
	maxRetries  int

	// Injectable for tests with a fake clock.
	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error

	mu          sync.Mutex
	lastRequest time.Time
}

func NewClient(cfg config.CamaraConfig) *Client {
	return &Client{
		httpClient:  &http.Client{},
		baseURL:     cfg.BaseURL,
		minInterval: cfg.MinInterval(),
		timeout:     cfg.Timeout(),
		maxRetries:  cfg.MaxRetries,
		now:         time.Now,
		sleep:       sleepContext,
	}
}

// Get performs one rate-limited GET and returns the raw response body.
// The lock is held for the whole call, retries included, so concurrent
// callers are strictly serialized.
func (c *Client) Get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = time.Second

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			if err := c.sleep(ctx, bo.NextBackOff()); err != nil {
				return nil, errs.Wrap(err, "wait before retry")
			}
		}

		if wait := c.minInterval - c.now().Sub(c.lastRequest); wait > 0 {
			if err := c.sleep(ctx, wait); err != nil {
				return nil, errs.Wrap(err, "wait for request interval")
			}
		}
		// Marked on every attempt so the interval holds across retries too.
		c.lastRequest = c.now()

		body, err := c.do(ctx, path, query)
		if err == nil {
			return body, nil
		}

		var se *StatusError
		if errors.As(err, &se) && !se.Transient() {
			return nil, err
		}
		lastErr = err

		logging.Warn(ctx, "camara request failed",
			slog.String("component", "camara.client"),
			slog.String("path", path),
			slog.Int("attempt", attempt+1),
			slog.Any("err", errs.Loggable(err)),
		)
	}

	return nil, errs.Wrapf(lastErr, "camara API %s: retries exhausted after %d attempts", path, c.maxRetries+1)
}

func (c *Client) do(ctx context.Context, path string, query url.Values) ([]byte, error) {
	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, errs.Wrapf(err, "build request %s", path)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errs.Wrapf(err, "camara API %s", path)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{Code: resp.StatusCode, Path: path}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errs.Wrapf(err, "read response %s", path)
	}
	return body, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
