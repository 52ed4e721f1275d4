package geo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/cenkalti/backoff/v4"

	"github.com/margdarshak/margdarshak/cache"
	"github.com/margdarshak/margdarshak/config"
)

// ErrUpstream is returned when an external geo service keeps failing after
// the retry budget, or rejects the request outright. Handlers map it to a
// 502; the upstream detail stays in the server log.
var ErrUpstream = errors.New("upstream geo service failed")

// Client consolidates the external geo services behind one timeout, retry
// and cache policy. All methods return the upstream response body verbatim;
// the backend does not reinterpret geodata.
type Client struct {
	configProvider *config.Provider
	httpClient     *http.Client
	cache          cache.Cache[string, []byte]
	logger         *slog.Logger
}

// New creates a geo client. The cache may be nil to disable caching.
func New(provider *config.Provider, c cache.Cache[string, []byte], logger *slog.Logger) *Client {
	return &Client{
		configProvider: provider,
		httpClient:     &http.Client{},
		cache:          c,
		logger:         logger,
	}
}

// do performs the request with retries and caches successful responses
// under cacheKey. Requests with a body must provide getBody so retries can
// replay it.
func (c *Client) do(ctx context.Context, cacheKey string, newReq func(ctx context.Context) (*http.Request, error)) ([]byte, error) {
	if c.cache != nil {
		if body, ok := c.cache.Get(cacheKey); ok {
			return body, nil
		}
	}

	cfg := c.configProvider.Get().Geo

	reqCtx, cancel := context.WithTimeout(ctx, cfg.Timeout.Duration)
	defer cancel()

	operation := func() ([]byte, error) {
		req, err := newReq(reqCtx)
		if err != nil {
			return nil, backoff.Permanent(err)
		}
		req.Header.Set("User-Agent", cfg.UserAgent)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, err // network errors are retryable
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}

		switch {
		case resp.StatusCode >= 200 && resp.StatusCode < 300:
			return body, nil
		case resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests:
			return nil, fmt.Errorf("upstream status %d", resp.StatusCode)
		default:
			// 4xx will not improve on retry.
			return nil, backoff.Permanent(fmt.Errorf("upstream status %d", resp.StatusCode))
		}
	}

	bo := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), cfg.MaxRetries),
		reqCtx)

	body, err := backoff.RetryWithData(operation, bo)
	if err != nil {
		c.logger.Error("geo upstream request failed", "key", redactKey(cacheKey), "err", err)
		return nil, fmt.Errorf("%w: %w", ErrUpstream, err)
	}

	if c.cache != nil {
		c.cache.SetWithTTL(cacheKey, body, int64(len(body)), cfg.CacheTtl.Duration)
	}
	return body, nil
}

// redactKey keeps log lines bounded; cache keys embed full request bodies.
func redactKey(key string) string {
	if i := strings.IndexByte(key, ':'); i > 0 {
		return key[:i]
	}
	if len(key) > 64 {
		return key[:64]
	}
	return key
}
