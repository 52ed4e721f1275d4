package core

import (
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/margdarshak/margdarshak/config"
	"github.com/margdarshak/margdarshak/db"
)

// mapCache is a deterministic cache.Cache implementation for tests. TTLs
// are ignored; entries live until overwritten.
type mapCache struct {
	mu sync.Mutex
	m  map[string]any
}

func newMapCache() *mapCache {
	return &mapCache{m: make(map[string]any)}
}

func (c *mapCache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.m[key]
	return v, ok
}

func (c *mapCache) Set(key string, value any, cost int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[key] = value
	return true
}

func (c *mapCache) SetWithTTL(key string, value any, cost int64, ttl time.Duration) bool {
	return c.Set(key, value, cost)
}

// authenticatorMock returns a fixed user or a fixed error response.
type authenticatorMock struct {
	user *db.User
	err  error
	resp jsonResponse
}

func (m *authenticatorMock) Authenticate(r *http.Request) (*db.User, error, jsonResponse) {
	return m.user, m.err, m.resp
}

func testConfig() *config.Config {
	cfg := config.NewDefaultConfig()
	cfg.Jwt.AuthSecret = []byte("test-secret-32-bytes-loooooooong")
	return cfg
}

// newTestApp wires an App with mocks and defaults suitable for handler
// tests. Callers mutate the returned app for scenario-specific behavior.
func newTestApp(dbApp db.DbApp) *App {
	app := &App{
		configProvider: config.NewProvider(testConfig()),
		logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
		validator:      &DefaultValidator{},
		cache:          newMapCache(),
	}
	if dbApp != nil {
		app.SetDb(dbApp)
	}
	return app
}
