package margdarshak

import (
	"fmt"
	"log/slog"
	"os"
	"runtime"

	phuslog "github.com/phuslu/log"
	"zombiezen.com/go/sqlite/sqlitex"

	cacheRistretto "github.com/margdarshak/margdarshak/cache/ristretto"
	"github.com/margdarshak/margdarshak/core"
	"github.com/margdarshak/margdarshak/db/zombiezen"
	"github.com/margdarshak/margdarshak/router/httprouter"
)

// WithZombiezenPool configures the app to use the zombiezen SQLite
// implementation with an existing pool. The caller owns the pool's
// lifecycle; sharing one pool with any other database access avoids
// SQLITE_BUSY errors.
func WithZombiezenPool(pool *sqlitex.Pool) core.Option {
	dbInstance, err := zombiezen.New(pool)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize zombiezen db with existing pool: %v", err))
	}
	return core.WithDbApp(dbInstance)
}

// NewZombiezenPool creates a SQLite connection pool with reasonable
// defaults (WAL mode, create if missing).
func NewZombiezenPool(dbPath string) (*sqlitex.Pool, error) {
	pool, err := sqlitex.NewPool("file:"+dbPath, sqlitex.PoolOptions{
		PoolSize: runtime.NumCPU(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create zombiezen pool at %s: %w", dbPath, err)
	}
	return pool, nil
}

// WithRouterHttprouter selects the julienschmidt httprouter implementation.
func WithRouterHttprouter() core.Option {
	return core.WithRouter(httprouter.New())
}

// WithCacheRistretto selects the ristretto cache implementation.
func WithCacheRistretto() core.Option {
	c, err := cacheRistretto.New[string, any]()
	if err != nil {
		panic(fmt.Sprintf("failed to initialize ristretto cache: %v", err))
	}
	return core.WithCache(c)
}

// DefaultLoggerOptions provides default settings for slog handlers.
var DefaultLoggerOptions = &slog.HandlerOptions{
	Level: slog.LevelDebug,
}

// WithPhusLogger configures slog with phuslu/log's JSON handler.
// Uses DefaultLoggerOptions if opts is nil.
func WithPhusLogger(opts *slog.HandlerOptions) core.Option {
	if opts == nil {
		opts = DefaultLoggerOptions
	}
	logger := slog.New(phuslog.SlogNewJSONHandler(os.Stderr, opts))
	return core.WithLogger(logger)
}

// WithTextLogger configures slog with the standard library's text handler.
func WithTextLogger(opts *slog.HandlerOptions) core.Option {
	if opts == nil {
		opts = DefaultLoggerOptions
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, opts))
	return core.WithLogger(logger)
}
