package core

import (
	"errors"
	"log/slog"

	"github.com/margdarshak/margdarshak/cache"
	"github.com/margdarshak/margdarshak/config"
	"github.com/margdarshak/margdarshak/db"
	"github.com/margdarshak/margdarshak/geo"
	"github.com/margdarshak/margdarshak/notify"
	"github.com/margdarshak/margdarshak/router"
)

type Option func(*App)

// WithCache sets the cache implementation
func WithCache(c cache.Cache[string, any]) Option {
	return func(a *App) {
		a.cache = c
	}
}

// WithDbApp sets the application's database implementation. It expects a
// single concrete type (like *zombiezen.Db) that implements db.DbApp.
func WithDbApp(dbApp db.DbApp) Option {
	return func(a *App) {
		a.SetDb(dbApp)
	}
}

// WithRouter sets the router implementation
func WithRouter(r router.Router) Option {
	return func(a *App) {
		a.router = r
	}
}

// WithConfigProvider sets the application's configuration provider.
func WithConfigProvider(p *config.Provider) Option {
	return func(a *App) {
		a.configProvider = p
	}
}

// WithLogger sets the logger implementation
func WithLogger(l *slog.Logger) Option {
	return func(a *App) {
		a.logger = l
	}
}

// WithNotifier sets the notifier implementation
func WithNotifier(n notify.Notifier) Option {
	return func(a *App) {
		a.notifier = n
	}
}

// WithGeo sets the consolidated geo client
func WithGeo(c *geo.Client) Option {
	return func(a *App) {
		a.geo = c
	}
}

// NewApp assembles an App from the given options and fills in the pieces
// that have sane defaults. Router, database, cache, config provider and
// logger have none and must be provided.
func NewApp(opts ...Option) (*App, error) {
	app := &App{}
	for _, opt := range opts {
		opt(app)
	}

	if app.configProvider == nil {
		return nil, errors.New("config provider is required")
	}
	if app.logger == nil {
		return nil, errors.New("logger is required")
	}
	if app.dbAuth == nil || app.dbQueue == nil || app.dbOrders == nil {
		return nil, errors.New("database is required")
	}
	if app.router == nil {
		return nil, errors.New("router is required")
	}
	if app.cache == nil {
		return nil, errors.New("cache is required")
	}

	if app.validator == nil {
		app.validator = NewValidator()
	}
	if app.authenticator == nil {
		app.authenticator = NewDefaultAuthenticator(app.dbAuth, app.logger, app.configProvider)
	}
	if app.geo == nil {
		app.geo = geo.New(app.configProvider, nil, app.logger)
	}

	return app, nil
}
