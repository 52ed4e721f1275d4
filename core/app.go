package core

import (
	"log/slog"

	"github.com/margdarshak/margdarshak/cache"
	"github.com/margdarshak/margdarshak/config"
	"github.com/margdarshak/margdarshak/db"
	"github.com/margdarshak/margdarshak/geo"
	"github.com/margdarshak/margdarshak/notify"
	"github.com/margdarshak/margdarshak/router"
	"github.com/margdarshak/margdarshak/topk"
)

// App is the application wide context: db connections and other permanent
// heavy objects live here, and all handlers and middleware have App as
// receiver.
type App struct {
	dbAuth         db.DbAuth
	dbQueue        db.DbQueue
	dbOrders       db.DbOrders
	router         router.Router
	cache          cache.Cache[string, any]
	configProvider *config.Provider
	logger         *slog.Logger
	notifier       notify.Notifier
	authenticator  Authenticator
	validator      Validator
	geo            *geo.Client
	metricsSketch  *topk.Sketch
}

// Router returns the application's router instance
func (a *App) Router() router.Router {
	return a.router
}

func (a *App) SetRouter(r router.Router) {
	a.router = r
}

func (a *App) DbAuth() db.DbAuth {
	return a.dbAuth
}

func (a *App) DbQueue() db.DbQueue {
	return a.dbQueue
}

func (a *App) DbOrders() db.DbOrders {
	return a.dbOrders
}

// SetDb sets the database interfaces for auth, queue and orders
func (a *App) SetDb(dbApp db.DbApp) {
	if dbApp == nil {
		panic("DbApp cannot be nil")
	}
	a.dbAuth = dbApp
	a.dbQueue = dbApp
	a.dbOrders = dbApp
}

func (a *App) Logger() *slog.Logger {
	return a.logger
}

func (a *App) SetLogger(l *slog.Logger) {
	a.logger = l
}

func (a *App) SetCache(c cache.Cache[string, any]) {
	a.cache = c
}

func (a *App) Cache() cache.Cache[string, any] {
	return a.cache
}

func (a *App) Config() *config.Config {
	return a.configProvider.Get()
}

func (a *App) ConfigProvider() *config.Provider {
	return a.configProvider
}

func (a *App) SetConfigProvider(provider *config.Provider) {
	a.configProvider = provider
}

func (a *App) Notifier() notify.Notifier {
	return a.notifier
}

func (a *App) SetNotifier(n notify.Notifier) {
	a.notifier = n
}

// SetAuthenticator sets the authenticator implementation
func (a *App) SetAuthenticator(auth Authenticator) {
	a.authenticator = auth
}

func (a *App) Auth() Authenticator {
	return a.authenticator
}

// SetValidator sets the validator implementation
func (a *App) SetValidator(v Validator) {
	a.validator = v
}

// Validator returns the validator instance
func (a *App) Validator() Validator {
	return a.validator
}

func (a *App) Geo() *geo.Client {
	return a.geo
}

func (a *App) SetGeo(c *geo.Client) {
	a.geo = c
}

func (a *App) MetricsSketch() *topk.Sketch {
	return a.metricsSketch
}

func (a *App) SetMetricsSketch(s *topk.Sketch) {
	a.metricsSketch = s
}
