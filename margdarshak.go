// Package margdarshak assembles the application: config, database, router,
// cache, geo client, job scheduler and HTTP server.
package margdarshak

import (
	"errors"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	cacheRistretto "github.com/margdarshak/margdarshak/cache/ristretto"
	"github.com/margdarshak/margdarshak/config"
	"github.com/margdarshak/margdarshak/core"
	"github.com/margdarshak/margdarshak/core/proxy"
	"github.com/margdarshak/margdarshak/db"
	"github.com/margdarshak/margdarshak/geo"
	"github.com/margdarshak/margdarshak/mail"
	"github.com/margdarshak/margdarshak/notify/discord"
	"github.com/margdarshak/margdarshak/queue"
	"github.com/margdarshak/margdarshak/queue/executor"
	"github.com/margdarshak/margdarshak/queue/handlers"
	scl "github.com/margdarshak/margdarshak/queue/scheduler"
	"github.com/margdarshak/margdarshak/server"
	"github.com/margdarshak/margdarshak/topk"
)

// New creates the App and Server from the config file at configPath plus
// the provided options. An empty path runs on defaults.
func New(configPath string, opts ...core.Option) (*core.App, *server.Server, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}

	configProvider := config.NewProvider(cfg)

	allOpts := []core.Option{core.WithConfigProvider(configProvider)}
	allOpts = append(allOpts, opts...)

	app, err := core.NewApp(allOpts...)
	if err != nil {
		return nil, nil, err
	}

	// The geo client gets its own byte cache; the app cache holds mixed
	// values and would force assertions on every hit.
	geoCache, err := cacheRistretto.New[string, []byte]()
	if err != nil {
		return nil, nil, err
	}
	app.SetGeo(geo.New(configProvider, geoCache, app.Logger()))

	if cfg.Metrics.Activated {
		app.SetMetricsSketch(topk.New(cfg.Metrics.SketchK, cfg.Metrics.SketchWindowSize, 0))
	}

	if cfg.Notifier.Discord.Activated && cfg.Notifier.Discord.WebhookURL != "" {
		notifier, err := discord.New(discord.Options{
			WebhookURL:   cfg.Notifier.Discord.WebhookURL,
			APIRateLimit: rate.Every(cfg.Notifier.Discord.APIRateLimit.Duration),
			APIBurst:     cfg.Notifier.Discord.APIBurst,
			SendTimeout:  cfg.Notifier.Discord.SendTimeout.Duration,
		}, app.Logger())
		if err != nil {
			return nil, nil, err
		}
		app.SetNotifier(notifier)
	}

	route(cfg, app)

	if err := seedPurgeJob(app.DbQueue(), cfg); err != nil {
		return nil, nil, err
	}

	scheduler, err := setupScheduler(configProvider, app)
	if err != nil {
		return nil, nil, err
	}

	px := proxy.NewProxy(app)
	srv := server.NewServer(configProvider, px, scheduler, app.Logger())

	return app, srv, nil
}

// seedPurgeJob makes sure one recurrent cleanup job for expired unverified
// accounts exists. The unique pending index turns a re-seed on every boot
// into a no-op.
func seedPurgeJob(dbQueue db.DbQueue, cfg *config.Config) error {
	job := db.Job{
		JobType:      queue.JobTypePurgeUnverified,
		Recurrent:    true,
		Interval:     cfg.Otp.PurgeInterval.Duration,
		ScheduledFor: time.Now().Add(cfg.Otp.PurgeInterval.Duration),
	}

	err := dbQueue.InsertJob(job)
	if err != nil && !errors.Is(err, db.ErrConstraintUnique) {
		return err
	}
	return nil
}

// setupScheduler wires the job handlers and the scheduler. The OTP email
// handler is only registered when SMTP is configured; the purge handler
// always runs.
func setupScheduler(configProvider *config.Provider, app *core.App) (*scl.Scheduler, error) {
	hdls := make(map[string]executor.JobHandler)

	cfg := configProvider.Get()
	logger := app.Logger()

	if cfg.Smtp.Enabled {
		mailer, err := mail.New(configProvider)
		if err != nil {
			return nil, err
		}
		hdls[queue.JobTypeOtpEmail] = handlers.NewOtpEmailHandler(app.DbAuth(), mailer, logger)
	} else {
		logger.Warn("smtp not configured, otp emails will stay queued",
			slog.String("hint", "set smtp.enabled and the smtp password env var"))
	}

	hdls[queue.JobTypePurgeUnverified] = handlers.NewPurgeUnverifiedHandler(app.DbAuth(), configProvider, logger)

	return scl.NewScheduler(configProvider, app.DbQueue(), executor.NewExecutor(hdls), logger, app.Notifier()), nil
}
