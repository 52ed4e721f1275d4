package config

import (
	"log/slog"
	"time"
)

// NewDefaultConfig creates a new Config with sensible defaults. Secrets
// stay empty; they are filled from the environment by Load.
func NewDefaultConfig() *Config {
	return &Config{
		DBFile: "margdarshak.db",
		Server: Server{
			Addr:                    ":5000",
			ShutdownGracefulTimeout: Duration{Duration: 15 * time.Second},
			ReadTimeout:             Duration{Duration: 5 * time.Second},
			ReadHeaderTimeout:       Duration{Duration: 2 * time.Second},
			WriteTimeout:            Duration{Duration: 10 * time.Second},
			IdleTimeout:             Duration{Duration: 1 * time.Minute},
			ClientIpProxyHeader:     "",
		},
		Jwt: Jwt{
			AuthTokenDuration: Duration{Duration: 7 * 24 * time.Hour},
		},
		Otp: Otp{
			Digits:         6,
			Ttl:            Duration{Duration: 10 * time.Minute},
			MaxAttempts:    5,
			PurgeRetention: Duration{Duration: 24 * time.Hour},
			PurgeInterval:  Duration{Duration: 1 * time.Hour},
		},
		Smtp: Smtp{
			Enabled:     false,
			Host:        "smtp.gmail.com",
			Port:        587,
			FromName:    "Margdarshak",
			FromAddress: "",
			Username:    "",
		},
		Scheduler: Scheduler{
			Interval:              Duration{Duration: 15 * time.Second},
			MaxJobsPerTick:        10,
			ConcurrencyMultiplier: 2,
			JobTimeout:            Duration{Duration: 2 * time.Minute},
		},
		Uploads: Uploads{
			Dir:      "uploads",
			MaxBytes: 5 << 20,
		},
		Geo: Geo{
			NominatimURL: "https://nominatim.openstreetmap.org",
			OrsURL:       "https://api.openrouteservice.org",
			OverpassURL:  "https://overpass-api.de/api/interpreter",
			Timeout:      Duration{Duration: 10 * time.Second},
			MaxRetries:   2,
			CacheTtl:     Duration{Duration: 5 * time.Minute},
			UserAgent:    "margdarshak-backend",
		},
		Log: Log{
			Level: LogLevel{Level: slog.LevelInfo},
			Request: LogRequest{
				Activated:       true,
				URILength:       512,
				UserAgentLength: 256,
				RemoteIPLength:  64,
			},
		},
		RateLimits: RateLimits{
			OtpEmailCooldown: Duration{Duration: 1 * time.Minute},
		},
		Metrics: Metrics{
			Activated:        false,
			Endpoint:         "/metrics",
			AllowedIPs:       []string{"127.0.0.1", "::1"},
			SketchK:          20,
			SketchWindowSize: 60,
		},
		Notifier: Notifier{
			Discord: Discord{
				Activated:    false,
				APIRateLimit: Duration{Duration: 2 * time.Second},
				APIBurst:     1,
				SendTimeout:  Duration{Duration: 10 * time.Second},
			},
		},
		BlockRequestBody: BlockRequestBody{
			Activated: true,
			Limit:     6 << 20, // multipart avatar uploads must fit
		},
	}
}
