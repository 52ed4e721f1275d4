package config

import (
	"errors"
	"fmt"
)

const minSecretLength = 32

// Validate checks invariants the rest of the application relies on.
// It is called on every load and reload; a config that fails here never
// reaches the provider.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.New("config is nil")
	}

	if len(cfg.Jwt.AuthSecret) < minSecretLength {
		return fmt.Errorf("jwt auth secret must be at least %d bytes (set %s)", minSecretLength, EnvJwtSecret)
	}
	if cfg.Jwt.AuthTokenDuration.Duration <= 0 {
		return errors.New("jwt auth token duration must be positive")
	}

	if cfg.Otp.Digits != 6 {
		return fmt.Errorf("otp digits must be 6, got %d", cfg.Otp.Digits)
	}
	if cfg.Otp.Ttl.Duration <= 0 {
		return errors.New("otp ttl must be positive")
	}
	if cfg.Otp.MaxAttempts <= 0 {
		return errors.New("otp max attempts must be positive")
	}

	if cfg.Server.Addr == "" {
		return errors.New("server addr must not be empty")
	}

	if cfg.Scheduler.Interval.Duration <= 0 {
		return errors.New("scheduler interval must be positive")
	}
	if cfg.Scheduler.MaxJobsPerTick <= 0 {
		return errors.New("scheduler max jobs per tick must be positive")
	}
	if cfg.Scheduler.ConcurrencyMultiplier <= 0 {
		return errors.New("scheduler concurrency multiplier must be positive")
	}

	if cfg.Smtp.Enabled {
		if cfg.Smtp.Host == "" || cfg.Smtp.Port == 0 {
			return errors.New("smtp host and port are required when smtp is enabled")
		}
		if cfg.Smtp.FromAddress == "" {
			return errors.New("smtp from address is required when smtp is enabled")
		}
	}

	if cfg.Uploads.Dir == "" {
		return errors.New("uploads dir must not be empty")
	}
	if cfg.Uploads.MaxBytes <= 0 {
		return errors.New("uploads max bytes must be positive")
	}

	if cfg.Geo.Timeout.Duration <= 0 {
		return errors.New("geo timeout must be positive")
	}

	return nil
}
