package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Load reads the TOML file at path over the defaults, then pulls secrets
// from the environment and validates the result. An empty path keeps the
// defaults; the JWT secret always comes from the environment.
func Load(path string) (*Config, error) {
	cfg := NewDefaultConfig()

	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("config: failed to decode %s: %w", path, err)
		}
	}

	cfg.Jwt.AuthSecret = []byte(os.Getenv(EnvJwtSecret))
	cfg.Smtp.Password = os.Getenv(EnvSmtpPassword)
	cfg.Notifier.Discord.WebhookURL = os.Getenv(EnvDiscordWebhook)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("config: validation failed: %w", err)
	}

	return cfg, nil
}
