package config

import (
	"fmt"
	"log/slog"
	"time"
)

// Environment variables carrying secrets. Everything else lives in the
// TOML file; secrets never do.
const (
	EnvJwtSecret      = "MARGDARSHAK_JWT_SECRET"
	EnvSmtpPassword   = "MARGDARSHAK_SMTP_PASSWORD"
	EnvDiscordWebhook = "MARGDARSHAK_DISCORD_WEBHOOK"
)

// Duration wraps time.Duration so TOML values like "10m" parse directly.
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler for TOML decoding.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", string(text), err)
	}
	d.Duration = parsed
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// LogLevel wraps slog.Level for TOML decoding ("DEBUG", "INFO", ...).
type LogLevel struct {
	slog.Level
}

func (l *LogLevel) UnmarshalText(text []byte) error {
	return l.Level.UnmarshalText(text)
}

func (l LogLevel) MarshalText() ([]byte, error) {
	return l.Level.MarshalText()
}

type Server struct {
	Addr                    string   `toml:"addr"`
	ShutdownGracefulTimeout Duration `toml:"shutdown_graceful_timeout"`
	ReadTimeout             Duration `toml:"read_timeout"`
	ReadHeaderTimeout       Duration `toml:"read_header_timeout"`
	WriteTimeout            Duration `toml:"write_timeout"`
	IdleTimeout             Duration `toml:"idle_timeout"`
	ClientIpProxyHeader     string   `toml:"client_ip_proxy_header"`
}

type Jwt struct {
	// AuthSecret comes from the environment, never from the file.
	AuthSecret        []byte   `toml:"-"`
	AuthTokenDuration Duration `toml:"auth_token_duration"`
}

type Otp struct {
	Digits int `toml:"digits"`
	// Ttl is how long a freshly issued challenge stays valid.
	Ttl Duration `toml:"ttl"`
	// MaxAttempts bounds verification attempts per challenge window.
	MaxAttempts int `toml:"max_attempts"`
	// PurgeRetention is how long after challenge expiry an unverified
	// account survives before the sweep removes it.
	PurgeRetention Duration `toml:"purge_retention"`
	// PurgeInterval is the recurrence of the sweep job.
	PurgeInterval Duration `toml:"purge_interval"`
}

type Smtp struct {
	Enabled     bool   `toml:"enabled"`
	Host        string `toml:"host"`
	Port        int    `toml:"port"`
	Username    string `toml:"username"`
	Password    string `toml:"-"`
	FromName    string `toml:"from_name"`
	FromAddress string `toml:"from_address"`
}

type Scheduler struct {
	Interval              Duration `toml:"interval"`
	MaxJobsPerTick        int      `toml:"max_jobs_per_tick"`
	ConcurrencyMultiplier int      `toml:"concurrency_multiplier"`
	JobTimeout            Duration `toml:"job_timeout"`
}

type Uploads struct {
	// Dir is the directory avatars are written to and served from.
	Dir string `toml:"dir"`
	// MaxBytes bounds a single multipart upload.
	MaxBytes int64 `toml:"max_bytes"`
}

type Geo struct {
	NominatimURL string   `toml:"nominatim_url"`
	OrsURL       string   `toml:"ors_url"`
	OrsApiKey    string   `toml:"ors_api_key"`
	OverpassURL  string   `toml:"overpass_url"`
	Timeout      Duration `toml:"timeout"`
	MaxRetries   uint64   `toml:"max_retries"`
	CacheTtl     Duration `toml:"cache_ttl"`
	// UserAgent identifies this service to Nominatim, which requires one.
	UserAgent string `toml:"user_agent"`
}

type LogRequest struct {
	Activated       bool `toml:"activated"`
	URILength       int  `toml:"uri_length"`
	UserAgentLength int  `toml:"user_agent_length"`
	RemoteIPLength  int  `toml:"remote_ip_length"`
}

type Log struct {
	Level   LogLevel   `toml:"level"`
	Request LogRequest `toml:"request"`
}

type RateLimits struct {
	// OtpEmailCooldown buckets register-triggered OTP emails per address.
	OtpEmailCooldown Duration `toml:"otp_email_cooldown"`
}

type Metrics struct {
	Activated  bool     `toml:"activated"`
	Endpoint   string   `toml:"endpoint"`
	AllowedIPs []string `toml:"allowed_ips"`
	// SketchK is how many top endpoints the sliding sketch tracks.
	SketchK          int `toml:"sketch_k"`
	SketchWindowSize int `toml:"sketch_window_size"`
}

type Discord struct {
	Activated    bool     `toml:"activated"`
	WebhookURL   string   `toml:"-"`
	APIRateLimit Duration `toml:"api_rate_limit"`
	APIBurst     int      `toml:"api_burst"`
	SendTimeout  Duration `toml:"send_timeout"`
}

type Notifier struct {
	Discord Discord `toml:"discord"`
}

type BlockRequestBody struct {
	Activated bool  `toml:"activated"`
	Limit     int64 `toml:"limit"`
}

type Config struct {
	DBFile           string           `toml:"db_file"`
	Server           Server           `toml:"server"`
	Jwt              Jwt              `toml:"jwt"`
	Otp              Otp              `toml:"otp"`
	Smtp             Smtp             `toml:"smtp"`
	Scheduler        Scheduler        `toml:"scheduler"`
	Uploads          Uploads          `toml:"uploads"`
	Geo              Geo              `toml:"geo"`
	Log              Log              `toml:"log"`
	RateLimits       RateLimits       `toml:"rate_limits"`
	Metrics          Metrics          `toml:"metrics"`
	Notifier         Notifier         `toml:"notifier"`
	BlockRequestBody BlockRequestBody `toml:"block_request_body"`
}
