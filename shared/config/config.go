package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"gradi-client/internal/apperrors"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultTimeoutSeconds   = 120
	DefaultHistoryLimit     = 10
	DefaultSchedule         = "0 0 9 * * *" // daily at 9 AM, seconds field first
	DefaultRepeatAfterHours = 7 * 24
	DefaultHealthPort       = 8080
)

type Config struct {
	Backend    BackendConfig    `yaml:"backend"`
	YouTube    YouTubeConfig    `yaml:"youtube"`
	Email      EmailConfig      `yaml:"email"`
	Watch      WatchConfig      `yaml:"watch"`
	Monitoring MonitoringConfig `yaml:"monitoring"`
	Logging    LoggingConfig    `yaml:"logging"`
}

type BackendConfig struct {
	URL            string `yaml:"url" env:"BACKEND_URL"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	HistoryLimit   int    `yaml:"history_limit"`
}

// Timeout is the upper bound on a single analysis call.
func (b BackendConfig) Timeout() time.Duration {
	return time.Duration(b.TimeoutSeconds) * time.Second
}

// YouTubeConfig enables metadata lookups. An API key is enough; client
// credentials switch to the OAuth device flow with a cached token file.
type YouTubeConfig struct {
	APIKey       string `yaml:"api_key" env:"YOUTUBE_API_KEY"`
	ClientID     string `yaml:"client_id" env:"GOOGLE_CLIENT_ID"`
	ClientSecret string `yaml:"client_secret" env:"GOOGLE_CLIENT_SECRET"`
	TokenFile    string `yaml:"token_file"`
}

// Enabled reports whether any YouTube credentials are configured.
func (y YouTubeConfig) Enabled() bool {
	return y.APIKey != "" || (y.ClientID != "" && y.ClientSecret != "")
}

type EmailConfig struct {
	SMTPServer string `yaml:"smtp_server"`
	SMTPPort   int    `yaml:"smtp_port"`
	Username   string `yaml:"username" env:"EMAIL_USERNAME"`
	Password   string `yaml:"password" env:"EMAIL_PASSWORD"`
	FromEmail  string `yaml:"from_email"`
	ToEmail    string `yaml:"to_email"`
}

// Enabled reports whether a digest can be sent.
func (e EmailConfig) Enabled() bool {
	return e.SMTPServer != "" && e.ToEmail != ""
}

type WatchConfig struct {
	Schedule         string   `yaml:"schedule"`
	URLs             []string `yaml:"urls"`
	RepeatAfterHours int      `yaml:"repeat_after_hours"`
	DataDir          string   `yaml:"data_dir"`
}

// RepeatAfter is how long an analyzed URL is skipped by the grader.
func (w WatchConfig) RepeatAfter() time.Duration {
	return time.Duration(w.RepeatAfterHours) * time.Hour
}

// MonitoringConfig sets the health server port. A negative port disables it.
type MonitoringConfig struct {
	HealthPort int `yaml:"health_port"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads CONFIG_FILE (default config.yaml) when it exists, applies
// environment overrides and defaults, and validates the result.
func Load() (*Config, error) {
	configFile := os.Getenv("CONFIG_FILE")
	if configFile == "" {
		configFile = "config.yaml"
	}
	return LoadFile(configFile)
}

// LoadFile is Load with an explicit path. A missing file is not an error;
// every setting can come from the environment.
func LoadFile(configFile string) (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	data, err := os.ReadFile(configFile)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, apperrors.NewConfigError("failed to parse config file %s: %v", configFile, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
	}

	cfg.applyEnv()
	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func (c *Config) applyEnv() {
	if c.Backend.URL == "" {
		c.Backend.URL = os.Getenv("BACKEND_URL")
	}
	if c.YouTube.APIKey == "" {
		c.YouTube.APIKey = os.Getenv("YOUTUBE_API_KEY")
	}
	if c.YouTube.ClientID == "" {
		c.YouTube.ClientID = os.Getenv("GOOGLE_CLIENT_ID")
	}
	if c.YouTube.ClientSecret == "" {
		c.YouTube.ClientSecret = os.Getenv("GOOGLE_CLIENT_SECRET")
	}
	if c.Email.Username == "" {
		c.Email.Username = os.Getenv("EMAIL_USERNAME")
	}
	if c.Email.Password == "" {
		c.Email.Password = os.Getenv("EMAIL_PASSWORD")
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
}

func (c *Config) applyDefaults() {
	c.Backend.URL = strings.TrimRight(strings.TrimSpace(c.Backend.URL), "/")
	if c.Backend.TimeoutSeconds <= 0 {
		c.Backend.TimeoutSeconds = DefaultTimeoutSeconds
	}
	if c.Backend.HistoryLimit <= 0 {
		c.Backend.HistoryLimit = DefaultHistoryLimit
	}
	if c.YouTube.TokenFile == "" {
		c.YouTube.TokenFile = "youtube_token.json"
	}
	if c.Email.SMTPPort == 0 {
		c.Email.SMTPPort = 587
	}
	if c.Watch.Schedule == "" {
		c.Watch.Schedule = DefaultSchedule
	}
	if c.Watch.RepeatAfterHours <= 0 {
		c.Watch.RepeatAfterHours = DefaultRepeatAfterHours
	}
	if c.Watch.DataDir == "" {
		c.Watch.DataDir = "data"
	}
	if c.Monitoring.HealthPort == 0 {
		c.Monitoring.HealthPort = DefaultHealthPort
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
}

func (c *Config) validate() error {
	if c.Backend.URL == "" {
		return apperrors.NewConfigError("backend URL is required (set BACKEND_URL or backend.url)")
	}
	u, err := url.Parse(c.Backend.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return apperrors.NewConfigError("backend URL %q must be an absolute http(s) URL", c.Backend.URL)
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		return apperrors.NewConfigError("logging format %q is not supported (text or json)", c.Logging.Format)
	}
	return nil
}

// ValidateWatch checks the settings the grader agent needs on top of the
// base configuration.
func (c *Config) ValidateWatch() error {
	if len(c.Watch.URLs) == 0 {
		return apperrors.NewConfigError("watch.urls must list at least one video URL")
	}
	if c.Email.Enabled() && (c.Email.Username == "" || c.Email.Password == "") {
		return apperrors.NewConfigError("email credentials are required (set EMAIL_USERNAME/EMAIL_PASSWORD or email.username/email.password)")
	}
	return nil
}
