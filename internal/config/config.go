// Package config handles loading and validating the application configuration
// from YAML files with environment variable substitution.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Known storage drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config is the top-level application configuration.
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Storage       StorageConfig       `yaml:"storage"`
	Scrape        ScrapeConfig        `yaml:"scrape"`
	Rates         RatesConfig         `yaml:"rates"`
	Schedule      ScheduleConfig      `yaml:"schedule"`
	Notifications NotificationsConfig `yaml:"notifications"`
	Logging       LoggingConfig       `yaml:"logging"`
}

// ServerConfig defines the ops HTTP server settings.
type ServerConfig struct {
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// StorageConfig selects and configures the seen-set backend.
type StorageConfig struct {
	Driver   string         `yaml:"driver"` // sqlite, postgres
	SQLite   SQLiteConfig   `yaml:"sqlite"`
	Postgres PostgresConfig `yaml:"postgres"`
}

// SQLiteConfig defines the embedded store settings.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// PostgresConfig defines PostgreSQL connection settings.
type PostgresConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
	PoolSize int    `yaml:"pool_size"`
}

// DSN returns a PostgreSQL connection string.
func (p *PostgresConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d dbname=%s user=%s password=%s sslmode=%s",
		p.Host, p.Port, p.Name, p.User, p.Password, p.SSLMode,
	)
}

// ScrapeConfig defines shared scraper behavior and per-source overrides.
type ScrapeConfig struct {
	UserAgent    string                    `yaml:"user_agent"`
	Timeout      time.Duration             `yaml:"timeout"`
	Delay        time.Duration             `yaml:"delay"`
	RetryBackoff time.Duration             `yaml:"retry_backoff"`
	Sources      map[string]SourceOverride `yaml:"sources"`
}

// SourceOverride tunes one source without touching its adapter.
type SourceOverride struct {
	Disabled bool   `yaml:"disabled"`
	BaseURL  string `yaml:"base_url"`
}

// RatesConfig defines the exchange-rate collaborator.
type RatesConfig struct {
	Endpoint string        `yaml:"endpoint"`
	Fallback float64       `yaml:"fallback"`
	TTL      time.Duration `yaml:"ttl"`
}

// ScheduleConfig defines the cycle cadence and shutdown behavior.
type ScheduleConfig struct {
	Interval      time.Duration `yaml:"interval"`
	ShutdownGrace time.Duration `yaml:"shutdown_grace"`
}

// NotificationsConfig defines notification targets.
type NotificationsConfig struct {
	Discord DiscordConfig `yaml:"discord"`
}

// DiscordConfig defines Discord webhook settings.
type DiscordConfig struct {
	Enabled    bool          `yaml:"enabled"`
	WebhookURL string        `yaml:"webhook_url"`
	SendDelay  time.Duration `yaml:"send_delay"`
}

// LoggingConfig defines logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

// Load reads and parses a YAML config file, performing environment variable
// substitution and validation.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // config path from trusted CLI flag
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Expand environment variables in the YAML content.
	expanded := os.ExpandEnv(string(data))

	cfg := &Config{}
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}

	applyDefaults(cfg)

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Default returns the configuration used when no config file is given:
// SQLite in the working directory, all sources enabled, no webhook.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	applyServerDefaults(&cfg.Server)
	applyStorageDefaults(&cfg.Storage)
	applyScrapeDefaults(&cfg.Scrape)
	applyRatesDefaults(&cfg.Rates)
	applyScheduleDefaults(&cfg.Schedule)
	applyNotificationsDefaults(&cfg.Notifications)
	applyLoggingDefaults(&cfg.Logging)
}

func applyServerDefaults(s *ServerConfig) {
	if s.Host == "" {
		s.Host = "0.0.0.0"
	}
	if s.Port == 0 {
		s.Port = 8080
	}
	if s.ReadTimeout == 0 {
		s.ReadTimeout = 30 * time.Second
	}
	if s.WriteTimeout == 0 {
		s.WriteTimeout = 30 * time.Second
	}
}

func applyStorageDefaults(s *StorageConfig) {
	if s.Driver == "" {
		s.Driver = DriverSQLite
	}
	if s.SQLite.Path == "" {
		s.SQLite.Path = "watch-monitor.db"
	}
	if s.Postgres.Port == 0 {
		s.Postgres.Port = 5432
	}
	if s.Postgres.SSLMode == "" {
		s.Postgres.SSLMode = "disable"
	}
	if s.Postgres.PoolSize == 0 {
		s.Postgres.PoolSize = 5
	}
}

func applyScrapeDefaults(s *ScrapeConfig) {
	if s.UserAgent == "" {
		s.UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	}
	if s.Timeout == 0 {
		s.Timeout = 15 * time.Second
	}
	if s.Delay == 0 {
		s.Delay = time.Second
	}
	if s.RetryBackoff == 0 {
		s.RetryBackoff = 2 * time.Second
	}
}

func applyRatesDefaults(r *RatesConfig) {
	if r.Endpoint == "" {
		r.Endpoint = "https://api.exchangerate-api.com/v4/latest/USD"
	}
	if r.Fallback == 0 {
		r.Fallback = 0.92
	}
	if r.TTL == 0 {
		r.TTL = 24 * time.Hour
	}
}

func applyScheduleDefaults(s *ScheduleConfig) {
	if s.Interval == 0 {
		s.Interval = 60 * time.Second
	}
	if s.ShutdownGrace == 0 {
		s.ShutdownGrace = 30 * time.Second
	}
}

func applyNotificationsDefaults(n *NotificationsConfig) {
	if n.Discord.SendDelay == 0 {
		n.Discord.SendDelay = time.Second
	}
}

func applyLoggingDefaults(l *LoggingConfig) {
	if l.Level == "" {
		l.Level = "info"
	}
	if l.Format == "" {
		l.Format = "text"
	}
}

func validate(cfg *Config) error {
	var errs []error

	switch cfg.Storage.Driver {
	case DriverSQLite:
		if cfg.Storage.SQLite.Path == "" {
			errs = append(errs, fmt.Errorf("storage.sqlite.path is required"))
		}
	case DriverPostgres:
		if cfg.Storage.Postgres.Host == "" {
			errs = append(errs, fmt.Errorf("storage.postgres.host is required"))
		}
		if cfg.Storage.Postgres.Name == "" {
			errs = append(errs, fmt.Errorf("storage.postgres.name is required"))
		}
		if cfg.Storage.Postgres.User == "" {
			errs = append(errs, fmt.Errorf("storage.postgres.user is required"))
		}
	default:
		errs = append(errs, fmt.Errorf(
			"storage.driver must be one of: sqlite, postgres (got %q)",
			cfg.Storage.Driver,
		))
	}

	if cfg.Notifications.Discord.Enabled && cfg.Notifications.Discord.WebhookURL == "" {
		errs = append(errs, fmt.Errorf(
			"notifications.discord.webhook_url is required when discord is enabled",
		))
	}

	if cfg.Schedule.Interval < 10*time.Second {
		errs = append(errs, fmt.Errorf(
			"schedule.interval must be at least 10s (got %s)", cfg.Schedule.Interval,
		))
	}

	return errors.Join(errs...)
}
