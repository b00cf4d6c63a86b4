// Package config loads shelfctl configuration from file, environment, and
// defaults.
//
// Resolution order (later wins): built-in defaults, shelfctl.yaml discovered
// in the working directory or $HOME/.config/shelfctl, SHELFCTL_* environment
// variables, explicit runtime overrides.
package config

import (
	"time"
)

// Config is the full shelfctl configuration tree.
type Config struct {
	Server  ServerConfig  `mapstructure:"server" yaml:"server"`
	Catalog CatalogConfig `mapstructure:"catalog" yaml:"catalog"`
	Listing ListingConfig `mapstructure:"listing" yaml:"listing"`
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`
}

// ServerConfig configures the HTTP admin server.
type ServerConfig struct {
	Host            string        `mapstructure:"host" yaml:"host"`
	Port            int           `mapstructure:"port" yaml:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout" yaml:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout" yaml:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout" yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// CatalogConfig selects and configures the catalog backend.
type CatalogConfig struct {
	// Backend is "postgres", "s3", or "memory".
	Backend string `mapstructure:"backend" yaml:"backend"`

	// DSN is the Postgres connection string (postgres backend).
	DSN string `mapstructure:"dsn" yaml:"dsn"`

	// MaxOpenConns bounds the Postgres connection pool.
	MaxOpenConns int `mapstructure:"max_open_conns" yaml:"max_open_conns"`

	// S3 settings (s3 backend).
	S3Region         string `mapstructure:"s3_region" yaml:"s3_region"`
	S3Endpoint       string `mapstructure:"s3_endpoint" yaml:"s3_endpoint"`
	S3Profile        string `mapstructure:"s3_profile" yaml:"s3_profile"`
	S3ForcePathStyle bool   `mapstructure:"s3_force_path_style" yaml:"s3_force_path_style"`
}

// ListingConfig tunes the folder engine.
type ListingConfig struct {
	// Parallel bounds concurrent per-folder stat queries.
	Parallel int `mapstructure:"parallel" yaml:"parallel"`

	// QueriesPerSecond rate-limits catalog round-trips. Zero disables.
	QueriesPerSecond float64 `mapstructure:"queries_per_second" yaml:"queries_per_second"`
}

// LoggingConfig configures the zap loggers.
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}
