// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(ctx) to build a Config with defaults.
// - Functions accept context.Context as the first parameter.
// - Errors are wrapped with this package's sentinel kinds.
package config

import (
	"context"
)

// Supported database drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

const defaultMaxUploadBytes = 32 << 20

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":3999".
	Addr string `koanf:"addr"`

	// DBDriver selects the store backend: sqlite or postgres.
	DBDriver string `koanf:"db_driver"`

	// DBDSN is the data source name handed to the driver.
	DBDSN string `koanf:"db_dsn"`

	// MaxUploadBytes caps multipart request bodies.
	MaxUploadBytes int64 `koanf:"max_upload_bytes"`

	// CORSOrigins lists allowed browser origins.
	CORSOrigins []string `koanf:"cors_origins"`

	// OutlierFactor multiplies the mean absolute delta to get the outlier bound.
	OutlierFactor float64 `koanf:"outlier_factor"`

	// TieThresholdSeconds is the dead zone around zero for total latency deltas.
	TieThresholdSeconds float64 `koanf:"tie_threshold_seconds"`

	// SequentialGaps attaches field-to-field gaps to every shot.
	SequentialGaps bool `koanf:"sequential_gaps"`
}

// New creates a Config populated with defaults. The context is currently
// unused.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:            "info",
		LogFormat:           "text",
		Addr:                ":3999",
		DBDriver:            DriverSQLite,
		DBDSN:               "file:smtgolf.db?cache=shared",
		MaxUploadBytes:      defaultMaxUploadBytes,
		CORSOrigins:         []string{"*"},
		OutlierFactor:       2.0,
		TieThresholdSeconds: 0.005,
		SequentialGaps:      false,
	}
}
