// Package config defines service configuration and its defaults.
package config

import (
	"runtime"
	"time"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects text or json output.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// QueueSize bounds the in-memory cohort job queue.
	QueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of cohort workers.
	WorkerCount int `koanf:"worker_count"`

	// JobTimeout bounds one cohort computation, e.g. "30s". Zero disables it.
	JobTimeout time.Duration `koanf:"job_timeout"`

	// MaxReports bounds how many league reports are kept; the oldest is evicted.
	MaxReports int `koanf:"max_reports"`

	// SimilarLimit is the default number of similar players returned.
	SimilarLimit int `koanf:"similar_limit"`

	// ForecastHorizonDays is the default forecast length.
	ForecastHorizonDays int `koanf:"forecast_horizon_days"`

	// MaxSingleBuyRatio caps one acquisition as a share of spending power.
	MaxSingleBuyRatio float64 `koanf:"max_single_buy_ratio"`

	// FixtureSeed seeds the synthetic fixture generator.
	FixtureSeed int64 `koanf:"fixture_seed"`

	// MaxRequestPlayers caps the players accepted in one request body.
	MaxRequestPlayers int `koanf:"max_request_players"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:            "info",
		LogFormat:           "text",
		Addr:                ":9080",
		QueueSize:           10_000,
		WorkerCount:         runtime.NumCPU() * 2,
		JobTimeout:          30 * time.Second,
		MaxReports:          256,
		SimilarLimit:        5,
		ForecastHorizonDays: 30,
		MaxSingleBuyRatio:   0.7,
		FixtureSeed:         42,
		MaxRequestPlayers:   5_000,
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return invalid("addr must not be empty")
	case c.LogFormat != "text" && c.LogFormat != "json":
		return invalid("log_format must be text or json")
	case c.QueueSize < 1:
		return invalid("queue_size must be positive")
	case c.WorkerCount < 1:
		return invalid("worker_count must be positive")
	case c.JobTimeout < 0:
		return invalid("job_timeout must not be negative")
	case c.MaxReports < 1:
		return invalid("max_reports must be positive")
	case c.SimilarLimit < 1:
		return invalid("similar_limit must be positive")
	case c.ForecastHorizonDays < 1:
		return invalid("forecast_horizon_days must be positive")
	case c.MaxSingleBuyRatio <= 0 || c.MaxSingleBuyRatio > 1:
		return invalid("max_single_buy_ratio must be in (0, 1]")
	case c.MaxRequestPlayers < 1:
		return invalid("max_request_players must be positive")
	}
	return nil
}
