// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Loaders accept context.Context as the first parameter.
// - External errors are wrapped with this package's sentinel kinds.
package config

import (
	"time"

	"github.com/okian/contestboard/pkg/metrics"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level" validate:"oneof=debug info warn warning error"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format" validate:"oneof=text json"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr" validate:"required"`

	// JudgeBaseURL is where contest standings are fetched from.
	JudgeBaseURL string `koanf:"judge_base_url" validate:"required,url"`

	// FetchTimeoutMS bounds a single contest fetch.
	FetchTimeoutMS int `koanf:"fetch_timeout_ms" validate:"gt=0"`

	// FetchRatePerSec and FetchBurst throttle requests to the judge.
	// A zero rate disables throttling.
	FetchRatePerSec float64 `koanf:"fetch_rate_per_sec" validate:"gte=0"`
	FetchBurst      int     `koanf:"fetch_burst" validate:"gte=0"`

	// FetchConcurrency bounds parallel fetches within one refresh.
	FetchConcurrency int `koanf:"fetch_concurrency" validate:"gte=1"`

	// ContestDebounceMS and TeamDebounceMS delay recomputation after edits
	// to the contest list and the team list.
	ContestDebounceMS int `koanf:"contest_debounce_ms" validate:"gte=0"`
	TeamDebounceMS    int `koanf:"team_debounce_ms" validate:"gte=0"`

	// IncludeLate counts submissions made after the contest ended.
	IncludeLate bool `koanf:"include_late"`

	// AutoDiscover builds the team list from the ranklists.
	AutoDiscover bool `koanf:"auto_discover"`

	// EloMode is the default ladder mode: normal, gain-only, zero-participation.
	EloMode string `koanf:"elo_mode" validate:"omitempty,oneof=normal gain-only zero-participation"`

	// Metrics* shape the Prometheus series exposed on /metrics.
	MetricsEnabled   bool              `koanf:"metrics_enabled"`
	MetricsNamespace string            `koanf:"metrics_namespace" validate:"required"`
	MetricsSubsystem string            `koanf:"metrics_subsystem"`
	MetricsLabels    map[string]string `koanf:"metrics_labels"`
	MetricsBucketsMS []float64         `koanf:"metrics_buckets_ms" validate:"dive,gt=0"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:          "info",
		LogFormat:         "text",
		Addr:              ":9080",
		JudgeBaseURL:      "https://vjudge.net",
		FetchTimeoutMS:    15_000,
		FetchRatePerSec:   2,
		FetchBurst:        4,
		FetchConcurrency:  1,
		ContestDebounceMS: 500,
		TeamDebounceMS:    800,
		EloMode:           "normal",
		MetricsEnabled:    true,
		MetricsNamespace:  "contestboard",
	}
}

// MetricsOptions translates the metrics keys into manager options.
func (c *Config) MetricsOptions() []metrics.Option {
	return []metrics.Option{
		metrics.WithNamespace(c.MetricsNamespace),
		metrics.WithSubsystem(c.MetricsSubsystem),
		metrics.WithHistogramBuckets(c.MetricsBucketsMS),
		metrics.WithMetricsEnabled(c.MetricsEnabled),
		metrics.WithCustomLabels(c.MetricsLabels),
	}
}

// FetchTimeout returns FetchTimeoutMS as a duration.
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.FetchTimeoutMS) * time.Millisecond
}

// ContestDebounce returns ContestDebounceMS as a duration.
func (c *Config) ContestDebounce() time.Duration {
	return time.Duration(c.ContestDebounceMS) * time.Millisecond
}

// TeamDebounce returns TeamDebounceMS as a duration.
func (c *Config) TeamDebounce() time.Duration {
	return time.Duration(c.TeamDebounceMS) * time.Millisecond
}
