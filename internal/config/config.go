// Package config defines process configuration and its layered loading.
package config

import (
	"runtime"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the handler: text or json.
	LogFormat string `koanf:"log_format"`

	// CatalogPath and BenchmarksPath name the required data files.
	CatalogPath    string `koanf:"catalog_path"`
	BenchmarksPath string `koanf:"benchmarks_path"`

	// PricesPath and CalendarPath are optional; empty disables buy signals.
	PricesPath   string `koanf:"prices_path"`
	CalendarPath string `koanf:"calendar_path"`

	// WorkerCount sets the number of scoring workers.
	WorkerCount int `koanf:"worker_count"`

	// QueueSize bounds the scoring job queue. Zero sizes it to the catalog.
	QueueSize int `koanf:"queue_size"`

	// MemoSize caps the number of memoized comparison contexts.
	MemoSize int `koanf:"memo_size"`

	// SaleLookaheadDays is how far ahead an upcoming sale justifies holding.
	SaleLookaheadDays int `koanf:"sale_lookahead_days"`

	// MetricsAddr, when set, serves Prometheus metrics, e.g. ":9090".
	MetricsAddr string `koanf:"metrics_addr"`

	// ReloadSchedule is a cron expression for periodic reloads while serving,
	// e.g. "@every 1h" or "0 */6 * * *". Empty disables scheduled reloads.
	ReloadSchedule string `koanf:"reload_schedule"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:          "info",
		LogFormat:         "text",
		CatalogPath:       "data/catalog.yaml",
		BenchmarksPath:    "data/benchmarks.yaml",
		WorkerCount:       runtime.NumCPU(),
		MemoSize:          4096,
		SaleLookaheadDays: 45,
	}
}
