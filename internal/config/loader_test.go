package config_test

import (
	"context"
	"errors"
	"os"
	"runtime"
	"testing"

	"github.com/okian/rigscore/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()

		convey.Convey("When loading config with defaults only", func() {
			clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.CatalogPath, convey.ShouldEqual, "data/catalog.yaml")
				convey.So(cfg.WorkerCount, convey.ShouldEqual, runtime.NumCPU())
				convey.So(cfg.MemoSize, convey.ShouldEqual, 4096)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("RIGSCORE_CATALOG_PATH", "/srv/catalog.yaml")
			_ = os.Setenv("RIGSCORE_WORKER_COUNT", "16")
			_ = os.Setenv("RIGSCORE_QUEUE_SIZE", "5000")
			_ = os.Setenv("RIGSCORE_SALE_LOOKAHEAD_DAYS", "30")
			_ = os.Setenv("RIGSCORE_LOG_FORMAT", "json")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.CatalogPath, convey.ShouldEqual, "/srv/catalog.yaml")
				convey.So(cfg.WorkerCount, convey.ShouldEqual, 16)
				convey.So(cfg.QueueSize, convey.ShouldEqual, 5000)
				convey.So(cfg.SaleLookaheadDays, convey.ShouldEqual, 30)
				convey.So(cfg.LogFormat, convey.ShouldEqual, "json")
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			yamlContent := `
# data files
catalog_path: /data/catalog.yaml
benchmarks_path: /data/bench.yaml
prices_path: /data/prices.yaml  # optional
calendar_path: /data/calendar.yaml
worker_count: 24
memo_size: 100
metrics_addr: ":9090"
reload_schedule: "@every 1h"
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("RIGSCORE_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from YAML file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.CatalogPath, convey.ShouldEqual, "/data/catalog.yaml")
				convey.So(cfg.BenchmarksPath, convey.ShouldEqual, "/data/bench.yaml")
				convey.So(cfg.PricesPath, convey.ShouldEqual, "/data/prices.yaml")
				convey.So(cfg.CalendarPath, convey.ShouldEqual, "/data/calendar.yaml")
				convey.So(cfg.WorkerCount, convey.ShouldEqual, 24)
				convey.So(cfg.MemoSize, convey.ShouldEqual, 100)
				convey.So(cfg.MetricsAddr, convey.ShouldEqual, ":9090")
				convey.So(cfg.ReloadSchedule, convey.ShouldEqual, "@every 1h")
				convey.So(cfg.SaleLookaheadDays, convey.ShouldEqual, 45) // From defaults
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			tmpFile := createTempConfigFile("worker_count: 24\nmemo_size: 100\n")
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("RIGSCORE_CONFIG", tmpFile)
			_ = os.Setenv("RIGSCORE_WORKER_COUNT", "32")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.WorkerCount, convey.ShouldEqual, 32) // Overridden by env
				convey.So(cfg.MemoSize, convey.ShouldEqual, 100)   // From file
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			tmpFile := createTempConfigFile(`invalid: yaml: content: [`)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("RIGSCORE_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("RIGSCORE_CONFIG", "/non/existent/file.yaml")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with invalid numeric environment variables", func() {
			_ = os.Setenv("RIGSCORE_WORKER_COUNT", "not_a_number")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

func TestConfigValidation(t *testing.T) {
	convey.Convey("Given config values that cannot be used", t, func() {
		ctx := context.Background()

		cases := []struct {
			name string
			yaml string
			want string
		}{
			{"empty catalog path", "catalog_path: \"\"\n", "catalog_path must not be empty"},
			{"empty benchmarks path", "benchmarks_path: \"\"\n", "benchmarks_path must not be empty"},
			{"negative queue", "queue_size: -1\n", "queue_size must not be negative"},
			{"zero memo", "memo_size: 0\n", "memo_size must be positive"},
			{"zero lookahead", "sale_lookahead_days: 0\n", "sale_lookahead_days must be positive"},
			{"bad format", "log_format: xml\n", "log_format"},
			{"bad level", "log_level: loud\n", "log_level"},
			{"bad reload schedule", "reload_schedule: every hour\n", "reload_schedule"},
		}

		for _, tc := range cases {
			convey.Convey("When "+tc.name, func() {
				tmpFile := createTempConfigFile(tc.yaml)
				defer func() { _ = os.Remove(tmpFile) }()
				_ = os.Setenv("RIGSCORE_CONFIG", tmpFile)
				defer clearConfigEnvVars()

				cfg, err := config.Load(ctx)

				convey.Convey("Then it should return a validation error", func() {
					convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
					convey.So(err.Error(), convey.ShouldContainSubstring, tc.want)
					convey.So(cfg, convey.ShouldBeNil)
				})
			})
		}
	})
}

// Helper functions.

func clearConfigEnvVars() {
	envVars := []string{
		"RIGSCORE_CONFIG",
		"RIGSCORE_CATALOG_PATH",
		"RIGSCORE_WORKER_COUNT",
		"RIGSCORE_QUEUE_SIZE",
		"RIGSCORE_SALE_LOOKAHEAD_DAYS",
		"RIGSCORE_LOG_FORMAT",
	}
	for _, envVar := range envVars {
		_ = os.Unsetenv(envVar)
	}
}

func createTempConfigFile(content string) string {
	tmpFile, err := os.CreateTemp("", "rigscore-config-*.yaml")
	if err != nil {
		panic(err)
	}

	if _, err := tmpFile.WriteString(content); err != nil {
		panic(err)
	}

	if err := tmpFile.Close(); err != nil {
		panic(err)
	}

	return tmpFile.Name()
}
