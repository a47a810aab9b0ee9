package config_test

import (
	"runtime"
	"testing"

	"github.com/okian/rigscore/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
			convey.So(cfg.LogFormat, convey.ShouldEqual, "text")
			convey.So(cfg.CatalogPath, convey.ShouldEqual, "data/catalog.yaml")
			convey.So(cfg.BenchmarksPath, convey.ShouldEqual, "data/benchmarks.yaml")
			convey.So(cfg.PricesPath, convey.ShouldBeEmpty)
			convey.So(cfg.WorkerCount, convey.ShouldEqual, runtime.NumCPU())
			convey.So(cfg.QueueSize, convey.ShouldEqual, 0)
			convey.So(cfg.MemoSize, convey.ShouldEqual, 4096)
			convey.So(cfg.SaleLookaheadDays, convey.ShouldEqual, 45)
			convey.So(cfg.MetricsAddr, convey.ShouldBeEmpty)
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}
