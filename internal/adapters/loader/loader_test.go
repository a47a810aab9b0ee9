package loader_test

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/okian/rigscore/internal/adapters/loader"
	"github.com/okian/rigscore/internal/domain/model"
	logging "github.com/okian/rigscore/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

const catalogYAML = `
version: "2026.10"
entities:
  - id: x1-gen11
    name: ThinkPad X1 Carbon Gen 11
    lineup: thinkpad
    series: x1
    processor: {cpu: Core i7-1365U, gpu: Iris Xe}
    memory: {ram_gb: 16, ram_type: LPDDR5, soldered: true, storage_gb: 512, storage_slots: 1}
    display: {size_inches: 14, width: 1920, height: 1200, panel: ips, nits: 400, refresh_hz: 60}
    connectivity: {thunderbolt: 2, usb_a: 2, hdmi: true, wifi: "6E", bluetooth: 5.1}
    physical: {weight_kg: 1.12, battery_wh: 57, thickness_mm: 15.4}
  - id: x1-gen12
    name: ThinkPad X1 Carbon Gen 12
    lineup: thinkpad
    series: x1
    processor: {cpu: Core Ultra 7 165U, gpu: Intel Graphics}
    memory: {ram_gb: 32, ram_type: LPDDR5X, soldered: true, storage_gb: 1024}
    display: {size_inches: 14, width: 2880, height: 1800, panel: oled, nits: 400, refresh_hz: 120}
    physical: {weight_kg: 1.09, battery_wh: 57}
  - id: legion-pro-7
    name: Legion Pro 7
    lineup: legion
`

const benchmarksYAML = `
version: "2026.09"
cpu:
  Core Ultra 7 165U: {single_thread: 2500, multi_thread: 22000, composite: 58.4}
gpu:
  Intel Graphics: {graphics: 18}
`

const pricesYAML = `
observations:
  - {entity_id: x1-gen12, retailer: shop-a, price: 1750, date: 2026-10-01}
  - {entity_id: x1-gen12, retailer: shop-b, price: 1690, date: 2026-10-02, category: refurbished}
  - {entity_id: ghost, retailer: shop-a, price: 999, date: 2026-10-01}
baselines:
  - {entity_id: x1-gen12, msrp: 2000, typical_retail: 1700, historical_low: 1400, low_date: 2026-07-15, low_retailer: shop-a}
`

const calendarYAML = `
events:
  - {name: Prime Day, month: 7, week: 2, duration_days: 2, discount_min: 0.1, discount_max: 0.25}
  - {name: Black Friday, month: 11, week: 4, duration_days: 4, discount_min: 0.15, discount_max: 0.35}
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoader(t *testing.T) {
	convey.Convey("Given a loader and a set of data files", t, func() {
		convey.So(logging.Init(logging.WithWriter(io.Discard)), convey.ShouldBeNil)
		ctx := context.Background()
		dir := t.TempDir()
		paths := loader.Paths{
			Catalog:    writeFile(t, dir, "catalog.yaml", catalogYAML),
			Benchmarks: writeFile(t, dir, "benchmarks.yaml", benchmarksYAML),
			Prices:     writeFile(t, dir, "prices.yaml", pricesYAML),
			Calendar:   writeFile(t, dir, "calendar.yaml", calendarYAML),
		}
		l := loader.New()

		convey.Convey("When everything is loaded", func() {
			ds, err := l.Load(ctx, paths)

			convey.Convey("Then the catalog is complete and lineage is parsed", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(ds.Catalog.Version, convey.ShouldEqual, "2026.10")
				convey.So(ds.Catalog.Len(), convey.ShouldEqual, 3)

				e, ok := ds.Catalog.Lookup("x1-gen12")
				convey.So(ok, convey.ShouldBeTrue)
				convey.So(e.Lineage, convey.ShouldResemble, model.Lineage{Family: "x1", Generation: 12, Valid: true})
				convey.So(e.Display.Panel, convey.ShouldEqual, model.PanelOLED)
				convey.So(e.Memory.RAMGB, convey.ShouldEqual, 32)

				legion, _ := ds.Catalog.Lookup("legion-pro-7")
				convey.So(legion.Lineage.Valid, convey.ShouldBeFalse)
			})

			convey.Convey("Then benchmark keys are normalized", func() {
				f, ok := ds.Benchmarks.CPU.Lookup("core ultra 7 165u")
				convey.So(ok, convey.ShouldBeTrue)
				convey.So(f.Composite, convey.ShouldEqual, 58.4)
				convey.So(ds.Benchmarks.Version, convey.ShouldEqual, "2026.09")
			})

			convey.Convey("Then prices and baselines are available", func() {
				convey.So(len(ds.Observations), convey.ShouldEqual, 3)
				convey.So(ds.Observations[0].Category, convey.ShouldEqual, model.PriceNew)
				convey.So(ds.Observations[1].Category, convey.ShouldEqual, model.PriceRefurbished)
				best, ok := model.BestPrice(ds.Observations, "x1-gen12")
				convey.So(ok, convey.ShouldBeTrue)
				convey.So(best, convey.ShouldEqual, 1690)
				b := ds.Baselines["x1-gen12"]
				convey.So(b.HistoricalLow, convey.ShouldEqual, 1400)
				convey.So(b.LowDate.Equal(time.Date(2026, 7, 15, 0, 0, 0, 0, time.UTC)), convey.ShouldBeTrue)
			})

			convey.Convey("Then the calendar keeps file order", func() {
				convey.So(len(ds.Events), convey.ShouldEqual, 2)
				convey.So(ds.Events[1].Name, convey.ShouldEqual, "Black Friday")
				convey.So(ds.Events[1].Month, convey.ShouldEqual, time.November)
				convey.So(ds.Events[1].Week, convey.ShouldEqual, 4)
			})
		})

		convey.Convey("When optional files are omitted", func() {
			ds, err := l.Load(ctx, loader.Paths{Catalog: paths.Catalog, Benchmarks: paths.Benchmarks})

			convey.Convey("Then prices and events are empty", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(ds.Observations, convey.ShouldBeEmpty)
				convey.So(ds.Baselines, convey.ShouldBeEmpty)
				convey.So(ds.Events, convey.ShouldBeEmpty)
			})
		})

		convey.Convey("When two entities share an id up to case", func() {
			path := writeFile(t, dir, "dup.yaml", `
version: v1
entities:
  - {id: x1-gen12, name: A, lineup: thinkpad}
  - {id: X1-GEN12, name: B, lineup: thinkpad}
`)
			_, err := l.Catalog(ctx, path)

			convey.Convey("Then the load fails with ErrDuplicateEntity", func() {
				convey.So(errors.Is(err, loader.ErrDuplicateEntity), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "records 0 and 1")
			})
		})

		convey.Convey("When a record breaks validation", func() {
			path := writeFile(t, dir, "bad.yaml", `
version: v1
entities:
  - {id: x1-gen12, name: A, lineup: thinkpad, display: {panel: plasma}}
`)
			_, err := l.Catalog(ctx, path)

			convey.Convey("Then the load fails with ErrInvalidRecord", func() {
				convey.So(errors.Is(err, loader.ErrInvalidRecord), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "Panel")
			})
		})

		convey.Convey("When a record carries an unknown key", func() {
			path := writeFile(t, dir, "unknown.yaml", `
version: v1
entities:
  - {id: a, name: A, lineup: l, colour: red}
`)
			_, err := l.Catalog(ctx, path)

			convey.Convey("Then strict decoding rejects it", func() {
				convey.So(errors.Is(err, loader.ErrInvalidRecord), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When a sale event has an inverted discount range", func() {
			path := writeFile(t, dir, "cal.yaml", `
events:
  - {name: Odd, month: 3, discount_min: 0.3, discount_max: 0.1}
`)
			_, err := l.Calendar(ctx, path)

			convey.Convey("Then it is rejected", func() {
				convey.So(errors.Is(err, loader.ErrInvalidRecord), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When a baseline is listed twice", func() {
			path := writeFile(t, dir, "p.yaml", `
baselines:
  - {entity_id: a, msrp: 1}
  - {entity_id: a, msrp: 2}
`)
			_, _, err := l.Prices(ctx, path)

			convey.Convey("Then it is a duplicate", func() {
				convey.So(errors.Is(err, loader.ErrDuplicateEntity), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When a benchmark has negative figures", func() {
			path := writeFile(t, dir, "b.yaml", `
version: v1
cpu:
  broken: {composite: -1}
`)
			_, err := l.Benchmarks(ctx, path)

			convey.Convey("Then it is rejected", func() {
				convey.So(errors.Is(err, loader.ErrInvalidRecord), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When two benchmark keys differ only in case", func() {
			path := writeFile(t, dir, "b.yaml", `
version: v1
cpu:
  Core Ultra 7: {composite: 80}
  core ultra 7: {composite: 30}
`)
			_, err := l.Benchmarks(ctx, path)

			convey.Convey("Then the table is rejected naming both keys", func() {
				convey.So(errors.Is(err, loader.ErrInvalidRecord), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, `"Core Ultra 7"`)
				convey.So(err.Error(), convey.ShouldContainSubstring, `"core ultra 7"`)
			})
		})

		convey.Convey("When price ids differ from catalog ids only in case", func() {
			paths.Prices = writeFile(t, dir, "prices.yaml", `
observations:
  - {entity_id: " X1-GEN12", retailer: shop-a, price: 1650, date: 2026-10-01}
baselines:
  - {entity_id: X1-Gen12, msrp: 2000, typical_retail: 1700, historical_low: 1400, low_date: 2026-07-15, low_retailer: shop-a}
  - {entity_id: ghost, msrp: 900, typical_retail: 800, historical_low: 700, low_date: 2026-07-15, low_retailer: shop-a}
`)
			ds, err := l.Load(ctx, paths)

			convey.Convey("Then they resolve under the catalog id", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(ds.Observations[0].EntityID, convey.ShouldEqual, "x1-gen12")
				best, ok := model.BestPrice(ds.Observations, "x1-gen12")
				convey.So(ok, convey.ShouldBeTrue)
				convey.So(best, convey.ShouldEqual, 1650)

				b, ok := ds.Baselines["x1-gen12"]
				convey.So(ok, convey.ShouldBeTrue)
				convey.So(b.EntityID, convey.ShouldEqual, "x1-gen12")
				convey.So(b.MSRP, convey.ShouldEqual, 2000)
				_, stale := ds.Baselines["X1-Gen12"]
				convey.So(stale, convey.ShouldBeFalse)
			})

			convey.Convey("Then unknown baselines are kept under their own id", func() {
				_, ok := ds.Baselines["ghost"]
				convey.So(ok, convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the file does not exist", func() {
			_, err := l.Catalog(ctx, filepath.Join(dir, "missing.yaml"))

			convey.Convey("Then ErrReadFile wraps the cause", func() {
				convey.So(errors.Is(err, loader.ErrReadFile), convey.ShouldBeTrue)
				convey.So(errors.Is(err, os.ErrNotExist), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When reading through an injected reader", func() {
			fake := loader.New(loader.WithReadFile(func(string) ([]byte, error) {
				return []byte("version: mem\nentities: []\n"), nil
			}))
			c, err := fake.Catalog(ctx, "in-memory")

			convey.Convey("Then the injected bytes are used", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(c.Version, convey.ShouldEqual, "mem")
				convey.So(c.Len(), convey.ShouldEqual, 0)
			})
		})
	})
}

func TestParseLineage(t *testing.T) {
	convey.Convey("Given entity ids in various shapes", t, func() {
		cases := []struct {
			id   string
			want model.Lineage
		}{
			{"x1-gen10", model.Lineage{Family: "x1", Generation: 10, Valid: true}},
			{"x1-gen11s", model.Lineage{Family: "x1", Variant: "s", Generation: 11, Valid: true}},
			{"t14-gen5-amd", model.Lineage{Family: "t14", Variant: "amd", Generation: 5, Valid: true}},
			{"thinkpad-x1-carbon-generation-12", model.Lineage{Family: "thinkpad-x1-carbon", Generation: 12, Valid: true}},
			{"X1-Gen-9", model.Lineage{Family: "x1", Generation: 9, Valid: true}},
			{"legion-pro-7", model.Lineage{}},
			{"gen12", model.Lineage{}},
			{"", model.Lineage{}},
		}

		convey.Convey("Then each decomposes as expected", func() {
			for _, tc := range cases {
				convey.So(loader.ParseLineage(tc.id), convey.ShouldResemble, tc.want)
			}
		})
	})
}
