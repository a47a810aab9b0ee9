package model_test

import (
	"testing"
	"time"

	"github.com/okian/rigscore/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestCatalog(t *testing.T) {
	Convey("Given a catalog with three entities", t, func() {
		c := model.NewCatalog("v1", []model.Entity{
			{ID: "a", Lineup: "thinkpad", Series: "x1"},
			{ID: "b", Lineup: "thinkpad", Series: "x1"},
			{ID: "c", Lineup: "thinkpad", Series: "t14"},
		})

		Convey("Then lookup finds entities by id", func() {
			e, ok := c.Lookup("b")
			So(ok, ShouldBeTrue)
			So(e.ID, ShouldEqual, "b")

			_, ok = c.Lookup("missing")
			So(ok, ShouldBeFalse)
		})

		Convey("Then group counts honour the series filter", func() {
			So(c.CountGroup("thinkpad", "x1"), ShouldEqual, 2)
			So(c.CountGroup("thinkpad", ""), ShouldEqual, 3)
			So(c.CountGroup("legion", ""), ShouldEqual, 0)
		})
	})

	Convey("Given a nil catalog", t, func() {
		var c *model.Catalog

		Convey("Then it behaves as empty", func() {
			So(c.Len(), ShouldEqual, 0)
			_, ok := c.Lookup("a")
			So(ok, ShouldBeFalse)
		})
	})
}

func TestPrices(t *testing.T) {
	Convey("Given observations for two entities", t, func() {
		day := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
		obs := []model.PriceObservation{
			{EntityID: "a", Retailer: "r1", Price: 1500, Date: day},
			{EntityID: "b", Retailer: "r1", Price: 900, Date: day},
			{EntityID: "a", Retailer: "r2", Price: 1399, Date: day},
			{EntityID: "a", Retailer: "r3", Price: 0, Date: day},
		}

		Convey("Then the best price is the minimum positive price", func() {
			p, ok := model.BestPrice(obs, "a")
			So(ok, ShouldBeTrue)
			So(p, ShouldEqual, 1399)
		})

		Convey("Then an unknown entity has no best price", func() {
			_, ok := model.BestPrice(obs, "z")
			So(ok, ShouldBeFalse)
		})

		Convey("Then observations are filtered per entity", func() {
			So(len(model.ObservationsFor(obs, "a")), ShouldEqual, 3)
			So(model.ObservationsFor(obs, "z"), ShouldBeEmpty)
		})
	})

	Convey("Given baselines", t, func() {
		So(model.PriceBaseline{MSRP: 0, HistoricalLow: 100}.Unset(), ShouldBeTrue)
		So(model.PriceBaseline{MSRP: 100, HistoricalLow: 0}.Unset(), ShouldBeTrue)
		So(model.PriceBaseline{MSRP: 100, HistoricalLow: 80}.Unset(), ShouldBeFalse)
	})
}

func TestDimensions(t *testing.T) {
	Convey("Given dimension names", t, func() {
		for _, d := range model.Dimensions {
			parsed, ok := model.ParseDimension(d.String())
			So(ok, ShouldBeTrue)
			So(parsed, ShouldEqual, d)
		}
		_, ok := model.ParseDimension("battery")
		So(ok, ShouldBeFalse)
		So(model.Dimension(42).String(), ShouldEqual, "unknown")

		var s model.ScoreSet
		s[model.DimDisplay] = 70
		So(s.Get(model.DimDisplay), ShouldEqual, 70)
		So(s.Get(model.Dimension(-1)), ShouldEqual, 0)
		So(s.Map()["display"], ShouldEqual, 70)
	})
}

func TestWiFiGeneration(t *testing.T) {
	Convey("Given wireless keywords as they appear in spec sheets", t, func() {
		cases := map[string]int{
			"":          0,
			"7":         7,
			"Wi-Fi 7":   7,
			"802.11be":  7,
			"6E":        6,
			" wi-fi 6 ": 6,
			"802.11ax":  6,
			"802.11ac":  1,

			"Killer AX1675x":    6,
			"Wi-Fi 6E (AX1675)": 6,
			"MediaTek MT7921":   6,
			"Realtek RTL8852BE": 6,
			"Intel BE200":       7,
			"MediaTek MT7925":   7,
			"Killer Wireless":   1,
		}

		Convey("Then each maps to its generation", func() {
			for keyword, want := range cases {
				So(model.Connectivity{WiFi: keyword}.WiFiGeneration(), ShouldEqual, want)
			}
		})
	})
}
