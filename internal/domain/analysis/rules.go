package analysis

import (
	"github.com/okian/rigscore/internal/domain/model"
)

// Facts is the read-only input every rule predicate sees.
type Facts struct {
	Entity *model.Entity
	Scores model.ScoreSet
	Tier   model.Tier
}

func (f Facts) score(d model.Dimension) int { return f.Scores.Get(d) }

// Rule emits Text when When holds. Rules never see each other's output.
type Rule struct {
	When func(Facts) bool
	Text string
}

// Attribute thresholds shared by the rule tables.
const (
	lightKg        = 1.3
	heavyKg        = 2.2
	bigBatteryWh   = 70
	smallBatteryWh = 50
	brightNits     = 500
	dimNits        = 300
	fastRefreshHz  = 120
	roomyRAMGB     = 32
	tightRAMGB     = 16
	smallSSDGB     = 512
	strongScore    = 80
	weakScore      = 40
	richPortsScore = 70
)

const (
	qhdPixels = 2560 * 1600
	fhdPixels = 1920 * 1200
)

func upgradeable(m model.Memory) bool { return m.Slots >= 2 && !m.Soldered }

func hasPorts(f Facts) bool { return f.score(model.DimConnectivity) > 0 }

var strengthRules = []Rule{ //nolint:gochecknoglobals // static rule table
	{func(f Facts) bool { return f.score(model.DimCPU) >= strongScore }, "Top-tier processor performance"},
	{func(f Facts) bool { return f.Tier >= model.TierMedium }, "Capable graphics for gaming and rendering"},
	{func(f Facts) bool { return f.Entity.Display.Panel == model.PanelOLED }, "OLED panel with deep contrast"},
	{func(f Facts) bool { return f.Entity.Display.Pixels() >= qhdPixels }, "High-resolution display"},
	{func(f Facts) bool { return f.Entity.Display.Nits >= brightNits }, "Bright display usable outdoors"},
	{func(f Facts) bool { return f.Entity.Display.RefreshHz >= fastRefreshHz }, "High refresh rate display"},
	{func(f Facts) bool { return f.Entity.Memory.RAMGB >= roomyRAMGB }, "Generous memory"},
	{func(f Facts) bool { return upgradeable(f.Entity.Memory) }, "User-upgradeable memory"},
	{func(f Facts) bool { return f.Entity.Connectivity.Thunderbolt >= 2 }, "Multiple Thunderbolt ports"},
	{func(f Facts) bool { return f.Entity.Connectivity.Ethernet }, "Built-in Ethernet"},
	{func(f Facts) bool { return f.score(model.DimConnectivity) >= richPortsScore }, "Extensive port selection"},
	{func(f Facts) bool { return f.Entity.Connectivity.WiFiGeneration() == 7 }, "Wi-Fi 7 support"},
	{func(f Facts) bool { w := f.Entity.Physical.WeightKg; return w > 0 && w < lightKg }, "Very light chassis"},
	{func(f Facts) bool { return f.Entity.Physical.BatteryWh >= bigBatteryWh }, "Large battery"},
}

var weaknessRules = []Rule{ //nolint:gochecknoglobals // static rule table
	{func(f Facts) bool { s := f.score(model.DimCPU); return s > 0 && s < weakScore }, "Modest processor performance"},
	{func(f Facts) bool { return f.Entity.Processor.GPU != "" && f.Tier == model.TierNone }, "Graphics unsuited to gaming"},
	{func(f Facts) bool { r := f.Entity.Memory.RAMGB; return r > 0 && r < tightRAMGB }, "Limited memory"},
	{func(f Facts) bool { return f.Entity.Memory.Soldered }, "Soldered memory cannot be upgraded"},
	{func(f Facts) bool { s := f.Entity.Memory.StorageGB; return s > 0 && s < smallSSDGB }, "Small storage drive"},
	{func(f Facts) bool { n := f.Entity.Display.Nits; return n > 0 && n < dimNits }, "Dim display"},
	{func(f Facts) bool { p := f.Entity.Display.Pixels(); return p > 0 && p < fhdPixels }, "Low-resolution display"},
	{func(f Facts) bool {
		c := f.Entity.Connectivity
		return hasPorts(f) && c.Thunderbolt == 0 && c.USBC == 0
	}, "No USB-C or Thunderbolt ports"},
	{func(f Facts) bool {
		c := f.Entity.Connectivity
		return hasPorts(f) && !c.HDMI && !c.DisplayPort && c.Thunderbolt == 0
	}, "No dedicated video output"},
	{func(f Facts) bool { return f.Entity.Physical.WeightKg >= heavyKg }, "Heavy to carry"},
	{func(f Facts) bool { b := f.Entity.Physical.BatteryWh; return b > 0 && b < smallBatteryWh }, "Small battery"},
}

// Tag names a categorical fit.
type Tag struct {
	Name string
	When func(Facts) bool
}

var tagRules = []Tag{ //nolint:gochecknoglobals // static rule table
	{"ultraportable", func(f Facts) bool { w := f.Entity.Physical.WeightKg; return w > 0 && w < ultraportableKg }},
	{"creator", func(f Facts) bool {
		p := f.Entity.Display.Panel
		return f.score(model.DimDisplay) >= 70 && (p == model.PanelOLED || p == model.PanelMiniLED)
	}},
	{"gaming", func(f Facts) bool { return f.Tier >= model.TierMedium }},
	{"workstation", func(f Facts) bool {
		return f.score(model.DimCPU) >= 75 && f.Entity.Memory.RAMGB >= roomyRAMGB
	}},
	{"long-battery", func(f Facts) bool { return f.Entity.Physical.BatteryWh >= 75 }},
	{"upgradeable", func(f Facts) bool { return upgradeable(f.Entity.Memory) }},
}

func evaluate(rules []Rule, f Facts) []string {
	out := make([]string, 0, len(rules))
	for _, r := range rules {
		if r.When(f) {
			out = append(out, r.Text)
		}
	}
	return out
}

func evaluateTags(tags []Tag, f Facts) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t.When(f) {
			out = append(out, t.Name)
		}
	}
	return out
}
