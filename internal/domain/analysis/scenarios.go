package analysis

import (
	"fmt"
	"math"

	"github.com/okian/rigscore/internal/domain/model"
)

// Scenario names a usage profile an entity is judged against.
type Scenario string

// Scenarios.
const (
	ScenarioProductivity   Scenario = "productivity"
	ScenarioDevelopment    Scenario = "development"
	ScenarioGaming         Scenario = "gaming"
	ScenarioCreative       Scenario = "creative"
	ScenarioCompute        Scenario = "compute"
	ScenarioVirtualization Scenario = "virtualization"
)

// Scenarios lists every declared scenario in output order.
var Scenarios = []Scenario{ //nolint:gochecknoglobals // fixed enum table
	ScenarioProductivity,
	ScenarioDevelopment,
	ScenarioGaming,
	ScenarioCreative,
	ScenarioCompute,
	ScenarioVirtualization,
}

// Weight is the share of one dimension in a scenario blend.
type Weight struct {
	Dim    model.Dimension
	Factor float64
}

// Bonus adds Points when When holds for the entity.
type Bonus struct {
	When   func(*model.Entity) bool
	Points float64
}

// ScenarioRule is the declarative definition of one scenario. When FromTier
// is set the verdict is read from the graphics tier and the blend is unused.
type ScenarioRule struct {
	Weights     []Weight
	Base        float64
	Bonuses     []Bonus
	Thresholds  [4]int
	FromTier    bool
	Explanation [5]string
}

// ScenarioTable maps every declared scenario to its rule.
type ScenarioTable map[Scenario]ScenarioRule

// ScenarioVerdict is the fit of an entity for one scenario.
type ScenarioVerdict struct {
	Scenario    Scenario      `json:"scenario"`
	Verdict     model.Verdict `json:"verdict"`
	Score       int           `json:"score"`
	Explanation string        `json:"explanation"`
}

// VerdictFor buckets a blended score with ascending thresholds t1<t2<t3<t4.
func VerdictFor(score int, t [4]int) model.Verdict {
	switch {
	case score < t[0]:
		return model.VerdictInsufficient
	case score < t[1]:
		return model.VerdictMarginal
	case score < t[2]:
		return model.VerdictGood
	case score < t[3]:
		return model.VerdictExcellent
	default:
		return model.VerdictOverkill
	}
}

// VerdictForTier maps the graphics tier straight onto the verdict scale.
func VerdictForTier(t model.Tier) model.Verdict {
	switch t {
	case model.TierLight:
		return model.VerdictMarginal
	case model.TierMedium:
		return model.VerdictGood
	case model.TierHeavy:
		return model.VerdictExcellent
	default:
		return model.VerdictInsufficient
	}
}

// MustValidate panics when the table misses a declared scenario or holds an
// inconsistent rule. An incomplete table is a programming error.
func MustValidate(t ScenarioTable) {
	for _, name := range Scenarios {
		r, ok := t[name]
		if !ok {
			panic(fmt.Sprintf("analysis: scenario %q has no rule", name))
		}
		for i, text := range r.Explanation {
			if text == "" {
				panic(fmt.Sprintf("analysis: scenario %q lacks an explanation for %s", name, model.Verdict(i)))
			}
		}
		if r.FromTier {
			continue
		}
		if len(r.Weights) < 2 || len(r.Weights) > 4 {
			panic(fmt.Sprintf("analysis: scenario %q blends %d dimensions", name, len(r.Weights)))
		}
		for i := 1; i < len(r.Thresholds); i++ {
			if r.Thresholds[i] <= r.Thresholds[i-1] {
				panic(fmt.Sprintf("analysis: scenario %q thresholds are not ascending", name))
			}
		}
	}
}

func (r ScenarioRule) blend(f Facts) int {
	v := r.Base
	for _, w := range r.Weights {
		v += w.Factor * float64(f.score(w.Dim))
	}
	for _, b := range r.Bonuses {
		if b.When(f.Entity) {
			v += b.Points
		}
	}
	return int(math.Round(math.Max(0, math.Min(v, 100))))
}

func (r ScenarioRule) judge(name Scenario, f Facts) ScenarioVerdict {
	var (
		score   int
		verdict model.Verdict
	)
	if r.FromTier {
		score = f.score(model.DimGPU)
		verdict = VerdictForTier(f.Tier)
	} else {
		score = r.blend(f)
		verdict = VerdictFor(score, r.Thresholds)
	}
	return ScenarioVerdict{
		Scenario:    name,
		Verdict:     verdict,
		Score:       score,
		Explanation: r.Explanation[verdict],
	}
}

// DefaultScenarios returns a fresh copy of the built-in scenario table.
func DefaultScenarios() ScenarioTable {
	return ScenarioTable{
		ScenarioProductivity: {
			Weights: []Weight{{model.DimCPU, 0.4}, {model.DimPortability, 0.3}, {model.DimDisplay, 0.3}},
			Base:    10,
			Bonuses: []Bonus{
				{func(e *model.Entity) bool { return e.Physical.BatteryWh >= 60 }, 5},
			},
			Thresholds: [4]int{30, 45, 60, 80},
			Explanation: [5]string{
				"Struggles with everyday office and browsing workloads.",
				"Handles light office work but feels slow when multitasking.",
				"Comfortable for office suites, browsing and video calls.",
				"Fast and pleasant for a full day of productivity work.",
				"Far more machine than office work needs.",
			},
		},
		ScenarioDevelopment: {
			Weights: []Weight{{model.DimCPU, 0.5}, {model.DimMemory, 0.35}, {model.DimConnectivity, 0.15}},
			Base:    5,
			Bonuses: []Bonus{
				{func(e *model.Entity) bool { return e.Memory.RAMGB >= 32 }, 5},
				{func(e *model.Entity) bool { return upgradeable(e.Memory) }, 3},
			},
			Thresholds: [4]int{35, 50, 65, 85},
			Explanation: [5]string{
				"Too constrained for compiling and running development tools.",
				"Fine for editing code; builds and containers will be slow.",
				"Solid for day-to-day development with an IDE and a few containers.",
				"Handles large builds and local service stacks with ease.",
				"Headroom well beyond typical development workloads.",
			},
		},
		ScenarioGaming: {
			FromTier: true,
			Explanation: [5]string{
				"Graphics are not suited to modern games.",
				"Older and lightweight titles at reduced settings only.",
				"Plays most current games at medium settings.",
				"Runs demanding games at high settings.",
				"Graphics capacity exceeds what current games demand.",
			},
		},
		ScenarioCreative: {
			Weights: []Weight{{model.DimDisplay, 0.45}, {model.DimGPU, 0.25}, {model.DimCPU, 0.3}},
			Bonuses: []Bonus{
				{func(e *model.Entity) bool {
					return e.Display.Panel == model.PanelOLED || e.Display.Panel == model.PanelMiniLED
				}, 8},
				{func(e *model.Entity) bool { return e.Display.Nits >= 500 }, 4},
			},
			Thresholds: [4]int{35, 50, 65, 85},
			Explanation: [5]string{
				"Display and graphics fall short for photo or video work.",
				"Usable for casual photo edits; not for colour-critical work.",
				"Good for photo editing and light video work.",
				"Strong display and compute for serious creative work.",
				"Studio-grade capability beyond most creative needs.",
			},
		},
		ScenarioCompute: {
			Weights: []Weight{{model.DimCPU, 0.6}, {model.DimMemory, 0.4}},
			Bonuses: []Bonus{
				{func(e *model.Entity) bool { return e.Memory.RAMGB >= 64 }, 8},
			},
			Thresholds: [4]int{40, 55, 70, 88},
			Explanation: [5]string{
				"Not suitable for data-heavy or numerical workloads.",
				"Small datasets only; expect long processing times.",
				"Handles moderate data analysis and local models.",
				"Crunches large datasets comfortably.",
				"Compute and memory well beyond typical analysis needs.",
			},
		},
		ScenarioVirtualization: {
			Weights: []Weight{{model.DimMemory, 0.5}, {model.DimCPU, 0.5}},
			Bonuses: []Bonus{
				{func(e *model.Entity) bool { return e.Memory.MaxRAMGB >= 64 }, 6},
				{func(e *model.Entity) bool { return e.Memory.RAMGB >= 32 }, 4},
			},
			Thresholds: [4]int{40, 55, 70, 88},
			Explanation: [5]string{
				"Cannot host virtual machines alongside the desktop.",
				"One small virtual machine at a time.",
				"Runs a couple of virtual machines side by side.",
				"Hosts several concurrent virtual machines.",
				"Room for a small lab of virtual machines.",
			},
		},
	}
}
