// Package analysis turns an entity, its dimension scores and the catalog into
// qualitative judgments: strengths, weaknesses, tags, scenario verdicts, a
// successor pointer and a one-line summary.
//
// All rules are declarative tables evaluated in a fixed order, so identical
// input always yields byte-identical output.
package analysis

import (
	"github.com/okian/rigscore/internal/domain/model"
	"github.com/okian/rigscore/internal/domain/scoring"
)

// Result is the derived analysis of one entity. It is recomputed on demand
// and never mutated.
type Result struct {
	EntityID   string            `json:"entity_id"`
	Strengths  []string          `json:"strengths"`
	Weaknesses []string          `json:"weaknesses"`
	Tags       []string          `json:"tags"`
	Summary    string            `json:"summary"`
	Successor  string            `json:"successor,omitempty"`
	Scenarios  []ScenarioVerdict `json:"scenarios"`
}

// Option applies a configuration option to the Generator.
type Option func(*Generator)

// WithScenarios replaces the built-in scenario table.
func WithScenarios(t ScenarioTable) Option {
	return func(g *Generator) {
		g.scenarios = t
	}
}

// Generator evaluates the analysis tables. It is immutable after
// construction and safe for concurrent use.
type Generator struct {
	scenarios  ScenarioTable
	strengths  []Rule
	weaknesses []Rule
	tags       []Tag
}

// New constructs a Generator. It panics when the scenario table is incomplete.
func New(opts ...Option) *Generator {
	g := &Generator{
		scenarios:  DefaultScenarios(),
		strengths:  strengthRules,
		weaknesses: weaknessRules,
		tags:       tagRules,
	}
	for _, opt := range opts {
		opt(g)
	}
	MustValidate(g.scenarios)
	return g
}

// Analyze derives the full analysis. p must be the profile scored for e.
func (g *Generator) Analyze(e *model.Entity, p scoring.Profile, c *model.Catalog) Result {
	if e == nil {
		return Result{
			Strengths:  []string{},
			Weaknesses: []string{},
			Tags:       []string{},
			Scenarios:  []ScenarioVerdict{},
		}
	}
	f := Facts{Entity: e, Scores: p.Scores, Tier: p.GraphicsTier}
	res := Result{
		EntityID:   e.ID,
		Strengths:  evaluate(g.strengths, f),
		Weaknesses: evaluate(g.weaknesses, f),
		Tags:       evaluateTags(g.tags, f),
		Summary:    Summary(e),
		Scenarios:  g.Verdicts(f),
	}
	if id, ok := Successor(e, c); ok {
		res.Successor = id
	}
	return res
}

// Verdicts judges every declared scenario in order.
func (g *Generator) Verdicts(f Facts) []ScenarioVerdict {
	if f.Entity == nil {
		f.Entity = &model.Entity{}
	}
	out := make([]ScenarioVerdict, 0, len(Scenarios))
	for _, name := range Scenarios {
		out = append(out, g.scenarios[name].judge(name, f))
	}
	return out
}
