// Package scoring converts an entity's raw attributes and benchmark lookups
// into six normalized 0-100 dimension scores.
//
// Every function here is pure and total: unknown components and missing
// attributes degrade to low or zero scores instead of errors.
package scoring

import (
	"math"

	"github.com/okian/rigscore/internal/domain/benchmark"
	"github.com/okian/rigscore/internal/domain/model"
)

const maxScoreValue = 100

// Option applies a configuration option to the Scorer.
type Option func(*Scorer)

// WithBenchmarks injects the benchmark tables used for CPU and GPU lookups.
func WithBenchmarks(set benchmark.Set) Option {
	return func(s *Scorer) {
		s.bench = set
	}
}

// Profile is everything the downstream engines need about one entity.
type Profile struct {
	EntityID     string         `json:"entity_id"`
	Scores       model.ScoreSet `json:"scores"`
	GraphicsTier model.Tier     `json:"graphics_tier"`
	// Value is nil when there is no price data or no CPU score.
	Value *float64 `json:"value,omitempty"`
	// UnknownCPU and UnknownGPU flag benchmark table misses.
	UnknownCPU bool `json:"unknown_cpu,omitempty"`
	UnknownGPU bool `json:"unknown_gpu,omitempty"`
}

// Scorer computes dimension scores against an injected benchmark set.
// A Scorer is immutable after construction and safe for concurrent use.
type Scorer struct {
	bench benchmark.Set
}

// NewScorer creates a scorer. Without WithBenchmarks every lookup misses.
func NewScorer(opts ...Option) *Scorer {
	s := &Scorer{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// BenchmarkVersion returns the version of the injected benchmark set.
func (s *Scorer) BenchmarkVersion() string { return s.bench.Version }

// Score returns the score of e in dimension d, always within [0,100].
func (s *Scorer) Score(e *model.Entity, d model.Dimension) int {
	return s.Breakdown(e, d).Total
}

// Scores computes all six dimensions.
func (s *Scorer) Scores(e *model.Entity) model.ScoreSet {
	var set model.ScoreSet
	for _, d := range model.Dimensions {
		set[d] = s.Score(e, d)
	}
	return set
}

// Breakdown returns the per-component view of a dimension score.
func (s *Scorer) Breakdown(e *model.Entity, d model.Dimension) Breakdown {
	if e == nil {
		return Breakdown{Dimension: d}
	}
	switch d {
	case model.DimCPU:
		return s.cpuBreakdown(e)
	case model.DimGPU:
		return s.gpuBreakdown(e)
	case model.DimDisplay:
		return displayBreakdown(e)
	case model.DimMemory:
		return memoryBreakdown(e)
	case model.DimConnectivity:
		return connectivityBreakdown(e)
	case model.DimPortability:
		return portabilityBreakdown(e)
	default:
		return Breakdown{Dimension: d}
	}
}

// GraphicsTier buckets the graphics figure into none/light/medium/heavy.
func (s *Scorer) GraphicsTier(e *model.Entity) model.Tier {
	if e == nil {
		return model.TierNone
	}
	f, _ := s.bench.GPU.Lookup(e.Processor.GPU)
	g := clamp(f.Graphics, 0, maxScoreValue)
	switch {
	case g >= tierHeavyMin:
		return model.TierHeavy
	case g >= tierMediumMin:
		return model.TierMedium
	case g >= tierLightMin:
		return model.TierLight
	default:
		return model.TierNone
	}
}

// Value returns CPU score per thousand of the best observed price, scaled by
// a fixed constant and rounded to one decimal. ok is false when the entity has
// no usable price observation or a zero CPU score.
func (s *Scorer) Value(e *model.Entity, obs []model.PriceObservation) (value float64, ok bool) {
	if e == nil {
		return 0, false
	}
	price, found := model.BestPrice(obs, e.ID)
	if !found {
		return 0, false
	}
	cpu := s.Score(e, model.DimCPU)
	if cpu == 0 {
		return 0, false
	}
	v := float64(cpu) / (price / 1000) * valueScale
	return math.Round(v*10) / 10, true
}

// Profile scores e and derives the graphics tier and value score.
func (s *Scorer) Profile(e *model.Entity, obs []model.PriceObservation) Profile {
	p := Profile{
		Scores:       s.Scores(e),
		GraphicsTier: s.GraphicsTier(e),
	}
	if e == nil {
		return p
	}
	p.EntityID = e.ID
	if v, ok := s.Value(e, obs); ok {
		p.Value = &v
	}
	_, cpuKnown := s.bench.CPU.Lookup(e.Processor.CPU)
	_, gpuKnown := s.bench.GPU.Lookup(e.Processor.GPU)
	p.UnknownCPU = !cpuKnown
	p.UnknownGPU = !gpuKnown
	return p
}
