package model

// Dimension names one of the six independent 0-100 capability scores.
type Dimension int

// Dimensions in canonical order.
const (
	DimCPU Dimension = iota
	DimGPU
	DimDisplay
	DimMemory
	DimConnectivity
	DimPortability

	dimensionCount
)

// Dimensions lists every dimension in canonical order.
var Dimensions = [dimensionCount]Dimension{ //nolint:gochecknoglobals // fixed enum table
	DimCPU, DimGPU, DimDisplay, DimMemory, DimConnectivity, DimPortability,
}

var dimensionNames = [dimensionCount]string{ //nolint:gochecknoglobals // fixed enum table
	"cpu", "gpu", "display", "memory", "connectivity", "portability",
}

func (d Dimension) String() string {
	if d < 0 || d >= dimensionCount {
		return "unknown"
	}
	return dimensionNames[d]
}

// ParseDimension maps a dimension name back to its value.
func ParseDimension(s string) (Dimension, bool) {
	for i, name := range dimensionNames {
		if name == s {
			return Dimension(i), true
		}
	}
	return 0, false
}

// ScoreSet holds the six dimension scores of one entity, indexed by Dimension.
type ScoreSet [dimensionCount]int

// Get returns the score for a dimension; unknown dimensions yield 0.
func (s ScoreSet) Get(d Dimension) int {
	if d < 0 || d >= dimensionCount {
		return 0
	}
	return s[d]
}

// Map renders the set keyed by dimension name.
func (s ScoreSet) Map() map[string]int {
	out := make(map[string]int, dimensionCount)
	for _, d := range Dimensions {
		out[d.String()] = s[d]
	}
	return out
}

// Tier is the coarse graphics capability bucket.
type Tier int

// Graphics tiers, ordered.
const (
	TierNone Tier = iota
	TierLight
	TierMedium
	TierHeavy
)

func (t Tier) String() string {
	switch t {
	case TierLight:
		return "light"
	case TierMedium:
		return "medium"
	case TierHeavy:
		return "heavy"
	default:
		return "none"
	}
}

// Verdict is the 5-point scenario fitness scale.
type Verdict int

// Verdicts, ordered from worst to best fit.
const (
	VerdictInsufficient Verdict = iota
	VerdictMarginal
	VerdictGood
	VerdictExcellent
	VerdictOverkill
)

func (v Verdict) String() string {
	switch v {
	case VerdictMarginal:
		return "marginal"
	case VerdictGood:
		return "good"
	case VerdictExcellent:
		return "excellent"
	case VerdictOverkill:
		return "overkill"
	default:
		return "insufficient"
	}
}

// MarshalText renders the verdict by name.
func (v Verdict) MarshalText() ([]byte, error) { return []byte(v.String()), nil }

// MarshalText renders the tier by name.
func (t Tier) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

// MarshalText renders the dimension by name.
func (d Dimension) MarshalText() ([]byte, error) { return []byte(d.String()), nil }
