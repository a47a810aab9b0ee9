// Package percentile situates an entity's dimension score against the whole
// catalog and against its peer group.
package percentile

import (
	"fmt"
	"math"

	"github.com/okian/rigscore/internal/domain/model"
)

// Default context configuration constants.
const (
	defaultMinPeers = 3
	defaultDeadBand = 5
)

// Relation classifies a score against the peer average.
type Relation string

// Relations.
const (
	RelationAbove Relation = "above"
	RelationBelow Relation = "below"
	RelationNear  Relation = "near"
)

// Scores resolves a stored dimension score by entity id.
type Scores interface {
	Score(id string, d model.Dimension) int
}

// Ranker answers how many catalog entities score strictly below a value.
type Ranker interface {
	CountBelow(d model.Dimension, score int) int
	Len() int
}

// Context is the comparison of one entity in one dimension.
type Context struct {
	Dimension      model.Dimension `json:"dimension"`
	Score          int             `json:"score"`
	Average        int             `json:"average"`
	GroupLabel     string          `json:"group_label"`
	GroupSize      int             `json:"group_size"`
	Delta          int             `json:"delta"`
	Relation       Relation        `json:"relation"`
	Percentile     int             `json:"percentile"`
	ComparisonText string          `json:"comparison_text"`
}

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithRanker replaces the linear catalog scan with a precomputed ranker. The
// ranker must have been built from the same catalog and scores.
func WithRanker(r Ranker) Option {
	return func(e *Engine) {
		if r != nil {
			e.ranker = r
		}
	}
}

// Engine computes percentile contexts. It holds no mutable state.
type Engine struct {
	ranker   Ranker
	minPeers int
	deadBand int
}

// New constructs an Engine.
func New(opts ...Option) *Engine {
	e := &Engine{
		minPeers: defaultMinPeers,
		deadBand: defaultDeadBand,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Context compares entity in dimension d against the catalog snapshot.
func (en *Engine) Context(d model.Dimension, entity *model.Entity, c *model.Catalog, scores Scores) Context {
	if entity == nil || scores == nil {
		return Context{Dimension: d}
	}
	score := scores.Score(entity.ID, d)

	ranker := en.ranker
	if ranker == nil {
		ranker = Linear(c, scores)
	}
	pct := Percentile(ranker.CountBelow(d, score), ranker.Len())

	label, series := entity.Lineup, entity.Series
	if c.CountGroup(entity.Lineup, entity.Series) >= en.minPeers {
		label = entity.Lineup + " " + entity.Series
	} else {
		series = ""
	}
	avg, size := groupAverage(d, c, scores, entity.Lineup, series)
	if size == 0 {
		// The entity is not part of the catalog; compare it with itself.
		avg, size = score, 1
	}

	delta := score - avg
	rel := RelationNear
	switch {
	case delta > en.deadBand:
		rel = RelationAbove
	case delta < -en.deadBand:
		rel = RelationBelow
	}

	return Context{
		Dimension:      d,
		Score:          score,
		Average:        avg,
		GroupLabel:     label,
		GroupSize:      size,
		Delta:          delta,
		Relation:       rel,
		Percentile:     pct,
		ComparisonText: comparisonText(rel, label, avg, delta, pct),
	}
}

// Percentile converts a strictly-below count into a rounded percentage of n.
// Ties are not counted as beaten.
func Percentile(below, n int) int {
	if n <= 0 || below <= 0 {
		return 0
	}
	return int(math.Round(float64(below) / float64(n) * 100))
}

func groupAverage(d model.Dimension, c *model.Catalog, scores Scores, lineup, series string) (avg, n int) {
	if c == nil {
		return 0, 0
	}
	sum := 0
	for i := range c.Entities {
		e := &c.Entities[i]
		if e.Lineup != lineup || (series != "" && e.Series != series) {
			continue
		}
		sum += scores.Score(e.ID, d)
		n++
	}
	if n == 0 {
		return 0, 0
	}
	return int(math.Round(float64(sum) / float64(n))), n
}

func comparisonText(rel Relation, label string, avg, delta, pct int) string {
	var lead string
	switch rel {
	case RelationAbove:
		lead = "Above"
	case RelationBelow:
		lead = "Below"
	default:
		lead = "Near"
	}
	return fmt.Sprintf("%s the %s average of %d (%+d); top %d%% overall", lead, label, avg, delta, 100-pct)
}

// linear ranks by scanning the catalog on every query.
type linear struct {
	catalog *model.Catalog
	scores  Scores
}

// Linear returns a Ranker that scans the catalog snapshot.
func Linear(c *model.Catalog, scores Scores) Ranker {
	return linear{catalog: c, scores: scores}
}

func (l linear) CountBelow(d model.Dimension, score int) int {
	n := 0
	for i := range l.catalog.Len() {
		if l.scores.Score(l.catalog.Entities[i].ID, d) < score {
			n++
		}
	}
	return n
}

func (l linear) Len() int { return l.catalog.Len() }
