package analysis

import (
	"github.com/okian/rigscore/internal/domain/model"
)

// Successor returns the id of the nearest newer generation sharing the
// entity's family and variant. ok is false when the entity has no lineage or
// no newer generation exists.
func Successor(e *model.Entity, c *model.Catalog) (id string, ok bool) {
	if e == nil || c == nil || !e.Lineage.Valid {
		return "", false
	}
	var best *model.Entity
	for i := range c.Entities {
		cand := &c.Entities[i]
		l := cand.Lineage
		if !l.Valid || l.Family != e.Lineage.Family || l.Variant != e.Lineage.Variant {
			continue
		}
		if l.Generation <= e.Lineage.Generation {
			continue
		}
		if best == nil || l.Generation < best.Lineage.Generation ||
			(l.Generation == best.Lineage.Generation && cand.ID < best.ID) {
			best = cand
		}
	}
	if best == nil {
		return "", false
	}
	return best.ID, true
}
