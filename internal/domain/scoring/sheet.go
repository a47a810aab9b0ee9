package scoring

import (
	"context"
	"sort"
	"sync"

	"github.com/okian/rigscore/internal/domain/model"
)

// Sheet collects the profiles of one scoring pass. Writers may run
// concurrently while the pass is filling it; readers treat a finished sheet as
// an immutable snapshot.
type Sheet struct {
	mu       sync.RWMutex
	profiles map[string]Profile
}

// NewSheet creates an empty sheet sized for n entities.
func NewSheet(n int) *Sheet {
	return &Sheet{profiles: make(map[string]Profile, n)}
}

// Put stores the profile for an entity.
func (s *Sheet) Put(_ context.Context, p Profile) error {
	s.mu.Lock()
	s.profiles[p.EntityID] = p
	s.mu.Unlock()
	return nil
}

// Profile returns the stored profile for an entity id.
func (s *Sheet) Profile(id string) (Profile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.profiles[id]
	return p, ok
}

// Score returns the stored score; unknown ids score 0.
func (s *Sheet) Score(id string, d model.Dimension) int {
	p, _ := s.Profile(id)
	return p.Scores.Get(d)
}

// Len returns the number of stored profiles.
func (s *Sheet) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.profiles)
}

// IDs returns the stored entity ids in ascending order.
func (s *Sheet) IDs() []string {
	s.mu.RLock()
	ids := make([]string, 0, len(s.profiles))
	for id := range s.profiles {
		ids = append(ids, id)
	}
	s.mu.RUnlock()
	sort.Strings(ids)
	return ids
}

// ScoreCatalog fills a sheet sequentially. It is the reference pass the
// concurrent worker pool must agree with.
func (s *Scorer) ScoreCatalog(c *model.Catalog, obs []model.PriceObservation) *Sheet {
	sheet := NewSheet(c.Len())
	for i := range c.Len() {
		e := &c.Entities[i]
		sheet.profiles[e.ID] = s.Profile(e, model.ObservationsFor(obs, e.ID))
	}
	return sheet
}
