package model

// Catalog is a read-only snapshot of all entities. Callers that reload data
// build a new Catalog with a new Version instead of mutating an existing one.
type Catalog struct {
	Version  string
	Entities []Entity

	byID map[string]int
}

// NewCatalog indexes entities by id. The slice is owned by the catalog afterwards.
func NewCatalog(version string, entities []Entity) *Catalog {
	c := &Catalog{
		Version:  version,
		Entities: entities,
		byID:     make(map[string]int, len(entities)),
	}
	for i := range entities {
		c.byID[entities[i].ID] = i
	}
	return c
}

// Len returns the number of entities.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Entities)
}

// Lookup returns the entity with the given id.
func (c *Catalog) Lookup(id string) (*Entity, bool) {
	if c == nil {
		return nil, false
	}
	i, ok := c.byID[id]
	if !ok {
		return nil, false
	}
	return &c.Entities[i], true
}

// CountGroup returns how many entities share the lineup and, when series is
// non-empty, the series.
func (c *Catalog) CountGroup(lineup, series string) int {
	if c == nil {
		return 0
	}
	n := 0
	for i := range c.Entities {
		e := &c.Entities[i]
		if e.Lineup != lineup {
			continue
		}
		if series != "" && e.Series != series {
			continue
		}
		n++
	}
	return n
}
