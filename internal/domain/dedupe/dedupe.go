// Package dedupe tracks identifiers already admitted into a load so that
// every record key stays unique.
package dedupe

import (
	"context"
	"sync"
)

// Deduper records seen identifiers.
type Deduper interface {
	// SeenAndRecord atomically checks if id was seen and records it if not.
	// Returns true if id was already seen, false if it was newly recorded.
	SeenAndRecord(ctx context.Context, id string) bool

	// Position returns the zero-based order in which id was first recorded.
	Position(id string) (int, bool)

	// Unrecord forgets id so that a later record may claim it.
	Unrecord(ctx context.Context, id string)

	Size() int64
}

// inMemoryDeduper keeps ids in a map. With maxSize > 0 the oldest id is
// evicted once the set is full; otherwise the set grows without bound.
type inMemoryDeduper struct {
	mu        sync.RWMutex
	seen      map[string]int
	order     []string // insertion order, only maintained when bounded
	next      int
	maxSize   int
	normalize func(string) string
}

// NewInMemoryDeduper creates a new in-memory deduper with configuration options.
func NewInMemoryDeduper(opts ...Option) Deduper {
	d := &inMemoryDeduper{
		normalize: func(s string) string { return s },
	}
	for _, opt := range opts {
		opt(d)
	}
	d.seen = make(map[string]int)
	return d
}

// SeenAndRecord atomically checks if id was seen and records it if not.
func (d *inMemoryDeduper) SeenAndRecord(_ context.Context, id string) bool {
	key := d.normalize(id)

	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.seen[key]; exists {
		return true
	}

	if d.maxSize > 0 {
		if len(d.seen) >= d.maxSize {
			d.evictOldest()
		}
		d.order = append(d.order, key)
	}
	d.seen[key] = d.next
	d.next++
	return false
}

// Position returns the recording order of id.
func (d *inMemoryDeduper) Position(id string) (int, bool) {
	key := d.normalize(id)

	d.mu.RLock()
	defer d.mu.RUnlock()

	pos, ok := d.seen[key]
	return pos, ok
}

// Unrecord removes an id from the seen set.
func (d *inMemoryDeduper) Unrecord(_ context.Context, id string) {
	key := d.normalize(id)

	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.seen[key]; !exists {
		return
	}
	delete(d.seen, key)
	if d.maxSize > 0 {
		for i, k := range d.order {
			if k == key {
				d.order = append(d.order[:i], d.order[i+1:]...)
				break
			}
		}
	}
}

// evictOldest drops the earliest recorded id. Must be called with d.mu held.
func (d *inMemoryDeduper) evictOldest() {
	if len(d.order) == 0 {
		return
	}
	delete(d.seen, d.order[0])
	d.order = d.order[1:]
}

// Size returns the current number of entries in the deduper.
func (d *inMemoryDeduper) Size() int64 {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return int64(len(d.seen))
}
