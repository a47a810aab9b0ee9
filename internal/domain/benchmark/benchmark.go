// Package benchmark holds the injected, read-only benchmark lookup tables.
//
// Tables map a component identifier (a CPU or GPU model string) to the raw
// figures published for it. The engines never compute these numbers; a missing
// key is a valid state that resolves to zero figures.
package benchmark

import (
	"slices"
	"strings"
)

// Figures are the raw benchmark numbers for one component. Composite and
// Graphics are normalized to a 0-100 scale by whoever publishes the table.
type Figures struct {
	SingleThread float64 `json:"single_thread" yaml:"single_thread"`
	MultiThread  float64 `json:"multi_thread" yaml:"multi_thread"`
	Composite    float64 `json:"composite" yaml:"composite"`
	Graphics     float64 `json:"graphics" yaml:"graphics"`
}

// Table maps a component identifier to its figures.
type Table map[string]Figures

// Lookup returns the figures for key. Keys are matched case-insensitively
// after trimming; ok is false for unknown components.
func (t Table) Lookup(key string) (Figures, bool) {
	if len(t) == 0 {
		return Figures{}, false
	}
	if f, ok := t[key]; ok {
		return f, true
	}
	f, ok := t[normalize(key)]
	return f, ok
}

// Normalized returns a copy of t with normalized keys. Entities that
// reference the same key therefore always resolve to the same figures.
// Keys that fold together keep the figures of the first key in byte order;
// loaders reject such tables up front with Collision.
func (t Table) Normalized() Table {
	out := make(Table, len(t))
	for _, k := range t.sortedKeys() {
		n := normalize(k)
		if _, dup := out[n]; dup {
			continue
		}
		out[n] = t[k]
	}
	return out
}

// Collision reports the first pair of keys, in byte order, that differ only
// in case or surrounding whitespace.
func (t Table) Collision() (first, second string, ok bool) {
	seen := make(map[string]string, len(t))
	for _, k := range t.sortedKeys() {
		n := normalize(k)
		if prev, dup := seen[n]; dup {
			return prev, k, true
		}
		seen[n] = k
	}
	return "", "", false
}

func (t Table) sortedKeys() []string {
	keys := make([]string, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func normalize(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}

// Set bundles the tables a scorer consumes, tagged with a version so callers
// can tell snapshots apart.
type Set struct {
	Version string `json:"version" yaml:"version"`
	CPU     Table  `json:"cpu" yaml:"cpu"`
	GPU     Table  `json:"gpu" yaml:"gpu"`
}

// NewSet builds a Set with normalized tables.
func NewSet(version string, cpu, gpu Table) Set {
	return Set{Version: version, CPU: cpu.Normalized(), GPU: gpu.Normalized()}
}
