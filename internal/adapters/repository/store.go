// Package repository holds the in-memory score index the percentile engine
// ranks against.
package repository

import (
	"context"

	"github.com/okian/rigscore/internal/domain/model"
)

// Entry represents one leaderboard row within a dimension.
type Entry struct {
	Rank      int             `json:"rank"`
	EntityID  string          `json:"entity_id"`
	Dimension model.Dimension `json:"dimension"`
	Score     int             `json:"score"`
}

// Store provides read/write access to the per-dimension ranking state.
type Store interface {
	// Upsert replaces all six scores of an entity. It reports whether any
	// score changed.
	Upsert(ctx context.Context, entityID string, scores model.ScoreSet) (bool, error)

	// Remove drops an entity from every dimension.
	// Returns ErrNotFound if the entity is unknown.
	Remove(ctx context.Context, entityID string) error

	// Rank returns the competition rank and score of an entity in d.
	// Returns ErrNotFound if the entity is unknown.
	Rank(ctx context.Context, d model.Dimension, entityID string) (Entry, error)

	// TopN returns the top-N entries in d ordered by score desc, then id asc.
	TopN(ctx context.Context, d model.Dimension, n int) ([]Entry, error)

	// Count returns the number of indexed entities.
	Count(ctx context.Context) int
}
