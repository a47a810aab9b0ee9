package repository

import (
	"context"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/okian/rigscore/internal/domain/model"
	"github.com/okian/rigscore/pkg/metrics"
)

// Treap-based, in-memory Store implementation with one tree per dimension.
//
// Ordering: score DESC, then entity id ASC (deterministic).
// "less" means ranks earlier, so in-order traversal yields the leaderboard
// from best to worst. Subtree sizes make strictly-below counts O(log n).

// node is a treap node; prio is a hash of the id so the shape is
// deterministic for a given set of entities.
type node struct {
	id    string
	score int
	prio  uint64
	left  *node
	right *node
	size  int
}

func nsize(n *node) int {
	if n == nil {
		return 0
	}
	return n.size
}

func fix(n *node) {
	if n != nil {
		n.size = 1 + nsize(n.left) + nsize(n.right)
	}
}

// less returns true if (aScore, aID) should appear before (bScore, bID).
func less(aScore int, aID string, bScore int, bID string) bool {
	if aScore != bScore {
		return aScore > bScore
	}
	return aID < bID
}

func rotateRight(y *node) *node {
	x := y.left
	t2 := x.right
	x.right = y
	y.left = t2
	fix(y)
	fix(x)
	return x
}

func rotateLeft(x *node) *node {
	y := x.right
	t2 := y.left
	y.left = x
	x.right = t2
	fix(x)
	fix(y)
	return y
}

func insert(n *node, id string, score int, prio uint64) *node {
	if n == nil {
		return &node{id: id, score: score, prio: prio, size: 1}
	}
	if less(score, id, n.score, n.id) {
		n.left = insert(n.left, id, score, prio)
		if n.left.prio > n.prio {
			n = rotateRight(n)
		}
	} else {
		n.right = insert(n.right, id, score, prio)
		if n.right.prio > n.prio {
			n = rotateLeft(n)
		}
	}
	fix(n)
	return n
}

func deleteNode(n *node, id string, score int) *node {
	if n == nil {
		return nil
	}
	if score == n.score && id == n.id {
		// Rotate the higher-priority child up until n is a leaf.
		if n.left == nil {
			return n.right
		}
		if n.right == nil {
			return n.left
		}
		if n.left.prio > n.right.prio {
			n = rotateRight(n)
			n.right = deleteNode(n.right, id, score)
		} else {
			n = rotateLeft(n)
			n.left = deleteNode(n.left, id, score)
		}
	} else if less(score, id, n.score, n.id) {
		n.left = deleteNode(n.left, id, score)
	} else {
		n.right = deleteNode(n.right, id, score)
	}
	fix(n)
	return n
}

// countBelow counts nodes whose score is strictly lower than score.
func countBelow(n *node, score int) int {
	c := 0
	for n != nil {
		if n.score < score {
			// n and everything ranked after it score lower.
			c += 1 + nsize(n.right)
			n = n.left
		} else {
			n = n.right
		}
	}
	return c
}

// countAbove counts nodes whose score is strictly higher than score.
func countAbove(n *node, score int) int {
	c := 0
	for n != nil {
		if n.score > score {
			c += 1 + nsize(n.left)
			n = n.right
		} else {
			n = n.left
		}
	}
	return c
}

// collectTopN appends up to limit nodes in rank order.
func collectTopN(n *node, limit int, out *[]*node) {
	if n == nil || len(*out) >= limit {
		return
	}
	collectTopN(n.left, limit, out)
	if len(*out) < limit {
		*out = append(*out, n)
	}
	if len(*out) < limit {
		collectTopN(n.right, limit, out)
	}
}

// ScoreIndex keeps one order-statistic treap per dimension. It satisfies
// percentile.Ranker once every entity of a sheet has been upserted.
type ScoreIndex struct {
	mu       sync.RWMutex
	roots    [len(model.Dimensions)]*node
	byID     map[string]model.ScoreSet
	capacity int
}

var _ Store = (*ScoreIndex)(nil)

// NewScoreIndex constructs an empty index.
func NewScoreIndex(opts ...Option) *ScoreIndex {
	s := &ScoreIndex{}
	for _, opt := range opts {
		opt(s)
	}
	s.byID = make(map[string]model.ScoreSet, s.capacity)
	return s
}

// Upsert implements Store.Upsert with O(log n) expected time per dimension.
func (s *ScoreIndex) Upsert(_ context.Context, entityID string, scores model.ScoreSet) (bool, error) {
	start := time.Now()
	defer func() {
		metrics.RecordIndexUpdateLatency(float64(time.Since(start).Microseconds()) / 1000)
	}()

	prio := xxhash.Sum64String(entityID)

	s.mu.Lock()
	old, exists := s.byID[entityID]
	if exists && old == scores {
		s.mu.Unlock()
		return false, nil
	}
	for _, d := range model.Dimensions {
		if exists {
			s.roots[d] = deleteNode(s.roots[d], entityID, old[d])
		}
		s.roots[d] = insert(s.roots[d], entityID, scores[d], prio)
	}
	s.byID[entityID] = scores
	count := len(s.byID)
	s.mu.Unlock()

	if !exists {
		metrics.UpdateIndexRecords(count)
	}
	return true, nil
}

// Remove implements Store.Remove.
func (s *ScoreIndex) Remove(_ context.Context, entityID string) error {
	s.mu.Lock()
	old, ok := s.byID[entityID]
	if !ok {
		s.mu.Unlock()
		return ErrNotFound
	}
	for _, d := range model.Dimensions {
		s.roots[d] = deleteNode(s.roots[d], entityID, old[d])
	}
	delete(s.byID, entityID)
	count := len(s.byID)
	s.mu.Unlock()

	metrics.UpdateIndexRecords(count)
	return nil
}

// Rank returns the competition rank (1 + number of strictly higher scores).
func (s *ScoreIndex) Rank(_ context.Context, d model.Dimension, entityID string) (Entry, error) {
	start := time.Now()
	defer func() {
		metrics.RecordIndexQueryLatency(float64(time.Since(start).Microseconds()) / 1000)
	}()

	s.mu.RLock()
	defer s.mu.RUnlock()

	set, ok := s.byID[entityID]
	if !ok || !validDimension(d) {
		metrics.RecordErrorByComponent("repository", "not_found")
		return Entry{}, ErrNotFound
	}
	score := set[d]
	return Entry{
		Rank:      countAbove(s.roots[d], score) + 1,
		EntityID:  entityID,
		Dimension: d,
		Score:     score,
	}, nil
}

// TopN returns the best n entries of a dimension.
func (s *ScoreIndex) TopN(_ context.Context, d model.Dimension, n int) ([]Entry, error) {
	start := time.Now()
	defer func() {
		metrics.RecordIndexQueryLatency(float64(time.Since(start).Microseconds()) / 1000)
	}()

	if n < 1 {
		metrics.RecordErrorByComponent("repository", "invalid_limit")
		return nil, ErrInvalidLimit
	}
	if !validDimension(d) {
		return []Entry{}, nil
	}

	s.mu.RLock()
	nodes := make([]*node, 0, min(n, len(s.byID)))
	collectTopN(s.roots[d], n, &nodes)
	s.mu.RUnlock()

	out := make([]Entry, len(nodes))
	for i, nd := range nodes {
		rank := i + 1
		if i > 0 && nd.score == nodes[i-1].score {
			rank = out[i-1].Rank
		}
		out[i] = Entry{Rank: rank, EntityID: nd.id, Dimension: d, Score: nd.score}
	}
	return out, nil
}

// Count returns the number of indexed entities.
func (s *ScoreIndex) Count(_ context.Context) int {
	return s.Len()
}

// CountBelow returns how many indexed entities score strictly below score in d.
func (s *ScoreIndex) CountBelow(d model.Dimension, score int) int {
	if !validDimension(d) {
		return 0
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return countBelow(s.roots[d], score)
}

// Len returns the number of indexed entities.
func (s *ScoreIndex) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}

func validDimension(d model.Dimension) bool {
	return d >= 0 && int(d) < len(model.Dimensions)
}
