// Package service wires the scoring, percentile, analysis and buy-signal
// engines around one consistent catalog snapshot.
//
// A load runs a scoring pass over the catalog through the job queue and
// worker pool, indexes the results, and swaps the finished snapshot in
// atomically. Readers never observe a half-built snapshot.
package service

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/okian/rigscore/internal/adapters/loader"
	eventqueue "github.com/okian/rigscore/internal/adapters/mq/queue"
	workerpool "github.com/okian/rigscore/internal/adapters/mq/worker"
	repository "github.com/okian/rigscore/internal/adapters/repository"
	"github.com/okian/rigscore/internal/domain/analysis"
	"github.com/okian/rigscore/internal/domain/buysignal"
	"github.com/okian/rigscore/internal/domain/model"
	"github.com/okian/rigscore/internal/domain/percentile"
	"github.com/okian/rigscore/internal/domain/scoring"
	"github.com/okian/rigscore/pkg/logger"
	"github.com/okian/rigscore/pkg/metrics"
)

const (
	defaultMemoSize  = 4096
	enqueueRetryWait = time.Millisecond
)

// snapshot is one immutable generation of loaded and scored data.
type snapshot struct {
	gen          uint64
	catalog      *model.Catalog
	scorer       *scoring.Scorer
	sheet        *scoring.Sheet
	index        *repository.ScoreIndex
	contexts     *percentile.Engine
	observations []model.PriceObservation
	baselines    map[string]model.PriceBaseline
	events       []model.SaleEvent
	loadedAt     time.Time
	pass         workerpool.Summary
}

type memoKey struct {
	dim     model.Dimension
	id      string
	version string
	gen     uint64
}

// Service exposes the engine operations over the current snapshot.
type Service struct {
	// loadMu serializes loads; readers only touch current.
	loadMu  sync.Mutex
	current atomic.Pointer[snapshot]
	gen     atomic.Uint64

	analyzer *analysis.Generator
	signals  *buysignal.Engine
	memo     *lru.Cache[memoKey, percentile.Context]

	// Configuration
	workerCount int
	queueSize   int
	memoSize    int
	lookahead   int

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of scoring workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize bounds the job queue of a scoring pass. Zero sizes the
// queue to the catalog.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size >= 0 {
			s.queueSize = size
		}
	}
}

// WithMemoSize caps the number of memoized comparison contexts.
func WithMemoSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.memoSize = size
		}
	}
}

// WithSaleLookahead sets the buy-signal lookahead window in days.
func WithSaleLookahead(days int) Option {
	return func(s *Service) {
		if days > 0 {
			s.lookahead = days
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a Service with no snapshot loaded.
func New(opts ...Option) (*Service, error) {
	s := &Service{
		workerCount: runtime.NumCPU(),
		memoSize:    defaultMemoSize,
		lookahead:   buysignal.DefaultLookaheadDays,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}

	memo, err := lru.New[memoKey, percentile.Context](s.memoSize)
	if err != nil {
		return nil, fmt.Errorf("context memo: %w", err)
	}
	s.memo = memo
	s.analyzer = analysis.New()
	s.signals = buysignal.New(buysignal.WithLookahead(s.lookahead))
	return s, nil
}

// Load scores ds and publishes it as the current snapshot. On error the
// previous snapshot stays in place.
func (s *Service) Load(ctx context.Context, ds *loader.Dataset) error {
	if ds == nil || ds.Catalog == nil {
		return fmt.Errorf("%w: empty dataset", ErrNotLoaded)
	}

	s.loadMu.Lock()
	defer s.loadMu.Unlock()

	start := time.Now()
	scorer := scoring.NewScorer(scoring.WithBenchmarks(ds.Benchmarks))

	sheet, pass, err := s.runPass(ctx, scorer, ds)
	if err != nil {
		return err
	}

	index := repository.NewScoreIndex(repository.WithCapacity(ds.Catalog.Len()))
	for _, id := range sheet.IDs() {
		p, _ := sheet.Profile(id)
		if _, err := index.Upsert(ctx, id, p.Scores); err != nil {
			return fmt.Errorf("index %s: %w", id, err)
		}
	}

	snap := &snapshot{
		gen:          s.gen.Add(1),
		catalog:      ds.Catalog,
		scorer:       scorer,
		sheet:        sheet,
		index:        index,
		contexts:     percentile.New(percentile.WithRanker(index)),
		observations: ds.Observations,
		baselines:    ds.Baselines,
		events:       ds.Events,
		loadedAt:     time.Now(),
		pass:         pass,
	}
	s.current.Store(snap)
	s.memo.Purge()

	took := time.Since(start)
	metrics.RecordScoringPass(float64(took.Microseconds()) / 1000)
	s.logger.Info(ctx, "snapshot loaded",
		logger.String("catalog_version", ds.Catalog.Version),
		logger.String("benchmark_version", scorer.BenchmarkVersion()),
		logger.Int("entities", ds.Catalog.Len()),
		logger.Int("cpu_misses", int(pass.CPUMisses)),
		logger.Int("gpu_misses", int(pass.GPUMisses)),
		logger.Duration("took", took),
	)
	return nil
}

// runPass fans one job per entity through the queue into a fresh Sheet.
func (s *Service) runPass(ctx context.Context, scorer *scoring.Scorer, ds *loader.Dataset) (*scoring.Sheet, workerpool.Summary, error) {
	n := ds.Catalog.Len()
	capacity := s.queueSize
	if capacity == 0 {
		capacity = max(n, 1)
	}

	sheet := scoring.NewSheet(n)
	q := eventqueue.NewInMemoryQueue(eventqueue.WithCapacity(capacity))
	pool := workerpool.NewPool(s.workerCount, q, scorer, sheet)
	pool.Start(ctx)

	for i := range ds.Catalog.Entities {
		e := &ds.Catalog.Entities[i]
		job := eventqueue.Job{Entity: e, Observations: model.ObservationsFor(ds.Observations, e.ID)}
		if err := s.enqueue(ctx, q, job); err != nil {
			_ = pool.Shutdown(ctx)
			return nil, workerpool.Summary{}, fmt.Errorf("enqueue %s: %w", e.ID, err)
		}
	}

	if err := pool.Drain(ctx); err != nil {
		return nil, workerpool.Summary{}, err
	}

	stats := pool.Stats()
	if sheet.Len() != n {
		metrics.RecordErrorByComponent("service", "incomplete_pass")
		return nil, stats, fmt.Errorf("%w: %d of %d entities scored", ErrIncompletePass, sheet.Len(), n)
	}
	return sheet, stats, nil
}

// enqueue waits out a full queue until ctx ends.
func (s *Service) enqueue(ctx context.Context, q *eventqueue.InMemoryQueue, job eventqueue.Job) error {
	for {
		err := q.Enqueue(ctx, job)
		if !errors.Is(err, eventqueue.ErrFull) {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(enqueueRetryWait):
		}
	}
}

func (s *Service) loaded() (*snapshot, error) {
	snap := s.current.Load()
	if snap == nil {
		return nil, ErrNotLoaded
	}
	return snap, nil
}

func (s *Service) entity(id string) (*snapshot, *model.Entity, error) {
	snap, err := s.loaded()
	if err != nil {
		return nil, nil, err
	}
	e, ok := snap.catalog.Lookup(id)
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return snap, e, nil
}

// IDs returns the entity ids in catalog order.
func (s *Service) IDs() ([]string, error) {
	snap, err := s.loaded()
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, snap.catalog.Len())
	for i := range snap.catalog.Entities {
		ids = append(ids, snap.catalog.Entities[i].ID)
	}
	return ids, nil
}

// Entity returns the catalog record for id.
func (s *Service) Entity(_ context.Context, id string) (*model.Entity, error) {
	_, e, err := s.entity(id)
	return e, err
}

// Profile returns the scored profile for id.
func (s *Service) Profile(_ context.Context, id string) (scoring.Profile, error) {
	snap, _, err := s.entity(id)
	if err != nil {
		return scoring.Profile{}, err
	}
	p, _ := snap.sheet.Profile(id)
	return p, nil
}

// Breakdown explains how the score of id in d was composed.
func (s *Service) Breakdown(_ context.Context, id string, d model.Dimension) (scoring.Breakdown, error) {
	snap, e, err := s.entity(id)
	if err != nil {
		return scoring.Breakdown{}, err
	}
	return snap.scorer.Breakdown(e, d), nil
}

// Context compares id against the catalog and its peers in dimension d.
// Results are memoized per snapshot.
func (s *Service) Context(_ context.Context, id string, d model.Dimension) (percentile.Context, error) {
	snap, e, err := s.entity(id)
	if err != nil {
		return percentile.Context{}, err
	}
	return s.contextIn(snap, e, d), nil
}

func (s *Service) contextIn(snap *snapshot, e *model.Entity, d model.Dimension) percentile.Context {
	key := memoKey{dim: d, id: e.ID, version: snap.catalog.Version, gen: snap.gen}
	if c, ok := s.memo.Get(key); ok {
		metrics.RecordMemoHit()
		return c
	}
	metrics.RecordMemoMiss()

	start := time.Now()
	c := snap.contexts.Context(d, e, snap.catalog, snap.sheet)
	metrics.RecordIndexQueryLatency(float64(time.Since(start).Microseconds()) / 1000)
	metrics.RecordContextComputed()
	s.memo.Add(key, c)
	return c
}

// Contexts returns the comparison contexts of id for every dimension.
func (s *Service) Contexts(_ context.Context, id string) ([]percentile.Context, error) {
	snap, e, err := s.entity(id)
	if err != nil {
		return nil, err
	}
	return s.contextsIn(snap, e), nil
}

func (s *Service) contextsIn(snap *snapshot, e *model.Entity) []percentile.Context {
	out := make([]percentile.Context, 0, len(model.Dimensions))
	for _, d := range model.Dimensions {
		out = append(out, s.contextIn(snap, e, d))
	}
	return out
}

// Analyze derives strengths, weaknesses, tags, scenario verdicts, successor
// and summary for id.
func (s *Service) Analyze(_ context.Context, id string) (analysis.Result, error) {
	snap, e, err := s.entity(id)
	if err != nil {
		return analysis.Result{}, err
	}
	return s.analyzeIn(snap, e), nil
}

func (s *Service) analyzeIn(snap *snapshot, e *model.Entity) analysis.Result {
	p, _ := snap.sheet.Profile(e.ID)
	res := s.analyzer.Analyze(e, p, snap.catalog)
	metrics.RecordAnalysisGenerated()
	return res
}

// Signal decides whether to buy id now, judged on today's date. A missing
// baseline reads as unset and yields wait.
func (s *Service) Signal(_ context.Context, id string, today time.Time) (buysignal.Decision, error) {
	snap, e, err := s.entity(id)
	if err != nil {
		return buysignal.Decision{}, err
	}
	return s.signalIn(snap, e, today), nil
}

func (s *Service) signalIn(snap *snapshot, e *model.Entity, today time.Time) buysignal.Decision {
	current, _ := model.BestPrice(snap.observations, e.ID)
	d := s.signals.Explain(snap.baselines[e.ID], current, snap.events, today)
	metrics.RecordBuySignal(string(d.Signal), string(d.Rule))
	return d
}

// BestPrice returns the lowest positive observed price for id.
func (s *Service) BestPrice(_ context.Context, id string) (float64, bool, error) {
	snap, _, err := s.entity(id)
	if err != nil {
		return 0, false, err
	}
	price, ok := model.BestPrice(snap.observations, id)
	return price, ok, nil
}

// UpcomingSale returns the next sale event from today, if any.
func (s *Service) UpcomingSale(today time.Time) (buysignal.Upcoming, bool, error) {
	snap, err := s.loaded()
	if err != nil {
		return buysignal.Upcoming{}, false, err
	}
	next, ok := buysignal.NextEvent(snap.events, today)
	return next, ok, nil
}

// TopN returns the n best entities in dimension d. Tied scores share a rank.
func (s *Service) TopN(ctx context.Context, d model.Dimension, n int) ([]repository.Entry, error) {
	snap, err := s.loaded()
	if err != nil {
		return nil, err
	}
	return snap.index.TopN(ctx, d, n)
}

// Rank returns the competition rank of id in dimension d.
func (s *Service) Rank(ctx context.Context, id string, d model.Dimension) (repository.Entry, error) {
	snap, err := s.loaded()
	if err != nil {
		return repository.Entry{}, err
	}
	entry, err := snap.index.Rank(ctx, d, id)
	if errors.Is(err, repository.ErrNotFound) {
		return repository.Entry{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return entry, err
}

// Report is the full evaluation of one entity.
type Report struct {
	Entity    *model.Entity        `json:"entity"`
	Profile   scoring.Profile      `json:"profile"`
	Contexts  []percentile.Context `json:"contexts"`
	Analysis  analysis.Result      `json:"analysis"`
	BestPrice float64              `json:"best_price,omitempty"`
	Decision  buysignal.Decision   `json:"decision"`
}

// Report gathers every engine's output for id from a single snapshot, so a
// reload mid-report cannot mix generations.
func (s *Service) Report(_ context.Context, id string, today time.Time) (Report, error) {
	snap, e, err := s.entity(id)
	if err != nil {
		return Report{}, err
	}
	r := Report{
		Entity:   e,
		Contexts: s.contextsIn(snap, e),
		Analysis: s.analyzeIn(snap, e),
		Decision: s.signalIn(snap, e, today),
	}
	r.Profile, _ = snap.sheet.Profile(e.ID)
	r.BestPrice, _ = model.BestPrice(snap.observations, e.ID)
	return r, nil
}

// Stats describes the current snapshot for monitoring.
type Stats struct {
	Loaded           bool               `json:"loaded"`
	CatalogVersion   string             `json:"catalog_version,omitempty"`
	BenchmarkVersion string             `json:"benchmark_version,omitempty"`
	Entities         int                `json:"entities"`
	Generation       uint64             `json:"generation"`
	LoadedAt         time.Time          `json:"loaded_at"`
	Pass             workerpool.Summary `json:"pass"`
	MemoEntries      int                `json:"memo_entries"`
	WorkerCount      int                `json:"worker_count"`
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() Stats {
	st := Stats{WorkerCount: s.workerCount, MemoEntries: s.memo.Len()}
	snap := s.current.Load()
	if snap == nil {
		return st
	}
	st.Loaded = true
	st.CatalogVersion = snap.catalog.Version
	st.BenchmarkVersion = snap.scorer.BenchmarkVersion()
	st.Entities = snap.catalog.Len()
	st.Generation = snap.gen
	st.LoadedAt = snap.loadedAt
	st.Pass = snap.pass
	metrics.UpdateIndexRecords(snap.index.Len())
	return st
}
