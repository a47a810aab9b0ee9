package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/rigscore/internal/adapters/mq/queue"
	"github.com/okian/rigscore/internal/domain/model"
	"github.com/okian/rigscore/internal/domain/scoring"
	"github.com/okian/rigscore/pkg/logger"
	"github.com/okian/rigscore/pkg/metrics"
)

// Default worker configuration constants.
const (
	poolShutdownTimeout = 30 * time.Second
)

// Profiler scores one entity. *scoring.Scorer satisfies it.
type Profiler interface {
	Profile(e *model.Entity, obs []model.PriceObservation) scoring.Profile
}

// Sink stores finished profiles. *scoring.Sheet satisfies it.
type Sink interface {
	Put(ctx context.Context, p scoring.Profile) error
}

// Queue defines how workers receive jobs.
type Queue interface {
	Dequeue(ctx context.Context) <-chan queue.Job
}

// Worker processes jobs and writes profiles using the provided interfaces.
type Worker interface {
	// Run starts the worker loop until ctx is canceled or the queue drains.
	Run(ctx context.Context)

	// Shutdown stops the worker without waiting for the queue to drain.
	Shutdown(ctx context.Context) error
}

// InMemoryWorker implements Worker for scoring jobs.
type InMemoryWorker struct {
	queue    Queue
	profiler Profiler
	sink     Sink
	name     string

	// Pool bookkeeping; nil for standalone workers.
	active *atomic.Int64
	stats  *Stats

	shutdown     chan struct{}
	shutdownOnce sync.Once
	done         chan struct{}

	logger logger.Logger
}

// NewInMemoryWorker creates a new worker with configuration options.
func NewInMemoryWorker(q Queue, profiler Profiler, sink Sink, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:    q,
		profiler: profiler,
		sink:     sink,
		name:     "worker",
		stats:    &Stats{},
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
		logger:   logger.Get().Named("worker"),
	}

	for _, opt := range opts {
		opt(w)
	}

	if w.name != "worker" {
		w.logger = w.logger.Named(w.name)
	}

	return w
}

// Run starts the worker loop.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	jobs := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case job, ok := <-jobs:
			if !ok {
				return
			}
			if err := w.processJob(ctx, job); err != nil {
				w.logger.Error(ctx, "error processing job", logger.Error(err))
			}
		}
	}
}

// Shutdown stops the worker.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	w.shutdownOnce.Do(func() { close(w.shutdown) })

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// processJob scores a single entity and stores the profile.
func (w *InMemoryWorker) processJob(ctx context.Context, job queue.Job) error {
	start := time.Now()
	if w.active != nil {
		w.active.Add(1)
		defer w.active.Add(-1)
	}
	defer func() {
		metrics.RecordWorkerProcessingLatency(float64(time.Since(start).Microseconds()) / 1000)
	}()

	if job.Entity == nil {
		w.stats.failed.Add(1)
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", "nil_entity")
		return ErrNilEntity
	}

	p := w.profiler.Profile(job.Entity, job.Observations)
	metrics.RecordScoringLatency(float64(time.Since(start).Microseconds()) / 1000)
	if p.UnknownCPU {
		w.stats.cpuMisses.Add(1)
		metrics.RecordBenchmarkMiss("cpu")
	}
	if p.UnknownGPU {
		w.stats.gpuMisses.Add(1)
		metrics.RecordBenchmarkMiss("gpu")
	}

	if err := w.sink.Put(ctx, p); err != nil {
		w.stats.failed.Add(1)
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", "sink_error")
		w.logger.Error(ctx, "storing profile failed",
			logger.String("entity_id", job.Entity.ID),
			logger.Error(err),
		)
		return fmt.Errorf("store profile %s: %w", job.Entity.ID, err)
	}

	w.stats.scored.Add(1)
	metrics.RecordEntityScored()
	return nil
}

// Stats counts job outcomes across a pool.
type Stats struct {
	scored    atomic.Int64
	failed    atomic.Int64
	cpuMisses atomic.Int64
	gpuMisses atomic.Int64
}

// Summary is a point-in-time copy of Stats.
type Summary struct {
	Scored    int64 `json:"scored"`
	Failed    int64 `json:"failed"`
	CPUMisses int64 `json:"cpu_misses"`
	GPUMisses int64 `json:"gpu_misses"`
}

// Snapshot copies the counters.
func (s *Stats) Snapshot() Summary {
	return Summary{
		Scored:    s.scored.Load(),
		Failed:    s.failed.Load(),
		CPUMisses: s.cpuMisses.Load(),
		GPUMisses: s.gpuMisses.Load(),
	}
}

// Pool manages multiple workers sharing one queue.
type Pool struct {
	workers []*InMemoryWorker
	queue   Queue

	active atomic.Int64
	stats  Stats

	shutdown chan struct{}
	stopOnce sync.Once

	logger logger.Logger
}

// NewPool creates a new worker pool. A non-positive count uses one worker per CPU.
func NewPool(workerCount int, q Queue, profiler Profiler, sink Sink) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU()
	}

	pool := &Pool{
		workers:  make([]*InMemoryWorker, workerCount),
		queue:    q,
		shutdown: make(chan struct{}),
		logger:   logger.Get().Named("worker-pool"),
	}

	for i := range workerCount {
		w := NewInMemoryWorker(q, profiler, sink, WithName("worker-"+strconv.Itoa(i)))
		w.active = &pool.active
		w.stats = &pool.stats
		pool.workers[i] = w
	}

	metrics.UpdateWorkerCount(workerCount)
	metrics.UpdateWorkerActiveCount(0)
	metrics.UpdateWorkerIdleCount(workerCount)

	return pool
}

// Size returns the number of workers.
func (p *Pool) Size() int { return len(p.workers) }

// Stats returns the job outcome counters so far.
func (p *Pool) Stats() Summary { return p.stats.Snapshot() }

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
	go p.observe(ctx)
}

// observe mirrors the active worker count into the gauges until the pool stops.
func (p *Pool) observe(ctx context.Context) {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-p.shutdown:
			return
		case <-ticker.C:
			active := int(p.active.Load())
			metrics.UpdateWorkerActiveCount(active)
			metrics.UpdateWorkerIdleCount(len(p.workers) - active)
		}
	}
}

// Drain closes the queue and waits until every queued job has been processed.
func (p *Pool) Drain(ctx context.Context) error {
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}
	defer p.stop()

	for i, w := range p.workers {
		select {
		case <-w.done:
		case <-ctx.Done():
			p.logger.Warn(ctx, "drain interrupted", logger.Int("worker_id", i))
			return fmt.Errorf("drain: %w", ctx.Err())
		}
	}
	return nil
}

// Shutdown stops all workers without draining the queue.
func (p *Pool) Shutdown(ctx context.Context) error {
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}
	p.stop()

	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	for i, w := range p.workers {
		if err := w.Shutdown(shutdownCtx); err != nil {
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
		}
	}
	return nil
}

func (p *Pool) stop() {
	p.stopOnce.Do(func() {
		close(p.shutdown)
		metrics.UpdateWorkerActiveCount(0)
		metrics.UpdateWorkerIdleCount(len(p.workers))
	})
}
