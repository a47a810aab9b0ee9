package worker_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	queue "github.com/okian/rigscore/internal/adapters/mq/queue"
	worker "github.com/okian/rigscore/internal/adapters/mq/worker"
	"github.com/okian/rigscore/internal/domain/benchmark"
	"github.com/okian/rigscore/internal/domain/model"
	"github.com/okian/rigscore/internal/domain/scoring"
	logging "github.com/okian/rigscore/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

// failingSink rejects profiles for the listed ids.
type failingSink struct {
	mu     sync.Mutex
	fail   map[string]bool
	stored map[string]scoring.Profile
}

func newFailingSink(ids ...string) *failingSink {
	s := &failingSink{fail: map[string]bool{}, stored: map[string]scoring.Profile{}}
	for _, id := range ids {
		s.fail[id] = true
	}
	return s
}

func (s *failingSink) Put(_ context.Context, p scoring.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail[p.EntityID] {
		return errors.New("sink unavailable")
	}
	s.stored[p.EntityID] = p
	return nil
}

func testScorer() *scoring.Scorer {
	return scoring.NewScorer(scoring.WithBenchmarks(benchmark.NewSet("test",
		benchmark.Table{"fast": {Composite: 80}, "slow": {Composite: 30}},
		benchmark.Table{"dgpu": {Graphics: 72}},
	)))
}

func testCatalog(n int) *model.Catalog {
	entities := make([]model.Entity, 0, n)
	for i := range n {
		cpu := "fast"
		if i%3 == 0 {
			cpu = "slow"
		}
		entities = append(entities, model.Entity{
			ID:        fmt.Sprintf("e%03d", i),
			Lineup:    "line",
			Processor: model.Processor{CPU: cpu, GPU: "dgpu"},
			Memory:    model.Memory{RAMGB: 8 * (1 + i%4), StorageGB: 512},
			Physical:  model.Physical{WeightKg: 1 + float64(i%10)/10, BatteryWh: 50},
		})
	}
	return model.NewCatalog("v1", entities)
}

func runPass(ctx context.Context, c *model.Catalog, workers int, sink worker.Sink) (*worker.Pool, error) {
	q := queue.NewInMemoryQueue(queue.WithCapacity(c.Len() + 1))
	pool := worker.NewPool(workers, q, testScorer(), sink)
	pool.Start(ctx)
	for i := range c.Entities {
		if err := q.Enqueue(ctx, queue.Job{Entity: &c.Entities[i]}); err != nil {
			return pool, err
		}
	}
	return pool, pool.Drain(ctx)
}

func TestPool(t *testing.T) {
	convey.Convey("Given an initialized logger and a worker pool", t, func() {
		convey.So(logging.Init(logging.WithWriter(io.Discard)), convey.ShouldBeNil)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		convey.Convey("When a full pass is drained into a sheet", func() {
			c := testCatalog(100)
			sheet := scoring.NewSheet(c.Len())
			pool, err := runPass(ctx, c, 4, sheet)

			convey.Convey("Then every entity is profiled", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(sheet.Len(), convey.ShouldEqual, 100)
				convey.So(pool.Size(), convey.ShouldEqual, 4)
				convey.So(pool.Stats().Scored, convey.ShouldEqual, 100)
				convey.So(pool.Stats().Failed, convey.ShouldEqual, 0)
			})

			convey.Convey("Then results equal the sequential pass", func() {
				ref := testScorer().ScoreCatalog(c, nil)
				for _, id := range ref.IDs() {
					want, _ := ref.Profile(id)
					got, ok := sheet.Profile(id)
					convey.So(ok, convey.ShouldBeTrue)
					convey.So(got, convey.ShouldResemble, want)
				}
			})
		})

		convey.Convey("When entities reference unknown components", func() {
			c := model.NewCatalog("v1", []model.Entity{
				{ID: "known", Processor: model.Processor{CPU: "fast", GPU: "dgpu"}},
				{ID: "mystery", Processor: model.Processor{CPU: "prototype", GPU: "prototype"}},
			})
			pool, err := runPass(ctx, c, 2, scoring.NewSheet(2))

			convey.Convey("Then misses are counted per table", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(pool.Stats().CPUMisses, convey.ShouldEqual, 1)
				convey.So(pool.Stats().GPUMisses, convey.ShouldEqual, 1)
			})
		})

		convey.Convey("When the sink rejects a profile", func() {
			c := testCatalog(10)
			sink := newFailingSink("e004")
			pool, err := runPass(ctx, c, 3, sink)

			convey.Convey("Then the failure is counted and the rest are stored", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(pool.Stats().Failed, convey.ShouldEqual, 1)
				convey.So(pool.Stats().Scored, convey.ShouldEqual, 9)
				convey.So(len(sink.stored), convey.ShouldEqual, 9)
			})
		})

		convey.Convey("When a job carries no entity", func() {
			q := queue.NewInMemoryQueue()
			pool := worker.NewPool(1, q, testScorer(), scoring.NewSheet(0))
			pool.Start(ctx)
			convey.So(q.Enqueue(ctx, queue.Job{}), convey.ShouldBeNil)
			convey.So(pool.Drain(ctx), convey.ShouldBeNil)

			convey.Convey("Then it is rejected", func() {
				convey.So(pool.Stats().Failed, convey.ShouldEqual, 1)
			})
		})

		convey.Convey("When the pool is shut down early", func() {
			q := queue.NewInMemoryQueue()
			pool := worker.NewPool(0, q, testScorer(), scoring.NewSheet(0))
			pool.Start(ctx)

			convey.Convey("Then shutdown completes and closes the queue", func() {
				convey.So(pool.Size(), convey.ShouldBeGreaterThan, 0)
				convey.So(pool.Shutdown(ctx), convey.ShouldBeNil)
				convey.So(q.IsClosed(), convey.ShouldBeTrue)
			})
		})
	})
}

func TestStandaloneWorker(t *testing.T) {
	convey.Convey("Given a standalone worker", t, func() {
		convey.So(logging.Init(logging.WithWriter(io.Discard)), convey.ShouldBeNil)
		ctx := context.Background()
		q := queue.NewInMemoryQueue()
		sheet := scoring.NewSheet(1)
		w := worker.NewInMemoryWorker(q, testScorer(), sheet, worker.WithName("solo"))
		go w.Run(ctx)

		convey.Convey("When a job is processed and the worker is stopped", func() {
			e := model.Entity{ID: "one", Processor: model.Processor{CPU: "fast"}}
			convey.So(q.Enqueue(ctx, queue.Job{Entity: &e}), convey.ShouldBeNil)
			deadline := time.Now().Add(2 * time.Second)
			for sheet.Len() == 0 && time.Now().Before(deadline) {
				time.Sleep(5 * time.Millisecond)
			}
			stopCtx, cancel := context.WithTimeout(ctx, time.Second)
			defer cancel()

			convey.Convey("Then the profile is stored and shutdown succeeds", func() {
				p, ok := sheet.Profile("one")
				convey.So(ok, convey.ShouldBeTrue)
				convey.So(p.Scores.Get(model.DimCPU), convey.ShouldEqual, 80)
				convey.So(w.Shutdown(stopCtx), convey.ShouldBeNil)
				convey.So(w.Shutdown(stopCtx), convey.ShouldBeNil)
			})
		})
	})
}
