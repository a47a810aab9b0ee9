package main

import (
	"context"
	"fmt"
	"io"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/okian/rigscore/internal/adapters/loader"
	service "github.com/okian/rigscore/internal/app"
	"github.com/okian/rigscore/internal/config"
	"github.com/okian/rigscore/pkg/logger"
)

const dateLayout = "2006-01-02"

// flagOverrides holds persistent flags; empty values leave config untouched.
type flagOverrides struct {
	catalog    string
	benchmarks string
	prices     string
	calendar   string
	logLevel   string
	workers    int
	today      string
}

// cli is what every subcommand works with once bootstrap has run.
type cli struct {
	cfg   *config.Config
	svc   *service.Service
	log   logger.Logger
	out   io.Writer
	runID string
	today time.Time
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	var flags flagOverrides
	rt := &cli{out: out}

	root := &cobra.Command{
		Use:           "rigscore",
		Short:         "Score and judge a laptop catalog",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return rt.bootstrap(cmd.Context(), flags, errOut)
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)

	pf := root.PersistentFlags()
	pf.StringVar(&flags.catalog, "catalog", "", "catalog YAML file (overrides catalog_path)")
	pf.StringVar(&flags.benchmarks, "benchmarks", "", "benchmark YAML file (overrides benchmarks_path)")
	pf.StringVar(&flags.prices, "prices", "", "prices YAML file (overrides prices_path)")
	pf.StringVar(&flags.calendar, "calendar", "", "sale calendar YAML file (overrides calendar_path)")
	pf.StringVar(&flags.logLevel, "log-level", "", "debug, info, warn or error (overrides log_level)")
	pf.IntVar(&flags.workers, "workers", 0, "scoring workers (overrides worker_count)")
	pf.StringVar(&flags.today, "today", "", "evaluation date as YYYY-MM-DD (default: current UTC date)")

	root.AddCommand(
		newReportCmd(rt),
		newAnalyzeCmd(rt),
		newSignalCmd(rt),
		newCompareCmd(rt),
		newTopCmd(rt),
		newServeCmd(rt),
	)
	return root
}

// bootstrap initializes logging, configuration and the loaded service.
func (rt *cli) bootstrap(ctx context.Context, flags flagOverrides, errOut io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := logger.Init(logger.WithWriter(errOut)); err != nil {
		return fmt.Errorf("init logging: %w", err)
	}

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	flags.apply(cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := logger.Init(logger.WithWriter(errOut), logger.WithFormat(cfg.LogFormat)); err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		return err
	}

	rt.today, err = parseToday(flags.today)
	if err != nil {
		return err
	}

	rt.cfg = cfg
	rt.runID = uuid.NewString()
	rt.log = logger.Get().Named("cli")
	rt.log.Debug(ctx, "run started", logger.String("run_id", rt.runID), logger.String("today", rt.today.Format(dateLayout)))

	ds, err := loader.New().Load(ctx, loader.Paths{
		Catalog:    cfg.CatalogPath,
		Benchmarks: cfg.BenchmarksPath,
		Prices:     cfg.PricesPath,
		Calendar:   cfg.CalendarPath,
	})
	if err != nil {
		return err
	}

	rt.svc, err = service.New(
		service.WithLogger(rt.log.Named("service")),
		service.WithWorkerCount(cfg.WorkerCount),
		service.WithQueueSize(cfg.QueueSize),
		service.WithMemoSize(cfg.MemoSize),
		service.WithSaleLookahead(cfg.SaleLookaheadDays),
	)
	if err != nil {
		return err
	}
	return rt.svc.Load(ctx, ds)
}

func (f flagOverrides) apply(cfg *config.Config) {
	if f.catalog != "" {
		cfg.CatalogPath = f.catalog
	}
	if f.benchmarks != "" {
		cfg.BenchmarksPath = f.benchmarks
	}
	if f.prices != "" {
		cfg.PricesPath = f.prices
	}
	if f.calendar != "" {
		cfg.CalendarPath = f.calendar
	}
	if f.logLevel != "" {
		cfg.LogLevel = f.logLevel
	}
	if f.workers > 0 {
		cfg.WorkerCount = f.workers
	}
}

func parseToday(s string) (time.Time, error) {
	if s == "" {
		now := time.Now().UTC()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --today %q: %w", s, err)
	}
	return t, nil
}

// emit writes v as indented JSON.
func (rt *cli) emit(v any) error {
	enc := json.NewEncoder(rt.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
