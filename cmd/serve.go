package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/okian/rigscore/internal/adapters/http/api"
	"github.com/okian/rigscore/internal/adapters/loader"
	service "github.com/okian/rigscore/internal/app"
	"github.com/okian/rigscore/pkg/logger"
	"github.com/okian/rigscore/pkg/metrics"
)

// HTTP server timeout constants.
const (
	defaultMetricsAddr     = ":9090"
	readTimeout            = 10 * time.Second
	writeTimeout           = 10 * time.Second
	idleTimeout            = 60 * time.Second
	readHeaderTimeout      = 5 * time.Second
	shutdownTimeout        = 30 * time.Second
	serviceMetricsInterval = 5 * time.Second
)

func newServeCmd(rt *cli) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Keep a snapshot loaded and expose health, stats and metrics",
		Long: `Serves /healthz, /stats and /metrics until interrupted. SIGHUP reloads
the data files and swaps in a freshly scored snapshot; a failed reload keeps
the old one. reload_schedule adds the same reload on a cron schedule.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if addr == "" {
				addr = rt.cfg.MetricsAddr
			}
			if addr == "" {
				addr = defaultMetricsAddr
			}
			return rt.serve(cmd.Context(), addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides metrics_addr)")
	return cmd
}

func (rt *cli) serve(parent context.Context, addr string) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	registerRuntimeCollectors()

	mux := http.NewServeMux()
	api.NewServer(statsView{rt.svc}).Register(mux)

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		rt.log.Info(ctx, "starting ops server", logger.String("addr", addr), logger.String("run_id", rt.runID))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	go rt.updateServiceMetrics(ctx)

	if rt.cfg.ReloadSchedule != "" {
		sched := cron.New()
		if _, err := sched.AddFunc(rt.cfg.ReloadSchedule, func() { rt.reload(ctx) }); err != nil {
			return fmt.Errorf("schedule reloads: %w", err)
		}
		sched.Start()
		defer sched.Stop()
		rt.log.Info(ctx, "scheduled reloads enabled", logger.String("schedule", rt.cfg.ReloadSchedule))
	}

	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	for {
		select {
		case err := <-errCh:
			rt.log.Error(ctx, "ops server failed", logger.Error(err))
			return err
		case <-hup:
			rt.reload(ctx)
		case <-ctx.Done():
			rt.log.Info(context.Background(), "shutting down ops server...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				rt.log.Error(shutdownCtx, "server shutdown failed", logger.Error(err))
				return err
			}
			rt.log.Info(shutdownCtx, "ops server stopped")
			return nil
		}
	}
}

// reload re-reads the data files and swaps the snapshot on success.
func (rt *cli) reload(ctx context.Context) {
	ds, err := loader.New().Load(ctx, loader.Paths{
		Catalog:    rt.cfg.CatalogPath,
		Benchmarks: rt.cfg.BenchmarksPath,
		Prices:     rt.cfg.PricesPath,
		Calendar:   rt.cfg.CalendarPath,
	})
	if err == nil {
		err = rt.svc.Load(ctx, ds)
	}
	if err != nil {
		metrics.RecordErrorByComponent("cli", "reload")
		rt.log.Error(ctx, "reload failed; keeping current snapshot", logger.Error(err))
		return
	}
	rt.log.Info(ctx, "reloaded", logger.Int("generation", int(rt.svc.GetStats().Generation)))
}

// updateServiceMetrics periodically refreshes service gauges.
func (rt *cli) updateServiceMetrics(ctx context.Context) {
	ticker := time.NewTicker(serviceMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			// GetStats refreshes the index gauge as a side effect.
			st := rt.svc.GetStats()
			rt.log.Debug(ctx, "service stats",
				logger.Int("entities", st.Entities),
				logger.Int("memo_entries", st.MemoEntries),
			)
		}
	}
}

// registerRuntimeCollectors adds Go and process collectors to the custom
// registry. Repeated registration is ignored.
func registerRuntimeCollectors() {
	reg := metrics.GetRegistry()
	_ = reg.Register(collectors.NewGoCollector())
	_ = reg.Register(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
}

// statsView adapts the service to the ops endpoints.
type statsView struct{ svc *service.Service }

func (v statsView) Ready() bool { return v.svc.GetStats().Loaded }
func (v statsView) Stats() any  { return v.svc.GetStats() }
