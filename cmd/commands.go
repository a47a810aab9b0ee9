package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/okian/rigscore/internal/adapters/repository"
	service "github.com/okian/rigscore/internal/app"
	"github.com/okian/rigscore/internal/domain/buysignal"
	"github.com/okian/rigscore/internal/domain/model"
	"github.com/okian/rigscore/internal/domain/percentile"
	"github.com/okian/rigscore/pkg/logger"
)

const defaultTopLimit = 10

type reportEnvelope struct {
	RunID            string           `json:"run_id"`
	Today            string           `json:"today"`
	CatalogVersion   string           `json:"catalog_version"`
	BenchmarkVersion string           `json:"benchmark_version"`
	Reports          []service.Report `json:"reports"`
}

func newReportCmd(rt *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "report [id...]",
		Short: "Full evaluation of one or more entities",
		Long:  "Scores, peer contexts, analysis and buy signal per entity. Without ids every entity is reported.",
		Example: `  rigscore report x1-gen12
  rigscore report --today 2026-11-01`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := args
			if len(ids) == 0 {
				var err error
				if ids, err = rt.svc.IDs(); err != nil {
					return err
				}
			}

			st := rt.svc.GetStats()
			env := reportEnvelope{
				RunID:            rt.runID,
				Today:            rt.today.Format(dateLayout),
				CatalogVersion:   st.CatalogVersion,
				BenchmarkVersion: st.BenchmarkVersion,
				Reports:          make([]service.Report, 0, len(ids)),
			}
			for _, id := range ids {
				r, err := rt.svc.Report(cmd.Context(), id, rt.today)
				if err != nil {
					return err
				}
				env.Reports = append(env.Reports, r)
			}
			rt.log.Info(cmd.Context(), "report generated",
				logger.String("run_id", rt.runID),
				logger.Int("entities", len(env.Reports)),
			)
			return rt.emit(env)
		},
	}
}

func newAnalyzeCmd(rt *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "analyze <id>",
		Short: "Strengths, weaknesses, tags and scenario verdicts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := rt.svc.Analyze(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return rt.emit(res)
		},
	}
}

type signalOutput struct {
	EntityID  string             `json:"entity_id"`
	Today     string             `json:"today"`
	BestPrice float64            `json:"best_price,omitempty"`
	Decision  buysignal.Decision `json:"decision"`
	NextSale  *nextSale          `json:"next_sale,omitempty"`
}

type nextSale struct {
	Name      string `json:"name"`
	Start     string `json:"start"`
	DaysUntil int    `json:"days_until"`
}

func newSignalCmd(rt *cli) *cobra.Command {
	return &cobra.Command{
		Use:     "signal <id>",
		Short:   "Buy-now or wait recommendation",
		Args:    cobra.ExactArgs(1),
		Example: `  rigscore signal x1-gen12 --today 2026-10-19`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id := args[0]
			d, err := rt.svc.Signal(ctx, id, rt.today)
			if err != nil {
				return err
			}
			best, _, err := rt.svc.BestPrice(ctx, id)
			if err != nil {
				return err
			}

			out := signalOutput{EntityID: id, Today: rt.today.Format(dateLayout), BestPrice: best, Decision: d}
			next, ok, err := rt.svc.UpcomingSale(rt.today)
			if err != nil {
				return err
			}
			if ok {
				out.NextSale = &nextSale{
					Name:      next.Event.Name,
					Start:     next.Start.Format(dateLayout),
					DaysUntil: next.DaysUntil,
				}
			}
			return rt.emit(out)
		},
	}
}

func newCompareCmd(rt *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "compare <id> [dimension]",
		Short: "Percentile and peer-group context per dimension",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if len(args) == 1 {
				cs, err := rt.svc.Contexts(ctx, args[0])
				if err != nil {
					return err
				}
				return rt.emit(cs)
			}
			d, err := parseDimension(args[1])
			if err != nil {
				return err
			}
			c, err := rt.svc.Context(ctx, args[0], d)
			if err != nil {
				return err
			}
			return rt.emit([]percentile.Context{c})
		},
	}
}

func newTopCmd(rt *cli) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "top <dimension>",
		Short: "Best entities in one dimension",
		Args:  cobra.ExactArgs(1),
		Example: `  rigscore top gpu
  rigscore top portability -n 5`,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := parseDimension(args[0])
			if err != nil {
				return err
			}
			entries, err := rt.svc.TopN(cmd.Context(), d, limit)
			if err != nil {
				return err
			}
			if entries == nil {
				entries = []repository.Entry{}
			}
			return rt.emit(entries)
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", defaultTopLimit, "number of entries")
	return cmd
}

func parseDimension(s string) (model.Dimension, error) {
	d, ok := model.ParseDimension(strings.ToLower(strings.TrimSpace(s)))
	if !ok {
		names := make([]string, 0, len(model.Dimensions))
		for _, d := range model.Dimensions {
			names = append(names, d.String())
		}
		return 0, fmt.Errorf("unknown dimension %q (want one of %s)", s, strings.Join(names, ", "))
	}
	return d, nil
}
