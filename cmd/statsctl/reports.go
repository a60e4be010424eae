package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"bookstore-reporting/internal/domains/stats/export"
	"bookstore-reporting/internal/domains/stats/model"
	"bookstore-reporting/internal/domains/stats/service"
	"bookstore-reporting/pkg/container"
)

// reportFlags là các flag chung, cùng tên với query params của API
type reportFlags struct {
	from        string
	to          string
	granularity string
	tz          string
	limit       int
	profitMode  string
	noCache     bool
	format      string
	out         string
}

func (f *reportFlags) bind(cmd *cobra.Command, withLimit bool) {
	cmd.Flags().StringVar(&f.from, "from", "", "range start (RFC3339 or YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.to, "to", "", "range end (RFC3339 or YYYY-MM-DD, inclusive)")
	cmd.Flags().StringVarP(&f.granularity, "granularity", "g", "", "year | quarter | month | week")
	cmd.Flags().StringVar(&f.tz, "tz", "", "IANA timezone for bucketing")
	cmd.Flags().StringVar(&f.profitMode, "profit-mode", "", "none | variant | book")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "bypass the report cache")
	cmd.Flags().StringVarP(&f.format, "format", "f", "json", "json | xlsx")
	cmd.Flags().StringVarP(&f.out, "out", "o", "", "output file (required for xlsx)")
	if withLimit {
		cmd.Flags().IntVarP(&f.limit, "limit", "n", 0, "number of top products (1..100)")
	}
}

// query dựng StatsQuery; limit chỉ set khi flag được truyền
func (f *reportFlags) query(cmd *cobra.Command) model.StatsQuery {
	q := model.StatsQuery{
		From:        f.from,
		To:          f.to,
		Granularity: f.granularity,
		TZ:          f.tz,
		ProfitMode:  f.profitMode,
	}
	if lf := cmd.Flags().Lookup("limit"); lf != nil && lf.Changed {
		limit := f.limit
		q.Limit = &limit
	}
	return q
}

type reportSpec struct {
	use          string
	short        string
	withLimit    bool
	defaultLimit int
	run          func(ctx context.Context, svc service.StatsService, p model.ReportParams) (interface{}, error)
}

var reports = []reportSpec{
	{
		use: "overview", short: "Totals, user counts and top products for a range",
		withLimit: true, defaultLimit: model.DefaultOverviewLimit,
		run: func(ctx context.Context, svc service.StatsService, p model.ReportParams) (interface{}, error) {
			return svc.GetOverview(ctx, p)
		},
	},
	{
		use: "time-series", short: "Gap-filled sales metrics per period",
		defaultLimit: model.DefaultLimit,
		run: func(ctx context.Context, svc service.StatsService, p model.ReportParams) (interface{}, error) {
			return svc.GetTimeSeries(ctx, p)
		},
	},
	{
		use: "top-products", short: "Best-selling books by quantity",
		withLimit: true, defaultLimit: model.DefaultLimit,
		run: func(ctx context.Context, svc service.StatsService, p model.ReportParams) (interface{}, error) {
			return svc.GetTopProducts(ctx, p)
		},
	},
	{
		use: "product-breakdown", short: "Quantity and revenue per category per period",
		defaultLimit: model.DefaultLimit,
		run: func(ctx context.Context, svc service.StatsService, p model.ReportParams) (interface{}, error) {
			return svc.GetProductBreakdown(ctx, p)
		},
	},
}

func reportCommands() []*cobra.Command {
	cmds := make([]*cobra.Command, 0, len(reports))
	for _, spec := range reports {
		flags := &reportFlags{}

		cmd := &cobra.Command{
			Use:   spec.use,
			Short: spec.short,
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := flags.checkOutput(); err != nil {
					return err
				}

				cfg, err := loadConfig()
				if err != nil {
					return err
				}
				if flags.noCache {
					cfg.Stats.CacheTTL = 0
				}

				c, err := container.NewContainer(cmd.Context(), cfg)
				if err != nil {
					return err
				}
				defer c.Cleanup()

				result, err := runReport(cmd.Context(), c.StatsService, spec, flags.query(cmd), cfg.Stats.DefaultTimezone)
				if err != nil {
					return err
				}

				if flags.format == formatXLSX {
					return writeXLSX(flags.out, result)
				}
				return writeJSON(cmd.OutOrStdout(), result)
			},
		}
		flags.bind(cmd, spec.withLimit)
		cmds = append(cmds, cmd)
	}
	return cmds
}

const (
	formatJSON = "json"
	formatXLSX = "xlsx"
)

func (f *reportFlags) checkOutput() error {
	switch f.format {
	case formatJSON:
		return nil
	case formatXLSX:
		if f.out == "" {
			return fmt.Errorf("--out is required with --format %s", formatXLSX)
		}
		return nil
	default:
		return fmt.Errorf("unknown format %q (json | xlsx)", f.format)
	}
}

// runReport validate query giống handler rồi chạy report
func runReport(ctx context.Context, svc service.StatsService, spec reportSpec, q model.StatsQuery, defaultTZ string) (interface{}, error) {
	if q.TZ == "" {
		q.TZ = defaultTZ
	}
	if err := q.Validate(); err != nil {
		return nil, model.NewStatsError(model.ErrCodeInvalidQuery, "Invalid query parameters", err)
	}

	params, err := q.ToParams(spec.defaultLimit)
	if err != nil {
		return nil, model.NewStatsError(model.ErrCodeInvalidParameter, "Invalid query parameters", err)
	}

	return spec.run(ctx, svc, params)
}

func writeJSON(out io.Writer, result interface{}) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return nil
}

func writeXLSX(path string, result interface{}) error {
	f, err := export.Workbook(result)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	return nil
}
