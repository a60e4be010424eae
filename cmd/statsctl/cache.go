package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"bookstore-reporting/internal/domains/stats/service"
	infraCache "bookstore-reporting/internal/infrastructure/cache"
	"bookstore-reporting/pkg/cache"
)

func cacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the report cache",
	}

	flush := &cobra.Command{
		Use:   "flush",
		Short: "Delete every cached report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			rc := infraCache.NewRedisClient(cfg.Redis.Host, cfg.Redis.Password, cfg.Redis.DB)
			if err := rc.Connect(cmd.Context()); err != nil {
				return err
			}
			defer rc.Close()

			return flushReports(cmd.Context(), rc, cmd.OutOrStdout())
		},
	}

	cmd.AddCommand(flush)
	return cmd
}

func flushReports(ctx context.Context, c cache.Cache, out io.Writer) error {
	n, err := c.DeletePattern(ctx, service.CacheKeyPattern)
	if err != nil {
		return fmt.Errorf("flush report cache: %w", err)
	}
	fmt.Fprintf(out, "deleted %d cached reports\n", n)
	return nil
}
