package commands

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/okian/pragati/internal/seed"
)

func newLoadCmd() *cobra.Command {
	var (
		cfg   seed.LoadConfig
		weeks int
		value uint64
	)
	cmd := &cobra.Command{
		Use:   "load",
		Short: "Submit synthetic updates to a running service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			updates := seed.NewGenerator(value, seed.WithWeeks(weeks)).Generate(time.Now())
			stats, err := seed.Load(cmd.Context(), cfg, updates)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			success(out, "submitted %d updates in %s", stats.Submitted, stats.Duration.Round(time.Millisecond))
			line(out, "   Accepted: %d", stats.Accepted)
			line(out, "   Duplicate: %d", stats.Duplicate)
			if stats.Backpressure > 0 {
				warning(out, "Backpressure: %d", stats.Backpressure)
			}
			if stats.Failed > 0 {
				warning(out, "Failed: %d", stats.Failed)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&cfg.BaseURL, "url", "http://localhost:9080", "base URL of the service")
	cmd.Flags().IntVar(&cfg.Workers, "workers", 4, "concurrent submitters")
	cmd.Flags().DurationVar(&cfg.Timeout, "timeout", 30*time.Second, "HTTP request timeout")
	cmd.Flags().IntVar(&weeks, "weeks", 4, "weeks of updates to generate")
	cmd.Flags().Uint64Var(&value, "seed", uint64(time.Now().UnixNano()), "random seed")
	return cmd
}
