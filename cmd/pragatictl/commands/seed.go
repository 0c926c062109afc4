package commands

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/okian/pragati/internal/adapters/repository"
	"github.com/okian/pragati/internal/seed"
)

func newSeedCmd(g *globalOptions) *cobra.Command {
	var (
		weeks int
		rate  float64
		value uint64
	)
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Write synthetic weekly updates to the store",
		Long: `Generate weekly updates for a synthetic roster and write them straight
to the configured store, skipping the analyzer. Use a sqlite store; the
memory store is discarded when the command exits.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			svc, cfg, closeSvc, err := g.openService(ctx)
			if err != nil {
				return err
			}
			defer closeSvc()

			out := cmd.OutOrStdout()
			if cfg.StoreDriver == repository.DriverMemory {
				warning(out, "memory store: seeded updates will not persist")
			}
			updates := seed.NewGenerator(value, seed.WithWeeks(weeks), seed.WithPostingRate(rate)).Generate(time.Now())
			n, err := seed.Write(ctx, svc, updates)
			if err != nil {
				return err
			}
			success(out, "seeded %d updates into %s", n, cfg.StoreDriver)
			return nil
		},
	}
	cmd.Flags().IntVar(&weeks, "weeks", 4, "weeks of history to generate")
	cmd.Flags().Float64Var(&rate, "rate", 0.8, "chance a member posts in a given week")
	cmd.Flags().Uint64Var(&value, "seed", uint64(time.Now().UnixNano()), "random seed")
	return cmd
}
