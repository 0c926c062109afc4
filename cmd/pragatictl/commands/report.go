package commands

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/okian/pragati/internal/domain/model"
)

func newReportCmd(g *globalOptions) *cobra.Command {
	var (
		period  string
		signals bool
		days    int
	)
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print tiered member ratings",
		Long: `Print members ranked by overall score and grouped into tiers.

With --signals the report also lists repeated keywords and stalled
periods over the last --days days.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			svc, _, closeSvc, err := g.openService(ctx)
			if err != nil {
				return err
			}
			defer closeSvc()

			out := cmd.OutOrStdout()
			report, err := svc.Ratings(ctx, period)
			if err != nil {
				return err
			}
			heading(out, "Ratings: %s (%d members)", report.EvaluationPeriod, report.TotalEmployees)
			if report.TotalEmployees == 0 {
				warning(out, "no updates in this period")
			}
			for _, group := range [][]model.EmployeePerformance{report.TopPerformers, report.StrongPerformers, report.OtherPerformers} {
				for _, m := range group {
					_, _ = tierColor(m.PerformanceTier).Fprintf(out, "%3d. %-24s %-22s %-20s %.3f  %s\n",
						m.Ranking, m.Name, m.Role, m.Department, m.OverallScore, m.PerformanceTier)
				}
			}
			if !signals {
				return nil
			}

			kw, err := svc.RepeatedKeywords(ctx, days)
			if err != nil {
				return err
			}
			line(out, "")
			heading(out, "Repeated keywords: %s", kw.AnalysisPeriod)
			if len(kw.Results) == 0 {
				line(out, "  none")
			}
			for _, r := range kw.Results {
				words := make([]string, 0, len(r.Keywords))
				for _, k := range r.Keywords {
					words = append(words, k.Keyword)
				}
				line(out, "  %s: %s", r.Member, strings.Join(words, ", "))
			}

			stalls, err := svc.Stalls(ctx, days, nil)
			if err != nil {
				return err
			}
			line(out, "")
			heading(out, "Stalls: %s (threshold %.2f)", stalls.AnalysisPeriod, stalls.Threshold)
			found := false
			for _, r := range stalls.Results {
				if len(r.StalledPeriods) == 0 {
					continue
				}
				found = true
				warning(out, "%s: %d stalled of %d comparisons", r.Member, len(r.StalledPeriods), r.Comparisons)
			}
			if !found {
				line(out, "  none")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&period, "period", "30d", "evaluation period: 30d, 90d, 180d or 365d")
	cmd.Flags().BoolVar(&signals, "signals", false, "include repeated keywords and stalls")
	cmd.Flags().IntVar(&days, "days", 0, "lookback for --signals in days (default from config)")
	return cmd
}
