package scoring

import (
	"sort"
	"time"

	"github.com/okian/pragati/internal/domain/model"
)

// Tier fractions of the ranked population.
const (
	topFraction    = 0.10
	strongFraction = 0.30
)

// Scored is a member with their metrics and overall score.
type Scored struct {
	Member  model.Member
	Metrics model.PerformanceMetrics
	Score   float64
}

// Evaluate scores one member. It reports false when the member has no
// updates, since such members are not ranked at all.
func Evaluate(member model.Member, updates []model.Update, windowStart, now time.Time) (Scored, bool) {
	if len(updates) == 0 {
		return Scored{}, false
	}
	m := ExtractMetrics(updates, windowStart, now)
	return Scored{Member: member, Metrics: m, Score: OverallScore(m)}, true
}

// Thresholds returns the last rank of the top and strong tiers for n members.
func Thresholds(n int) (top, strong int) {
	top = max(1, int(topFraction*float64(n)))
	strong = max(1, int(strongFraction*float64(n)))
	return top, strong
}

// ClassifyTiers ranks scored members by score, highest first, keeping the
// input order for ties, and splits them into tiers.
func ClassifyTiers(scored []Scored, label string) model.PerformanceReport {
	ranked := make([]Scored, len(scored))
	copy(ranked, scored)
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Score > ranked[j].Score })

	report := model.PerformanceReport{
		TopPerformers:    []model.EmployeePerformance{},
		StrongPerformers: []model.EmployeePerformance{},
		OtherPerformers:  []model.EmployeePerformance{},
		TotalEmployees:   len(ranked),
		EvaluationPeriod: label,
	}
	top, strong := Thresholds(len(ranked))
	for i, s := range ranked {
		rank := i + 1
		perf := model.EmployeePerformance{
			Name:         s.Member.Name,
			Role:         s.Member.Role,
			Department:   s.Member.Department,
			Metrics:      s.Metrics,
			OverallScore: s.Score,
			Ranking:      rank,
		}
		switch {
		case rank <= top:
			perf.PerformanceTier = model.TierTop
			report.TopPerformers = append(report.TopPerformers, perf)
		case rank <= strong:
			perf.PerformanceTier = model.TierStrong
			report.StrongPerformers = append(report.StrongPerformers, perf)
		default:
			perf.PerformanceTier = model.TierRest
			report.OtherPerformers = append(report.OtherPerformers, perf)
		}
	}
	return report
}
