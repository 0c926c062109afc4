package scoring_test

import (
	"fmt"
	"testing"

	"github.com/okian/pragati/internal/domain/model"
	scoring "github.com/okian/pragati/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

func scoredMembers(scores ...float64) []scoring.Scored {
	out := make([]scoring.Scored, len(scores))
	for i, s := range scores {
		out[i] = scoring.Scored{
			Member: model.Member{ID: int64(i + 1), Name: fmt.Sprintf("Member %d - Developer", i+1)},
			Score:  s,
		}
	}
	return out
}

func TestThresholds(t *testing.T) {
	Convey("Given ten members", t, func() {
		top, strong := scoring.Thresholds(10)
		So(top, ShouldEqual, 1)
		So(strong, ShouldEqual, 3)
	})

	Convey("Given very few members", t, func() {
		top, strong := scoring.Thresholds(1)
		So(top, ShouldEqual, 1)
		So(strong, ShouldEqual, 1)
	})
}

func TestClassifyTiers(t *testing.T) {
	Convey("Given ten scored members", t, func() {
		in := scoredMembers(0.1, 0.9, 0.5, 0.7, 0.3, 0.2, 0.8, 0.4, 0.6, 0.05)
		report := scoring.ClassifyTiers(in, "Last 30 days")

		Convey("Then rank 1 is top, ranks 2-3 strong, the rest other", func() {
			So(len(report.TopPerformers), ShouldEqual, 1)
			So(len(report.StrongPerformers), ShouldEqual, 2)
			So(len(report.OtherPerformers), ShouldEqual, 7)
			So(report.TopPerformers[0].Ranking, ShouldEqual, 1)
			So(report.TopPerformers[0].PerformanceTier, ShouldEqual, model.TierTop)
			So(report.StrongPerformers[0].Ranking, ShouldEqual, 2)
			So(report.StrongPerformers[1].Ranking, ShouldEqual, 3)
			So(report.StrongPerformers[1].PerformanceTier, ShouldEqual, model.TierStrong)
			So(report.OtherPerformers[0].Ranking, ShouldEqual, 4)
			So(report.OtherPerformers[6].Ranking, ShouldEqual, 10)
			So(report.OtherPerformers[6].PerformanceTier, ShouldEqual, model.TierRest)
		})

		Convey("Then the partition is complete and contiguous", func() {
			all := append(append(append([]model.EmployeePerformance{}, report.TopPerformers...),
				report.StrongPerformers...), report.OtherPerformers...)
			So(len(all), ShouldEqual, report.TotalEmployees)
			So(report.TotalEmployees, ShouldEqual, 10)
			for i, p := range all {
				So(p.Ranking, ShouldEqual, i+1)
				if i > 0 {
					So(p.OverallScore, ShouldBeLessThanOrEqualTo, all[i-1].OverallScore)
				}
			}
		})

		Convey("Then the top tier holds the highest score", func() {
			So(report.TopPerformers[0].OverallScore, ShouldEqual, 0.9)
			So(report.EvaluationPeriod, ShouldEqual, "Last 30 days")
		})

		Convey("Then the input slice is not reordered", func() {
			So(in[0].Score, ShouldEqual, 0.1)
		})
	})

	Convey("Given members with equal scores", t, func() {
		in := scoredMembers(0.5, 0.7, 0.5, 0.5)
		report := scoring.ClassifyTiers(in, "Last 90 days")
		all := append(append(append([]model.EmployeePerformance{}, report.TopPerformers...),
			report.StrongPerformers...), report.OtherPerformers...)

		Convey("Then ties keep their input order", func() {
			So(all[0].Name, ShouldEqual, "Member 2 - Developer")
			So(all[1].Name, ShouldEqual, "Member 1 - Developer")
			So(all[2].Name, ShouldEqual, "Member 3 - Developer")
			So(all[3].Name, ShouldEqual, "Member 4 - Developer")
		})
	})

	Convey("Given nobody to rank", t, func() {
		report := scoring.ClassifyTiers(nil, "Last 30 days")

		Convey("Then the report is empty but well formed", func() {
			So(report.TotalEmployees, ShouldEqual, 0)
			So(report.TopPerformers, ShouldNotBeNil)
			So(report.OtherPerformers, ShouldBeEmpty)
		})
	})
}

func TestEvaluate(t *testing.T) {
	Convey("Given a member without updates", t, func() {
		_, ok := scoring.Evaluate(model.Member{Name: "Idle - Developer"}, nil, now.AddDate(0, 0, -30), now)
		So(ok, ShouldBeFalse)
	})

	Convey("Given a member with one update", t, func() {
		u := update(now.AddDate(0, 0, -1), "shipped")
		u.ProductivityScore = model.Float(1)
		s, ok := scoring.Evaluate(model.Member{Name: "Busy - Developer"}, []model.Update{u}, now.AddDate(0, 0, -30), now)
		So(ok, ShouldBeTrue)
		So(s.Score, ShouldEqual, scoring.OverallScore(s.Metrics))
		So(s.Metrics.ConsistencyScore, ShouldEqual, 1.0)
	})
}
