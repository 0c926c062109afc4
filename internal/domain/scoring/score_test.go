package scoring_test

import (
	"testing"

	"github.com/okian/pragati/internal/domain/model"
	scoring "github.com/okian/pragati/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

func TestOverallScore(t *testing.T) {
	Convey("Given saturated metrics", t, func() {
		m := model.PerformanceMetrics{
			ProductivityScore:     1.0,
			CompletedTasksCount:   20,
			GoalsAchieved:         10,
			ProjectCompletionRate: 1.0,
			UpdateFrequency:       5,
		}

		Convey("Then the overall score is exactly 1", func() {
			So(scoring.OverallScore(m), ShouldEqual, 1.0)
		})

		Convey("Then values above the caps do not push it past 1", func() {
			m.CompletedTasksCount = 200
			m.GoalsAchieved = 50
			m.UpdateFrequency = 12
			So(scoring.OverallScore(m), ShouldEqual, 1.0)
		})
	})

	Convey("Given partial metrics", t, func() {
		m := model.PerformanceMetrics{
			ProductivityScore:     0.5,
			CompletedTasksCount:   10,
			GoalsAchieved:         5,
			ProjectCompletionRate: 0.5,
			UpdateFrequency:       2.5,
			CollaborationScore:    1.0,
		}

		Convey("Then only the five weighted metrics count", func() {
			So(scoring.OverallScore(m), ShouldAlmostEqual, 0.5, tolerance)
		})
	})
}
