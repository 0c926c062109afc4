package scoring

import (
	"math"

	"github.com/okian/pragati/internal/domain/model"
)

// Normalization caps for the overall score.
const (
	MaxTasks     = 20
	MaxGoals     = 10
	MaxFrequency = 5
)

// Weights in tenths so a saturated input sums to exactly ten.
const (
	productivityWeight = 3
	tasksWeight        = 2
	goalsWeight        = 2
	completionWeight   = 2
	frequencyWeight    = 1
	weightScale        = 10
)

// OverallScore folds metrics into one value in [0,1]:
// 0.3 productivity, 0.2 tasks, 0.2 goals, 0.2 project completion, 0.1 frequency.
func OverallScore(m model.PerformanceMetrics) float64 {
	sum := productivityWeight*m.ProductivityScore +
		tasksWeight*math.Min(1, float64(m.CompletedTasksCount)/MaxTasks) +
		goalsWeight*math.Min(1, float64(m.GoalsAchieved)/MaxGoals) +
		completionWeight*m.ProjectCompletionRate +
		frequencyWeight*math.Min(1, m.UpdateFrequency/MaxFrequency)
	return sum / weightScale
}
