package model

// Tier is a percentile band assigned by ranked overall score.
type Tier string

const (
	TierTop    Tier = "Top 10%"
	TierStrong Tier = "Next 20%"
	TierRest   Tier = "Rest 70%"
)

// PerformanceMetrics is derived per query from a member's updates in a window.
type PerformanceMetrics struct {
	ProductivityScore       float64 `json:"productivity_score"`
	CompletedTasksCount     int     `json:"completed_tasks_count"`
	GoalsAchieved           int     `json:"goals_achieved"`
	ProjectCompletionRate   float64 `json:"project_completion_rate"`
	UpdateFrequency         float64 `json:"update_frequency"`
	CollaborationScore      float64 `json:"collaboration_score"`
	ImpactScore             float64 `json:"impact_score"`
	ConsistencyScore        float64 `json:"consistency_score"`
	InnovationScore         float64 `json:"innovation_score"`
	QualityScore            float64 `json:"quality_score"`
	BlockersResolved        int     `json:"blockers_resolved"`
	AvgTaskComplexity       float64 `json:"avg_task_complexity"`
	MilestoneCompletionRate float64 `json:"milestone_completion_rate"`
	KnowledgeSharing        int     `json:"knowledge_sharing"`
	TeamContributions       int     `json:"team_contributions"`
}

// EmployeePerformance is a ranked member with their metrics.
type EmployeePerformance struct {
	Name            string             `json:"name"`
	Role            string             `json:"role"`
	Department      string             `json:"department"`
	Metrics         PerformanceMetrics `json:"metrics"`
	OverallScore    float64            `json:"overall_score"`
	Ranking         int                `json:"ranking"`
	PerformanceTier Tier               `json:"performance_tier"`
}

// PerformanceReport splits ranked members into the three tiers.
type PerformanceReport struct {
	TopPerformers    []EmployeePerformance `json:"top_performers"`
	StrongPerformers []EmployeePerformance `json:"strong_performers"`
	OtherPerformers  []EmployeePerformance `json:"other_performers"`
	TotalEmployees   int                   `json:"total_employees"`
	EvaluationPeriod string                `json:"evaluation_period"`
}
