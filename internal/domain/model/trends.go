package model

// TrendPoint is the productivity of one department on one day.
type TrendPoint struct {
	Date         string  `json:"date"`
	Department   string  `json:"department"`
	Productivity float64 `json:"productivity"`
	Updates      int     `json:"updates"`
}

// DepartmentSummary aggregates every update of one department.
type DepartmentSummary struct {
	Name           string  `json:"name"`
	Productivity   float64 `json:"productivity"`
	Updates        int     `json:"updates"`
	Blockers       int     `json:"blockers"`
	CompletedTasks int     `json:"completedTasks"`
}

// VelocityPoint is the planned and completed work of one department in one ISO week.
type VelocityPoint struct {
	Sprint      string `json:"sprint"`
	Department  string `json:"department"`
	Planned     int    `json:"planned"`
	Completed   int    `json:"completed"`
	UpdateCount int    `json:"update_count"`
}

// DepartmentStats is the per-department part of an Overview.
type DepartmentStats struct {
	Productivity  float64 `json:"productivity"`
	Updates       int     `json:"updates"`
	ActiveMembers int     `json:"active_members"`
}

// Overview summarizes a window of updates across the organization.
type Overview struct {
	TeamProductivity float64                    `json:"team_productivity"`
	TotalUpdates     int                        `json:"total_updates"`
	ActiveProjects   []string                   `json:"active_projects"`
	CompletedTasks   []string                   `json:"completed_tasks"`
	CommonBlockers   []string                   `json:"common_blockers"`
	DepartmentStats  map[string]DepartmentStats `json:"department_stats"`
}
