package model

import "time"

// Submission is a raw update accepted for asynchronous analysis.
type Submission struct {
	SubmissionID string    // unique id for idempotency
	TeamMember   string    // "<Name> - <Role>"
	Text         string    // free-form narrative
	ReceivedAt   time.Time // server receive time, used as the update timestamp
}

// Analysis is the structured reading of an update text produced by the analyzer.
type Analysis struct {
	CompletedTasks    []string `json:"Completed_Tasks"`
	ProjectProgress   []string `json:"Project_Progress"`
	GoalsStatus       []string `json:"Goals_Status"`
	Blockers          []string `json:"Blockers"`
	NextWeekPlans     []string `json:"Next_Week_Plans"`
	ProductivityScore float64  `json:"Productivity_Score"`
}
