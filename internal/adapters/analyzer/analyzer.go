// Package analyzer reads a free-form weekly update into structured fields.
package analyzer

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/okian/pragati/internal/domain/fields"
	"github.com/okian/pragati/internal/domain/model"
)

// Analyzer extracts an Analysis from update text.
type Analyzer interface {
	Analyze(ctx context.Context, text string) (model.Analysis, error)
}

const promptTemplate = `Analyze the following weekly update and provide a structured analysis focusing on productivity metrics:
1. Completed_Tasks (list of completed tasks/deliverables with measurable outcomes)
2. Project_Progress (list of ongoing projects and their status updates)
3. Goals_Status (list of goals and their completion status)
4. Blockers (list of any impediments affecting progress)
5. Next_Week_Plans (list of planned tasks/objectives for next week)
6. Productivity_Score (number between 0 and 1, based on task completion and progress)

Return ONLY a JSON object with these exact field names.
Each field (except Productivity_Score) should be a list of strings.
Productivity_Score should be a number between 0 and 1.

Weekly Update:
%s`

const systemPrompt = "You are an expert productivity analyst. Respond only with valid JSON matching the exact format requested."

// Prompt returns the user prompt for text.
func Prompt(text string) string {
	return fmt.Sprintf(promptTemplate, text)
}

type rawAnalysis struct {
	CompletedTasks    json.RawMessage `json:"Completed_Tasks"`
	ProjectProgress   json.RawMessage `json:"Project_Progress"`
	GoalsStatus       json.RawMessage `json:"Goals_Status"`
	Blockers          json.RawMessage `json:"Blockers"`
	NextWeekPlans     json.RawMessage `json:"Next_Week_Plans"`
	ProductivityScore json.RawMessage `json:"Productivity_Score"`
}

// Parse decodes a model reply. Code fences are stripped, missing list
// fields become empty, a missing score becomes 0 and the score is clamped
// to [0,1].
func Parse(ctx context.Context, n *fields.Normalizer, reply string) (model.Analysis, error) {
	clean := stripCodeFences(reply)
	if clean == "" {
		return model.Analysis{}, fmt.Errorf("%w: empty reply", ErrInvalidAnalysis)
	}
	var raw rawAnalysis
	if err := json.Unmarshal([]byte(clean), &raw); err != nil {
		return model.Analysis{}, fmt.Errorf("%w: %w", ErrInvalidAnalysis, err)
	}
	if n == nil {
		n = fields.Default()
	}
	return model.Analysis{
		CompletedTasks:    n.Normalize(ctx, raw.CompletedTasks),
		ProjectProgress:   n.Normalize(ctx, raw.ProjectProgress),
		GoalsStatus:       n.Normalize(ctx, raw.GoalsStatus),
		Blockers:          n.Normalize(ctx, raw.Blockers),
		NextWeekPlans:     n.Normalize(ctx, raw.NextWeekPlans),
		ProductivityScore: parseScore(raw.ProductivityScore),
	}, nil
}

func parseScore(raw json.RawMessage) float64 {
	s := strings.Trim(strings.TrimSpace(string(raw)), `"`)
	if s == "" || s == "null" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return clamp(v)
}

func clamp(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}

func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		parts := strings.SplitN(s, "\n", 2)
		if len(parts) == 2 {
			s = parts[1]
		} else {
			s = strings.TrimPrefix(s, "```")
		}
		s = strings.TrimPrefix(s, "json")
		s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "```"))
	}
	return s
}
