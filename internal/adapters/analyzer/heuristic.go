package analyzer

import (
	"context"
	"strings"
	"unicode"

	"github.com/okian/pragati/internal/domain/model"
)

// Sentence cues, checked in order; the first match wins.
var cues = []struct { //nolint:gochecknoglobals // constant table
	field string
	terms []string
}{
	{"blockers", []string{"blocked", "blocker", "stuck", "waiting on", "waiting for", "delayed by", "impediment"}},
	{"next", []string{"next week", "plan to", "planning to", "will ", "going to", "upcoming"}},
	{"goals", []string{"goal", "objective", "okr", "target"}},
	{"completed", []string{"completed", "finished", "shipped", "delivered", "released", "fixed", "resolved", "launched", "merged", "done"}},
	{"progress", []string{"progress", "working on", "ongoing", "in progress", "%", "started", "continued"}},
}

// HeuristicAnalyzer sorts sentences into fields by cue words. It needs no
// network and is used when no model API key is configured.
type HeuristicAnalyzer struct{}

// NewHeuristicAnalyzer creates a HeuristicAnalyzer.
func NewHeuristicAnalyzer() *HeuristicAnalyzer { return &HeuristicAnalyzer{} }

// Analyze classifies each sentence of text. The score rises with completed
// work and falls with blockers.
func (HeuristicAnalyzer) Analyze(ctx context.Context, text string) (model.Analysis, error) {
	if err := ctx.Err(); err != nil {
		return model.Analysis{}, err
	}
	out := model.Analysis{
		CompletedTasks:  []string{},
		ProjectProgress: []string{},
		GoalsStatus:     []string{},
		Blockers:        []string{},
		NextWeekPlans:   []string{},
	}
	for _, s := range sentences(text) {
		lower := strings.ToLower(s)
		for _, c := range cues {
			if !containsAny(lower, c.terms) {
				continue
			}
			switch c.field {
			case "blockers":
				out.Blockers = append(out.Blockers, s)
			case "next":
				out.NextWeekPlans = append(out.NextWeekPlans, s)
			case "goals":
				out.GoalsStatus = append(out.GoalsStatus, s)
			case "completed":
				out.CompletedTasks = append(out.CompletedTasks, s)
			case "progress":
				out.ProjectProgress = append(out.ProjectProgress, s)
			}
			break
		}
	}
	score := 0.5 + 0.1*float64(len(out.CompletedTasks)) + 0.05*float64(len(out.ProjectProgress)) - 0.1*float64(len(out.Blockers))
	out.ProductivityScore = clamp(score)
	return out, nil
}

func sentences(text string) []string {
	parts := strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?' || r == '\n' || r == ';'
	})
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimFunc(p, func(r rune) bool { return unicode.IsSpace(r) || r == '-' || r == '*' })
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func containsAny(s string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}
