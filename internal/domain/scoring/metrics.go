// Package scoring derives performance metrics from a member's updates,
// folds them into one overall score and ranks members into tiers.
package scoring

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/okian/pragati/internal/domain/model"
)

// Task complexity weights.
const (
	baseComplexity       = 1.0
	designComplexity     = 0.5
	difficultyComplexity = 0.3
	lengthComplexity     = 0.2
	longTaskWords        = 10
)

// Impact weights.
const (
	importanceImpact = 0.3
	businessImpact   = 0.2
	maxImpact        = 1.0
)

const (
	daysPerWeek   = 7
	hoursPerDay   = 24
	maxPercentage = 100
)

// ExtractMetrics computes the metrics of one member's updates in a window
// starting at windowStart, evaluated at now. An empty input yields zeros.
func ExtractMetrics(updates []model.Update, windowStart, now time.Time) model.PerformanceMetrics {
	if len(updates) == 0 {
		return model.PerformanceMetrics{}
	}
	n := float64(len(updates))

	var m model.PerformanceMetrics
	m.ProductivityScore = meanProductivity(updates)

	var complexity float64
	for _, u := range updates {
		for _, task := range u.CompletedTasks {
			complexity += taskComplexity(task)
			m.CompletedTasksCount++
		}
	}
	if m.CompletedTasksCount > 0 {
		m.AvgTaskComplexity = complexity / float64(m.CompletedTasksCount)
	}

	var milestones, milestonesDone int
	for _, u := range updates {
		for _, goal := range u.GoalsStatus {
			g := strings.ToLower(goal)
			done := containsAny(g, achievedTerms)
			if done {
				m.GoalsAchieved++
			}
			if containsAny(g, milestoneTerms) {
				milestones++
				if done {
					milestonesDone++
				}
			}
		}
	}
	if milestones > 0 {
		m.MilestoneCompletionRate = float64(milestonesDone) / float64(milestones)
	}

	var rates []int
	for _, u := range updates {
		for _, project := range u.ProjectProgress {
			if strings.Contains(project, "%") {
				if rate, ok := percentage(project); ok {
					rates = append(rates, rate)
				}
			}
			p := strings.ToLower(project)
			if containsAny(p, importanceTerms) {
				m.ImpactScore += importanceImpact
			}
			if containsAny(p, businessTerms) {
				m.ImpactScore += businessImpact
			}
		}
	}
	m.ImpactScore = math.Min(maxImpact, m.ImpactScore)
	if len(rates) > 0 {
		sum := 0
		for _, r := range rates {
			sum += r
		}
		m.ProjectCompletionRate = float64(sum) / float64(len(rates)) / maxPercentage
	}

	days := math.Floor(now.Sub(windowStart).Hours() / hoursPerDay)
	weeks := math.Max(1, days/daysPerWeek)
	m.UpdateFrequency = n / weeks
	m.ConsistencyScore = consistency(updates)

	var collab, innovative, issues int
	for _, u := range updates {
		text := strings.ToLower(u.Text)
		collab += countTerms(text, collabTerms)
		m.KnowledgeSharing += countTerms(text, sharingTerms)
		m.TeamContributions += countTerms(text, teamHelpTerms)
		if containsAny(text, innovationTerms) {
			innovative++
		}
		if containsAny(text, resolvedTerms) {
			m.BlockersResolved++
		}
		for _, b := range u.Blockers {
			if containsAny(strings.ToLower(b), qualityTerms) {
				issues++
			}
		}
	}
	m.CollaborationScore = math.Min(1, float64(collab)/(n*2))
	m.InnovationScore = math.Min(1, float64(innovative)/n)
	m.QualityScore = 1 - math.Min(1, float64(issues)/float64(max(1, m.CompletedTasksCount)))

	return m
}

// meanProductivity averages the present scores, 0 when none are present.
func meanProductivity(updates []model.Update) float64 {
	var sum float64
	var count int
	for _, u := range updates {
		if u.ProductivityScore != nil {
			sum += *u.ProductivityScore
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}

func taskComplexity(task string) float64 {
	t := strings.ToLower(task)
	w := baseComplexity
	if containsAny(t, designTerms) {
		w += designComplexity
	}
	if containsAny(t, difficultyTerms) {
		w += difficultyComplexity
	}
	if len(strings.Fields(task)) > longTaskWords {
		w += lengthComplexity
	}
	return w
}

// percentage concatenates the digits of s, e.g. "Auth: 80% complete" -> 80.
// Values outside [0,100] and strings without digits are rejected.
func percentage(s string) (int, bool) {
	var digits strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	if digits.Len() == 0 {
		return 0, false
	}
	v, err := strconv.Atoi(digits.String())
	if err != nil || v < 0 || v > maxPercentage {
		return 0, false
	}
	return v, true
}

// consistency is 1 minus the mean calendar-day gap in weeks, clamped to [0,1].
func consistency(updates []model.Update) float64 {
	if len(updates) < 2 {
		return 1
	}
	dates := make([]time.Time, len(updates))
	for i, u := range updates {
		y, mo, d := u.Timestamp.Date()
		dates[i] = time.Date(y, mo, d, 0, 0, 0, 0, time.UTC)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	var total float64
	for i := 1; i < len(dates); i++ {
		total += math.Round(dates[i].Sub(dates[i-1]).Hours() / hoursPerDay)
	}
	meanGap := total / float64(len(dates)-1)
	return math.Max(0, math.Min(1, 1-meanGap/daysPerWeek))
}

func containsAny(s string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}

// countTerms counts how many of terms appear in s.
func countTerms(s string, terms []string) int {
	n := 0
	for _, t := range terms {
		if strings.Contains(s, t) {
			n++
		}
	}
	return n
}
