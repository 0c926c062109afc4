// Package seed generates synthetic status updates, writes them straight to
// the store or submits them to a running service.
package seed

import (
	"fmt"
	"math"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/okian/pragati/internal/domain/members"
	"github.com/okian/pragati/internal/domain/model"
)

// Update is one generated status update with the analysis it should carry.
type Update struct {
	Member    Member
	Timestamp time.Time
	Text      string
	Analysis  model.Analysis
}

// Generator produces deterministic updates for a given seed.
type Generator struct {
	rng     *rand.Rand
	roster  []Member
	weeks   int
	posting float64
}

// GeneratorOption configures a Generator.
type GeneratorOption func(*Generator)

// WithRoster replaces DefaultRoster.
func WithRoster(r []Member) GeneratorOption {
	return func(g *Generator) {
		if len(r) > 0 {
			g.roster = r
		}
	}
}

// WithWeeks sets how many weeks back the updates start.
func WithWeeks(n int) GeneratorOption {
	return func(g *Generator) {
		if n > 0 {
			g.weeks = n
		}
	}
}

// WithPostingRate sets the chance, in [0,1], that a member posts in a week.
func WithPostingRate(p float64) GeneratorOption {
	return func(g *Generator) {
		if p >= 0 && p <= 1 {
			g.posting = p
		}
	}
}

// NewGenerator creates a Generator. Equal seeds yield equal updates.
func NewGenerator(seed uint64, opts ...GeneratorOption) *Generator {
	g := &Generator{
		rng:     rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		roster:  DefaultRoster,
		weeks:   4,
		posting: 0.8,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate returns weekly updates from weeks ago up to now, oldest first.
func (g *Generator) Generate(now time.Time) []Update {
	start := now.AddDate(0, 0, -7*g.weeks)
	var out []Update
	for day := start; !day.After(now); day = day.AddDate(0, 0, 7) {
		for _, m := range g.roster {
			if g.rng.Float64() >= g.posting {
				continue
			}
			out = append(out, g.update(m, day))
		}
	}
	return out
}

func (g *Generator) update(m Member, at time.Time) Update {
	feature := pick(g.rng, features)
	project := pick(g.rng, projects)
	text := strings.NewReplacer(
		"{feature}", feature,
		"{project}", project,
		"{planning}", pick(g.rng, planning),
		"{num}", fmt.Sprint(3+g.rng.IntN(13)),
		"{percent}", fmt.Sprint(60+g.rng.IntN(36)),
	).Replace(pick(g.rng, templates[family(m.Role)]))

	a := model.Analysis{
		CompletedTasks:    []string{"Completed " + feature, "Updated " + project},
		ProjectProgress:   []string{fmt.Sprintf("%s is %d%% complete", project, 60+g.rng.IntN(41))},
		GoalsStatus:       []string{pick(g.rng, goals)},
		Blockers:          []string{},
		NextWeekPlans:     []string{"Continue work on " + feature, "Start planning for " + project},
		ProductivityScore: math.Round((0.7+0.3*g.rng.Float64())*100) / 100,
	}
	if g.rng.Float64() < 0.3 {
		a.Blockers = append(a.Blockers, blockers...)
	}
	return Update{Member: m, Timestamp: at.UTC(), Text: text, Analysis: a}
}

// family maps a role to a template set through its department.
func family(role string) string {
	switch members.DepartmentFromRole(role) {
	case "Product Management":
		return "product"
	case "Service Assurance":
		return "quality"
	case "Service Delivery", "Solutions":
		return "delivery"
	default:
		return "engineering"
	}
}

func pick(r *rand.Rand, xs []string) string { return xs[r.IntN(len(xs))] }
