// Package model contains domain models passed between layers.
package model

import (
	"strings"
	"time"
)

// FieldKind tags how a structured update field was stored.
type FieldKind int

const (
	FieldEmpty FieldKind = iota // null or absent
	FieldList                   // already a list of strings
	FieldRaw                    // serialized text, usually a JSON array
)

// RawField is a structured update field in its stored, possibly malformed form.
// It is resolved through the field normalizer before any computation.
type RawField struct {
	Kind  FieldKind
	Items []string
	Raw   string
}

// EmptyField returns a field with no value.
func EmptyField() RawField { return RawField{Kind: FieldEmpty} }

// ListField returns a field holding items.
func ListField(items ...string) RawField { return RawField{Kind: FieldList, Items: items} }

// RawText returns a field holding serialized text.
func RawText(s string) RawField { return RawField{Kind: FieldRaw, Raw: s} }

// UpdateRecord is one stored status update. Immutable once loaded.
type UpdateRecord struct {
	ID        int64
	MemberID  int64
	Timestamp time.Time
	Text      string

	CompletedTasks  RawField
	ProjectProgress RawField
	GoalsStatus     RawField
	Blockers        RawField
	NextWeekPlans   RawField

	// ProductivityScore is in [0,1]; nil when the analyzer gave none.
	ProductivityScore *float64
}

// Update is the normalized form of an UpdateRecord. Every structured
// field is a non-nil slice.
type Update struct {
	ID        int64
	MemberID  int64
	Timestamp time.Time
	Text      string

	CompletedTasks  []string
	ProjectProgress []string
	GoalsStatus     []string
	Blockers        []string
	NextWeekPlans   []string

	ProductivityScore *float64
}

// Score returns the productivity score, or 0 when absent.
func (u Update) Score() float64 {
	if u.ProductivityScore == nil {
		return 0
	}
	return *u.ProductivityScore
}

// CombinedText joins the narrative with every structured field, the text
// used for keyword and embedding analyses.
func (u Update) CombinedText() string {
	parts := make([]string, 0, 1+len(u.CompletedTasks)+len(u.ProjectProgress)+
		len(u.GoalsStatus)+len(u.Blockers)+len(u.NextWeekPlans))
	parts = append(parts, u.Text)
	for _, field := range [][]string{u.CompletedTasks, u.ProjectProgress, u.GoalsStatus, u.Blockers, u.NextWeekPlans} {
		parts = append(parts, field...)
	}
	return strings.Join(parts, " ")
}

// Float returns a pointer to v, for optional scores.
func Float(v float64) *float64 { return &v }
