// Package types contains wire types shared by the HTTP, MCP and CLI surfaces.
package types

import (
	"time"

	"github.com/okian/pragati/internal/domain/model"
)

// SubmitRequest is the body of POST /updates.
type SubmitRequest struct {
	SubmissionID string `json:"submission_id,omitempty"`
	TeamMember   string `json:"team_member"`
	Text         string `json:"text"`
}

// SubmitResponse acknowledges an accepted submission.
type SubmitResponse struct {
	SubmissionID string `json:"submission_id"`
	Status       string `json:"status"`
	Duplicate    bool   `json:"duplicate,omitempty"`
}

// HistoryEntry is one stored update with its normalized analysis.
type HistoryEntry struct {
	ID         int64          `json:"id"`
	Timestamp  time.Time      `json:"timestamp"`
	TeamMember string         `json:"team_member"`
	Update     string         `json:"update"`
	Analysis   model.Analysis `json:"analysis"`
}

// History lists updates newest first.
type History struct {
	History []HistoryEntry `json:"history"`
}

// KeywordReport is the envelope of the keyword repetition analysis.
type KeywordReport struct {
	AnalysisPeriod string                 `json:"analysis_period"`
	MinOccurrences int                    `json:"min_occurrences"`
	Degraded       bool                   `json:"degraded,omitempty"`
	Results        []model.MemberKeywords `json:"results"`
}

// Stats reports the ingestion pipeline state.
type Stats struct {
	QueueLen      int   `json:"queue_len"`
	QueueCapacity int   `json:"queue_capacity"`
	Workers       int   `json:"workers"`
	Processed     int64 `json:"processed"`
	Failed        int64 `json:"failed"`
	DedupeSize    int   `json:"dedupe_size"`
	Members       int   `json:"members"`
}
