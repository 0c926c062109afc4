package model

import "time"

// RepeatedKeywordSignal reports a keyword that stayed significant across
// consecutive updates of one member.
type RepeatedKeywordSignal struct {
	Keyword      string `json:"keyword"`
	RepeatCount  int    `json:"repeat_count"`
	TotalUpdates int    `json:"total_updates"`
}

// MemberKeywords groups the repeated keywords of one member.
type MemberKeywords struct {
	Member       string                  `json:"member"`
	MemberID     int64                   `json:"member_id"`
	TotalRepeats int                     `json:"total_repeats"`
	Keywords     []RepeatedKeywordSignal `json:"keywords"`
}

// SimilarityScore compares two consecutive updates of one member.
type SimilarityScore struct {
	FirstUpdateID   int64     `json:"first_update_id"`
	SecondUpdateID  int64     `json:"second_update_id"`
	Similarity      float64   `json:"similarity"`
	FirstTimestamp  time.Time `json:"first_timestamp"`
	SecondTimestamp time.Time `json:"second_timestamp"`
}

// StalledPeriod is a near-duplicate pair where productivity did not improve.
type StalledPeriod struct {
	SimilarityScore
	FirstScore  float64 `json:"first_productivity"`
	SecondScore float64 `json:"second_productivity"`
}

// MemberStalls groups the stalled periods of one member.
type MemberStalls struct {
	Member         string          `json:"member"`
	MemberID       int64           `json:"member_id"`
	MeanSimilarity float64         `json:"mean_similarity"`
	Comparisons    int             `json:"comparisons"`
	StalledPeriods []StalledPeriod `json:"stalled_periods"`
}

// StallReport is the envelope returned by the semantic stall detector.
type StallReport struct {
	AnalysisPeriod string         `json:"analysis_period"`
	Threshold      float64        `json:"threshold"`
	Results        []MemberStalls `json:"results"`
}
