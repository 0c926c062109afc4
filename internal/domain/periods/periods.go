// Package periods maps the period tokens accepted by callers to windows.
package periods

import (
	"fmt"
	"time"
)

// DefaultLookbackDays is the window of the keyword and stall analyses.
const DefaultLookbackDays = 30

// MaxLookbackDays bounds the keyword and stall analyses.
const MaxLookbackDays = 365

// Window is a half-open time range ending at End.
type Window struct {
	Start time.Time
	End   time.Time
	Days  int
}

// Label renders the window the way reports show it, e.g. "Last 30 days".
func (w Window) Label() string { return fmt.Sprintf("Last %d days", w.Days) }

// Contains reports whether t lies within the window, bounds included.
func (w Window) Contains(t time.Time) bool { return !t.Before(w.Start) && !t.After(w.End) }

// Ending returns the window of days ending at now.
func Ending(now time.Time, days int) Window {
	return Window{Start: now.AddDate(0, 0, -days), End: now, Days: days}
}

var ( //nolint:gochecknoglobals // constant token tables
	ratingPeriods   = map[string]int{"30d": 30, "90d": 90, "180d": 180, "365d": 365}
	overviewPeriods = map[string]int{"7d": 7, "30d": 30, "90d": 90, "180d": 180}
	trendRanges     = map[string]int{"week": 7, "month": 30, "quarter": 90, "year": 365}
)

// Rating resolves a ratings period token; empty means 30d.
func Rating(token string, now time.Time) (Window, error) {
	return lookup(ratingPeriods, token, "30d", now)
}

// Overview resolves an overview period token; empty means 30d.
func Overview(token string, now time.Time) (Window, error) {
	return lookup(overviewPeriods, token, "30d", now)
}

// Trend resolves a trend time range (week, month, quarter, year); empty means month.
func Trend(token string, now time.Time) (Window, error) {
	return lookup(trendRanges, token, "month", now)
}

// Lookback validates a day count for the keyword and stall analyses;
// zero means the default.
func Lookback(days int, now time.Time) (Window, error) {
	if days == 0 {
		days = DefaultLookbackDays
	}
	if days < 1 || days > MaxLookbackDays {
		return Window{}, fmt.Errorf("lookback %d days outside 1..%d: %w", days, MaxLookbackDays, ErrInvalidPeriod)
	}
	return Ending(now, days), nil
}

func lookup(table map[string]int, token, def string, now time.Time) (Window, error) {
	if token == "" {
		token = def
	}
	days, ok := table[token]
	if !ok {
		return Window{}, fmt.Errorf("period %q: %w", token, ErrInvalidPeriod)
	}
	return Ending(now, days), nil
}
