// Package keywords flags words a member keeps stressing across consecutive updates.
package keywords

import (
	"context"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/okian/pragati/internal/domain/model"
	"github.com/okian/pragati/internal/domain/textproc"
	"github.com/okian/pragati/pkg/logger"
)

// Defaults.
const (
	DefaultMinOccurrences = 2
	defaultConcurrency    = 8
)

// Tokenizer splits text into comparable tokens.
type Tokenizer interface {
	Tokenize(text string) []string
}

// Analyzer finds repeated keywords.
type Analyzer struct {
	tok            Tokenizer
	minOccurrences int
	concurrency    int
	log            logger.Logger
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithTokenizer sets the tokenizer.
func WithTokenizer(t Tokenizer) Option {
	return func(a *Analyzer) {
		if t != nil {
			a.tok = t
		}
	}
}

// WithMinOccurrences sets how often a token must occur in one update to be significant.
func WithMinOccurrences(n int) Option {
	return func(a *Analyzer) {
		if n > 0 {
			a.minOccurrences = n
		}
	}
}

// WithConcurrency bounds how many members are analyzed at once.
func WithConcurrency(n int) Option {
	return func(a *Analyzer) {
		if n > 0 {
			a.concurrency = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(a *Analyzer) {
		if l != nil {
			a.log = l
		}
	}
}

// New creates an Analyzer. Without a tokenizer it uses the English one.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{
		minOccurrences: DefaultMinOccurrences,
		concurrency:    defaultConcurrency,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.log == nil {
		a.log = logger.Get().Named("keywords")
	}
	if a.tok == nil {
		a.tok = textproc.New(textproc.WithLogger(a.log))
	}
	return a
}

// MinOccurrences returns the significance threshold in use.
func (a *Analyzer) MinOccurrences() int { return a.minOccurrences }

// Analyze returns the members with repeated keywords, most repeats first.
// Members with fewer than two updates or no repeats are left out.
func (a *Analyzer) Analyze(ctx context.Context, groups []model.MemberUpdates) ([]model.MemberKeywords, error) {
	results := make([]*model.MemberKeywords, len(groups))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.concurrency)
	for i, grp := range groups {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = a.member(grp)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("keyword analysis: %w", err)
	}

	out := []model.MemberKeywords{}
	for _, r := range results {
		if r != nil {
			out = append(out, *r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].TotalRepeats > out[j].TotalRepeats })
	a.log.Debug(ctx, "keyword analysis done",
		logger.Int("members", len(groups)), logger.Int("flagged", len(out)))
	return out, nil
}

func (a *Analyzer) member(grp model.MemberUpdates) *model.MemberKeywords {
	if len(grp.Updates) < 2 {
		return nil
	}
	updates := make([]model.Update, len(grp.Updates))
	copy(updates, grp.Updates)
	sort.SliceStable(updates, func(i, j int) bool { return updates[i].Timestamp.Before(updates[j].Timestamp) })

	counts := make(map[string]int)
	var prev map[string]struct{}
	for i, u := range updates {
		cur := a.significant(u.CombinedText())
		if i > 0 {
			for tok := range cur {
				if _, ok := prev[tok]; ok {
					counts[tok]++
				}
			}
		}
		prev = cur
	}
	if len(counts) == 0 {
		return nil
	}

	res := &model.MemberKeywords{
		Member:   grp.Member.Name,
		MemberID: grp.Member.ID,
		Keywords: make([]model.RepeatedKeywordSignal, 0, len(counts)),
	}
	for kw, n := range counts {
		res.TotalRepeats += n
		res.Keywords = append(res.Keywords, model.RepeatedKeywordSignal{
			Keyword: kw, RepeatCount: n, TotalUpdates: len(updates),
		})
	}
	sort.Slice(res.Keywords, func(i, j int) bool {
		if res.Keywords[i].RepeatCount != res.Keywords[j].RepeatCount {
			return res.Keywords[i].RepeatCount > res.Keywords[j].RepeatCount
		}
		return res.Keywords[i].Keyword < res.Keywords[j].Keyword
	})
	return res
}

// significant returns the tokens occurring at least minOccurrences times in text.
func (a *Analyzer) significant(text string) map[string]struct{} {
	counts := make(map[string]int)
	for _, tok := range a.tok.Tokenize(text) {
		counts[tok]++
	}
	set := make(map[string]struct{})
	for tok, n := range counts {
		if n >= a.minOccurrences {
			set[tok] = struct{}{}
		}
	}
	return set
}
