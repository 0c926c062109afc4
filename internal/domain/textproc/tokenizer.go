// Package textproc turns update text into comparable word tokens.
package textproc

import (
	"context"
	"strings"
	"sync"

	"github.com/aaaton/golem/v4"
	"github.com/aaaton/golem/v4/dicts/en"

	"github.com/okian/pragati/pkg/logger"
)

// minTokenLen is the shortest token kept; shorter ones carry no signal.
const minTokenLen = 4

// Lemmatizer reduces a word to its dictionary form.
type Lemmatizer interface {
	Lemma(word string) string
}

// Tokenizer lowercases, strips, splits, filters and lemmatizes text.
// Safe for concurrent use.
type Tokenizer struct {
	lem       Lemmatizer
	stopWords map[string]struct{}
	degraded  bool
	log       logger.Logger
	useDict   bool
}

// Option configures a Tokenizer.
type Option func(*Tokenizer)

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(t *Tokenizer) {
		if l != nil {
			t.log = l
		}
	}
}

// WithLemmatizer replaces the English dictionary. A nil lemmatizer puts the
// tokenizer in degraded mode.
func WithLemmatizer(l Lemmatizer) Option {
	return func(t *Tokenizer) {
		t.lem = l
		t.useDict = false
	}
}

var (
	englishOnce sync.Once
	englishLem  *golem.Lemmatizer
	englishErr  error
	degradeOnce sync.Once
)

// loadEnglish loads the golem English dictionary once per process.
func loadEnglish() (*golem.Lemmatizer, error) {
	englishOnce.Do(func() {
		englishLem, englishErr = golem.New(en.New())
	})
	return englishLem, englishErr
}

// New creates a Tokenizer backed by the English dictionary. If the
// dictionary cannot be loaded it logs once and degrades to a short
// stop-word list without lemmatization.
func New(opts ...Option) *Tokenizer {
	t := &Tokenizer{useDict: true}
	for _, opt := range opts {
		opt(t)
	}
	if t.log == nil {
		t.log = logger.Get().Named("textproc")
	}

	if t.useDict {
		lem, err := loadEnglish()
		if err != nil {
			degradeOnce.Do(func() {
				t.log.Warn(context.Background(), "lemmatizer dictionary unavailable, using fallback stop-words",
					logger.Error(err))
			})
		} else {
			t.lem = lem
		}
	}

	words := englishStopWords
	if t.lem == nil {
		t.degraded = true
		words = fallbackStopWords
	}
	t.stopWords = make(map[string]struct{}, len(words))
	for _, w := range words {
		t.stopWords[w] = struct{}{}
	}
	return t
}

// Degraded reports whether the tokenizer runs without lemmatization.
func (t *Tokenizer) Degraded() bool { return t.degraded }

// Tokenize returns the significant word tokens of text in order.
func (t *Tokenizer) Tokenize(text string) []string {
	words := strings.Fields(strip(strings.ToLower(text)))
	out := make([]string, 0, len(words))
	for _, w := range words {
		if _, stop := t.stopWords[w]; stop {
			continue
		}
		if len(w) < minTokenLen {
			continue
		}
		if t.lem != nil {
			w = t.lem.Lemma(w)
		}
		out = append(out, w)
	}
	return out
}

// strip keeps ASCII letters and whitespace.
func strip(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
			b.WriteRune(r)
		case r == ' ', r == '\t', r == '\n', r == '\r', r == '\f', r == '\v':
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Counts returns how often each token occurs in text.
func (t *Tokenizer) Counts(text string) map[string]int {
	counts := make(map[string]int)
	for _, tok := range t.Tokenize(text) {
		counts[tok]++
	}
	return counts
}
