package analyzer

import (
	"context"
	"fmt"
	"strings"
	"time"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/okian/pragati/internal/domain/fields"
	"github.com/okian/pragati/internal/domain/model"
	"github.com/okian/pragati/pkg/logger"
	"github.com/okian/pragati/pkg/metrics"
)

const (
	defaultTimeout   = 30 * time.Second
	defaultMaxTokens = 1024
)

// Messager is the slice of the Anthropic client used here.
type Messager interface {
	New(ctx context.Context, params anthropic.MessageNewParams, opts ...option.RequestOption) (*anthropic.Message, error)
}

// AnthropicAnalyzer asks a Claude model to structure an update.
type AnthropicAnalyzer struct {
	messages   Messager
	model      anthropic.Model
	timeout    time.Duration
	normalizer *fields.Normalizer
	log        logger.Logger
}

// Option configures an AnthropicAnalyzer.
type Option func(*AnthropicAnalyzer)

// WithModel overrides the model.
func WithModel(m string) Option {
	return func(a *AnthropicAnalyzer) {
		if m != "" {
			a.model = anthropic.Model(m)
		}
	}
}

// WithTimeout bounds each request.
func WithTimeout(d time.Duration) Option {
	return func(a *AnthropicAnalyzer) {
		if d > 0 {
			a.timeout = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(a *AnthropicAnalyzer) {
		if l != nil {
			a.log = l
		}
	}
}

// NewAnthropicAnalyzer builds an analyzer with its own client.
func NewAnthropicAnalyzer(apiKey string, opts ...Option) *AnthropicAnalyzer {
	c := anthropic.NewClient(option.WithAPIKey(apiKey))
	return NewAnthropicAnalyzerWithMessager(&c.Messages, opts...)
}

// NewAnthropicAnalyzerWithMessager builds an analyzer over m.
func NewAnthropicAnalyzerWithMessager(m Messager, opts ...Option) *AnthropicAnalyzer {
	a := &AnthropicAnalyzer{
		messages: m,
		model:    anthropic.ModelClaudeSonnet4_20250514,
		timeout:  defaultTimeout,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.log == nil {
		a.log = logger.Get().Named("analyzer")
	}
	a.normalizer = fields.New(fields.WithLogger(a.log))
	return a
}

// Analyze sends text to the model and parses its reply.
func (a *AnthropicAnalyzer) Analyze(ctx context.Context, text string) (model.Analysis, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	start := time.Now()
	resp, err := a.messages.New(ctx, anthropic.MessageNewParams{
		Model:       a.model,
		MaxTokens:   defaultMaxTokens,
		System:      []anthropic.TextBlockParam{{Text: systemPrompt}},
		Messages:    []anthropic.MessageParam{anthropic.NewUserMessage(anthropic.NewTextBlock(Prompt(text)))},
		Temperature: anthropic.Float(0),
	})
	latency := float64(time.Since(start).Milliseconds())
	if err != nil {
		metrics.RecordAnalyzerRequest("error", latency)
		a.log.Warn(ctx, "analyzer request failed", logger.Error(err))
		return model.Analysis{}, fmt.Errorf("%w: %w", ErrAnalyzerUnavailable, err)
	}

	var sb strings.Builder
	for _, b := range resp.Content {
		if b.Type == "text" {
			sb.WriteString(b.Text)
		}
	}
	out, err := Parse(ctx, a.normalizer, sb.String())
	if err != nil {
		metrics.RecordAnalyzerRequest("invalid", latency)
		a.log.Warn(ctx, "analyzer reply not usable", logger.Error(err), logger.Int("reply_len", sb.Len()))
		return model.Analysis{}, err
	}
	metrics.RecordAnalyzerRequest("ok", latency)
	return out, nil
}
