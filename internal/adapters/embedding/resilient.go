package embedding

import (
	"context"
	"errors"
	"net"
	"strings"
	"time"

	"github.com/openai/openai-go"

	"github.com/okian/pragati/internal/domain/similarity"
	"github.com/okian/pragati/pkg/logger"
	"github.com/okian/pragati/pkg/metrics"
)

const (
	defaultTimeout = 10 * time.Second
	defaultBackoff = 250 * time.Millisecond
)

// Resilient bounds each call with a timeout and retries once on a
// transient failure.
type Resilient struct {
	next    similarity.Embedder
	timeout time.Duration
	backoff time.Duration
	log     logger.Logger
}

// ResilientOption configures a Resilient embedder.
type ResilientOption func(*Resilient)

// WithTimeout sets the per-call timeout.
func WithTimeout(d time.Duration) ResilientOption {
	return func(r *Resilient) {
		if d > 0 {
			r.timeout = d
		}
	}
}

// WithBackoff sets the wait before the retry.
func WithBackoff(d time.Duration) ResilientOption {
	return func(r *Resilient) {
		if d >= 0 {
			r.backoff = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) ResilientOption {
	return func(r *Resilient) {
		if l != nil {
			r.log = l
		}
	}
}

// NewResilient wraps next.
func NewResilient(next similarity.Embedder, opts ...ResilientOption) *Resilient {
	r := &Resilient{next: next, timeout: defaultTimeout, backoff: defaultBackoff}
	for _, opt := range opts {
		opt(r)
	}
	if r.log == nil {
		r.log = logger.Get().Named("embedding")
	}
	return r
}

// Embed calls the wrapped embedder, retrying once if the first attempt
// failed transiently.
func (r *Resilient) Embed(ctx context.Context, text string) ([]float64, error) {
	vec, err := r.attempt(ctx, text)
	if err == nil || !IsTransient(err) || ctx.Err() != nil {
		return vec, err
	}

	r.log.Debug(ctx, "retrying embedding", logger.Error(err))
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(r.backoff):
	}
	return r.attempt(ctx, text)
}

func (r *Resilient) attempt(ctx context.Context, text string) ([]float64, error) {
	callCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	start := time.Now()
	vec, err := r.next.Embed(callCtx, text)
	latency := float64(time.Since(start).Milliseconds())
	switch {
	case err == nil:
		metrics.RecordEmbeddingRequest("ok", latency)
	case IsTransient(err):
		metrics.RecordEmbeddingRequest("transient", latency)
	default:
		metrics.RecordEmbeddingRequest("error", latency)
	}
	return vec, err
}

// IsTransient reports whether err is worth retrying: a timeout, a rate
// limit, or a server error.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 429 || apiErr.StatusCode >= 500
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "429") ||
		strings.Contains(s, "rate limit") ||
		strings.Contains(s, "too many requests") ||
		strings.Contains(s, "500") ||
		strings.Contains(s, "502") ||
		strings.Contains(s, "503") ||
		strings.Contains(s, "internal server error")
}
