// Package fields decodes the loosely typed structured fields of an update
// into string lists. Decoding never fails: anything unusable becomes an
// empty list, with a warning and a metric.
package fields

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/okian/pragati/internal/domain/model"
	"github.com/okian/pragati/pkg/logger"
	"github.com/okian/pragati/pkg/metrics"
)

// Failure reasons reported to metrics.
const (
	reasonMalformed = "malformed_json"
	reasonNotArray  = "not_array"
	reasonWrongType = "wrong_type"
)

// maxLoggedValue bounds how much of a bad value ends up in the log.
const maxLoggedValue = 120

// Normalizer resolves raw field values.
type Normalizer struct {
	log logger.Logger
}

// Option configures a Normalizer.
type Option func(*Normalizer)

// WithLogger sets the logger used for decode warnings.
func WithLogger(l logger.Logger) Option {
	return func(n *Normalizer) {
		if l != nil {
			n.log = l
		}
	}
}

// New creates a Normalizer.
func New(opts ...Option) *Normalizer {
	n := &Normalizer{}
	for _, opt := range opts {
		opt(n)
	}
	if n.log == nil {
		n.log = logger.Get().Named("fields")
	}
	return n
}

var (
	defaultOnce sync.Once
	defaultNorm *Normalizer
)

// Default returns a process-wide Normalizer.
func Default() *Normalizer {
	defaultOnce.Do(func() { defaultNorm = New() })
	return defaultNorm
}

// Normalize decodes v with the default Normalizer.
func Normalize(ctx context.Context, v any) []string { return Default().Normalize(ctx, v) }

// Resolve normalizes every structured field of rec with the default Normalizer.
func Resolve(ctx context.Context, rec model.UpdateRecord) model.Update {
	return Default().Resolve(ctx, rec)
}

// Normalize turns v into a list of strings. Lists pass through unchanged,
// serialized JSON arrays are decoded, nil becomes an empty list. It is
// idempotent: normalizing its own output returns that output.
func (n *Normalizer) Normalize(ctx context.Context, v any) []string {
	switch t := v.(type) {
	case nil:
		return []string{}
	case []string:
		if t == nil {
			return []string{}
		}
		return t
	case []any:
		return fromAny(t)
	case model.RawField:
		return n.resolveField(ctx, t)
	case *model.RawField:
		if t == nil {
			return []string{}
		}
		return n.resolveField(ctx, *t)
	case json.RawMessage:
		return n.decode(ctx, string(t))
	case []byte:
		return n.decode(ctx, string(t))
	case string:
		return n.decode(ctx, t)
	default:
		n.fail(ctx, reasonWrongType, fmt.Sprintf("%T", v), nil)
		return []string{}
	}
}

// Resolve applies Normalize to all five structured fields of rec.
func (n *Normalizer) Resolve(ctx context.Context, rec model.UpdateRecord) model.Update {
	return model.Update{
		ID:                rec.ID,
		MemberID:          rec.MemberID,
		Timestamp:         rec.Timestamp,
		Text:              rec.Text,
		CompletedTasks:    n.resolveField(ctx, rec.CompletedTasks),
		ProjectProgress:   n.resolveField(ctx, rec.ProjectProgress),
		GoalsStatus:       n.resolveField(ctx, rec.GoalsStatus),
		Blockers:          n.resolveField(ctx, rec.Blockers),
		NextWeekPlans:     n.resolveField(ctx, rec.NextWeekPlans),
		ProductivityScore: rec.ProductivityScore,
	}
}

// ResolveAll resolves a batch of records.
func (n *Normalizer) ResolveAll(ctx context.Context, recs []model.UpdateRecord) []model.Update {
	out := make([]model.Update, len(recs))
	for i, rec := range recs {
		out[i] = n.Resolve(ctx, rec)
	}
	return out
}

func (n *Normalizer) resolveField(ctx context.Context, f model.RawField) []string {
	switch f.Kind {
	case model.FieldList:
		if f.Items == nil {
			return []string{}
		}
		return f.Items
	case model.FieldRaw:
		return n.decode(ctx, f.Raw)
	default:
		return []string{}
	}
}

func (n *Normalizer) decode(ctx context.Context, s string) []string {
	// blank text is how absent values come back from some stores
	if strings.TrimSpace(s) == "" {
		return []string{}
	}
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		n.fail(ctx, reasonMalformed, s, err)
		return []string{}
	}
	arr, ok := v.([]any)
	if !ok {
		n.fail(ctx, reasonNotArray, s, nil)
		return []string{}
	}
	return fromAny(arr)
}

func (n *Normalizer) fail(ctx context.Context, reason, value string, err error) {
	metrics.RecordNormalizeFailure(reason)
	if len(value) > maxLoggedValue {
		value = value[:maxLoggedValue]
	}
	fields := []logger.Field{logger.String("reason", reason), logger.String("value", value)}
	if err != nil {
		fields = append(fields, logger.Error(err))
	}
	n.log.Warn(ctx, "structured field could not be decoded", fields...)
}

// fromAny keeps strings verbatim, stringifies scalars and drops nulls.
func fromAny(items []any) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		switch t := item.(type) {
		case nil:
		case string:
			out = append(out, t)
		case float64:
			out = append(out, strconv.FormatFloat(t, 'f', -1, 64))
		case bool:
			out = append(out, strconv.FormatBool(t))
		default:
			b, err := json.Marshal(t)
			if err != nil {
				out = append(out, fmt.Sprint(t))
				continue
			}
			out = append(out, string(b))
		}
	}
	return out
}

// Encode serializes a list for storage in a text column.
func Encode(items []string) string {
	if items == nil {
		items = []string{}
	}
	b, err := json.Marshal(items)
	if err != nil {
		return "[]"
	}
	return string(b)
}
