package similarity

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/okian/pragati/internal/domain/model"
	"github.com/okian/pragati/pkg/logger"
	"github.com/okian/pragati/pkg/metrics"
)

// DefaultThreshold is the similarity at or above which two updates count as near duplicates.
const DefaultThreshold = 0.85

const defaultConcurrency = 8

// Embedder turns text into a vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float64, error)
}

// Cache stores vectors by content key. A key is derived from the text that
// was embedded, so entries stay valid across restarts and id reuse.
type Cache interface {
	Get(ctx context.Context, key string) ([]float64, bool, error)
	Put(ctx context.Context, key string, vec []float64) error
}

// CacheKey returns the cache key for text.
func CacheKey(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// Detector finds stalled periods.
type Detector struct {
	embedder    Embedder
	cache       Cache
	concurrency int
	log         logger.Logger
}

// Option configures a Detector.
type Option func(*Detector)

// WithCache sets the vector cache.
func WithCache(c Cache) Option {
	return func(d *Detector) { d.cache = c }
}

// WithConcurrency bounds how many members are analyzed at once.
func WithConcurrency(n int) Option {
	return func(d *Detector) {
		if n > 0 {
			d.concurrency = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(d *Detector) {
		if l != nil {
			d.log = l
		}
	}
}

// NewDetector creates a Detector using embedder for vectors.
func NewDetector(embedder Embedder, opts ...Option) *Detector {
	d := &Detector{embedder: embedder, concurrency: defaultConcurrency}
	for _, opt := range opts {
		opt(d)
	}
	if d.log == nil {
		d.log = logger.Get().Named("similarity")
	}
	return d
}

// Detect compares each member's consecutive updates and returns the members
// with at least one stalled period, highest mean similarity first. An update
// whose embedding fails is dropped from its member's chain.
func (d *Detector) Detect(ctx context.Context, groups []model.MemberUpdates, threshold float64) ([]model.MemberStalls, error) {
	results := make([]*model.MemberStalls, len(groups))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.concurrency)
	for i, grp := range groups {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = d.member(gctx, grp, threshold)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("stall detection: %w", err)
	}

	out := []model.MemberStalls{}
	for _, r := range results {
		if r != nil {
			out = append(out, *r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].MeanSimilarity > out[j].MeanSimilarity })
	return out, nil
}

type embedded struct {
	update model.Update
	vec    []float64
}

func (d *Detector) member(ctx context.Context, grp model.MemberUpdates, threshold float64) *model.MemberStalls {
	if len(grp.Updates) < 2 {
		return nil
	}
	updates := make([]model.Update, len(grp.Updates))
	copy(updates, grp.Updates)
	sort.SliceStable(updates, func(i, j int) bool { return updates[i].Timestamp.Before(updates[j].Timestamp) })

	chain := make([]embedded, 0, len(updates))
	for _, u := range updates {
		vec, err := d.vector(ctx, u)
		if err != nil {
			d.log.Warn(ctx, "skipping update without embedding",
				logger.String("member", grp.Member.Name),
				logger.Int64("update_id", u.ID),
				logger.Error(err))
			continue
		}
		chain = append(chain, embedded{update: u, vec: vec})
	}

	res := &model.MemberStalls{Member: grp.Member.Name, MemberID: grp.Member.ID}
	var total float64
	for i := 1; i < len(chain); i++ {
		prev, cur := chain[i-1], chain[i]
		sim, err := Cosine(prev.vec, cur.vec)
		if err != nil {
			d.log.Warn(ctx, "skipping pair",
				logger.String("member", grp.Member.Name),
				logger.Int64("first_update_id", prev.update.ID),
				logger.Int64("second_update_id", cur.update.ID),
				logger.Error(err))
			continue
		}
		res.Comparisons++
		total += sim
		if sim >= threshold && cur.update.Score() <= prev.update.Score() {
			res.StalledPeriods = append(res.StalledPeriods, model.StalledPeriod{
				SimilarityScore: model.SimilarityScore{
					FirstUpdateID:   prev.update.ID,
					SecondUpdateID:  cur.update.ID,
					Similarity:      sim,
					FirstTimestamp:  prev.update.Timestamp,
					SecondTimestamp: cur.update.Timestamp,
				},
				FirstScore:  prev.update.Score(),
				SecondScore: cur.update.Score(),
			})
		}
	}
	if len(res.StalledPeriods) == 0 {
		return nil
	}
	res.MeanSimilarity = total / float64(res.Comparisons)
	return res
}

// vector returns the cached embedding of u or computes and caches it.
func (d *Detector) vector(ctx context.Context, u model.Update) ([]float64, error) {
	text := u.CombinedText()
	key := CacheKey(text)
	if d.cache != nil {
		vec, ok, err := d.cache.Get(ctx, key)
		switch {
		case err != nil:
			d.log.Warn(ctx, "embedding cache read failed", logger.Int64("update_id", u.ID), logger.Error(err))
		case ok:
			metrics.RecordEmbeddingCache("hit")
			return vec, nil
		default:
			metrics.RecordEmbeddingCache("miss")
		}
	}

	vec, err := d.embedder.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	if d.cache != nil {
		if err := d.cache.Put(ctx, key, vec); err != nil {
			d.log.Warn(ctx, "embedding cache write failed", logger.Int64("update_id", u.ID), logger.Error(err))
		}
	}
	return vec, nil
}

// Report wraps detector results in their envelope.
func Report(label string, threshold float64, results []model.MemberStalls) model.StallReport {
	if results == nil {
		results = []model.MemberStalls{}
	}
	return model.StallReport{AnalysisPeriod: label, Threshold: threshold, Results: results}
}
