package similarity_test

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/okian/pragati/internal/domain/model"
	"github.com/okian/pragati/internal/domain/similarity"
	. "github.com/smartystreets/goconvey/convey"
)

func TestCosine(t *testing.T) {
	Convey("Given vectors", t, func() {
		a := []float64{0.3, -1.2, 4.5, 0.01}
		b := []float64{-2.1, 0.4, 1.1, 3.3}

		Convey("Then a vector is fully similar to itself", func() {
			sim, err := similarity.Cosine(a, a)
			So(err, ShouldBeNil)
			So(sim, ShouldAlmostEqual, 1.0, 1e-12)
		})

		Convey("Then similarity is commutative and bounded", func() {
			ab, err := similarity.Cosine(a, b)
			So(err, ShouldBeNil)
			ba, err := similarity.Cosine(b, a)
			So(err, ShouldBeNil)
			So(ab, ShouldEqual, ba)
			So(math.Abs(ab), ShouldBeLessThanOrEqualTo, 1.0)
		})

		Convey("Then opposite vectors score -1", func() {
			sim, err := similarity.Cosine([]float64{1, 2}, []float64{-1, -2})
			So(err, ShouldBeNil)
			So(sim, ShouldAlmostEqual, -1.0, 1e-12)
		})

		Convey("Then a zero vector scores 0", func() {
			sim, err := similarity.Cosine([]float64{0, 0}, []float64{1, 1})
			So(err, ShouldBeNil)
			So(sim, ShouldEqual, 0.0)
		})

		Convey("Then mismatched lengths are an error", func() {
			_, err := similarity.Cosine([]float64{1}, []float64{1, 2})
			So(errors.Is(err, similarity.ErrDimensionMismatch), ShouldBeTrue)
		})
	})
}

// textEmbedder maps each text to a fixed vector.
type textEmbedder struct {
	mu      sync.Mutex
	vectors map[string][]float64
	fail    map[string]bool
	calls   int
}

func (e *textEmbedder) Embed(_ context.Context, text string) ([]float64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls++
	if e.fail[text] {
		return nil, errors.New("embedding service unavailable")
	}
	if v, ok := e.vectors[text]; ok {
		return v, nil
	}
	return []float64{1, 0, 0}, nil
}

type mapCache struct {
	mu   sync.Mutex
	data map[string][]float64
}

func (c *mapCache) Get(_ context.Context, key string) ([]float64, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	return v, ok, nil
}

func (c *mapCache) Put(_ context.Context, key string, v []float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = v
	return nil
}

func upd(id int64, day int, text string, score float64) model.Update {
	return model.Update{
		ID:                id,
		Timestamp:         time.Date(2024, 4, day, 9, 0, 0, 0, time.UTC),
		Text:              text,
		ProductivityScore: model.Float(score),
	}
}

func member(id int64, name string, updates ...model.Update) model.MemberUpdates {
	return model.MemberUpdates{Member: model.Member{ID: id, Name: name}, Updates: updates}
}

func TestDetect(t *testing.T) {
	Convey("Given a detector with a deterministic embedder", t, func() {
		ctx := context.Background()
		emb := &textEmbedder{
			vectors: map[string][]float64{
				"different": {0, 1, 0},
				"close":     {0.95, 0.3, 0},
			},
			fail: map[string]bool{"broken": true},
		}
		d := similarity.NewDetector(emb, similarity.WithConcurrency(2))

		Convey("When identical updates lose productivity", func() {
			res, err := d.Detect(ctx, []model.MemberUpdates{
				member(1, "Ana - Developer", upd(1, 1, "same text", 0.8), upd(2, 8, "same text", 0.7)),
			}, similarity.DefaultThreshold)
			So(err, ShouldBeNil)

			Convey("Then exactly one stalled period is reported", func() {
				So(len(res), ShouldEqual, 1)
				So(len(res[0].StalledPeriods), ShouldEqual, 1)
				p := res[0].StalledPeriods[0]
				So(p.FirstUpdateID, ShouldEqual, 1)
				So(p.SecondUpdateID, ShouldEqual, 2)
				So(p.Similarity, ShouldAlmostEqual, 1.0, 1e-9)
				So(p.FirstScore, ShouldEqual, 0.8)
				So(p.SecondScore, ShouldEqual, 0.7)
			})
		})

		Convey("When identical updates gain productivity", func() {
			res, err := d.Detect(ctx, []model.MemberUpdates{
				member(1, "Ana - Developer", upd(1, 1, "same text", 0.8), upd(2, 8, "same text", 0.9)),
			}, similarity.DefaultThreshold)
			So(err, ShouldBeNil)
			So(res, ShouldBeEmpty)
		})

		Convey("When updates are out of order", func() {
			res, err := d.Detect(ctx, []model.MemberUpdates{
				member(1, "Ana - Developer", upd(2, 8, "same text", 0.5), upd(1, 1, "same text", 0.5)),
			}, similarity.DefaultThreshold)
			So(err, ShouldBeNil)

			Convey("Then pairs follow time order and equal scores count as stalled", func() {
				So(res[0].StalledPeriods[0].FirstUpdateID, ShouldEqual, 1)
			})
		})

		Convey("When an embedding fails", func() {
			res, err := d.Detect(ctx, []model.MemberUpdates{
				member(1, "Ana - Developer",
					upd(1, 1, "same text", 0.6), upd(2, 2, "broken", 0.9), upd(3, 3, "same text", 0.6)),
			}, similarity.DefaultThreshold)
			So(err, ShouldBeNil)

			Convey("Then the update is skipped and its neighbours are compared", func() {
				So(len(res), ShouldEqual, 1)
				So(res[0].Comparisons, ShouldEqual, 1)
				So(res[0].StalledPeriods[0].FirstUpdateID, ShouldEqual, 1)
				So(res[0].StalledPeriods[0].SecondUpdateID, ShouldEqual, 3)
			})
		})

		Convey("When several members stall", func() {
			res, err := d.Detect(ctx, []model.MemberUpdates{
				member(1, "Mixed - Dev", upd(1, 1, "same text", 0.5), upd(2, 2, "same text", 0.5), upd(3, 3, "different", 0.5)),
				member(2, "Stuck - Dev", upd(4, 1, "same text", 0.5), upd(5, 2, "same text", 0.4)),
				member(3, "Moving - Dev", upd(6, 1, "same text", 0.5), upd(7, 2, "different", 0.4)),
				member(4, "Solo - Dev", upd(8, 1, "same text", 0.1)),
			}, similarity.DefaultThreshold)
			So(err, ShouldBeNil)

			Convey("Then only stalled members appear, by mean similarity", func() {
				So(len(res), ShouldEqual, 2)
				So(res[0].Member, ShouldEqual, "Stuck - Dev")
				So(res[1].Member, ShouldEqual, "Mixed - Dev")
				So(res[1].MeanSimilarity, ShouldAlmostEqual, 0.5, 1e-9)
			})
		})

		Convey("When the threshold is lowered", func() {
			res, err := d.Detect(ctx, []model.MemberUpdates{
				member(1, "Ana - Developer", upd(1, 1, "same text", 0.5), upd(2, 2, "close", 0.5)),
			}, 0.9)
			So(err, ShouldBeNil)
			So(len(res), ShouldEqual, 1)
		})
	})

	Convey("Given a detector with a cache", t, func() {
		emb := &textEmbedder{}
		cache := &mapCache{data: map[string][]float64{}}
		d := similarity.NewDetector(emb, similarity.WithCache(cache))
		groups := []model.MemberUpdates{
			member(1, "Ana - Developer", upd(1, 1, "a", 0.5), upd(2, 2, "b", 0.5)),
		}

		Convey("Then each update is embedded once", func() {
			_, err := d.Detect(context.Background(), groups, similarity.DefaultThreshold)
			So(err, ShouldBeNil)
			_, err = d.Detect(context.Background(), groups, similarity.DefaultThreshold)
			So(err, ShouldBeNil)
			So(emb.calls, ShouldEqual, 2)
			So(len(cache.data), ShouldEqual, 2)
			_, ok := cache.data[similarity.CacheKey(groups[0].Updates[0].CombinedText())]
			So(ok, ShouldBeTrue)
		})

		Convey("Then a reused update id with new text is embedded again", func() {
			_, err := d.Detect(context.Background(), groups, similarity.DefaultThreshold)
			So(err, ShouldBeNil)
			reused := []model.MemberUpdates{
				member(1, "Ana - Developer", upd(1, 1, "c", 0.5), upd(2, 2, "d", 0.5)),
			}
			_, err = d.Detect(context.Background(), reused, similarity.DefaultThreshold)
			So(err, ShouldBeNil)
			So(emb.calls, ShouldEqual, 4)
			So(len(cache.data), ShouldEqual, 4)
		})
	})

	Convey("Cache keys depend only on text", t, func() {
		So(similarity.CacheKey("same"), ShouldEqual, similarity.CacheKey("same"))
		So(similarity.CacheKey("same"), ShouldNotEqual, similarity.CacheKey("other"))
	})

	Convey("Given a cancelled context", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		d := similarity.NewDetector(&textEmbedder{})
		_, err := d.Detect(ctx, []model.MemberUpdates{member(1, "A - B", upd(1, 1, "a", 0), upd(2, 2, "a", 0))}, 0.85)
		So(err, ShouldNotBeNil)
	})
}

func TestReport(t *testing.T) {
	Convey("Given no results", t, func() {
		r := similarity.Report("Last 30 days", 0.85, nil)
		So(r.Results, ShouldNotBeNil)
		So(r.AnalysisPeriod, ShouldEqual, "Last 30 days")
		So(r.Threshold, ShouldEqual, 0.85)
	})
}
