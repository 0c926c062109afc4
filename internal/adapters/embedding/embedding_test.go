package embedding

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/pragati/internal/domain/similarity"
)

type stubAPI struct {
	calls  int
	params openai.EmbeddingNewParams
	resp   *openai.CreateEmbeddingResponse
	err    error
}

func (s *stubAPI) New(_ context.Context, body openai.EmbeddingNewParams, _ ...option.RequestOption) (*openai.CreateEmbeddingResponse, error) {
	s.calls++
	s.params = body
	return s.resp, s.err
}

// scriptedEmbedder returns errs in order, then a vector.
type scriptedEmbedder struct {
	calls atomic.Int32
	errs  []error
	delay time.Duration
}

func (s *scriptedEmbedder) Embed(ctx context.Context, _ string) ([]float64, error) {
	n := int(s.calls.Add(1)) - 1
	if s.delay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(s.delay):
		}
	}
	if n < len(s.errs) && s.errs[n] != nil {
		return nil, s.errs[n]
	}
	return []float64{1, 0}, nil
}

func TestOpenAIEmbedder(t *testing.T) {
	Convey("Given an OpenAI embedder over a stub API", t, func() {
		api := &stubAPI{resp: &openai.CreateEmbeddingResponse{
			Data: []openai.Embedding{{Embedding: []float64{0.1, 0.2, 0.3}}},
		}}
		e := NewOpenAIEmbedderWithAPI(api, "")

		Convey("It returns the first vector and sends the default model", func() {
			vec, err := e.Embed(context.Background(), "  finished the api  ")
			So(err, ShouldBeNil)
			So(vec, ShouldResemble, []float64{0.1, 0.2, 0.3})
			So(string(api.params.Model), ShouldEqual, DefaultModel)
			So(api.params.Input.OfString.Value, ShouldEqual, "finished the api")
		})

		Convey("Blank text is rejected without a call", func() {
			_, err := e.Embed(context.Background(), "   ")
			So(errors.Is(err, ErrEmptyText), ShouldBeTrue)
			So(api.calls, ShouldEqual, 0)
		})

		Convey("API errors are wrapped", func() {
			api.err = errors.New("boom")
			_, err := e.Embed(context.Background(), "text")
			So(errors.Is(err, ErrEmbeddingFailed), ShouldBeTrue)
		})

		Convey("An empty response is an error", func() {
			api.resp = &openai.CreateEmbeddingResponse{}
			_, err := e.Embed(context.Background(), "text")
			So(errors.Is(err, ErrEmbeddingFailed), ShouldBeTrue)
		})
	})
}

func TestResilient(t *testing.T) {
	Convey("Given a resilient wrapper", t, func() {
		ctx := context.Background()

		Convey("A transient failure is retried once", func() {
			inner := &scriptedEmbedder{errs: []error{errors.New("status 429 too many requests")}}
			r := NewResilient(inner, WithBackoff(0))
			vec, err := r.Embed(ctx, "text")
			So(err, ShouldBeNil)
			So(vec, ShouldHaveLength, 2)
			So(inner.calls.Load(), ShouldEqual, 2)
		})

		Convey("Two transient failures give up after the retry", func() {
			inner := &scriptedEmbedder{errs: []error{errors.New("503"), errors.New("503")}}
			r := NewResilient(inner, WithBackoff(0))
			_, err := r.Embed(ctx, "text")
			So(err, ShouldNotBeNil)
			So(inner.calls.Load(), ShouldEqual, 2)
		})

		Convey("A permanent failure is not retried", func() {
			inner := &scriptedEmbedder{errs: []error{errors.New("invalid api key")}}
			r := NewResilient(inner, WithBackoff(0))
			_, err := r.Embed(ctx, "text")
			So(err, ShouldNotBeNil)
			So(inner.calls.Load(), ShouldEqual, 1)
		})

		Convey("A slow call times out and is retried", func() {
			inner := &scriptedEmbedder{delay: 200 * time.Millisecond}
			r := NewResilient(inner, WithTimeout(10*time.Millisecond), WithBackoff(0))
			_, err := r.Embed(ctx, "text")
			So(errors.Is(err, context.DeadlineExceeded), ShouldBeTrue)
			So(inner.calls.Load(), ShouldEqual, 2)
		})

		Convey("A cancelled caller is not retried", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			inner := &scriptedEmbedder{delay: time.Second}
			r := NewResilient(inner, WithBackoff(0))
			_, err := r.Embed(cctx, "text")
			So(err, ShouldNotBeNil)
			So(inner.calls.Load(), ShouldEqual, 1)
		})
	})
}

func TestIsTransient(t *testing.T) {
	Convey("Transient classification", t, func() {
		So(IsTransient(nil), ShouldBeFalse)
		So(IsTransient(context.DeadlineExceeded), ShouldBeTrue)
		So(IsTransient(&openai.Error{StatusCode: 429}), ShouldBeTrue)
		So(IsTransient(&openai.Error{StatusCode: 502}), ShouldBeTrue)
		So(IsTransient(&openai.Error{StatusCode: 401}), ShouldBeFalse)
		So(IsTransient(errors.New("Internal Server Error")), ShouldBeTrue)
		So(IsTransient(errors.New("bad request")), ShouldBeFalse)
	})
}

func TestMemoryCache(t *testing.T) {
	Convey("Given a memory cache", t, func() {
		c := NewMemoryCache()
		ctx := context.Background()

		_, ok, err := c.Get(ctx, "k1")
		So(err, ShouldBeNil)
		So(ok, ShouldBeFalse)

		So(c.Put(ctx, "k1", []float64{1, 2}), ShouldBeNil)
		vec, ok, err := c.Get(ctx, "k1")
		So(err, ShouldBeNil)
		So(ok, ShouldBeTrue)
		So(vec, ShouldResemble, []float64{1, 2})
		So(c.Len(), ShouldEqual, 1)
	})
}

func TestLexicalEmbedder(t *testing.T) {
	Convey("Given a lexical embedder", t, func() {
		e := NewLexicalEmbedder(nil, 64)
		ctx := context.Background()

		Convey("Identical text has similarity 1", func() {
			a, err := e.Embed(ctx, "Reviewed pull requests and fixed flaky integration tests")
			So(err, ShouldBeNil)
			b, err := e.Embed(ctx, "Reviewed pull requests and fixed flaky integration tests")
			So(err, ShouldBeNil)
			sim, err := similarity.Cosine(a, b)
			So(err, ShouldBeNil)
			So(sim, ShouldAlmostEqual, 1.0, 1e-9)
		})

		Convey("Every token lands inside the vector", func() {
			small := NewLexicalEmbedder(nil, 7)
			vec, err := small.Embed(ctx, "quarterly planning roadmap reviews onboarding migrations deployments customers interviews dashboards")
			So(err, ShouldBeNil)
			So(vec, ShouldHaveLength, 7)
			var norm float64
			for _, v := range vec {
				So(v, ShouldBeGreaterThanOrEqualTo, 0)
				norm += v * v
			}
			So(norm, ShouldAlmostEqual, 1.0, 1e-9)
		})

		Convey("Text without content words is rejected", func() {
			_, err := e.Embed(ctx, "a an the of")
			So(errors.Is(err, ErrEmptyText), ShouldBeTrue)
		})
	})
}

var (
	_ similarity.Embedder = (*OpenAIEmbedder)(nil)
	_ similarity.Embedder = (*Resilient)(nil)
	_ similarity.Embedder = (*LexicalEmbedder)(nil)
	_ similarity.Cache    = (*MemoryCache)(nil)
	_ similarity.Cache    = (*RedisCache)(nil)
)
