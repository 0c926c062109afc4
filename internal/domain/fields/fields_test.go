package fields_test

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/okian/pragati/internal/domain/fields"
	"github.com/okian/pragati/internal/domain/model"
	"github.com/okian/pragati/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

// warnRecorder counts warnings.
type warnRecorder struct {
	mu    sync.Mutex
	warns []string
}

func (r *warnRecorder) Info(context.Context, string, ...logger.Field)  {}
func (r *warnRecorder) Error(context.Context, string, ...logger.Field) {}
func (r *warnRecorder) Debug(context.Context, string, ...logger.Field) {}
func (r *warnRecorder) Fatal(context.Context, string, ...logger.Field) {}
func (r *warnRecorder) Warn(_ context.Context, msg string, _ ...logger.Field) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.warns = append(r.warns, msg)
}
func (r *warnRecorder) Named(string) logger.Logger        { return r }
func (r *warnRecorder) With(...logger.Field) logger.Logger { return r }

func (r *warnRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.warns)
}

func TestNormalize(t *testing.T) {
	Convey("Given a normalizer", t, func() {
		ctx := context.Background()
		rec := &warnRecorder{}
		n := fields.New(fields.WithLogger(rec))

		Convey("When the value is absent", func() {
			So(n.Normalize(ctx, nil), ShouldResemble, []string{})
			So(n.Normalize(ctx, model.EmptyField()), ShouldResemble, []string{})
			So(n.Normalize(ctx, ""), ShouldResemble, []string{})
			So(rec.count(), ShouldEqual, 0)
		})

		Convey("When the value is already a list", func() {
			in := []string{"a", "b"}
			So(n.Normalize(ctx, in), ShouldResemble, in)
			So(n.Normalize(ctx, model.ListField("x")), ShouldResemble, []string{"x"})
			So(n.Normalize(ctx, []string(nil)), ShouldResemble, []string{})
		})

		Convey("When the value is a generic list", func() {
			got := n.Normalize(ctx, []any{"task", 3.0, nil, true, 2.5})
			So(got, ShouldResemble, []string{"task", "3", "true", "2.5"})
		})

		Convey("When the value is serialized JSON", func() {
			So(n.Normalize(ctx, `["Auth System: 80% complete", "Search"]`), ShouldResemble,
				[]string{"Auth System: 80% complete", "Search"})
			So(n.Normalize(ctx, []byte(`["x"]`)), ShouldResemble, []string{"x"})
			So(n.Normalize(ctx, json.RawMessage(`[]`)), ShouldResemble, []string{})
			So(n.Normalize(ctx, model.RawText(`["y", null]`)), ShouldResemble, []string{"y"})
			So(rec.count(), ShouldEqual, 0)
		})

		Convey("When the value is unusable", func() {
			So(n.Normalize(ctx, `{"not": "a list"}`), ShouldResemble, []string{})
			So(n.Normalize(ctx, `["unterminated`), ShouldResemble, []string{})
			So(n.Normalize(ctx, 42), ShouldResemble, []string{})
			So(n.Normalize(ctx, model.RawText("plain text")), ShouldResemble, []string{})

			Convey("Then each failure is logged, not returned", func() {
				So(rec.count(), ShouldEqual, 4)
			})
		})
	})
}

func TestNormalizeIdempotent(t *testing.T) {
	Convey("Given arbitrary inputs", t, func() {
		ctx := context.Background()
		n := fields.New(fields.WithLogger(&warnRecorder{}))
		inputs := []any{
			nil, "", "null", "[]", `["a","b"]`, `[1, "two", null]`, `{"a":1}`, "garbage",
			[]string{"x"}, []any{"y", 1.0}, model.ListField("z"), model.RawText(`["w"]`),
			model.EmptyField(), 3.14, map[string]any{"k": "v"},
		}

		Convey("Then normalizing twice equals normalizing once", func() {
			for _, in := range inputs {
				once := n.Normalize(ctx, in)
				So(n.Normalize(ctx, once), ShouldResemble, once)
			}
		})
	})
}

func TestResolve(t *testing.T) {
	Convey("Given a stored record with mixed field forms", t, func() {
		n := fields.New(fields.WithLogger(&warnRecorder{}))
		rec := model.UpdateRecord{
			ID:                1,
			MemberID:          2,
			Text:              "weekly update",
			CompletedTasks:    model.RawText(`["one","two"]`),
			ProjectProgress:   model.ListField("Auth: 50%"),
			GoalsStatus:       model.RawText("{bad"),
			ProductivityScore: model.Float(0.6),
		}

		u := n.Resolve(context.Background(), rec)

		Convey("Then every field is a concrete list", func() {
			So(u.CompletedTasks, ShouldResemble, []string{"one", "two"})
			So(u.ProjectProgress, ShouldResemble, []string{"Auth: 50%"})
			So(u.GoalsStatus, ShouldNotBeNil)
			So(u.GoalsStatus, ShouldBeEmpty)
			So(u.Blockers, ShouldNotBeNil)
			So(u.NextWeekPlans, ShouldNotBeNil)
			So(u.Score(), ShouldEqual, 0.6)
			So(u.ID, ShouldEqual, 1)
			So(u.MemberID, ShouldEqual, 2)
		})

		Convey("Then ResolveAll keeps order", func() {
			all := n.ResolveAll(context.Background(), []model.UpdateRecord{rec, {ID: 9}})
			So(len(all), ShouldEqual, 2)
			So(all[1].ID, ShouldEqual, 9)
		})
	})
}

func TestEncode(t *testing.T) {
	Convey("Given a list to store", t, func() {
		So(fields.Encode(nil), ShouldEqual, "[]")
		So(fields.Encode([]string{"a"}), ShouldEqual, `["a"]`)

		Convey("Then the default normalizer reads it back", func() {
			So(fields.Normalize(context.Background(), fields.Encode([]string{"a", "b"})), ShouldResemble, []string{"a", "b"})
		})
	})
}
