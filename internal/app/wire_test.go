package service_test

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/pragati/internal/adapters/repository"
	service "github.com/okian/pragati/internal/app"
	"github.com/okian/pragati/internal/config"
	"github.com/okian/pragati/internal/domain/model"
	"github.com/okian/pragati/internal/domain/types"
	"github.com/okian/pragati/pkg/logger"
)

// saveTexts stores one update per text for member, two days apart, with the
// matching score.
func saveTexts(ctx context.Context, st repository.Store, member string, texts []string, scores []float64) {
	m, _, err := st.EnsureMember(ctx, member, "Developer", "Development")
	So(err, ShouldBeNil)
	for i, text := range texts {
		_, err := st.SaveUpdate(ctx, model.UpdateRecord{
			MemberID:          m.ID,
			Timestamp:         now.AddDate(0, 0, -10+2*i),
			Text:              text,
			ProductivityScore: model.Float(scores[i]),
		})
		So(err, ShouldBeNil)
	}
}

func TestNewFromConfig(t *testing.T) {
	Convey("Given a default config", t, func() {
		ctx := context.Background()
		cfg := config.New()
		cfg.WorkerCount = 2

		Convey("It builds an offline service that accepts submissions", func() {
			svc, cleanup, err := service.NewFromConfig(ctx, cfg, logger.Get())
			So(err, ShouldBeNil)
			defer cleanup()
			So(svc.Start(ctx), ShouldBeNil)
			defer svc.Stop()

			resp, err := svc.Submit(ctx, types.SubmitRequest{TeamMember: "Sarah Chen - Developer", Text: "Finished the payments API today"})
			So(err, ShouldBeNil)
			So(resp.Status, ShouldEqual, "accepted")
			So(eventually(func() bool { return svc.GetStats(ctx).Processed == 1 }), ShouldBeTrue)
		})

		Convey("A sqlite driver opens the database file", func() {
			cfg.StoreDriver = "sqlite"
			cfg.SQLitePath = filepath.Join(t.TempDir(), "pragati.db")
			svc, cleanup, err := service.NewFromConfig(ctx, cfg, nil)
			So(err, ShouldBeNil)
			defer cleanup()
			defer svc.Stop()

			seed(ctx, svc.Store())
			members, err := svc.Store().ListMembers(ctx)
			So(err, ShouldBeNil)
			So(members, ShouldHaveLength, 3)
		})

		Convey("An unknown driver fails", func() {
			cfg.StoreDriver = "postgres"
			_, cleanup, err := service.NewFromConfig(ctx, cfg, nil)
			So(err, ShouldNotBeNil)
			cleanup()
		})

		Convey("A reachable Redis caches embeddings", func() {
			mr := miniredis.RunT(t)
			cfg.RedisAddr = mr.Addr()
			svc, cleanup, err := service.NewFromConfig(ctx, cfg, nil, service.WithClock(clock))
			So(err, ShouldBeNil)
			defer cleanup()
			defer svc.Stop()

			seed(ctx, svc.Store())
			_, err = svc.Stalls(ctx, 30, nil)
			So(err, ShouldBeNil)

			cached := 0
			for _, k := range mr.Keys() {
				if strings.HasPrefix(k, "pragati:embedding:") {
					cached++
				}
			}
			So(cached, ShouldBeGreaterThan, 0)
		})

		Convey("A restarted service sharing Redis does not reuse vectors of recycled ids", func() {
			mr := miniredis.RunT(t)
			cfg.RedisAddr = mr.Addr()
			scores := []float64{0.8, 0.7}

			first, cleanup1, err := service.NewFromConfig(ctx, cfg, nil, service.WithClock(clock))
			So(err, ShouldBeNil)
			defer cleanup1()
			defer first.Stop()
			same := "Migrated the billing database and reviewed deployment pipelines"
			saveTexts(ctx, first.Store(), "Ana Lima - Developer", []string{same, same}, scores)
			rep, err := first.Stalls(ctx, 30, nil)
			So(err, ShouldBeNil)
			So(rep.Results, ShouldHaveLength, 1)

			second, cleanup2, err := service.NewFromConfig(ctx, cfg, nil, service.WithClock(clock))
			So(err, ShouldBeNil)
			defer cleanup2()
			defer second.Stop()
			saveTexts(ctx, second.Store(), "Ana Lima - Developer", []string{
				"Interviewed customers about onboarding friction",
				"Drafted quarterly hiring plans with recruiters",
			}, scores)
			rep, err = second.Stalls(ctx, 30, nil)
			So(err, ShouldBeNil)
			So(rep.Results, ShouldBeEmpty)

			for _, k := range mr.Keys() {
				So(strings.HasPrefix(k, "pragati:embedding:lexical:"), ShouldBeTrue)
			}
			So(len(mr.Keys()), ShouldEqual, 3)
		})

		Convey("An unreachable Redis falls back to the in-process cache", func() {
			cfg.RedisAddr = "127.0.0.1:1"
			svc, cleanup, err := service.NewFromConfig(ctx, cfg, nil, service.WithClock(clock))
			So(err, ShouldBeNil)
			defer cleanup()
			defer svc.Stop()

			seed(ctx, svc.Store())
			_, err = svc.Stalls(ctx, 30, nil)
			So(err, ShouldBeNil)
		})
	})
}
