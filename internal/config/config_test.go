package config_test

import (
	"errors"
	"runtime"
	"testing"

	"github.com/smartystreets/goconvey/convey"

	"github.com/okian/pragati/internal/config"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with defaults", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.StoreDriver, convey.ShouldEqual, "memory")
			convey.So(cfg.QueueSize, convey.ShouldEqual, 1024)
			convey.So(cfg.WorkerCount, convey.ShouldEqual, runtime.NumCPU())
			convey.So(cfg.StallThreshold, convey.ShouldEqual, 0.85)
			convey.So(cfg.KeywordMinOccurrences, convey.ShouldEqual, 2)
			convey.So(cfg.KeywordLookbackDays, convey.ShouldEqual, 30)
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given invalid settings", t, func() {
		cases := []struct {
			name   string
			mutate func(*config.Config)
		}{
			{"empty addr", func(c *config.Config) { c.Addr = "" }},
			{"unknown driver", func(c *config.Config) { c.StoreDriver = "postgres" }},
			{"empty sqlite path", func(c *config.Config) { c.StoreDriver = "sqlite"; c.SQLitePath = "" }},
			{"threshold too high", func(c *config.Config) { c.StallThreshold = 1.5 }},
			{"threshold too low", func(c *config.Config) { c.StallThreshold = -1.01 }},
			{"zero occurrences", func(c *config.Config) { c.KeywordMinOccurrences = 0 }},
			{"lookback past a year", func(c *config.Config) { c.KeywordLookbackDays = 366 }},
			{"zero queue", func(c *config.Config) { c.QueueSize = 0 }},
		}
		for _, tc := range cases {
			convey.Convey("Then "+tc.name+" is rejected", func() {
				cfg := config.New()
				tc.mutate(cfg)
				err := cfg.Validate()
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		}

		convey.Convey("Then boundary thresholds are accepted", func() {
			cfg := config.New()
			cfg.StallThreshold = -1
			convey.So(cfg.Validate(), convey.ShouldBeNil)
			cfg.StallThreshold = 1
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}
