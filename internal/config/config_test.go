package config_test

import (
	"errors"
	"runtime"
	"testing"
	"time"

	"github.com/okian/skillswap/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.Backend, convey.ShouldEqual, config.BackendMemory)
			convey.So(cfg.ScoringMode, convey.ShouldEqual, "legacy")
			convey.So(cfg.BuildConcurrency, convey.ShouldEqual, runtime.NumCPU())
			convey.So(cfg.QueueSize, convey.ShouldEqual, 1024)
			convey.So(cfg.MaxMatchesLimit, convey.ShouldEqual, 100)
			convey.So(cfg.ShutdownTimeout(), convey.ShouldEqual, 10*time.Second)
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given invalid configurations", t, func() {
		cases := map[string]func(*config.Config){
			"empty addr":            func(c *config.Config) { c.Addr = "" },
			"unknown backend":       func(c *config.Config) { c.Backend = "sqlite" },
			"postgres without url":  func(c *config.Config) { c.Backend = config.BackendPostgres },
			"redis without address": func(c *config.Config) { c.Backend = config.BackendRedis; c.RedisAddr = "" },
			"json without path":     func(c *config.Config) { c.Backend = config.BackendJSON; c.JSONPath = "" },
			"unknown scoring mode":  func(c *config.Config) { c.ScoringMode = "fuzzy" },
			"zero workers":          func(c *config.Config) { c.WorkerCount = 0 },
			"negative rate":         func(c *config.Config) { c.RegenerateRatePerSec = -1 },
		}
		for name, mutate := range cases {
			convey.Convey("When "+name, func() {
				cfg := config.New()
				mutate(cfg)

				convey.Convey("Then validation fails with ErrInvalidConfig", func() {
					convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
				})
			})
		}

		convey.Convey("When postgres has a url", func() {
			cfg := config.New()
			cfg.Backend = config.BackendPostgres
			cfg.DatabaseURL = "postgres://localhost/skillswap"

			convey.Convey("Then it validates", func() {
				convey.So(cfg.Validate(), convey.ShouldBeNil)
			})
		})
	})
}
