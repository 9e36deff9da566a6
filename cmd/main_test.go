package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/okian/skillswap/internal/adapters/repository"
	"github.com/okian/skillswap/internal/config"
	"github.com/okian/skillswap/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(logger.WithLevel("error")); err != nil {
		panic(err)
	}
}

func TestConfigFromEnvironment(t *testing.T) {
	convey.Convey("Given environment overrides", t, func() {
		t.Setenv("SKILLSWAP_ADDR", ":8080")
		t.Setenv("SKILLSWAP_QUEUE_SIZE", "1000")
		t.Setenv("SKILLSWAP_WORKER_COUNT", "4")
		t.Setenv("SKILLSWAP_SCORING_MODE", "strict")

		convey.Convey("Then configuration is loaded from them", func() {
			cfg, err := config.Load(context.Background())
			convey.So(err, convey.ShouldBeNil)
			convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
			convey.So(cfg.QueueSize, convey.ShouldEqual, 1000)
			convey.So(cfg.WorkerCount, convey.ShouldEqual, 4)
			convey.So(cfg.ScoringMode, convey.ShouldEqual, "strict")
		})
	})
}

func TestNewService(t *testing.T) {
	convey.Convey("Given a default configuration", t, func() {
		cfg := config.New()
		repo := repository.NewMemoryStore()

		convey.Convey("When the service is built", func() {
			svc, err := newService(cfg, repo)

			convey.Convey("Then it reflects the configuration", func() {
				convey.So(err, convey.ShouldBeNil)
				stats := svc.GetStats(context.Background())
				convey.So(stats["workerCount"], convey.ShouldEqual, cfg.WorkerCount)
				convey.So(stats["scoringMode"], convey.ShouldEqual, "legacy")
			})
		})

		convey.Convey("When the scoring mode is unknown", func() {
			cfg.ScoringMode = "fuzzy"
			_, err := newService(cfg, repo)

			convey.Convey("Then building fails", func() {
				convey.So(err, convey.ShouldNotBeNil)
			})
		})
	})
}

func TestNewHandler(t *testing.T) {
	convey.Convey("Given the assembled handler", t, func() {
		ctx := context.Background()
		cfg := config.New()
		svc, err := newService(cfg, repository.NewMemoryStore())
		convey.So(err, convey.ShouldBeNil)
		convey.So(svc.Start(ctx), convey.ShouldBeNil)
		defer svc.Stop()
		h := newHandler(ctx, cfg, svc)

		get := func(path string) *httptest.ResponseRecorder {
			w := httptest.NewRecorder()
			h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, http.NoBody))
			return w
		}

		convey.Convey("Then docs, health and stats are served", func() {
			convey.So(get("/openapi.yaml").Code, convey.ShouldEqual, http.StatusOK)
			convey.So(get("/api-docs").Code, convey.ShouldEqual, http.StatusOK)
			convey.So(get("/healthz").Code, convey.ShouldEqual, http.StatusOK)
			convey.So(get("/stats").Body.String(), convey.ShouldContainSubstring, `"started":true`)
		})

		convey.Convey("Then a profile round trip works", func() {
			w := httptest.NewRecorder()
			h.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/profiles",
				strings.NewReader(`{"user_id":"u1","skills_teach":["Go"]}`)))
			convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
			convey.So(get("/profiles/u1").Code, convey.ShouldEqual, http.StatusOK)
		})
	})
}

func TestRun(t *testing.T) {
	convey.Convey("Given an unknown backend", t, func() {
		cfg := config.New()
		cfg.Backend = "cassandra"

		convey.Convey("Then run fails before serving", func() {
			convey.So(run(context.Background(), cfg), convey.ShouldNotBeNil)
		})
	})

	convey.Convey("Given a cancelled context", t, func() {
		cfg := config.New()
		cfg.Addr = "127.0.0.1:0"
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		convey.Convey("Then run shuts down cleanly", func() {
			convey.So(run(ctx, cfg), convey.ShouldBeNil)
		})
	})

	convey.Convey("Given a running metrics updater", t, func() {
		svc, err := newService(config.New(), repository.NewMemoryStore())
		convey.So(err, convey.ShouldBeNil)
		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		convey.Convey("Then it returns when the context ends", func() {
			convey.So(func() { startServiceMetricsUpdater(ctx, svc) }, convey.ShouldNotPanic)
		})
	})
}
