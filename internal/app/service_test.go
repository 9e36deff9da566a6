package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	service "github.com/okian/skillswap/internal/app"
	"github.com/okian/skillswap/internal/domain/model"
	"github.com/okian/skillswap/internal/domain/scoring"
	"github.com/okian/skillswap/internal/domain/types"
	"github.com/okian/skillswap/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(logger.WithLevel("error")); err != nil {
		panic(err)
	}
}

func TestService_New(t *testing.T) {
	Convey("Given a new service with default options", t, func() {
		svc := service.New()

		Convey("Then it should have sensible defaults", func() {
			So(svc, ShouldNotBeNil)
			stats := svc.GetStats(context.Background())
			So(stats["scoringMode"], ShouldEqual, "legacy")
			So(stats["totalProfiles"], ShouldEqual, 0)
		})
	})

	Convey("Given a new service with custom options", t, func() {
		svc := service.New(
			service.WithWorkerCount(8),
			service.WithQueueSize(50),
			service.WithDedupeSize(25),
			service.WithScoringMode(scoring.ModeStrict),
			service.WithBuildConcurrency(2),
		)

		Convey("Then the options are reflected in stats", func() {
			stats := svc.GetStats(context.Background())
			So(stats["workerCount"], ShouldEqual, 8)
			So(stats["queueSize"], ShouldEqual, 50)
			So(stats["dedupeSize"], ShouldEqual, 25)
			So(stats["buildConcurrency"], ShouldEqual, 2)
			So(stats["scoringMode"], ShouldEqual, "strict")
		})
	})

	Convey("Given a conflicting alias table", t, func() {
		svc := service.New(service.WithAliases(map[string][]string{"golang": {"js"}}))

		Convey("Then Start reports the error", func() {
			So(svc.Start(context.Background()), ShouldNotBeNil)
		})
	})
}

func TestService_StartStop(t *testing.T) {
	Convey("Given a new service", t, func() {
		svc := service.New(service.WithWorkerCount(2))
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		Convey("When starting the service", func() {
			So(svc.Start(ctx), ShouldBeNil)
			So(svc.Start(ctx), ShouldBeNil)

			Convey("Then it should be marked as started", func() {
				stats := svc.GetStats(ctx)
				So(stats["started"], ShouldEqual, true)
				So(stats["queueLength"], ShouldEqual, 0)
			})

			Convey("And stopping marks it as stopped", func() {
				svc.Stop()
				svc.Stop()
				So(svc.GetStats(ctx)["started"], ShouldEqual, false)
			})
		})
	})
}

func TestService_Score(t *testing.T) {
	Convey("Given a service", t, func() {
		svc := service.New()

		Convey("When scoring two raw profiles", func() {
			res := svc.Score(
				types.ScoreInput{Teaches: []string{"Python"}, Wants: []string{"React"}, College: "IIT", Year: "3"},
				types.ScoreInput{Teaches: []string{"react.js"}, Wants: []string{"py"}, College: "iit", Year: "3"},
			)

			Convey("Then aliases are resolved and bonuses applied", func() {
				So(res.Score, ShouldEqual, 35)
				So(res.Tier, ShouldEqual, scoring.TierPotential)
				So(res.Reasons, ShouldResemble, []string{
					"You teach Python which they want to learn",
					"They teach react.js which you want to learn",
					"Same college",
					"Same year",
				})
			})
		})

		Convey("When extra aliases are configured", func() {
			svc := service.New(service.WithAliases(map[string][]string{"kubernetes": {"k8s"}}))
			res := svc.Score(
				types.ScoreInput{Teaches: []string{"k8s"}},
				types.ScoreInput{Wants: []string{"Kubernetes"}},
			)

			Convey("Then the alias matches its canonical", func() {
				So(res.Score, ShouldEqual, 10)
				So(res.OneWayForUser, ShouldResemble, []string{"k8s"})
			})
		})
	})
}

func TestService_Profiles(t *testing.T) {
	Convey("Given a service", t, func() {
		svc := service.New()
		ctx := context.Background()

		Convey("When upserting a profile without user id", func() {
			_, err := svc.UpsertProfile(ctx, model.Profile{Name: "x"})

			Convey("Then it is rejected", func() {
				So(err, ShouldEqual, service.ErrInvalidUserID)
			})
		})

		Convey("When upserting and reading back a profile", func() {
			saved, err := svc.UpsertProfile(ctx, model.Profile{UserID: " u1 ", Name: "Ann", SkillsTeach: []string{"Go"}})
			So(err, ShouldBeNil)
			got, err := svc.Profile(ctx, "u1")

			Convey("Then the stored profile is returned", func() {
				So(err, ShouldBeNil)
				So(got.ID, ShouldEqual, saved.ID)
				So(got.Name, ShouldEqual, "Ann")
			})
		})

		Convey("When reading an unknown profile", func() {
			_, err := svc.Profile(ctx, "nobody")

			Convey("Then ErrNotFound is returned", func() {
				So(errors.Is(err, service.ErrNotFound), ShouldBeTrue)
			})
		})
	})
}

func TestService_RequestRegeneration(t *testing.T) {
	Convey("Given a service that is not started", t, func() {
		svc := service.New()

		Convey("Then regeneration requests fail", func() {
			_, err := svc.RequestRegeneration(context.Background(), "u1")
			So(err, ShouldEqual, service.ErrNotStarted)
		})
	})

	Convey("Given a started service", t, func() {
		svc := service.New(service.WithWorkerCount(1))
		ctx := context.Background()
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		Convey("When the user is unknown", func() {
			_, err := svc.RequestRegeneration(ctx, "ghost")

			Convey("Then ErrNotFound is returned", func() {
				So(errors.Is(err, service.ErrNotFound), ShouldBeTrue)
			})
		})

		Convey("When the user id is blank", func() {
			_, err := svc.RequestRegeneration(ctx, "  ")

			Convey("Then ErrInvalidUserID is returned", func() {
				So(err, ShouldEqual, service.ErrInvalidUserID)
			})
		})
	})
}
