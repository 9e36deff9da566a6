package service_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	service "github.com/okian/skillswap/internal/app"
	"github.com/okian/skillswap/internal/adapters/repository"
	"github.com/okian/skillswap/internal/domain/model"
	"github.com/okian/skillswap/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

func seed(ctx context.Context, svc *service.Service) {
	profiles := []model.Profile{
		{UserID: "alice", Name: "Alice", College: "IIT", Year: "3", Branch: "CSE",
			SkillsTeach: []string{"Python"}, SkillsLearn: []string{"React"}},
		{UserID: "bob", Name: "Bob", College: "iit", Year: "3", Branch: "ECE",
			SkillsTeach: []string{"React", "JS"}, SkillsLearn: []string{"python"}},
		{UserID: "carol", Name: "Carol", SkillsTeach: []string{"Go"}, SkillsLearn: []string{"Rust"}},
		{UserID: "dave", Name: "Dave"},
		{UserID: "erin", Name: "Erin", SkillsTeach: []string{"reactjs"}, SkillsLearn: []string{"py"}},
	}
	for _, p := range profiles {
		if _, err := svc.UpsertProfile(ctx, p); err != nil {
			panic(err)
		}
	}
}

func waitFor(cond func() bool) bool {
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return false
}

func TestServiceIntegration(t *testing.T) {
	Convey("Given a seeded service", t, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		svc := service.New(service.WithWorkerCount(2), service.WithBuildConcurrency(4))
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()
		seed(ctx, svc)

		Convey("When generating matches for alice", func() {
			report, err := svc.GenerateMatches(ctx, "alice")
			So(err, ShouldBeNil)

			Convey("Then only candidates with skill overlap are kept, best first", func() {
				So(report.Scored, ShouldEqual, 4)
				So(report.Skipped, ShouldEqual, 0)
				So(len(report.Matches), ShouldEqual, 2)

				best := report.Matches[0]
				So(best.User1ID, ShouldEqual, "alice")
				So(best.User2ID, ShouldEqual, "bob")
				So(best.GeneratedBy, ShouldEqual, "alice")
				So(best.Score, ShouldEqual, 35)
				So(best.Tier, ShouldEqual, scoring.TierPotential)
				So(best.Status, ShouldEqual, model.StatusAccepted)
				So(best.OneWayForUser, ShouldResemble, []string{"Python"})
				So(best.OneWayFromUser, ShouldResemble, []string{"React"})

				So(report.Matches[1].User2ID, ShouldEqual, "erin")
				So(report.Matches[1].Score, ShouldEqual, 20)
			})

			Convey("And regenerating keeps record identity", func() {
				again, err := svc.GenerateMatches(ctx, "alice")
				So(err, ShouldBeNil)
				So(again.Matches[0].ID, ShouldEqual, report.Matches[0].ID)
				So(again.Matches[0].CreatedAt, ShouldEqual, report.Matches[0].CreatedAt)

				stored, err := svc.UserMatches(ctx, "alice", 0)
				So(err, ShouldBeNil)
				So(len(stored), ShouldEqual, 2)
			})

			Convey("And generation from the other side updates the same pair", func() {
				_, err := svc.GenerateMatches(ctx, "bob")
				So(err, ShouldBeNil)

				stored, err := svc.UserMatches(ctx, "alice", 0)
				So(err, ShouldBeNil)
				So(len(stored), ShouldEqual, 2)
				So(stored[0].GeneratedBy, ShouldEqual, "bob")
				So(stored[0].ID, ShouldEqual, report.Matches[0].ID)
			})

			Convey("And limits are applied to stored matches", func() {
				stored, err := svc.UserMatches(ctx, "alice", 1)
				So(err, ShouldBeNil)
				So(len(stored), ShouldEqual, 1)
				So(stored[0].User2ID, ShouldEqual, "bob")
			})

			Convey("And browse shows every other profile with stored scores", func() {
				entries, err := svc.Browse(ctx, "alice")
				So(err, ShouldBeNil)
				So(len(entries), ShouldEqual, 4)
				So(entries[0].Profile.UserID, ShouldEqual, "bob")
				So(entries[0].Matched, ShouldBeTrue)
				So(entries[1].Profile.UserID, ShouldEqual, "erin")
				So(entries[2].Profile.UserID, ShouldEqual, "carol")
				So(entries[2].Matched, ShouldBeFalse)
				So(entries[2].Score, ShouldEqual, 0)
				So(entries[2].Tier, ShouldEqual, scoring.TierPotential)
				So(entries[3].Profile.UserID, ShouldEqual, "dave")
				So(entries[0].Reasons, ShouldContain, "You teach Python which they want to learn")
			})

			Convey("And browse from the other side flips one-way reasons", func() {
				entries, err := svc.Browse(ctx, "bob")
				So(err, ShouldBeNil)
				So(entries[0].Profile.UserID, ShouldEqual, "alice")
				So(entries[0].Reasons, ShouldResemble, []string{
					"They teach Python which you want to learn",
					"You teach React which they want to learn",
					"Same college",
					"Same year",
				})
			})
		})

		Convey("When generating for a profile without skills", func() {
			report, err := svc.GenerateMatches(ctx, "dave")

			Convey("Then the report is empty", func() {
				So(err, ShouldBeNil)
				So(report.Matches, ShouldBeEmpty)
				So(report.Scored, ShouldEqual, 0)
			})
		})

		Convey("When scoring a stored pair", func() {
			res, err := svc.ScorePair(ctx, "bob", "alice")

			Convey("Then the result is from the first user's perspective", func() {
				So(err, ShouldBeNil)
				So(res.Score, ShouldEqual, 35)
				So(res.OneWayForUser, ShouldResemble, []string{"React"})
			})
		})

		Convey("When regeneration is requested asynchronously", func() {
			ack, err := svc.RequestRegeneration(ctx, "erin")
			So(err, ShouldBeNil)
			So(ack.Queued || ack.Coalesced, ShouldBeTrue)

			Convey("Then the worker eventually stores erin's matches", func() {
				ok := waitFor(func() bool {
					ms, err := svc.UserMatches(ctx, "erin", 0)
					return err == nil && len(ms) == 1
				})
				So(ok, ShouldBeTrue)

				ok = waitFor(func() bool {
					stats := svc.GetStats(ctx)
					return stats["pendingRegenerations"] == int64(0)
				})
				So(ok, ShouldBeTrue)
			})
		})
	})
}

func TestServiceWithJSONFile(t *testing.T) {
	Convey("Given a service over a JSON file store", t, func() {
		ctx := context.Background()
		path := filepath.Join(t.TempDir(), "local_db.json")
		store, err := repository.NewJSONFileStore(path)
		So(err, ShouldBeNil)
		defer store.Close()

		svc := service.New(service.WithRepository(store))
		seed(ctx, svc)

		Convey("When matches are generated", func() {
			_, err := svc.GenerateMatches(ctx, "bob")
			So(err, ShouldBeNil)

			Convey("Then a fresh store over the same file sees them", func() {
				reopened, err := repository.NewJSONFileStore(path)
				So(err, ShouldBeNil)
				defer reopened.Close()

				ms, err := reopened.ListMatches(ctx, "bob")
				So(err, ShouldBeNil)
				So(len(ms), ShouldEqual, 1)
				So(ms[0].Pair(), ShouldResemble, model.NewPair("alice", "bob"))
			})
		})
	})
}
