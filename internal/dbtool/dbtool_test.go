package dbtool_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/skillswap/internal/dbtool"
	"github.com/okian/skillswap/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
	"gopkg.in/yaml.v3"
)

const fixture = `{
  "users": [{"id": "user_1", "email": "a@example.com"}],
  "profiles": [
    {"id": "profile_1", "user_id": "user_1", "name": "Ann", "college": "MIT", "branch": null, "year": "2",
     "bio": "", "avatar_url": null, "skills_teach": ["Python"], "skills_learn": ["Guitar"],
     "is_profile_complete": true, "created_at": "2025-01-01T00:00:00Z", "updated_at": "2025-01-01T00:00:00Z"},
    {"id": "profile_2", "user_id": "user_2", "name": "Ben", "college": "mit", "branch": "", "year": "2",
     "bio": "", "skills_teach": ["guitars"], "skills_learn": ["py"],
     "is_profile_complete": true, "created_at": "2025-01-01T00:00:00Z", "updated_at": "2025-01-01T00:00:00Z"}
  ],
  "matches": [],
  "conversations": [{"id": "convo_1", "match_id": "m"}],
  "messages": []
}`

func newTool(t *testing.T, opts ...dbtool.Option) (*dbtool.Tool, *bytes.Buffer, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "local_db.json")
	if err := os.WriteFile(path, []byte(fixture), 0o600); err != nil {
		t.Fatal(err)
	}
	out := &bytes.Buffer{}
	opts = append([]dbtool.Option{dbtool.WithLogger(logger.Nop())}, opts...)
	tool, err := dbtool.New(context.Background(), path, out, opts...)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = tool.Close() })
	return tool, out, path
}

func TestTool(t *testing.T) {
	Convey("Given a tool over a fixture database", t, func() {
		tool, out, path := newTool(t)
		ctx := context.Background()

		Convey("When listing profiles", func() {
			So(tool.Run(ctx, []string{"list", "profiles"}), ShouldBeNil)

			Convey("Then both profiles are printed as JSON", func() {
				var ps []map[string]any
				So(json.Unmarshal(out.Bytes(), &ps), ShouldBeNil)
				So(len(ps), ShouldEqual, 2)
				So(ps[0]["user_id"], ShouldEqual, "user_1")
			})
		})

		Convey("When listing a foreign collection", func() {
			So(tool.Run(ctx, []string{"list", "conversations"}), ShouldBeNil)

			Convey("Then it is printed untouched", func() {
				So(out.String(), ShouldContainSubstring, `"match_id": "m"`)
			})
		})

		Convey("When scoring the two users", func() {
			So(tool.Run(ctx, []string{"score", "user_1", "user_2"}), ShouldBeNil)

			Convey("Then aliases and bonuses apply", func() {
				var res map[string]any
				So(json.Unmarshal(out.Bytes(), &res), ShouldBeNil)
				So(res["score"], ShouldEqual, 35.0)
				So(res["label"], ShouldEqual, "Potential Match")
			})
		})

		Convey("When generating matches", func() {
			So(tool.Run(ctx, []string{"generate", "user_1"}), ShouldBeNil)

			Convey("Then the match is written to the file", func() {
				data, err := os.ReadFile(path)
				So(err, ShouldBeNil)
				var doc struct {
					Matches       []map[string]any `json:"matches"`
					Conversations []map[string]any `json:"conversations"`
				}
				So(json.Unmarshal(data, &doc), ShouldBeNil)
				So(len(doc.Matches), ShouldEqual, 1)
				So(doc.Matches[0]["status"], ShouldEqual, "accepted")
				So(len(doc.Conversations), ShouldEqual, 1)
			})
		})

		Convey("When upserting a profile with some flags", func() {
			err := tool.Run(ctx, []string{"upsert-profile", "-user-id", "user_1", "-bio", "hello", "-teach", "Go, Rust"})

			Convey("Then only those fields change", func() {
				So(err, ShouldBeNil)
				out.Reset()
				So(tool.Run(ctx, []string{"get", "user_1"}), ShouldBeNil)
				var p map[string]any
				So(json.Unmarshal(out.Bytes(), &p), ShouldBeNil)
				So(p["bio"], ShouldEqual, "hello")
				So(p["name"], ShouldEqual, "Ann")
				So(p["skills_teach"], ShouldResemble, []any{"Go", "Rust"})
				So(p["id"], ShouldEqual, "profile_1")
			})
		})

		Convey("When seeding random profiles", func() {
			So(tool.Run(ctx, []string{"seed", "-n", "4"}), ShouldBeNil)

			Convey("Then four profiles are added", func() {
				var summary struct {
					Profiles []string `json:"profiles"`
				}
				So(json.Unmarshal(out.Bytes(), &summary), ShouldBeNil)
				So(len(summary.Profiles), ShouldEqual, 4)

				out.Reset()
				So(tool.Run(ctx, []string{"list", "profiles"}), ShouldBeNil)
				var ps []map[string]any
				So(json.Unmarshal(out.Bytes(), &ps), ShouldBeNil)
				So(len(ps), ShouldEqual, 6)
			})
		})

		Convey("When commands are misused", func() {
			So(errors.Is(tool.Run(ctx, nil), dbtool.ErrUsage), ShouldBeTrue)
			So(errors.Is(tool.Run(ctx, []string{"drop"}), dbtool.ErrUnknownCommand), ShouldBeTrue)
			So(errors.Is(tool.Run(ctx, []string{"list", "tables"}), dbtool.ErrUnknownCollection), ShouldBeTrue)
			So(errors.Is(tool.Run(ctx, []string{"score", "user_1"}), dbtool.ErrUsage), ShouldBeTrue)
			So(errors.Is(tool.Run(ctx, []string{"upsert-profile", "-name", "x"}), dbtool.ErrUsage), ShouldBeTrue)
			So(errors.Is(tool.Run(ctx, []string{"seed", "-n", "0"}), dbtool.ErrUsage), ShouldBeTrue)
			So(tool.Run(ctx, []string{"get", "ghost"}), ShouldNotBeNil)
		})
	})

	Convey("Given YAML output", t, func() {
		tool, out, _ := newTool(t, dbtool.WithFormat(dbtool.FormatYAML), dbtool.WithSeed(7))

		Convey("When a profile is printed", func() {
			So(tool.Run(context.Background(), []string{"get", "user_2"}), ShouldBeNil)

			Convey("Then it uses the database field names", func() {
				var p map[string]any
				So(yaml.Unmarshal(out.Bytes(), &p), ShouldBeNil)
				So(p["user_id"], ShouldEqual, "user_2")
				So(p["skills_learn"], ShouldResemble, []any{"py"})
			})
		})
	})

	Convey("Given an unknown output format", t, func() {
		_, err := dbtool.New(context.Background(), filepath.Join(t.TempDir(), "db.json"), &bytes.Buffer{},
			dbtool.WithLogger(logger.Nop()), dbtool.WithFormat("xml"))

		Convey("Then New fails", func() {
			So(errors.Is(err, dbtool.ErrUnknownFormat), ShouldBeTrue)
		})
	})
}
