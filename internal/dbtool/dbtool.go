// Package dbtool inspects and edits the local JSON database from the command line.
package dbtool

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"math/rand/v2"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/okian/skillswap/internal/adapters/repository"
	service "github.com/okian/skillswap/internal/app"
	"github.com/okian/skillswap/internal/domain/model"
	"github.com/okian/skillswap/internal/domain/scoring"
	"github.com/okian/skillswap/pkg/logger"
)

// Usage lists the supported commands.
const Usage = `commands:
  show                                  print the whole database
  list <users|profiles|matches|conversations|messages>
  get <user_id>                         print one profile
  upsert-profile -user-id ID [-name N] [-college C] [-branch B] [-year Y] [-bio T] [-teach a,b] [-learn a,b]
  score <user_a> <user_b>               score two stored profiles from user_a's side
  generate <user_id>                    generate and store matches for a user
  browse <user_id>                      list other profiles with stored scores
  seed [-n N]                           add N random profiles and generate their matches`

// Tool runs commands against one database file.
type Tool struct {
	store *repository.JSONFileStore
	svc   *service.Service
	out   io.Writer

	format  string
	mode    scoring.Mode
	aliases map[string][]string
	seed    uint64
	logger  logger.Logger
}

// New opens the database at path. Call Close when done.
func New(ctx context.Context, path string, out io.Writer, opts ...Option) (*Tool, error) {
	t := &Tool{out: out, format: FormatJSON, mode: scoring.ModeLegacy}
	for _, opt := range opts {
		opt(t)
	}
	if t.format != FormatJSON && t.format != FormatYAML {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, t.format)
	}
	if t.logger == nil {
		t.logger = logger.Get().Named("dbtool")
	}

	store, err := repository.NewJSONFileStore(path)
	if err != nil {
		return nil, err
	}
	svc := service.New(
		service.WithRepository(store),
		service.WithLogger(t.logger),
		service.WithScoringMode(t.mode),
		service.WithAliases(t.aliases),
		service.WithWorkerCount(1),
	)
	if err := svc.Start(ctx); err != nil {
		_ = store.Close()
		return nil, err
	}
	t.store, t.svc = store, svc
	return t, nil
}

// Close stops the service and releases the store.
func (t *Tool) Close() error {
	t.svc.Stop()
	return t.store.Close()
}

// Run dispatches args[0] with the remaining arguments.
func (t *Tool) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: no command", ErrUsage)
	}
	cmd, rest := args[0], args[1:]
	switch cmd {
	case "show":
		return t.emit(t.store.Snapshot())
	case "list":
		return t.list(rest)
	case "get":
		return t.get(ctx, rest)
	case "upsert-profile":
		return t.upsertProfile(ctx, rest)
	case "score":
		return t.score(ctx, rest)
	case "generate":
		return t.generate(ctx, rest)
	case "browse":
		return t.browse(ctx, rest)
	case "seed":
		return t.seedProfiles(ctx, rest)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownCommand, cmd)
	}
}

func (t *Tool) list(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: list <collection>", ErrUsage)
	}
	doc := t.store.Snapshot()
	switch args[0] {
	case "users":
		return t.emit(doc.Users)
	case "profiles":
		return t.emit(doc.Profiles)
	case "matches":
		return t.emit(doc.Matches)
	case "conversations":
		return t.emit(doc.Conversations)
	case "messages":
		return t.emit(doc.Messages)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownCollection, args[0])
	}
}

func (t *Tool) get(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: get <user_id>", ErrUsage)
	}
	p, err := t.svc.Profile(ctx, args[0])
	if err != nil {
		return err
	}
	return t.emit(p)
}

// upsertProfile overlays only the flags that were given onto the stored profile.
func (t *Tool) upsertProfile(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("upsert-profile", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	userID := fs.String("user-id", "", "user id")
	name := fs.String("name", "", "display name")
	college := fs.String("college", "", "college")
	branch := fs.String("branch", "", "branch")
	year := fs.String("year", "", "year")
	bio := fs.String("bio", "", "bio")
	teach := fs.String("teach", "", "comma separated skills to teach")
	learn := fs.String("learn", "", "comma separated skills to learn")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}
	if *userID == "" {
		return fmt.Errorf("%w: -user-id is required", ErrUsage)
	}

	p, err := t.svc.Profile(ctx, *userID)
	switch {
	case errors.Is(err, service.ErrNotFound):
		p = model.Profile{UserID: *userID, SkillsTeach: []string{}, SkillsLearn: []string{}}
	case err != nil:
		return err
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "name":
			p.Name = *name
		case "college":
			p.College = *college
		case "branch":
			p.Branch = *branch
		case "year":
			p.Year = *year
		case "bio":
			p.Bio = *bio
		case "teach":
			p.SkillsTeach = splitList(*teach)
		case "learn":
			p.SkillsLearn = splitList(*learn)
		}
	})

	saved, err := t.svc.UpsertProfile(ctx, p)
	if err != nil {
		return err
	}
	return t.emit(saved)
}

type scoreOutput struct {
	scoring.Result
	scoring.Label
}

func (t *Tool) score(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("%w: score <user_a> <user_b>", ErrUsage)
	}
	res, err := t.svc.ScorePair(ctx, args[0], args[1])
	if err != nil {
		return err
	}
	return t.emit(scoreOutput{Result: res, Label: res.Tier.Label()})
}

func (t *Tool) generate(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: generate <user_id>", ErrUsage)
	}
	report, err := t.svc.GenerateMatches(ctx, args[0])
	if err != nil {
		return err
	}
	return t.emit(report)
}

func (t *Tool) browse(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: browse <user_id>", ErrUsage)
	}
	entries, err := t.svc.Browse(ctx, args[0])
	if err != nil {
		return err
	}
	return t.emit(entries)
}

type seedSummary struct {
	Profiles []string `json:"profiles"`
	// Matches is the number of stored match records after seeding.
	Matches int `json:"matches"`
}

func (t *Tool) seedProfiles(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("seed", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	n := fs.Int("n", 5, "number of profiles")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}
	if *n < 1 {
		return fmt.Errorf("%w: -n must be positive", ErrUsage)
	}

	seed := t.seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	summary := seedSummary{Profiles: make([]string, 0, *n)}
	for range *n {
		saved, err := t.svc.UpsertProfile(ctx, randomProfile(rng))
		if err != nil {
			return err
		}
		summary.Profiles = append(summary.Profiles, saved.UserID)
	}
	for _, id := range summary.Profiles {
		if _, err := t.svc.GenerateMatches(ctx, id); err != nil {
			return err
		}
	}
	summary.Matches = len(t.store.Snapshot().Matches)
	t.logger.Info(ctx, "seeded database",
		logger.Int("profiles", len(summary.Profiles)),
		logger.Int("matches", summary.Matches),
	)
	return t.emit(summary)
}

var (
	seedNames    = []string{"Alex", "Jordan", "Taylor", "Morgan", "Casey", "Riley", "Sam", "Jamie", "Robin", "Avery", "Chris", "Pat", "Dana", "Lee"}
	seedSurnames = []string{"Smith", "Chen", "Patel", "Garcia"}
	seedColleges = []string{"MIT", "Stanford", "UCLA", "Oxford", "Cambridge", "State U"}
	seedBranches = []string{"Computer Science", "Mathematics", "Physics", "Engineering", "Art", ""}
	seedSkills   = []string{
		"Python", "py", "React", "ReactJS", "JavaScript", "JS", "Guitar", "French", "Cooking",
		"Photography", "Data Science", "Public Speaking", "Machine Learning", "ML", "UI Design", "Figma",
	}
)

func randomProfile(rng *rand.Rand) model.Profile {
	name := seedNames[rng.IntN(len(seedNames))]
	if rng.Float64() < 0.6 {
		name += " " + seedSurnames[rng.IntN(len(seedSurnames))]
	}
	first := strings.Fields(name)[0]
	return model.Profile{
		UserID:            "user_" + uuid.NewString(),
		Name:              name,
		College:           seedColleges[rng.IntN(len(seedColleges))],
		Branch:            seedBranches[rng.IntN(len(seedBranches))],
		Year:              fmt.Sprint(1 + rng.IntN(4)),
		Bio:               fmt.Sprintf("Hi, I'm %s.", first),
		SkillsTeach:       pickSkills(rng),
		SkillsLearn:       pickSkills(rng),
		IsProfileComplete: true,
	}
}

func pickSkills(rng *rand.Rand) []string {
	idx := rng.Perm(len(seedSkills))[:1+rng.IntN(3)]
	out := make([]string, len(idx))
	for i, j := range idx {
		out[i] = seedSkills[j]
	}
	return out
}

func splitList(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// emit writes v as indented JSON, or as YAML converted from its JSON form so
// that field names match the database file.
func (t *Tool) emit(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	if t.format == FormatJSON {
		_, err = fmt.Fprintln(t.out, string(data))
		return err
	}

	var generic any
	if err := json.Unmarshal(data, &generic); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	enc := yaml.NewEncoder(t.out)
	enc.SetIndent(2)
	if err := enc.Encode(generic); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return enc.Close()
}
