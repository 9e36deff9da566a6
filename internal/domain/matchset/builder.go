// Package matchset scores a candidate pool against one user and ranks the results.
package matchset

import (
	"context"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/okian/skillswap/internal/domain/model"
	"github.com/okian/skillswap/internal/domain/scoring"
	"github.com/okian/skillswap/internal/domain/skill"
)

// User is one side of a scoring pass: raw skill names plus bonus attributes.
type User struct {
	ID         string
	Teaches    []string
	Wants      []string
	Attributes scoring.Attributes
}

// Candidate is a user considered as a match for the current user.
type Candidate = User

// FromProfile converts a stored profile into a scoring participant.
func FromProfile(p model.Profile) User {
	return User{
		ID:         p.UserID,
		Teaches:    p.SkillsTeach,
		Wants:      p.SkillsLearn,
		Attributes: p.Attributes(),
	}
}

// Entry is a surviving candidate with its score.
type Entry struct {
	CandidateID string
	Pair        model.Pair
	Result      scoring.Result
}

// Skipped records a candidate that could not be scored.
type Skipped struct {
	Index       int
	CandidateID string
	Err         error
}

// Batch is the ranked output of one Build call.
type Batch struct {
	Matches []Entry
	Skipped []Skipped
	Scored  int
}

// Builder is immutable after NewBuilder and safe for concurrent use.
type Builder struct {
	normalizer  *skill.Normalizer
	scorer      *scoring.Scorer
	concurrency int
}

// NewBuilder creates a builder with the default normalizer and a legacy scorer.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{
		normalizer:  skill.Default(),
		scorer:      scoring.NewScorer(),
		concurrency: 1,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

type sides struct {
	teaches []skill.Ref
	wants   []skill.Ref
}

func (b *Builder) refs(u User) sides {
	return sides{
		teaches: b.normalizer.Refs(u.Teaches, skill.Teaches),
		wants:   b.normalizer.Refs(u.Wants, skill.Wants),
	}
}

// ScorePair scores two users directly without filtering.
func (b *Builder) ScorePair(current, other User) scoring.Result {
	c, o := b.refs(current), b.refs(other)
	return b.scorer.Score(c.teaches, c.wants, o.teaches, o.wants, current.Attributes, other.Attributes)
}

type slot struct {
	entry *Entry
	skip  *Skipped
}

// Build scores every candidate against current, drops those without skill overlap and
// returns the rest sorted by score descending, ties in input order. Candidates without an
// id or equal to current are reported in Batch.Skipped and never abort the batch. Skill
// names are compared as normalized, whatever their encoding. A current user without an id
// yields an empty batch. A cancelled ctx aborts it.
func (b *Builder) Build(ctx context.Context, current User, candidates []Candidate) (Batch, error) {
	if current.ID == "" {
		return Batch{}, nil
	}
	cur := b.refs(current)

	slots := make([]slot, len(candidates))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.concurrency)
	for i, c := range candidates {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			slots[i] = b.scoreOne(cur, current, i, c)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Batch{}, fmt.Errorf("build matches: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return Batch{}, fmt.Errorf("build matches: %w", err)
	}

	var out Batch
	for _, s := range slots {
		switch {
		case s.skip != nil:
			out.Skipped = append(out.Skipped, *s.skip)
		case s.entry != nil:
			out.Scored++
			out.Matches = append(out.Matches, *s.entry)
		default:
			out.Scored++
		}
	}
	sort.SliceStable(out.Matches, func(i, j int) bool {
		return out.Matches[i].Result.Score > out.Matches[j].Result.Score
	})
	return out, nil
}

func (b *Builder) scoreOne(cur sides, current User, idx int, c Candidate) slot {
	if err := validCandidate(current.ID, c); err != nil {
		return slot{skip: &Skipped{Index: idx, CandidateID: c.ID, Err: err}}
	}
	o := b.refs(c)
	res := b.scorer.Score(cur.teaches, cur.wants, o.teaches, o.wants, current.Attributes, c.Attributes)
	if !res.HasSkillOverlap() {
		return slot{}
	}
	return slot{entry: &Entry{
		CandidateID: c.ID,
		Pair:        model.NewPair(current.ID, c.ID),
		Result:      res,
	}}
}

func validCandidate(currentID string, c Candidate) error {
	switch {
	case c.ID == "":
		return fmt.Errorf("%w: empty id", ErrMalformedCandidate)
	case c.ID == currentID:
		return fmt.Errorf("%w: candidate %s is the current user", ErrMalformedCandidate, c.ID)
	}
	return nil
}
