// Package scoring computes the match score between two skill-swap profiles.
package scoring

import (
	"fmt"
	"strings"

	"github.com/okian/skillswap/internal/domain/skill"
)

// Point values.
const (
	MutualPoints  = 30
	OneWayPoints  = 10
	CollegeBonus  = 10
	YearBonus     = 5
	BranchBonus   = 5
	MaxScoreValue = 100
)

// Reason texts for one-way matches, from the current user's side.
const (
	youTeachPrefix  = "You teach "
	youTeachSuffix  = " which they want to learn"
	theyTeachPrefix = "They teach "
	theyTeachSuffix = " which you want to learn"
)

// Attributes are the optional profile fields that earn bonus points.
type Attributes struct {
	College string `json:"college,omitempty"`
	Branch  string `json:"branch,omitempty"`
	Year    string `json:"year,omitempty"`
}

// Result is the outcome of scoring one pair.
// OneWayForUser holds skills the current user teaches and the other wants.
// OneWayFromUser holds skills the other user teaches and the current user wants.
type Result struct {
	Score          int      `json:"score"`
	Tier           Tier     `json:"tier"`
	Reasons        []string `json:"reasons"`
	MutualSkills   []string `json:"mutual_skills"`
	OneWayForUser  []string `json:"one_way_for_user"`
	OneWayFromUser []string `json:"one_way_from_user"`
}

// HasSkillOverlap reports whether any skill matched in either direction.
func (r Result) HasSkillOverlap() bool {
	return len(r.MutualSkills) > 0 || len(r.OneWayForUser) > 0 || len(r.OneWayFromUser) > 0
}

// Scorer is stateless apart from its mode and safe for concurrent use.
type Scorer struct {
	mode Mode
}

// NewScorer creates a scorer, legacy mode unless overridden.
func NewScorer(opts ...Option) *Scorer {
	s := &Scorer{mode: ModeLegacy}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Mode returns the configured counting mode.
func (s *Scorer) Mode() Mode { return s.mode }

// Score evaluates the pair. It never fails; degenerate input yields a zero result.
func (s *Scorer) Score(currentTeaches, currentWants, otherTeaches, otherWants []skill.Ref, current, other Attributes) Result {
	aToB := overlap(currentTeaches, otherWants)
	bToA := overlap(otherTeaches, currentWants)

	res := Result{
		Reasons:        []string{},
		MutualSkills:   []string{},
		OneWayForUser:  []string{},
		OneWayFromUser: []string{},
	}
	score := 0

	inBToA := make(map[string]struct{}, len(bToA))
	for _, r := range bToA {
		inBToA[r.Token] = struct{}{}
	}
	mutual := make(map[string]struct{})
	for _, r := range aToB {
		if _, ok := inBToA[r.Token]; !ok {
			continue
		}
		if _, seen := mutual[r.Token]; seen {
			continue
		}
		mutual[r.Token] = struct{}{}
		score += MutualPoints
		res.MutualSkills = append(res.MutualSkills, r.Name())
		res.Reasons = append(res.Reasons, fmt.Sprintf("Mutual: Both teach and learn %s", r.Name()))
	}

	for _, r := range s.oneWay(aToB, mutual) {
		score += OneWayPoints
		res.OneWayForUser = append(res.OneWayForUser, r.Name())
		res.Reasons = append(res.Reasons, youTeachPrefix+r.Name()+youTeachSuffix)
	}
	for _, r := range s.oneWay(bToA, mutual) {
		score += OneWayPoints
		res.OneWayFromUser = append(res.OneWayFromUser, r.Name())
		res.Reasons = append(res.Reasons, theyTeachPrefix+r.Name()+theyTeachSuffix)
	}

	if bothSet(current.College, other.College) && strings.EqualFold(current.College, other.College) {
		score += CollegeBonus
		res.Reasons = append(res.Reasons, "Same college")
	}
	if bothSet(current.Year, other.Year) && current.Year == other.Year {
		score += YearBonus
		res.Reasons = append(res.Reasons, "Same year")
	}
	if bothSet(current.Branch, other.Branch) && strings.EqualFold(current.Branch, other.Branch) {
		score += BranchBonus
		res.Reasons = append(res.Reasons, "Same branch")
	}

	res.Score = min(score, MaxScoreValue)
	res.Tier = TierFor(res.Score)
	return res
}

// FlipReasons rewrites reasons produced for one side of a pair so they read from
// the other side. Only one-way reasons change; the rest are symmetric.
func FlipReasons(reasons []string) []string {
	out := make([]string, len(reasons))
	for i, r := range reasons {
		switch {
		case strings.HasPrefix(r, youTeachPrefix) && strings.HasSuffix(r, youTeachSuffix):
			name := strings.TrimSuffix(strings.TrimPrefix(r, youTeachPrefix), youTeachSuffix)
			out[i] = theyTeachPrefix + name + theyTeachSuffix
		case strings.HasPrefix(r, theyTeachPrefix) && strings.HasSuffix(r, theyTeachSuffix):
			name := strings.TrimSuffix(strings.TrimPrefix(r, theyTeachPrefix), theyTeachSuffix)
			out[i] = youTeachPrefix + name + youTeachSuffix
		default:
			out[i] = r
		}
	}
	return out
}

// oneWay drops mutual tokens and, in strict mode, repeated tokens.
func (s *Scorer) oneWay(refs []skill.Ref, mutual map[string]struct{}) []skill.Ref {
	out := make([]skill.Ref, 0, len(refs))
	seen := make(map[string]struct{})
	for _, r := range refs {
		if _, ok := mutual[r.Token]; ok {
			continue
		}
		if s.mode == ModeStrict {
			if _, dup := seen[r.Token]; dup {
				continue
			}
			seen[r.Token] = struct{}{}
		}
		out = append(out, r)
	}
	return out
}

// overlap returns one entry per (teach, want) pair with equal non-empty tokens,
// in teach order, carrying the teaching side's display name.
func overlap(teaches, wants []skill.Ref) []skill.Ref {
	var out []skill.Ref
	for _, t := range teaches {
		if t.Token == "" {
			continue
		}
		for _, w := range wants {
			if t.Token == w.Token {
				out = append(out, t)
			}
		}
	}
	return out
}

func bothSet(a, b string) bool { return a != "" && b != "" }
