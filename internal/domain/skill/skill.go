// Package skill holds skill records and the name normalizer used to compare them.
package skill

import "strings"

// Direction tags whether a profile teaches or wants a skill.
type Direction string

const (
	Teaches Direction = "teaches"
	Wants   Direction = "wants"
)

// Skill is the display record of a skill as entered on a profile.
type Skill struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Category        string `json:"category,omitempty"`
	PopularityCount int    `json:"popularity_count"`
}

// FromName builds a Skill out of a free-text name. The id is the lowercased name.
func FromName(name string) Skill {
	return Skill{
		ID:   strings.ToLower(name),
		Name: name,
	}
}

// Ref pairs a skill with its normalized token and direction for one scoring pass.
type Ref struct {
	Skill     Skill
	Token     string
	Direction Direction
}

// Name returns the display name of the referenced skill.
func (r Ref) Name() string { return r.Skill.Name }

// Refs wraps each raw name with its normalized token and the given direction.
func (n *Normalizer) Refs(names []string, dir Direction) []Ref {
	refs := make([]Ref, 0, len(names))
	for _, name := range names {
		refs = append(refs, Ref{
			Skill:     FromName(name),
			Token:     n.Normalize(name),
			Direction: dir,
		})
	}
	return refs
}
