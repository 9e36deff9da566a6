// Package model contains domain models passed between layers.
package model

import (
	"time"

	"github.com/okian/skillswap/internal/domain/scoring"
)

// Profile is a student's public profile with the skills they teach and want to learn.
// JSON tags mirror the local database file.
type Profile struct {
	ID                string    `json:"id"`
	UserID            string    `json:"user_id"`
	Name              string    `json:"name"`
	College           string    `json:"college"`
	Branch            string    `json:"branch"`
	Year              string    `json:"year"`
	Bio               string    `json:"bio"`
	AvatarURL         string    `json:"avatar_url,omitempty"`
	SkillsTeach       []string  `json:"skills_teach"`
	SkillsLearn       []string  `json:"skills_learn"`
	IsProfileComplete bool      `json:"is_profile_complete"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// Attributes returns the fields used for bonus scoring.
func (p Profile) Attributes() scoring.Attributes {
	return scoring.Attributes{College: p.College, Branch: p.Branch, Year: p.Year}
}

// HasSkills reports whether the profile lists anything to teach or learn.
func (p Profile) HasSkills() bool {
	return len(p.SkillsTeach) > 0 || len(p.SkillsLearn) > 0
}

// Merge overlays an incoming profile onto the stored one. Identity and creation
// time are kept; every other field is replaced.
func (p Profile) Merge(in Profile, now time.Time) Profile {
	out := in
	out.ID = p.ID
	out.UserID = p.UserID
	out.CreatedAt = p.CreatedAt
	out.UpdatedAt = now
	return out
}
