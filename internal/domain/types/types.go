// Package types contains read shapes shared by the service and HTTP layers.
package types

import (
	"github.com/okian/skillswap/internal/domain/model"
	"github.com/okian/skillswap/internal/domain/scoring"
)

// GenerateReport is the outcome of one synchronous match generation.
type GenerateReport struct {
	UserID  string        `json:"user_id"`
	Matches []model.Match `json:"matches"`
	Scored  int           `json:"scored"`
	Skipped int           `json:"skipped"`
}

// Ack acknowledges an asynchronous regeneration request.
type Ack struct {
	UserID    string `json:"user_id"`
	Queued    bool   `json:"queued"`
	Coalesced bool   `json:"coalesced"`
}

// Status is "queued" for a new request and "coalesced" when one was already pending.
func (a Ack) Status() string {
	if a.Coalesced {
		return "coalesced"
	}
	return "queued"
}

// ScoreInput is one side of a stateless scoring request.
type ScoreInput struct {
	UserID  string   `json:"user_id,omitempty"`
	Teaches []string `json:"skills_teach"`
	Wants   []string `json:"skills_learn"`
	College string   `json:"college,omitempty"`
	Branch  string   `json:"branch,omitempty"`
	Year    string   `json:"year,omitempty"`
}

// Attributes returns the bonus fields of the input.
func (in ScoreInput) Attributes() scoring.Attributes {
	return scoring.Attributes{College: in.College, Branch: in.Branch, Year: in.Year}
}

// BrowseEntry is another profile as seen by the browsing user, with the stored
// match score if one exists. Reasons read from the browsing user's side.
type BrowseEntry struct {
	Profile model.Profile `json:"profile"`
	Score   int           `json:"match_score"`
	Tier    scoring.Tier  `json:"match_type"`
	Reasons []string      `json:"match_reasons"`
	Matched bool          `json:"matched"`
}
