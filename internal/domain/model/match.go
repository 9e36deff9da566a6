package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/okian/skillswap/internal/domain/scoring"
)

// Status of a match record.
type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"
)

// Match is the persisted outcome of scoring one pair of users.
// The one-way lists are relative to GeneratedBy.
type Match struct {
	ID             string       `json:"id"`
	User1ID        string       `json:"user1_id"`
	User2ID        string       `json:"user2_id"`
	GeneratedBy    string       `json:"generated_by,omitempty"`
	Score          int          `json:"match_score"`
	Tier           scoring.Tier `json:"match_type"`
	Reasons        []string     `json:"match_reasons"`
	MutualSkills   []string     `json:"match_mutual_skills"`
	OneWayForUser  []string     `json:"match_one_way_for_user"`
	OneWayFromUser []string     `json:"match_one_way_from_user"`
	Status         Status       `json:"status"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at,omitzero"`
}

// NewMatch builds a fresh record for pair from a scoring result.
// Generated matches start out accepted.
func NewMatch(pair Pair, generatedBy string, res scoring.Result, now time.Time) Match {
	return Match{
		ID:             "match_" + uuid.NewString(),
		User1ID:        pair.User1ID,
		User2ID:        pair.User2ID,
		GeneratedBy:    generatedBy,
		Score:          res.Score,
		Tier:           res.Tier,
		Reasons:        res.Reasons,
		MutualSkills:   res.MutualSkills,
		OneWayForUser:  res.OneWayForUser,
		OneWayFromUser: res.OneWayFromUser,
		Status:         StatusAccepted,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// Pair returns the canonical pair of the match.
func (m Match) Pair() Pair { return Pair{User1ID: m.User1ID, User2ID: m.User2ID} }

// Merge refreshes the scoring fields of an existing record from a newer one.
// ID and CreatedAt of the existing record are kept.
func (m Match) Merge(newer Match) Match {
	out := newer
	out.ID = m.ID
	out.CreatedAt = m.CreatedAt
	return out
}
