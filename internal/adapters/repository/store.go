// Package repository defines the profile and match store interface and its adapters.
package repository

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/okian/skillswap/internal/domain/model"
)

// Repository provides read/write access to profiles and match records.
type Repository interface {
	// LoadProfile returns the profile of userID or ErrNotFound.
	LoadProfile(ctx context.Context, userID string) (model.Profile, error)
	// ListCandidates returns every profile except excludeUserID, ordered by user id.
	ListCandidates(ctx context.Context, excludeUserID string) ([]model.Profile, error)
	// UpsertProfile creates or replaces the profile keyed by UserID.
	UpsertProfile(ctx context.Context, p model.Profile) (model.Profile, error)
	// SaveMatch upserts a match keyed by its canonical pair.
	SaveMatch(ctx context.Context, m model.Match) (model.Match, error)
	// ListMatches returns matches involving userID, score desc, ties by pair key.
	ListMatches(ctx context.Context, userID string) ([]model.Match, error)
	// Close releases resources held by the store.
	Close() error
}

func now() time.Time { return time.Now().UTC() }

// prepareProfile validates p and merges it onto existing, if any.
func prepareProfile(p model.Profile, existing *model.Profile, at time.Time) (model.Profile, error) {
	if p.UserID == "" {
		return model.Profile{}, fmt.Errorf("%w: empty user id", ErrInvalidProfile)
	}
	p.SkillsTeach = nonNil(p.SkillsTeach)
	p.SkillsLearn = nonNil(p.SkillsLearn)
	if existing != nil {
		return existing.Merge(p, at), nil
	}
	if p.ID == "" {
		p.ID = "profile_" + uuid.NewString()
	}
	p.CreatedAt = at
	p.UpdatedAt = at
	return p, nil
}

// prepareMatch canonicalizes the pair of m and merges it onto existing, if any.
func prepareMatch(m model.Match, existing *model.Match, at time.Time) (model.Match, error) {
	if m.User1ID == "" || m.User2ID == "" || m.User1ID == m.User2ID {
		return model.Match{}, fmt.Errorf("%w: pair %q/%q", ErrInvalidMatch, m.User1ID, m.User2ID)
	}
	pair := model.NewPair(m.User1ID, m.User2ID)
	m.User1ID, m.User2ID = pair.User1ID, pair.User2ID
	m.Reasons = nonNil(m.Reasons)
	m.MutualSkills = nonNil(m.MutualSkills)
	m.OneWayForUser = nonNil(m.OneWayForUser)
	m.OneWayFromUser = nonNil(m.OneWayFromUser)
	if m.Status == "" {
		m.Status = model.StatusAccepted
	}
	m.UpdatedAt = at
	if existing != nil {
		return existing.Merge(m), nil
	}
	if m.ID == "" {
		m.ID = "match_" + uuid.NewString()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = at
	}
	return m, nil
}

func sortProfiles(ps []model.Profile) {
	sort.Slice(ps, func(i, j int) bool { return ps[i].UserID < ps[j].UserID })
}

// sortMatches orders by score descending, then by user1_id and user2_id in byte
// order. PostgresStore.ListMatches uses the same order with COLLATE "C".
func sortMatches(ms []model.Match) {
	sort.SliceStable(ms, func(i, j int) bool {
		if ms[i].Score != ms[j].Score {
			return ms[i].Score > ms[j].Score
		}
		if ms[i].User1ID != ms[j].User1ID {
			return ms[i].User1ID < ms[j].User1ID
		}
		return ms[i].User2ID < ms[j].User2ID
	})
}

func cloneProfile(p model.Profile) model.Profile {
	p.SkillsTeach = slices.Clone(p.SkillsTeach)
	p.SkillsLearn = slices.Clone(p.SkillsLearn)
	return p
}

func cloneMatch(m model.Match) model.Match {
	m.Reasons = slices.Clone(m.Reasons)
	m.MutualSkills = slices.Clone(m.MutualSkills)
	m.OneWayForUser = slices.Clone(m.OneWayForUser)
	m.OneWayFromUser = slices.Clone(m.OneWayFromUser)
	return m
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
