package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/okian/skillswap/internal/domain/model"
)

// MemoryStore keeps profiles and matches in maps. Useful for tests and demos.
type MemoryStore struct {
	mu       sync.RWMutex
	profiles map[string]model.Profile // by user id
	matches  map[string]model.Match   // by pair key
	byUser   map[string]map[string]struct{}
	closed   bool
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		profiles: make(map[string]model.Profile),
		matches:  make(map[string]model.Match),
		byUser:   make(map[string]map[string]struct{}),
	}
}

func (s *MemoryStore) LoadProfile(_ context.Context, userID string) (model.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return model.Profile{}, ErrClosed
	}
	p, ok := s.profiles[userID]
	if !ok {
		return model.Profile{}, fmt.Errorf("profile %s: %w", userID, ErrNotFound)
	}
	return cloneProfile(p), nil
}

func (s *MemoryStore) ListCandidates(_ context.Context, excludeUserID string) ([]model.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}
	out := make([]model.Profile, 0, len(s.profiles))
	for id, p := range s.profiles {
		if id == excludeUserID {
			continue
		}
		out = append(out, cloneProfile(p))
	}
	sortProfiles(out)
	return out, nil
}

func (s *MemoryStore) UpsertProfile(_ context.Context, p model.Profile) (model.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return model.Profile{}, ErrClosed
	}
	var existing *model.Profile
	if cur, ok := s.profiles[p.UserID]; ok {
		existing = &cur
	}
	out, err := prepareProfile(cloneProfile(p), existing, now())
	if err != nil {
		return model.Profile{}, err
	}
	s.profiles[out.UserID] = out
	return cloneProfile(out), nil
}

func (s *MemoryStore) SaveMatch(_ context.Context, m model.Match) (model.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return model.Match{}, ErrClosed
	}
	key := model.NewPair(m.User1ID, m.User2ID).Key()
	var existing *model.Match
	if cur, ok := s.matches[key]; ok {
		existing = &cur
	}
	out, err := prepareMatch(cloneMatch(m), existing, now())
	if err != nil {
		return model.Match{}, err
	}
	s.matches[key] = out
	for _, id := range []string{out.User1ID, out.User2ID} {
		if s.byUser[id] == nil {
			s.byUser[id] = make(map[string]struct{})
		}
		s.byUser[id][key] = struct{}{}
	}
	return cloneMatch(out), nil
}

func (s *MemoryStore) ListMatches(_ context.Context, userID string) ([]model.Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}
	keys := s.byUser[userID]
	out := make([]model.Match, 0, len(keys))
	for key := range keys {
		out = append(out, cloneMatch(s.matches[key]))
	}
	sortMatches(out)
	return out, nil
}

func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
