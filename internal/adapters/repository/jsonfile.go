package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/okian/skillswap/internal/domain/model"
)

// Document is the on-disk layout of the local database file. Collections the
// matching service does not own are carried through untouched.
type Document struct {
	Users         []json.RawMessage `json:"users"`
	Profiles      []model.Profile   `json:"profiles"`
	Matches       []model.Match     `json:"matches"`
	Conversations []json.RawMessage `json:"conversations"`
	Messages      []json.RawMessage `json:"messages"`
}

func emptyDocument() Document {
	return Document{
		Users:         []json.RawMessage{},
		Profiles:      []model.Profile{},
		Matches:       []model.Match{},
		Conversations: []json.RawMessage{},
		Messages:      []json.RawMessage{},
	}
}

// JSONFileStore persists the whole document to a single JSON file after every write.
type JSONFileStore struct {
	mu     sync.RWMutex
	path   string
	doc    Document
	closed bool
}

// NewJSONFileStore opens path, creating an empty document when the file does not exist.
func NewJSONFileStore(path string) (*JSONFileStore, error) {
	s := &JSONFileStore{path: path, doc: emptyDocument()}
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return s, nil
	case err != nil:
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(data) == 0 {
		return s, nil
	}
	doc := emptyDocument()
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	s.doc = normalizeDocument(doc)
	return s, nil
}

func normalizeDocument(d Document) Document {
	e := emptyDocument()
	if d.Users == nil {
		d.Users = e.Users
	}
	if d.Profiles == nil {
		d.Profiles = e.Profiles
	}
	if d.Matches == nil {
		d.Matches = e.Matches
	}
	if d.Conversations == nil {
		d.Conversations = e.Conversations
	}
	if d.Messages == nil {
		d.Messages = e.Messages
	}
	return d
}

// Path returns the backing file.
func (s *JSONFileStore) Path() string { return s.path }

// Snapshot returns a copy of the current document.
func (s *JSONFileStore) Snapshot() Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := Document{
		Users:         append([]json.RawMessage(nil), s.doc.Users...),
		Profiles:      make([]model.Profile, 0, len(s.doc.Profiles)),
		Matches:       make([]model.Match, 0, len(s.doc.Matches)),
		Conversations: append([]json.RawMessage(nil), s.doc.Conversations...),
		Messages:      append([]json.RawMessage(nil), s.doc.Messages...),
	}
	for _, p := range s.doc.Profiles {
		out.Profiles = append(out.Profiles, cloneProfile(p))
	}
	for _, m := range s.doc.Matches {
		out.Matches = append(out.Matches, cloneMatch(m))
	}
	return normalizeDocument(out)
}

func (s *JSONFileStore) LoadProfile(_ context.Context, userID string) (model.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return model.Profile{}, ErrClosed
	}
	for _, p := range s.doc.Profiles {
		if p.UserID == userID {
			return cloneProfile(p), nil
		}
	}
	return model.Profile{}, fmt.Errorf("profile %s: %w", userID, ErrNotFound)
}

func (s *JSONFileStore) ListCandidates(_ context.Context, excludeUserID string) ([]model.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}
	out := make([]model.Profile, 0, len(s.doc.Profiles))
	for _, p := range s.doc.Profiles {
		if p.UserID != excludeUserID {
			out = append(out, cloneProfile(p))
		}
	}
	sortProfiles(out)
	return out, nil
}

func (s *JSONFileStore) UpsertProfile(_ context.Context, p model.Profile) (model.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return model.Profile{}, ErrClosed
	}
	idx := -1
	var existing *model.Profile
	for i := range s.doc.Profiles {
		if s.doc.Profiles[i].UserID == p.UserID {
			idx = i
			cur := s.doc.Profiles[i]
			existing = &cur
			break
		}
	}
	out, err := prepareProfile(cloneProfile(p), existing, now())
	if err != nil {
		return model.Profile{}, err
	}

	next := s.doc
	next.Profiles = append([]model.Profile(nil), s.doc.Profiles...)
	if idx >= 0 {
		next.Profiles[idx] = out
	} else {
		next.Profiles = append(next.Profiles, out)
	}
	if err := s.persist(next); err != nil {
		return model.Profile{}, err
	}
	return cloneProfile(out), nil
}

func (s *JSONFileStore) SaveMatch(_ context.Context, m model.Match) (model.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return model.Match{}, ErrClosed
	}
	key := model.NewPair(m.User1ID, m.User2ID).Key()
	idx := -1
	var existing *model.Match
	for i := range s.doc.Matches {
		// Older files may hold either orientation of the pair.
		if model.NewPair(s.doc.Matches[i].User1ID, s.doc.Matches[i].User2ID).Key() == key {
			idx = i
			cur := s.doc.Matches[i]
			existing = &cur
			break
		}
	}
	out, err := prepareMatch(cloneMatch(m), existing, now())
	if err != nil {
		return model.Match{}, err
	}

	next := s.doc
	next.Matches = append([]model.Match(nil), s.doc.Matches...)
	if idx >= 0 {
		next.Matches[idx] = out
	} else {
		next.Matches = append(next.Matches, out)
	}
	if err := s.persist(next); err != nil {
		return model.Match{}, err
	}
	return cloneMatch(out), nil
}

func (s *JSONFileStore) ListMatches(_ context.Context, userID string) ([]model.Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}
	out := make([]model.Match, 0)
	for _, m := range s.doc.Matches {
		if m.User1ID == userID || m.User2ID == userID {
			out = append(out, cloneMatch(m))
		}
	}
	sortMatches(out)
	return out, nil
}

func (s *JSONFileStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// persist writes next to disk and, on success, makes it the current document.
// Must be called with s.mu held.
func (s *JSONFileStore) persist(next Document) error {
	data, err := json.MarshalIndent(next, "", "  ")
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	if err := writeFileAtomic(s.path, data); err != nil {
		return err
	}
	s.doc = next
	return nil
}

// writeFileAtomic writes data to a temp file in the same directory, syncs it and renames it over path.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write %s: %w", tmpName, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("rename %s: %w", tmpName, err)
	}
	return nil
}
