package repository

import (
	"context"
	"errors"
	"time"

	"github.com/okian/skillswap/internal/domain/model"
	"github.com/okian/skillswap/pkg/metrics"
)

// Instrumented decorates a Repository with per-operation latency and error metrics.
type Instrumented struct {
	next    Repository
	backend string
}

// NewInstrumented wraps next; backend labels the metrics.
func NewInstrumented(next Repository, backend string) *Instrumented {
	return &Instrumented{next: next, backend: backend}
}

// Unwrap returns the decorated repository.
func (r *Instrumented) Unwrap() Repository { return r.next }

func (r *Instrumented) observe(op string, start time.Time, err error) {
	// A missing record is an answer, not a failure.
	failed := err != nil && !errors.Is(err, ErrNotFound)
	metrics.RecordRepositoryOperation(r.backend, op, float64(time.Since(start).Microseconds())/1000, failed)
}

func (r *Instrumented) LoadProfile(ctx context.Context, userID string) (p model.Profile, err error) {
	defer func(start time.Time) { r.observe("load_profile", start, err) }(time.Now())
	return r.next.LoadProfile(ctx, userID)
}

func (r *Instrumented) ListCandidates(ctx context.Context, excludeUserID string) (ps []model.Profile, err error) {
	defer func(start time.Time) { r.observe("list_candidates", start, err) }(time.Now())
	return r.next.ListCandidates(ctx, excludeUserID)
}

func (r *Instrumented) UpsertProfile(ctx context.Context, p model.Profile) (out model.Profile, err error) {
	defer func(start time.Time) { r.observe("upsert_profile", start, err) }(time.Now())
	return r.next.UpsertProfile(ctx, p)
}

func (r *Instrumented) SaveMatch(ctx context.Context, m model.Match) (out model.Match, err error) {
	defer func(start time.Time) { r.observe("save_match", start, err) }(time.Now())
	return r.next.SaveMatch(ctx, m)
}

func (r *Instrumented) ListMatches(ctx context.Context, userID string) (ms []model.Match, err error) {
	defer func(start time.Time) { r.observe("list_matches", start, err) }(time.Now())
	return r.next.ListMatches(ctx, userID)
}

func (r *Instrumented) Close() error { return r.next.Close() }
