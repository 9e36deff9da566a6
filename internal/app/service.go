// Package service wires the matching domain to storage and the regeneration
// queue, and implements the dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	regenqueue "github.com/okian/skillswap/internal/adapters/mq/queue"
	workerpool "github.com/okian/skillswap/internal/adapters/mq/worker"
	"github.com/okian/skillswap/internal/adapters/repository"
	"github.com/okian/skillswap/internal/domain/dedupe"
	"github.com/okian/skillswap/internal/domain/matchset"
	"github.com/okian/skillswap/internal/domain/model"
	"github.com/okian/skillswap/internal/domain/scoring"
	"github.com/okian/skillswap/internal/domain/skill"
	"github.com/okian/skillswap/internal/domain/types"
	"github.com/okian/skillswap/pkg/logger"
	"github.com/okian/skillswap/pkg/metrics"
)

func userFrom(in types.ScoreInput) matchset.User {
	return matchset.User{ID: in.UserID, Teaches: in.Teaches, Wants: in.Wants, Attributes: in.Attributes()}
}

// Service implements the API dependencies for the matching system.
type Service struct {
	mu sync.RWMutex

	repo       repository.Repository
	normalizer *skill.Normalizer
	builder    *matchset.Builder
	deduper    dedupe.Deduper
	queue      *regenqueue.InMemoryQueue
	pool       *workerpool.Pool
	cancel     context.CancelFunc

	scoringMode      scoring.Mode
	aliases          map[string][]string
	buildConcurrency int
	workerCount      int
	queueSize        int
	dedupeSize       int

	initErr error
	started bool

	logger logger.Logger
}

// New constructs a Service. Alias table errors are reported by Start.
func New(opts ...Option) *Service {
	s := &Service{
		scoringMode:      scoring.ModeLegacy,
		buildConcurrency: runtime.NumCPU(),
		workerCount:      runtime.NumCPU(),
		queueSize:        1024,
		dedupeSize:       10000,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	if s.repo == nil {
		s.repo = repository.NewMemoryStore()
	}

	s.normalizer = skill.Default()
	if len(s.aliases) > 0 {
		n, err := skill.New(skill.WithAliases(s.aliases))
		if err != nil {
			s.initErr = fmt.Errorf("skill aliases: %w", err)
		} else {
			s.normalizer = n
		}
	}
	s.builder = matchset.NewBuilder(
		matchset.WithNormalizer(s.normalizer),
		matchset.WithScorer(scoring.NewScorer(scoring.WithMode(s.scoringMode))),
		matchset.WithConcurrency(s.buildConcurrency),
	)
	return s
}

// Start starts the regeneration queue and worker pool.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.initErr != nil {
		return s.initErr
	}
	if s.started {
		return nil
	}

	s.logger.Info(ctx, "starting matching service...")

	s.deduper = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize))
	s.queue = regenqueue.NewInMemoryQueue(regenqueue.WithCapacity(s.queueSize))

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.cancel = cancel
	deduper := s.deduper
	s.pool = workerpool.NewPool(s.workerCount, s.queue,
		workerpool.GeneratorFunc(s.regenerate),
		workerpool.WithLogger(s.logger.Named("worker")),
		workerpool.WithRelease(func(userID string) { deduper.Unrecord(runCtx, userID) }),
	)
	s.pool.Start(runCtx)

	s.started = true
	s.logger.Info(ctx, "matching service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("dedupeSize", s.dedupeSize),
		logger.String("scoringMode", string(s.scoringMode)),
	)
	return nil
}

// Stop drains the regeneration queue and stops the workers. The repository is
// owned by the caller and stays open.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx := context.Background()
	s.logger.Info(ctx, "stopping matching service...")

	if err := s.pool.Shutdown(ctx); err != nil {
		s.logger.Warn(ctx, "worker pool shutdown", logger.Error(err))
	}
	s.cancel()

	s.started = false
	s.logger.Info(ctx, "matching service stopped")
}

func (s *Service) regenerate(ctx context.Context, userID string) error {
	_, err := s.GenerateMatches(ctx, userID)
	return err
}

// GenerateMatches scores every other profile against userID, upserts the
// surviving results and returns them in ranking order.
func (s *Service) GenerateMatches(ctx context.Context, userID string) (types.GenerateReport, error) {
	report := types.GenerateReport{UserID: userID, Matches: []model.Match{}}
	if strings.TrimSpace(userID) == "" {
		return report, ErrInvalidUserID
	}

	current, err := s.repo.LoadProfile(ctx, userID)
	if err != nil {
		return report, fmt.Errorf("load profile: %w", err)
	}
	if !current.HasSkills() {
		s.logger.Debug(ctx, "profile has no skills, nothing to match", logger.String("user_id", userID))
		return report, nil
	}

	candidates, err := s.repo.ListCandidates(ctx, userID)
	if err != nil {
		return report, fmt.Errorf("list candidates: %w", err)
	}
	pool := make([]matchset.Candidate, len(candidates))
	for i, p := range candidates {
		pool[i] = matchset.FromProfile(p)
	}

	start := time.Now()
	batch, err := s.builder.Build(ctx, matchset.FromProfile(current), pool)
	if err != nil {
		return report, err
	}
	metrics.RecordBuild(batch.Scored, len(batch.Skipped), float64(time.Since(start).Milliseconds()))
	for _, sk := range batch.Skipped {
		s.logger.Warn(ctx, "candidate skipped",
			logger.String("user_id", userID),
			logger.String("candidate_id", sk.CandidateID),
			logger.Error(sk.Err),
		)
	}

	at := time.Now().UTC()
	for _, e := range batch.Matches {
		saved, err := s.repo.SaveMatch(ctx, model.NewMatch(e.Pair, userID, e.Result, at))
		if err != nil {
			return report, fmt.Errorf("save match %s: %w", e.Pair.Key(), err)
		}
		metrics.RecordMatch(saved.Score, string(saved.Tier))
		report.Matches = append(report.Matches, saved)
	}
	report.Scored = batch.Scored
	report.Skipped = len(batch.Skipped)

	s.logger.Info(ctx, "matches generated",
		logger.String("user_id", userID),
		logger.Int("candidates", len(pool)),
		logger.Int("matches", len(report.Matches)),
		logger.Int("skipped", report.Skipped),
	)
	return report, nil
}

// RequestRegeneration queues a background GenerateMatches for userID.
// A request for a user that is already pending is coalesced.
func (s *Service) RequestRegeneration(ctx context.Context, userID string) (types.Ack, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ack := types.Ack{UserID: userID}
	if !s.started {
		return ack, ErrNotStarted
	}
	if strings.TrimSpace(userID) == "" {
		return ack, ErrInvalidUserID
	}
	if _, err := s.repo.LoadProfile(ctx, userID); err != nil {
		return ack, fmt.Errorf("load profile: %w", err)
	}

	if s.deduper.SeenAndRecord(ctx, userID) {
		metrics.RecordQueueDeduplicated()
		ack.Coalesced = true
		return ack, nil
	}
	if !s.queue.Enqueue(ctx, model.RegenerateRequest{UserID: userID, RequestedAt: time.Now()}) {
		s.deduper.Unrecord(ctx, userID)
		return ack, ErrBackpressure
	}
	ack.Queued = true
	return ack, nil
}

// UserMatches returns stored matches involving userID, best first.
// A non-positive limit returns all of them.
func (s *Service) UserMatches(ctx context.Context, userID string, limit int) ([]model.Match, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrInvalidUserID
	}
	ms, err := s.repo.ListMatches(ctx, userID)
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(ms) > limit {
		ms = ms[:limit]
	}
	return ms, nil
}

// ScorePair scores two stored profiles from userA's perspective.
func (s *Service) ScorePair(ctx context.Context, userA, userB string) (scoring.Result, error) {
	a, err := s.repo.LoadProfile(ctx, userA)
	if err != nil {
		return scoring.Result{}, fmt.Errorf("load profile: %w", err)
	}
	b, err := s.repo.LoadProfile(ctx, userB)
	if err != nil {
		return scoring.Result{}, fmt.Errorf("load profile: %w", err)
	}
	return s.builder.ScorePair(matchset.FromProfile(a), matchset.FromProfile(b)), nil
}

// Score scores two raw profiles without touching storage.
func (s *Service) Score(current, other types.ScoreInput) scoring.Result {
	return s.builder.ScorePair(userFrom(current), userFrom(other))
}

// UpsertProfile creates or replaces the profile of p.UserID.
func (s *Service) UpsertProfile(ctx context.Context, p model.Profile) (model.Profile, error) {
	p.UserID = strings.TrimSpace(p.UserID)
	if p.UserID == "" {
		return model.Profile{}, ErrInvalidUserID
	}
	return s.repo.UpsertProfile(ctx, p)
}

// Profile returns the stored profile of userID.
func (s *Service) Profile(ctx context.Context, userID string) (model.Profile, error) {
	return s.repo.LoadProfile(ctx, userID)
}

// Browse lists every other profile with the stored match score against
// userID. Profiles without a stored match get score zero. Reasons of a match
// generated by the other user are rewritten to read from userID's side.
func (s *Service) Browse(ctx context.Context, userID string) ([]types.BrowseEntry, error) {
	if _, err := s.repo.LoadProfile(ctx, userID); err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	others, err := s.repo.ListCandidates(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
	}
	stored, err := s.repo.ListMatches(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	byOther := make(map[string]model.Match, len(stored))
	for _, m := range stored {
		byOther[m.Pair().Other(userID)] = m
	}

	out := make([]types.BrowseEntry, 0, len(others))
	for _, p := range others {
		e := types.BrowseEntry{Profile: p, Tier: scoring.TierFor(0), Reasons: []string{}}
		if m, ok := byOther[p.UserID]; ok {
			e.Score, e.Tier, e.Reasons, e.Matched = m.Score, m.Tier, m.Reasons, true
			if m.GeneratedBy != userID {
				e.Reasons = scoring.FlipReasons(m.Reasons)
			}
		}
		out = append(out, e)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats(ctx context.Context) map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]any{
		"started":          s.started,
		"workerCount":      s.workerCount,
		"queueSize":        s.queueSize,
		"dedupeSize":       s.dedupeSize,
		"buildConcurrency": s.buildConcurrency,
		"scoringMode":      string(s.scoringMode),
	}

	if profiles, err := s.repo.ListCandidates(ctx, ""); err == nil {
		stats["totalProfiles"] = len(profiles)
		metrics.UpdateProfilesTotal(len(profiles))
	}
	if s.started {
		queueLen := s.queue.Len(ctx)
		stats["queueLength"] = queueLen
		stats["pendingRegenerations"] = s.deduper.Size()
		metrics.UpdateQueueSize(queueLen)
	}
	return stats
}
