package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/okian/skillswap/internal/domain/model"
	"github.com/okian/skillswap/internal/domain/scoring"
)

// Pool defaults.
const (
	pgMaxConns          = 10
	pgMaxConnLifetime   = time.Hour
	pgHealthCheckPeriod = 30 * time.Second
)

// PostgresStore implements Repository on PostgreSQL through pgx.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// ConnectPostgres opens a pgx pool and pings it.
func ConnectPostgres(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse pgx config: %w", err)
	}
	cfg.MaxConns = pgMaxConns
	cfg.MaxConnLifetime = pgMaxConnLifetime
	cfg.HealthCheckPeriod = pgHealthCheckPeriod

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open pgx pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return pool, nil
}

// NewPostgresStore wraps pool and makes sure the schema exists. The store owns the pool.
func NewPostgresStore(ctx context.Context, pool *pgxpool.Pool) (*PostgresStore, error) {
	s := &PostgresStore{pool: pool}
	if err := s.ensureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return s, nil
}

func (s *PostgresStore) ensureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS profiles (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL DEFAULT '',
			college TEXT NOT NULL DEFAULT '',
			branch TEXT NOT NULL DEFAULT '',
			year TEXT NOT NULL DEFAULT '',
			bio TEXT NOT NULL DEFAULT '',
			avatar_url TEXT NOT NULL DEFAULT '',
			skills_teach TEXT[] NOT NULL DEFAULT '{}',
			skills_learn TEXT[] NOT NULL DEFAULT '{}',
			is_profile_complete BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		);
		CREATE TABLE IF NOT EXISTS matches (
			id TEXT PRIMARY KEY,
			user1_id TEXT NOT NULL,
			user2_id TEXT NOT NULL,
			generated_by TEXT NOT NULL DEFAULT '',
			match_score INTEGER NOT NULL,
			match_type TEXT NOT NULL,
			match_reasons JSONB NOT NULL DEFAULT '[]',
			match_mutual_skills JSONB NOT NULL DEFAULT '[]',
			match_one_way_for_user JSONB NOT NULL DEFAULT '[]',
			match_one_way_from_user JSONB NOT NULL DEFAULT '[]',
			status TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL,
			UNIQUE (user1_id, user2_id),
			CHECK (user1_id < user2_id)
		);
		CREATE INDEX IF NOT EXISTS matches_user2_id_idx ON matches (user2_id);
	`)
	return err
}

const profileColumns = `id, user_id, name, college, branch, year, bio, avatar_url,
	skills_teach, skills_learn, is_profile_complete, created_at, updated_at`

func scanProfile(row pgx.Row) (model.Profile, error) {
	var p model.Profile
	err := row.Scan(&p.ID, &p.UserID, &p.Name, &p.College, &p.Branch, &p.Year, &p.Bio, &p.AvatarURL,
		&p.SkillsTeach, &p.SkillsLearn, &p.IsProfileComplete, &p.CreatedAt, &p.UpdatedAt)
	p.CreatedAt = p.CreatedAt.UTC()
	p.UpdatedAt = p.UpdatedAt.UTC()
	return p, err
}

func (s *PostgresStore) LoadProfile(ctx context.Context, userID string) (model.Profile, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+profileColumns+` FROM profiles WHERE user_id = $1`, userID)
	p, err := scanProfile(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Profile{}, fmt.Errorf("profile %s: %w", userID, ErrNotFound)
		}
		return model.Profile{}, fmt.Errorf("load profile %s: %w", userID, err)
	}
	return p, nil
}

func (s *PostgresStore) ListCandidates(ctx context.Context, excludeUserID string) ([]model.Profile, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE user_id <> $1 ORDER BY user_id COLLATE "C"`, excludeUserID)
	if err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
	}
	defer rows.Close()

	out := make([]model.Profile, 0)
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("scan profile: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) UpsertProfile(ctx context.Context, p model.Profile) (model.Profile, error) {
	at := now()
	p, err := prepareProfile(p, nil, at)
	if err != nil {
		return model.Profile{}, err
	}
	// On conflict the stored id and created_at win.
	row := s.pool.QueryRow(ctx, `
		INSERT INTO profiles (`+profileColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (user_id) DO UPDATE SET
			name = EXCLUDED.name,
			college = EXCLUDED.college,
			branch = EXCLUDED.branch,
			year = EXCLUDED.year,
			bio = EXCLUDED.bio,
			avatar_url = EXCLUDED.avatar_url,
			skills_teach = EXCLUDED.skills_teach,
			skills_learn = EXCLUDED.skills_learn,
			is_profile_complete = EXCLUDED.is_profile_complete,
			updated_at = EXCLUDED.updated_at
		RETURNING `+profileColumns,
		p.ID, p.UserID, p.Name, p.College, p.Branch, p.Year, p.Bio, p.AvatarURL,
		p.SkillsTeach, p.SkillsLearn, p.IsProfileComplete, p.CreatedAt, p.UpdatedAt)
	out, err := scanProfile(row)
	if err != nil {
		return model.Profile{}, fmt.Errorf("upsert profile %s: %w", p.UserID, err)
	}
	return out, nil
}

const matchColumns = `id, user1_id, user2_id, generated_by, match_score, match_type, match_reasons,
	match_mutual_skills, match_one_way_for_user, match_one_way_from_user, status, created_at, updated_at`

func scanMatch(row pgx.Row) (model.Match, error) {
	var (
		m      model.Match
		tier   string
		status string
	)
	err := row.Scan(&m.ID, &m.User1ID, &m.User2ID, &m.GeneratedBy, &m.Score, &tier, &m.Reasons,
		&m.MutualSkills, &m.OneWayForUser, &m.OneWayFromUser, &status, &m.CreatedAt, &m.UpdatedAt)
	m.Tier = scoring.Tier(tier)
	m.Status = model.Status(status)
	m.CreatedAt = m.CreatedAt.UTC()
	m.UpdatedAt = m.UpdatedAt.UTC()
	return m, err
}

func (s *PostgresStore) SaveMatch(ctx context.Context, m model.Match) (model.Match, error) {
	m, err := prepareMatch(m, nil, now())
	if err != nil {
		return model.Match{}, err
	}
	row := s.pool.QueryRow(ctx, `
		INSERT INTO matches (`+matchColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (user1_id, user2_id) DO UPDATE SET
			generated_by = EXCLUDED.generated_by,
			match_score = EXCLUDED.match_score,
			match_type = EXCLUDED.match_type,
			match_reasons = EXCLUDED.match_reasons,
			match_mutual_skills = EXCLUDED.match_mutual_skills,
			match_one_way_for_user = EXCLUDED.match_one_way_for_user,
			match_one_way_from_user = EXCLUDED.match_one_way_from_user,
			status = EXCLUDED.status,
			updated_at = EXCLUDED.updated_at
		RETURNING `+matchColumns,
		m.ID, m.User1ID, m.User2ID, m.GeneratedBy, m.Score, string(m.Tier), m.Reasons,
		m.MutualSkills, m.OneWayForUser, m.OneWayFromUser, string(m.Status), m.CreatedAt, m.UpdatedAt)
	out, err := scanMatch(row)
	if err != nil {
		return model.Match{}, fmt.Errorf("save match %s: %w", m.Pair().Key(), err)
	}
	return out, nil
}

func (s *PostgresStore) ListMatches(ctx context.Context, userID string) ([]model.Match, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+matchColumns+` FROM matches
		WHERE user1_id = $1 OR user2_id = $1
		ORDER BY match_score DESC, user1_id COLLATE "C", user2_id COLLATE "C"`, userID)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	defer rows.Close()

	out := make([]model.Match, 0)
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			return nil, fmt.Errorf("scan match: %w", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
