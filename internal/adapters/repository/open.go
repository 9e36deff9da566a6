package repository

import (
	"context"
	"fmt"

	"github.com/okian/skillswap/internal/config"
)

// Open builds the repository selected by cfg.Backend, wrapped with metrics.
func Open(ctx context.Context, cfg *config.Config) (*Instrumented, error) {
	var (
		repo Repository
		err  error
	)
	switch cfg.Backend {
	case config.BackendMemory, "":
		repo = NewMemoryStore()
	case config.BackendJSON:
		repo, err = NewJSONFileStore(cfg.JSONPath)
	case config.BackendPostgres:
		pool, cerr := ConnectPostgres(ctx, cfg.DatabaseURL)
		if cerr != nil {
			return nil, cerr
		}
		repo, err = NewPostgresStore(ctx, pool)
		if err != nil {
			pool.Close()
		}
	case config.BackendRedis:
		client, cerr := ConnectRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if cerr != nil {
			return nil, cerr
		}
		repo = NewRedisStore(client)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s repository: %w", cfg.Backend, err)
	}
	backend := cfg.Backend
	if backend == "" {
		backend = config.BackendMemory
	}
	return NewInstrumented(repo, backend), nil
}
