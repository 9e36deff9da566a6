package service

import (
	"github.com/okian/skillswap/internal/adapters/repository"
	"github.com/okian/skillswap/internal/domain/scoring"
	"github.com/okian/skillswap/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithRepository sets the profile and match store. Defaults to an in-memory store.
func WithRepository(repo repository.Repository) Option {
	return func(s *Service) {
		if repo != nil {
			s.repo = repo
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithScoringMode selects legacy or strict one-way counting.
func WithScoringMode(m scoring.Mode) Option {
	return func(s *Service) {
		if m != "" {
			s.scoringMode = m
		}
	}
}

// WithAliases extends the built-in skill alias table.
func WithAliases(aliases map[string][]string) Option {
	return func(s *Service) {
		s.aliases = aliases
	}
}

// WithBuildConcurrency bounds the goroutines scoring one candidate pool.
func WithBuildConcurrency(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.buildConcurrency = n
		}
	}
}

// WithWorkerCount sets the number of regeneration workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the capacity of the regeneration queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize bounds the number of tracked pending regenerations.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}
