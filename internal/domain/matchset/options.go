package matchset

import (
	"github.com/okian/skillswap/internal/domain/scoring"
	"github.com/okian/skillswap/internal/domain/skill"
)

// Option applies a configuration option to the Builder.
type Option func(*Builder)

// WithNormalizer sets the skill normalizer.
func WithNormalizer(n *skill.Normalizer) Option {
	return func(b *Builder) {
		if n != nil {
			b.normalizer = n
		}
	}
}

// WithScorer sets the pair scorer.
func WithScorer(s *scoring.Scorer) Option {
	return func(b *Builder) {
		if s != nil {
			b.scorer = s
		}
	}
}

// WithConcurrency bounds how many candidates are scored at once. Values below 1 mean 1.
func WithConcurrency(n int) Option {
	return func(b *Builder) {
		if n > 0 {
			b.concurrency = n
		}
	}
}
