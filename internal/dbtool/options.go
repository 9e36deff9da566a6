package dbtool

import (
	"github.com/okian/skillswap/internal/domain/scoring"
	"github.com/okian/skillswap/pkg/logger"
)

// Output formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Option configures a Tool.
type Option func(*Tool)

// WithFormat selects json or yaml output.
func WithFormat(format string) Option {
	return func(t *Tool) {
		if format != "" {
			t.format = format
		}
	}
}

// WithScoringMode selects the one-way counting mode used by score and generate.
func WithScoringMode(m scoring.Mode) Option {
	return func(t *Tool) {
		if m != "" {
			t.mode = m
		}
	}
}

// WithAliases extends the built-in skill alias table.
func WithAliases(aliases map[string][]string) Option {
	return func(t *Tool) {
		t.aliases = aliases
	}
}

// WithSeed makes seed deterministic.
func WithSeed(seed uint64) Option {
	return func(t *Tool) {
		t.seed = seed
	}
}

// WithLogger sets the logger handed to the matching service.
func WithLogger(l logger.Logger) Option {
	return func(t *Tool) {
		if l != nil {
			t.logger = l
		}
	}
}
