package scoring

import (
	"fmt"
	"strings"
)

// Mode selects how one-way matches are counted.
type Mode string

const (
	// ModeLegacy counts every one-way entry, including synonyms listed twice.
	ModeLegacy Mode = "legacy"
	// ModeStrict counts each one-way token at most once per direction.
	ModeStrict Mode = "strict"
)

// ParseMode converts a config value into a Mode. Empty means legacy.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeLegacy:
		return ModeLegacy, nil
	case ModeStrict:
		return ModeStrict, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
}

// Option applies a configuration option to the Scorer.
type Option func(*Scorer)

// WithMode sets the one-way counting mode.
func WithMode(m Mode) Option {
	return func(s *Scorer) {
		if m == ModeLegacy || m == ModeStrict {
			s.mode = m
		}
	}
}
