package skill

import (
	"fmt"
	"strings"
)

// punctuation that is treated as a word separator.
var punctReplacer = strings.NewReplacer( //nolint:gochecknoglobals // immutable replacer
	".", " ", ",", " ", "!", " ", "?", " ", ";", " ",
	":", " ", "-", " ", "_", " ", "&", " ",
)

// Normalizer reduces free-text skill names to canonical tokens.
// It is immutable after New and safe for concurrent use.
type Normalizer struct {
	table  []Alias
	lookup map[string]string
}

// New builds a Normalizer from the default alias table plus any options.
// Every canonical token must fold to itself and resolve to itself, otherwise
// Normalize would not be idempotent.
func New(opts ...Option) (*Normalizer, error) {
	n := &Normalizer{table: append([]Alias(nil), DefaultAliases...)}
	for _, opt := range opts {
		opt(n)
	}

	n.lookup = make(map[string]string)
	canonicals := make(map[string]struct{}, len(n.table))
	for _, a := range n.table {
		if a.Canonical == "" || fold(a.Canonical) != a.Canonical {
			return nil, fmt.Errorf("%w: %q", ErrInvalidCanonical, a.Canonical)
		}
		canonicals[a.Canonical] = struct{}{}
		forms := append([]string{a.Canonical}, a.Forms...)
		for _, f := range forms {
			key := fold(f)
			if key == "" {
				continue
			}
			prev, ok := n.lookup[key]
			if !ok {
				n.lookup[key] = a.Canonical
				continue
			}
			if prev != a.Canonical {
				return nil, fmt.Errorf("%w: %q maps to both %q and %q", ErrAliasConflict, f, prev, a.Canonical)
			}
		}
	}
	for c := range canonicals {
		if got := n.lookup[c]; got != c {
			return nil, fmt.Errorf("%w: canonical %q resolves to %q", ErrAliasConflict, c, got)
		}
	}
	return n, nil
}

// Must is New that panics on error. Intended for package-level defaults.
func Must(opts ...Option) *Normalizer {
	n, err := New(opts...)
	if err != nil {
		panic(err)
	}
	return n
}

// Normalize lowercases, strips separators, collapses whitespace and resolves aliases.
func (n *Normalizer) Normalize(name string) string {
	key := fold(name)
	if c, ok := n.lookup[key]; ok {
		return c
	}
	return key
}

// Aliases returns a copy of the effective alias table.
func (n *Normalizer) Aliases() []Alias {
	out := make([]Alias, len(n.table))
	for i, a := range n.table {
		out[i] = Alias{Canonical: a.Canonical, Forms: append([]string(nil), a.Forms...)}
	}
	return out
}

func fold(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = punctReplacer.Replace(s)
	return strings.Join(strings.Fields(s), " ")
}

var defaultNormalizer = Must() //nolint:gochecknoglobals // default instance

// Default returns the normalizer built from DefaultAliases.
func Default() *Normalizer { return defaultNormalizer }

// Normalize resolves name with the default normalizer.
func Normalize(name string) string { return defaultNormalizer.Normalize(name) }
