package skill

import "sort"

// Option applies a configuration option to the Normalizer.
type Option func(*Normalizer)

// WithAliases appends extra canonical -> forms entries after the built-in table.
// Keys are applied in sorted order so the resulting table is stable.
func WithAliases(extra map[string][]string) Option {
	return func(n *Normalizer) {
		keys := make([]string, 0, len(extra))
		for k := range extra {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			n.table = append(n.table, Alias{Canonical: k, Forms: extra[k]})
		}
	}
}

// WithTable replaces the built-in table entirely.
func WithTable(table []Alias) Option {
	return func(n *Normalizer) {
		n.table = append([]Alias(nil), table...)
	}
}
