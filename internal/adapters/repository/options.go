// Package repository defines the rank index store interface and errors.
package repository

// Option applies a configuration option to the TreapStore.
type Option func(*TreapStore)

// WithCapacityHint presizes the name table for an expected index size.
func WithCapacityHint(n int) Option {
	return func(s *TreapStore) {
		if n > 0 {
			s.byName = make(map[string]int, n)
		}
	}
}
