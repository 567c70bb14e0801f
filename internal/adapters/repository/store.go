// Package repository defines the rank index store interface and errors.
package repository

import (
	"context"

	"github.com/nametrends/nametrends/internal/domain/types"
)

// Entry represents one ranked name within a single (year, sex) index.
type Entry = types.RankedName

// Store provides read/write access to one rank index.
type Store interface {
	// Add records the registration count for a name, replacing any
	// previous count for the same name.
	Add(ctx context.Context, name string, count int) error

	// Rank returns the current rank and count for a name.
	// Returns ErrNotFound if the name is unknown.
	Rank(ctx context.Context, name string) (Entry, error)

	// TopN returns the top-N entries ordered by count desc, name asc.
	TopN(ctx context.Context, n int) ([]Entry, error)

	// All returns every entry in rank order.
	All(ctx context.Context) []Entry

	// Count returns the number of names tracked in the index.
	Count(ctx context.Context) int
}
