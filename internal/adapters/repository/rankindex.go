package repository

import (
	"context"
	"sort"
	"strconv"
	"sync"

	"github.com/nametrends/nametrends/internal/domain/model"
	"github.com/nametrends/nametrends/internal/domain/types"
	"github.com/nametrends/nametrends/pkg/metrics"
)

// IndexKey identifies one rank index by dataset year and sex.
type IndexKey struct {
	Year int
	Sex  model.Sex
}

// String renders the key for logs and metric labels, e.g. "2023-F".
func (k IndexKey) String() string {
	return strconv.Itoa(k.Year) + "-" + string(k.Sex)
}

// RankIndex aggregates one treap store per (year, sex) and answers
// cross-year queries over them.
type RankIndex struct {
	mu      sync.RWMutex
	indexes map[IndexKey]*TreapStore
}

// NewRankIndex creates an empty rank index aggregate.
func NewRankIndex(ctx context.Context) *RankIndex {
	return &RankIndex{
		indexes: make(map[IndexKey]*TreapStore),
	}
}

// Add routes a dataset record into its (year, sex) index.
func (x *RankIndex) Add(ctx context.Context, rec model.Record) error {
	key := IndexKey{Year: rec.Year, Sex: rec.Sex}

	x.mu.Lock()
	store, ok := x.indexes[key]
	if !ok {
		store = NewTreapStore(ctx)
		x.indexes[key] = store
	}
	x.mu.Unlock()

	return store.Add(ctx, rec.Name, rec.Count)
}

// Freeze publishes snapshots for every index and refreshes gauges. Call it
// once the dataset load is complete.
func (x *RankIndex) Freeze(ctx context.Context) {
	x.mu.RLock()
	defer x.mu.RUnlock()

	total := 0
	for key, store := range x.indexes {
		store.Freeze(ctx)
		n := store.Count(ctx)
		total += n
		metrics.UpdateIndexRecords(key.String(), n)
	}
	metrics.UpdateIndexCount(len(x.indexes))
	metrics.UpdateIndexRecordsTotal(total)
}

// Years returns every dataset year present, ascending.
func (x *RankIndex) Years(ctx context.Context) []int {
	x.mu.RLock()
	defer x.mu.RUnlock()

	seen := make(map[int]struct{})
	for key := range x.indexes {
		seen[key.Year] = struct{}{}
	}
	years := make([]int, 0, len(seen))
	for y := range seen {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}

// Index returns the store for a (year, sex) pair, or nil when absent.
func (x *RankIndex) Index(ctx context.Context, year int, sex model.Sex) Store {
	x.mu.RLock()
	defer x.mu.RUnlock()

	store, ok := x.indexes[IndexKey{Year: year, Sex: sex}]
	if !ok {
		return nil
	}
	return store
}

// Ordered returns the full (year, sex) index in rank order, or nil when the
// index does not exist.
func (x *RankIndex) Ordered(ctx context.Context, year int, sex model.Sex) []Entry {
	store := x.Index(ctx, year, sex)
	if store == nil {
		return nil
	}
	return store.All(ctx)
}

// Rank returns a name's entry in the given (year, sex) index.
func (x *RankIndex) Rank(ctx context.Context, year int, sex model.Sex, name string) (Entry, error) {
	store := x.Index(ctx, year, sex)
	if store == nil {
		return Entry{}, ErrNotFound
	}
	return store.Rank(ctx, name)
}

// History returns a name's rank for every year it appears in, ascending by
// year. Names absent from a year are simply omitted, mirroring the dataset.
func (x *RankIndex) History(ctx context.Context, name string, sex model.Sex) []types.YearRank {
	years := x.Years(ctx)

	history := make([]types.YearRank, 0, len(years))
	for _, year := range years {
		entry, err := x.Rank(ctx, year, sex, name)
		if err != nil {
			continue
		}
		history = append(history, types.YearRank{Year: year, Rank: entry.Rank})
	}
	return history
}

// Count returns the total number of names tracked across all indexes.
func (x *RankIndex) Count(ctx context.Context) int {
	x.mu.RLock()
	defer x.mu.RUnlock()

	total := 0
	for _, store := range x.indexes {
		total += store.Count(ctx)
	}
	return total
}

// Len returns the number of (year, sex) indexes.
func (x *RankIndex) Len(ctx context.Context) int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.indexes)
}
