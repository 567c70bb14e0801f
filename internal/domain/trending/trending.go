// Package trending computes the names climbing fastest between the two most
// recent dataset years.
package trending

import (
	"context"
	"sort"
	"time"

	"github.com/nametrends/nametrends/internal/domain/model"
	"github.com/nametrends/nametrends/internal/domain/types"
	"github.com/nametrends/nametrends/pkg/metrics"
)

// Default trending configuration constants.
const (
	defaultTopN = 100
)

// Option applies a configuration option to the Calculator.
type Option func(*Calculator)

// WithTopN caps the number of entries per trending list.
func WithTopN(n int) Option {
	return func(c *Calculator) {
		if n > 0 {
			c.topN = n
		}
	}
}

// Ranker abstracts the rank lookups the calculator needs.
type Ranker interface {
	// Years returns every dataset year present, ascending.
	Years(ctx context.Context) []int
	// Rank returns a name's entry in the given (year, sex) index.
	Rank(ctx context.Context, year int, sex model.Sex, name string) (types.RankedName, error)
	// Ordered returns the full (year, sex) index in rank order.
	Ordered(ctx context.Context, year int, sex model.Sex) []types.RankedName
}

// Result is the trending list for one sex, tagged with the year pair
// it was computed from.
type Result struct {
	Sex          model.Sex
	CurrentYear  int
	PreviousYear int
	Entries      []types.TrendingEntry
}

// Calculator ranks names by rank improvement across consecutive years.
type Calculator struct {
	ranker Ranker
	topN   int
}

// NewCalculator creates a trending calculator with configuration options.
func NewCalculator(ranker Ranker, opts ...Option) *Calculator {
	c := &Calculator{
		ranker: ranker,
		topN:   defaultTopN,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Calculate builds the trending list for one sex. A name qualifies only when
// it is ranked in both of the two most recent years; improvement is how many
// positions it climbed. Fewer than two dataset years yields an empty result.
func (c *Calculator) Calculate(ctx context.Context, sex model.Sex) (Result, error) {
	return c.build(ctx, sex, []model.Sex{sex})
}

// Combined builds one trending list spanning both sexes. This is the list the
// index page is built from.
func (c *Calculator) Combined(ctx context.Context) (Result, error) {
	return c.build(ctx, "", model.Sexes())
}

func (c *Calculator) build(ctx context.Context, tag model.Sex, sexes []model.Sex) (Result, error) {
	start := time.Now()
	defer func() {
		metrics.RecordIndexQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	years := c.ranker.Years(ctx)
	if len(years) < 2 {
		return Result{Sex: tag}, nil
	}
	current := years[len(years)-1]
	previous := years[len(years)-2]

	entries := make([]types.TrendingEntry, 0, c.topN)
	for _, sex := range sexes {
		for _, cur := range c.ranker.Ordered(ctx, current, sex) {
			if err := ctx.Err(); err != nil {
				return Result{}, err
			}

			prev, err := c.ranker.Rank(ctx, previous, sex, cur.Name)
			if err != nil {
				continue // new entrants have no previous rank
			}

			entries = append(entries, types.TrendingEntry{
				Name:         cur.Name,
				Sex:          string(sex),
				CurrentRank:  cur.Rank,
				PreviousRank: prev.Rank,
				Improvement:  prev.Rank - cur.Rank,
			})
		}
	}

	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.Improvement != b.Improvement {
			return a.Improvement > b.Improvement
		}
		if a.CurrentRank != b.CurrentRank {
			return a.CurrentRank < b.CurrentRank
		}
		return a.Name < b.Name
	})

	if len(entries) > c.topN {
		entries = entries[:c.topN]
	}
	for i := range entries {
		entries[i].Rank = i + 1
	}

	return Result{
		Sex:          tag,
		CurrentYear:  current,
		PreviousYear: previous,
		Entries:      entries,
	}, nil
}
