// Package synth generates synthetic SSA-format name archives for offline
// testing. The output zip has the same layout as the real names.zip: one
// yobYYYY.txt per year with name,sex,count rows, females first, each sex
// ordered by count descending.
package synth

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/nametrends/nametrends/internal/domain/model"
	"github.com/nametrends/nametrends/pkg/logger"
)

// Sentinel errors for archive generation.
var (
	ErrInvalidConfig = errors.New("invalid generation config")
	ErrWriteArchive  = errors.New("failed to write archive")
)

// Count model constants. Popularity decays with the name's pool index; a
// slice of riser names gains popularity each year so rankings move between
// years the way real cohorts do.
const (
	baseCount      = 100000
	jitterSpread   = 0.4
	riserEvery     = 7
	riserYearBoost = 0.15
	minCount       = 5
	filePermission = 0o644
)

type row struct {
	name  string
	sex   model.Sex
	count int
}

// Run generates the archive described by config and writes it to
// config.OutputFile.
func Run(ctx context.Context, config *Config) (*Stats, error) {
	if err := validate(config); err != nil {
		return nil, err
	}

	log := logger.Get().Named("synth")
	stats := &Stats{StartTime: time.Now()}

	log.Info(ctx, "generating synthetic archive",
		logger.Int("startYear", config.StartYear),
		logger.Int("years", config.Years),
		logger.Int("namesPerSex", config.Names),
		logger.String("output", config.OutputFile),
	)

	data, err := Archive(ctx, config, stats)
	if err != nil {
		return nil, err
	}

	if err := writeFile(config.OutputFile, data); err != nil {
		return nil, err
	}

	stats.Bytes = len(data)
	stats.Duration = time.Since(stats.StartTime)
	log.Info(ctx, "archive written",
		logger.Int("years", stats.YearsWritten),
		logger.Int("rows", stats.RowsWritten),
		logger.Int("bytes", stats.Bytes),
		logger.Duration("duration", stats.Duration),
	)
	return stats, nil
}

// Archive builds the zip in memory. Stats may be nil.
func Archive(ctx context.Context, config *Config, stats *Stats) ([]byte, error) {
	if err := validate(config); err != nil {
		return nil, err
	}
	if stats == nil {
		stats = &Stats{}
	}

	rng := rand.New(rand.NewSource(config.Seed))

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	// The real archive ships a readme alongside the data files; include one
	// so consumers exercise their entry filtering.
	readme, err := zw.Create("NationalReadMe.pdf")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWriteArchive, err)
	}
	if _, err := readme.Write([]byte("synthetic dataset\n")); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWriteArchive, err)
	}

	for y := 0; y < config.Years; y++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrWriteArchive, err)
		}
		year := config.StartYear + y

		rows := yearRows(config, rng, y)
		stats.RowsWritten += len(rows)

		entry, err := zw.Create("yob" + strconv.Itoa(year) + ".txt")
		if err != nil {
			return nil, fmt.Errorf("%w: yob%d: %w", ErrWriteArchive, year, err)
		}
		for _, r := range rows {
			line := r.name + "," + string(r.sex) + "," + strconv.Itoa(r.count) + "\n"
			if _, err := entry.Write([]byte(line)); err != nil {
				return nil, fmt.Errorf("%w: yob%d: %w", ErrWriteArchive, year, err)
			}
		}
		stats.YearsWritten++
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWriteArchive, err)
	}
	return buf.Bytes(), nil
}

// yearRows produces one year of rows, females first, each sex sorted by
// count descending with name as the tiebreak.
func yearRows(config *Config, rng *rand.Rand, yearOffset int) []row {
	rows := make([]row, 0, config.Names*2)
	for _, sex := range []model.Sex{model.Female, model.Male} {
		sexRows := make([]row, 0, config.Names)
		for i := 0; i < config.Names; i++ {
			sexRows = append(sexRows, row{
				name:  syntheticName(i, sex),
				sex:   sex,
				count: nameCount(rng, i, yearOffset),
			})
		}
		sort.Slice(sexRows, func(a, b int) bool {
			if sexRows[a].count != sexRows[b].count {
				return sexRows[a].count > sexRows[b].count
			}
			return sexRows[a].name < sexRows[b].name
		})
		rows = append(rows, sexRows...)
	}
	return rows
}

// nameCount models popularity for the i-th name in a given year. Decay by
// pool index, per-draw jitter, and a yearly boost for riser names.
func nameCount(rng *rand.Rand, i, yearOffset int) int {
	base := float64(baseCount) / float64(i+1)
	jitter := 1 - jitterSpread/2 + rng.Float64()*jitterSpread
	count := base * jitter

	if i > 0 && i%riserEvery == 0 {
		count *= 1 + riserYearBoost*float64(yearOffset)
	}
	if count < minCount {
		return minCount
	}
	return int(count)
}

func validate(config *Config) error {
	switch {
	case config == nil:
		return fmt.Errorf("%w: nil config", ErrInvalidConfig)
	case config.Years < 1:
		return fmt.Errorf("%w: years must be positive", ErrInvalidConfig)
	case config.StartYear < 1880:
		return fmt.Errorf("%w: start year must be 1880 or later", ErrInvalidConfig)
	case config.Names < 1:
		return fmt.Errorf("%w: names per sex must be positive", ErrInvalidConfig)
	case config.Names > maxNamesPerSex():
		return fmt.Errorf("%w: at most %d names per sex", ErrInvalidConfig, maxNamesPerSex())
	}
	return nil
}

// writeFile writes the archive through a temp file and rename.
func writeFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteArchive, err)
	}

	tmp, err := os.CreateTemp(dir, ".synth-*")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWriteArchive, err)
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("%w: %w", ErrWriteArchive, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("%w: %w", ErrWriteArchive, err)
	}
	if err := os.Chmod(tmp.Name(), filePermission); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("%w: %w", ErrWriteArchive, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("%w: %w", ErrWriteArchive, err)
	}
	return nil
}
