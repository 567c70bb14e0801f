package dataset

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"runtime"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/nametrends/nametrends/internal/domain/model"
	"github.com/nametrends/nametrends/pkg/metrics"
)

// Dataset entry naming: one CSV file per year, e.g. "yob2023.txt" with
// rows of the form name,sex,count.
const (
	entryPrefix = "yob"
	entrySuffix = ".txt"
	fieldCount  = 3
)

// Parse extracts all records from the zipped dataset. Zip entries are parsed
// concurrently; malformed rows are counted and skipped.
func Parse(ctx context.Context, zipBytes []byte) ([]model.Record, error) {
	zr, err := zip.NewReader(bytes.NewReader(zipBytes), int64(len(zipBytes)))
	if err != nil {
		metrics.RecordErrorByComponent("dataset", "bad_archive")
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}

	var (
		mu      sync.Mutex
		records []model.Record
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	for _, zf := range zr.File {
		zf := zf
		year, ok := entryYear(zf.Name)
		if !ok {
			continue
		}

		g.Go(func() error {
			recs, err := parseEntry(ctx, zf, year)
			if err != nil {
				return err
			}
			mu.Lock()
			records = append(records, recs...)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if len(records) == 0 {
		metrics.RecordErrorByComponent("dataset", "empty")
		return nil, ErrEmptyDataset
	}

	metrics.UpdateDatasetRecords(len(records))
	metrics.UpdateDatasetYears(countYears(records))
	return records, nil
}

// entryYear extracts the year from a dataset entry name like "yob2023.txt".
func entryYear(name string) (int, bool) {
	if !strings.HasPrefix(name, entryPrefix) || !strings.HasSuffix(name, entrySuffix) {
		return 0, false
	}
	year, err := strconv.Atoi(name[len(entryPrefix) : len(name)-len(entrySuffix)])
	if err != nil || year < 1880 {
		return 0, false
	}
	return year, true
}

// parseEntry reads one yob file into records.
func parseEntry(ctx context.Context, zf *zip.File, year int) ([]model.Record, error) {
	rc, err := zf.Open()
	if err != nil {
		metrics.RecordErrorByComponent("dataset", "entry_open_failed")
		return nil, fmt.Errorf("%w: open %s: %w", ErrParse, zf.Name, err)
	}
	defer func() { _ = rc.Close() }()

	reader := csv.NewReader(rc)
	reader.FieldsPerRecord = -1 // validated per row

	var records []model.Record
	for {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %w", ErrParse, ctx.Err())
		default:
		}

		row, err := reader.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			metrics.RecordMalformedRow()
			continue
		}

		rec, ok := parseRow(row, year)
		if !ok {
			metrics.RecordMalformedRow()
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

// parseRow converts one CSV row (name,sex,count) into a record.
func parseRow(row []string, year int) (model.Record, bool) {
	if len(row) != fieldCount {
		return model.Record{}, false
	}

	name := strings.TrimSpace(row[0])
	if name == "" {
		return model.Record{}, false
	}

	sex, err := model.ParseSex(strings.TrimSpace(row[1]))
	if err != nil {
		return model.Record{}, false
	}

	count, err := strconv.Atoi(strings.TrimSpace(row[2]))
	if err != nil || count < 1 {
		return model.Record{}, false
	}

	return model.Record{Name: name, Sex: sex, Year: year, Count: count}, true
}

// countYears returns the number of distinct years in a record set.
func countYears(records []model.Record) int {
	years := make(map[int]struct{})
	for _, rec := range records {
		years[rec.Year] = struct{}{}
	}
	return len(years)
}
