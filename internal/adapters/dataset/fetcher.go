// Package dataset downloads and parses the zipped SSA baby names dataset.
package dataset

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/nametrends/nametrends/internal/domain/model"
	"github.com/nametrends/nametrends/pkg/logger"
	"github.com/nametrends/nametrends/pkg/metrics"
)

// Default fetch configuration constants.
const (
	defaultFetchTimeout = 120 * time.Second

	// The SSA server rejects requests without a browser-like User-Agent.
	defaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/108.0 Safari/537.36"

	defaultDatasetURL = "https://www.ssa.gov/oact/babynames/names.zip"
)

// Fetcher downloads the zipped dataset over HTTP.
type Fetcher struct {
	url       string
	userAgent string
	client    *http.Client

	// Logging
	logger logger.Logger
}

// NewFetcher creates a dataset fetcher with configuration options.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		url:       defaultDatasetURL,
		userAgent: defaultUserAgent,
		client:    &http.Client{Timeout: defaultFetchTimeout},
		logger:    nil, // resolved on first use
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

func (f *Fetcher) log() logger.Logger {
	if f.logger == nil {
		f.logger = logger.Get().Named("dataset")
	}
	return f.logger
}

// Fetch downloads the dataset archive and returns its bytes.
func (f *Fetcher) Fetch(ctx context.Context) ([]byte, error) {
	start := time.Now()
	defer func() {
		metrics.RecordFetchDuration(float64(time.Since(start).Milliseconds()))
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		metrics.RecordErrorByComponent("dataset", "bad_request")
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	f.log().Info(ctx, "downloading dataset", logger.String("url", f.url))

	resp, err := f.client.Do(req)
	if err != nil {
		metrics.RecordErrorByComponent("dataset", "request_failed")
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.RecordErrorByComponent("dataset", "bad_status")
		return nil, fmt.Errorf("%w: %s returned %d", ErrBadStatus, f.url, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.RecordErrorByComponent("dataset", "read_failed")
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}

	metrics.UpdateFetchBytes(len(body))
	f.log().Info(ctx, "dataset downloaded",
		logger.Int("bytes", len(body)),
		logger.Duration("took", time.Since(start)),
	)
	return body, nil
}

// FetchRecords downloads and parses the dataset in one call.
func (f *Fetcher) FetchRecords(ctx context.Context) ([]model.Record, error) {
	body, err := f.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	return Parse(ctx, body)
}
