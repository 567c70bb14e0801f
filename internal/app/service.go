// Package service provides the core build service that implements the
// dependencies required by the HTTP API and the daily scheduler.
package service

import (
	"context"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	dataset "github.com/nametrends/nametrends/internal/adapters/dataset"
	repository "github.com/nametrends/nametrends/internal/adapters/repository"
	"github.com/nametrends/nametrends/internal/domain/manifest"
	"github.com/nametrends/nametrends/internal/domain/model"
	"github.com/nametrends/nametrends/internal/domain/types"
	"github.com/nametrends/nametrends/pkg/logger"
	"github.com/nametrends/nametrends/pkg/metrics"
)

// Default service configuration constants.
const (
	defaultOutputDir   = "site"
	defaultTopN        = 100
	defaultQueueSize   = 1024
	defaultScheduleHr  = 6
	defaultScheduleMin = 30
)

// Source supplies dataset records for a build.
type Source interface {
	FetchRecords(ctx context.Context) ([]model.Record, error)
}

// Service coordinates builds and answers API queries from the most recent
// completed build.
type Service struct {
	mu sync.RWMutex

	// Core components
	source  Source
	tracker manifest.Tracker

	// Latest build products
	index    *repository.RankIndex
	trending []types.TrendingEntry

	// Configuration
	outputDir       string
	baseURL         string
	siteName        string
	description     string
	productLinkBase string
	affiliateID     string
	topN            int
	workerCount     int
	queueSize       int
	scheduleHour    int
	scheduleMinute  int
	location        *time.Location

	// State
	started   bool
	building  bool
	lastBuild BuildResult
	stopCh    chan struct{}

	// Logging
	logger logger.Logger
}

// BuildResult summarizes one completed build.
type BuildResult struct {
	ID       string        `json:"id"`
	Started  time.Time     `json:"started"`
	Duration time.Duration `json:"duration"`
	Records  int           `json:"records"`
	Years    int           `json:"years"`
	Pages    int           `json:"pages"`
	Written  int           `json:"written"`
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithSource sets the dataset source for builds.
func WithSource(source Source) Option {
	return func(s *Service) {
		if source != nil {
			s.source = source
		}
	}
}

// WithOutputDir sets the directory the site is published into.
func WithOutputDir(dir string) Option {
	return func(s *Service) {
		if dir != "" {
			s.outputDir = dir
		}
	}
}

// WithBaseURL sets the public URL the sitemap resolves pages against.
func WithBaseURL(url string) Option {
	return func(s *Service) {
		if url != "" {
			s.baseURL = url
		}
	}
}

// WithSiteMetadata sets the site title and index page description.
func WithSiteMetadata(name, description string) Option {
	return func(s *Service) {
		if name != "" {
			s.siteName = name
		}
		s.description = description
	}
}

// WithAffiliate sets the product link base and the affiliate ID appended to
// outbound links.
func WithAffiliate(linkBase, affiliateID string) Option {
	return func(s *Service) {
		s.productLinkBase = linkBase
		s.affiliateID = affiliateID
	}
}

// WithTopN caps the trending list length.
func WithTopN(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.topN = n
		}
	}
}

// WithWorkerCount sets the number of render worker goroutines.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum size of the render queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithSchedule sets the daily rebuild wall-clock time and timezone.
func WithSchedule(hour, minute int, loc *time.Location) Option {
	return func(s *Service) {
		if hour >= 0 && hour < 24 && minute >= 0 && minute < 60 {
			s.scheduleHour = hour
			s.scheduleMinute = minute
		}
		if loc != nil {
			s.location = loc
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		outputDir:      defaultOutputDir,
		siteName:       "NameTrends",
		topN:           defaultTopN,
		workerCount:    runtime.NumCPU() * 2,
		queueSize:      defaultQueueSize,
		scheduleHour:   defaultScheduleHr,
		scheduleMinute: defaultScheduleMin,
		location:       time.UTC,
		stopCh:         make(chan struct{}),
		logger:         nil, // will be replaced when service starts
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start prepares the service: logger, manifest. It does not build; call
// Build or Run for that.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	if s.source == nil {
		s.source = dataset.NewFetcher()
	}

	s.tracker = manifest.NewTracker(
		manifest.WithFile(filepath.Join(s.outputDir, ".manifest.json")),
	)
	if err := s.tracker.Load(ctx); err != nil {
		s.logger.Warn(ctx, "manifest load failed, starting fresh", logger.Error(err))
	}

	s.started = true
	s.logger.Info(ctx, "build service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.String("outputDir", s.outputDir),
		logger.Int("manifestEntries", int(s.tracker.Size())),
	)

	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	select {
	case <-s.stopCh:
		// Channel already closed
	default:
		close(s.stopCh)
	}

	s.started = false
	s.logger.Info(context.Background(), "build service stopped")
}

// Trending returns up to limit entries from the latest trending list.
func (s *Service) Trending(ctx context.Context, limit int) ([]types.TrendingEntry, error) {
	if limit < 1 {
		return nil, ErrInvalidLimit
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.index == nil {
		return nil, ErrNotReady
	}
	if limit > len(s.trending) {
		limit = len(s.trending)
	}

	out := make([]types.TrendingEntry, limit)
	copy(out, s.trending[:limit])
	return out, nil
}

// History returns the rank-by-year series for a (name, sex) pair from the
// latest build.
func (s *Service) History(ctx context.Context, name string, sex model.Sex) (types.NameHistory, error) {
	s.mu.RLock()
	index := s.index
	s.mu.RUnlock()

	if index == nil {
		return types.NameHistory{}, ErrNotReady
	}

	ranks := index.History(ctx, name, sex)
	if len(ranks) == 0 {
		return types.NameHistory{}, repository.ErrNotFound
	}

	return types.NameHistory{
		Name:  name,
		Sex:   string(sex),
		Ranks: ranks,
	}, nil
}

// LastBuild reports the most recent completed build.
func (s *Service) LastBuild() (BuildResult, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastBuild, s.lastBuild.ID != ""
}

// Building reports whether a build is currently in flight.
func (s *Service) Building() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.building
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":     s.started,
		"building":    s.building,
		"workerCount": s.workerCount,
		"queueSize":   s.queueSize,
		"outputDir":   s.outputDir,
	}

	if s.lastBuild.ID != "" {
		stats["lastBuildID"] = s.lastBuild.ID
		stats["lastBuildStarted"] = s.lastBuild.Started
		stats["lastBuildDurationMs"] = s.lastBuild.Duration.Milliseconds()
		stats["lastBuildRecords"] = s.lastBuild.Records
		stats["lastBuildYears"] = s.lastBuild.Years
		stats["lastBuildPages"] = s.lastBuild.Pages
		stats["lastBuildWritten"] = s.lastBuild.Written
		stats["trendingEntries"] = len(s.trending)
	}
	if s.tracker != nil {
		stats["manifestEntries"] = s.tracker.Size()
	}
	if s.index != nil {
		ctx := context.Background()
		stats["indexCount"] = s.index.Len(ctx)
		stats["totalNames"] = s.index.Count(ctx)
		metrics.UpdateIndexCount(s.index.Len(ctx))
	}

	return stats
}
