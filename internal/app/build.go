package service

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	jobqueue "github.com/nametrends/nametrends/internal/adapters/mq/queue"
	workerpool "github.com/nametrends/nametrends/internal/adapters/mq/worker"
	repository "github.com/nametrends/nametrends/internal/adapters/repository"
	"github.com/nametrends/nametrends/internal/domain/model"
	"github.com/nametrends/nametrends/internal/domain/trending"
	"github.com/nametrends/nametrends/internal/site"
	"github.com/nametrends/nametrends/pkg/logger"
	"github.com/nametrends/nametrends/pkg/metrics"
)

// enqueueRetryInterval paces enqueue retries when the render queue is full.
const enqueueRetryInterval = 10 * time.Millisecond

// jobRenderer adapts the site renderer to the worker pool contract.
type jobRenderer struct {
	renderer *site.Renderer
}

func (r *jobRenderer) Render(ctx context.Context, j workerpool.Job) ([]byte, error) {
	switch j.Kind {
	case jobqueue.KindIndex:
		return r.renderer.Index(j.Entries)
	case jobqueue.KindName:
		return r.renderer.NamePage(j.Name, j.Sex, j.Ranks)
	case jobqueue.KindAsset:
		return j.Content, nil
	default:
		return nil, fmt.Errorf("%w: unknown job kind %q", ErrBuildFailed, j.Kind)
	}
}

// countingPublisher counts pages that actually reached disk.
type countingPublisher struct {
	inner   *site.Writer
	written atomic.Int64
}

func (p *countingPublisher) Publish(ctx context.Context, path string, content []byte) (bool, error) {
	ok, err := p.inner.Publish(ctx, path, content)
	if ok {
		p.written.Add(1)
	}
	return ok, err
}

// TriggerBuild starts a build in the background. It returns ErrBuildInFlight
// when a build is already running and ErrNotStarted before Start.
func (s *Service) TriggerBuild(ctx context.Context) error {
	s.mu.RLock()
	started, building := s.started, s.building
	s.mu.RUnlock()

	if !started {
		return ErrNotStarted
	}
	if building {
		return ErrBuildInFlight
	}

	go func() {
		// Detached from the request context; the build outlives it.
		if _, err := s.Build(context.Background()); err != nil {
			s.logger.Error(context.Background(), "triggered build failed", logger.Error(err))
		}
	}()
	return nil
}

// Build runs one full site build: fetch, index, trend, render, publish.
// A second Build while one is in flight returns ErrBuildInFlight.
func (s *Service) Build(ctx context.Context) (BuildResult, error) {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return BuildResult{}, ErrNotStarted
	}
	if s.building {
		s.mu.Unlock()
		return BuildResult{}, ErrBuildInFlight
	}
	s.building = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.building = false
		s.mu.Unlock()
	}()

	buildID := uuid.NewString()
	start := time.Now()
	s.logger.Info(ctx, "build started", logger.String("buildID", buildID))

	result, err := s.runBuild(ctx, buildID, start)
	if err != nil {
		metrics.RecordBuildFailure()
		s.logger.Error(ctx, "build failed",
			logger.String("buildID", buildID),
			logger.Duration("took", time.Since(start)),
			logger.Error(err),
		)
		return BuildResult{}, err
	}

	metrics.RecordBuild()
	metrics.RecordBuildDuration(float64(result.Duration.Milliseconds()))
	metrics.UpdateLastBuildUnix(float64(start.Unix()))

	s.logger.Info(ctx, "build finished",
		logger.String("buildID", buildID),
		logger.Duration("took", result.Duration),
		logger.Int("records", result.Records),
		logger.Int("years", result.Years),
		logger.Int("pages", result.Pages),
		logger.Int("written", result.Written),
	)
	return result, nil
}

func (s *Service) runBuild(ctx context.Context, buildID string, start time.Time) (BuildResult, error) {
	records, err := s.source.FetchRecords(ctx)
	if err != nil {
		return BuildResult{}, fmt.Errorf("%w: %w", ErrBuildFailed, err)
	}

	index := repository.NewRankIndex(ctx)
	for _, rec := range records {
		if err := index.Add(ctx, rec); err != nil {
			return BuildResult{}, fmt.Errorf("%w: index %s: %w", ErrBuildFailed, rec.Name, err)
		}
	}
	index.Freeze(ctx)

	calc := trending.NewCalculator(index, trending.WithTopN(s.topN))
	list, err := calc.Combined(ctx)
	if err != nil {
		return BuildResult{}, fmt.Errorf("%w: %w", ErrBuildFailed, err)
	}

	renderer, err := site.NewRenderer(
		site.WithSiteName(s.siteName),
		site.WithDescription(s.description),
		site.WithProductLink(s.productLinkBase, s.affiliateID),
	)
	if err != nil {
		return BuildResult{}, fmt.Errorf("%w: %w", ErrBuildFailed, err)
	}

	publisher := &countingPublisher{
		inner: site.NewWriter(s.outputDir, site.WithManifest(s.tracker)),
	}

	q := jobqueue.NewInMemoryQueue(
		jobqueue.WithCapacity(s.queueSize),
		jobqueue.WithBufferSize(s.queueSize),
	)
	pool := workerpool.NewPool(s.workerCount, q, &jobRenderer{renderer: renderer}, publisher)
	pool.Start(ctx)

	pagePaths, err := s.enqueueJobs(ctx, q, index, list)
	if err != nil {
		_ = pool.Shutdown(ctx)
		return BuildResult{}, err
	}

	if err := pool.Shutdown(ctx); err != nil {
		return BuildResult{}, fmt.Errorf("%w: %w", ErrBuildFailed, err)
	}

	sitemap, err := site.Sitemap(s.baseURL, pagePaths, start)
	if err != nil {
		return BuildResult{}, fmt.Errorf("%w: %w", ErrBuildFailed, err)
	}
	if _, err := publisher.Publish(ctx, "sitemap.xml", sitemap); err != nil {
		return BuildResult{}, fmt.Errorf("%w: %w", ErrBuildFailed, err)
	}
	metrics.UpdateSitemapURLs(len(pagePaths) + 1)

	if err := s.tracker.Save(ctx); err != nil {
		s.logger.Warn(ctx, "manifest save failed", logger.Error(err))
	}

	result := BuildResult{
		ID:       buildID,
		Started:  start,
		Duration: time.Since(start),
		Records:  len(records),
		Years:    len(index.Years(ctx)),
		Pages:    len(pagePaths),
		Written:  int(publisher.written.Load()),
	}

	s.mu.Lock()
	s.index = index
	s.trending = list.Entries
	s.lastBuild = result
	s.mu.Unlock()

	return result, nil
}

// enqueueJobs feeds the render queue and returns the page paths that belong
// in the sitemap.
func (s *Service) enqueueJobs(ctx context.Context, q jobqueue.Queue, index *repository.RankIndex, list trending.Result) ([]string, error) {
	enqueue := func(j jobqueue.Job) error {
		for {
			if q.Enqueue(ctx, j) {
				return nil
			}
			select {
			case <-ctx.Done():
				return fmt.Errorf("%w: %w", ErrBuildFailed, ctx.Err())
			case <-time.After(enqueueRetryInterval):
			}
		}
	}

	if err := enqueue(jobqueue.Job{
		Path:    "assets/style.css",
		Kind:    jobqueue.KindAsset,
		Content: site.StyleCSS,
	}); err != nil {
		return nil, err
	}

	pagePaths := make([]string, 0, len(list.Entries)+1)

	if err := enqueue(jobqueue.Job{
		Path:    "index.html",
		Kind:    jobqueue.KindIndex,
		Entries: list.Entries,
	}); err != nil {
		return nil, err
	}
	pagePaths = append(pagePaths, "index.html")

	for _, entry := range list.Entries {
		sex := model.Sex(entry.Sex)
		path := "names/" + model.Key{Name: entry.Name, Sex: sex}.PageSlug() + ".html"
		if err := enqueue(jobqueue.Job{
			Path:  path,
			Kind:  jobqueue.KindName,
			Name:  entry.Name,
			Sex:   entry.Sex,
			Ranks: index.History(ctx, entry.Name, sex),
		}); err != nil {
			return nil, err
		}
		pagePaths = append(pagePaths, path)
	}

	return pagePaths, nil
}
