package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/nametrends/nametrends/internal/adapters/dataset"
	"github.com/nametrends/nametrends/internal/adapters/http/api"
	"github.com/nametrends/nametrends/internal/adapters/http/docs"
	httpsite "github.com/nametrends/nametrends/internal/adapters/http/site"
	service "github.com/nametrends/nametrends/internal/app"
	"github.com/nametrends/nametrends/internal/config"
	"github.com/nametrends/nametrends/internal/verify"
	"github.com/nametrends/nametrends/pkg/logger"
	"github.com/nametrends/nametrends/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout               = 10 * time.Second
	writeTimeout              = 30 * time.Second
	idleTimeout               = 60 * time.Second
	readHeaderTimeout         = 5 * time.Second
	shutdownTimeout           = 30 * time.Second
	systemMetricsInterval     = 10 * time.Second
	serviceMetricsInterval    = 5 * time.Second
	nanosecondsPerMillisecond = 1e6
)

func main() {
	var (
		serve   = flag.Bool("serve", false, "Keep running: serve the generated site and rebuild on the daily schedule")
		noAudit = flag.Bool("no-audit", false, "Skip the post-build site audit in one-shot mode")
	)
	flag.Parse()

	// Disable default Go metrics collection to avoid duplicate metrics
	// We collect our own custom system metrics instead
	prometheus.Unregister(collectors.NewGoCollector())
	prometheus.Unregister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	// Initialize logging
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() {
		if err := logger.Sync(); err != nil {
			logger.Error(err)
		}
	}()

	loggerInstance := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		loggerInstance.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	fetcher := dataset.NewFetcher(
		dataset.WithURL(cfg.DatasetURL),
		dataset.WithUserAgent(cfg.UserAgent),
		dataset.WithTimeout(time.Duration(cfg.FetchTimeoutS)*time.Second),
		dataset.WithLogger(loggerInstance),
	)

	svc := service.New(
		service.WithLogger(loggerInstance),
		service.WithSource(fetcher),
		service.WithOutputDir(cfg.OutputDir),
		service.WithBaseURL(cfg.BaseURL),
		service.WithSiteMetadata(cfg.SiteName, cfg.Description),
		service.WithAffiliate(cfg.ProductLinkBase, cfg.AffiliateID),
		service.WithTopN(cfg.TopN),
		service.WithWorkerCount(cfg.RenderWorkers),
		service.WithQueueSize(cfg.RenderQueueSize),
		service.WithSchedule(cfg.ScheduleHour, cfg.ScheduleMinute, cfg.Location()),
	)
	if err := svc.Start(ctx); err != nil {
		os.Stderr.WriteString("failed to start service: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer svc.Stop()

	if !*serve {
		if err := runOnce(ctx, svc, cfg, *noAudit); err != nil {
			os.Stderr.WriteString("build failed: " + err.Error() + "\n")
			os.Exit(1)
		}
		return
	}

	runServer(ctx, svc, cfg)
}

// runOnce performs a single build and audits the output. This is the mode a
// cron job or CI workflow invokes.
func runOnce(ctx context.Context, svc *service.Service, cfg *config.Config, noAudit bool) error {
	loggerInstance := logger.Get()

	result, err := svc.Build(ctx)
	if err != nil {
		return err
	}
	loggerInstance.Info(ctx, "build finished",
		logger.String("buildID", result.ID),
		logger.Int("records", result.Records),
		logger.Int("years", result.Years),
		logger.Int("pages", result.Pages),
		logger.Int("written", result.Written),
		logger.Duration("duration", result.Duration),
	)

	if noAudit {
		return nil
	}
	report, err := verify.Site(ctx, cfg.OutputDir, cfg.BaseURL)
	if err != nil {
		return err
	}
	if !report.OK() {
		return verify.ErrVerify
	}
	return nil
}

// runServer serves the generated site plus the ops API and rebuilds on the
// daily schedule until the process is signalled.
func runServer(ctx context.Context, svc *service.Service, cfg *config.Config) {
	loggerInstance := logger.Get()

	// Daily rebuild loop. The first build runs immediately.
	go func() {
		if err := svc.Run(ctx); err != nil {
			loggerInstance.Error(ctx, "scheduler stopped", logger.Error(err))
		}
	}()

	// Start system metrics updater
	go startSystemMetricsUpdater(ctx)

	// Start service metrics updater
	go startServiceMetricsUpdater(ctx, svc)

	// HTTP mux and routes.
	mux := http.NewServeMux()

	// API reference under /api-docs
	docs.Register(ctx, mux)

	// Ops and preview API routes with the service dependency.
	apiServer := api.NewServer(svc, svc, cfg.MaxTrendingLimit)
	apiServer.Register(ctx, mux)

	// Generated site at the root.
	httpsite.Register(ctx, mux, cfg.OutputDir)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	// Start the HTTP server
	go func() {
		loggerInstance.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			os.Stderr.WriteString("HTTP server failed: " + err.Error() + "\n")
			return
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()
	loggerInstance.Info(ctx, "shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		loggerInstance.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	loggerInstance.Info(ctx, "server stopped")
}

// startSystemMetricsUpdater starts a background goroutine that updates system metrics.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

// startServiceMetricsUpdater starts a background goroutine that updates service metrics.
func startServiceMetricsUpdater(ctx context.Context, svc *service.Service) {
	ticker := time.NewTicker(serviceMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateServiceMetrics(svc)
		}
	}
}

// updateSystemMetrics updates system-level metrics.
func updateSystemMetrics() {
	// Update memory usage
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)

	// Update goroutine count
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())

	// Update GC pause time
	if m.NumGC > 0 {
		avgPauseMs := float64(m.PauseTotalNs) / float64(m.NumGC) / nanosecondsPerMillisecond
		metrics.RecordSystemGCPauseTime(avgPauseMs)
	}
}

// updateServiceMetrics updates service-level metrics.
func updateServiceMetrics(svc *service.Service) {
	stats := svc.GetStats()

	if workerCount, ok := stats["workerCount"].(int); ok {
		metrics.UpdateWorkerActiveCount(workerCount)
	}

	if total, ok := stats["totalNames"].(int); ok {
		metrics.UpdateIndexRecordsTotal(total)
	}
}
