// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Keep fields unexported where possible and use functional options.
// - Provide New(...Option) initializer to build a Config with defaults.
// - All future functions must accept context.Context as the first parameter.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"runtime"
)

// Default dataset location and request identity. The SSA server rejects
// requests without a browser-like User-Agent.
const (
	DefaultDatasetURL = "https://www.ssa.gov/oact/babynames/names.zip"
	defaultUserAgent  = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/108.0 Safari/537.36"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address for serve mode, e.g. ":9080".
	Addr string `koanf:"addr"`

	// SiteName and Description feed the page templates and metadata.
	SiteName    string `koanf:"site_name"`
	Description string `koanf:"description"`

	// BaseURL is the canonical site root used for sitemap.xml entries.
	BaseURL string `koanf:"base_url"`

	// OutputDir is the directory the generated site is published into.
	OutputDir string `koanf:"output_dir"`

	// AffiliateID, when non-empty, is appended as the tag parameter on
	// outbound product links.
	AffiliateID string `koanf:"affiliate_id"`

	// ProductLinkBase is the outbound product search URL each name page
	// links to.
	ProductLinkBase string `koanf:"product_link_base"`

	// DatasetURL points at the zipped SSA names dataset.
	DatasetURL string `koanf:"dataset_url"`

	// UserAgent is sent on dataset requests.
	UserAgent string `koanf:"user_agent"`

	// FetchTimeoutS bounds the dataset download in seconds.
	FetchTimeoutS int `koanf:"fetch_timeout_s"`

	// TopN sets how many trending names are featured.
	TopN int `koanf:"top_n"`

	// MaxTrendingLimit caps GET /api/trending?limit.
	MaxTrendingLimit int `koanf:"max_trending_limit"`

	// RenderWorkers sets the number of page render workers.
	RenderWorkers int `koanf:"render_workers"`

	// RenderQueueSize bounds the in-memory render job queue.
	RenderQueueSize int `koanf:"render_queue_size"`

	// ScheduleHour and ScheduleMinute set the daily rebuild wall-clock time
	// in ScheduleTimezone (serve mode only; one-shot builds are scheduled by
	// the hosting workflow).
	ScheduleHour     int    `koanf:"schedule_hour"`
	ScheduleMinute   int    `koanf:"schedule_minute"`
	ScheduleTimezone string `koanf:"schedule_timezone"`
}

// New creates a Config using provided options. Context is accepted first to
// satisfy the project-wide convention; it is reserved for future use (e.g.,
// loading from env/files) and is currently unused.
func New() *Config {
	c := &Config{
		LogLevel:         "info",
		Addr:             ":9080",
		SiteName:         "NameTrends",
		Description:      "The fastest-rising baby names, refreshed daily from public SSA data.",
		BaseURL:          "https://nametrends.example",
		OutputDir:        "site",
		AffiliateID:      "",
		ProductLinkBase:  "https://www.amazon.com/s",
		DatasetURL:       DefaultDatasetURL,
		UserAgent:        defaultUserAgent,
		FetchTimeoutS:    120,
		TopN:             100,
		MaxTrendingLimit: 100,
		RenderWorkers:    runtime.NumCPU() * 2,
		RenderQueueSize:  1024,
		ScheduleHour:     6,
		ScheduleMinute:   30,
		ScheduleTimezone: "America/New_York",
	}
	return c
}
