package site

import (
	"time"

	"github.com/nametrends/nametrends/internal/domain/manifest"
	"github.com/nametrends/nametrends/pkg/logger"
)

// RenderOption applies a configuration option to the Renderer.
type RenderOption func(*Renderer)

// WithSiteName sets the site title used across pages.
func WithSiteName(name string) RenderOption {
	return func(r *Renderer) {
		if name != "" {
			r.siteName = name
		}
	}
}

// WithDescription sets the index page meta description.
func WithDescription(desc string) RenderOption {
	return func(r *Renderer) {
		r.description = desc
	}
}

// WithProductLink configures the outbound product link base and the affiliate
// ID appended to it.
func WithProductLink(base, affiliateID string) RenderOption {
	return func(r *Renderer) {
		r.productLinkBase = base
		r.affiliateID = affiliateID
	}
}

// WithClock sets the time source for the generated-on stamp.
func WithClock(now func() time.Time) RenderOption {
	return func(r *Renderer) {
		if now != nil {
			r.now = now
		}
	}
}

// WriteOption applies a configuration option to the Writer.
type WriteOption func(*Writer)

// WithManifest sets the tracker consulted before each write.
func WithManifest(tracker manifest.Tracker) WriteOption {
	return func(w *Writer) {
		if tracker != nil {
			w.tracker = tracker
		}
	}
}

// WithWriterLogger sets a custom logger for the writer.
func WithWriterLogger(l logger.Logger) WriteOption {
	return func(w *Writer) {
		if l != nil {
			w.logger = l
		}
	}
}
