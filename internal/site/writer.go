package site

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nametrends/nametrends/internal/domain/manifest"
	"github.com/nametrends/nametrends/pkg/logger"
	"github.com/nametrends/nametrends/pkg/metrics"
)

// File permission constants for published output.
const (
	pagePerm = 0o644
	dirPerm  = 0o755
)

// Writer publishes rendered pages into the output directory. Writes are
// incremental: pages whose content matches the manifest are skipped, and
// files from previous runs are never removed.
type Writer struct {
	outputDir string
	tracker   manifest.Tracker

	// Logging
	logger logger.Logger
}

// NewWriter creates a site writer with configuration options.
func NewWriter(outputDir string, opts ...WriteOption) *Writer {
	w := &Writer{
		outputDir: outputDir,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

func (w *Writer) log() logger.Logger {
	if w.logger == nil {
		w.logger = logger.Get().Named("site")
	}
	return w.logger
}

// Publish writes content to the given site-relative path. Returns false when
// the page was skipped because the manifest already records identical content.
func (w *Writer) Publish(ctx context.Context, relPath string, content []byte) (bool, error) {
	if w.tracker != nil && w.tracker.Unchanged(ctx, relPath, content) {
		metrics.RecordPageSkipped()
		return false, nil
	}

	if err := w.write(relPath, content); err != nil {
		if w.tracker != nil {
			w.tracker.Forget(ctx, relPath)
		}
		metrics.RecordPageFailed()
		return false, err
	}

	w.log().Debug(ctx, "page published",
		logger.String("path", relPath),
		logger.Int("bytes", len(content)),
	)
	return true, nil
}

// write lands content on disk with a temp-and-rename so readers never see a
// partially written page.
func (w *Writer) write(relPath string, content []byte) error {
	target := filepath.Join(w.outputDir, filepath.FromSlash(relPath))
	if err := os.MkdirAll(filepath.Dir(target), dirPerm); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrPublish, relPath, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(target), ".publish-*")
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrPublish, relPath, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(content); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("%w: %s: %w", ErrPublish, relPath, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("%w: %s: %w", ErrPublish, relPath, err)
	}
	if err := os.Chmod(tmpName, pagePerm); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("%w: %s: %w", ErrPublish, relPath, err)
	}
	if err := os.Rename(tmpName, target); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("%w: %s: %w", ErrPublish, relPath, err)
	}
	return nil
}

// OutputDir returns the directory pages are published into.
func (w *Writer) OutputDir() string {
	return w.outputDir
}
