// Package manifest tracks published content digests for incremental builds.
package manifest

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
)

// Default manifest configuration constants.
const (
	defaultFileName = ".manifest.json"
	manifestPerm    = 0o644
)

// ErrPersist wraps manifest load/save failures.
var ErrPersist = errors.New("manifest persistence failed")

// Tracker records content digests per output path so unchanged pages can be
// skipped on subsequent builds.
type Tracker interface {
	// Unchanged atomically compares content against the recorded digest for
	// path and records the new digest. Returns true when the content is
	// identical to what was last published, false when it changed or the
	// path is new.
	Unchanged(ctx context.Context, path string, content []byte) bool

	// Forget removes a path from the manifest, forcing a rewrite on the
	// next build. Use it when a recorded page failed to reach disk.
	Forget(ctx context.Context, path string)

	// Load reads the manifest persisted by a previous run. A missing file
	// is not an error; the tracker simply starts empty.
	Load(ctx context.Context) error

	// Save persists the manifest for the next run.
	Save(ctx context.Context) error

	Size() int64
}

// inMemoryTracker implements Tracker with a digest map persisted as JSON.
type inMemoryTracker struct {
	mu      sync.RWMutex
	digests map[string]string // output path -> hex sha256
	file    string
	size    atomic.Int64
}

// NewTracker creates a manifest tracker with configuration options.
func NewTracker(opts ...Option) Tracker {
	t := &inMemoryTracker{
		digests: make(map[string]string),
		file:    defaultFileName,
	}

	for _, opt := range opts {
		opt(t)
	}

	return t
}

// digest hashes page content for comparison.
func digest(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// Unchanged atomically compares and records the digest for path.
func (t *inMemoryTracker) Unchanged(ctx context.Context, path string, content []byte) bool {
	d := digest(content)

	t.mu.Lock()
	defer t.mu.Unlock()

	prev, exists := t.digests[path]
	if exists && prev == d {
		return true
	}

	t.digests[path] = d
	if !exists {
		t.size.Add(1)
	}
	return false
}

// Forget removes a path from the manifest.
func (t *inMemoryTracker) Forget(ctx context.Context, path string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, exists := t.digests[path]; exists {
		delete(t.digests, path)
		t.size.Add(-1)
	}
}

// Load reads the persisted manifest file.
func (t *inMemoryTracker) Load(ctx context.Context) error {
	data, err := os.ReadFile(t.file)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}

	digests := make(map[string]string)
	if err := json.Unmarshal(data, &digests); err != nil {
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.digests = digests
	t.size.Store(int64(len(digests)))
	return nil
}

// Save persists the manifest with a temp-and-rename write so a crash never
// leaves a truncated file behind.
func (t *inMemoryTracker) Save(ctx context.Context) error {
	t.mu.RLock()
	data, err := json.MarshalIndent(t.digests, "", "  ")
	t.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(t.file), ".manifest-*")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}
	if err := os.Chmod(tmpName, manifestPerm); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}
	if err := os.Rename(tmpName, t.file); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}
	return nil
}

// Size returns the number of tracked paths.
func (t *inMemoryTracker) Size() int64 {
	return t.size.Load()
}
