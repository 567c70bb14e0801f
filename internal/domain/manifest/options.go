package manifest

// Option applies a configuration option to the in-memory tracker.
type Option func(*inMemoryTracker)

// WithFile sets the path the manifest is persisted to.
func WithFile(path string) Option {
	return func(t *inMemoryTracker) {
		if path != "" {
			t.file = path
		}
	}
}
