package config

import (
	"errors"
)

// Sentinel kinds for configuration errors, matchable with errors.Is.
var (
	// ErrLoadConfig wraps failures reading the file or environment layers.
	ErrLoadConfig = errors.New("load config failed")

	// ErrInvalidConfig wraps validation failures on the merged result.
	ErrInvalidConfig = errors.New("invalid config")
)
