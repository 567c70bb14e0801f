package service

import "errors"

// Sentinel kinds for service errors.
var (
	ErrNotStarted    = errors.New("service not started")
	ErrNotReady      = errors.New("no completed build yet")
	ErrInvalidLimit  = errors.New("limit must be positive")
	ErrBuildFailed   = errors.New("site build failed")
	ErrBuildInFlight = errors.New("a build is already running")
)
