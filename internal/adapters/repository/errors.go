package repository

import "errors"

// Sentinel kinds for rank index errors.
var (
	ErrNotFound     = errors.New("name not found")
	ErrInvalidLimit = errors.New("invalid top-n limit")
	ErrInvalidCount = errors.New("invalid registration count")
)
