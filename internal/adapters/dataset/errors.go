package dataset

import "errors"

// Sentinel kinds for dataset errors.
var (
	ErrFetch        = errors.New("dataset fetch failed")
	ErrBadStatus    = errors.New("dataset fetch bad status")
	ErrParse        = errors.New("dataset parse failed")
	ErrEmptyDataset = errors.New("dataset contains no records")
)
