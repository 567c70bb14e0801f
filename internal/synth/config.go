package synth

import "time"

// Config holds configuration for one archive generation run.
type Config struct {
	StartYear  int    // First dataset year
	Years      int    // Number of consecutive years
	Names      int    // Names per sex per year
	Seed       int64  // RNG seed; the same seed produces the same archive
	OutputFile string // Destination zip path
	Verbose    bool   // Enable verbose logging
}

// Stats holds generation statistics.
type Stats struct {
	YearsWritten int
	RowsWritten  int
	Bytes        int
	StartTime    time.Time
	Duration     time.Duration
}
