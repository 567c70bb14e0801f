package synth

import "os"

// ShowHelp prints usage information for the archive generator.
func ShowHelp() {
	os.Stdout.WriteString(`NameTrends Synthetic Dataset Generator
======================================

Generates a names.zip archive in the SSA national dataset format, for
testing the build pipeline without downloading the real dataset.

Usage:
  go run cmd/mknames/main.go [options]

Options:
  -start int
        First dataset year (default 2015)
  -years int
        Number of consecutive years (default 10)
  -names int
        Names per sex per year (default 200)
  -seed int
        RNG seed; the same seed reproduces the same archive (default 1)
  -output string
        Destination zip path (default "names.zip")
  -verbose
        Enable verbose logging
  -help
        Show this help message

Examples:
  # Generate a default archive
  go run cmd/mknames/main.go

  # Two small years for a quick parser test
  go run cmd/mknames/main.go -years 2 -names 50 -output testdata/names.zip

  # A different cohort
  go run cmd/mknames/main.go -start 1990 -years 30 -seed 42
`)
}
