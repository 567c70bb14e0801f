package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/nametrends/nametrends/internal/synth"
	"github.com/nametrends/nametrends/pkg/logger"
)

// Default configuration constants.
const (
	defaultStartYear = 2015
	defaultYears     = 10
	defaultNames     = 200
	defaultSeed      = 1
	defaultTimeout   = 5 * time.Minute
)

func main() {
	var (
		startYear = flag.Int("start", defaultStartYear, "First dataset year")
		years     = flag.Int("years", defaultYears, "Number of consecutive years")
		names     = flag.Int("names", defaultNames, "Names per sex per year")
		seed      = flag.Int64("seed", defaultSeed, "RNG seed; the same seed reproduces the same archive")
		output    = flag.String("output", "names.zip", "Destination zip path")
		verbose   = flag.Bool("verbose", false, "Enable verbose logging")
		help      = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		synth.ShowHelp()
		return
	}

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	if *verbose {
		_ = logger.SetLevelString("debug")
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	config := &synth.Config{
		StartYear:  *startYear,
		Years:      *years,
		Names:      *names,
		Seed:       *seed,
		OutputFile: *output,
		Verbose:    *verbose,
	}

	if _, err := synth.Run(ctx, config); err != nil {
		os.Stderr.WriteString("generation failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}
