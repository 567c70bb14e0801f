// Package site serves the generated static site from the output directory.
package site

import (
	"context"
	"errors"
	"net/http"
)

// Error constants
var (
	ErrServe = errors.New("site serve failed")
)

// Register attaches the generated site routes to mux, serving the output
// directory at root /.
func Register(_ context.Context, mux *http.ServeMux, outputDir string) {
	if mux == nil {
		panic("mux is nil")
	}

	files := http.FileServer(http.Dir(outputDir))
	mux.Handle("/", files)
}
