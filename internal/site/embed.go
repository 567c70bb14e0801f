package site

import "embed"

//go:embed templates/*.tmpl
var templateFS embed.FS

// StyleCSS contains the embedded stylesheet published to assets/style.css.
//
//go:embed assets/style.css
var StyleCSS []byte
