package site

import "errors"

// Sentinel kinds for site errors.
var (
	ErrRender  = errors.New("page render failed")
	ErrPublish = errors.New("page publish failed")
	ErrSitemap = errors.New("sitemap generation failed")
)
