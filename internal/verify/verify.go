// Package verify audits a generated site for broken links and sitemap drift.
package verify

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/net/html"

	"github.com/nametrends/nametrends/pkg/logger"
)

// Sentinel kinds for verification errors.
var (
	ErrVerify = errors.New("site verification failed")
)

// Report summarizes one site audit.
type Report struct {
	LinkedPages     int      `json:"linked_pages"`
	SitemapURLs     int      `json:"sitemap_urls"`
	MissingPages    []string `json:"missing_pages,omitempty"`
	MissingFromDisk []string `json:"missing_from_disk,omitempty"`
	NotInSitemap    []string `json:"not_in_sitemap,omitempty"`
}

// OK reports whether the audit found no problems.
func (r *Report) OK() bool {
	return len(r.MissingPages) == 0 &&
		len(r.MissingFromDisk) == 0 &&
		len(r.NotInSitemap) == 0
}

// Site audits the generated site under dir: every page linked from the index
// must exist on disk, every sitemap URL must map to a file, and every linked
// page must be in the sitemap. baseURL is the public URL the sitemap was
// generated against.
func Site(ctx context.Context, dir, baseURL string) (*Report, error) {
	log := logger.Get().Named("verify")

	links, err := indexLinks(filepath.Join(dir, "index.html"))
	if err != nil {
		return nil, err
	}

	sitemap, err := sitemapPaths(filepath.Join(dir, "sitemap.xml"), baseURL)
	if err != nil {
		return nil, err
	}

	report := &Report{
		LinkedPages: len(links),
		SitemapURLs: len(sitemap),
	}

	inSitemap := make(map[string]struct{}, len(sitemap))
	for _, p := range sitemap {
		inSitemap[p] = struct{}{}
		if _, err := os.Stat(filepath.Join(dir, filepath.FromSlash(p))); err != nil {
			report.MissingFromDisk = append(report.MissingFromDisk, p)
		}
	}

	for _, link := range links {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrVerify, err)
		}
		if _, err := os.Stat(filepath.Join(dir, filepath.FromSlash(link))); err != nil {
			report.MissingPages = append(report.MissingPages, link)
		}
		if _, ok := inSitemap[link]; !ok {
			report.NotInSitemap = append(report.NotInSitemap, link)
		}
	}

	sort.Strings(report.MissingPages)
	sort.Strings(report.MissingFromDisk)
	sort.Strings(report.NotInSitemap)

	log.Info(ctx, "site audit finished",
		logger.Int("linkedPages", report.LinkedPages),
		logger.Int("sitemapURLs", report.SitemapURLs),
		logger.Int("missingPages", len(report.MissingPages)),
		logger.Int("missingFromDisk", len(report.MissingFromDisk)),
		logger.Int("notInSitemap", len(report.NotInSitemap)),
	)
	return report, nil
}

// indexLinks extracts site-relative .html links from the index page.
func indexLinks(indexPath string) ([]string, error) {
	f, err := os.Open(indexPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrVerify, err)
	}
	defer func() { _ = f.Close() }()

	doc, err := html.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%w: index.html: %w", ErrVerify, err)
	}

	var links []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			for _, attr := range n.Attr {
				if attr.Key != "href" {
					continue
				}
				if href, ok := relativePage(attr.Val); ok {
					links = append(links, href)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return links, nil
}

// relativePage filters hrefs down to site-relative .html pages.
func relativePage(href string) (string, bool) {
	if href == "" ||
		strings.HasPrefix(href, "http://") ||
		strings.HasPrefix(href, "https://") ||
		strings.HasPrefix(href, "#") ||
		strings.HasPrefix(href, "/") {
		return "", false
	}
	if !strings.HasSuffix(href, ".html") {
		return "", false
	}
	return href, true
}

// sitemapPaths reads sitemap.xml and resolves its URLs to site-relative
// paths. The bare site root resolves to index.html.
func sitemapPaths(sitemapPath, baseURL string) ([]string, error) {
	data, err := os.ReadFile(sitemapPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrVerify, err)
	}

	var set struct {
		XMLName xml.Name `xml:"urlset"`
		URLs    []struct {
			Loc string `xml:"loc"`
		} `xml:"url"`
	}
	if err := xml.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("%w: sitemap.xml: %w", ErrVerify, err)
	}

	base := strings.TrimRight(baseURL, "/")
	paths := make([]string, 0, len(set.URLs))
	for _, u := range set.URLs {
		loc := strings.TrimSpace(u.Loc)
		if !strings.HasPrefix(loc, base) {
			return nil, fmt.Errorf("%w: sitemap URL %q outside base %q", ErrVerify, loc, base)
		}
		rel := strings.TrimLeft(strings.TrimPrefix(loc, base), "/")
		if rel == "" {
			rel = "index.html"
		}
		paths = append(paths, rel)
	}
	return paths, nil
}
