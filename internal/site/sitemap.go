package site

import (
	"encoding/xml"
	"fmt"
	"strings"
	"time"
)

const sitemapNamespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod"`
}

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

// Sitemap builds the sitemap.xml document for the given page paths. Paths are
// site-relative ("index.html", "names/Olivia-F.html"); each is resolved
// against baseURL and stamped with the build date.
func Sitemap(baseURL string, paths []string, lastMod time.Time) ([]byte, error) {
	base := strings.TrimRight(baseURL, "/")
	mod := lastMod.UTC().Format(dateLayout)

	set := urlSet{
		Xmlns: sitemapNamespace,
		URLs:  make([]sitemapURL, 0, len(paths)+1),
	}
	set.URLs = append(set.URLs, sitemapURL{Loc: base + "/", LastMod: mod})
	for _, p := range paths {
		set.URLs = append(set.URLs, sitemapURL{
			Loc:     base + "/" + strings.TrimLeft(p, "/"),
			LastMod: mod,
		})
	}

	body, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSitemap, err)
	}
	return append([]byte(xml.Header), append(body, '\n')...), nil
}
