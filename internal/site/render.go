// Package site renders and publishes the generated static site.
package site

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/nametrends/nametrends/internal/domain/types"
)

// Default site metadata constants.
const (
	defaultSiteName = "NameTrends"
	dateLayout      = "2006-01-02"
)

// IndexData carries everything the index template needs.
type IndexData struct {
	SiteName    string
	Description string
	Entries     []types.TrendingEntry
	Generated   string
}

// NamePageData carries everything a single name page needs.
type NamePageData struct {
	SiteName    string
	Name        string
	Sex         string
	Ranks       []types.YearRank
	ProductLink string
}

// Renderer executes the embedded page templates with site metadata applied.
type Renderer struct {
	siteName        string
	description     string
	productLinkBase string
	affiliateID     string
	now             func() time.Time

	tpl *template.Template
}

// NewRenderer parses the embedded templates and applies configuration options.
func NewRenderer(opts ...RenderOption) (*Renderer, error) {
	tpl, err := template.ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRender, err)
	}

	r := &Renderer{
		siteName: defaultSiteName,
		now:      time.Now,
		tpl:      tpl,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r, nil
}

// Index renders the index.html page from a trending list.
func (r *Renderer) Index(entries []types.TrendingEntry) ([]byte, error) {
	data := IndexData{
		SiteName:    r.siteName,
		Description: r.description,
		Entries:     entries,
		Generated:   r.now().UTC().Format(dateLayout),
	}

	var buf bytes.Buffer
	if err := r.tpl.ExecuteTemplate(&buf, "index.html.tmpl", data); err != nil {
		return nil, fmt.Errorf("%w: index: %w", ErrRender, err)
	}
	return buf.Bytes(), nil
}

// NamePage renders the page for one (name, sex) pair.
func (r *Renderer) NamePage(name, sex string, ranks []types.YearRank) ([]byte, error) {
	data := NamePageData{
		SiteName:    r.siteName,
		Name:        name,
		Sex:         sex,
		Ranks:       ranks,
		ProductLink: ProductLink(r.productLinkBase, r.affiliateID, name),
	}

	var buf bytes.Buffer
	if err := r.tpl.ExecuteTemplate(&buf, "name.html.tmpl", data); err != nil {
		return nil, fmt.Errorf("%w: %s-%s: %w", ErrRender, name, sex, err)
	}
	return buf.Bytes(), nil
}
