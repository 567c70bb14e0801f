package verify

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/nametrends/nametrends/pkg/logger"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

const testBaseURL = "https://nametrends.example.com"

func writeSite(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func sitemapXML(locs ...string) string {
	out := `<?xml version="1.0" encoding="UTF-8"?>` + "\n"
	out += `<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">` + "\n"
	for _, loc := range locs {
		out += "<url><loc>" + loc + "</loc><lastmod>2026-08-25</lastmod></url>\n"
	}
	return out + "</urlset>\n"
}

func TestSiteAudit(t *testing.T) {
	ctx := context.Background()

	Convey("Given a consistent generated site", t, func() {
		dir := t.TempDir()
		writeSite(t, dir, map[string]string{
			"index.html": `<html><body>
				<a href="names/Ivy-F.html">Ivy</a>
				<a href="names/Liam-M.html">Liam</a>
				<a href="https://www.ssa.gov/oact/babynames/">SSA</a>
				<a href="#top">Top</a>
			</body></html>`,
			"names/Ivy-F.html":  "<html></html>",
			"names/Liam-M.html": "<html></html>",
			"sitemap.xml": sitemapXML(
				testBaseURL+"/",
				testBaseURL+"/index.html",
				testBaseURL+"/names/Ivy-F.html",
				testBaseURL+"/names/Liam-M.html",
			),
		})

		Convey("When the site is audited", func() {
			report, err := Site(ctx, dir, testBaseURL)

			Convey("Then the report is clean", func() {
				So(err, ShouldBeNil)
				So(report.OK(), ShouldBeTrue)
				So(report.LinkedPages, ShouldEqual, 2)
				So(report.SitemapURLs, ShouldEqual, 4)
			})
		})
	})

	Convey("Given an index linking a page that was never written", t, func() {
		dir := t.TempDir()
		writeSite(t, dir, map[string]string{
			"index.html":       `<html><body><a href="names/Ivy-F.html">Ivy</a><a href="names/Gone-M.html">Gone</a></body></html>`,
			"names/Ivy-F.html": "<html></html>",
			"sitemap.xml": sitemapXML(
				testBaseURL+"/",
				testBaseURL+"/names/Ivy-F.html",
			),
		})

		Convey("When the site is audited", func() {
			report, err := Site(ctx, dir, testBaseURL)

			Convey("Then the broken link is reported", func() {
				So(err, ShouldBeNil)
				So(report.OK(), ShouldBeFalse)
				So(report.MissingPages, ShouldResemble, []string{"names/Gone-M.html"})
				So(report.NotInSitemap, ShouldResemble, []string{"names/Gone-M.html"})
			})
		})
	})

	Convey("Given a sitemap entry with no file behind it", t, func() {
		dir := t.TempDir()
		writeSite(t, dir, map[string]string{
			"index.html": `<html><body></body></html>`,
			"sitemap.xml": sitemapXML(
				testBaseURL+"/",
				testBaseURL+"/names/Stale-F.html",
			),
		})

		Convey("When the site is audited", func() {
			report, err := Site(ctx, dir, testBaseURL)

			Convey("Then the stale entry is reported", func() {
				So(err, ShouldBeNil)
				So(report.OK(), ShouldBeFalse)
				So(report.MissingFromDisk, ShouldResemble, []string{"names/Stale-F.html"})
			})
		})
	})

	Convey("Given a sitemap URL outside the configured base", t, func() {
		dir := t.TempDir()
		writeSite(t, dir, map[string]string{
			"index.html":  `<html><body></body></html>`,
			"sitemap.xml": sitemapXML("https://other.example.com/index.html"),
		})

		Convey("When the site is audited", func() {
			_, err := Site(ctx, dir, testBaseURL)

			Convey("Then verification fails", func() {
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldContainSubstring, "outside base")
			})
		})
	})

	Convey("Given a directory with no generated site", t, func() {
		Convey("When the site is audited", func() {
			_, err := Site(ctx, t.TempDir(), testBaseURL)

			Convey("Then verification fails", func() {
				So(err, ShouldNotBeNil)
			})
		})
	})
}
