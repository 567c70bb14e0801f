package site_test

import (
	"strings"
	"testing"
	"time"

	"github.com/nametrends/nametrends/internal/domain/types"
	site "github.com/nametrends/nametrends/internal/site"
	. "github.com/smartystreets/goconvey/convey"
)

func fixedClock() time.Time {
	return time.Date(2026, 8, 25, 6, 30, 0, 0, time.UTC)
}

func TestRenderer_Index(t *testing.T) {
	Convey("Given a renderer with site metadata", t, func() {
		renderer, err := site.NewRenderer(
			site.WithSiteName("NameTrends"),
			site.WithDescription("Fastest rising baby names"),
			site.WithClock(fixedClock),
		)
		So(err, ShouldBeNil)

		entries := []types.TrendingEntry{
			{Rank: 1, Name: "Ivy", Sex: "F", CurrentRank: 2, PreviousRank: 6, Improvement: 4},
			{Rank: 2, Name: "Atlas", Sex: "M", CurrentRank: 9, PreviousRank: 11, Improvement: 2},
		}

		Convey("When the index page is rendered", func() {
			page, err := renderer.Index(entries)
			So(err, ShouldBeNil)
			html := string(page)

			Convey("Then site metadata appears in head and header", func() {
				So(html, ShouldContainSubstring, "<title>NameTrends</title>")
				So(html, ShouldContainSubstring, "Fastest rising baby names")
			})

			Convey("Then each entry links to its name page", func() {
				So(html, ShouldContainSubstring, `<a href="names/Ivy-F.html">Ivy</a>`)
				So(html, ShouldContainSubstring, `<a href="names/Atlas-M.html">Atlas</a>`)
			})

			Convey("Then improvements carry an explicit sign", func() {
				So(html, ShouldContainSubstring, "<td>+4</td>")
				So(html, ShouldContainSubstring, "<td>+2</td>")
			})

			Convey("Then the build date is stamped in the footer", func() {
				So(html, ShouldContainSubstring, "Generated on 2026-08-25")
			})
		})
	})
}

func TestRenderer_NamePage(t *testing.T) {
	Convey("Given a renderer with an affiliate ID", t, func() {
		renderer, err := site.NewRenderer(
			site.WithSiteName("NameTrends"),
			site.WithProductLink("https://www.amazon.com/s", "nametrends-20"),
		)
		So(err, ShouldBeNil)

		ranks := []types.YearRank{
			{Year: 2022, Rank: 6},
			{Year: 2023, Rank: 2},
		}

		Convey("When a name page is rendered", func() {
			page, err := renderer.NamePage("Ivy", "F", ranks)
			So(err, ShouldBeNil)
			html := string(page)

			Convey("Then the rank history table is present", func() {
				So(html, ShouldContainSubstring, "<title>Ivy (F) - NameTrends</title>")
				So(html, ShouldContainSubstring, "<td>2022</td><td>6</td>")
				So(html, ShouldContainSubstring, "<td>2023</td><td>2</td>")
			})

			Convey("Then the product link carries the affiliate tag", func() {
				So(html, ShouldContainSubstring, "tag=nametrends-20")
				So(html, ShouldContainSubstring, `rel="nofollow sponsored"`)
			})
		})
	})

	Convey("Given a renderer without an affiliate ID", t, func() {
		renderer, err := site.NewRenderer(
			site.WithProductLink("https://www.amazon.com/s", ""),
		)
		So(err, ShouldBeNil)

		Convey("Then the product link has no affiliate tag", func() {
			page, err := renderer.NamePage("Ivy", "F", nil)
			So(err, ShouldBeNil)
			So(string(page), ShouldContainSubstring, "amazon.com")
			So(string(page), ShouldNotContainSubstring, "tag=")
		})
	})

	Convey("Given a renderer without a product link base", t, func() {
		renderer, err := site.NewRenderer()
		So(err, ShouldBeNil)

		Convey("Then no product link is rendered at all", func() {
			page, err := renderer.NamePage("Ivy", "F", nil)
			So(err, ShouldBeNil)
			So(string(page), ShouldNotContainSubstring, "Shop")
		})
	})
}

func TestProductLink(t *testing.T) {
	Convey("Given a product link base", t, func() {
		Convey("Then the name becomes the search query", func() {
			link := site.ProductLink("https://www.amazon.com/s", "", "Ivy")
			So(link, ShouldContainSubstring, "k=Ivy+baby+gift")
		})

		Convey("Then the affiliate tag is appended when configured", func() {
			link := site.ProductLink("https://www.amazon.com/s", "nametrends-20", "Ivy")
			So(link, ShouldContainSubstring, "tag=nametrends-20")
		})

		Convey("Then an empty base yields no link", func() {
			So(site.ProductLink("", "nametrends-20", "Ivy"), ShouldBeEmpty)
		})
	})
}

func TestStyleCSS(t *testing.T) {
	Convey("Given the embedded stylesheet", t, func() {
		Convey("Then it styles the core page elements", func() {
			css := string(site.StyleCSS)
			So(strings.Contains(css, "body"), ShouldBeTrue)
			So(strings.Contains(css, "table"), ShouldBeTrue)
		})
	})
}
