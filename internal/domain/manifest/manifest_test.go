package manifest_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	manifest "github.com/nametrends/nametrends/internal/domain/manifest"
	. "github.com/smartystreets/goconvey/convey"
)

func TestTracker_Unchanged(t *testing.T) {
	Convey("Given an empty tracker", t, func() {
		ctx := context.Background()
		tracker := manifest.NewTracker()

		Convey("When a page is recorded for the first time", func() {
			unchanged := tracker.Unchanged(ctx, "names/Olivia-F.html", []byte("<html>v1</html>"))

			Convey("Then it counts as changed", func() {
				So(unchanged, ShouldBeFalse)
				So(tracker.Size(), ShouldEqual, 1)
			})

			Convey("And the same content is unchanged afterwards", func() {
				So(tracker.Unchanged(ctx, "names/Olivia-F.html", []byte("<html>v1</html>")), ShouldBeTrue)
				So(tracker.Size(), ShouldEqual, 1)
			})

			Convey("And different content counts as changed again", func() {
				So(tracker.Unchanged(ctx, "names/Olivia-F.html", []byte("<html>v2</html>")), ShouldBeFalse)
				So(tracker.Size(), ShouldEqual, 1)
			})
		})

		Convey("When a path is forgotten", func() {
			tracker.Unchanged(ctx, "index.html", []byte("home"))
			tracker.Forget(ctx, "index.html")

			Convey("Then the same content counts as changed", func() {
				So(tracker.Size(), ShouldEqual, 0)
				So(tracker.Unchanged(ctx, "index.html", []byte("home")), ShouldBeFalse)
			})
		})

		Convey("When an unknown path is forgotten", func() {
			tracker.Forget(ctx, "never-recorded.html")

			Convey("Then nothing changes", func() {
				So(tracker.Size(), ShouldEqual, 0)
			})
		})
	})
}

func TestTracker_Persistence(t *testing.T) {
	Convey("Given a tracker persisted to a temp file", t, func() {
		ctx := context.Background()
		file := filepath.Join(t.TempDir(), ".manifest.json")
		tracker := manifest.NewTracker(manifest.WithFile(file))

		tracker.Unchanged(ctx, "index.html", []byte("home"))
		tracker.Unchanged(ctx, "names/Liam-M.html", []byte("liam"))

		Convey("When the manifest is saved and reloaded", func() {
			So(tracker.Save(ctx), ShouldBeNil)

			reloaded := manifest.NewTracker(manifest.WithFile(file))
			So(reloaded.Load(ctx), ShouldBeNil)

			Convey("Then recorded digests survive the round trip", func() {
				So(reloaded.Size(), ShouldEqual, 2)
				So(reloaded.Unchanged(ctx, "index.html", []byte("home")), ShouldBeTrue)
				So(reloaded.Unchanged(ctx, "names/Liam-M.html", []byte("changed")), ShouldBeFalse)
			})
		})

		Convey("When loading from a missing file", func() {
			fresh := manifest.NewTracker(manifest.WithFile(filepath.Join(t.TempDir(), "absent.json")))

			Convey("Then the tracker starts empty without error", func() {
				So(fresh.Load(ctx), ShouldBeNil)
				So(fresh.Size(), ShouldEqual, 0)
			})
		})

		Convey("When loading a corrupt file", func() {
			So(os.WriteFile(file, []byte("{not json"), 0o644), ShouldBeNil)

			Convey("Then Load reports a persistence error", func() {
				So(tracker.Load(ctx), ShouldNotBeNil)
			})
		})
	})
}
