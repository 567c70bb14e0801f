package model_test

import (
	"testing"

	"github.com/nametrends/nametrends/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestParseSex(t *testing.T) {
	Convey("Given raw sex column values", t, func() {
		Convey("When parsing valid values", func() {
			m, err := model.ParseSex("M")
			So(err, ShouldBeNil)
			So(m, ShouldEqual, model.Male)

			f, err := model.ParseSex("F")
			So(err, ShouldBeNil)
			So(f, ShouldEqual, model.Female)
		})

		Convey("When parsing invalid values", func() {
			for _, raw := range []string{"", "m", "f", "X", "MF"} {
				_, err := model.ParseSex(raw)
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldContainSubstring, "invalid sex")
			}
		})
	})
}

func TestRecordKey(t *testing.T) {
	Convey("Given a dataset record", t, func() {
		rec := model.Record{Name: "Olivia", Sex: model.Female, Year: 2023, Count: 15270}

		Convey("Then its key identifies the (name, sex) pair", func() {
			key := rec.Key()
			So(key.Name, ShouldEqual, "Olivia")
			So(key.Sex, ShouldEqual, model.Female)
		})

		Convey("And the page slug joins name and sex", func() {
			So(rec.Key().PageSlug(), ShouldEqual, "Olivia-F")
		})
	})
}

func TestSexes(t *testing.T) {
	Convey("Sexes enumerates M then F", t, func() {
		So(model.Sexes(), ShouldResemble, []model.Sex{model.Male, model.Female})
	})
}
