package filesystem

import (
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestApi(t *testing.T) {
	Convey("Filesystem API", t, func() {
		Convey("Should default to OsFs", func() {
			SetOsFs()
			fs := API()
			So(fs, ShouldNotBeNil)
			So(fs.Name(), ShouldEqual, "OsFs")
		})

		Convey("Should switch to MemMapFs", func() {
			SetMemMapFs()
			fs := API()
			So(fs, ShouldNotBeNil)
			So(fs.Name(), ShouldEqual, "MemMapFS")
		})
	})
}

func TestWriteAtomic(t *testing.T) {
	Convey("Given an in-memory filesystem", t, func() {
		SetMemMapFs()

		Convey("WriteAtomic stores the content and leaves no temp file", func() {
			n, err := WriteAtomic("/data/cookies/cookies.txt", strings.NewReader("payload"), 1024)
			So(err, ShouldBeNil)
			So(n, ShouldEqual, 7)

			data, err := API().ReadFile("/data/cookies/cookies.txt")
			So(err, ShouldBeNil)
			So(string(data), ShouldEqual, "payload")

			entries, err := API().ReadDir("/data/cookies")
			So(err, ShouldBeNil)
			So(len(entries), ShouldEqual, 1)
		})

		Convey("WriteAtomic rejects content above the limit and keeps the old file", func() {
			_, err := WriteAtomic("/data/limit.txt", strings.NewReader("old"), 1024)
			So(err, ShouldBeNil)

			_, err = WriteAtomic("/data/limit.txt", strings.NewReader(strings.Repeat("x", 20)), 10)
			So(err, ShouldNotBeNil)

			data, err := API().ReadFile("/data/limit.txt")
			So(err, ShouldBeNil)
			So(string(data), ShouldEqual, "old")
		})
	})
}
