package util

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/videocatcher/videocatcher/filesystem"
)

func TestSanitizeFilename(t *testing.T) {
	Convey("SanitizeFilename", t, func() {
		Convey("Should replace invalid chars", func() {
			So(SanitizeFilename("file:name?.mp4"), ShouldEqual, "file_name_.mp4")
		})
		Convey("Should collapse underscores", func() {
			So(SanitizeFilename("file__name.mp4"), ShouldEqual, "file_name.mp4")
		})
		Convey("Should trim separators", func() {
			So(SanitizeFilename("-file-name-"), ShouldEqual, "file-name")
		})
		Convey("Should neutralize path traversal", func() {
			got := SanitizeFilename("../../etc/passwd")
			So(got, ShouldNotContainSubstring, "/")
			So(got, ShouldNotContainSubstring, "..")
			So(got, ShouldEqual, "etc_passwd")
		})
		Convey("Should replace spaces and control characters", func() {
			So(SanitizeFilename("My Video\x00 Title"), ShouldEqual, "My_Video_Title")
		})
	})
}

func TestQuantify(t *testing.T) {
	Convey("Quantify", t, func() {
		So(Quantify(1, "entry", "entries"), ShouldEqual, "1 entry")
		So(Quantify(2, "entry", "entries"), ShouldEqual, "2 entries")
	})
}

func TestCapitalize(t *testing.T) {
	Convey("Capitalize", t, func() {
		So(Capitalize("hello"), ShouldEqual, "Hello")
		So(Capitalize(""), ShouldEqual, "")
		So(Capitalize("éclair"), ShouldEqual, "Éclair")
	})
}

func TestHumanBytes(t *testing.T) {
	Convey("HumanBytes", t, func() {
		So(HumanBytes(512), ShouldEqual, "512 B")
		So(HumanBytes(1536), ShouldEqual, "1.5 KiB")
		So(HumanBytes(10*1024*1024), ShouldEqual, "10.0 MiB")
		So(HumanBytes(3*1024*1024*1024), ShouldEqual, "3.0 GiB")
	})
}

func TestAtLeast(t *testing.T) {
	Convey("AtLeast raises values below the floor", t, func() {
		So(AtLeast(5, 20), ShouldEqual, 20)
		So(AtLeast(42, 20), ShouldEqual, 42)
		So(AtLeast(0.5, 1.0), ShouldEqual, 1.0)
	})
}

func TestDelete(t *testing.T) {
	Convey("Delete removes files and directories", t, func() {
		filesystem.SetMemMapFs()
		fs := filesystem.API()
		So(fs.WriteFile("/tmp/a/b.txt", []byte("x"), 0o600), ShouldBeNil)

		So(Delete("/tmp/a/b.txt"), ShouldBeNil)
		exists, _ := fs.Exists("/tmp/a/b.txt")
		So(exists, ShouldBeFalse)

		So(Delete("/tmp/a"), ShouldBeNil)
		exists, _ = fs.Exists("/tmp/a")
		So(exists, ShouldBeFalse)

		So(Delete("/tmp/missing"), ShouldNotBeNil)
	})
}
