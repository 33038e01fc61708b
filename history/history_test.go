package history

import (
	"fmt"
	"sync"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/videocatcher/videocatcher/filesystem"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestLog(t *testing.T) {
	Convey("Given an empty log", t, func() {
		filesystem.SetMemMapFs()
		log := Open("/config/history.json")
		log.Max = 3

		Convey("Get returns nothing", func() {
			entries, err := log.Get()
			So(err, ShouldBeNil)
			So(entries, ShouldBeEmpty)
		})

		Convey("Appended entries come back oldest first", func() {
			first := NewEntry("youtube", "https://youtu.be/a")
			second := NewEntry("tiktok", "https://tiktok.com/b")
			So(log.Append(first), ShouldBeNil)
			So(log.Append(second), ShouldBeNil)

			entries, err := log.Get()
			So(err, ShouldBeNil)
			So(entries, ShouldHaveLength, 2)
			So(entries[0].ID, ShouldEqual, first.ID)
			So(entries[1].ID, ShouldEqual, second.ID)
			So(first.ID, ShouldNotEqual, second.ID)

			Convey("The file is persisted", func() {
				exists, err := filesystem.API().Exists("/config/history.json")
				So(err, ShouldBeNil)
				So(exists, ShouldBeTrue)
			})

			Convey("Remove deletes by id", func() {
				removed, err := log.Remove(first.ID)
				So(err, ShouldBeNil)
				So(removed, ShouldBeTrue)

				removed, err = log.Remove("missing")
				So(err, ShouldBeNil)
				So(removed, ShouldBeFalse)

				entries, _ := log.Get()
				So(entries, ShouldHaveLength, 1)
			})

			Convey("Clear empties the log", func() {
				So(log.Clear(), ShouldBeNil)
				entries, _ := log.Get()
				So(entries, ShouldBeEmpty)
			})
		})

		Convey("The oldest entries are trimmed beyond the cap", func() {
			for i := 0; i < 5; i++ {
				So(log.Append(NewEntry("youtube", fmt.Sprintf("https://youtu.be/%d", i))), ShouldBeNil)
			}

			entries, err := log.Get()
			So(err, ShouldBeNil)
			So(entries, ShouldHaveLength, 3)
			So(entries[0].URL, ShouldEqual, "https://youtu.be/2")
			So(entries[2].URL, ShouldEqual, "https://youtu.be/4")
		})

		Convey("Concurrent appends are not lost", func() {
			log.Max = 100
			var wg sync.WaitGroup
			for i := 0; i < 20; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					_ = log.Append(NewEntry("instagram", fmt.Sprintf("https://instagram.com/p/%d", i)))
				}(i)
			}
			wg.Wait()

			entries, err := log.Get()
			So(err, ShouldBeNil)
			So(entries, ShouldHaveLength, 20)
		})
	})
}

func TestEntryString(t *testing.T) {
	Convey("Entry.String prefers the title", t, func() {
		e := &Entry{Platform: "youtube", URL: "u"}
		So(e.String(), ShouldEqual, "u [youtube]")
		e.Title = "Clip"
		So(e.String(), ShouldEqual, "Clip [youtube]")
	})
}
