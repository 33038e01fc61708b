package cleanup

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/videocatcher/videocatcher/filesystem"
)

func TestSweep(t *testing.T) {
	Convey("Given a downloads directory", t, func() {
		filesystem.SetMemMapFs()
		fs := filesystem.API()

		now := time.Now()
		So(fs.WriteFile("/downloads/old.mp4", []byte("old"), 0o600), ShouldBeNil)
		So(fs.WriteFile("/downloads/new.mp4", []byte("new"), 0o600), ShouldBeNil)
		So(fs.Chtimes("/downloads/old.mp4", now.Add(-3*time.Hour), now.Add(-3*time.Hour)), ShouldBeNil)

		Convey("Files older than the TTL are removed", func() {
			So(Sweep("/downloads", 2*time.Hour, now), ShouldEqual, 1)

			exists, _ := fs.Exists("/downloads/old.mp4")
			So(exists, ShouldBeFalse)
			exists, _ = fs.Exists("/downloads/new.mp4")
			So(exists, ShouldBeTrue)
		})

		Convey("Nested directories are never entered", func() {
			So(fs.WriteFile("/downloads/keep/older.mp4", []byte("nested"), 0o600), ShouldBeNil)
			So(fs.Chtimes("/downloads/keep/older.mp4", now.Add(-5*time.Hour), now.Add(-5*time.Hour)), ShouldBeNil)
			So(fs.Chtimes("/downloads/keep", now.Add(-5*time.Hour), now.Add(-5*time.Hour)), ShouldBeNil)

			So(Sweep("/downloads", 2*time.Hour, now), ShouldEqual, 1)

			exists, _ := fs.Exists("/downloads/keep/older.mp4")
			So(exists, ShouldBeTrue)
			exists, _ = fs.DirExists("/downloads/keep")
			So(exists, ShouldBeTrue)
		})

		Convey("A missing directory is not an error", func() {
			So(Sweep("/missing", time.Hour, now), ShouldEqual, 0)
		})
	})
}

func TestRun(t *testing.T) {
	Convey("Run sweeps and purges until canceled", t, func() {
		filesystem.SetMemMapFs()

		var purges atomic.Int32
		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan struct{})

		go func() {
			Run(ctx, Options{
				Dir:      "/downloads",
				TTL:      time.Hour,
				Interval: 5 * time.Millisecond,
				Purgers: []Purger{func() (int, error) {
					purges.Add(1)
					return 0, nil
				}},
			})
			close(done)
		}()

		time.Sleep(30 * time.Millisecond)
		cancel()

		select {
		case <-done:
		case <-time.After(time.Second):
		}

		So(purges.Load(), ShouldBeGreaterThanOrEqualTo, 1)
		select {
		case <-done:
			So(true, ShouldBeTrue)
		default:
			So("cleanup loop did not stop", ShouldBeEmpty)
		}
	})
}
