package inline

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/samber/mo"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/afero"
	"github.com/videocatcher/videocatcher/catcher"
	"github.com/videocatcher/videocatcher/credential"
	"github.com/videocatcher/videocatcher/extract"
	"github.com/videocatcher/videocatcher/filesystem"
	"github.com/videocatcher/videocatcher/format"
	"github.com/videocatcher/videocatcher/history"
	"github.com/videocatcher/videocatcher/media"
	"github.com/videocatcher/videocatcher/relay"
)

type fakeBackend struct {
	info *media.Info
}

func (f *fakeBackend) Extract(context.Context, string, extract.Options) (*media.Info, error) {
	return f.info, nil
}

func (f *fakeBackend) Download(_ context.Context, _, dir string, _ extract.Options) (string, error) {
	return dir + "/merged.mkv", nil
}

type countingTracker struct {
	name  string
	added int
	done  bool
}

func (c *countingTracker) Start(name string, _ mo.Option[int64]) { c.name = name }
func (c *countingTracker) Add(n int)                             { c.added += n }
func (c *countingTracker) Done(error)                            { c.done = true }

func newService(originURL string) *catcher.Service {
	filesystem.SetMemMapFs()

	store := credential.New("/cookies")
	store.Window = 15 * time.Minute

	orchestrator := extract.New(&fakeBackend{info: &media.Info{
		Title: "Clip",
		Formats: []media.Format{{
			ID: "22", URL: originURL + "/22.mp4", Ext: "mp4",
			Height: 720, FPS: 30, VideoCodec: "avc1", AudioCodec: "mp4a",
		}},
	}})
	orchestrator.Config = extract.Config{}

	return &catcher.Service{
		Credentials:  store,
		Orchestrator: orchestrator,
		Selector:     &format.Selector{Tiers: format.Tiers, Scoring: format.Scoring{DetailHeight: 720, DetailMultiplier: 2, DefaultFPS: 30}},
		Streamer:     &relay.Streamer{Client: http.DefaultClient, ChunkSize: 512},
		History:      catcher.RecorderFunc(func(*history.Entry) error { return nil }),
	}
}

func TestRun(t *testing.T) {
	Convey("Given an origin and a service resolving to it", t, func() {
		payload := bytes.Repeat([]byte("x"), 3000)
		origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write(payload)
		}))
		defer origin.Close()

		var out bytes.Buffer
		options := &Options{Out: &out, Service: newService(origin.URL), URLs: []string{"https://youtu.be/abc"}}

		Convey("Resolving prints the direct URL", func() {
			So(Run(context.Background(), options), ShouldBeNil)
			So(out.String(), ShouldEqual, origin.URL+"/22.mp4\n")
		})

		Convey("Streaming to stdout writes the media bytes", func() {
			tracker := &countingTracker{}
			options.Output = StdoutOutput
			options.Tracker = tracker

			So(Run(context.Background(), options), ShouldBeNil)
			So(out.Bytes(), ShouldResemble, payload)
			So(tracker.added, ShouldEqual, len(payload))
			So(tracker.done, ShouldBeTrue)
			So(tracker.name, ShouldEqual, "Clip.mp4")
		})

		Convey("Saving writes a complete file into the directory", func() {
			options.Output = "/out"

			So(Run(context.Background(), options), ShouldBeNil)
			So(out.String(), ShouldEqual, "/out/Clip.mp4\n")

			data, err := afero.ReadFile(filesystem.API(), "/out/Clip.mp4")
			So(err, ShouldBeNil)
			So(data, ShouldResemble, payload)

			exists, _ := afero.Exists(filesystem.API(), "/out/Clip.mp4.part")
			So(exists, ShouldBeFalse)
		})

		Convey("Merging hands the download to the extractor", func() {
			options.Output = "/out"
			options.Merge = true

			So(Run(context.Background(), options), ShouldBeNil)
			So(out.String(), ShouldEqual, "/out/merged.mkv\n")
		})

		Convey("JSON mode reports failures per item and continues", func() {
			options.Json = true
			options.URLs = []string{"https://vimeo.com/1", "https://youtu.be/abc"}

			So(Run(context.Background(), options), ShouldBeNil)

			var output Output
			So(json.Unmarshal(out.Bytes(), &output), ShouldBeNil)
			So(output.Items, ShouldHaveLength, 2)
			So(output.Items[0].Kind, ShouldEqual, "unsupported_platform")
			So(output.Items[0].Result, ShouldBeNil)
			So(output.Items[1].Error, ShouldBeEmpty)
			So(output.Items[1].Platform, ShouldEqual, "youtube")
			So(output.Items[1].Result.Title, ShouldEqual, "Clip")
		})

		Convey("Without JSON the first failure is returned", func() {
			options.URLs = []string{"https://vimeo.com/1"}
			So(Run(context.Background(), options), ShouldNotBeNil)
		})

		Convey("No URLs is an error", func() {
			options.URLs = nil
			So(Run(context.Background(), options), ShouldEqual, ErrNoURL)
		})
	})
}

func TestSchema(t *testing.T) {
	Convey("The schema describes the items list", t, func() {
		data, err := json.Marshal(Schema())
		So(err, ShouldBeNil)
		So(string(data), ShouldContainSubstring, `"items"`)
	})
}
