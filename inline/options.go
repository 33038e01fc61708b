package inline

import (
	"io"

	"github.com/samber/mo"
	"github.com/videocatcher/videocatcher/catcher"
	"github.com/videocatcher/videocatcher/platform"
)

// StdoutOutput makes Run write the media bytes of a single URL to Options.Out.
const StdoutOutput = "-"

// Tracker observes one transfer at a time.
type Tracker interface {
	Start(name string, total mo.Option[int64])
	Add(n int)
	Done(err error)
}

type nopTracker struct{}

func (nopTracker) Start(string, mo.Option[int64]) {}
func (nopTracker) Add(int)                        {}
func (nopTracker) Done(error)                     {}

type Options struct {
	Out     io.Writer
	Service *catcher.Service
	URLs    []string
	// Platform overrides detection for every URL when set.
	Platform platform.Platform
	User     string
	Json     bool
	// Output is empty to only resolve, StdoutOutput to stream to Out, or a directory to save into.
	Output string
	// Merge saves through the extractor, which may merge separate video and audio streams.
	Merge   bool
	Tracker Tracker
}

func (o *Options) request(url string) catcher.Request {
	return catcher.Request{URL: url, Platform: o.Platform, User: o.User}
}
