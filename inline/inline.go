// Package inline runs the non-interactive download mode: resolve, stream or save each URL
// and report plainly or as JSON.
package inline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/videocatcher/videocatcher/catcher"
	"github.com/videocatcher/videocatcher/filesystem"
	"github.com/videocatcher/videocatcher/log"
	"github.com/videocatcher/videocatcher/relay"
	"github.com/videocatcher/videocatcher/util"
)

// ErrNoURL is returned when Run is given nothing to do.
var ErrNoURL = errors.New("no URL given")

// Run processes every URL in options. In JSON mode failures are reported per item and
// processing continues; otherwise the first failure is returned.
func Run(ctx context.Context, options *Options) error {
	if len(options.URLs) == 0 {
		return ErrNoURL
	}
	if options.Out == nil {
		options.Out = os.Stdout
	}
	if options.Tracker == nil {
		options.Tracker = nopTracker{}
	}
	if options.Service == nil {
		options.Service = catcher.New()
	}

	if options.Output == StdoutOutput {
		if len(options.URLs) != 1 || options.Json {
			return errors.New("streaming to stdout takes exactly one URL and no JSON")
		}
		return stream(ctx, options, options.URLs[0])
	}

	var items []*Item
	for _, url := range options.URLs {
		item := newItem(url, options.Platform)
		items = append(items, item)

		if err := process(ctx, options, item); err != nil {
			if !options.Json {
				return err
			}
			log.WithFields(log.Fields{"url": url}).Warnf("inline: %s", err)
			item.fail(err)
			continue
		}

		if !options.Json {
			report(options.Out, item)
		}
	}

	if options.Json {
		return writeJson(options.Out, items)
	}
	return nil
}

func process(ctx context.Context, options *Options, item *Item) error {
	req := options.request(item.URL)

	switch {
	case options.Output == "":
		result, err := options.Service.Resolve(ctx, req)
		item.Result = result
		return err
	case options.Merge:
		path, err := options.Service.Download(ctx, req, options.Output)
		item.File = path
		return err
	default:
		s, err := options.Service.Open(ctx, req)
		if err != nil {
			return err
		}
		defer util.Ignore(s.Close)

		item.Result = s.Result
		item.File, err = save(s, options.Output, options.Tracker)
		return err
	}
}

func report(out io.Writer, item *Item) {
	switch {
	case item.File != "":
		_, _ = fmt.Fprintln(out, item.File)
	case item.Result != nil:
		_, _ = fmt.Fprintln(out, item.Result.URL)
	}
}

func stream(ctx context.Context, options *Options, url string) error {
	s, err := options.Service.Open(ctx, options.request(url))
	if err != nil {
		return err
	}
	defer util.Ignore(s.Close)

	options.Tracker.Start(s.Filename(), s.ContentLength)
	_, err = s.WriteTo(&trackingWriter{w: options.Out, t: options.Tracker})
	options.Tracker.Done(err)
	return err
}

// save writes s into dir under its attachment name. The file appears only once complete.
func save(s *relay.Stream, dir string, tracker Tracker) (path string, err error) {
	if err := filesystem.API().MkdirAll(dir, os.ModePerm); err != nil {
		return "", err
	}

	path = filepath.Join(dir, s.Filename())
	partial := path + ".part"

	f, err := filesystem.API().Create(partial)
	if err != nil {
		return "", err
	}

	tracker.Start(s.Filename(), s.ContentLength)
	_, err = s.WriteTo(&trackingWriter{w: f, t: tracker})
	tracker.Done(err)

	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = filesystem.API().Remove(partial)
		return "", err
	}

	if err := filesystem.API().Rename(partial, path); err != nil {
		return "", err
	}
	return path, nil
}

type trackingWriter struct {
	w io.Writer
	t Tracker
}

func (t *trackingWriter) Write(p []byte) (int, error) {
	n, err := t.w.Write(p)
	t.t.Add(n)
	return n, err
}
