// Package catcher is the service facade: it turns a page URL into a relayed media stream
// or a persisted download.
package catcher

import (
	"context"
	"errors"
	"path/filepath"
	"strings"

	"github.com/videocatcher/videocatcher/credential"
	"github.com/videocatcher/videocatcher/extract"
	"github.com/videocatcher/videocatcher/failure"
	"github.com/videocatcher/videocatcher/format"
	"github.com/videocatcher/videocatcher/history"
	"github.com/videocatcher/videocatcher/log"
	"github.com/videocatcher/videocatcher/media"
	"github.com/videocatcher/videocatcher/metrics"
	"github.com/videocatcher/videocatcher/platform"
	"github.com/videocatcher/videocatcher/relay"
	"github.com/videocatcher/videocatcher/util"
)

// ErrEmptyURL is returned for requests without a URL.
var ErrEmptyURL = errors.New("please provide a video URL")

// Request is a single user request. Platform may be empty to detect it from URL.
// User is the opaque identifier whose uploaded cookies should be preferred.
type Request struct {
	URL      string
	Platform platform.Platform
	User     string
}

// Recorder persists completed requests.
type Recorder interface {
	Append(entry *history.Entry) error
}

// RecorderFunc adapts a function to Recorder.
type RecorderFunc func(entry *history.Entry) error

func (f RecorderFunc) Append(entry *history.Entry) error {
	return f(entry)
}

// Service wires the detector, credential store, orchestrator, selector and relay together.
type Service struct {
	Credentials  *credential.Store
	Orchestrator *extract.Orchestrator
	Selector     *format.Selector
	Streamer     *relay.Streamer
	History      Recorder
}

// New returns a service over the default stores and a yt-dlp backed orchestrator.
func New() *Service {
	return &Service{
		Credentials:  credential.Default(),
		Orchestrator: extract.New(extract.NewYTDLP()),
		Selector:     format.New(),
		Streamer:     relay.New(),
		History:      RecorderFunc(history.Append),
	}
}

// prepare validates req and resolves its platform and credential.
func (s *Service) prepare(req Request) (extract.Request, error) {
	url := strings.TrimSpace(req.URL)
	if url == "" {
		return extract.Request{}, ErrEmptyURL
	}

	p := platform.Resolve(url, req.Platform)
	if !p.IsSupported() {
		return extract.Request{}, failure.Newf(failure.UnsupportedPlatform, "unsupported platform for %s", url)
	}

	ref, err := s.Credentials.Resolve(req.User, p)
	if err != nil {
		return extract.Request{}, err
	}

	log.WithFields(log.Fields{"platform": p, "cookies": ref.Scope}).Debug("request prepared")
	return extract.Request{URL: url, Platform: p, Cookies: ref.Path}, nil
}

// Resolve extracts req's metadata and selects the single best direct format.
func (s *Service) Resolve(ctx context.Context, req Request) (*media.Result, error) {
	result, err := s.resolve(ctx, req)
	s.count(req, err)
	return result, err
}

func (s *Service) resolve(ctx context.Context, req Request) (*media.Result, error) {
	xreq, err := s.prepare(req)
	if err != nil {
		return nil, err
	}

	extraction, err := s.Orchestrator.Resolve(ctx, xreq)
	if err != nil {
		return nil, err
	}

	choice, err := s.Selector.Select(extraction.Info)
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"platform": xreq.Platform,
		"strategy": extraction.Strategy.Name,
		"format":   choice.String(),
	}).Info("format selected")

	return format.Result(extraction.Info, choice, extraction.Strategy.Name), nil
}

// Open resolves req and opens the origin stream of the chosen format. The request is
// recorded in history once the origin answers. The caller must close the stream.
func (s *Service) Open(ctx context.Context, req Request) (*relay.Stream, error) {
	result, err := s.Resolve(ctx, req)
	if err != nil {
		return nil, err
	}

	stream, err := s.Streamer.Open(ctx, result)
	if err != nil {
		return nil, err
	}

	s.record(req, result, stream.Filename())
	return stream, nil
}

// Download persists req's media under dir through the extractor itself and returns the file path.
func (s *Service) Download(ctx context.Context, req Request, dir string) (string, error) {
	xreq, err := s.prepare(req)
	if err != nil {
		s.count(req, err)
		return "", err
	}

	download, err := s.Orchestrator.Download(ctx, xreq, dir)
	s.count(req, err)
	if err != nil {
		return "", err
	}

	s.record(req, &media.Result{Strategy: download.Strategy.Name}, filepath.Base(download.Path))
	return download.Path, nil
}

func (s *Service) record(req Request, result *media.Result, filename string) {
	if s.History == nil {
		return
	}

	entry := history.NewEntry(platform.Resolve(req.URL, req.Platform).String(), strings.TrimSpace(req.URL))
	entry.Title = result.Title
	entry.Uploader = result.Uploader.OrEmpty()
	entry.Filename = filename
	entry.Strategy = result.Strategy

	if err := s.History.Append(entry); err != nil {
		log.Warnf("failed to record history: %s", err)
	}
}

func (s *Service) count(req Request, err error) {
	outcome := "ok"
	if err != nil {
		outcome = failure.KindOf(err).String()
	}
	metrics.Requests.WithLabelValues(platform.Resolve(req.URL, req.Platform).String(), outcome).Inc()
}

// Describe returns a one-line summary of result for logs and the CLI.
func Describe(result *media.Result) string {
	parts := []string{result.String()}
	if uploader, ok := result.Uploader.Get(); ok {
		parts = append(parts, "by "+uploader)
	}
	if size, ok := result.Filesize.Get(); ok {
		parts = append(parts, util.HumanBytes(size))
	}
	return strings.Join(parts, ", ")
}
