// Package extract drives the external extractor through the ordered strategy fallback of each platform.
package extract

import (
	"context"
	"fmt"
	"time"

	"github.com/videocatcher/videocatcher/failure"
	"github.com/videocatcher/videocatcher/log"
	"github.com/videocatcher/videocatcher/media"
	"github.com/videocatcher/videocatcher/metrics"
	"github.com/videocatcher/videocatcher/platform"
	"github.com/videocatcher/videocatcher/strategy"
)

// Extractor resolves a page URL to its media metadata without downloading it.
type Extractor interface {
	Extract(ctx context.Context, url string, opts Options) (*media.Info, error)
}

// Downloader downloads a page URL's media into dir and returns the final file path.
type Downloader interface {
	Download(ctx context.Context, url, dir string, opts Options) (string, error)
}

// Backend both extracts metadata and downloads.
type Backend interface {
	Extractor
	Downloader
}

// Request identifies what to extract. Cookies is the path of the credential file to use, if any.
type Request struct {
	URL      string
	Platform platform.Platform
	Cookies  string
}

// Extraction is a successful metadata resolution.
type Extraction struct {
	Info     *media.Info
	Strategy strategy.Strategy
	Attempts int
}

// Download is a successful disk download.
type Download struct {
	Path     string
	Strategy strategy.Strategy
	Attempts int
}

// Orchestrator tries each strategy of the request's platform in order until one succeeds.
// It keeps no per-request state, so one instance serves concurrent requests.
type Orchestrator struct {
	Extractor  Extractor
	Downloader Downloader
	Strategies strategy.Table
	Config     Config
}

// New returns an orchestrator backed by b for both metadata and downloads, using the default strategy table.
func New(b Backend) *Orchestrator {
	return &Orchestrator{
		Extractor:  b,
		Downloader: b,
		Strategies: strategy.Default(),
		Config:     DefaultConfig(),
	}
}

// Resolve extracts the metadata of req.URL.
func (o *Orchestrator) Resolve(ctx context.Context, req Request) (*Extraction, error) {
	info, s, attempts, err := run(ctx, o, req, func(ctx context.Context, opts Options) (*media.Info, error) {
		return o.Extractor.Extract(ctx, req.URL, opts)
	})
	if err != nil {
		return nil, err
	}
	return &Extraction{Info: info, Strategy: s, Attempts: attempts}, nil
}

// Download persists req.URL's media into dir.
func (o *Orchestrator) Download(ctx context.Context, req Request, dir string) (*Download, error) {
	if o.Downloader == nil {
		return nil, fmt.Errorf("no downloader configured")
	}

	path, s, attempts, err := run(ctx, o, req, func(ctx context.Context, opts Options) (string, error) {
		return o.Downloader.Download(ctx, req.URL, dir, opts)
	})
	if err != nil {
		return nil, err
	}
	return &Download{Path: path, Strategy: s, Attempts: attempts}, nil
}

// run is the strategy loop shared by Resolve and Download.
func run[T any](
	ctx context.Context,
	o *Orchestrator,
	req Request,
	attempt func(context.Context, Options) (T, error),
) (result T, winner strategy.Strategy, attempts int, err error) {
	strategies := o.Strategies.For(req.Platform)
	if len(strategies) == 0 {
		err = failure.Newf(failure.UnsupportedPlatform, "no strategies for platform %q", req.Platform)
		return
	}

	var (
		lastErr error
		verdict Verdict
	)

	for i, s := range strategies {
		attempts = i + 1
		last := attempts == len(strategies)

		entry := log.WithFields(log.Fields{
			"platform": req.Platform,
			"strategy": s.Name,
			"attempt":  fmt.Sprintf("%d/%d", attempts, len(strategies)),
		})
		entry.Infof("extracting %s", req.URL)

		result, lastErr = attempt(ctx, o.Config.options(req, s))
		if lastErr == nil {
			metrics.Attempts.WithLabelValues(req.Platform.String(), s.Name, metrics.OutcomeSuccess).Inc()
			entry.Info("extraction succeeded")
			return result, s, attempts, nil
		}

		if ctxErr := ctx.Err(); ctxErr != nil {
			err = fmt.Errorf("extraction canceled: %w", ctxErr)
			return
		}

		verdict = Classify(lastErr)
		metrics.Attempts.WithLabelValues(req.Platform.String(), s.Name, verdict.String()).Inc()
		entry.WithField("verdict", verdict).Warnf("strategy failed: %s", lastErr)

		if verdict == Terminal || last {
			break
		}

		backoff := o.Config.RetryBackoff
		if verdict == Forbidden {
			backoff = o.Config.ForbiddenBackoff
		}

		if sleepErr := sleep(ctx, backoff); sleepErr != nil {
			err = fmt.Errorf("extraction canceled: %w", sleepErr)
			return
		}
	}

	var zero T
	result = zero
	err = &failure.Error{
		Kind:     verdict.kind(),
		Err:      lastErr,
		Attempts: attempts,
	}
	return
}

// sleep pauses for d or until ctx is done, whichever comes first.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
