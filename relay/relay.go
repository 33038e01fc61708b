// Package relay forwards origin media bytes to a caller in fixed-size chunks.
package relay

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/samber/mo"
	"github.com/spf13/viper"
	"github.com/videocatcher/videocatcher/constant"
	"github.com/videocatcher/videocatcher/failure"
	"github.com/videocatcher/videocatcher/key"
	"github.com/videocatcher/videocatcher/log"
	"github.com/videocatcher/videocatcher/media"
	"github.com/videocatcher/videocatcher/metrics"
	"github.com/videocatcher/videocatcher/network"
	"github.com/videocatcher/videocatcher/util"
)

// DefaultChunkSize is used when no positive chunk size is configured.
const DefaultChunkSize = 8 * 1024

// Streamer opens origin connections for resolved media.
type Streamer struct {
	Client    *http.Client
	ChunkSize int
	// IdleTimeout bounds every read from the origin body. Zero disables it.
	IdleTimeout time.Duration
}

// New returns a streamer configured by the relay.* settings.
func New() *Streamer {
	client := network.Client
	if viper.GetBool(key.RelayFingerprint) {
		client = network.Fingerprinted()
	}

	return &Streamer{
		Client:      client,
		ChunkSize:   viper.GetInt(key.RelayChunkSize),
		IdleTimeout: time.Duration(viper.GetInt(key.RelayIdleTimeout)) * time.Second,
	}
}

// Open requests the chosen URL with the headers used during extraction.
// Transport errors and non-2xx answers fail with OriginStreamFailure.
func (s *Streamer) Open(ctx context.Context, result *media.Result) (*Stream, error) {
	ctx, cancel := context.WithCancel(ctx)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, result.URL, nil)
	if err != nil {
		cancel()
		return nil, failure.New(failure.OriginStreamFailure, fmt.Errorf("build origin request: %w", err))
	}

	for name, value := range result.Headers {
		req.Header.Set(name, value)
	}
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", constant.UserAgent)
	}

	client := s.Client
	if client == nil {
		client = network.Client
	}

	resp, err := client.Do(req)
	if err != nil {
		cancel()
		return nil, failure.New(failure.OriginStreamFailure, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_ = resp.Body.Close()
		cancel()
		return nil, failure.Newf(failure.OriginStreamFailure, "origin answered %s", resp.Status)
	}

	chunk := s.ChunkSize
	if chunk <= 0 {
		chunk = DefaultChunkSize
	}

	stream := &Stream{
		Result:      result,
		ContentType: resp.Header.Get("Content-Type"),
		body:        resp.Body,
		chunk:       chunk,
		idle:        s.IdleTimeout,
		cancel:      cancel,
	}
	if resp.ContentLength >= 0 {
		stream.ContentLength = mo.Some(resp.ContentLength)
	}
	return stream, nil
}

// Stream is an open origin response. It must be closed.
type Stream struct {
	Result        *media.Result
	ContentType   string
	ContentLength mo.Option[int64]

	body    io.ReadCloser
	chunk   int
	idle    time.Duration
	cancel  context.CancelFunc
	stalled atomic.Bool
}

// Filename returns the attachment name: title and extension made safe for any filesystem.
func (s *Stream) Filename() string {
	ext := util.SanitizeFilename(s.Result.Extension)
	if ext == "" {
		ext = "mp4"
	}

	stem := util.SanitizeFilename(s.Result.Title)
	if stem == "" {
		stem = "video"
	}
	return stem + "." + ext
}

// MediaType returns the origin's content type, else one guessed from the extension.
func (s *Stream) MediaType() string {
	if s.ContentType != "" {
		return s.ContentType
	}
	if t := mime.TypeByExtension("." + strings.TrimPrefix(s.Result.Extension, ".")); t != "" {
		return t
	}
	return "application/octet-stream"
}

// WriteTo copies the origin body to w through a single chunk-sized buffer, flushing after
// every chunk when w supports it. A failing origin aborts with OriginStreamFailure.
func (s *Stream) WriteTo(w io.Writer) (written int64, err error) {
	metrics.ActiveStreams.Inc()
	defer metrics.ActiveStreams.Dec()

	flusher, _ := w.(http.Flusher)
	buf := make([]byte, s.chunk)

	for {
		n, readErr := s.read(buf)
		if n > 0 {
			m, writeErr := w.Write(buf[:n])
			written += int64(m)
			metrics.RelayedBytes.Add(float64(m))
			if writeErr != nil {
				return written, fmt.Errorf("write to caller: %w", writeErr)
			}
			if m != n {
				return written, fmt.Errorf("write to caller: %w", io.ErrShortWrite)
			}
			if flusher != nil {
				flusher.Flush()
			}
		}

		if errors.Is(readErr, io.EOF) {
			return written, nil
		}
		if readErr != nil {
			if s.stalled.Load() {
				readErr = fmt.Errorf("origin silent for %s: %w", s.idle, readErr)
			}
			log.WithFields(log.Fields{"url": s.Result.URL, "written": written}).Warnf("origin stream aborted: %s", readErr)
			return written, failure.New(failure.OriginStreamFailure, readErr)
		}
	}
}

// read fills buf from the origin, cancelling the request when no bytes arrive within the idle timeout.
func (s *Stream) read(buf []byte) (int, error) {
	if s.idle <= 0 || s.cancel == nil {
		return s.body.Read(buf)
	}

	timer := time.AfterFunc(s.idle, func() {
		s.stalled.Store(true)
		s.cancel()
	})
	defer timer.Stop()

	return s.body.Read(buf)
}

// Respond writes the attachment headers and then streams the body.
func (s *Stream) Respond(w http.ResponseWriter) (int64, error) {
	header := w.Header()
	header.Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": s.Filename()}))
	header.Set("Content-Type", s.MediaType())
	if size, ok := s.ContentLength.Get(); ok {
		header.Set("Content-Length", strconv.FormatInt(size, 10))
	}
	w.WriteHeader(http.StatusOK)

	return s.WriteTo(w)
}

// Close releases the origin connection.
func (s *Stream) Close() error {
	err := s.body.Close()
	if s.cancel != nil {
		s.cancel()
	}
	return err
}
