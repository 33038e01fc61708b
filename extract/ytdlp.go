package extract

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/lrstanley/go-ytdlp"
	"github.com/spf13/viper"
	"github.com/videocatcher/videocatcher/key"
	"github.com/videocatcher/videocatcher/media"
)

// YTDLP runs the yt-dlp executable. An empty Executable uses the one found on PATH.
type YTDLP struct {
	Executable string
}

// NewYTDLP returns the yt-dlp binding configured by extract.binary.
func NewYTDLP() *YTDLP {
	return &YTDLP{Executable: viper.GetString(key.ExtractBinary)}
}

// command builds the invocation shared by metadata extraction and downloads.
func (y *YTDLP) command(opts Options) *ytdlp.Command {
	cmd := ytdlp.New().
		NoWarnings().
		Retries(strconv.Itoa(opts.Retries)).
		FragmentRetries(strconv.Itoa(opts.FragmentRetries))

	if y.Executable != "" {
		cmd.SetExecutable(y.Executable)
	}

	if opts.SocketTimeout > 0 {
		cmd.SocketTimeout(opts.SocketTimeout.Seconds())
	}

	if opts.NoPlaylist {
		cmd.NoPlaylist()
	}

	if opts.NoCheckCertificates {
		cmd.NoCheckCertificates()
	}

	if opts.Format != "" {
		cmd.Format(opts.Format)
	}

	if opts.Cookies != "" {
		cmd.Cookies(opts.Cookies)
	}

	if opts.Strategy.UserAgent != "" {
		cmd.AddHeaders("User-Agent:" + opts.Strategy.UserAgent)
	}

	return cmd
}

// arguments places every extractor's --extractor-args before url. The builder's
// ExtractorArgs setter keeps only the last value, so they are passed raw.
func arguments(opts Options, url string) []string {
	var args []string
	for _, rendered := range opts.Strategy.ExtractorArgs.Render() {
		args = append(args, "--extractor-args", rendered)
	}
	return append(args, url)
}

// Extract dumps the metadata of url as a single JSON document and decodes it.
func (y *YTDLP) Extract(ctx context.Context, url string, opts Options) (*media.Info, error) {
	result, err := y.command(opts).
		DumpSingleJSON().
		SkipDownload().
		Run(ctx, arguments(opts, url)...)
	if err != nil {
		return nil, runError(err, result)
	}

	return decodeInfo(result.Stdout)
}

// Download saves url's media into dir under a unique prefix and returns the final path
// reported by yt-dlp once post-processing has moved the file into place.
func (y *YTDLP) Download(ctx context.Context, url, dir string, opts Options) (string, error) {
	prefix := strings.ReplaceAll(uuid.NewString(), "-", "")[:10]
	template := filepath.Join(dir, prefix+"_%(title)s.%(ext)s")

	result, err := y.command(opts).
		Output(template).
		RestrictFilenames().
		NoProgress().
		Print("after_move:filepath").
		Run(ctx, arguments(opts, url)...)
	if err != nil {
		return "", runError(err, result)
	}

	path := lastLine(result.Stdout)
	if path == "" {
		return "", errors.New("yt-dlp did not report the downloaded file")
	}
	return path, nil
}

func decodeInfo(stdout string) (*media.Info, error) {
	stdout = strings.TrimSpace(stdout)
	if stdout == "" {
		return nil, errors.New("yt-dlp returned no metadata")
	}

	var info media.Info
	if err := json.Unmarshal([]byte(stdout), &info); err != nil {
		return nil, fmt.Errorf("decode yt-dlp metadata: %w", err)
	}
	return &info, nil
}

// runError attaches yt-dlp's own error lines so classification sees messages like "HTTP Error 403".
func runError(err error, result *ytdlp.Result) error {
	if result == nil {
		return err
	}

	reason := errorLines(result.Stderr)
	if reason == "" || strings.Contains(err.Error(), reason) {
		return err
	}
	return fmt.Errorf("%w: %s", err, reason)
}

// errorLines returns the "ERROR:" lines of stderr, or its last line when there are none.
func errorLines(stderr string) string {
	var found []string
	for _, line := range strings.Split(stderr, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "ERROR:") {
			found = append(found, line)
		}
	}

	if len(found) > 0 {
		return strings.Join(found, "; ")
	}
	return lastLine(stderr)
}

func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}
