// Package media defines the extractor metadata model and the resolved download result.
package media

import (
	"strings"

	"github.com/samber/mo"
)

// Info is the metadata the extractor reports for a single video.
type Info struct {
	ID             string            `json:"id"`
	Title          string            `json:"title"`
	URL            string            `json:"url"`
	Ext            string            `json:"ext"`
	Protocol       string            `json:"protocol"`
	Filesize       float64           `json:"filesize"`
	FilesizeApprox float64           `json:"filesize_approx"`
	Duration       float64           `json:"duration"`
	Uploader       string            `json:"uploader"`
	WebpageURL     string            `json:"webpage_url"`
	Extractor      string            `json:"extractor_key"`
	Headers        map[string]string `json:"http_headers"`

	Formats          []Format `json:"formats"`
	RequestedFormats []Format `json:"requested_formats"`
}

// Size returns the declared size of the top-level media, preferring the exact size over the estimate.
func (i *Info) Size() mo.Option[int64] {
	return sizeOf(i.Filesize, i.FilesizeApprox)
}

// Format is one candidate rendition listed by the extractor.
type Format struct {
	ID             string            `json:"format_id"`
	URL            string            `json:"url"`
	Ext            string            `json:"ext"`
	Protocol       string            `json:"protocol"`
	Width          int               `json:"width"`
	Height         int               `json:"height"`
	FPS            float64           `json:"fps"`
	VideoCodec     string            `json:"vcodec"`
	AudioCodec     string            `json:"acodec"`
	Filesize       float64           `json:"filesize"`
	FilesizeApprox float64           `json:"filesize_approx"`
	Headers        map[string]string `json:"http_headers"`
}

// HasVideo reports whether the format carries a video stream.
func (f *Format) HasVideo() bool {
	return present(f.VideoCodec)
}

// HasAudio reports whether the format carries an audio stream.
func (f *Format) HasAudio() bool {
	return present(f.AudioCodec)
}

// Size returns the declared size of the format.
func (f *Format) Size() mo.Option[int64] {
	return sizeOf(f.Filesize, f.FilesizeApprox)
}

// String returns a short label like "137 1920x1080@30 mp4".
func (f *Format) String() string {
	var b strings.Builder
	b.WriteString(f.ID)
	if f.Height > 0 {
		b.WriteString(" ")
		b.WriteString(resolution(f.Width, f.Height, f.FPS))
	}
	if f.Ext != "" {
		b.WriteString(" ")
		b.WriteString(f.Ext)
	}
	return b.String()
}

// present treats missing and "none" codecs as absent.
func present(codec string) bool {
	return codec != "" && codec != "none"
}

func sizeOf(exact, approx float64) mo.Option[int64] {
	switch {
	case exact > 0:
		return mo.Some(int64(exact))
	case approx > 0:
		return mo.Some(int64(approx))
	default:
		return mo.None[int64]()
	}
}
