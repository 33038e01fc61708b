package media

import (
	"fmt"
	"strings"

	"github.com/samber/mo"
)

// Result is the outcome of a successful resolution: exactly one directly fetchable URL
// and what is needed to fetch and name it.
type Result struct {
	Title     string             `json:"title"`
	URL       string             `json:"url"`
	Extension string             `json:"extension"`
	Filesize  mo.Option[int64]   `json:"filesize" jsonschema:"type=integer"`
	Duration  mo.Option[float64] `json:"duration" jsonschema:"type=number"`
	Uploader  mo.Option[string]  `json:"uploader" jsonschema:"type=string"`
	Headers   map[string]string  `json:"headers"`
	FormatID  string             `json:"format_id"`
	Height    int                `json:"height"`
	Strategy  string             `json:"strategy"`
}

// Filename returns the unsanitized "title.ext" name of the media.
func (r *Result) Filename() string {
	title := strings.TrimSpace(r.Title)
	if title == "" {
		title = "video"
	}

	ext := strings.TrimPrefix(r.Extension, ".")
	if ext == "" {
		ext = "mp4"
	}

	return fmt.Sprintf("%s.%s", title, ext)
}

// String returns the title along with the chosen resolution if known.
func (r *Result) String() string {
	if r.Height > 0 {
		return fmt.Sprintf("%s (%dp)", r.Title, r.Height)
	}
	return r.Title
}

func resolution(width, height int, fps float64) string {
	if fps > 0 {
		return fmt.Sprintf("%dx%d@%.0f", width, height, fps)
	}
	return fmt.Sprintf("%dx%d", width, height)
}
