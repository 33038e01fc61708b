package history

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Entry is one completed request.
type Entry struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Platform  string    `json:"platform"`
	URL       string    `json:"url"`
	Title     string    `json:"title,omitempty"`
	Uploader  string    `json:"uploader,omitempty"`
	Filename  string    `json:"filename,omitempty"`
	Strategy  string    `json:"strategy,omitempty"`
}

// NewEntry returns an entry stamped with a fresh id and the current time.
func NewEntry(platform, url string) *Entry {
	return &Entry{
		ID:        uuid.NewString(),
		Timestamp: time.Now().UTC(),
		Platform:  platform,
		URL:       url,
	}
}

func (e *Entry) String() string {
	if e.Title != "" {
		return fmt.Sprintf("%s [%s]", e.Title, e.Platform)
	}
	return fmt.Sprintf("%s [%s]", e.URL, e.Platform)
}
