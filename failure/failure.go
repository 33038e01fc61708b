// Package failure defines the classified error kinds surfaced by the service and their user-facing messages.
package failure

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failed request.
type Kind int

const (
	// ExtractionFailed is the generic kind for errors no other kind describes.
	ExtractionFailed Kind = iota
	UnsupportedPlatform
	BlockedOrForbidden
	PrivateOrUnavailable
	NoPlayableFormat
	OriginStreamFailure
	CredentialExpired
	CredentialMissing
)

var kindNames = map[Kind]string{
	ExtractionFailed:     "extraction_failed",
	UnsupportedPlatform:  "unsupported_platform",
	BlockedOrForbidden:   "blocked_or_forbidden",
	PrivateOrUnavailable: "private_or_unavailable",
	NoPlayableFormat:     "no_playable_format",
	OriginStreamFailure:  "origin_stream_failure",
	CredentialExpired:    "credential_expired",
	CredentialMissing:    "credential_missing",
}

// String returns the snake_case identifier of the kind, used in JSON payloads and metrics.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Status maps the kind to the HTTP status code reported to web callers.
func (k Kind) Status() int {
	switch k {
	case UnsupportedPlatform:
		return http.StatusBadRequest
	case BlockedOrForbidden:
		return http.StatusForbidden
	case PrivateOrUnavailable:
		return http.StatusNotFound
	case NoPlayableFormat:
		return http.StatusUnprocessableEntity
	case CredentialExpired, CredentialMissing:
		return http.StatusUnauthorized
	default:
		return http.StatusBadGateway
	}
}

// Error is a classified failure. Err holds the last underlying error, if any.
// Attempts is the number of extraction strategies tried before giving up.
type Error struct {
	Kind     Kind
	Err      error
	Attempts int
}

// New returns a classified error wrapping err.
func New(kind Kind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

// Newf returns a classified error with a formatted underlying message.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Err: fmt.Errorf(format, args...)}
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Kind.String()
	}
	if e.Attempts > 0 {
		return fmt.Sprintf("%s after %d attempt(s): %s", e.Kind, e.Attempts, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is a *Error of the same kind.
func (e *Error) Is(target error) bool {
	var other *Error
	if errors.As(target, &other) {
		return other.Kind == e.Kind && other.Err == nil
	}
	return false
}

// KindOf extracts the kind of err, falling back to ExtractionFailed for unclassified errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ExtractionFailed
}

// Message returns the human-readable explanation of err.
// Unclassified errors surface their own message verbatim.
func Message(err error) string {
	if err == nil {
		return ""
	}

	var e *Error
	if !errors.As(err, &e) {
		return err.Error()
	}

	switch e.Kind {
	case UnsupportedPlatform:
		return "Unsupported platform. Only YouTube, TikTok and Instagram links are supported."
	case BlockedOrForbidden:
		return "The platform blocked every download attempt. Try again later or upload fresh cookies."
	case PrivateOrUnavailable:
		return "This video is private or unavailable."
	case NoPlayableFormat:
		return "No directly downloadable format was found for this video."
	case OriginStreamFailure:
		return "The video server failed while sending the file. Please retry."
	case CredentialExpired:
		return "Your cookies have expired. Please upload fresh cookies."
	case CredentialMissing:
		return "This platform requires cookies. Please upload your cookies first."
	default:
		if e.Err != nil {
			return e.Err.Error()
		}
		return "Extraction failed."
	}
}
