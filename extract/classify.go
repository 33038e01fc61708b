package extract

import (
	"strings"

	"github.com/videocatcher/videocatcher/failure"
	"github.com/videocatcher/videocatcher/metrics"
)

// Verdict is the orchestrator's reaction to a failed attempt.
type Verdict int

const (
	// Retry pauses briefly and tries the next strategy.
	Retry Verdict = iota
	// Forbidden pauses longer and tries the next strategy.
	Forbidden
	// Terminal aborts the loop.
	Terminal
)

func (v Verdict) String() string {
	switch v {
	case Forbidden:
		return metrics.OutcomeForbidden
	case Terminal:
		return metrics.OutcomeTerminal
	default:
		return metrics.OutcomeRetry
	}
}

// Classify inspects the lowercase message of a failed attempt.
func Classify(err error) Verdict {
	if err == nil {
		return Retry
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "403") || strings.Contains(msg, "forbidden"):
		return Forbidden
	case strings.Contains(msg, "private") || strings.Contains(msg, "unavailable"):
		return Terminal
	default:
		return Retry
	}
}

// kind maps the verdict of the last failure to the aggregate error kind.
func (v Verdict) kind() failure.Kind {
	switch v {
	case Forbidden:
		return failure.BlockedOrForbidden
	case Terminal:
		return failure.PrivateOrUnavailable
	default:
		return failure.ExtractionFailed
	}
}
