// Package metrics registers the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/videocatcher/videocatcher/constant"
)

// Attempt outcomes.
const (
	OutcomeSuccess   = "success"
	OutcomeForbidden = "forbidden"
	OutcomeTerminal  = "terminal"
	OutcomeRetry     = "retry"
)

var (
	// Attempts counts extractor invocations by platform, strategy and outcome.
	Attempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: constant.App,
		Name:      "extraction_attempts_total",
		Help:      "Extractor invocations by platform, strategy and outcome.",
	}, []string{"platform", "strategy", "outcome"})

	// Requests counts finished resolve requests by platform and error kind ("ok" on success).
	Requests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: constant.App,
		Name:      "requests_total",
		Help:      "Resolve requests by platform and result.",
	}, []string{"platform", "result"})

	// RelayedBytes counts bytes forwarded from origins to callers.
	RelayedBytes = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: constant.App,
		Name:      "relayed_bytes_total",
		Help:      "Bytes forwarded from origin servers to callers.",
	})

	// ActiveStreams tracks relays currently in progress.
	ActiveStreams = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: constant.App,
		Name:      "active_streams",
		Help:      "Relays currently in progress.",
	})

	// SweptFiles counts downloads removed by the cleanup loop.
	SweptFiles = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: constant.App,
		Name:      "swept_files_total",
		Help:      "Persisted downloads removed by the cleanup loop.",
	})
)
