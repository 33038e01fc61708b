// Package network provides the pre-configured HTTP clients used to pull media from origin servers.
package network

import (
	"net/http"
	"time"
)

// Client is the HTTP client shared across the application.
// It carries no overall timeout since a relayed body may take arbitrarily long to drain;
// requests are bounded by the caller's context and the transport's header timeout.
var Client = &http.Client{
	Transport: newTransport(),
}

// newTransport initializes a tuned http.Transport with optimized pool and timeout parameters.
func newTransport() *http.Transport {
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.MaxIdleConns = 100
	t.MaxIdleConnsPerHost = 16
	t.MaxConnsPerHost = 64
	t.IdleConnTimeout = 30 * time.Second
	t.ResponseHeaderTimeout = 30 * time.Second
	t.ExpectContinueTimeout = 5 * time.Second
	return t
}
