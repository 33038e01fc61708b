package network

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	utls "github.com/refraction-networking/utls"
	"github.com/videocatcher/videocatcher/log"
	"golang.org/x/net/http2"
)

const dialTimeout = 30 * time.Second

var (
	fingerprinted     *http.Client
	fingerprintedOnce sync.Once
)

// Fingerprinted returns a client whose TLS Client Hello mimics Chrome.
// Origins that reject the standard Go handshake usually accept it.
// HTTP/2 is attempted first; requests that fail on it are retried over HTTP/1.1.
func Fingerprinted() *http.Client {
	fingerprintedOnce.Do(func() {
		fingerprinted = &http.Client{Transport: newFingerprintTransport()}
	})
	return fingerprinted
}

// fingerprintTransport routes plain-HTTP requests through the standard transport and
// HTTPS requests through utls-backed h2 and h1 transports.
type fingerprintTransport struct {
	plain http.RoundTripper
	h2    *http2.Transport
	h1    *http.Transport
}

func newFingerprintTransport() *fingerprintTransport {
	return &fingerprintTransport{
		plain: newTransport(),
		h2: &http2.Transport{
			DialTLSContext: func(ctx context.Context, network, addr string, _ *tls.Config) (net.Conn, error) {
				return dialTLS(ctx, network, addr, "h2", "http/1.1")
			},
		},
		h1: &http.Transport{
			DialTLSContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
				return dialTLS(ctx, network, addr, "http/1.1")
			},
			ResponseHeaderTimeout: 30 * time.Second,
		},
	}
}

// RoundTrip implements http.RoundTripper.
func (t *fingerprintTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.URL.Scheme != "https" {
		return t.plain.RoundTrip(req)
	}

	resp, err := t.h2.RoundTrip(req)
	if err == nil {
		return resp, nil
	}

	// a consumed body cannot be replayed
	if req.Body != nil && req.GetBody == nil {
		return nil, err
	}

	log.Debugf("h2 round trip to %s failed, falling back to http/1.1: %s", req.URL.Host, err)
	retry := req.Clone(req.Context())
	if req.GetBody != nil {
		if retry.Body, err = req.GetBody(); err != nil {
			return nil, err
		}
	}
	return t.h1.RoundTrip(retry)
}

// dialTLS creates a TLS connection mimicking Chrome 120's fingerprint, advertising the given protocols.
func dialTLS(ctx context.Context, network, addr string, protos ...string) (net.Conn, error) {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		host = addr
	}

	dialer := &net.Dialer{Timeout: dialTimeout}
	conn, err := dialer.DialContext(ctx, network, addr)
	if err != nil {
		return nil, err
	}

	tlsConn := utls.UClient(conn, &utls.Config{
		ServerName: host,
		MinVersion: tls.VersionTLS12,
		NextProtos: protos,
	}, utls.HelloChrome_120)

	if err := tlsConn.HandshakeContext(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("tls handshake: %w", err)
	}

	return tlsConn, nil
}
