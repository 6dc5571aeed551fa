package lapp

import (
	"time"
)

// Server timeouts are derived from the configured request timeout rather
// than set to fixed values. The request timeout is the authoritative bound:
// the per-request deadline applied by WithRequestTimeout governs handler
// execution, while the http.Server timeouts act as an outer guard against
// slow or stalled clients that never produce a request to time out.
//
// See https://blog.cloudflare.com/exposing-go-on-the-internet/ for the
// reasoning behind setting all of them.

// DefaultTimeoutHeadroom is added on top of the request timeout for the
// server-level bounds so a handler that uses its full deadline can still
// write its response.
const DefaultTimeoutHeadroom = 2 * time.Second

// TimeoutConfig derives http.Server timeout values from the request timeout.
type TimeoutConfig struct {
	// RequestTimeout is the per-request deadline, from LHTTP_REQUEST_TIMEOUT.
	RequestTimeout time.Duration

	// Headroom is added to the request timeout for the server-level bounds.
	// Defaults to DefaultTimeoutHeadroom.
	Headroom time.Duration
}

// ServerTimeouts returns the recommended http.Server timeout values. The
// read, write and idle timeouts are the request timeout plus headroom;
// header reads get a short independent bound since headers arrive well
// before any handler runs.
func (tc TimeoutConfig) ServerTimeouts() (readHeaderTimeout, readTimeout, writeTimeout, idleTimeout time.Duration) {
	headroom := tc.Headroom
	if headroom <= 0 {
		headroom = DefaultTimeoutHeadroom
	}

	timeout := tc.RequestTimeout + headroom

	readHeaderTimeout = min(timeout, 5*time.Second)
	readTimeout = timeout
	writeTimeout = timeout
	idleTimeout = 2 * timeout

	return
}
