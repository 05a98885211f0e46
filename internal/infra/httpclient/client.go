package httpclient

import (
	"net/http"
	"time"
)

// New returns a client suitable for outbound integration calls. Connection
// reuse matters here because Zoom and Calendar calls happen inside request
// handling.
func New(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 100,
			IdleConnTimeout:     90 * time.Second,
		},
	}
}
