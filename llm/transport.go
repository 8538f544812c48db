// HTTP transport shared by every wire branch.
//
// Information Hiding:
// - Authentication headers come only from the descriptor
// - Timeout applied per call through the http.Client

package llm

import (
	"net/http"
	"time"
)

// headerTransport stamps descriptor headers on every outbound request.
// Headers set here override anything the SDK added for the same key.
type headerTransport struct {
	base    http.RoundTripper
	headers map[string]string
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	for k, v := range t.headers {
		req.Header.Set(k, v)
	}
	return t.base.RoundTrip(req)
}

// newHTTPClient builds a client that authenticates with headers and gives up after timeout.
func newHTTPClient(base http.RoundTripper, headers map[string]string, timeout time.Duration) *http.Client {
	if base == nil {
		base = http.DefaultTransport
	}
	return &http.Client{
		Transport: &headerTransport{base: base, headers: headers},
		Timeout:   timeout,
	}
}
