package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
)

// UpstreamError reports a failed provider call: a non-success HTTP status,
// a malformed response, or a transport failure (timeout, cancellation).
type UpstreamError struct {
	Provider   string
	StatusCode int    // HTTP status, 504 for timeouts, 502 for other transport failures
	Body       string // response body or failure description, credential scrubbed
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s API error: %d", e.Provider, e.StatusCode)
	}
	return fmt.Sprintf("%s API error: %d - %s", e.Provider, e.StatusCode, e.Body)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// UnknownProviderError means a configuration names a provider whose
// descriptor has no translation branch.
type UnknownProviderError struct {
	Provider string
	Wire     Wire
}

func (e *UnknownProviderError) Error() string {
	return fmt.Sprintf("unknown provider: %q (wire %s)", e.Provider, e.Wire)
}

// newTransportError converts a failure that produced no HTTP response.
func newTransportError(provider string, err error) *UpstreamError {
	switch {
	case errors.Is(err, context.Canceled):
		return &UpstreamError{Provider: provider, StatusCode: 0, Body: "request canceled", Err: err}
	case isTimeout(err):
		return &UpstreamError{Provider: provider, StatusCode: http.StatusGatewayTimeout, Body: "request timed out", Err: err}
	default:
		return &UpstreamError{Provider: provider, StatusCode: http.StatusBadGateway, Body: err.Error(), Err: err}
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// scrub removes every occurrence of secret from s.
func scrub(s, secret string) string {
	if secret == "" {
		return s
	}
	return strings.ReplaceAll(s, secret, "[redacted]")
}

// scrubError returns a copy of e with the credential removed from its body.
func scrubError(e *UpstreamError, secret string) *UpstreamError {
	e.Body = scrub(e.Body, secret)
	return e
}
