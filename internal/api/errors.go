// Package api is the HTTP client for the CRM REST API.
// It covers paged listings, property records, drafts, uploads, NOC
// generation and the password and watermark collections.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNotFound matches any ServerError with status 404.
	ErrNotFound = errors.New("resource not found")

	// ErrInvalidBaseURL is returned when the configured API base URL is unusable.
	ErrInvalidBaseURL = errors.New("invalid api base url")

	// ErrTooLarge is returned when a response body is over its size cap.
	ErrTooLarge = errors.New("response too large")
)

// NetworkError is a transport failure: the request never produced an
// HTTP response.
type NetworkError struct {
	Method string
	URL    string
	Err    error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %s %s: %v", e.Method, e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ServerError is a non-2xx HTTP response.
type ServerError struct {
	Method  string
	URL     string
	Status  int
	Message string
}

func (e *ServerError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	return fmt.Sprintf("server error: %s %s: %d %s", e.Method, e.URL, e.Status, msg)
}

// Is lets errors.Is(err, ErrNotFound) match 404 responses.
func (e *ServerError) Is(target error) bool {
	return target == ErrNotFound && e.Status == http.StatusNotFound
}

// ClientError reports whether the status is a 4xx.
func (e *ServerError) ClientError() bool {
	return e.Status >= 400 && e.Status < 500
}

// IsTransient reports whether err is worth retrying: transport failures
// and 5xx responses. Context cancellation is never transient.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return !errors.Is(netErr.Err, context.Canceled)
	}
	var srvErr *ServerError
	if errors.As(err, &srvErr) {
		return srvErr.Status >= 500
	}
	return false
}
