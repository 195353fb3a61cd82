package tba

import (
	"errors"
	"fmt"
)

var (
	// ErrUpstream marks a non-2xx answer from the remote API.
	ErrUpstream = errors.New("upstream match-data error")
	// ErrPrecondition is returned before any request when the API key or
	// event code is missing.
	ErrPrecondition = errors.New("missing match-data configuration")
)

// UpstreamError carries the remote status and body.
type UpstreamError struct {
	Status int
	Body   string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: status %d: %s", ErrUpstream, e.Status, e.Body)
}

func (e *UpstreamError) Unwrap() error { return ErrUpstream }
