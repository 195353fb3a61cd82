package queue

import "errors"

// Sentinel kinds for queue errors.
var (
	ErrFull   = errors.New("ingest queue is full")
	ErrClosed = errors.New("ingest queue is closed")
)
