package repository

import "errors"

// Sentinel kinds for record store errors.
var (
	ErrUnknownSource = errors.New("unknown record source")
	ErrCorrupt       = errors.New("record document is corrupt")
)
