package types

import "errors"

// ErrInvalidSelector is returned for an unknown source, mode, zero handling or metric.
var ErrInvalidSelector = errors.New("invalid selector")
