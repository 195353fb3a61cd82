package settings

import "errors"

var (
	ErrCorrupt = errors.New("app config file is corrupt")
	ErrInvalid = errors.New("invalid app config")
)
