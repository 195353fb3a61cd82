package csvimport

import "errors"

var (
	ErrNoHeader  = errors.New("csv has no header row")
	ErrNoRows    = errors.New("csv has no data rows")
	ErrMalformed = errors.New("malformed csv")
	ErrMode      = errors.New("unknown import mode")
)
