package planning

import "errors"

// ErrMatchNotFound is returned when the selected match is not one of the team's qualification matches.
var ErrMatchNotFound = errors.New("match not found")
