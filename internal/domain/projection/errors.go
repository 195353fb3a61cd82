package projection

import "errors"

// ErrAllianceSize is returned when an alliance has fewer than 1 or more than 3 teams.
var ErrAllianceSize = errors.New("alliance must have 1 to 3 teams")
