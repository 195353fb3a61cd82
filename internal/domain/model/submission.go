package model

import (
	"time"

	"github.com/reefscout/reefscout/internal/domain/types"
)

// Submission is one accepted record waiting to be stored.
type Submission struct {
	ID          string       `json:"id"`
	Source      types.Source `json:"source"`
	Fingerprint string       `json:"fingerprint"`
	Record      Record       `json:"record"`
	ReceivedAt  time.Time    `json:"receivedAt"`
}
