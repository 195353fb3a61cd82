package seed

import "errors"

var (
	ErrUnhealthy    = errors.New("service health check failed")
	ErrNotSettled   = errors.New("records were not stored in time")
	ErrVerification = errors.New("rankings verification failed")
)
