package api

import (
	"errors"
	"net/http"

	"github.com/reefscout/reefscout/internal/adapters/csvimport"
	"github.com/reefscout/reefscout/internal/adapters/repository"
	"github.com/reefscout/reefscout/internal/adapters/settings"
	"github.com/reefscout/reefscout/internal/adapters/tba"
	service "github.com/reefscout/reefscout/internal/app"
	"github.com/reefscout/reefscout/internal/domain/planning"
	"github.com/reefscout/reefscout/internal/domain/types"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest   = errors.New("bad request")
	ErrBackpressure = errors.New("backpressure")
)

// classify maps an error to its HTTP status and response code.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrBackpressure), errors.Is(err, ErrBackpressure):
		return http.StatusTooManyRequests, "backpressure"
	case errors.Is(err, tba.ErrPrecondition), errors.Is(err, service.ErrNoMatchData):
		return http.StatusBadRequest, "precondition_failed"
	case errors.Is(err, ErrBadRequest),
		errors.Is(err, service.ErrBadRequest),
		errors.Is(err, types.ErrInvalidSelector),
		errors.Is(err, repository.ErrUnknownSource),
		errors.Is(err, settings.ErrInvalid),
		errors.Is(err, csvimport.ErrNoHeader),
		errors.Is(err, csvimport.ErrNoRows),
		errors.Is(err, csvimport.ErrMalformed),
		errors.Is(err, csvimport.ErrMode):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, service.ErrNoData):
		return http.StatusNotFound, "no_data"
	case errors.Is(err, planning.ErrMatchNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, tba.ErrUpstream):
		return http.StatusBadGateway, "upstream_error"
	case errors.Is(err, service.ErrNotStarted):
		return http.StatusServiceUnavailable, "unavailable"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
