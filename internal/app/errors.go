package service

import "errors"

var (
	ErrNotStarted   = errors.New("service not started")
	ErrBackpressure = errors.New("ingest queue is full")
	ErrNoData       = errors.New("no scouting data")
	ErrBadRequest   = errors.New("bad request")
	ErrNoMatchData  = errors.New("match data source not configured")
)
