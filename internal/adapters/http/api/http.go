// Package api exposes the scouting service over JSON HTTP.
package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/reefscout/reefscout/internal/adapters/csvimport"
	"github.com/reefscout/reefscout/internal/adapters/settings"
	service "github.com/reefscout/reefscout/internal/app"
	"github.com/reefscout/reefscout/internal/domain/planning"
	"github.com/reefscout/reefscout/internal/domain/projection"
	"github.com/reefscout/reefscout/internal/domain/ranking"
	"github.com/reefscout/reefscout/internal/domain/summary"
	"github.com/reefscout/reefscout/internal/domain/types"
	"github.com/reefscout/reefscout/pkg/logger"
)

// maxBodyBytes bounds JSON and CSV request bodies.
const maxBodyBytes = 16 << 20

// Dependencies required by HTTP handlers. *service.Service satisfies it.
type Dependencies interface {
	StatsProvider

	Defaults() types.Query

	Submit(ctx context.Context, source types.Source, raw map[string]string) (service.SubmitResult, error)
	Import(ctx context.Context, source types.Source, mode csvimport.Mode, r io.Reader) (csvimport.Report, error)

	Rankings(ctx context.Context, q types.Query, limit int) (ranking.Board, error)
	Distribution(ctx context.Context, q types.Query) ([]ranking.Bucket, error)
	ExportRankings(ctx context.Context, w io.Writer, q types.Query) error
	TeamReport(ctx context.Context, team int, q types.Query) (service.TeamReport, error)

	ProjectTeams(ctx context.Context, red, blue []int, q types.Query) (projection.Result, error)
	ProjectMatch(ctx context.Context, match int, level string, q types.Query) (service.MatchProjection, error)
	MatchSummary(ctx context.Context, match int, level string, source types.Source) (summary.Match, error)
	Plan(ctx context.Context, team, match, lookahead int) (planning.Plan, error)

	Config(ctx context.Context) (settings.AppConfig, error)
	UpdateConfig(ctx context.Context, p settings.Partial) (settings.AppConfig, error)
}

// Server wires HTTP routes for the scouting API.
type Server struct {
	deps   Dependencies
	logger logger.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewServer creates a new API server.
func NewServer(deps Dependencies, opts ...Option) *Server {
	s := &Server{deps: deps, logger: logger.Nop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	route := func(pattern, endpoint string, h http.HandlerFunc) {
		mux.Handle(pattern, RequestIDMiddleware(MetricsMiddleware(h, endpoint), s.logger))
	}

	mux.HandleFunc("GET /healthz", MetricsMiddleware(HandleHealth, "healthz"))
	route("GET /stats", "stats", s.handleStats)
	route("POST /records", "records", s.handlePostRecord)
	route("POST /import", "import", s.handleImport)
	route("GET /rankings", "rankings", s.handleRankings)
	route("GET /rankings/distribution", "distribution", s.handleDistribution)
	route("GET /export/rankings.xlsx", "export", s.handleExport)
	route("GET /teams/{team}", "teams", s.handleTeam)
	route("GET /projection", "projection", s.handleProjectMatch)
	route("POST /projection", "projection", s.handleProjectTeams)
	route("GET /summary", "summary", s.handleSummary)
	route("GET /planning", "planning", s.handlePlanning)
	route("GET /config", "config", s.handleGetConfig)
	route("PUT /config", "config", s.handleSetConfig)
	route("POST /config", "config", s.handleSetConfig)
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// fail classifies err, logs server-side failures and writes the response.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, code := classify(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error(r.Context(), "request failed",
			logger.String("path", r.URL.Path),
			logger.String("request_id", RequestID(r.Context())),
			logger.Error(err),
		)
	}
	writeError(w, status, code, err)
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return wrapBadRequest("decode body", err)
	}
	return nil
}
