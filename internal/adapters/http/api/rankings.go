package api

import (
	"bytes"
	"net/http"
	"strconv"
)

// handleRankings handles GET /rankings.
func (s *Server) handleRankings(w http.ResponseWriter, r *http.Request) {
	q, err := s.query(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	limit, err := intParam(r, "limit", 0)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	b, err := s.deps.Rankings(r.Context(), q, limit)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

// handleDistribution handles GET /rankings/distribution.
func (s *Server) handleDistribution(w http.ResponseWriter, r *http.Request) {
	q, err := s.query(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	buckets, err := s.deps.Distribution(r.Context(), q)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"query": q, "buckets": buckets})
}

// handleExport handles GET /export/rankings.xlsx.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	q, err := s.query(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var buf bytes.Buffer
	if err := s.deps.ExportRankings(r.Context(), &buf, q); err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="rankings-`+string(q.Source)+`.xlsx"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// handleTeam handles GET /teams/{team}.
func (s *Server) handleTeam(w http.ResponseWriter, r *http.Request) {
	team, err := strconv.Atoi(r.PathValue("team"))
	if err != nil || team <= 0 {
		s.fail(w, r, wrapBadRequest("api.team", errInvalidTeam))
		return
	}
	q, err := s.query(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	rep, err := s.deps.TeamReport(r.Context(), team, q)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}
