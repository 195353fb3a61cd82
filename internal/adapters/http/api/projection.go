package api

import (
	"errors"
	"net/http"
)

var errInvalidTeam = errors.New("team must be a positive integer")

// projectionRequest is the body of POST /projection.
type projectionRequest struct {
	Red  []int `json:"red"`
	Blue []int `json:"blue"`
}

// handleProjectTeams handles POST /projection for what-if line-ups.
func (s *Server) handleProjectTeams(w http.ResponseWriter, r *http.Request) {
	q, err := s.query(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var req projectionRequest
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	for _, t := range append(append([]int{}, req.Red...), req.Blue...) {
		if t <= 0 {
			s.fail(w, r, wrapBadRequest("api.projection", errInvalidTeam))
			return
		}
	}
	res, err := s.deps.ProjectTeams(r.Context(), req.Red, req.Blue, q)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// handleProjectMatch handles GET /projection?match=&level=.
func (s *Server) handleProjectMatch(w http.ResponseWriter, r *http.Request) {
	q, err := s.query(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	match, err := requiredInt(r, "match")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	res, err := s.deps.ProjectMatch(r.Context(), match, level(r), q)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// handleSummary handles GET /summary?match=&level=&source=.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	match, err := requiredInt(r, "match")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	src, err := source(r, s.deps.Defaults().Source)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	res, err := s.deps.MatchSummary(r.Context(), match, level(r), src)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// handlePlanning handles GET /planning?team=&match=&lookahead=.
func (s *Server) handlePlanning(w http.ResponseWriter, r *http.Request) {
	team, err := requiredInt(r, "team")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	match, err := requiredInt(r, "match")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	lookahead, err := intParam(r, "lookahead", 0)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	plan, err := s.deps.Plan(r.Context(), team, match, lookahead)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}
