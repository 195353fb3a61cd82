package api

import (
	"net/http"

	"github.com/reefscout/reefscout/internal/adapters/settings"
)

// handleGetConfig handles GET /config. The API key is masked.
func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	cfg, err := s.deps.Config(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

// handleSetConfig handles PUT and POST /config with a partial document.
func (s *Server) handleSetConfig(w http.ResponseWriter, r *http.Request) {
	var p settings.Partial
	if err := decodeJSON(r, &p); err != nil {
		s.fail(w, r, err)
		return
	}
	cfg, err := s.deps.UpdateConfig(r.Context(), p)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}
