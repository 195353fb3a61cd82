package api

import (
	"errors"
	"net/http"

	"github.com/reefscout/reefscout/internal/adapters/csvimport"
	service "github.com/reefscout/reefscout/internal/app"
	"github.com/reefscout/reefscout/internal/domain/types"
)

// recordRequest is the body of POST /records. Record values may be JSON
// strings, numbers or booleans; they are normalized as sheet cells.
type recordRequest struct {
	Source string         `json:"source"`
	Record map[string]any `json:"record"`
}

func (req recordRequest) raw() (map[string]string, error) {
	if len(req.Record) == 0 {
		return nil, errors.New("missing record")
	}
	out := make(map[string]string, len(req.Record))
	for k, v := range req.Record {
		out[k] = cell(v)
	}
	return out, nil
}

type ackResponse struct {
	ID          string `json:"id,omitempty"`
	Status      string `json:"status"`
	Duplicate   bool   `json:"duplicate"`
	Fingerprint string `json:"fingerprint"`
}

// handlePostRecord handles POST /records.
func (s *Server) handlePostRecord(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_record"

	var req recordRequest
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	raw, err := req.raw()
	if err != nil {
		s.fail(w, r, wrapBadRequest(op, err))
		return
	}
	src := types.SourceLive
	if req.Source != "" {
		if src, err = types.ParseSource(req.Source); err != nil {
			s.fail(w, r, err)
			return
		}
	}

	res, err := s.deps.Submit(r.Context(), src, raw)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	ack := ackResponse{ID: res.ID, Status: res.Status, Fingerprint: res.Fingerprint}
	if res.Status == service.StatusDuplicate {
		ack.Duplicate = true
		writeJSON(w, http.StatusOK, ack)
		return
	}
	writeJSON(w, http.StatusAccepted, ack)
}

// handleImport handles POST /import?source=&mode= with a CSV body.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	src, err := source(r, types.SourceLive)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	mode, err := csvimport.ParseMode(r.URL.Query().Get("mode"))
	if err != nil {
		s.fail(w, r, err)
		return
	}

	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	rep, err := s.deps.Import(r.Context(), src, mode, body)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}
