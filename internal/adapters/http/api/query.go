package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/reefscout/reefscout/internal/domain/types"
)

func wrapBadRequest(op string, err error) error {
	return fmt.Errorf("%s: %w: %v", op, ErrBadRequest, err)
}

// query reads source, mode, zero and metric, defaulting unset ones.
func (s *Server) query(r *http.Request) (types.Query, error) {
	v := r.URL.Query()
	return types.ParseQuery(s.deps.Defaults(), v.Get("source"), v.Get("mode"), v.Get("zero"), v.Get("metric"))
}

func source(r *http.Request, def types.Source) (types.Source, error) {
	raw := r.URL.Query().Get("source")
	if raw == "" {
		return def, nil
	}
	return types.ParseSource(raw)
}

// intParam parses a non-negative integer parameter. Missing returns def.
func intParam(r *http.Request, name string, def int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: %s must be a non-negative integer", ErrBadRequest, name)
	}
	return n, nil
}

// requiredInt is intParam for parameters that must be present and positive.
func requiredInt(r *http.Request, name string) (int, error) {
	n, err := intParam(r, name, 0)
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, fmt.Errorf("%w: %s is required", ErrBadRequest, name)
	}
	return n, nil
}

func level(r *http.Request) string {
	if l := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("level"))); l != "" {
		return l
	}
	return "qm"
}
