package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/open-politics/open-politics-hq-sub007/internal/core/store"
)

// Error mapping:
// Missing records map to 404.
// Structural limit violations and malformed bodies map to 400.
// Database errors map to 503.

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

// writeStoreError maps store failures onto HTTP status codes.
func writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrFlowNotFound),
		errors.Is(err, store.ErrSchemaNotFound),
		errors.Is(err, store.ErrBundleNotFound):
		writeError(w, http.StatusNotFound, err)
	default:
		writeError(w, http.StatusServiceUnavailable, err)
	}
}

// decodeBody decodes a size-capped JSON request body.
func (s *FlowAPIService) decodeBody(w http.ResponseWriter, r *http.Request, dest any) error {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dest)
}
