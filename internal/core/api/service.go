// Package api provides the HTTP JSON service for authoring flows.
//
// Thin orchestration layer: handlers decode requests, delegate to the
// store and the pipeline/catalog core, and encode responses. All
// pipeline semantics live in the core packages; nothing here evaluates
// or validates beyond calling into them.
package api

import (
	"fmt"
	"net/http"

	"github.com/open-politics/open-politics-hq-sub007/internal/core/config"
	"github.com/open-politics/open-politics-hq-sub007/internal/core/store"
)

// FlowAPIService implements the flow authoring HTTP API.
type FlowAPIService struct {
	store *store.Store
	cfg   *config.FlowAPIConfig
}

// NewFlowAPIService creates a service instance with dependencies.
func NewFlowAPIService(st *store.Store, cfg *config.FlowAPIConfig) (*FlowAPIService, error) {
	if st == nil {
		return nil, fmt.Errorf("store cannot be nil")
	}
	if cfg == nil {
		return nil, fmt.Errorf("cfg cannot be nil")
	}
	return &FlowAPIService{store: st, cfg: cfg}, nil
}

// Routes returns the service's request multiplexer. Authentication is
// layered on by the caller (auth.Middleware).
func (s *FlowAPIService) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /v1/flows", s.handleListFlows)
	mux.HandleFunc("POST /v1/flows", s.handleCreateFlow)
	mux.HandleFunc("GET /v1/flows/{id}", s.handleGetFlow)
	mux.HandleFunc("PUT /v1/flows/{id}", s.handleUpdateFlow)
	mux.HandleFunc("DELETE /v1/flows/{id}", s.handleDeleteFlow)
	mux.HandleFunc("POST /v1/flows/{id}/activate", s.handleActivateFlow)
	mux.HandleFunc("POST /v1/flows/{id}/pause", s.handlePauseFlow)

	mux.HandleFunc("POST /v1/flows/{id}/steps", s.handleInsertStep)
	mux.HandleFunc("DELETE /v1/flows/{id}/steps/{index}", s.handleRemoveStep)
	mux.HandleFunc("GET /v1/flows/{id}/validation", s.handleValidation)
	mux.HandleFunc("GET /v1/flows/{id}/catalog", s.handleCatalog)

	mux.HandleFunc("GET /v1/schemas", s.handleListSchemas)
	mux.HandleFunc("POST /v1/schemas", s.handleCreateSchema)
	mux.HandleFunc("GET /v1/bundles", s.handleListBundles)
	mux.HandleFunc("POST /v1/bundles", s.handleCreateBundle)

	return mux
}
