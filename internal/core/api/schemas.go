package api

import (
	"fmt"
	"net/http"

	"github.com/open-politics/open-politics-hq-sub007/internal/catalog"
	"github.com/open-politics/open-politics-hq-sub007/internal/core/auth"
)

type createSchemaRequest struct {
	Name         string                `json:"name"`
	OutputFields []catalog.SchemaField `json:"output_fields"`
}

type schemaResponse struct {
	SchemaID     int64                 `json:"schema_id"`
	Name         string                `json:"name"`
	OutputFields []catalog.SchemaField `json:"output_fields"`
}

func (s *FlowAPIService) handleListSchemas(w http.ResponseWriter, r *http.Request) {
	workspaceID := auth.WorkspaceIDFromContext(r.Context())
	records, err := s.store.ListSchemas(workspaceID)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	out := make([]schemaResponse, 0, len(records))
	for _, rec := range records {
		out = append(out, schemaResponse{
			SchemaID:     rec.SchemaID,
			Name:         rec.Schema.Name,
			OutputFields: rec.Schema.OutputFields,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"schemas": out})
}

func (s *FlowAPIService) handleCreateSchema(w http.ResponseWriter, r *http.Request) {
	workspaceID := auth.WorkspaceIDFromContext(r.Context())

	var req createSchemaRequest
	if err := s.decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, fmt.Errorf("schema name cannot be empty"))
		return
	}

	if err := s.store.CreateSchema(workspaceID, req.Name, req.OutputFields); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

type createBundleRequest struct {
	Name string `json:"name"`
}

func (s *FlowAPIService) handleListBundles(w http.ResponseWriter, r *http.Request) {
	workspaceID := auth.WorkspaceIDFromContext(r.Context())
	bundles, err := s.store.ListBundles(workspaceID)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"bundles": bundles})
}

func (s *FlowAPIService) handleCreateBundle(w http.ResponseWriter, r *http.Request) {
	workspaceID := auth.WorkspaceIDFromContext(r.Context())

	var req createBundleRequest
	if err := s.decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, fmt.Errorf("bundle name cannot be empty"))
		return
	}

	if err := s.store.CreateBundle(workspaceID, req.Name); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}
