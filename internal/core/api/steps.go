package api

import (
	"net/http"
	"strconv"

	"github.com/open-politics/open-politics-hq-sub007/internal/catalog"
	"github.com/open-politics/open-politics-hq-sub007/internal/pipeline"
	"github.com/open-politics/open-politics-hq-sub007/internal/types"
)

type insertStepRequest struct {
	Step types.Step `json:"step"`
}

func (s *FlowAPIService) handleInsertStep(w http.ResponseWriter, r *http.Request) {
	flow, ok := s.loadFlow(w, r)
	if !ok {
		return
	}

	var req insertStepRequest
	if err := s.decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	steps, err := pipeline.InsertStep(flow.Steps, req.Step)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	updated := flow.WithSteps(steps)
	if err := s.store.UpdateFlow(updated); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.flowWithValidation(updated))
}

func (s *FlowAPIService) handleRemoveStep(w http.ResponseWriter, r *http.Request) {
	flow, ok := s.loadFlow(w, r)
	if !ok {
		return
	}

	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		writeError(w, http.StatusBadRequest, types.ErrStepIndexOutOfRange)
		return
	}

	steps, err := pipeline.RemoveStep(flow.Steps, index)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	updated := flow.WithSteps(steps)
	if err := s.store.UpdateFlow(updated); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.flowWithValidation(updated))
}

func (s *FlowAPIService) handleValidation(w http.ResponseWriter, r *http.Request) {
	flow, ok := s.loadFlow(w, r)
	if !ok {
		return
	}

	reg, err := s.store.LoadRegistry(flow.WorkspaceID)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	report := pipeline.Validate(flow.Steps, reg, flow.InputBundleID)
	if report == nil {
		report = []pipeline.ValidationError{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"validation": report})
}

// handleCatalog returns the fields referenceable at ?position= (0-based,
// defaults to the end of the pipeline). The rule builder calls this per
// step being edited.
func (s *FlowAPIService) handleCatalog(w http.ResponseWriter, r *http.Request) {
	flow, ok := s.loadFlow(w, r)
	if !ok {
		return
	}

	position := len(flow.Steps)
	if raw := r.URL.Query().Get("position"); raw != "" {
		p, err := strconv.Atoi(raw)
		if err != nil || p < 0 {
			writeError(w, http.StatusBadRequest, types.ErrStepIndexOutOfRange)
			return
		}
		position = p
	}

	reg, err := s.store.LoadRegistry(flow.WorkspaceID)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	fields := catalog.FieldsAvailableAt(position, flow.Steps, reg)
	writeJSON(w, http.StatusOK, map[string]any{"fields": fields})
}
