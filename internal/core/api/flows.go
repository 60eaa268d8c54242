package api

import (
	"net/http"

	"github.com/open-politics/open-politics-hq-sub007/internal/core/auth"
	"github.com/open-politics/open-politics-hq-sub007/internal/pipeline"
	"github.com/open-politics/open-politics-hq-sub007/internal/types"
)

type createFlowRequest struct {
	Name          string `json:"name"`
	InputBundleID int64  `json:"input_bundle_id"`
}

type updateFlowRequest struct {
	Name          string       `json:"name"`
	InputBundleID int64        `json:"input_bundle_id"`
	Steps         []types.Step `json:"steps"`
}

// flowResponse pairs a flow with its advisory validation report so the
// UI can render findings without a second round trip.
type flowResponse struct {
	Flow       pipeline.Flow              `json:"flow"`
	Validation []pipeline.ValidationError `json:"validation"`
}

func (s *FlowAPIService) handleListFlows(w http.ResponseWriter, r *http.Request) {
	workspaceID := auth.WorkspaceIDFromContext(r.Context())
	flows, err := s.store.ListFlows(workspaceID)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"flows": flows})
}

func (s *FlowAPIService) handleCreateFlow(w http.ResponseWriter, r *http.Request) {
	workspaceID := auth.WorkspaceIDFromContext(r.Context())

	var req createFlowRequest
	if err := s.decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	flow := pipeline.NewFlow(workspaceID, req.Name, req.InputBundleID)
	if err := s.store.CreateFlow(flow); err != nil {
		writeStoreError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, s.flowWithValidation(flow))
}

func (s *FlowAPIService) handleGetFlow(w http.ResponseWriter, r *http.Request) {
	flow, ok := s.loadFlow(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.flowWithValidation(flow))
}

func (s *FlowAPIService) handleUpdateFlow(w http.ResponseWriter, r *http.Request) {
	flow, ok := s.loadFlow(w, r)
	if !ok {
		return
	}

	var req updateFlowRequest
	if err := s.decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	// Whole-definition replacement; structural limits are hard errors,
	// field scoping problems stay advisory.
	steps := pipeline.Pipeline(req.Steps)
	if len(steps) > types.MaxPipelineSteps {
		writeError(w, http.StatusBadRequest, types.ErrTooManySteps)
		return
	}
	for _, step := range steps {
		if err := step.Validate(); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
	}

	updated := flow.WithSteps(steps)
	updated.Name = req.Name
	updated.InputBundleID = req.InputBundleID

	if err := s.store.UpdateFlow(updated); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.flowWithValidation(updated))
}

func (s *FlowAPIService) handleDeleteFlow(w http.ResponseWriter, r *http.Request) {
	workspaceID := auth.WorkspaceIDFromContext(r.Context())
	id, err := types.ParseFlowID(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := s.store.DeleteFlow(workspaceID, id); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *FlowAPIService) handleActivateFlow(w http.ResponseWriter, r *http.Request) {
	s.transitionFlow(w, r, pipeline.Flow.Activate)
}

func (s *FlowAPIService) handlePauseFlow(w http.ResponseWriter, r *http.Request) {
	s.transitionFlow(w, r, pipeline.Flow.Pause)
}

func (s *FlowAPIService) transitionFlow(w http.ResponseWriter, r *http.Request, transition func(pipeline.Flow) (pipeline.Flow, error)) {
	flow, ok := s.loadFlow(w, r)
	if !ok {
		return
	}
	updated, err := transition(flow)
	if err != nil {
		writeError(w, http.StatusConflict, err)
		return
	}
	if err := s.store.UpdateFlow(updated); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.flowWithValidation(updated))
}

// loadFlow parses the path ID and fetches the flow, writing the error
// response itself on failure.
func (s *FlowAPIService) loadFlow(w http.ResponseWriter, r *http.Request) (pipeline.Flow, bool) {
	workspaceID := auth.WorkspaceIDFromContext(r.Context())
	id, err := types.ParseFlowID(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return pipeline.Flow{}, false
	}
	flow, err := s.store.GetFlow(workspaceID, id)
	if err != nil {
		writeStoreError(w, err)
		return pipeline.Flow{}, false
	}
	return flow, true
}

// flowWithValidation attaches the advisory report computed against the
// workspace's current schema snapshot. Registry load failures degrade
// to an empty registry: the flow stays servable, findings may be
// incomplete.
func (s *FlowAPIService) flowWithValidation(flow pipeline.Flow) flowResponse {
	reg, err := s.store.LoadRegistry(flow.WorkspaceID)
	if err != nil {
		reg = nil
	}
	report := pipeline.Validate(flow.Steps, reg, flow.InputBundleID)
	if report == nil {
		report = []pipeline.ValidationError{}
	}
	return flowResponse{Flow: flow, Validation: report}
}
