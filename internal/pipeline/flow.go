// internal/pipeline/flow.go
package pipeline

import (
	"time"

	"github.com/open-politics/open-politics-hq-sub007/internal/types"
)

/*
 * Flow lifecycle.
 *
 * A flow owns its pipeline and moves through draft -> active -> paused
 * -> active. The step sequence is editable in every state; validation
 * is recomputed on every edit regardless of state, since an executor
 * may be mid-run against an older snapshot of the definition.
 */

// FlowState is the flow lifecycle state.
type FlowState string

// Flow states.
const (
	StateDraft  FlowState = "draft"
	StateActive FlowState = "active"
	StatePaused FlowState = "paused"
)

// Valid reports whether s is a known state.
func (s FlowState) Valid() bool {
	switch s {
	case StateDraft, StateActive, StatePaused:
		return true
	default:
		return false
	}
}

// Flow is a named, workspace-scoped pipeline with a lifecycle state and
// an input collection. The flow owns its steps; steps own their
// expressions and branches.
type Flow struct {
	ID            types.FlowID `json:"flow_id"`
	WorkspaceID   string       `json:"workspace_id"`
	Name          string       `json:"name"`
	State         FlowState    `json:"state"`
	InputBundleID int64        `json:"input_bundle_id"`
	Steps         Pipeline     `json:"steps"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

// NewFlow creates a draft flow with the starter pipeline.
func NewFlow(workspaceID, name string, inputBundleID int64) Flow {
	now := time.Now().UTC()
	return Flow{
		ID:            types.NewFlowID(),
		WorkspaceID:   workspaceID,
		Name:          name,
		State:         StateDraft,
		InputBundleID: inputBundleID,
		Steps:         Starter(),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// Activate transitions draft or paused flows to active.
func (f Flow) Activate() (Flow, error) {
	if f.State != StateDraft && f.State != StatePaused {
		return Flow{}, types.ErrInvalidTransition
	}
	return f.withState(StateActive), nil
}

// Pause transitions active flows to paused.
func (f Flow) Pause() (Flow, error) {
	if f.State != StateActive {
		return Flow{}, types.ErrInvalidTransition
	}
	return f.withState(StatePaused), nil
}

// WithSteps returns a copy of the flow carrying a new pipeline.
// The pipeline is cloned on the way in: the flow owns its steps.
func (f Flow) WithSteps(p Pipeline) Flow {
	c := f
	c.Steps = p.Clone()
	c.UpdatedAt = time.Now().UTC()
	return c
}

func (f Flow) withState(s FlowState) Flow {
	c := f
	c.State = s
	c.UpdatedAt = time.Now().UTC()
	return c
}
