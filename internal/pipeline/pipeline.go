// Package pipeline provides the ordered step sequence of a flow, its
// copy-on-write mutation operations, and the advisory validator.
//
// Every mutation returns a new Pipeline value built from deep-copied
// steps; nothing is edited in place. A running executor that captured a
// snapshot is unaffected by concurrent authoring edits, and catalog
// recomputation after any edit is always correct because there is no
// shared state to invalidate.
package pipeline

import (
	"encoding/json"

	"github.com/open-politics/open-politics-hq-sub007/internal/types"
)

// Pipeline is the ordered step sequence of a flow.
type Pipeline []types.Step

// Starter returns the pipeline new flows are created with: an empty
// ANNOTATE step followed by an empty CURATE step.
func Starter() Pipeline {
	return Pipeline{types.NewAnnotateStep(), types.NewCurateStep()}
}

// Clone returns a deep copy of the pipeline.
func (p Pipeline) Clone() Pipeline {
	out := make(Pipeline, len(p))
	for i, s := range p {
		out[i] = s.Clone()
	}
	return out
}

// Document is the serializable pipeline definition exposed at the
// module boundary. An execution engine consumes this shape faithfully.
type Document struct {
	Steps []types.Step `json:"steps"`
}

// Encode serializes the pipeline as its boundary document.
func (p Pipeline) Encode() ([]byte, error) {
	return json.Marshal(Document{Steps: p})
}

// Decode restores a pipeline from its boundary document.
func Decode(data []byte) (Pipeline, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return Pipeline(doc.Steps), nil
}

// InsertStep adds a step to the pipeline. Non-ROUTE steps are inserted
// immediately before the first ROUTE step when one exists, otherwise
// appended; this keeps ROUTE, when present, the terminal fan-out.
func InsertStep(p Pipeline, step types.Step) (Pipeline, error) {
	if err := step.Validate(); err != nil {
		return nil, err
	}
	if len(p)+1 > types.MaxPipelineSteps {
		return nil, types.ErrTooManySteps
	}

	pos := len(p)
	if step.Kind != types.StepRoute {
		for i, s := range p {
			if s.Kind == types.StepRoute {
				pos = i
				break
			}
		}
	}

	out := p.Clone()
	out = append(out, types.Step{})
	copy(out[pos+1:], out[pos:])
	out[pos] = step.Clone()
	return out, nil
}

// RemoveStep removes the step at index. Field references held by other
// steps are untouched; a removal can leave dangling references, which
// the validator reports but never blocks.
func RemoveStep(p Pipeline, index int) (Pipeline, error) {
	if index < 0 || index >= len(p) {
		return nil, types.ErrStepIndexOutOfRange
	}
	out := make(Pipeline, 0, len(p)-1)
	for i, s := range p {
		if i == index {
			continue
		}
		out = append(out, s.Clone())
	}
	return out, nil
}

// ReplaceStep swaps the step at index for a new value of the same kind.
func ReplaceStep(p Pipeline, index int, step types.Step) (Pipeline, error) {
	if index < 0 || index >= len(p) {
		return nil, types.ErrStepIndexOutOfRange
	}
	if err := step.Validate(); err != nil {
		return nil, err
	}
	if p[index].Kind != step.Kind {
		return nil, types.ErrStepKindMismatch
	}
	out := p.Clone()
	out[index] = step.Clone()
	return out, nil
}

// ToggleAnnotateSchema flips schemaID's membership on the ANNOTATE step
// at index. Idempotent pair: toggling twice restores the original set.
func ToggleAnnotateSchema(p Pipeline, index int, schemaID int64) (Pipeline, error) {
	step, err := stepOfKind(p, index, types.StepAnnotate)
	if err != nil {
		return nil, err
	}
	toggled := step.Annotate.SchemaIDs.Toggle(schemaID)
	if len(toggled) > types.MaxSchemasPerAnnotate {
		return nil, types.ErrTooManySchemas
	}
	out := p.Clone()
	out[index] = types.Step{Kind: types.StepAnnotate, Annotate: &types.AnnotateStep{SchemaIDs: toggled}}
	return out, nil
}

// ToggleCurateField flips a field name's membership on the CURATE step
// at index.
func ToggleCurateField(p Pipeline, index int, field string) (Pipeline, error) {
	step, err := stepOfKind(p, index, types.StepCurate)
	if err != nil {
		return nil, err
	}
	toggled := step.Curate.Fields.Toggle(field)
	if len(toggled) > types.MaxCurateFields {
		return nil, types.ErrTooManyCurateFields
	}
	out := p.Clone()
	out[index] = types.Step{Kind: types.StepCurate, Curate: &types.CurateStep{Fields: toggled}}
	return out, nil
}

// AddFilterRule appends a rule to the top-level expression of the
// FILTER step at index.
func AddFilterRule(p Pipeline, index int, rule types.Rule) (Pipeline, error) {
	step, err := stepOfKind(p, index, types.StepFilter)
	if err != nil {
		return nil, err
	}
	expr := step.Filter.Expression.Clone()
	if len(expr.Rules)+1 > types.MaxRulesPerExpression {
		return nil, types.ErrTooManyRules
	}
	expr.Rules = append(expr.Rules, rule.Clone())

	out := p.Clone()
	out[index] = types.NewFilterStep(expr)
	return out, nil
}

// RemoveFilterRule splices the rule at ruleIndex out of the top-level
// expression of the FILTER step at index.
func RemoveFilterRule(p Pipeline, index int, ruleIndex int) (Pipeline, error) {
	step, err := stepOfKind(p, index, types.StepFilter)
	if err != nil {
		return nil, err
	}
	expr := step.Filter.Expression.Clone()
	if ruleIndex < 0 || ruleIndex >= len(expr.Rules) {
		return nil, types.ErrRuleIndexOutOfRange
	}
	expr.Rules = append(expr.Rules[:ruleIndex], expr.Rules[ruleIndex+1:]...)

	out := p.Clone()
	out[index] = types.NewFilterStep(expr)
	return out, nil
}

// AddRouteBranch appends a branch to the ROUTE step at index.
func AddRouteBranch(p Pipeline, index int, branch types.RouteBranch) (Pipeline, error) {
	step, err := stepOfKind(p, index, types.StepRoute)
	if err != nil {
		return nil, err
	}
	if len(step.Route.Branches)+1 > types.MaxBranchesPerRoute {
		return nil, types.ErrTooManyBranches
	}

	out := p.Clone()
	route := out[index].Route
	route.Branches = append(route.Branches, branch.Clone())
	return out, nil
}

// RemoveRouteBranch splices the branch at branchIndex out of the ROUTE
// step at index.
func RemoveRouteBranch(p Pipeline, index int, branchIndex int) (Pipeline, error) {
	step, err := stepOfKind(p, index, types.StepRoute)
	if err != nil {
		return nil, err
	}
	if branchIndex < 0 || branchIndex >= len(step.Route.Branches) {
		return nil, types.ErrBranchIndexOutOfRange
	}

	out := p.Clone()
	route := out[index].Route
	route.Branches = append(route.Branches[:branchIndex], route.Branches[branchIndex+1:]...)
	return out, nil
}

// stepOfKind fetches the step at index and checks its kind tag and
// payload presence.
func stepOfKind(p Pipeline, index int, kind types.StepKind) (types.Step, error) {
	if index < 0 || index >= len(p) {
		return types.Step{}, types.ErrStepIndexOutOfRange
	}
	step := p[index]
	if step.Kind != kind {
		return types.Step{}, types.ErrStepKindMismatch
	}
	if err := step.Validate(); err != nil {
		return types.Step{}, err
	}
	return step, nil
}
