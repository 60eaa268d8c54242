// internal/types/steps.go
package types

/*
 * Step model: the closed set of pipeline step variants.
 *
 * A Step is a tagged struct: Kind selects exactly one of the payload
 * pointers. The four kinds:
 *   - FILTER: boolean expression gating which assets continue
 *   - ANNOTATE: set of annotation schema IDs to run against each asset
 *   - CURATE: set of annotation fields to promote to fragments
 *   - ROUTE: conditional fan-out into destination bundles
 *
 * Steps are value types edited by whole-step replacement: Clone() gives
 * the copy, the caller mutates the copy, the pipeline swaps it in.
 * Nothing mutates a stored Step in place, which is what keeps
 * position-dependent catalog computation sound.
 */

// StepKind identifies the step variant.
type StepKind string

// Pipeline step kinds.
const (
	StepFilter   StepKind = "FILTER"
	StepAnnotate StepKind = "ANNOTATE"
	StepCurate   StepKind = "CURATE"
	StepRoute    StepKind = "ROUTE"
)

// Valid reports whether k is one of the four step kinds.
func (k StepKind) Valid() bool {
	switch k {
	case StepFilter, StepAnnotate, StepCurate, StepRoute:
		return true
	default:
		return false
	}
}

// FilterStep gates assets on a boolean expression.
type FilterStep struct {
	Expression Expression `json:"expression"`
}

// AnnotateStep runs the selected annotation schemas against each asset.
// Each schema's declared output fields become referenceable as
// annotations.<schemaName>.<fieldName> by later steps.
type AnnotateStep struct {
	SchemaIDs SchemaSet `json:"schema_ids"`
}

// CurateStep promotes annotation fields to first-class fragments
// (fragments.<name>). An empty field set means "curate everything
// available", which is resolved at runtime and therefore contributes
// nothing to the static catalog.
type CurateStep struct {
	Fields FieldSet `json:"fields"`
}

// RouteBranch sends matching assets to a destination bundle. A nil
// condition marks the unconditional/default branch.
type RouteBranch struct {
	DestinationID int64       `json:"destination_id"`
	Condition     *Expression `json:"condition,omitempty"`
	Label         string      `json:"label,omitempty"`
}

// Clone returns a deep copy of the branch.
func (b RouteBranch) Clone() RouteBranch {
	c := b
	if b.Condition != nil {
		expr := b.Condition.Clone()
		c.Condition = &expr
	}
	return c
}

// RouteStep fans assets out into destination bundles. Modern steps
// carry a branch list; legacy steps carry a single destination bundle
// ID. A step never meaningfully carries both.
type RouteStep struct {
	Branches []RouteBranch `json:"branches,omitempty"`

	// BundleID is the legacy single-destination form, kept so stored
	// flows from before branch support remain loadable.
	BundleID int64 `json:"bundle_id,omitempty"`
}

// EffectiveBranches normalizes the legacy form: a step with no branch
// list but a legacy bundle ID behaves as a single unconditional branch.
func (r RouteStep) EffectiveBranches() []RouteBranch {
	if len(r.Branches) == 0 && r.BundleID != 0 {
		return []RouteBranch{{DestinationID: r.BundleID, Label: "default"}}
	}
	return r.Branches
}

// Step is the closed variant over the four step kinds. Exactly one
// payload pointer is non-nil, selected by Kind.
type Step struct {
	Kind     StepKind      `json:"kind"`
	Filter   *FilterStep   `json:"filter,omitempty"`
	Annotate *AnnotateStep `json:"annotate,omitempty"`
	Curate   *CurateStep   `json:"curate,omitempty"`
	Route    *RouteStep    `json:"route,omitempty"`
}

// NewFilterStep wraps an expression in a FILTER step.
func NewFilterStep(expr Expression) Step {
	return Step{Kind: StepFilter, Filter: &FilterStep{Expression: expr}}
}

// NewAnnotateStep builds an ANNOTATE step over the given schema IDs.
func NewAnnotateStep(schemaIDs ...int64) Step {
	return Step{Kind: StepAnnotate, Annotate: &AnnotateStep{SchemaIDs: NewSchemaSet(schemaIDs...)}}
}

// NewCurateStep builds a CURATE step over the given field names.
func NewCurateStep(fields ...string) Step {
	return Step{Kind: StepCurate, Curate: &CurateStep{Fields: NewFieldSet(fields...)}}
}

// NewRouteStep builds a ROUTE step from branches.
func NewRouteStep(branches ...RouteBranch) Step {
	return Step{Kind: StepRoute, Route: &RouteStep{Branches: branches}}
}

// Clone returns a deep copy of the step, including its expression
// trees, sets, and branches.
func (s Step) Clone() Step {
	c := Step{Kind: s.Kind}
	switch {
	case s.Filter != nil:
		c.Filter = &FilterStep{Expression: s.Filter.Expression.Clone()}
	case s.Annotate != nil:
		c.Annotate = &AnnotateStep{SchemaIDs: s.Annotate.SchemaIDs.Clone()}
	case s.Curate != nil:
		c.Curate = &CurateStep{Fields: s.Curate.Fields.Clone()}
	case s.Route != nil:
		branches := make([]RouteBranch, len(s.Route.Branches))
		for i, b := range s.Route.Branches {
			branches[i] = b.Clone()
		}
		c.Route = &RouteStep{Branches: branches, BundleID: s.Route.BundleID}
	}
	return c
}

// Validate checks the tag/payload pairing and the step's own resource
// limits. Field scoping is the validator's job, not the step's.
func (s Step) Validate() error {
	if !s.Kind.Valid() {
		return ErrUnknownStepKind
	}
	switch s.Kind {
	case StepFilter:
		if s.Filter == nil {
			return ErrStepPayloadMissing
		}
		return validateExpression(s.Filter.Expression)
	case StepAnnotate:
		if s.Annotate == nil {
			return ErrStepPayloadMissing
		}
		if len(s.Annotate.SchemaIDs) > MaxSchemasPerAnnotate {
			return ErrTooManySchemas
		}
	case StepCurate:
		if s.Curate == nil {
			return ErrStepPayloadMissing
		}
		if len(s.Curate.Fields) > MaxCurateFields {
			return ErrTooManyCurateFields
		}
	case StepRoute:
		if s.Route == nil {
			return ErrStepPayloadMissing
		}
		if len(s.Route.Branches) > MaxBranchesPerRoute {
			return ErrTooManyBranches
		}
		for _, b := range s.Route.Branches {
			if b.Condition != nil {
				if err := validateExpression(*b.Condition); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// validateExpression enforces depth and width limits recursively.
func validateExpression(e Expression) error {
	if e.Depth() > MaxExpressionDepth {
		return ErrExpressionTooDeep
	}
	return validateExpressionWidth(e)
}

func validateExpressionWidth(e Expression) error {
	if len(e.Rules) > MaxRulesPerExpression {
		return ErrTooManyRules
	}
	for _, sub := range e.SubExpressions {
		if err := validateExpressionWidth(sub); err != nil {
			return err
		}
	}
	return nil
}
