package types

import "errors"

// Sentinel errors for flow authoring operations. Evaluation-time
// problems (missing fields, type mismatches) are absorbed by the rule
// engine and never surface as errors; everything here is an
// authoring-time structural rejection.
var (
	// ErrTooManySteps indicates a pipeline exceeds MaxPipelineSteps.
	ErrTooManySteps = errors.New("pipeline exceeds maximum step count")

	// ErrStepIndexOutOfRange indicates a step index outside the pipeline.
	ErrStepIndexOutOfRange = errors.New("step index out of range")

	// ErrUnknownStepKind indicates a step kind outside the closed set.
	ErrUnknownStepKind = errors.New("unknown step kind")

	// ErrStepPayloadMissing indicates a step whose payload pointer does
	// not match its kind tag.
	ErrStepPayloadMissing = errors.New("step payload missing for kind")

	// ErrStepKindMismatch indicates a per-kind mutation applied to the
	// wrong step kind (e.g. a schema toggle on a FILTER step).
	ErrStepKindMismatch = errors.New("operation does not apply to step kind")

	// ErrExpressionTooDeep indicates nesting beyond MaxExpressionDepth.
	ErrExpressionTooDeep = errors.New("expression nesting too deep")

	// ErrTooManyRules indicates a group beyond MaxRulesPerExpression.
	ErrTooManyRules = errors.New("expression has too many rules")

	// ErrTooManyBranches indicates a route beyond MaxBranchesPerRoute.
	ErrTooManyBranches = errors.New("route has too many branches")

	// ErrTooManySchemas indicates an annotate step beyond MaxSchemasPerAnnotate.
	ErrTooManySchemas = errors.New("annotate step has too many schemas")

	// ErrTooManyCurateFields indicates a curate step beyond MaxCurateFields.
	ErrTooManyCurateFields = errors.New("curate step has too many fields")

	// ErrRuleIndexOutOfRange indicates a rule index outside an expression.
	ErrRuleIndexOutOfRange = errors.New("rule index out of range")

	// ErrBranchIndexOutOfRange indicates a branch index outside a route.
	ErrBranchIndexOutOfRange = errors.New("branch index out of range")

	// ErrPathTooDeep indicates a field path beyond MaxFieldPathDepth.
	ErrPathTooDeep = errors.New("field path exceeds maximum depth")

	// ErrInvalidValueLiteral indicates a rule value that is not a JSON scalar.
	ErrInvalidValueLiteral = errors.New("rule value must be a JSON scalar")

	// ErrInvalidTransition indicates a flow state change outside the
	// draft/active/paused machine.
	ErrInvalidTransition = errors.New("invalid flow state transition")
)
