// Package types provides domain models shared across flow components.
//
// Zero-dependency design: types.go, values.go, rules.go, steps.go and
// errors.go use only the standard library so the evaluation core stays
// embeddable. ID utilities in ids.go import uuid but are isolated for
// selective inclusion.
//
// Separation from storage: persisted representations (row structs, the
// serialized step document) live with the store; this package contains
// the hand-written types the catalog, rule engine, and validator
// operate on.
package types

// ValueType classifies the values a field can carry.
// "any" is reserved for curated fragments, whose concrete type is only
// known once an annotation value has been promoted at runtime.
type ValueType string

// Field value types referenced by catalog descriptors and schema fields.
const (
	TypeString  ValueType = "string"
	TypeNumber  ValueType = "number"
	TypeBoolean ValueType = "boolean"
	TypeDate    ValueType = "date"
	TypeAny     ValueType = "any"
)

// Resource limits enforced at authoring time to keep pipeline documents
// bounded and evaluation costs predictable.
const (
	// MaxPipelineSteps limits the length of a flow's step list.
	// 64 steps is far beyond anything the canvas renders usefully.
	MaxPipelineSteps = 64

	// MaxExpressionDepth prevents stack exhaustion on recursive
	// expression evaluation. 8 nesting levels covers any condition the
	// rule builder can author.
	MaxExpressionDepth = 8

	// MaxRulesPerExpression bounds a single AND/OR group.
	MaxRulesPerExpression = 64

	// MaxBranchesPerRoute bounds ROUTE fan-out.
	MaxBranchesPerRoute = 32

	// MaxFieldPathDepth bounds dotted path traversal into asset data.
	// Catalog paths use at most 3 components (annotations.<schema>.<field>);
	// 16 leaves headroom for nested annotation payloads.
	MaxFieldPathDepth = 16

	// MaxSchemasPerAnnotate bounds the schema set on one ANNOTATE step.
	MaxSchemasPerAnnotate = 32

	// MaxCurateFields bounds the promoted-field set on one CURATE step.
	MaxCurateFields = 128
)
