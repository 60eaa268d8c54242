// internal/types/rules.go
package types

/*
 * Domain types for condition authoring.
 *
 * Provides Rule, Expression, Operator, and Combinator used by
 * internal/rules for evaluation and by internal/pipeline for
 * validation. These types are wire-format agnostic; they serialize to
 * the same JSON document the authoring UI persists.
 *
 * Key types:
 *   - Rule: single comparison against one field path
 *   - Expression: recursive AND/OR tree of rules and sub-expressions
 *   - Operator: closed set of 10 comparison operators
 *
 * Dependencies: none (standard library only)
 */

// Operator identifies a rule's comparison semantics.
type Operator string

// Rule operators. exists/not_exists never carry a value; all others do.
const (
	OpExists      Operator = "exists"
	OpNotExists   Operator = "not_exists"
	OpEq          Operator = "eq"
	OpNeq         Operator = "neq"
	OpContains    Operator = "contains"
	OpNotContains Operator = "not_contains"
	OpGt          Operator = "gt"
	OpLt          Operator = "lt"
	OpGte         Operator = "gte"
	OpLte         Operator = "lte"
)

// NeedsValue reports whether the operator carries a comparison literal.
func (op Operator) NeedsValue() bool {
	switch op {
	case OpExists, OpNotExists:
		return false
	default:
		return true
	}
}

// Valid reports whether op is one of the 10 known operators.
func (op Operator) Valid() bool {
	switch op {
	case OpExists, OpNotExists, OpEq, OpNeq, OpContains, OpNotContains,
		OpGt, OpLt, OpGte, OpLte:
		return true
	default:
		return false
	}
}

// Combinator joins the members of an expression.
type Combinator string

// Expression combinators.
const (
	CombinatorAnd Combinator = "and"
	CombinatorOr  Combinator = "or"
)

// Rule is a single comparison: a dotted field path, an operator, and an
// optional literal. Value is nil exactly when the operator does not
// need one; a nil value under a value-bearing operator degrades to
// matching nothing rather than erroring.
type Rule struct {
	Field    string   `json:"field"`
	Operator Operator `json:"operator"`
	Value    *Value   `json:"value,omitempty"`
}

// Clone returns a deep copy of the rule.
func (r Rule) Clone() Rule {
	c := r
	if r.Value != nil {
		v := *r.Value
		c.Value = &v
	}
	return c
}

// Expression is a recursive AND/OR tree. An expression with no rules
// and no sub-expressions is vacuous and matches every asset. The tree
// is only ever built, never linked, so it is cycle-free by construction.
type Expression struct {
	Combinator     Combinator   `json:"combinator"`
	Rules          []Rule       `json:"rules,omitempty"`
	SubExpressions []Expression `json:"sub_expressions,omitempty"`
}

// IsVacuous reports whether the expression has no members at all.
func (e Expression) IsVacuous() bool {
	return len(e.Rules) == 0 && len(e.SubExpressions) == 0
}

// Depth returns the nesting depth of the expression tree. A leaf
// expression has depth 1.
func (e Expression) Depth() int {
	max := 0
	for _, sub := range e.SubExpressions {
		if d := sub.Depth(); d > max {
			max = d
		}
	}
	return max + 1
}

// FieldRefs returns every field path referenced anywhere in the tree,
// in depth-first authoring order. Duplicates are retained so the
// validator can report each offending rule.
func (e Expression) FieldRefs() []string {
	var refs []string
	for _, r := range e.Rules {
		refs = append(refs, r.Field)
	}
	for _, sub := range e.SubExpressions {
		refs = append(refs, sub.FieldRefs()...)
	}
	return refs
}

// Clone returns a deep copy of the expression tree.
func (e Expression) Clone() Expression {
	c := Expression{Combinator: e.Combinator}
	if len(e.Rules) > 0 {
		c.Rules = make([]Rule, len(e.Rules))
		for i, r := range e.Rules {
			c.Rules[i] = r.Clone()
		}
	}
	if len(e.SubExpressions) > 0 {
		c.SubExpressions = make([]Expression, len(e.SubExpressions))
		for i, sub := range e.SubExpressions {
			c.SubExpressions[i] = sub.Clone()
		}
	}
	return c
}
