// internal/rules/evaluate.go
package rules

import (
	"encoding/json"

	"github.com/open-politics/open-politics-hq-sub007/internal/types"
)

/*
 * Expression evaluation orchestration.
 *
 * Evaluates an authored Expression tree against one asset's JSON data
 * with AND/OR semantics, short-circuit, and total (never-erroring)
 * behavior:
 *
 *   1. Decode asset data once; malformed data behaves as "no fields"
 *   2. Vacuous expressions (no rules, no sub-expressions) are true
 *   3. AND: every rule and sub-expression must hold (short-circuit on
 *      first miss)
 *   4. OR: any rule or sub-expression suffices (short-circuit on first
 *      hit)
 *   5. Per rule: resolve path -> compare operator, fail closed
 *
 * Field resolution happens against the asset's actual runtime data,
 * never the static catalog; a field the catalog promised but the asset
 * lacks is simply "not exists". Depth beyond MaxExpressionDepth fails
 * closed; authoring validation rejects such trees before they are
 * saved, this is the runtime backstop.
 */

// EvaluateExpression decides whether the asset data satisfies the
// expression. The decision is deterministic and error-free for any
// input bytes.
func EvaluateExpression(expr types.Expression, assetData json.RawMessage) bool {
	var doc any
	if len(assetData) > 0 {
		// Malformed payloads leave doc nil: every field resolves as
		// missing, vacuous expressions still match.
		_ = json.Unmarshal(assetData, &doc)
	}
	return evaluateExpr(expr, doc, 1)
}

// EvaluateRule applies a single rule to the asset data.
func EvaluateRule(rule types.Rule, assetData json.RawMessage) bool {
	var doc any
	if len(assetData) > 0 {
		_ = json.Unmarshal(assetData, &doc)
	}
	return evaluateRuleIn(rule, doc)
}

func evaluateExpr(expr types.Expression, doc any, depth int) bool {
	if expr.IsVacuous() {
		return true
	}
	if depth > types.MaxExpressionDepth {
		return false
	}

	if expr.Combinator == types.CombinatorOr {
		for _, rule := range expr.Rules {
			if evaluateRuleIn(rule, doc) {
				return true
			}
		}
		for _, sub := range expr.SubExpressions {
			if evaluateExpr(sub, doc, depth+1) {
				return true
			}
		}
		return false
	}

	// AND is the default for any unrecognized combinator: stored flows
	// predating the combinator field evaluate conjunctively.
	for _, rule := range expr.Rules {
		if !evaluateRuleIn(rule, doc) {
			return false
		}
	}
	for _, sub := range expr.SubExpressions {
		if !evaluateExpr(sub, doc, depth+1) {
			return false
		}
	}
	return true
}

func evaluateRuleIn(rule types.Rule, doc any) bool {
	resolved, found := ResolvePath(rule.Field, doc)
	return Compare(rule.Operator, resolved, found, rule.Value)
}
