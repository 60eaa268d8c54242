// internal/rules/route.go
package rules

import (
	"encoding/json"

	"github.com/open-politics/open-politics-hq-sub007/internal/types"
)

/*
 * ROUTE branch selection.
 *
 * Policy: first-match-wins in branch declaration order. A branch with a
 * nil condition is unconditional and catches everything that reaches
 * it, wherever it sits in the list; a vacuous condition behaves the
 * same. An asset matching no branch is reported unrouted; what happens
 * to it then (drop, stay, hold) is the executor's call, not the
 * definition's.
 *
 * The policy lives in one exported function instead of being implicit
 * in some caller's loop order, so executors and tests pin the exact
 * same behavior.
 */

// RouteDecision is the outcome of branch selection for one asset.
type RouteDecision struct {
	Routed        bool  // false: no branch matched
	BranchIndex   int   // valid only when Routed
	DestinationID int64 // valid only when Routed
	Label         string
}

// SelectBranch picks the destination for an asset: the first branch in
// declaration order whose condition is nil, vacuous, or satisfied by
// the asset data. Legacy single-destination routes behave as one
// unconditional branch.
func SelectBranch(route types.RouteStep, assetData json.RawMessage) RouteDecision {
	for i, branch := range route.EffectiveBranches() {
		if branch.Condition == nil || EvaluateExpression(*branch.Condition, assetData) {
			return RouteDecision{
				Routed:        true,
				BranchIndex:   i,
				DestinationID: branch.DestinationID,
				Label:         branch.Label,
			}
		}
	}
	return RouteDecision{}
}
