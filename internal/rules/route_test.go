package rules

import (
	"encoding/json"
	"testing"

	"github.com/open-politics/open-politics-hq-sub007/internal/types"
)

func condEq(field, text string) *types.Expression {
	v := types.LiteralValue(text)
	return &types.Expression{
		Combinator: types.CombinatorAnd,
		Rules:      []types.Rule{{Field: field, Operator: types.OpEq, Value: &v}},
	}
}

func TestSelectBranch_FirstMatchWins(t *testing.T) {
	route := types.RouteStep{
		Branches: []types.RouteBranch{
			{DestinationID: 10, Condition: condEq("kind", "pdf"), Label: "pdfs"},
			{DestinationID: 20, Condition: condEq("lang", "en"), Label: "english"},
			{DestinationID: 30, Label: "everything else"},
		},
	}

	tests := []struct {
		name        string
		asset       string
		wantRouted  bool
		wantIndex   int
		wantDest    int64
		wantLabel   string
	}{
		{"first branch matches", `{"kind": "pdf", "lang": "en"}`, true, 0, 10, "pdfs"},
		{"second branch matches", `{"kind": "csv", "lang": "en"}`, true, 1, 20, "english"},
		{"unconditional branch catches the rest", `{"kind": "csv", "lang": "de"}`, true, 2, 30, "everything else"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := SelectBranch(route, json.RawMessage(tt.asset))
			if d.Routed != tt.wantRouted {
				t.Fatalf("Routed = %v, want %v", d.Routed, tt.wantRouted)
			}
			if d.BranchIndex != tt.wantIndex || d.DestinationID != tt.wantDest || d.Label != tt.wantLabel {
				t.Errorf("decision = %+v, want index %d dest %d label %q", d, tt.wantIndex, tt.wantDest, tt.wantLabel)
			}
		})
	}
}

func TestSelectBranch_NoMatch(t *testing.T) {
	route := types.RouteStep{
		Branches: []types.RouteBranch{
			{DestinationID: 10, Condition: condEq("kind", "pdf")},
		},
	}

	d := SelectBranch(route, json.RawMessage(`{"kind": "csv"}`))
	if d.Routed {
		t.Errorf("Routed = true, want false")
	}
	if d.DestinationID != 0 || d.BranchIndex != 0 {
		t.Errorf("unrouted decision carries data: %+v", d)
	}
}

func TestSelectBranch_VacuousConditionIsUnconditional(t *testing.T) {
	route := types.RouteStep{
		Branches: []types.RouteBranch{
			{DestinationID: 10, Condition: &types.Expression{Combinator: types.CombinatorAnd}},
			{DestinationID: 20, Condition: condEq("kind", "pdf")},
		},
	}

	// The vacuous first branch shadows everything after it.
	d := SelectBranch(route, json.RawMessage(`{"kind": "pdf"}`))
	if !d.Routed || d.DestinationID != 10 {
		t.Errorf("decision = %+v, want destination 10", d)
	}
}

func TestSelectBranch_LegacySingleDestination(t *testing.T) {
	route := types.RouteStep{BundleID: 77}

	d := SelectBranch(route, json.RawMessage(`{"kind": "anything"}`))
	if !d.Routed || d.DestinationID != 77 {
		t.Errorf("decision = %+v, want destination 77", d)
	}
	if d.Label != "default" {
		t.Errorf("Label = %q, want %q", d.Label, "default")
	}
}

func TestSelectBranch_EmptyRoute(t *testing.T) {
	d := SelectBranch(types.RouteStep{}, json.RawMessage(`{"kind": "pdf"}`))
	if d.Routed {
		t.Errorf("Routed = true on empty route, want false")
	}
}
