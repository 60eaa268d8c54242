package pipeline

import (
	"testing"

	"github.com/open-politics/open-politics-hq-sub007/internal/catalog"
	"github.com/open-politics/open-politics-hq-sub007/internal/types"
)

func sentimentRegistry() catalog.Registry {
	return catalog.Registry{
		7: {
			Name: "Sentiment",
			OutputFields: []catalog.SchemaField{
				{Name: "sentiment", Type: types.TypeString},
			},
		},
	}
}

func filterOn(field string) types.Step {
	v := types.LiteralValue("x")
	return types.NewFilterStep(types.Expression{
		Combinator: types.CombinatorAnd,
		Rules:      []types.Rule{{Field: field, Operator: types.OpEq, Value: &v}},
	})
}

func TestValidate_CleanPipeline(t *testing.T) {
	p := Pipeline{
		filterOn("kind"),
		types.NewAnnotateStep(7),
		filterOn("annotations.Sentiment.sentiment"),
	}

	if errs := Validate(p, sentimentRegistry(), 0); len(errs) != 0 {
		t.Errorf("Validate() = %v, want no findings", errs)
	}
}

func TestValidate_ForwardReference(t *testing.T) {
	// The filter references the annotation before the ANNOTATE step runs.
	p := Pipeline{
		filterOn("annotations.Sentiment.sentiment"),
		types.NewAnnotateStep(7),
	}

	errs := Validate(p, sentimentRegistry(), 0)
	if len(errs) != 1 {
		t.Fatalf("Validate() = %v, want 1 finding", errs)
	}
	if errs[0].Kind != KindUnknownFieldReference || errs[0].StepIndex != 0 {
		t.Errorf("finding = %+v, want UnknownFieldReference at step 0", errs[0])
	}
	if errs[0].Field != "annotations.Sentiment.sentiment" {
		t.Errorf("Field = %q", errs[0].Field)
	}
}

func TestValidate_UnknownField(t *testing.T) {
	p := Pipeline{filterOn("no_such_field")}

	errs := Validate(p, catalog.Registry{}, 0)
	if len(errs) != 1 || errs[0].Kind != KindUnknownFieldReference {
		t.Errorf("Validate() = %v, want one UnknownFieldReference", errs)
	}
}

func TestValidate_RouteConditionScoping(t *testing.T) {
	cond := &types.Expression{
		Combinator: types.CombinatorAnd,
		Rules:      []types.Rule{{Field: "fragments.sentiment", Operator: types.OpExists}},
	}

	withCurate := Pipeline{
		types.NewCurateStep("sentiment"),
		types.NewRouteStep(types.RouteBranch{DestinationID: 5, Condition: cond}),
	}
	if errs := Validate(withCurate, catalog.Registry{}, 0); len(errs) != 0 {
		t.Errorf("Validate() = %v, want no findings", errs)
	}

	withoutCurate := Pipeline{
		types.NewRouteStep(types.RouteBranch{DestinationID: 5, Condition: cond}),
	}
	errs := Validate(withoutCurate, catalog.Registry{}, 0)
	if len(errs) != 1 || errs[0].Kind != KindUnknownFieldReference {
		t.Errorf("Validate() = %v, want one UnknownFieldReference", errs)
	}
}

func TestValidate_InvalidDestination(t *testing.T) {
	p := Pipeline{
		types.NewRouteStep(
			types.RouteBranch{DestinationID: 42},
			types.RouteBranch{DestinationID: 5},
		),
	}

	errs := Validate(p, catalog.Registry{}, 42)
	if len(errs) != 1 {
		t.Fatalf("Validate() = %v, want 1 finding", errs)
	}
	if errs[0].Kind != KindInvalidDestination || errs[0].DestinationID != 42 {
		t.Errorf("finding = %+v, want InvalidDestination 42", errs[0])
	}

	// Zero input bundle skips the destination check.
	if errs := Validate(p, catalog.Registry{}, 0); len(errs) != 0 {
		t.Errorf("Validate() with zero bundle = %v, want no findings", errs)
	}
}

func TestValidate_LegacyRouteDestination(t *testing.T) {
	p := Pipeline{
		{Kind: types.StepRoute, Route: &types.RouteStep{BundleID: 42}},
	}

	errs := Validate(p, catalog.Registry{}, 42)
	if len(errs) != 1 || errs[0].Kind != KindInvalidDestination {
		t.Errorf("Validate() = %v, want InvalidDestination via legacy branch", errs)
	}
}

func TestValidate_DeletedSchemaReportsDanglingRefs(t *testing.T) {
	// The annotate step references schema 7, but the registry no longer
	// has it: the downstream filter's reference is reported, authoring
	// continues.
	p := Pipeline{
		types.NewAnnotateStep(7),
		filterOn("annotations.Sentiment.sentiment"),
	}

	errs := Validate(p, catalog.Registry{}, 0)
	if len(errs) != 1 || errs[0].Kind != KindUnknownFieldReference {
		t.Errorf("Validate() = %v, want one UnknownFieldReference", errs)
	}
}

func TestValidate_MultipleFindings(t *testing.T) {
	p := Pipeline{
		filterOn("ghost_one"),
		filterOn("ghost_two"),
		types.NewRouteStep(types.RouteBranch{DestinationID: 9}),
	}

	errs := Validate(p, catalog.Registry{}, 9)
	if len(errs) != 3 {
		t.Fatalf("Validate() = %v, want 3 findings", errs)
	}
}
