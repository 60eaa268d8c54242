package catalog

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/open-politics/open-politics-hq-sub007/internal/types"
)

func testRegistry() Registry {
	return Registry{
		7: {
			Name: "Sentiment",
			OutputFields: []SchemaField{
				{Name: "sentiment", Type: types.TypeString},
				{Name: "confidence", Type: types.TypeNumber},
			},
		},
		9: {
			Name: "Topics",
			OutputFields: []SchemaField{
				{Name: "labels", Type: types.TypeAny},
			},
		},
	}
}

func paths(fields []FieldDescriptor) []string {
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = f.Path
	}
	return out
}

func TestDocumentFields(t *testing.T) {
	fields := DocumentFields()
	if len(fields) != 6 {
		t.Fatalf("DocumentFields() len = %d, want 6", len(fields))
	}
	for _, f := range fields {
		if f.SourceStepIndex != DocumentSource {
			t.Errorf("%s SourceStepIndex = %d, want DocumentSource", f.Path, f.SourceStepIndex)
		}
		if f.Category != CategoryDocument {
			t.Errorf("%s Category = %q, want %q", f.Path, f.Category, CategoryDocument)
		}
	}
	if d, ok := Lookup(fields, "created_at"); !ok || d.Type != types.TypeDate {
		t.Errorf("created_at = %+v, want date type", d)
	}
}

func TestFieldsAvailableAt_Scoping(t *testing.T) {
	steps := []types.Step{
		types.NewAnnotateStep(7),
		types.NewCurateStep("sentiment"),
		types.NewFilterStep(types.Expression{Combinator: types.CombinatorAnd}),
	}
	reg := testRegistry()

	// Position 0: only the document fields.
	at0 := FieldsAvailableAt(0, steps, reg)
	if len(at0) != 6 {
		t.Fatalf("position 0 len = %d, want 6: %v", len(at0), paths(at0))
	}

	// Position 1: document fields plus the ANNOTATE contribution.
	at1 := FieldsAvailableAt(1, steps, reg)
	d, ok := Lookup(at1, "annotations.Sentiment.sentiment")
	if !ok {
		t.Fatalf("annotations.Sentiment.sentiment not visible at position 1: %v", paths(at1))
	}
	if d.Type != types.TypeString || d.SourceStepIndex != 0 {
		t.Errorf("descriptor = %+v, want string type from step 0", d)
	}
	if _, ok := Lookup(at1, "fragments.sentiment"); ok {
		t.Errorf("fragments.sentiment visible at position 1, curate is at index 1")
	}

	// Position 2: CURATE's fragment joins.
	at2 := FieldsAvailableAt(2, steps, reg)
	f, ok := Lookup(at2, "fragments.sentiment")
	if !ok {
		t.Fatalf("fragments.sentiment not visible at position 2: %v", paths(at2))
	}
	if f.Type != types.TypeAny || f.Category != CategoryFragment || f.SourceStepIndex != 1 {
		t.Errorf("fragment descriptor = %+v", f)
	}

	// The FILTER at index 2 contributes nothing.
	at3 := FieldsAvailableAt(3, steps, reg)
	if len(at3) != len(at2) {
		t.Errorf("position 3 len = %d, want %d (FILTER contributes nothing)", len(at3), len(at2))
	}
}

func TestFieldsAvailableAt_UnresolvableSchemaSkipped(t *testing.T) {
	steps := []types.Step{types.NewAnnotateStep(7, 404)}
	fields := FieldsAvailableAt(1, steps, testRegistry())

	if _, ok := Lookup(fields, "annotations.Sentiment.sentiment"); !ok {
		t.Errorf("resolvable schema missing from catalog")
	}
	// Schema 404 was deleted; the catalog degrades instead of failing.
	if len(fields) != 6+2 {
		t.Errorf("len = %d, want 8 (document + Sentiment only)", len(fields))
	}
}

func TestFieldsAvailableAt_UntypedSchemaFieldDefaultsToString(t *testing.T) {
	reg := Registry{1: {Name: "Bare", OutputFields: []SchemaField{{Name: "x"}}}}
	steps := []types.Step{types.NewAnnotateStep(1)}

	d, ok := Lookup(FieldsAvailableAt(1, steps, reg), "annotations.Bare.x")
	if !ok {
		t.Fatalf("annotations.Bare.x not in catalog")
	}
	if d.Type != types.TypeString {
		t.Errorf("Type = %v, want string default", d.Type)
	}
}

func TestFieldsAvailableAt_EmptyCurateContributesNothing(t *testing.T) {
	steps := []types.Step{types.NewCurateStep()}
	fields := FieldsAvailableAt(1, steps, testRegistry())
	if len(fields) != 6 {
		t.Errorf("len = %d, want 6 (empty curate is runtime-resolved)", len(fields))
	}
}

func TestFieldsAvailableAt_PositionClamped(t *testing.T) {
	steps := []types.Step{types.NewAnnotateStep(7)}
	over := FieldsAvailableAt(10, steps, testRegistry())
	end := FieldsAvailableAt(1, steps, testRegistry())
	if len(over) != len(end) {
		t.Errorf("position past end len = %d, want %d", len(over), len(end))
	}
}

func TestLookup_FirstMatchWins(t *testing.T) {
	fields := []FieldDescriptor{
		{Path: "fragments.x", Type: types.TypeString, SourceStepIndex: 1},
		{Path: "fragments.x", Type: types.TypeAny, SourceStepIndex: 3},
	}
	d, ok := Lookup(fields, "fragments.x")
	if !ok || d.SourceStepIndex != 1 {
		t.Errorf("Lookup() = %+v, want the earlier descriptor", d)
	}
}

func TestFieldsAvailableAt_ScopeMonotonicity(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	reg := testRegistry()

	// Build a pipeline from generated step kind choices; field visibility
	// must only grow as position advances.
	properties.Property("catalog grows monotonically with position", prop.ForAll(
		func(kinds []int) bool {
			steps := make([]types.Step, len(kinds))
			for i, k := range kinds {
				switch k % 4 {
				case 0:
					steps[i] = types.NewFilterStep(types.Expression{Combinator: types.CombinatorAnd})
				case 1:
					steps[i] = types.NewAnnotateStep(int64(7 + (k % 3)))
				case 2:
					steps[i] = types.NewCurateStep("f" + string(rune('a'+k%5)))
				case 3:
					steps[i] = types.NewRouteStep(types.RouteBranch{DestinationID: 1})
				}
			}

			prev := Paths(FieldsAvailableAt(0, steps, reg))
			for pos := 1; pos <= len(steps); pos++ {
				cur := Paths(FieldsAvailableAt(pos, steps, reg))
				for p := range prev {
					if _, ok := cur[p]; !ok {
						return false
					}
				}
				prev = cur
			}
			return true
		},
		gen.SliceOf(gen.IntRange(0, 11)),
	))

	properties.Property("step at index k never sees its own contribution", prop.ForAll(
		func(n int) bool {
			steps := make([]types.Step, n)
			for i := range steps {
				steps[i] = types.NewCurateStep("own")
			}
			for k := 0; k < n; k++ {
				visible := Paths(FieldsAvailableAt(k, steps, reg))
				if k == 0 {
					if _, ok := visible["fragments.own"]; ok {
						return false
					}
				} else {
					// Contributed by an earlier duplicate, fine.
					if _, ok := visible["fragments.own"]; !ok {
						return false
					}
				}
			}
			return true
		},
		gen.IntRange(1, 10),
	))

	properties.TestingRun(t)
}
