// Package catalog computes the set of field paths legally referenceable
// at a given pipeline position.
//
// The catalog is authoring-time only: the validator checks rule field
// references against it, but runtime evaluation resolves fields against
// the asset's actual data and never consults the catalog.
//
// Scoping invariant: a field contributed by the step at index k is
// visible only to steps at index > k. FieldsAvailableAt is pure and
// deterministic for a fixed (position, steps, registry); every
// structural edit recomputes from scratch, so there is no cache to
// invalidate.
package catalog

import (
	"fmt"

	"github.com/open-politics/open-politics-hq-sub007/internal/types"
)

// SchemaField is one declared output property of an annotation schema.
type SchemaField struct {
	Name        string          `json:"name" yaml:"name"`
	Type        types.ValueType `json:"type,omitempty" yaml:"type,omitempty"`
	Description string          `json:"description,omitempty" yaml:"description,omitempty"`
}

// Schema is the typed output contract produced by an ANNOTATE step.
// The annotation model that computes the values is external; the
// catalog only needs the declared shape.
type Schema struct {
	Name         string        `json:"name" yaml:"name"`
	OutputFields []SchemaField `json:"output_fields" yaml:"output_fields"`
}

// SchemaRegistry resolves schema IDs to their declared contracts.
// Lookups are synchronous against an already-fetched snapshot; fetching
// is the caller's job.
type SchemaRegistry interface {
	ResolveSchema(id int64) (Schema, bool)
}

// Registry is an in-memory SchemaRegistry snapshot.
type Registry map[int64]Schema

// ResolveSchema implements SchemaRegistry.
func (r Registry) ResolveSchema(id int64) (Schema, bool) {
	s, ok := r[id]
	return s, ok
}

// FieldDescriptor describes one referenceable field at some pipeline
// position. SourceStepIndex is DocumentSource for the fixed document
// fields, otherwise the index of the contributing step.
type FieldDescriptor struct {
	Path            string          `json:"path"`
	Type            types.ValueType `json:"type"`
	Category        string          `json:"category"`
	SourceStepIndex int             `json:"source_step_index"`
}

// DocumentSource marks descriptors not produced by any step.
const DocumentSource = -1

// Field categories surfaced to the rule builder.
const (
	CategoryDocument = "document"
	CategoryFragment = "curated fragment"
)

// DocumentFields returns the six fixed base fields every asset carries.
// Fresh slice per call: callers append to the result.
func DocumentFields() []FieldDescriptor {
	return []FieldDescriptor{
		{Path: "text_content", Type: types.TypeString, Category: CategoryDocument, SourceStepIndex: DocumentSource},
		{Path: "title", Type: types.TypeString, Category: CategoryDocument, SourceStepIndex: DocumentSource},
		{Path: "kind", Type: types.TypeString, Category: CategoryDocument, SourceStepIndex: DocumentSource},
		{Path: "url", Type: types.TypeString, Category: CategoryDocument, SourceStepIndex: DocumentSource},
		{Path: "source_identifier", Type: types.TypeString, Category: CategoryDocument, SourceStepIndex: DocumentSource},
		{Path: "created_at", Type: types.TypeDate, Category: CategoryDocument, SourceStepIndex: DocumentSource},
	}
}

// FieldsAvailableAt returns the descriptors visible to a step at
// position (0-based, exclusive of the step at that index): the document
// fields plus everything contributed by steps before position.
//
// ANNOTATE contributes annotations.<schemaName>.<fieldName> per declared
// output field; an unresolvable schema ID is silently skipped so
// historical flows stay inspectable after a schema is deleted. CURATE
// contributes fragments.<name> per promoted field; an empty CURATE
// defers to "all available" at runtime and contributes nothing
// statically. FILTER and ROUTE never contribute.
//
// The result is a list, not a map: later duplicates of a path are
// retained, and Lookup resolves references first-match-wins.
func FieldsAvailableAt(position int, steps []types.Step, reg SchemaRegistry) []FieldDescriptor {
	if position > len(steps) {
		position = len(steps)
	}

	fields := DocumentFields()

	for i := 0; i < position; i++ {
		step := steps[i]
		switch step.Kind {
		case types.StepAnnotate:
			if step.Annotate == nil {
				continue
			}
			// Values() is sorted, keeping output independent of toggle order.
			for _, schemaID := range step.Annotate.SchemaIDs.Values() {
				schema, ok := reg.ResolveSchema(schemaID)
				if !ok {
					// Deleted schema: soft degradation, not a failure.
					continue
				}
				for _, out := range schema.OutputFields {
					fieldType := out.Type
					if fieldType == "" {
						fieldType = types.TypeString
					}
					fields = append(fields, FieldDescriptor{
						Path:            fmt.Sprintf("annotations.%s.%s", schema.Name, out.Name),
						Type:            fieldType,
						Category:        "annotation: " + schema.Name,
						SourceStepIndex: i,
					})
				}
			}
		case types.StepCurate:
			if step.Curate == nil {
				continue
			}
			for _, name := range step.Curate.Fields.Values() {
				fields = append(fields, FieldDescriptor{
					Path:            "fragments." + name,
					Type:            types.TypeAny,
					Category:        CategoryFragment,
					SourceStepIndex: i,
				})
			}
		}
	}

	return fields
}

// Lookup resolves a path against a catalog, first-match-wins.
func Lookup(fields []FieldDescriptor, path string) (FieldDescriptor, bool) {
	for _, f := range fields {
		if f.Path == path {
			return f, true
		}
	}
	return FieldDescriptor{}, false
}

// Paths returns the set of paths present in a catalog. Used by the
// validator for membership checks.
func Paths(fields []FieldDescriptor) map[string]struct{} {
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f.Path] = struct{}{}
	}
	return set
}
