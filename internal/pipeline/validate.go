// internal/pipeline/validate.go
package pipeline

import (
	"github.com/open-politics/open-politics-hq-sub007/internal/catalog"
	"github.com/open-politics/open-politics-hq-sub007/internal/types"
)

/*
 * Advisory pipeline validation.
 *
 * Walks the step list left to right, computes the field catalog at each
 * position, and checks that every FILTER rule and ROUTE branch
 * condition references only in-scope fields, plus the destination
 * sanity check (a ROUTE branch must not point back at the flow's input
 * collection).
 *
 * Validation never mutates the pipeline and never halts authoring: a
 * flow with dangling or forward references is still a valid, storable,
 * executable document. The report is surfaced to the author.
 */

// Validation error kinds.
const (
	KindUnknownFieldReference = "UnknownFieldReference"
	KindInvalidDestination    = "InvalidDestination"
)

// ValidationError is one advisory finding.
type ValidationError struct {
	StepIndex     int    `json:"step_index"`
	Kind          string `json:"kind"`
	Field         string `json:"field,omitempty"`
	DestinationID int64  `json:"destination_id,omitempty"`
}

// Validate checks every rule reference and branch destination in the
// pipeline against the catalog available at each step's position.
// inputBundleID is the flow's input collection; pass 0 to skip the
// destination check.
func Validate(p Pipeline, reg catalog.SchemaRegistry, inputBundleID int64) []ValidationError {
	var errs []ValidationError

	for i, step := range p {
		switch step.Kind {
		case types.StepFilter:
			if step.Filter == nil {
				continue
			}
			inScope := catalog.Paths(catalog.FieldsAvailableAt(i, p, reg))
			errs = append(errs, checkRefs(i, step.Filter.Expression.FieldRefs(), inScope)...)

		case types.StepRoute:
			if step.Route == nil {
				continue
			}
			// Branch conditions see the catalog at the route's own index.
			inScope := catalog.Paths(catalog.FieldsAvailableAt(i, p, reg))
			for _, branch := range step.Route.EffectiveBranches() {
				if branch.Condition != nil {
					errs = append(errs, checkRefs(i, branch.Condition.FieldRefs(), inScope)...)
				}
				if inputBundleID != 0 && branch.DestinationID == inputBundleID {
					errs = append(errs, ValidationError{
						StepIndex:     i,
						Kind:          KindInvalidDestination,
						DestinationID: branch.DestinationID,
					})
				}
			}
		}
	}

	return errs
}

func checkRefs(stepIndex int, refs []string, inScope map[string]struct{}) []ValidationError {
	var errs []ValidationError
	for _, field := range refs {
		if _, ok := inScope[field]; !ok {
			errs = append(errs, ValidationError{
				StepIndex: stepIndex,
				Kind:      KindUnknownFieldReference,
				Field:     field,
			})
		}
	}
	return errs
}
