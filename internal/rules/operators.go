// internal/rules/operators.go
package rules

import (
	"strconv"
	"strings"
	"time"

	"github.com/open-politics/open-politics-hq-sub007/internal/types"
)

/*
 * Operator comparison logic.
 *
 * Implements the 10 comparison operators with type-aware comparison
 * rules. Every pairing of (operator, literal kind, runtime shape) has a
 * defined boolean outcome; nothing here returns an error or panics.
 *
 * Operators:
 *   - exists/not_exists: presence checks, value literal ignored
 *   - eq/neq: equality; mismatched types compare unequal
 *   - contains/not_contains: substring on strings (case-sensitive),
 *     membership on arrays; false on anything else
 *   - lt/lte/gt/gte: numeric or date ordering; false when the resolved
 *     value is not coercible
 *
 * Fail-closed policy: a value-bearing operator with a missing field,
 * a null value, or an absent/null literal evaluates false. That keeps
 * the executor's hot path free of exception handling.
 *
 * Why function-based: 10 operators via switch statement is cleaner than
 * 10 interface implementations with minimal behavior variation.
 */

// Compare applies the operator to the resolved runtime value.
// found reports whether the field path was present on the asset;
// target is the rule's stored literal (nil when the operator carries
// none, or when the author left it empty).
func Compare(op types.Operator, resolved any, found bool, target *types.Value) bool {
	present := found && resolved != nil

	switch op {
	case types.OpExists:
		return present
	case types.OpNotExists:
		return !present
	}

	// All remaining operators need both sides. An absent or null
	// literal degrades to matching nothing.
	if !present || target == nil || target.IsNull() {
		return false
	}

	switch op {
	case types.OpEq:
		return compareEqual(resolved, *target)
	case types.OpNeq:
		return !compareEqual(resolved, *target)
	case types.OpContains:
		return compareContains(resolved, *target)
	case types.OpNotContains:
		return compareNotContains(resolved, *target)
	case types.OpGt:
		cmp, ok := compareOrdered(resolved, *target)
		return ok && cmp > 0
	case types.OpGte:
		cmp, ok := compareOrdered(resolved, *target)
		return ok && cmp >= 0
	case types.OpLt:
		cmp, ok := compareOrdered(resolved, *target)
		return ok && cmp < 0
	case types.OpLte:
		cmp, ok := compareOrdered(resolved, *target)
		return ok && cmp <= 0
	default:
		return false
	}
}

// compareEqual performs equality per literal kind. Number literals
// compare numerically against numeric runtime values; string literals
// compare exactly; mismatched types are unequal.
func compareEqual(resolved any, target types.Value) bool {
	switch target.Kind() {
	case types.KindNumber:
		want, _ := target.AsNumber()
		got, ok := asNumber(resolved)
		return ok && got == want
	case types.KindString:
		want, _ := target.AsString()
		got, ok := resolved.(string)
		return ok && got == want
	case types.KindBoolean:
		want, _ := target.AsBool()
		got, ok := resolved.(bool)
		return ok && got == want
	case types.KindDate:
		want, _ := target.AsTime()
		got, ok := asTime(resolved)
		return ok && got.Equal(want)
	default:
		return false
	}
}

// compareContains implements substring matching on string fields and
// membership on array fields. Anything else fails closed.
func compareContains(resolved any, target types.Value) bool {
	switch v := resolved.(type) {
	case string:
		return strings.Contains(v, literalText(target))
	case []any:
		for _, elem := range v {
			if compareEqual(elem, target) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// compareNotContains negates contains only where contains is defined;
// non-string/array fields still evaluate false rather than
// "not containing" vacuously.
func compareNotContains(resolved any, target types.Value) bool {
	switch resolved.(type) {
	case string, []any:
		return !compareContains(resolved, target)
	default:
		return false
	}
}

// compareOrdered performs three-way ordering of resolved against the
// literal. Number literals order numerically (numeric strings on the
// runtime side qualify); string literals order as dates when both
// sides parse as timestamps. Everything else is incomparable.
func compareOrdered(resolved any, target types.Value) (int, bool) {
	if want, ok := target.AsNumber(); ok {
		got, ok := asNumberLenient(resolved)
		if !ok {
			return 0, false
		}
		return compareFloats(got, want), true
	}

	var want time.Time
	if t, ok := target.AsTime(); ok {
		want = t
	} else if s, ok := target.AsString(); ok {
		t, ok := asTime(s)
		if !ok {
			return 0, false
		}
		want = t
	} else {
		return 0, false
	}

	got, ok := asTime(resolved)
	if !ok {
		return 0, false
	}
	switch {
	case got.Before(want):
		return -1, true
	case got.After(want):
		return 1, true
	default:
		return 0, true
	}
}

func compareFloats(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// literalText renders a literal for substring matching. Number literals
// use their canonical decimal form.
func literalText(target types.Value) string {
	if s, ok := target.AsString(); ok {
		return s
	}
	if f, ok := target.AsNumber(); ok {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	if b, ok := target.AsBool(); ok {
		return strconv.FormatBool(b)
	}
	if t, ok := target.AsTime(); ok {
		return t.UTC().Format(time.RFC3339)
	}
	return ""
}
