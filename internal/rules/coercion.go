// internal/rules/coercion.go
package rules

import (
	"strconv"
	"strings"
	"time"
)

/*
 * Runtime coercion helpers for operator comparison.
 *
 * Rule literals are coerced once at authoring time (types.LiteralValue)
 * and keep their kind forever. The helpers here handle the other side:
 * whatever shape the asset's runtime data happens to have.
 *
 * Two strictness levels, on purpose:
 *   - equality uses strict numeric conversion (Go numeric types only);
 *     a string "42" and the number 42 are mismatched types and compare
 *     unequal
 *   - ordering (gt/lt/gte/lte) is lenient and accepts numeric strings,
 *     since "not numeric/date-coercible" is the only disqualifier
 *
 * Date handling: document timestamps and annotation dates travel as
 * RFC3339 strings in asset JSON. asTime accepts RFC3339 and the bare
 * date form.
 */

// asNumber converts a runtime value to float64 using strict rules:
// only Go numeric types qualify. Handles float64/int/int64 mixing from
// JSON unmarshaling.
func asNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

// asNumberLenient additionally accepts numeric strings, for ordering
// comparisons where any numeric-coercible value qualifies.
// Whitespace-only strings are not valid numbers.
func asNumberLenient(v any) (float64, bool) {
	if f, ok := asNumber(v); ok {
		return f, true
	}
	s, ok := v.(string)
	if !ok {
		return 0, false
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// asTime converts a runtime value to a timestamp. Accepts RFC3339
// strings and bare dates (2006-01-02).
func asTime(v any) (time.Time, bool) {
	s, ok := v.(string)
	if !ok {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, true
	}
	return time.Time{}, false
}
