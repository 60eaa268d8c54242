// internal/rules/fieldpath.go
package rules

import (
	"strings"

	"github.com/open-politics/open-politics-hq-sub007/internal/types"
)

/*
 * Field path resolution for asset data.
 *
 * Resolves dotted references (text_content, annotations.Sentiment.label,
 * fragments.score) through nested objects in an asset's runtime data.
 * Resolution is total: anything that cannot be traversed reports
 * "not found" instead of erroring, so rule evaluation never aborts on
 * data shape.
 *
 * Found vs null is a deliberate distinction: a key present with a JSON
 * null resolves as (nil, true). The exists operator treats that as
 * absent; equality operators fail closed on it.
 *
 * Paths traverse objects only. The authoring UI never emits array
 * indices, so a dotted segment landing on an array or scalar stops
 * resolution as not-found.
 */

// SplitPath breaks a dotted reference into its segments.
func SplitPath(path string) []string {
	if path == "" {
		return nil
	}
	return strings.Split(path, ".")
}

// ResolvePath traverses doc (decoded JSON) following the dotted path.
// Returns the value and whether the full path was present. Paths deeper
// than MaxFieldPathDepth resolve as not found.
func ResolvePath(path string, doc any) (any, bool) {
	segments := SplitPath(path)
	if len(segments) == 0 || len(segments) > types.MaxFieldPathDepth {
		return nil, false
	}

	current := doc
	for _, seg := range segments {
		obj, ok := current.(map[string]any)
		if !ok {
			// Scalar, array, or null at an intermediate position.
			return nil, false
		}
		val, ok := obj[seg]
		if !ok {
			return nil, false
		}
		current = val
	}
	return current, true
}
