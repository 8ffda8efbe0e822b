// Package sanitize strips HTML from free-text input before it reaches
// persistence. The policy allows no tags and no attributes, so anything
// markup-like is removed outright rather than escaped.
package sanitize

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var policy = bluemonday.StrictPolicy()

// String strips all markup from s and trims surrounding whitespace.
func String(s string) string {
	return strings.TrimSpace(policy.Sanitize(s))
}

// Clean walks m in place, replacing every string leaf with its stripped and
// trimmed form and recursing into nested maps. Non-string, non-map values pass
// through unchanged. Returns m for chaining. Idempotent: cleaning an
// already-clean map changes nothing.
func Clean(m map[string]any) map[string]any {
	if m == nil {
		return m
	}
	for k, v := range m {
		switch val := v.(type) {
		case string:
			m[k] = String(val)
		case map[string]any:
			m[k] = Clean(val)
		}
	}
	return m
}
