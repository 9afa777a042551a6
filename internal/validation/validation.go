// Package validation normalizes raw submission input at the system boundary.
// The core packages only ever operate on the normalized forms produced here.
package validation

import (
	"strings"
	"time"
)

// DateLayout is the wire format for schedule dates.
const DateLayout = "2006-01-02"

// facetSplitter matches the delimiters accepted in legacy delimited-string
// facet submissions.
func facetSplitter(r rune) bool {
	return r == ',' || r == ';'
}

// NormalizeFacet converts a facet submitted as either a delimited string or
// a sequence into the canonical multi-valued set: trimmed, de-duplicated
// (case-insensitively, first spelling wins), empties dropped.
func NormalizeFacet(raw any) []string {
	var values []string
	switch v := raw.(type) {
	case nil:
		return nil
	case string:
		values = strings.FieldsFunc(v, facetSplitter)
	case []string:
		values = v
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok {
				values = append(values, s)
			}
		}
	default:
		return nil
	}

	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		key := strings.ToLower(v)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// ParseDate parses a wire-format date. An empty string parses to nil with no
// error, which is how partial schedule edits omit a field.
func ParseDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ValidReason reports whether a rejection reason is usable: non-empty after
// trimming.
func ValidReason(reason string) bool {
	return strings.TrimSpace(reason) != ""
}
