package schema

import "github.com/ormasoftchile/bsif/pkg/bsif/diag"

// Limits bounds decoder resource consumption. Defaults match the values a
// document author can rely on; a caller embedding the decoder in a
// resource-constrained host can tighten them.
type Limits struct {
	MaxBytes       int64
	MaxDepth       int
	MaxStringBytes int
}

// DefaultLimits returns the limits enforced when a caller passes none.
func DefaultLimits() Limits {
	return Limits{
		MaxBytes:       10 << 20, // 10 MiB
		MaxDepth:       32,
		MaxStringBytes: 64 << 10, // 64 KiB
	}
}

// checkDepthAndStrings walks a generic decoded tree (maps, slices, scalars)
// enforcing nesting depth and string length limits. It runs immediately
// after parse, before the typed walk, per the resource-limits-first
// ordering.
func checkDepthAndStrings(v any, depth int, lim Limits) *diag.Diagnostic {
	if depth > lim.MaxDepth {
		return diag.Errorf(diag.CodeNestingTooDeep, nil, "nesting depth exceeds maximum of %d", lim.MaxDepth)
	}
	switch x := v.(type) {
	case map[string]any:
		for _, child := range x {
			if d := checkDepthAndStrings(child, depth+1, lim); d != nil {
				return d
			}
		}
	case []any:
		for _, child := range x {
			if d := checkDepthAndStrings(child, depth+1, lim); d != nil {
				return d
			}
		}
	case string:
		if len(x) > lim.MaxStringBytes {
			return diag.Errorf(diag.CodeStringTooLong, nil, "string value exceeds maximum length of %d bytes", lim.MaxStringBytes)
		}
	}
	return nil
}
