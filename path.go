package remap

import (
	"strconv"
	"strings"
)

// Get resolves a dot-delimited path through nested mappings and sequences.
// Numeric segments index into sequences. It reports false when any segment
// is missing; it never fails.
//
//	Get(map[string]any{"a": []any{map[string]any{"b": 1}}}, "a.0.b") // 1, true
func Get(source any, path string) (any, bool) {
	if path == "" {
		return nil, false
	}
	current := source
	for seg := range strings.SplitSeq(path, ".") {
		switch node := current.(type) {
		case map[string]any:
			next, ok := node[seg]
			if !ok {
				return nil, false
			}
			current = next
		case []any:
			i, err := strconv.Atoi(seg)
			if err != nil || i < 0 || i >= len(node) {
				return nil, false
			}
			current = node[i]
		default:
			return nil, false
		}
	}
	return current, true
}

// Set writes value into target at a dot-delimited path, creating
// intermediate mappings as needed. Intermediates that are not mappings are
// replaced.
//
// There is no "undefined" value in Go: callers holding a value that was not
// found simply do not call Set, which keeps absent keys absent.
func Set(target map[string]any, path string, value any) {
	if path == "" {
		return
	}
	current := target
	segs := strings.Split(path, ".")
	for _, seg := range segs[:len(segs)-1] {
		next, ok := current[seg].(map[string]any)
		if !ok {
			next = make(map[string]any)
			current[seg] = next
		}
		current = next
	}
	current[segs[len(segs)-1]] = value
}

// SetWith applies modifier to value and writes the result at path.
// Nothing is written when the modifier fails.
//
// It is a helper for callers assembling targets by hand, for example with
// a TransformFunc as modifier. Adapters do not use it; they write formula
// results with Set.
func SetWith(target map[string]any, path string, value any, modifier func(any) (any, error)) error {
	if modifier != nil {
		modified, err := modifier(value)
		if err != nil {
			return err
		}
		value = modified
	}
	Set(target, path, value)
	return nil
}
