package remap

import (
	"fmt"
	"reflect"
)

// Wildcard is the dictionary key that records a default translation.
const Wildcard = "*"

// Pair is one (from, to) row of a Dictionary.
type Pair [2]any

// Dictionary is an ordered translation table.
//
// An exact match on the from column wins wherever it appears. A row whose
// from column is Wildcard records a default that applies only when no
// exact match exists; a later wildcard replaces an earlier one. Without a
// default the value passes through unchanged. A default whose to column is
// itself Wildcard also means pass-through.
type Dictionary []Pair

// NewDictionary builds a Dictionary from rows of two elements, as decoded
// from JSON or YAML.
func NewDictionary(rows [][]any) (Dictionary, error) {
	dict := make(Dictionary, 0, len(rows))
	for i, row := range rows {
		if len(row) != 2 {
			return nil, fmt.Errorf("row %d has %d columns, want 2", i, len(row))
		}
		dict = append(dict, Pair{Clone(row[0]), Clone(row[1])})
	}
	return dict, nil
}

// Lookup translates value. found reports whether the caller has a value at
// all; when it does not, only the wildcard default can produce one.
func (d Dictionary) Lookup(value any, found bool) (any, bool) {
	var (
		fallback    any
		hasFallback bool
	)
	for _, p := range d {
		if p[0] == Wildcard {
			fallback, hasFallback = p[1], true
		}
		if found && equal(p[0], value) {
			return p[1], true
		}
	}
	if hasFallback && fallback != Wildcard {
		return fallback, true
	}
	return value, found
}

// equal compares two dictionary keys. Numbers compare by value across Go
// numeric kinds; other values compare with ==.
func equal(a, b any) bool {
	if af, ok := toFloat(a); ok {
		bf, ok := toFloat(b)
		return ok && af == bf
	}
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta := reflect.TypeOf(a)
	if ta != reflect.TypeOf(b) || !ta.Comparable() {
		return false
	}
	return a == b
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}
