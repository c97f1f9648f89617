package remap

import (
	"fmt"
	"strings"
)

// unsafeKeyPrefixes are rejected as schema keys.
var unsafeKeyPrefixes = []string{"constructor", "prototype", "__proto__"}

// Sanitize validates a schema and returns a normalized deep copy of it.
//
// The schema must be a mapping or a sequence of schemas. Any schema key
// equal to or starting with "constructor", "prototype" or "__proto__"
// fails with ErrUnsafeSchemaKey, at any depth: nested sub-schemas, $iterate
// sibling keys, and $concat/$alt stages are scanned too. $value payloads
// are data and are not scanned.
//
// Sanitize is a fixed point: sanitizing its own output returns an equal
// schema.
func Sanitize(schema any) (any, error) {
	if schema == nil {
		return nil, newSchemaError(ErrInvalidSchemaKind, "", "", "schema is nil")
	}
	cloned := Clone(schema)
	if err := checkSchema(cloned, ""); err != nil {
		return nil, err
	}
	return cloned, nil
}

// checkSchema validates a mapping schema or a chain of schemas.
func checkSchema(schema any, loc string) error {
	switch s := schema.(type) {
	case map[string]any:
		return checkMapping(s, loc)
	case []any:
		for i, sub := range s {
			if err := checkSchema(sub, joinPath(loc, fmt.Sprintf("[%d]", i))); err != nil {
				return err
			}
		}
		return nil
	default:
		return newSchemaError(ErrInvalidSchemaKind, loc, "",
			fmt.Sprintf("expected mapping or sequence, got %s", kindOf(schema)))
	}
}

func checkMapping(m map[string]any, loc string) error {
	for key, formula := range m {
		if isUnsafeKey(key) {
			return newSchemaError(ErrUnsafeSchemaKey, joinPath(loc, key), "", "")
		}
		if err := checkFormula(formula, joinPath(loc, key)); err != nil {
			return err
		}
	}
	return nil
}

// checkFormula scans the schema-bearing parts of a formula.
func checkFormula(formula any, loc string) error {
	switch f := formula.(type) {
	case map[string]any:
		if !IsDirective(f) {
			return checkMapping(f, loc)
		}
		for key, arg := range f {
			switch {
			case key == string(OpValue):
				continue
			case IsValidOperator(key):
				if err := checkFormula(arg, loc); err != nil {
					return err
				}
			default:
				if isUnsafeKey(key) {
					return newSchemaError(ErrUnsafeSchemaKey, joinPath(loc, key), "", "")
				}
				if err := checkFormula(arg, joinPath(loc, key)); err != nil {
					return err
				}
			}
		}
	case []any:
		for _, stage := range f {
			if err := checkFormula(stage, loc); err != nil {
				return err
			}
		}
	}
	return nil
}

func isUnsafeKey(key string) bool {
	for _, prefix := range unsafeKeyPrefixes {
		if strings.HasPrefix(key, prefix) {
			return true
		}
	}
	return false
}

func joinPath(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}

// kindOf names the JSON kind of a normalized value.
func kindOf(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case map[string]any:
		return "mapping"
	case []any:
		return "sequence"
	case string:
		return "string"
	case bool:
		return "bool"
	default:
		if _, ok := toFloat(v); ok {
			return "number"
		}
		return fmt.Sprintf("%T", v)
	}
}
