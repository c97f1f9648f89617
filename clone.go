package remap

import (
	"encoding"
	"fmt"
	"reflect"
)

// Clone returns a deep copy of v as a JSON-like tree.
//
// Maps with string keys become map[string]any, slices and arrays become
// []any, structs become map[string]any keyed by their json names, pointers
// and interfaces are followed, and encoding.TextMarshaler values become
// strings. Scalars are kept as-is. Modifications to the result never affect
// v and vice versa.
//
// A pointer met again while it is still being copied, such as a child's
// back-reference to its parent, becomes nil. Maps and slices that contain
// themselves are not supported.
func Clone(v any) any {
	var c cloner
	return c.clone(v)
}

// cloner copies one value, remembering the pointers on the current path.
type cloner struct {
	active map[pointerKey]struct{}
}

type pointerKey struct {
	typ  reflect.Type
	addr uintptr
}

func (c *cloner) clone(v any) any {
	switch x := v.(type) {
	case nil:
		return nil
	case string, bool,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return x
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[k] = c.clone(e)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = c.clone(e)
		}
		return out
	case Valuer:
		if isNilPointer(x) {
			return nil
		}
		return c.clone(x.RemapValue())
	case encoding.TextMarshaler:
		if isNilPointer(x) {
			return nil
		}
		text, err := x.MarshalText()
		if err != nil {
			return fmt.Sprint(x)
		}
		return string(text)
	}
	return c.cloneReflect(reflect.ValueOf(v))
}

// cloneReflect handles typed containers and named scalar types.
func (c *cloner) cloneReflect(rv reflect.Value) any {
	switch rv.Kind() {
	case reflect.Pointer:
		if rv.IsNil() {
			return nil
		}
		return c.follow(rv, func() any { return c.clone(rv.Elem().Interface()) })
	case reflect.Interface:
		if rv.IsNil() {
			return nil
		}
		return c.clone(rv.Elem().Interface())
	case reflect.Map:
		if rv.IsNil() {
			return nil
		}
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out[mapKey(iter.Key())] = c.clone(iter.Value().Interface())
		}
		return out
	case reflect.Slice:
		if rv.IsNil() {
			return nil
		}
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return append([]byte(nil), rv.Bytes()...)
		}
		return c.cloneSequence(rv)
	case reflect.Array:
		return c.cloneSequence(rv)
	case reflect.Struct:
		return c.structToMap(rv)
	case reflect.String:
		return rv.String()
	case reflect.Bool:
		return rv.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return rv.Uint()
	case reflect.Float32, reflect.Float64:
		return rv.Float()
	default:
		// funcs, channels, complex numbers and invalid values have no JSON form
		return nil
	}
}

// follow copies the target of a non-nil pointer with fn. A pointer that is
// already being copied yields nil.
func (c *cloner) follow(ptr reflect.Value, fn func() any) any {
	key := pointerKey{typ: ptr.Type(), addr: ptr.Pointer()}
	if _, ok := c.active[key]; ok {
		return nil
	}
	if c.active == nil {
		c.active = make(map[pointerKey]struct{})
	}
	c.active[key] = struct{}{}
	defer delete(c.active, key)
	return fn()
}

func (c *cloner) cloneSequence(rv reflect.Value) []any {
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = c.clone(rv.Index(i).Interface())
	}
	return out
}

func isNilPointer(v any) bool {
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}

// mapKey renders a map key as a string.
func mapKey(k reflect.Value) string {
	for k.Kind() == reflect.Interface && !k.IsNil() {
		k = k.Elem()
	}
	if k.Kind() == reflect.String {
		return k.String()
	}
	return fmt.Sprint(k.Interface())
}
