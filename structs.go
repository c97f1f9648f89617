package remap

import (
	"encoding"
	"fmt"
	"go/token"
	"reflect"
	"strings"
	"sync"

	"github.com/zoobzio/sentinel"
)

func init() {
	// Field names come from json tags
	sentinel.Tag("json")
}

var (
	valuerType        = reflect.TypeFor[Valuer]()
	textMarshalerType = reflect.TypeFor[encoding.TextMarshaler]()
)

// structField describes how one exported struct field is normalized.
type structField struct {
	index     []int
	name      string
	omitEmpty bool

	// nested fields are structs walked with their own plan, directly or
	// through a pointer.
	nested  bool
	pointer bool
}

// structFieldCache holds field plans per struct type.
var structFieldCache sync.Map // map[reflect.Type][]structField

// FromStruct converts a struct value into a JSON-like mapping suitable as a
// transform source. Field names follow json tags; fields tagged "-" are
// skipped and "omitempty" drops zero values.
//
// T must be a struct type. Its metadata is registered with sentinel, so
// later transforms of T reuse the scanned plan.
func FromStruct[T any](v T) (map[string]any, error) {
	rt := reflect.TypeFor[T]()
	if rt.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: %T is not a struct", ErrUnsupportedSourceKind, v)
	}
	if !walkable(rt) {
		out, ok := Clone(v).(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: %T does not normalize to a mapping", ErrUnsupportedSourceKind, v)
		}
		return out, nil
	}
	if _, ok := structFieldCache.Load(rt); !ok {
		structFieldCache.Store(rt, planFields(sentinel.Scan[T]()))
	}

	var c cloner
	return c.structToMap(reflect.ValueOf(v)), nil
}

// structToMap normalizes a struct value using cached field plans.
func (c *cloner) structToMap(rv reflect.Value) map[string]any {
	fields := structFields(rv.Type())
	out := make(map[string]any, len(fields))
	for _, f := range fields {
		fv := rv.FieldByIndex(f.index)
		if f.omitEmpty && fv.IsZero() {
			continue
		}
		switch {
		case !f.nested:
			out[f.name] = c.clone(fv.Interface())
		case !f.pointer:
			out[f.name] = c.structToMap(fv)
		case fv.IsNil():
			out[f.name] = nil
		default:
			out[f.name] = c.follow(fv, func() any { return c.structToMap(fv.Elem()) })
		}
	}
	return out
}

// structFields returns the field plan for a struct type.
func structFields(rt reflect.Type) []structField {
	if cached, ok := structFieldCache.Load(rt); ok {
		return cached.([]structField)
	}
	fields := planFields(structMetadata(rt))
	structFieldCache.Store(rt, fields)
	return fields
}

// structMetadata returns the sentinel metadata registered for rt, or
// describes its exported fields the same way when rt was never scanned.
func structMetadata(rt reflect.Type) sentinel.Metadata {
	if spec, ok := sentinel.Lookup(rt.String()); ok {
		return spec
	}

	spec := sentinel.Metadata{
		TypeName:    rt.Name(),
		PackageName: rt.PkgPath(),
		Fields:      make([]sentinel.FieldMetadata, 0, rt.NumField()),
	}

	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		if !sf.IsExported() {
			continue
		}

		fm := sentinel.FieldMetadata{
			Name:        sf.Name,
			Type:        sf.Type.String(),
			ReflectType: sf.Type,
			Index:       sf.Index,
			Tags:        map[string]string{},
		}
		if tag, ok := sf.Tag.Lookup("json"); ok {
			fm.Tags["json"] = tag
		}

		switch sf.Type.Kind() {
		case reflect.Struct:
			fm.Kind = sentinel.KindStruct
		case reflect.Ptr:
			fm.Kind = sentinel.KindPointer
		case reflect.Slice, reflect.Array:
			fm.Kind = sentinel.KindSlice
		case reflect.Map:
			fm.Kind = sentinel.KindMap
		case reflect.Interface:
			fm.Kind = sentinel.KindInterface
		default:
			fm.Kind = sentinel.KindScalar
		}

		spec.Fields = append(spec.Fields, fm)
	}

	return spec
}

// planFields turns sentinel metadata into a field plan.
func planFields(spec sentinel.Metadata) []structField {
	fields := make([]structField, 0, len(spec.Fields))
	for _, fm := range spec.Fields {
		if !token.IsExported(fm.Name) {
			continue
		}
		name, omit, skip := parseJSONTag(fm.Tags["json"], fm.Name)
		if skip {
			continue
		}

		f := structField{index: fm.Index, name: name, omitEmpty: omit}
		switch fm.Kind {
		case sentinel.KindStruct:
			f.nested = walkable(fm.ReflectType)
		case sentinel.KindPointer:
			if fm.ReflectType.Elem().Kind() == reflect.Struct && walkable(fm.ReflectType) {
				f.nested = true
				f.pointer = true
			}
		}
		fields = append(fields, f)
	}
	return fields
}

// walkable reports whether values of t are walked field by field. Types
// with their own normalization (Valuer, encoding.TextMarshaler) are not.
func walkable(t reflect.Type) bool {
	return !t.Implements(valuerType) && !t.Implements(textMarshalerType)
}

// parseJSONTag splits a json struct tag into name and options.
func parseJSONTag(tag, fieldName string) (name string, omitEmpty, skip bool) {
	if tag == "-" {
		return "", false, true
	}
	name, opts, _ := strings.Cut(tag, ",")
	if name == "" {
		name = fieldName
	}
	for opt := range strings.SplitSeq(opts, ",") {
		if opt == "omitempty" {
			omitEmpty = true
		}
	}
	return name, omitEmpty, false
}
