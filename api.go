// Package remap provides declarative, schema-driven object mapping.
//
// A schema describes, per target path, a formula that derives the target
// value from a JSON-like source. An Adapter compiles the schema once and
// then transforms any number of sources:
//
//	adapter, _ := remap.New(map[string]any{
//	    "id":           "uuid",
//	    "name.first":   "firstName",
//	    "gender":       map[string]any{"$lookup": "gender"},
//	    "country":      []any{"address.country", map[string]any{"$transform": "upper"}},
//	},
//	    remap.WithDictionaries(map[string]remap.Dictionary{
//	        "gender": {{"Male", "M"}, {"Female", "F"}, {"*", "U"}},
//	    }),
//	    remap.WithTransformers(map[string]remap.TransformFunc{"upper": upper}),
//	)
//
//	target, err := adapter.Transform(ctx, source)
//
// # Formulas
//
// A formula is one of:
//
//   - a path reference: a dot-delimited source path such as "a.b.0.c"
//   - a directive: a mapping with exactly one operator key
//   - a sub-schema: a mapping with no operator key, evaluated against the
//     whole source and written as a nested object
//   - a pipeline: a sequence of path references and directives; each stage
//     reads the previous stage's output at the same target path
//
// # Operators
//
//	$value     literal value, written verbatim
//	$var       named variable from the environment
//	$lookup    dictionary translation of the value at the target path
//	$transform named transformer applied to the value at the target path
//	$concat    sequence of stage results, one slot per stage
//	$alt       first stage result that is present and not null
//	$filter    keeps the value at the target path if a named predicate holds
//	$iterate   maps the directive's sibling keys over a source sequence
//
// # Schema Chains
//
// A schema may also be a sequence of schemas. The output of each schema is
// the source of the next, and the last output is returned.
//
// # Sources
//
// Sources are copied and normalized once per Transform: typed maps and
// slices, structs (by json tag), pointers, and encoding.TextMarshaler
// values become plain JSON-like trees. Types can bypass reflection by
// implementing Valuer. FromStruct converts a typed struct up front.
//
// # Observability
//
// Adapters emit capitan signals when created and around each Transform.
// An Observer sees every formula evaluation; SignalObserver and
// LogObserver are provided.
//
// # Concurrency
//
// Adapters are immutable after New and safe for concurrent use, provided
// the transformer and filter functions they were given are. Mutating the
// maps passed to New afterwards is not supported.
//
// # Codec Providers
//
// TransformBytes accepts any Codec. Implementations are available as
// subpackages: json, yaml, msgpack, bson.
package remap

import "context"

// TransformFunc converts one value into another for the $transform operator.
// It must not modify its argument.
type TransformFunc func(value any) (any, error)

// FilterFunc decides whether the $filter operator keeps a value.
type FilterFunc func(value any) (bool, error)

// Env is the read-only evaluation context shared by every formula of an
// Adapter, including formulas of nested sub-schemas.
type Env struct {
	Transformers map[string]TransformFunc
	Filters      map[string]FilterFunc
	Dictionaries map[string]Dictionary
	Vars         map[string]any

	// Observer, if set, is notified around every formula evaluation.
	Observer Observer
}

// FormulaEvent describes one formula evaluation.
type FormulaEvent struct {
	Path     string   // Target path of the formula
	Operator Operator // Operator or formula tag (OpPath, OpSchema, OpPipeline)
	Depth    int      // Nesting depth, 0 for top-level schema keys
	Value    any      // Result value (exit only)
	Found    bool     // Whether a value was produced (exit only)
	Err      error    // Evaluation error (exit only)
}

// Observer receives formula entry and exit notifications.
// Observers are a diagnostic side channel; they cannot change results.
type Observer interface {
	FormulaEnter(ctx context.Context, ev FormulaEvent)
	FormulaExit(ctx context.Context, ev FormulaEvent)
}
