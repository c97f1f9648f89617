package remap

import (
	"errors"
	"fmt"
)

// Sentinel errors for programmatic error handling.
// Use errors.Is() to check for these error types.
var (
	// ErrInvalidSchemaKind indicates a schema that is neither a mapping nor a sequence.
	ErrInvalidSchemaKind = errors.New("invalid schema kind")

	// ErrUnsafeSchemaKey indicates a schema key starting with constructor, prototype or __proto__.
	ErrUnsafeSchemaKey = errors.New("unsafe schema key")

	// ErrInvalidFormula indicates a formula matching none of the recognized forms.
	ErrInvalidFormula = errors.New("invalid formula")

	// ErrAmbiguousFormula indicates a directive with more than one operator key.
	ErrAmbiguousFormula = errors.New("ambiguous formula")

	// ErrNoOperatorFound indicates a directive without any operator key.
	ErrNoOperatorFound = errors.New("no operator found")

	// ErrUnknownTransformer indicates a $transform name missing from the environment.
	ErrUnknownTransformer = errors.New("unknown transformer")

	// ErrUnknownFilter indicates a $filter name missing from the environment.
	ErrUnknownFilter = errors.New("unknown filter")

	// ErrUnknownDictionary indicates a $lookup name missing from the environment.
	ErrUnknownDictionary = errors.New("unknown dictionary")

	// ErrInvalidOperatorArgument indicates an operator argument of the wrong shape.
	ErrInvalidOperatorArgument = errors.New("invalid operator argument")

	// ErrExpectedArraySource indicates an $iterate path that does not resolve to a sequence.
	// It matches ErrInvalidOperatorArgument as well.
	ErrExpectedArraySource = fmt.Errorf("%w: expected array source", ErrInvalidOperatorArgument)

	// ErrUnsupportedSourceKind indicates a mapping schema applied to a scalar source.
	ErrUnsupportedSourceKind = errors.New("unsupported source kind")

	// ErrUnknownSchema indicates a catalog name with no registered adapter.
	ErrUnknownSchema = errors.New("unknown schema")

	// ErrTransform indicates a transformer function returned an error.
	ErrTransform = errors.New("transform failed")

	// ErrFilter indicates a filter predicate returned an error.
	ErrFilter = errors.New("filter failed")

	// ErrUnmarshal indicates the codec failed to unmarshal input data.
	ErrUnmarshal = errors.New("unmarshal failed")

	// ErrMarshal indicates the codec failed to marshal output data.
	ErrMarshal = errors.New("marshal failed")
)

// SchemaError represents a problem found while sanitizing or compiling a schema.
// It wraps a sentinel error with the schema location that triggered it.
type SchemaError struct {
	Err      error    // Underlying sentinel error (ErrInvalidFormula, etc.)
	Path     string   // Target path of the offending formula, empty for the schema root
	Operator Operator // Operator involved, if any
	Detail   string   // Human-readable detail
}

func (e *SchemaError) Error() string {
	msg := e.Err.Error()
	if e.Operator != "" {
		msg = fmt.Sprintf("%s %s", e.Operator, msg)
	}
	if e.Path != "" {
		msg = fmt.Sprintf("%s at %q", msg, e.Path)
	}
	if e.Detail != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Detail)
	}
	return msg
}

func (e *SchemaError) Unwrap() error {
	return e.Err
}

// EvalError represents a failure while evaluating a compiled formula.
type EvalError struct {
	Err      error    // Underlying sentinel error (ErrTransform, ErrExpectedArraySource, etc.)
	Path     string   // Target path being evaluated
	Operator Operator // Operator being evaluated
	Cause    error    // Original error from a caller-supplied function
}

func (e *EvalError) Error() string {
	msg := e.Err.Error()
	if e.Operator != "" {
		msg = fmt.Sprintf("%s %s", e.Operator, msg)
	}
	if e.Path != "" {
		msg = fmt.Sprintf("%s at %q", msg, e.Path)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *EvalError) Unwrap() error {
	return e.Err
}

// CodecError represents a marshal/unmarshal error.
type CodecError struct {
	Err   error // Underlying sentinel error (ErrMarshal, ErrUnmarshal)
	Cause error // Original error from the codec
}

func (e *CodecError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Err.Error(), e.Cause)
	}
	return e.Err.Error()
}

func (e *CodecError) Unwrap() error {
	return e.Err
}

// newSchemaError creates a SchemaError for construction-time failures.
func newSchemaError(sentinel error, path string, op Operator, detail string) error {
	return &SchemaError{
		Err:      sentinel,
		Path:     path,
		Operator: op,
		Detail:   detail,
	}
}

// newEvalError creates an EvalError for evaluation failures.
func newEvalError(sentinel error, path string, op Operator, cause error) error {
	return &EvalError{
		Err:      sentinel,
		Path:     path,
		Operator: op,
		Cause:    cause,
	}
}

// newCodecError creates a CodecError for marshal/unmarshal failures.
func newCodecError(sentinel error, cause error) error {
	return &CodecError{
		Err:   sentinel,
		Cause: cause,
	}
}
