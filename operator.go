package remap

import "sort"

// Operator names a directive key in a formula mapping.
// Use these constants as keys in schemas: {"$lookup": "gender"}
type Operator string

const (
	// OpValue writes its argument verbatim.
	OpValue Operator = "$value"

	// OpVar writes a named variable from the environment.
	OpVar Operator = "$var"

	// OpLookup translates the value at the target path through a dictionary.
	OpLookup Operator = "$lookup"

	// OpTransform applies a named transformer to the value at the target path.
	OpTransform Operator = "$transform"

	// OpConcat collects the results of several stages into a sequence.
	OpConcat Operator = "$concat"

	// OpAlt writes the first present result of several stages.
	OpAlt Operator = "$alt"

	// OpFilter keeps the value at the target path when a named predicate holds.
	OpFilter Operator = "$filter"

	// OpIterate maps its sibling keys over every element of a source sequence.
	OpIterate Operator = "$iterate"
)

// Tags reported for formulas that are not directives. They never appear
// as schema keys.
const (
	// OpPath is a plain path reference formula.
	OpPath Operator = "path"

	// OpSchema is a nested sub-schema formula.
	OpSchema Operator = "schema"

	// OpPipeline is a sequence of stages.
	OpPipeline Operator = "pipeline"
)

// validOperators contains the closed set of directive keys.
var validOperators = map[Operator]bool{
	OpValue:     true,
	OpVar:       true,
	OpLookup:    true,
	OpTransform: true,
	OpConcat:    true,
	OpAlt:       true,
	OpFilter:    true,
	OpIterate:   true,
}

// IsValidOperator returns true if the key is a recognized directive key.
func IsValidOperator(key string) bool {
	return validOperators[Operator(key)]
}

// IsDirective reports whether a formula is a path reference or a mapping
// holding at least one operator key.
func IsDirective(formula any) bool {
	switch f := formula.(type) {
	case string:
		return true
	case map[string]any:
		for key := range f {
			if IsValidOperator(key) {
				return true
			}
		}
	}
	return false
}

// IsPipelineStage reports whether a formula may appear as a pipeline stage.
func IsPipelineStage(formula any) bool {
	return IsDirective(formula)
}

// IsPipeline reports whether a formula is a sequence of pipeline stages.
// An empty sequence is a pipeline.
func IsPipeline(formula any) bool {
	stages, ok := formula.([]any)
	if !ok {
		return false
	}
	for _, stage := range stages {
		if !IsPipelineStage(stage) {
			return false
		}
	}
	return true
}

// SelectOperator returns the operator of a directive. Path references
// report OpPath.
func SelectOperator(formula any) (Operator, error) {
	switch f := formula.(type) {
	case string:
		return OpPath, nil
	case map[string]any:
		found := operatorKeys(f)
		switch len(found) {
		case 0:
			return "", ErrNoOperatorFound
		case 1:
			return found[0], nil
		default:
			return "", ErrAmbiguousFormula
		}
	default:
		return "", ErrInvalidFormula
	}
}

// operatorKeys returns the operator keys of a mapping in sorted order.
func operatorKeys(m map[string]any) []Operator {
	var found []Operator
	for key := range m {
		if IsValidOperator(key) {
			found = append(found, Operator(key))
		}
	}
	sort.Slice(found, func(i, j int) bool { return found[i] < found[j] })
	return found
}
