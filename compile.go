package remap

import (
	"fmt"
	"sort"
)

// program is a compiled schema: a mapping of fields or a chain of schemas.
type program interface {
	apply(e *evaluator, src any, depth int) (any, error)
	fieldCount() int
}

// mappingProgram writes one compiled formula per target path.
type mappingProgram struct {
	fields []field
}

// field pairs a target path with its compiled formula.
type field struct {
	path string
	node node
}

// chainProgram feeds each schema's output into the next.
type chainProgram struct {
	steps []program
}

// node is a compiled formula. eval returns the value destined for path,
// and whether there is one.
type node interface {
	op() Operator
	eval(e *evaluator, path string, src any, depth int) (any, bool, error)
}

type (
	pathNode      struct{ ref string }
	schemaNode    struct{ prog *mappingProgram }
	valueNode     struct{ value any }
	varNode       struct{ name string }
	lookupNode    struct{ dict Dictionary }
	transformNode struct {
		name string
		fn   TransformFunc
	}
	filterNode struct {
		name string
		fn   FilterFunc
	}
	concatNode   struct{ stages []node }
	altNode      struct{ stages []node }
	iterateNode  struct {
		from string
		prog *mappingProgram
	}
	pipelineNode struct{ stages []node }
)

func (pathNode) op() Operator      { return OpPath }
func (schemaNode) op() Operator    { return OpSchema }
func (valueNode) op() Operator     { return OpValue }
func (varNode) op() Operator       { return OpVar }
func (lookupNode) op() Operator    { return OpLookup }
func (transformNode) op() Operator { return OpTransform }
func (filterNode) op() Operator    { return OpFilter }
func (concatNode) op() Operator    { return OpConcat }
func (altNode) op() Operator       { return OpAlt }
func (iterateNode) op() Operator   { return OpIterate }
func (pipelineNode) op() Operator  { return OpPipeline }

// compileSchema compiles a sanitized schema against an environment.
// Every shape error and unknown name is reported here, once.
func compileSchema(schema any, env *Env, loc string) (program, error) {
	switch s := schema.(type) {
	case map[string]any:
		return compileMapping(s, env, loc)
	case []any:
		chain := &chainProgram{steps: make([]program, 0, len(s))}
		for i, sub := range s {
			step, err := compileSchema(sub, env, joinPath(loc, fmt.Sprintf("[%d]", i)))
			if err != nil {
				return nil, err
			}
			chain.steps = append(chain.steps, step)
		}
		return chain, nil
	default:
		return nil, newSchemaError(ErrInvalidSchemaKind, loc, "",
			fmt.Sprintf("expected mapping or sequence, got %s", kindOf(schema)))
	}
}

// compileMapping compiles fields in sorted key order so that overlapping
// target paths resolve the same way on every run.
func compileMapping(m map[string]any, env *Env, loc string) (*mappingProgram, error) {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	prog := &mappingProgram{fields: make([]field, 0, len(keys))}
	for _, key := range keys {
		n, err := compileFormula(m[key], env, joinPath(loc, key))
		if err != nil {
			return nil, err
		}
		prog.fields = append(prog.fields, field{path: key, node: n})
	}
	return prog, nil
}

func compileFormula(formula any, env *Env, loc string) (node, error) {
	switch f := formula.(type) {
	case string:
		return pathNode{ref: f}, nil
	case map[string]any:
		if !IsDirective(f) {
			prog, err := compileMapping(f, env, loc)
			if err != nil {
				return nil, err
			}
			return schemaNode{prog: prog}, nil
		}
		op, err := SelectOperator(f)
		if err != nil {
			return nil, newSchemaError(err, loc, "", fmt.Sprintf("operators %v", operatorKeys(f)))
		}
		return compileDirective(op, f, env, loc)
	case []any:
		if !IsPipeline(f) {
			return nil, newSchemaError(ErrInvalidFormula, loc, OpPipeline,
				"pipeline stages must be paths or directives")
		}
		stages, err := compileStages(f, env, loc)
		if err != nil {
			return nil, err
		}
		return pipelineNode{stages: stages}, nil
	default:
		return nil, newSchemaError(ErrInvalidFormula, loc, "",
			fmt.Sprintf("unsupported formula of kind %s", kindOf(formula)))
	}
}

func compileStages(stages []any, env *Env, loc string) ([]node, error) {
	nodes := make([]node, 0, len(stages))
	for _, stage := range stages {
		n, err := compileFormula(stage, env, loc)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, n)
	}
	return nodes, nil
}

func compileDirective(op Operator, m map[string]any, env *Env, loc string) (node, error) {
	arg := m[string(op)]
	if op != OpIterate && len(m) > 1 {
		return nil, newSchemaError(ErrInvalidOperatorArgument, loc, op, "unexpected sibling keys")
	}

	switch op {
	case OpValue:
		return valueNode{value: arg}, nil

	case OpVar:
		name, err := identifier(op, arg, loc)
		if err != nil {
			return nil, err
		}
		return varNode{name: name}, nil

	case OpLookup:
		name, err := identifier(op, arg, loc)
		if err != nil {
			return nil, err
		}
		dict, ok := env.Dictionaries[name]
		if !ok || dict == nil {
			return nil, newSchemaError(ErrUnknownDictionary, loc, op, fmt.Sprintf("%q", name))
		}
		return lookupNode{dict: dict}, nil

	case OpTransform:
		name, err := identifier(op, arg, loc)
		if err != nil {
			return nil, err
		}
		fn := env.Transformers[name]
		if fn == nil {
			return nil, newSchemaError(ErrUnknownTransformer, loc, op, fmt.Sprintf("%q", name))
		}
		return transformNode{name: name, fn: fn}, nil

	case OpFilter:
		name, err := identifier(op, arg, loc)
		if err != nil {
			return nil, err
		}
		fn := env.Filters[name]
		if fn == nil {
			return nil, newSchemaError(ErrUnknownFilter, loc, op, fmt.Sprintf("%q", name))
		}
		return filterNode{name: name, fn: fn}, nil

	case OpConcat, OpAlt:
		stages, ok := arg.([]any)
		if !ok {
			return nil, newSchemaError(ErrInvalidOperatorArgument, loc, op,
				fmt.Sprintf("expected sequence of stages, got %s", kindOf(arg)))
		}
		for _, stage := range stages {
			if !IsPipelineStage(stage) && !IsPipeline(stage) {
				return nil, newSchemaError(ErrInvalidOperatorArgument, loc, op,
					fmt.Sprintf("stage of kind %s is not a path, directive or pipeline", kindOf(stage)))
			}
		}
		nodes, err := compileStages(stages, env, loc)
		if err != nil {
			return nil, err
		}
		if op == OpConcat {
			return concatNode{stages: nodes}, nil
		}
		return altNode{stages: nodes}, nil

	case OpIterate:
		from, err := identifier(op, arg, loc)
		if err != nil {
			return nil, err
		}
		sub := make(map[string]any, len(m)-1)
		for key, formula := range m {
			if key != string(OpIterate) {
				sub[key] = formula
			}
		}
		prog, err := compileMapping(sub, env, loc)
		if err != nil {
			return nil, err
		}
		return iterateNode{from: from, prog: prog}, nil
	}

	return nil, newSchemaError(ErrNoOperatorFound, loc, op, "")
}

// identifier extracts the string argument of a named-reference operator.
func identifier(op Operator, arg any, loc string) (string, error) {
	name, ok := arg.(string)
	if !ok || name == "" {
		return "", newSchemaError(ErrInvalidOperatorArgument, loc, op,
			fmt.Sprintf("expected non-empty string identifier, got %s", kindOf(arg)))
	}
	return name, nil
}

func (p *mappingProgram) fieldCount() int {
	return len(p.fields)
}

func (c *chainProgram) fieldCount() int {
	n := 0
	for _, step := range c.steps {
		n += step.fieldCount()
	}
	return n
}
