package remap

import (
	"context"
	"fmt"
)

// evaluator carries the per-call state shared by every node of one
// Transform. It is never retained after the call returns.
type evaluator struct {
	ctx context.Context
	env *Env
}

// run evaluates n, bracketing it with observer callbacks when an
// observer is configured.
func (e *evaluator) run(n node, path string, src any, depth int) (any, bool, error) {
	obs := e.env.Observer
	if obs == nil {
		return n.eval(e, path, src, depth)
	}

	obs.FormulaEnter(e.ctx, FormulaEvent{Path: path, Operator: n.op(), Depth: depth})
	v, ok, err := n.eval(e, path, src, depth)
	obs.FormulaExit(e.ctx, FormulaEvent{
		Path:     path,
		Operator: n.op(),
		Depth:    depth,
		Value:    v,
		Found:    ok,
		Err:      err,
	})
	return v, ok, err
}

// apply maps a mapping source to a fresh target, or a sequence source to
// a sequence of fresh targets.
func (p *mappingProgram) apply(e *evaluator, src any, depth int) (any, error) {
	switch s := src.(type) {
	case map[string]any:
		return p.applyObject(e, s, depth)
	case []any:
		return p.applyEach(e, s, depth)
	default:
		return nil, newEvalError(ErrUnsupportedSourceKind, "", OpSchema,
			fmt.Errorf("mapping schema applied to %s", kindOf(src)))
	}
}

// applyObject evaluates every field against src and writes found values.
// src may be of any kind; paths that do not resolve are simply not found.
func (p *mappingProgram) applyObject(e *evaluator, src any, depth int) (map[string]any, error) {
	target := make(map[string]any, len(p.fields))
	for _, f := range p.fields {
		v, ok, err := e.run(f.node, f.path, src, depth)
		if err != nil {
			return nil, err
		}
		if ok {
			Set(target, f.path, v)
		}
	}
	return target, nil
}

func (p *mappingProgram) applyEach(e *evaluator, items []any, depth int) ([]any, error) {
	out := make([]any, len(items))
	for i, item := range items {
		target, err := p.applyObject(e, item, depth)
		if err != nil {
			return nil, err
		}
		out[i] = target
	}
	return out, nil
}

// apply threads the source through every schema of the chain.
func (c *chainProgram) apply(e *evaluator, src any, depth int) (any, error) {
	if len(c.steps) == 0 {
		return map[string]any{}, nil
	}
	cur := src
	for _, step := range c.steps {
		out, err := step.apply(e, cur, depth)
		if err != nil {
			return nil, err
		}
		cur = out
	}
	return cur, nil
}

func (n pathNode) eval(_ *evaluator, _ string, src any, _ int) (any, bool, error) {
	v, ok := Get(src, n.ref)
	if !ok {
		return nil, false, nil
	}
	return Clone(v), true, nil
}

func (n schemaNode) eval(e *evaluator, _ string, src any, depth int) (any, bool, error) {
	v, err := n.prog.apply(e, src, depth+1)
	if err != nil {
		return nil, false, err
	}
	return v, true, nil
}

func (n valueNode) eval(_ *evaluator, _ string, _ any, _ int) (any, bool, error) {
	return Clone(n.value), true, nil
}

func (n varNode) eval(e *evaluator, _ string, _ any, _ int) (any, bool, error) {
	v, ok := e.env.Vars[n.name]
	if !ok {
		return nil, false, nil
	}
	return Clone(v), true, nil
}

func (n lookupNode) eval(_ *evaluator, path string, src any, _ int) (any, bool, error) {
	v, ok := Get(src, path)
	out, ok := n.dict.Lookup(v, ok)
	if !ok {
		return nil, false, nil
	}
	return Clone(out), true, nil
}

// eval calls the transformer even when path holds no value, passing nil.
// A nil result for a missing input writes nothing.
func (n transformNode) eval(_ *evaluator, path string, src any, _ int) (any, bool, error) {
	v, found := Get(src, path)
	out, err := n.fn(v)
	if err != nil {
		return nil, false, newEvalError(ErrTransform, path, OpTransform,
			fmt.Errorf("%s: %w", n.name, err))
	}
	if !found && out == nil {
		return nil, false, nil
	}
	return Clone(out), true, nil
}

func (n filterNode) eval(_ *evaluator, path string, src any, _ int) (any, bool, error) {
	v, ok := Get(src, path)
	if !ok {
		return nil, false, nil
	}
	keep, err := n.fn(v)
	if err != nil {
		return nil, false, newEvalError(ErrFilter, path, OpFilter,
			fmt.Errorf("%s: %w", n.name, err))
	}
	if !keep {
		return nil, false, nil
	}
	return Clone(v), true, nil
}

// eval always yields one slot per stage; missing stage values become nil.
func (n concatNode) eval(e *evaluator, path string, src any, depth int) (any, bool, error) {
	out := make([]any, len(n.stages))
	for i, stage := range n.stages {
		v, _, err := e.run(stage, path, src, depth+1)
		if err != nil {
			return nil, false, err
		}
		out[i] = v
	}
	return out, true, nil
}

// eval returns the first stage value that is present and non-nil.
// Zero values such as 0, "" and false count as present.
func (n altNode) eval(e *evaluator, path string, src any, depth int) (any, bool, error) {
	for _, stage := range n.stages {
		v, ok, err := e.run(stage, path, src, depth+1)
		if err != nil {
			return nil, false, err
		}
		if ok && v != nil {
			return v, true, nil
		}
	}
	return nil, false, nil
}

func (n iterateNode) eval(e *evaluator, path string, src any, depth int) (any, bool, error) {
	v, _ := Get(src, n.from)
	items, ok := v.([]any)
	if !ok {
		return nil, false, newEvalError(ErrExpectedArraySource, path, OpIterate,
			fmt.Errorf("%q is %s", n.from, kindOf(v)))
	}
	out, err := n.prog.applyEach(e, items, depth+1)
	if err != nil {
		return nil, false, err
	}
	return out, true, nil
}

// eval feeds each stage's value, stored under path in a scratch mapping,
// to the next stage as its source.
func (n pipelineNode) eval(e *evaluator, path string, src any, depth int) (any, bool, error) {
	if len(n.stages) == 0 {
		v, ok := Get(src, path)
		if !ok {
			return nil, false, nil
		}
		return Clone(v), true, nil
	}

	cur := src
	for _, stage := range n.stages {
		v, ok, err := e.run(stage, path, cur, depth+1)
		if err != nil {
			return nil, false, err
		}
		scratch := make(map[string]any, 1)
		if ok {
			Set(scratch, path, v)
		}
		cur = scratch
	}
	v, ok := Get(cur, path)
	return v, ok, nil
}
