package remap

import (
	"context"
	"maps"
	"time"
)

// Option configures the environment of an Adapter.
type Option func(*Env)

// WithTransformers adds named transformers for $transform.
func WithTransformers(fns map[string]TransformFunc) Option {
	return func(env *Env) {
		maps.Copy(env.Transformers, fns)
	}
}

// WithFilters adds named predicates for $filter.
func WithFilters(fns map[string]FilterFunc) Option {
	return func(env *Env) {
		maps.Copy(env.Filters, fns)
	}
}

// WithDictionaries adds named dictionaries for $lookup.
func WithDictionaries(dicts map[string]Dictionary) Option {
	return func(env *Env) {
		for name, dict := range dicts {
			if dict == nil {
				env.Dictionaries[name] = nil
				continue
			}
			env.Dictionaries[name] = append(Dictionary(nil), dict...)
		}
	}
}

// WithVars adds named variables for $var. Values are copied.
func WithVars(vars map[string]any) Option {
	return func(env *Env) {
		for name, v := range vars {
			env.Vars[name] = Clone(v)
		}
	}
}

// WithEnv merges every table of env and, if set, its observer.
func WithEnv(src Env) Option {
	return func(env *Env) {
		WithTransformers(src.Transformers)(env)
		WithFilters(src.Filters)(env)
		WithDictionaries(src.Dictionaries)(env)
		WithVars(src.Vars)(env)
		if src.Observer != nil {
			env.Observer = src.Observer
		}
	}
}

// WithObserver sets the formula observer.
func WithObserver(obs Observer) Option {
	return func(env *Env) {
		env.Observer = obs
	}
}

// Adapter transforms sources according to a compiled schema.
// It is immutable after New and safe for concurrent use.
type Adapter struct {
	schema     any
	schemaKind string
	prog       program
	env        *Env
}

// New sanitizes and compiles schema against the environment built from
// opts. Every schema error, including references to unknown transformers,
// filters and dictionaries, is reported here.
func New(schema any, opts ...Option) (*Adapter, error) {
	env := &Env{
		Transformers: make(map[string]TransformFunc),
		Filters:      make(map[string]FilterFunc),
		Dictionaries: make(map[string]Dictionary),
		Vars:         make(map[string]any),
	}
	for _, opt := range opts {
		opt(env)
	}

	clean, err := Sanitize(schema)
	if err != nil {
		return nil, err
	}

	prog, err := compileSchema(clean, env, "")
	if err != nil {
		return nil, err
	}

	a := &Adapter{
		schema:     clean,
		schemaKind: kindOf(clean),
		prog:       prog,
		env:        env,
	}

	emitAdapterCreated(context.Background(), a.schemaKind, prog.fieldCount())

	return a, nil
}

// Transform maps source to a freshly allocated target. The source is
// copied once and never modified. The context is passed to signals and
// the observer; evaluation itself does not block.
func (a *Adapter) Transform(ctx context.Context, source any) (any, error) {
	src := Clone(source)
	sourceKind := kindOf(src)

	start := time.Now()
	emitTransformStart(ctx, a.schemaKind, sourceKind)

	e := &evaluator{ctx: ctx, env: a.env}
	out, err := a.prog.apply(e, src, 0)

	emitTransformComplete(ctx, a.schemaKind, sourceKind, time.Since(start), err)

	if err != nil {
		return nil, err
	}
	return out, nil
}

// TransformBytes decodes data with codec, transforms it, and encodes the
// result with the same codec.
func (a *Adapter) TransformBytes(ctx context.Context, codec Codec, data []byte) ([]byte, error) {
	var source any
	if err := codec.Unmarshal(data, &source); err != nil {
		return nil, newCodecError(ErrUnmarshal, err)
	}

	out, err := a.Transform(ctx, source)
	if err != nil {
		return nil, err
	}

	encoded, err := codec.Marshal(out)
	if err != nil {
		return nil, newCodecError(ErrMarshal, err)
	}
	return encoded, nil
}

// Schema returns a copy of the sanitized schema.
func (a *Adapter) Schema() any {
	return Clone(a.schema)
}

// Env returns a shallow copy of the adapter's environment.
func (a *Adapter) Env() Env {
	return Env{
		Transformers: maps.Clone(a.env.Transformers),
		Filters:      maps.Clone(a.env.Filters),
		Dictionaries: maps.Clone(a.env.Dictionaries),
		Vars:         maps.Clone(a.env.Vars),
		Observer:     a.env.Observer,
	}
}
