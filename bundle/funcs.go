package bundle

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/zoobzio/remap"
	"github.com/zoobzio/remap/builtin"
)

// Errors returned while building bundle functions.
var (
	ErrUnknownBuiltin = errors.New("unknown builtin")
	ErrMissingKey     = errors.New("missing key")
	ErrNotBool        = errors.New("expression did not return a bool")
)

// funcs builds filter and transformer functions for one bundle.
type funcs struct {
	dicts map[string]remap.Dictionary
	vars  map[string]any
}

func newFuncs(dicts map[string]remap.Dictionary, vars map[string]any) *funcs {
	return &funcs{dicts: dicts, vars: vars}
}

func (f *funcs) filter(spec FilterSpec) (remap.FilterFunc, error) {
	switch {
	case spec.Expr != "":
		prg, err := f.compile(spec.Expr)
		if err != nil {
			return nil, err
		}
		return func(v any) (bool, error) {
			out, err := f.run(prg, v)
			if err != nil {
				return false, err
			}
			keep, ok := out.(bool)
			if !ok {
				return false, fmt.Errorf("%w: got %T", ErrNotBool, out)
			}
			return keep, nil
		}, nil

	case spec.Glob != "":
		if !doublestar.ValidatePattern(spec.Glob) {
			return nil, fmt.Errorf("invalid glob %q: %w", spec.Glob, doublestar.ErrBadPattern)
		}
		pattern := spec.Glob
		return func(v any) (bool, error) {
			s, ok := v.(string)
			if !ok {
				return false, nil
			}
			return doublestar.Match(pattern, s)
		}, nil

	default:
		fn, ok := builtin.Filters()[spec.Builtin]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownBuiltin, spec.Builtin)
		}
		return fn, nil
	}
}

func (f *funcs) transformer(spec TransformerSpec) (remap.TransformFunc, error) {
	switch {
	case spec.Expr != "":
		prg, err := f.compile(spec.Expr)
		if err != nil {
			return nil, err
		}
		return func(v any) (any, error) {
			return f.run(prg, v)
		}, nil

	case spec.Encrypt != nil:
		enc, err := encryptor(spec.Encrypt)
		if err != nil {
			return nil, err
		}
		return builtin.Encrypt(enc), nil

	case spec.Decrypt != nil:
		enc, err := encryptor(spec.Decrypt)
		if err != nil {
			return nil, err
		}
		return builtin.Decrypt(enc), nil

	default:
		fn, ok := builtin.Transformers()[spec.Builtin]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownBuiltin, spec.Builtin)
		}
		return fn, nil
	}
}

// compile compiles an expression against the evaluation environment.
func (f *funcs) compile(src string) (*vm.Program, error) {
	prg, err := expr.Compile(src, f.options()...)
	if err != nil {
		return nil, fmt.Errorf("failed to compile expression %q: %w", src, err)
	}
	return prg, nil
}

func (f *funcs) run(prg *vm.Program, v any) (any, error) {
	return expr.Run(prg, map[string]any{
		"value": v,
		"vars":  f.vars,
	})
}

func (f *funcs) options() []expr.Option {
	return []expr.Option{
		expr.Env(map[string]any{"vars": map[string]any{}}),
		expr.AllowUndefinedVariables(),
		expr.Function("lookup", func(params ...any) (any, error) {
			name, ok := params[0].(string)
			if !ok {
				return nil, fmt.Errorf("lookup: dictionary name must be a string, got %T", params[0])
			}
			dict, ok := f.dicts[name]
			if !ok {
				return nil, fmt.Errorf("lookup: %w: %q", remap.ErrUnknownDictionary, name)
			}
			out, _ := dict.Lookup(params[1], true)
			return out, nil
		}, new(func(string, any) any)),
	}
}

// encryptor reads a base64 AES key from the environment.
func encryptor(spec *KeySpec) (builtin.Encryptor, error) {
	raw, ok := os.LookupEnv(spec.KeyEnv)
	if !ok || raw == "" {
		return nil, fmt.Errorf("%w: $%s is not set", ErrMissingKey, spec.KeyEnv)
	}
	key, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to decode $%s: %w", spec.KeyEnv, err)
	}
	if spec.Envelope {
		return builtin.Envelope(key)
	}
	return builtin.AES(key)
}
