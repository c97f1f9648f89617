// Package bundle loads remap environments and schemas from YAML files.
//
// A bundle names every schema, dictionary, variable, filter and
// transformer a set of adapters needs:
//
//	version: "1"
//	schemas:
//	  user:
//	    name: fullName
//	    email: [email, {$transform: mask}]
//	    country: {$lookup: countries}
//	dictionaries:
//	  countries: [[DE, Germany], ["*", Unknown]]
//	vars:
//	  source: crm
//	filters:
//	  adult: {expr: "value >= 18"}
//	  internal: {glob: "*@example.com"}
//	transformers:
//	  mask: {builtin: mask.email}
//	  shout: {expr: "upper(value) + '!'"}
//	  seal: {encrypt: {key_env: REMAP_KEY}}
//
// Expression filters and transformers are compiled once with
// expr-lang/expr. The value under evaluation is bound to "value" and the
// bundle's variables to "vars"; lookup(name, v) translates v through a
// bundle dictionary. Transformers also run when the source has no value at
// their path; value is then nil, and a nil result writes nothing.
package bundle

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/zoobzio/remap"
	"gopkg.in/yaml.v3"
)

// Version is the only bundle format version understood by this package.
const Version = "1"

// Bundle is a parsed bundle file.
type Bundle struct {
	Version      string                     `yaml:"version"`
	Schemas      map[string]any             `yaml:"schemas"`
	Dictionaries map[string][][]any         `yaml:"dictionaries,omitempty"`
	Vars         map[string]any             `yaml:"vars,omitempty"`
	Filters      map[string]FilterSpec      `yaml:"filters,omitempty"`
	Transformers map[string]TransformerSpec `yaml:"transformers,omitempty"`
}

// FilterSpec defines a named filter. Exactly one field must be set.
type FilterSpec struct {
	Expr    string `yaml:"expr,omitempty"`    // expression yielding a bool
	Glob    string `yaml:"glob,omitempty"`    // doublestar pattern matched against text values
	Builtin string `yaml:"builtin,omitempty"` // name from builtin.Filters
}

// TransformerSpec defines a named transformer. Exactly one field must be set.
type TransformerSpec struct {
	Expr    string   `yaml:"expr,omitempty"`
	Builtin string   `yaml:"builtin,omitempty"` // name from builtin.Transformers
	Encrypt *KeySpec `yaml:"encrypt,omitempty"`
	Decrypt *KeySpec `yaml:"decrypt,omitempty"`
}

// KeySpec locates an AES key. The key is read from the environment
// variable KeyEnv as standard base64.
type KeySpec struct {
	KeyEnv   string `yaml:"key_env"`
	Envelope bool   `yaml:"envelope,omitempty"`
}

// LoadFile loads and parses a bundle file from the given path.
func LoadFile(path string) (*Bundle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read bundle %s: %w", path, err)
	}

	return Parse(data)
}

// Parse parses YAML data into a Bundle and validates it.
func Parse(data []byte) (*Bundle, error) {
	var b Bundle

	if err := yaml.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("failed to parse bundle YAML: %w", err)
	}

	applyDefaults(&b)

	if err := b.Validate(); err != nil {
		return nil, err
	}

	return &b, nil
}

// applyDefaults fills in default values for optional fields.
func applyDefaults(b *Bundle) {
	if b.Version == "" {
		b.Version = Version
	}

	if b.Schemas == nil {
		b.Schemas = map[string]any{}
	}
}

// Validate checks the bundle's structure. Schemas themselves are checked
// when they are compiled. Every problem found is reported.
func (b *Bundle) Validate() error {
	var errs []error

	if b.Version != Version {
		errs = append(errs, fmt.Errorf("unsupported bundle version %q", b.Version))
	}

	for _, name := range sortedKeys(b.Dictionaries) {
		if _, err := remap.NewDictionary(b.Dictionaries[name]); err != nil {
			errs = append(errs, fmt.Errorf("dictionary %q: %w", name, err))
		}
	}

	for _, name := range sortedKeys(b.Filters) {
		if n := b.Filters[name].kinds(); n != 1 {
			errs = append(errs, fmt.Errorf("filter %q: %d kinds set, want exactly one of expr, glob, builtin", name, n))
		}
	}

	for _, name := range sortedKeys(b.Transformers) {
		spec := b.Transformers[name]
		if n := spec.kinds(); n != 1 {
			errs = append(errs, fmt.Errorf("transformer %q: %d kinds set, want exactly one of expr, builtin, encrypt, decrypt", name, n))
			continue
		}
		for _, key := range []*KeySpec{spec.Encrypt, spec.Decrypt} {
			if key != nil && key.KeyEnv == "" {
				errs = append(errs, fmt.Errorf("transformer %q: key_env is required", name))
			}
		}
	}

	return errors.Join(errs...)
}

func (s FilterSpec) kinds() int {
	return count(s.Expr != "", s.Glob != "", s.Builtin != "")
}

func (s TransformerSpec) kinds() int {
	return count(s.Expr != "", s.Builtin != "", s.Encrypt != nil, s.Decrypt != nil)
}

func count(set ...bool) int {
	n := 0
	for _, ok := range set {
		if ok {
			n++
		}
	}
	return n
}

// Env builds the remap environment the bundle describes.
func (b *Bundle) Env() (remap.Env, error) {
	env := remap.Env{
		Transformers: make(map[string]remap.TransformFunc, len(b.Transformers)),
		Filters:      make(map[string]remap.FilterFunc, len(b.Filters)),
		Dictionaries: make(map[string]remap.Dictionary, len(b.Dictionaries)),
		Vars:         b.Vars,
	}

	for name, rows := range b.Dictionaries {
		dict, err := remap.NewDictionary(rows)
		if err != nil {
			return remap.Env{}, fmt.Errorf("dictionary %q: %w", name, err)
		}
		env.Dictionaries[name] = dict
	}

	fns := newFuncs(env.Dictionaries, b.Vars)

	for _, name := range sortedKeys(b.Filters) {
		fn, err := fns.filter(b.Filters[name])
		if err != nil {
			return remap.Env{}, fmt.Errorf("filter %q: %w", name, err)
		}
		env.Filters[name] = fn
	}

	for _, name := range sortedKeys(b.Transformers) {
		fn, err := fns.transformer(b.Transformers[name])
		if err != nil {
			return remap.Env{}, fmt.Errorf("transformer %q: %w", name, err)
		}
		env.Transformers[name] = fn
	}

	return env, nil
}

// Catalog compiles every schema of the bundle into a catalog. opts are
// applied after the bundle's own environment.
func (b *Bundle) Catalog(opts ...remap.Option) (*remap.Catalog, error) {
	env, err := b.Env()
	if err != nil {
		return nil, err
	}

	c := remap.NewCatalog(append([]remap.Option{remap.WithEnv(env)}, opts...)...)

	var errs []error
	for _, name := range sortedKeys(b.Schemas) {
		if _, err := c.Register(name, b.Schemas[name]); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	return c, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
