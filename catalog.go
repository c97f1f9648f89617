package remap

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Catalog is a named set of compiled adapters sharing one environment.
// It is safe for concurrent use.
type Catalog struct {
	mu       sync.RWMutex
	adapters map[string]*Adapter
	opts     []Option
}

// NewCatalog creates an empty catalog. opts are applied to every adapter
// compiled by Register.
func NewCatalog(opts ...Option) *Catalog {
	return &Catalog{
		adapters: make(map[string]*Adapter),
		opts:     opts,
	}
}

// Register compiles schema and stores it under name, replacing any
// adapter already registered there.
func (c *Catalog) Register(name string, schema any) (*Adapter, error) {
	adapter, err := New(schema, c.opts...)
	if err != nil {
		return nil, fmt.Errorf("schema %q: %w", name, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.adapters[name] = adapter
	return adapter, nil
}

// Get returns the adapter registered under name.
func (c *Catalog) Get(name string) (*Adapter, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	adapter, ok := c.adapters[name]
	return adapter, ok
}

// Names returns the registered names in sorted order.
func (c *Catalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.adapters))
	for name := range c.adapters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Transform runs the adapter registered under name.
func (c *Catalog) Transform(ctx context.Context, name string, source any) (any, error) {
	adapter, ok := c.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSchema, name)
	}
	return adapter.Transform(ctx, source)
}

// Reset removes every registered adapter.
// This is primarily useful for test isolation.
func (c *Catalog) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.adapters = make(map[string]*Adapter)
}
