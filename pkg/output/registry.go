// Package output encodes generated samples as JSON, YAML or text rendered
// from a pongo2 template.
package output

import (
	"fmt"
	"io"
	"sort"
	"sync"
)

// Encoder writes a sample, or a list of samples, to w.
type Encoder interface {
	Name() string
	Encode(w io.Writer, value any) error
}

// Registry stores encoders by name.
type Registry struct {
	mu       sync.RWMutex
	encoders map[string]Encoder
}

// NewRegistry creates an empty registry instance.
func NewRegistry() *Registry {
	return &Registry{
		encoders: make(map[string]Encoder),
	}
}

// Default returns a registry holding the json and yaml encoders.
func Default() *Registry {
	registry := NewRegistry()
	registry.MustRegister(JSON{Indent: "  "})
	registry.MustRegister(YAML{Indent: 2})
	return registry
}

// Register adds an encoder by its Name(). Duplicate names return an error.
func (r *Registry) Register(encoder Encoder) error {
	if encoder == nil {
		return fmt.Errorf("output: encoder is required")
	}
	name := encoder.Name()
	if name == "" {
		return fmt.Errorf("output: encoder name is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.encoders[name]; exists {
		return fmt.Errorf("output: encoder %q already registered", name)
	}
	r.encoders[name] = encoder
	return nil
}

// MustRegister panics on registration failure.
func (r *Registry) MustRegister(encoder Encoder) {
	if err := r.Register(encoder); err != nil {
		panic(err)
	}
}

// Get retrieves an encoder by name.
func (r *Registry) Get(name string) (Encoder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	encoder, ok := r.encoders[name]
	if !ok {
		return nil, fmt.Errorf("output: encoder %q not found", name)
	}
	return encoder, nil
}

// List returns the sorted encoder names.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.encoders))
	for name := range r.encoders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
