package container

import (
	"fmt"
	"sort"
	"strings"

	"github.com/goliatone/go-schemafaker/pkg/schema"
	"github.com/goliatone/go-schemafaker/pkg/template"
)

// Func is a callable generator. recv is the mapping the generator was reached
// through (nil for a bare callable dependency) and args are the
// template-resolved specification arguments.
type Func func(recv any, args []any) (any, error)

// Map is an unordered mapping of named sub-generators or values.
type Map map[string]any

// Get implements Mapping.
func (m Map) Get(key string) (any, bool) {
	value, ok := m[key]
	return value, ok
}

// Mapping is any dependency value that can be indexed by name. Map and
// *schema.Node satisfy it.
type Mapping = schema.Lookup

// Factory produces the next dependency value from the current one. current is
// nil on the first Extend call for a name.
type Factory func(current any) any

// Request carries the inputs of one resolver invocation.
type Request struct {
	// Value is the specification attached to the keyword.
	Value any
	// Node is the schema node that carries the keyword.
	Node *schema.Node
	// Keyword is the key as declared on the node, prefix included.
	Keyword string
	// Root is the context argument templates are resolved against.
	Root template.Context
	// State is scratch space shared by every call made through one Binding.
	State map[string]any
	// Interpolator resolves argument templates.
	Interpolator template.Interpolator
}

// Resolver turns a keyword specification into a generated value.
type Resolver func(req Request) (any, error)

// Thunk adapts a zero-argument generator to Func.
func Thunk(fn func() any) Func {
	return func(any, []any) (any, error) {
		return fn(), nil
	}
}

func asFunc(value any) (Func, bool) {
	switch typed := value.(type) {
	case Func:
		return typed, typed != nil
	case func(any, []any) (any, error):
		return typed, typed != nil
	default:
		return nil, false
	}
}

// index reads key from a mapping value. isMapping is false when value cannot
// be indexed at all.
func index(value any, key string) (out any, found bool, isMapping bool) {
	switch typed := value.(type) {
	case Mapping:
		out, found = typed.Get(key)
		return out, found, true
	case map[string]any:
		out, found = typed[key]
		return out, found, true
	default:
		return nil, false, false
	}
}

func mappingEntries(value any) (keys []string, get func(string) any, ok bool) {
	switch typed := value.(type) {
	case *schema.Node:
		if typed == nil {
			return nil, nil, false
		}
		return typed.Keys(), func(key string) any {
			out, _ := typed.Get(key)
			return out
		}, true
	case Map:
		return sortedKeys(map[string]any(typed)), func(key string) any { return typed[key] }, true
	case map[string]any:
		return sortedKeys(typed), func(key string) any { return typed[key] }, true
	default:
		return nil, nil, false
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// hasPendingCallable reports whether value is a mapping holding at least one
// callable, i.e. a backend handed back a continuation instead of a value.
func hasPendingCallable(value any) bool {
	keys, get, ok := mappingEntries(value)
	if !ok {
		return false
	}
	for _, key := range keys {
		if _, callable := asFunc(get(key)); callable {
			return true
		}
	}
	return false
}

func describe(value any) string {
	keys, get, ok := mappingEntries(value)
	if !ok {
		return fmt.Sprintf("%v", value)
	}
	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		entry := get(key)
		if _, callable := asFunc(entry); callable {
			parts = append(parts, key+": <func>")
			continue
		}
		parts = append(parts, key+": "+describe(entry))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
