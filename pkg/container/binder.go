package container

import (
	"strings"
	"sync"

	"github.com/goliatone/go-schemafaker/pkg/schema"
	"github.com/goliatone/go-schemafaker/pkg/template"
)

// ReservedPrefix is stripped from schema keys before matching keywords, so
// both "x-internet" and "internet" select the internet keyword.
const ReservedPrefix = "x-"

// Binder attaches generation capabilities to schema nodes. Bindings live in a
// side table keyed by node identity; the caller's nodes are never modified.
// Create one Binder per input schema and drop it with the schema.
type Binder struct {
	container *Container

	mu    sync.Mutex
	bound map[*schema.Node]*Binding
}

func newBinder(c *Container) *Binder {
	return &Binder{
		container: c,
		bound:     make(map[*schema.Node]*Binding),
	}
}

// Wrap returns the Binding for node, or nil when none of its keys names a
// registered keyword. Keys are scanned from last declared to first, and the
// first hit wins: with {"x-a": .., "x-b": ..} and both keywords registered,
// "x-b" is bound. Once bound, a node keeps its Binding for the life of the
// Binder, even if the container changes.
func (b *Binder) Wrap(node *schema.Node) *Binding {
	if b == nil || node == nil {
		return nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if existing, ok := b.bound[node]; ok {
		return existing
	}

	keys := node.Keys()
	for idx := len(keys) - 1; idx >= 0; idx-- {
		key := keys[idx]
		name := strings.TrimPrefix(key, ReservedPrefix)
		resolver, ok := b.container.resolver(name)
		if !ok {
			continue
		}
		binding := &Binding{
			node:         node,
			key:          key,
			keyword:      name,
			resolver:     resolver,
			state:        make(map[string]any),
			interpolator: b.container.interpolator,
		}
		b.bound[node] = binding
		return binding
	}
	return nil
}

// Binding is the generation capability attached to one schema node.
// Generate calls on one Binding share its State, so a Binding is not safe
// for concurrent use.
type Binding struct {
	node         *schema.Node
	key          string
	keyword      string
	resolver     Resolver
	state        map[string]any
	interpolator template.Interpolator
}

// Node returns the bound schema node.
func (b *Binding) Node() *schema.Node {
	return b.node
}

// Key returns the matched key as declared, e.g. "x-net".
func (b *Binding) Key() string {
	return b.key
}

// Keyword returns the matched keyword without the reserved prefix.
func (b *Binding) Keyword() string {
	return b.keyword
}

// Generate runs the bound resolver with the node's specification and the
// root context used for argument templates.
func (b *Binding) Generate(root template.Context) (any, error) {
	value, _ := b.node.Get(b.key)
	return b.resolver(Request{
		Value:        value,
		Node:         b.node,
		Keyword:      b.key,
		Root:         root,
		State:        b.state,
		Interpolator: b.interpolator,
	})
}
