package schema

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Lookup is the flat key lookup shared by schema nodes and generator
// dependencies.
type Lookup interface {
	Get(key string) (any, bool)
}

// Node is a mapping that remembers the order in which its keys were declared.
// Keyword binding and specification parsing depend on that order, which plain
// Go maps do not keep.
type Node struct {
	keys   []string
	values map[string]any
}

// Ensure Node satisfies the lookup contract used by generators and templates.
var _ Lookup = (*Node)(nil)

// NewNode returns an empty node.
func NewNode() *Node {
	return &Node{values: make(map[string]any)}
}

// NodeOf builds a node from alternating key/value pairs. It panics on an odd
// argument count or a non-string key; intended for tests and literals.
func NodeOf(pairs ...any) *Node {
	if len(pairs)%2 != 0 {
		panic("schema: NodeOf requires key/value pairs")
	}
	node := NewNode()
	for i := 0; i < len(pairs); i += 2 {
		key, ok := pairs[i].(string)
		if !ok {
			panic(fmt.Sprintf("schema: NodeOf key %d is %T, want string", i/2, pairs[i]))
		}
		node.Set(key, pairs[i+1])
	}
	return node
}

// Get returns the value stored under key.
func (n *Node) Get(key string) (any, bool) {
	if n == nil || n.values == nil {
		return nil, false
	}
	value, ok := n.values[key]
	return value, ok
}

// Set stores value under key. New keys are appended to the declaration order;
// existing keys keep their position.
func (n *Node) Set(key string, value any) {
	if n.values == nil {
		n.values = make(map[string]any)
	}
	if _, exists := n.values[key]; !exists {
		n.keys = append(n.keys, key)
	}
	n.values[key] = value
}

// Delete removes key, preserving the order of the remaining keys.
func (n *Node) Delete(key string) {
	if n == nil || n.values == nil {
		return
	}
	if _, exists := n.values[key]; !exists {
		return
	}
	delete(n.values, key)
	for idx, candidate := range n.keys {
		if candidate == key {
			n.keys = append(n.keys[:idx], n.keys[idx+1:]...)
			break
		}
	}
}

// Keys returns a copy of the keys in declaration order.
func (n *Node) Keys() []string {
	if n == nil {
		return nil
	}
	return append([]string(nil), n.keys...)
}

// Len reports the number of keys.
func (n *Node) Len() int {
	if n == nil {
		return 0
	}
	return len(n.keys)
}

// Range calls fn for each entry in declaration order until fn returns false.
func (n *Node) Range(fn func(key string, value any) bool) {
	if n == nil {
		return
	}
	for _, key := range n.keys {
		if !fn(key, n.values[key]) {
			return
		}
	}
}

// MarshalJSON encodes the node as a JSON object in declaration order.
func (n *Node) MarshalJSON() ([]byte, error) {
	if n == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for idx, key := range n.keys {
		if idx > 0 {
			buf.WriteByte(',')
		}
		if err := writeJSON(&buf, key); err != nil {
			return nil, err
		}
		buf.WriteByte(':')
		if err := writeJSON(&buf, n.values[key]); err != nil {
			return nil, fmt.Errorf("schema: encode %q: %w", key, err)
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// writeJSON appends the encoding of value without escaping HTML characters;
// callers that want escaping get it from the outer encoder.
func writeJSON(buf *bytes.Buffer, value any) error {
	var scratch bytes.Buffer
	enc := json.NewEncoder(&scratch)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(value); err != nil {
		return err
	}
	buf.Write(bytes.TrimRight(scratch.Bytes(), "\n"))
	return nil
}

// UnmarshalJSON decodes a JSON object keeping key order.
func (n *Node) UnmarshalJSON(data []byte) error {
	decoded, err := decodeJSON(data)
	if err != nil {
		return err
	}
	node, ok := decoded.(*Node)
	if !ok {
		return fmt.Errorf("schema: expected object, got %T", decoded)
	}
	*n = *node
	return nil
}

// MarshalYAML encodes the node as a YAML mapping in declaration order.
func (n *Node) MarshalYAML() (any, error) {
	out := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	if n == nil {
		return out, nil
	}
	for _, key := range n.keys {
		keyNode := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key}
		valueNode := &yaml.Node{}
		if err := valueNode.Encode(n.values[key]); err != nil {
			return nil, fmt.Errorf("schema: encode %q: %w", key, err)
		}
		out.Content = append(out.Content, keyNode, valueNode)
	}
	return out, nil
}

// UnmarshalYAML decodes a YAML mapping keeping key order.
func (n *Node) UnmarshalYAML(value *yaml.Node) error {
	decoded, err := fromYAML(value)
	if err != nil {
		return err
	}
	node, ok := decoded.(*Node)
	if !ok {
		return fmt.Errorf("schema: expected mapping, got %T", decoded)
	}
	*n = *node
	return nil
}
