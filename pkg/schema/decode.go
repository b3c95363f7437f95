package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Decode parses a JSON or YAML payload into ordered values: objects become
// *Node, arrays []any, and scalars string, int, float64, bool or nil.
func Decode(raw []byte) (any, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, errors.New("schema: raw document is empty")
	}
	if trimmed[0] == '{' || trimmed[0] == '[' {
		if decoded, err := decodeJSON(trimmed); err == nil {
			return decoded, nil
		}
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(trimmed, &doc); err != nil {
		return nil, fmt.Errorf("schema: parse document: %w", err)
	}
	return fromYAML(&doc)
}

// DecodeNode parses a payload whose top level must be an object.
func DecodeNode(raw []byte) (*Node, error) {
	decoded, err := Decode(raw)
	if err != nil {
		return nil, err
	}
	node, ok := decoded.(*Node)
	if !ok {
		return nil, fmt.Errorf("schema: document root is %T, want object", decoded)
	}
	return node, nil
}

func decodeJSON(raw []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	value, err := decodeJSONValue(dec)
	if err != nil {
		return nil, fmt.Errorf("schema: parse json: %w", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("schema: parse json: trailing data after document")
	}
	return value, nil
}

func decodeJSONValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	switch typed := tok.(type) {
	case json.Delim:
		switch typed {
		case '{':
			node := NewNode()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, fmt.Errorf("unexpected object key %v", keyTok)
				}
				value, err := decodeJSONValue(dec)
				if err != nil {
					return nil, err
				}
				node.Set(key, value)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return node, nil
		case '[':
			items := make([]any, 0)
			for dec.More() {
				value, err := decodeJSONValue(dec)
				if err != nil {
					return nil, err
				}
				items = append(items, value)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return items, nil
		default:
			return nil, fmt.Errorf("unexpected delimiter %q", rune(typed))
		}
	case json.Number:
		return numberValue(typed.String())
	default:
		// string, bool, nil
		return typed, nil
	}
}

func numberValue(raw string) (any, error) {
	if !strings.ContainsAny(raw, ".eE") {
		if parsed, err := strconv.ParseInt(raw, 10, 64); err == nil {
			if parsed >= math.MinInt && parsed <= math.MaxInt {
				return int(parsed), nil
			}
		}
	}
	parsed, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid number %q: %w", raw, err)
	}
	return parsed, nil
}

func fromYAML(node *yaml.Node) (any, error) {
	if node == nil {
		return nil, nil
	}
	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return nil, nil
		}
		return fromYAML(node.Content[0])
	case yaml.MappingNode:
		out := NewNode()
		for i := 0; i+1 < len(node.Content); i += 2 {
			keyNode, valueNode := node.Content[i], node.Content[i+1]
			if keyNode.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("schema: line %d: mapping key must be a scalar", keyNode.Line)
			}
			value, err := fromYAML(valueNode)
			if err != nil {
				return nil, err
			}
			out.Set(keyNode.Value, value)
		}
		return out, nil
	case yaml.SequenceNode:
		items := make([]any, 0, len(node.Content))
		for _, child := range node.Content {
			value, err := fromYAML(child)
			if err != nil {
				return nil, err
			}
			items = append(items, value)
		}
		return items, nil
	case yaml.AliasNode:
		return fromYAML(node.Alias)
	case yaml.ScalarNode:
		var value any
		if err := node.Decode(&value); err != nil {
			return nil, fmt.Errorf("schema: line %d: %w", node.Line, err)
		}
		return value, nil
	default:
		return nil, fmt.Errorf("schema: line %d: unsupported yaml node kind %d", node.Line, node.Kind)
	}
}

// Pick walks a dotted keypath through nodes and slices, e.g. "items.0.name".
func Pick(value any, keypath string) (any, bool) {
	out := value
	if keypath == "" {
		return out, true
	}
	for _, segment := range strings.Split(keypath, ".") {
		switch typed := out.(type) {
		case Lookup:
			next, ok := typed.Get(segment)
			if !ok {
				return nil, false
			}
			out = next
		case map[string]any:
			next, ok := typed[segment]
			if !ok {
				return nil, false
			}
			out = next
		case []any:
			idx, err := strconv.Atoi(segment)
			if err != nil || idx < 0 || idx >= len(typed) {
				return nil, false
			}
			out = typed[idx]
		default:
			return nil, false
		}
	}
	return out, true
}
