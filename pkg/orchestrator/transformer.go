package orchestrator

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/goliatone/go-schemafaker/pkg/schema"
)

// Transformer rewrites generated samples before validation and encoding.
type Transformer interface {
	Transform(ctx context.Context, samples []any) error
}

// TransformerFunc adapts plain functions to the Transformer interface.
type TransformerFunc func(ctx context.Context, samples []any) error

// Transform executes the wrapped function when non-nil.
func (fn TransformerFunc) Transform(ctx context.Context, samples []any) error {
	if fn == nil {
		return nil
	}
	return fn(ctx, samples)
}

// PresetTransformer pins fields of every object sample to fixed values. The
// document maps dotted keypaths to values, in JSON or YAML:
//
//	status: active
//	owner.role: admin
//
// Missing intermediate objects are created.
type PresetTransformer struct {
	presets *schema.Node
}

// NewPresetTransformer parses a preset document.
func NewPresetTransformer(data []byte) (*PresetTransformer, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New("preset transformer: document is empty")
	}
	presets, err := schema.DecodeNode(data)
	if err != nil {
		return nil, fmt.Errorf("preset transformer: parse document: %w", err)
	}
	for _, key := range presets.Keys() {
		if strings.TrimSpace(key) == "" || strings.Contains(key, "..") {
			return nil, fmt.Errorf("preset transformer: invalid keypath %q", key)
		}
	}
	return &PresetTransformer{presets: presets}, nil
}

// NewPresetTransformerFromFS loads a preset document from fsys.
func NewPresetTransformerFromFS(fsys fs.FS, path string) (*PresetTransformer, error) {
	if fsys == nil {
		return nil, errors.New("preset transformer: filesystem is nil")
	}
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("preset transformer: path is required")
	}
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("preset transformer: read %s: %w", path, err)
	}
	return NewPresetTransformer(data)
}

// Transform applies the presets to each sample in place.
func (t *PresetTransformer) Transform(ctx context.Context, samples []any) error {
	for idx, sample := range samples {
		if err := ctx.Err(); err != nil {
			return err
		}
		node, ok := sample.(*schema.Node)
		if !ok {
			return fmt.Errorf("preset transformer: sample %d is not an object", idx)
		}
		var setErr error
		t.presets.Range(func(keypath string, value any) bool {
			setErr = setPath(node, strings.Split(keypath, "."), value)
			if setErr != nil {
				setErr = fmt.Errorf("preset transformer: sample %d: %q: %w", idx, keypath, setErr)
				return false
			}
			return true
		})
		if setErr != nil {
			return setErr
		}
	}
	return nil
}

func setPath(node *schema.Node, segments []string, value any) error {
	head := segments[0]
	if len(segments) == 1 {
		node.Set(head, value)
		return nil
	}
	current, ok := node.Get(head)
	if !ok || current == nil {
		child := schema.NewNode()
		node.Set(head, child)
		return setPath(child, segments[1:], value)
	}
	child, ok := current.(*schema.Node)
	if !ok {
		return fmt.Errorf("%s is not an object", head)
	}
	return setPath(child, segments[1:], value)
}
