// Package openapi reads component schemas out of OpenAPI documents so they can
// be fed to the faker. kin-openapi validates the document; the component
// itself is extracted from an ordered decode so property order survives.
package openapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-schemafaker/pkg/schema"
)

// Detect reports whether raw looks like an OpenAPI or Swagger document.
func Detect(raw []byte) bool {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return false
	}
	if trimmed[0] == '{' {
		var payload map[string]any
		if err := json.Unmarshal(trimmed, &payload); err == nil {
			_, isOpenAPI := payload["openapi"]
			_, isSwagger := payload["swagger"]
			return isOpenAPI || isSwagger
		}
	}
	lower := strings.ToLower(string(trimmed))
	return strings.Contains(lower, "openapi:") || strings.Contains(lower, "swagger:")
}

// Components returns the sorted names under components.schemas.
func Components(ctx context.Context, raw []byte) ([]string, error) {
	doc, err := load(ctx, raw)
	if err != nil {
		return nil, err
	}
	if doc.Components == nil || len(doc.Components.Schemas) == 0 {
		return nil, errors.New("openapi: document has no component schemas")
	}
	names := make([]string, 0, len(doc.Components.Schemas))
	for name := range doc.Components.Schemas {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Component returns the named component schema as an ordered node.
func Component(ctx context.Context, raw []byte, name string) (*schema.Node, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("openapi: component name is required")
	}
	doc, err := load(ctx, raw)
	if err != nil {
		return nil, err
	}
	if doc.Components == nil || doc.Components.Schemas[name] == nil {
		return nil, fmt.Errorf("openapi: component %q not found", name)
	}

	decoded, err := schema.Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("openapi: decode document: %w", err)
	}
	value, ok := schema.Pick(decoded, "components.schemas")
	if !ok {
		return nil, fmt.Errorf("openapi: component %q not found", name)
	}
	schemas, ok := value.(*schema.Node)
	if !ok {
		return nil, errors.New("openapi: components.schemas is not an object")
	}
	// read the name directly; component names may contain dots
	component, _ := schemas.Get(name)
	node, ok := component.(*schema.Node)
	if !ok {
		return nil, fmt.Errorf("openapi: component %q is not an object", name)
	}
	return node, nil
}

// Schema returns the named component as loaded by kin-openapi, with local
// references resolved. It backs sample validation.
func Schema(ctx context.Context, raw []byte, name string) (*openapi3.Schema, error) {
	doc, err := load(ctx, raw)
	if err != nil {
		return nil, err
	}
	if doc.Components == nil {
		return nil, fmt.Errorf("openapi: component %q not found", name)
	}
	ref := doc.Components.Schemas[name]
	if ref == nil || ref.Value == nil {
		return nil, fmt.Errorf("openapi: component %q not found", name)
	}
	return ref.Value, nil
}

func load(ctx context.Context, raw []byte) (*openapi3.T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, errors.New("openapi: document payload is empty")
	}
	loader := &openapi3.Loader{
		Context:               ctx,
		IsExternalRefsAllowed: false,
	}
	doc, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("openapi: load document: %w", err)
	}
	return doc, nil
}
