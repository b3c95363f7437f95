package output

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// JSON writes samples as JSON, keeping schema property order.
type JSON struct {
	Indent string
}

func (JSON) Name() string { return "json" }

func (e JSON) Encode(w io.Writer, value any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if e.Indent != "" {
		enc.SetIndent("", e.Indent)
	}
	if err := enc.Encode(value); err != nil {
		return fmt.Errorf("output: encode json: %w", err)
	}
	return nil
}

// YAML writes samples as a YAML document.
type YAML struct {
	Indent int
}

func (YAML) Name() string { return "yaml" }

func (e YAML) Encode(w io.Writer, value any) error {
	enc := yaml.NewEncoder(w)
	if e.Indent > 0 {
		enc.SetIndent(e.Indent)
	}
	if err := enc.Encode(value); err != nil {
		return fmt.Errorf("output: encode yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("output: encode yaml: %w", err)
	}
	return nil
}
