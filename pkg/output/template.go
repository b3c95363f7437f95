package output

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"
	"github.com/microcosm-cc/bluemonday"
)

var (
	htmlPolicyOnce sync.Once
	htmlPolicy     *bluemonday.Policy
)

func htmlSanitizer() *bluemonday.Policy {
	htmlPolicyOnce.Do(func() {
		htmlPolicy = bluemonday.UGCPolicy()
	})
	return htmlPolicy
}

// Template renders samples through an Engine. The template sees `sample`
// (the first sample) and `samples` (all of them).
type Template struct {
	engine   Renderer
	name     string
	source   string
	sanitize bool
}

// NewTemplate compiles inline source. With sanitize set, the rendered text is
// passed through a user-content HTML policy before it is written.
func NewTemplate(source string, sanitize bool, options ...EngineOption) (*Template, error) {
	if strings.TrimSpace(source) == "" {
		return nil, errors.New("output: template source is empty")
	}
	engine, err := NewEngine(options...)
	if err != nil {
		return nil, err
	}
	if _, err := engine.compile(source); err != nil {
		return nil, err
	}
	return &Template{engine: engine, source: source, sanitize: sanitize}, nil
}

// NewTemplateFile loads the template at path, resolving includes and
// extends against its directory.
func NewTemplateFile(path string, sanitize bool, options ...EngineOption) (*Template, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("output: template path is empty")
	}
	dir, file := filepath.Split(filepath.Clean(path))
	if dir == "" {
		dir = "."
	}
	base := []EngineOption{WithBaseDir(dir), WithExtension(filepath.Ext(file))}
	engine, err := NewEngine(append(base, options...)...)
	if err != nil {
		return nil, err
	}
	if _, err := engine.load(file); err != nil {
		return nil, err
	}
	return &Template{engine: engine, name: file, sanitize: sanitize}, nil
}

func (*Template) Name() string { return "template" }

func (e *Template) Encode(w io.Writer, value any) error {
	if e == nil || e.engine == nil {
		return errors.New("output: template is nil")
	}
	data, err := plain(value)
	if err != nil {
		return err
	}

	samples, ok := data.([]any)
	if !ok {
		samples = []any{data}
	}
	var first any
	if len(samples) > 0 {
		first = samples[0]
	}
	values := pongo2.Context{"sample": first, "samples": samples}

	var rendered string
	if e.name != "" {
		rendered, err = e.engine.RenderTemplate(e.name, values)
	} else {
		rendered, err = e.engine.RenderString(e.source, values)
	}
	if err != nil {
		return err
	}

	if e.sanitize {
		rendered = htmlSanitizer().Sanitize(rendered)
	}
	if _, err := io.WriteString(w, rendered); err != nil {
		return fmt.Errorf("output: write template: %w", err)
	}
	return nil
}

// plain converts ordered nodes into maps the template engine can index.
func plain(value any) (any, error) {
	encoded, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("output: convert data: %w", err)
	}
	// json.Number keeps integers from printing as floats
	dec := json.NewDecoder(bytes.NewReader(encoded))
	dec.UseNumber()
	var out any
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("output: convert data: %w", err)
	}
	return out, nil
}
