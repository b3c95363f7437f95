package output

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"
	gotemplate "github.com/goliatone/go-template"
)

// Renderer is the go-template rendering contract served by Engine.
type Renderer interface {
	Render(name string, data any, out ...io.Writer) (string, error)
	RenderTemplate(name string, data any, out ...io.Writer) (string, error)
	RenderString(content string, data any, out ...io.Writer) (string, error)
	GlobalContext(data any) error
}

var _ Renderer = (*Engine)(nil)

// EngineOption configures an Engine.
type EngineOption func(*engineConfig)

type engineConfig struct {
	baseDir    string
	files      fs.FS
	extension  string
	globals    map[string]any
	goTemplate []gotemplate.Option
}

// WithBaseDir loads named templates from dir.
func WithBaseDir(dir string) EngineOption {
	return func(cfg *engineConfig) {
		cfg.baseDir = strings.TrimSpace(dir)
	}
}

// WithFS loads named templates from files, after the base directory.
func WithFS(files fs.FS) EngineOption {
	return func(cfg *engineConfig) {
		cfg.files = files
	}
}

// WithExtension sets the suffix appended to template names. An empty value
// loads names as given.
func WithExtension(ext string) EngineOption {
	return func(cfg *engineConfig) {
		ext = strings.TrimSpace(ext)
		if ext != "" && !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		cfg.extension = ext
	}
}

// WithGlobalData exposes values to every template.
func WithGlobalData(data map[string]any) EngineOption {
	return func(cfg *engineConfig) {
		if cfg.globals == nil {
			cfg.globals = make(map[string]any, len(data))
		}
		for key, value := range data {
			cfg.globals[strings.TrimSpace(key)] = value
		}
	}
}

// WithTemplateOptions records go-template engine options. The pongo2 set
// built here covers loading and globals itself, so they are not applied.
func WithTemplateOptions(options ...gotemplate.Option) EngineOption {
	return func(cfg *engineConfig) {
		cfg.goTemplate = append(cfg.goTemplate, options...)
	}
}

// Engine renders pongo2 templates loaded by name or compiled from strings.
// Compiled templates are cached.
type Engine struct {
	mu        sync.RWMutex
	set       *pongo2.TemplateSet
	named     map[string]*pongo2.Template
	compiled  map[string]*pongo2.Template
	extension string
}

// NewEngine builds an engine. Without a base directory or fs.FS, names
// resolve against the working directory.
func NewEngine(options ...EngineOption) (*Engine, error) {
	cfg := &engineConfig{extension: ".tpl"}
	for _, opt := range options {
		if opt != nil {
			opt(cfg)
		}
	}

	var loaders []pongo2.TemplateLoader
	if cfg.baseDir != "" || cfg.files == nil {
		local, err := pongo2.NewLocalFileSystemLoader(cfg.baseDir)
		if err != nil {
			return nil, fmt.Errorf("output: template dir: %w", err)
		}
		loaders = append(loaders, local)
	}
	if cfg.files != nil {
		loaders = append(loaders, pongo2.NewFSLoader(cfg.files))
	}

	registerFilters()
	engine := &Engine{
		set:       pongo2.NewSet("schemafaker", loaders...),
		named:     make(map[string]*pongo2.Template),
		compiled:  make(map[string]*pongo2.Template),
		extension: cfg.extension,
	}
	if len(cfg.globals) > 0 {
		if err := engine.GlobalContext(cfg.globals); err != nil {
			return nil, err
		}
	}
	return engine, nil
}

// Render treats name as inline template text when it contains pongo2 tags.
func (e *Engine) Render(name string, data any, out ...io.Writer) (string, error) {
	if strings.Contains(name, "{{") || strings.Contains(name, "{%") {
		return e.RenderString(name, data, out...)
	}
	return e.RenderTemplate(name, data, out...)
}

// RenderTemplate renders the template stored under name.
func (e *Engine) RenderTemplate(name string, data any, out ...io.Writer) (string, error) {
	tmpl, err := e.load(name)
	if err != nil {
		return "", err
	}
	return e.execute(tmpl, data, out)
}

// RenderString renders inline template content.
func (e *Engine) RenderString(content string, data any, out ...io.Writer) (string, error) {
	tmpl, err := e.compile(content)
	if err != nil {
		return "", err
	}
	return e.execute(tmpl, data, out)
}

// GlobalContext merges data into the values every template sees.
func (e *Engine) GlobalContext(data any) error {
	if e == nil || e.set == nil {
		return errors.New("output: engine is nil")
	}
	values, err := toContext(data)
	if err != nil {
		return fmt.Errorf("output: global data: %w", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.set.Globals == nil {
		e.set.Globals = make(pongo2.Context)
	}
	e.set.Globals.Update(values)
	return nil
}

func (e *Engine) load(name string) (*pongo2.Template, error) {
	if e == nil || e.set == nil {
		return nil, errors.New("output: engine is nil")
	}
	if e.extension != "" && !strings.HasSuffix(name, e.extension) {
		name += e.extension
	}

	e.mu.RLock()
	tmpl, ok := e.named[name]
	e.mu.RUnlock()
	if ok {
		return tmpl, nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if tmpl, ok := e.named[name]; ok {
		return tmpl, nil
	}
	tmpl, err := e.set.FromFile(name)
	if err != nil {
		return nil, fmt.Errorf("output: load template %q: %w", name, err)
	}
	e.named[name] = tmpl
	return tmpl, nil
}

func (e *Engine) compile(content string) (*pongo2.Template, error) {
	if e == nil || e.set == nil {
		return nil, errors.New("output: engine is nil")
	}
	e.mu.RLock()
	tmpl, ok := e.compiled[content]
	e.mu.RUnlock()
	if ok {
		return tmpl, nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if tmpl, ok := e.compiled[content]; ok {
		return tmpl, nil
	}
	tmpl, err := e.set.FromString(content)
	if err != nil {
		return nil, fmt.Errorf("output: parse template: %w", err)
	}
	e.compiled[content] = tmpl
	return tmpl, nil
}

func (e *Engine) execute(tmpl *pongo2.Template, data any, out []io.Writer) (string, error) {
	values, err := toContext(data)
	if err != nil {
		return "", fmt.Errorf("output: template data: %w", err)
	}

	var buf bytes.Buffer
	e.mu.RLock()
	err = tmpl.ExecuteWriter(values, &buf)
	e.mu.RUnlock()
	if err != nil {
		return "", fmt.Errorf("output: execute template: %w", err)
	}

	rendered := buf.String()
	for _, w := range out {
		if _, err := io.WriteString(w, rendered); err != nil {
			return "", err
		}
	}
	return rendered, nil
}

// toContext accepts contexts and maps as they are; anything else must
// convert to a JSON object.
func toContext(data any) (pongo2.Context, error) {
	switch typed := data.(type) {
	case nil:
		return pongo2.Context{}, nil
	case pongo2.Context:
		return typed, nil
	case map[string]any:
		return pongo2.Context(typed), nil
	}
	converted, err := plain(data)
	if err != nil {
		return nil, err
	}
	object, ok := converted.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%T is not an object", data)
	}
	return pongo2.Context(object), nil
}

var filtersOnce sync.Once

func registerFilters() {
	filtersOnce.Do(func() {
		if !pongo2.FilterExists("tojson") {
			_ = pongo2.RegisterFilter("tojson", filterJSON)
		}
	})
}

// filterJSON renders a value as compact JSON.
func filterJSON(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	encoded, err := json.Marshal(in.Interface())
	if err != nil {
		return nil, &pongo2.Error{Sender: "filter:tojson", OrigError: err}
	}
	return pongo2.AsValue(string(encoded)), nil
}
