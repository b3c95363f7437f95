package orchestrator

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-schemafaker/internal/ctxlog"
	"github.com/goliatone/go-schemafaker/internal/loader"
	"github.com/goliatone/go-schemafaker/internal/prompt"
	"github.com/goliatone/go-schemafaker/pkg/faker"
	"github.com/goliatone/go-schemafaker/pkg/openapi"
	"github.com/goliatone/go-schemafaker/pkg/output"
	"github.com/goliatone/go-schemafaker/pkg/schema"
	"github.com/goliatone/go-schemafaker/pkg/validation"
)

const defaultFormat = "json"

// ErrInvalidSample reports a generated sample rejected by validation.
var ErrInvalidSample = errors.New("orchestrator: invalid sample")

// DocumentLoader fetches the raw document behind a source.
type DocumentLoader interface {
	Load(ctx context.Context, src schema.Source) (schema.Document, error)
}

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithLoader injects a custom document loader.
func WithLoader(l DocumentLoader) Option {
	return func(o *Orchestrator) {
		o.loader = l
	}
}

// WithGenerator injects the faker used for every request.
func WithGenerator(g *faker.Generator) Option {
	return func(o *Orchestrator) {
		o.generator = g
	}
}

// WithRegistry injects an encoder registry.
func WithRegistry(registry *output.Registry) Option {
	return func(o *Orchestrator) {
		o.registry = registry
	}
}

// WithDefaultFormat overrides the encoder used when a request omits Format.
func WithDefaultFormat(name string) Option {
	return func(o *Orchestrator) {
		o.defaultFormat = name
	}
}

// WithPrompt supplies the driver used for interactive component selection.
func WithPrompt(driver prompt.Driver) Option {
	return func(o *Orchestrator) {
		o.prompt = driver
	}
}

// WithTransformer registers a Transformer that runs after generation and
// before validation.
func WithTransformer(t Transformer) Option {
	return func(o *Orchestrator) {
		o.transformer = t
	}
}

// Orchestrator coordinates the pipeline from schema document to encoded
// samples. Defaults: file-only loader, built-in generators, json and yaml
// encoders, survey prompts.
type Orchestrator struct {
	loader        DocumentLoader
	generator     *faker.Generator
	registry      *output.Registry
	defaultFormat string
	prompt        prompt.Driver
	transformer   Transformer
}

// New constructs an Orchestrator applying any provided options.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	if o.loader == nil {
		o.loader = loader.New()
	}
	if o.generator == nil {
		o.generator = faker.New()
	}
	if o.registry == nil {
		o.registry = output.Default()
	}
	if o.defaultFormat == "" {
		o.defaultFormat = defaultFormat
	}
	if o.prompt == nil {
		o.prompt = prompt.Survey()
	}
	return o
}

// Request describes one generation run.
type Request struct {
	// Source identifies where the schema lives. Optional when Document is set.
	Source schema.Source

	// Document bypasses the loader when the caller already holds the payload.
	Document *schema.Document

	// Component names the OpenAPI component schema to generate. Ignored for
	// plain schema documents.
	Component string

	// Interactive prompts for the component when Component is empty and the
	// document holds more than one.
	Interactive bool

	// Count is the number of samples. Zero means one. A single sample is
	// encoded on its own; several are encoded as a list.
	Count int

	// Format names a registered encoder. Encoder takes precedence when set.
	Format  string
	Encoder output.Encoder

	// Validate checks every sample against its schema before encoding.
	Validate bool
}

// Result carries the encoded output with the samples behind it.
type Result struct {
	Component string
	Samples   []any
	Output    []byte
}

// Generate executes the load → select → generate → validate → encode sequence
// and returns the encoded bytes.
func (o *Orchestrator) Generate(ctx context.Context, req Request) ([]byte, error) {
	result, err := o.Run(ctx, req)
	if err != nil {
		return nil, err
	}
	return result.Output, nil
}

// Run is Generate returning the samples alongside the output.
func (o *Orchestrator) Run(ctx context.Context, req Request) (Result, error) {
	if ctx == nil {
		return Result{}, errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	logger := ctxlog.FromContext(ctx)

	doc, err := o.resolveDocument(ctx, req)
	if err != nil {
		return Result{}, err
	}
	target, err := o.selectTarget(ctx, req, doc)
	if err != nil {
		return Result{}, err
	}
	logger.Debug("Schema selected.", "location", doc.Location(), "component", target.component)

	count := req.Count
	if count == 0 {
		count = 1
	}
	samples, err := o.generator.ForDocument(target.document).GenerateN(ctx, target.root, count)
	if err != nil {
		return Result{}, fmt.Errorf("orchestrator: generate: %w", err)
	}

	if o.transformer != nil {
		if err := o.transformer.Transform(ctx, samples); err != nil {
			return Result{}, fmt.Errorf("orchestrator: transform samples: %w", err)
		}
	}

	if req.Validate {
		if err := validateAll(samples, target.validate); err != nil {
			return Result{}, err
		}
		logger.Debug("Samples validated.", "count", len(samples))
	}

	encoder, err := o.encoderFor(req)
	if err != nil {
		return Result{}, err
	}
	var payload any = samples
	if count == 1 {
		payload = samples[0]
	}
	var buf bytes.Buffer
	if err := encoder.Encode(&buf, payload); err != nil {
		return Result{}, fmt.Errorf("orchestrator: encode %s: %w", encoder.Name(), err)
	}

	return Result{Component: target.component, Samples: samples, Output: buf.Bytes()}, nil
}

type target struct {
	root      *schema.Node
	document  any
	component string
	validate  func(sample any) (validation.SampleValidationResult, error)
}

func (o *Orchestrator) resolveDocument(ctx context.Context, req Request) (schema.Document, error) {
	if req.Document != nil {
		return *req.Document, nil
	}
	if req.Source == nil {
		return schema.Document{}, errors.New("orchestrator: source or document is required")
	}
	doc, err := o.loader.Load(ctx, req.Source)
	if err != nil {
		return schema.Document{}, fmt.Errorf("orchestrator: load document: %w", err)
	}
	return doc, nil
}

func (o *Orchestrator) selectTarget(ctx context.Context, req Request, doc schema.Document) (target, error) {
	raw := doc.Raw()
	if !openapi.Detect(raw) {
		root, err := doc.Root()
		if err != nil {
			return target{}, fmt.Errorf("orchestrator: %w", err)
		}
		return target{
			root:     root,
			document: root,
			validate: func(sample any) (validation.SampleValidationResult, error) {
				return validation.ValidateNode(root, sample)
			},
		}, nil
	}

	name, err := o.componentName(ctx, req, raw)
	if err != nil {
		return target{}, err
	}
	root, err := openapi.Component(ctx, raw, name)
	if err != nil {
		return target{}, fmt.Errorf("orchestrator: %w", err)
	}
	document, err := schema.Decode(raw)
	if err != nil {
		return target{}, fmt.Errorf("orchestrator: decode document: %w", err)
	}
	out := target{root: root, document: document, component: name}
	if req.Validate {
		resolved, err := openapi.Schema(ctx, raw, name)
		if err != nil {
			return target{}, fmt.Errorf("orchestrator: %w", err)
		}
		out.validate = func(sample any) (validation.SampleValidationResult, error) {
			return validation.Validate(resolved, sample)
		}
	}
	return out, nil
}

func (o *Orchestrator) componentName(ctx context.Context, req Request, raw []byte) (string, error) {
	if name := strings.TrimSpace(req.Component); name != "" {
		return name, nil
	}
	names, err := openapi.Components(ctx, raw)
	if err != nil {
		return "", fmt.Errorf("orchestrator: %w", err)
	}
	if req.Interactive {
		name, err := prompt.Choose(ctx, o.prompt, "Component schema", names)
		if err != nil {
			return "", fmt.Errorf("orchestrator: select component: %w", err)
		}
		return name, nil
	}
	if len(names) == 1 {
		return names[0], nil
	}
	return "", fmt.Errorf("orchestrator: document defines %d components, choose one of: %s", len(names), strings.Join(names, ", "))
}

func (o *Orchestrator) encoderFor(req Request) (output.Encoder, error) {
	if req.Encoder != nil {
		return req.Encoder, nil
	}
	name := req.Format
	if name == "" {
		name = o.defaultFormat
	}
	encoder, err := o.registry.Get(name)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: format %q: %w", name, err)
	}
	return encoder, nil
}

func validateAll(samples []any, validate func(any) (validation.SampleValidationResult, error)) error {
	for idx, sample := range samples {
		result, err := validate(sample)
		if err != nil {
			return fmt.Errorf("orchestrator: validate sample %d: %w", idx, err)
		}
		if !result.Valid {
			return fmt.Errorf("%w %d: %v", ErrInvalidSample, idx, result.Error())
		}
	}
	return nil
}
