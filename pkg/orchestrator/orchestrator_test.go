package orchestrator_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goliatone/go-schemafaker/internal/prompt"
	"github.com/goliatone/go-schemafaker/pkg/faker"
	"github.com/goliatone/go-schemafaker/pkg/generators"
	"github.com/goliatone/go-schemafaker/pkg/orchestrator"
	"github.com/goliatone/go-schemafaker/pkg/output"
	"github.com/goliatone/go-schemafaker/pkg/schema"
	"github.com/goliatone/go-schemafaker/pkg/testsupport"
)

type stubPrompt struct {
	index int
	calls int
}

func (p *stubPrompt) Select(context.Context, prompt.SelectConfig) (int, error) {
	p.calls++
	return p.index, nil
}

func newOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	generator := faker.New(faker.WithRand(generators.NewRand(5)))
	base := []orchestrator.Option{orchestrator.WithGenerator(generator)}
	return orchestrator.New(append(base, options...)...)
}

func TestOrchestrator_Goldens(t *testing.T) {
	cases := []struct {
		name   string
		source string
		req    orchestrator.Request
		golden string
	}{
		{
			name:   "json schema",
			source: "order.json",
			req:    orchestrator.Request{Count: 2, Validate: true},
			golden: "orders.golden.json",
		},
		{
			name:   "openapi component",
			source: "petstore.yaml",
			req:    orchestrator.Request{Component: "Pet", Format: "yaml", Validate: true},
			golden: "pet.golden.yaml",
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			req := tc.req
			req.Source = schema.SourceFromFile(filepath.Join("testdata", tc.source))

			out, err := newOrchestrator().Generate(testsupport.Context(), req)
			if err != nil {
				t.Fatalf("generate: %v", err)
			}

			goldenPath := filepath.Join("testdata", tc.golden)
			if testsupport.WriteMaybeGolden(t, goldenPath, out) {
				return
			}
			want := testsupport.MustReadGolden(t, goldenPath)
			if diff := testsupport.CompareGolden(string(want), string(out)); diff != "" {
				t.Fatalf("golden mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestOrchestrator_Document(t *testing.T) {
	doc := testsupport.LoadDocument(t, filepath.Join("testdata", "order.json"))

	result, err := newOrchestrator().Run(testsupport.Context(), orchestrator.Request{Document: &doc})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(result.Samples) != 1 || result.Component != "" {
		t.Fatalf("unexpected result %+v", result)
	}
	if !strings.HasPrefix(string(result.Output), "{\n") {
		t.Fatalf("single sample should encode as an object, got %s", result.Output)
	}
}

func TestOrchestrator_ComponentSelection(t *testing.T) {
	doc := testsupport.LoadDocument(t, filepath.Join("testdata", "petstore.yaml"))
	ctx := testsupport.Context()

	_, err := newOrchestrator().Run(ctx, orchestrator.Request{Document: &doc})
	if err == nil || !strings.Contains(err.Error(), "Category, Pet") {
		t.Fatalf("expected component list in error, got %v", err)
	}

	driver := &stubPrompt{index: 1}
	result, err := newOrchestrator(orchestrator.WithPrompt(driver)).Run(ctx, orchestrator.Request{Document: &doc, Interactive: true})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if driver.calls != 1 || result.Component != "Pet" {
		t.Fatalf("expected prompted Pet, got %q after %d calls", result.Component, driver.calls)
	}

	if _, err := newOrchestrator().Run(ctx, orchestrator.Request{Document: &doc, Component: "Owner"}); err == nil {
		t.Fatalf("expected error for unknown component")
	}
}

func TestOrchestrator_Transformers(t *testing.T) {
	presets, err := orchestrator.NewPresetTransformerFromFS(os.DirFS("testdata"), "presets.yaml")
	if err != nil {
		t.Fatalf("presets: %v", err)
	}
	doc := testsupport.LoadDocument(t, filepath.Join("testdata", "order.json"))

	result, err := newOrchestrator(orchestrator.WithTransformer(presets)).Run(testsupport.Context(), orchestrator.Request{Document: &doc, Count: 2})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	for _, sample := range result.Samples {
		node := sample.(*schema.Node)
		if status, _ := node.Get("status"); status != "closed" {
			t.Fatalf("expected preset status, got %#v", status)
		}
		if source, _ := schema.Pick(node, "meta.source"); source != "preset" {
			t.Fatalf("expected nested preset, got %#v", source)
		}
	}

	breaking := orchestrator.TransformerFunc(func(_ context.Context, samples []any) error {
		samples[0].(*schema.Node).Set("id", "not a number")
		return nil
	})
	_, err = newOrchestrator(orchestrator.WithTransformer(breaking)).Run(testsupport.Context(), orchestrator.Request{Document: &doc, Validate: true})
	if !errors.Is(err, orchestrator.ErrInvalidSample) {
		t.Fatalf("expected ErrInvalidSample, got %v", err)
	}
}

func TestOrchestrator_Errors(t *testing.T) {
	ctx := testsupport.Context()
	doc := testsupport.LoadDocument(t, filepath.Join("testdata", "order.json"))

	cases := map[string]orchestrator.Request{
		"no source":      {},
		"unknown format": {Document: &doc, Format: "toml"},
		"missing file":   {Source: schema.SourceFromFile(filepath.Join("testdata", "missing.json"))},
	}
	for name, req := range cases {
		if _, err := newOrchestrator().Generate(ctx, req); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	if _, err := newOrchestrator().Generate(cancelled, orchestrator.Request{Document: &doc}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestOrchestrator_CustomEncoder(t *testing.T) {
	doc := testsupport.LoadDocument(t, filepath.Join("testdata", "order.json"))
	tmpl, err := output.NewTemplate("{% for s in samples %}{{ s.id }}:{{ s.label }};{% endfor %}", false)
	if err != nil {
		t.Fatalf("template: %v", err)
	}

	out, err := newOrchestrator().Generate(testsupport.Context(), orchestrator.Request{Document: &doc, Count: 2, Encoder: tmpl})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if string(out) != "1:Order ticket;2:Order ticket;" {
		t.Fatalf("unexpected template output %q", out)
	}
}

func TestPresetTransformer_Errors(t *testing.T) {
	if _, err := orchestrator.NewPresetTransformer([]byte("  ")); err == nil {
		t.Fatalf("expected error for empty document")
	}
	if _, err := orchestrator.NewPresetTransformer([]byte(`{"a..b": 1}`)); err == nil {
		t.Fatalf("expected error for invalid keypath")
	}

	presets, err := orchestrator.NewPresetTransformer([]byte(`{"status.code": 1}`))
	if err != nil {
		t.Fatalf("presets: %v", err)
	}
	if err := presets.Transform(context.Background(), []any{"text"}); err == nil {
		t.Fatalf("expected error for non-object sample")
	}
	if err := presets.Transform(context.Background(), []any{schema.NodeOf("status", "open")}); err == nil {
		t.Fatalf("expected error when walking through a scalar")
	}
}
