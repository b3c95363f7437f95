// Package schemafaker generates sample data from JSON schema documents and
// OpenAPI component schemas. Schema nodes may name registered generators
// through x- keywords, e.g. {"type": "string", "x-net": "ipv4"}.
package schemafaker

import (
	"context"

	"github.com/goliatone/go-schemafaker/internal/loader"
	"github.com/goliatone/go-schemafaker/pkg/container"
	"github.com/goliatone/go-schemafaker/pkg/generators"
	"github.com/goliatone/go-schemafaker/pkg/orchestrator"
	"github.com/goliatone/go-schemafaker/pkg/schema"
)

// Request aliases orchestrator.Request.
type Request = orchestrator.Request

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// NewLoader constructs a document loader while keeping the concrete type
// hidden from consumers.
func NewLoader(options ...loader.Option) orchestrator.DocumentLoader {
	return loader.New(options...)
}

// NewContainer returns a container holding every built-in generator, seeded
// with seed. Zero seeds from the clock.
func NewContainer(seed int64, options ...container.Option) *container.Container {
	return generators.NewContainer(generators.NewRand(seed), options...)
}

// Generate loads source and encodes count samples in format ("json" or
// "yaml"). It is the simplest entry point for callers that just want data.
func Generate(ctx context.Context, source schema.Source, count int, format string, options ...orchestrator.Option) ([]byte, error) {
	return orchestrator.New(options...).Generate(ctx, Request{
		Source: source,
		Count:  count,
		Format: format,
	})
}

// GenerateFromDocument encodes samples from a pre-loaded document, bypassing
// the loader stage.
func GenerateFromDocument(ctx context.Context, doc schema.Document, count int, format string, options ...orchestrator.Option) ([]byte, error) {
	return orchestrator.New(options...).Generate(ctx, Request{
		Document: &doc,
		Count:    count,
		Format:   format,
	})
}
