// Package orchestrator wires the loader → faker → validation → encoder
// pipeline behind a single entry point, selecting OpenAPI components when the
// source document is an API description rather than a bare schema.
package orchestrator
