// Package faker walks a JSON schema and produces a synthetic sample. Nodes that
// carry a registered generator keyword are delegated to their container
// binding; the rest are generated from their JSON schema keywords.
package faker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/goliatone/go-schemafaker/internal/ctxlog"
	"github.com/goliatone/go-schemafaker/pkg/container"
	"github.com/goliatone/go-schemafaker/pkg/generators"
	"github.com/goliatone/go-schemafaker/pkg/schema"
)

const defaultMaxDepth = 32

var (
	// ErrMaxDepth reports a schema nested deeper than the configured limit.
	// Recursive $ref chains end here too.
	ErrMaxDepth = errors.New("faker: maximum depth exceeded")
	// ErrReference reports a $ref that is not a resolvable local pointer.
	ErrReference = errors.New("faker: unresolved reference")
)

// Option customises a Generator.
type Option func(*Generator)

// WithContainer supplies the generator container. Defaults to every built-in
// registered against the generator's Rand.
func WithContainer(c *container.Container) Option {
	return func(g *Generator) {
		g.container = c
	}
}

// WithRand sets the source used for schema-driven values.
func WithRand(rng *rand.Rand) Option {
	return func(g *Generator) {
		g.rng = rng
	}
}

// WithLogger sets the logger. Without it the logger is taken from the
// context passed to Generate.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Generator) {
		g.logger = logger
	}
}

// WithDocument sets the document local $ref pointers resolve against, such as
// the OpenAPI document a component came from. Defaults to the root schema.
func WithDocument(document any) Option {
	return func(g *Generator) {
		g.document = document
	}
}

// WithMaxDepth limits schema nesting.
func WithMaxDepth(depth int) Option {
	return func(g *Generator) {
		if depth > 0 {
			g.maxDepth = depth
		}
	}
}

// Generator produces samples from schema trees. It is not safe for concurrent
// use because generation draws from a shared Rand.
type Generator struct {
	container *container.Container
	rng       *rand.Rand
	logger    *slog.Logger
	document  any
	maxDepth  int
}

// New constructs a Generator applying options over the defaults.
func New(options ...Option) *Generator {
	g := &Generator{maxDepth: defaultMaxDepth}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(g)
	}
	if g.rng == nil {
		g.rng = generators.NewRand(0)
	}
	if g.container == nil {
		g.container = generators.NewContainer(g.rng)
	}
	return g
}

// Container exposes the generator container for further registration.
func (g *Generator) Container() *container.Container {
	return g.container
}

// ForDocument returns a Generator sharing g's container and Rand whose local
// $ref pointers resolve against document.
func (g *Generator) ForDocument(document any) *Generator {
	clone := *g
	clone.document = document
	return &clone
}

// Generate produces one sample for root. Argument and template placeholders
// resolve against root itself.
func (g *Generator) Generate(ctx context.Context, root *schema.Node) (any, error) {
	w, err := g.newWalker(ctx, root)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	value, err := w.walk(root, "$", 0)
	if err != nil {
		return nil, err
	}
	w.logger.Debug("Generated sample.", "nodes", w.visited, "bound", w.bound, "duration", time.Since(start))
	return value, nil
}

// GenerateN produces count samples sharing one Binder, so per-binding state
// such as autoIncrement continues across samples.
func (g *Generator) GenerateN(ctx context.Context, root *schema.Node, count int) ([]any, error) {
	if count < 1 {
		return nil, fmt.Errorf("faker: count must be positive, got %d", count)
	}
	w, err := g.newWalker(ctx, root)
	if err != nil {
		return nil, err
	}
	out := make([]any, 0, count)
	for idx := 0; idx < count; idx++ {
		value, err := w.walk(root, fmt.Sprintf("$[%d]", idx), 0)
		if err != nil {
			return nil, err
		}
		out = append(out, value)
	}
	w.logger.Info("Generated samples.", "count", count, "nodes", w.visited, "bound", w.bound)
	return out, nil
}

func (g *Generator) newWalker(ctx context.Context, root *schema.Node) (*walker, error) {
	if root == nil {
		return nil, errors.New("faker: schema root is required")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	logger := g.logger
	if logger == nil {
		logger = ctxlog.FromContext(ctx)
	}
	var document any = root
	if g.document != nil {
		document = g.document
	}
	return &walker{
		ctx:       ctx,
		rng:       g.rng,
		container: g.container,
		binder:    g.container.NewBinder(),
		root:      root,
		document:  document,
		logger:    logger,
		maxDepth:  g.maxDepth,
	}, nil
}
