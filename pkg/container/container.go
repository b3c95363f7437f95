package container

import (
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/goliatone/go-schemafaker/pkg/template"
)

// Option customises a Container.
type Option func(*Container)

// WithLogger routes registration logs to logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Container) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithMissingPolicy selects how argument templates treat unknown keys.
func WithMissingPolicy(policy template.MissingPolicy) Option {
	return func(c *Container) {
		c.interpolator.Missing = policy
	}
}

// Container stores generator dependencies and keyword resolvers for one
// generation setup.
type Container struct {
	mu           sync.RWMutex
	registry     map[string]any
	support      map[string]Resolver
	interpolator template.Interpolator
	logger       *slog.Logger
}

// New creates an empty container.
func New(options ...Option) *Container {
	c := &Container{
		registry: make(map[string]any),
		support:  make(map[string]Resolver),
		logger:   slog.Default(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}
	return c
}

// Extend replaces the dependency stored under name with factory(current).
// The first Extend for a name also installs a default Proxy resolver for the
// keyword of the same name unless one was already defined.
func (c *Container) Extend(name string, factory Factory) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errors.New("container: dependency name is required")
	}
	if factory == nil {
		return errors.New("container: factory is required")
	}

	c.mu.RLock()
	current := c.registry[name]
	c.mu.RUnlock()

	// factories may read the container, so they run unlocked
	next := factory(current)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.registry[name] = next
	installed := false
	if _, exists := c.support[name]; !exists {
		c.support[name] = Proxy(func() any {
			return c.dependency(name)
		})
		installed = true
	}
	c.logger.Debug("Extended dependency.", "name", name, "default_resolver", installed)
	return nil
}

// MustExtend panics on registration failure. Useful for init-time wiring.
func (c *Container) MustExtend(name string, factory Factory) {
	if err := c.Extend(name, factory); err != nil {
		panic(err)
	}
}

// Define installs or overrides the resolver for keyword name.
func (c *Container) Define(name string, resolver Resolver) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errors.New("container: keyword name is required")
	}
	if resolver == nil {
		return errors.New("container: resolver is required")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	_, replaced := c.support[name]
	c.support[name] = resolver
	c.logger.Debug("Defined keyword.", "name", name, "replaced", replaced)
	return nil
}

// MustDefine panics on registration failure.
func (c *Container) MustDefine(name string, resolver Resolver) {
	if err := c.Define(name, resolver); err != nil {
		panic(err)
	}
}

// Get returns the dependency stored under name.
func (c *Container) Get(name string) (any, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	value, ok := c.registry[name]
	if !ok {
		return nil, &LookupError{Name: name}
	}
	return value, nil
}

// Has reports whether a dependency was extended under name.
func (c *Container) Has(name string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	_, ok := c.registry[name]
	return ok
}

// HasKeyword reports whether a resolver exists for keyword name.
func (c *Container) HasKeyword(name string) bool {
	_, ok := c.resolver(name)
	return ok
}

// Dependencies returns the sorted dependency names.
func (c *Container) Dependencies() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return sortedKeys(c.registry)
}

// Keywords returns the sorted keyword names.
func (c *Container) Keywords() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return sortedKeys(c.support)
}

// Resolve runs the resolver for keyword on value outside of any schema node,
// e.g. to serve a string format from a registered generator.
func (c *Container) Resolve(keyword string, value any, root template.Context) (any, error) {
	resolver, ok := c.resolver(keyword)
	if !ok {
		return nil, &LookupError{Name: keyword}
	}
	return resolver(Request{
		Value:        value,
		Keyword:      keyword,
		Root:         root,
		State:        make(map[string]any),
		Interpolator: c.interpolator,
	})
}

// Check validates a specification without running any generator. For a
// dependency keyword the specification must parse and its keypath must exist;
// resolver-only keywords accept any value.
func (c *Container) Check(keyword string, value any) error {
	if !c.HasKeyword(keyword) {
		return &LookupError{Name: keyword}
	}
	if !c.Has(keyword) {
		return nil
	}
	keypath, _, err := parseSpecification(keyword, value)
	if err != nil {
		return err
	}
	_, _, err = walkKeypath(c.dependency(keyword), keyword, keypath)
	return err
}

// NewBinder returns a Binder for one input schema.
func (c *Container) NewBinder() *Binder {
	return newBinder(c)
}

func (c *Container) dependency(name string) any {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.registry[name]
}

func (c *Container) resolver(name string) (Resolver, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	resolver, ok := c.support[name]
	return resolver, ok
}
