// Package generators provides the built-in generator dependencies (net,
// random, name, internet, lorem) and the defined keywords (autoIncrement,
// template) that can be registered on a container.Container.
//
// Generators draw from a shared *rand.Rand and are not safe for concurrent
// use; give each goroutine its own container and Rand.
package generators

import (
	"math/rand"
	"time"

	"github.com/goliatone/go-schemafaker/pkg/container"
)

// Module registers one group of dependencies or keywords on a container.
type Module interface {
	Register(c *container.Container)
}

// NewRand returns a seeded source. A zero seed picks one from the clock.
func NewRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// Builtins returns every built-in module drawing from rng.
func Builtins(rng *rand.Rand) []Module {
	if rng == nil {
		rng = NewRand(0)
	}
	return []Module{
		Net{rng: rng},
		Random{rng: rng},
		Names{rng: rng},
		Internet{rng: rng},
		Lorem{rng: rng},
		Keywords{},
	}
}

// Register installs modules on c in order.
func Register(c *container.Container, modules ...Module) {
	for _, module := range modules {
		if module == nil {
			continue
		}
		module.Register(c)
	}
}

// NewContainer returns a container with every built-in registered.
func NewContainer(rng *rand.Rand, options ...container.Option) *container.Container {
	c := container.New(options...)
	Register(c, Builtins(rng)...)
	return c
}

// merge overlays entries on the current dependency when it is a Map, so
// custom generators extended earlier under the same name survive.
func merge(current any, entries container.Map) any {
	existing, ok := current.(container.Map)
	if !ok {
		return entries
	}
	out := make(container.Map, len(existing)+len(entries))
	for key, value := range existing {
		out[key] = value
	}
	for key, value := range entries {
		out[key] = value
	}
	return out
}
