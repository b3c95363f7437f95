package generators

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/google/uuid"

	"github.com/goliatone/go-schemafaker/pkg/container"
)

// Random registers the "random" dependency.
type Random struct {
	rng *rand.Rand
}

func (m Random) Register(c *container.Container) {
	c.MustExtend("random", func(current any) any {
		return merge(current, container.Map{
			"number":  container.Func(m.number),
			"float":   container.Func(m.float),
			"boolean": container.Thunk(func() any { return m.rng.Intn(2) == 1 }),
			"pick":    container.Func(m.pick),
			"uuid":    container.Func(m.uuid),
		})
	})
}

// number returns an integer in the inclusive range, default [0, 100].
func (m Random) number(_ any, args []any) (any, error) {
	lo, hi, err := intRange(args, 0, 100)
	if err != nil {
		return nil, err
	}
	return randomInt(m.rng, lo, hi), nil
}

// float returns a value in [lo, hi), default [0, 1).
func (m Random) float(_ any, args []any) (any, error) {
	lo, err := floatArg(args, 0, 0)
	if err != nil {
		return nil, err
	}
	hi, err := floatArg(args, 1, 1)
	if err != nil {
		return nil, err
	}
	if lo > hi {
		lo, hi = hi, lo
	}
	return lo + m.rng.Float64()*(hi-lo), nil
}

func (m Random) pick(_ any, args []any) (any, error) {
	if len(args) == 0 {
		return nil, errors.New("pick requires a list argument")
	}
	options, ok := args[0].([]any)
	if !ok {
		return nil, fmt.Errorf("pick: argument is %T, want list", args[0])
	}
	if len(options) == 0 {
		return nil, errors.New("pick: list is empty")
	}
	return options[m.rng.Intn(len(options))], nil
}

func (m Random) uuid(any, []any) (any, error) {
	id, err := uuid.NewRandomFromReader(m.rng)
	if err != nil {
		return nil, fmt.Errorf("uuid: %w", err)
	}
	return id.String(), nil
}

func randomInt(rng *rand.Rand, lo, hi int) int {
	return int(Int64Between(rng, int64(lo), int64(hi)))
}

// Int64Between draws uniformly from the inclusive range [lo, hi]. Spans wider
// than math.MaxInt64 are drawn from Uint64 by rejection.
func Int64Between(rng *rand.Rand, lo, hi int64) int64 {
	if lo > hi {
		lo, hi = hi, lo
	}
	span := uint64(hi) - uint64(lo)
	switch {
	case span == math.MaxUint64:
		return int64(rng.Uint64())
	case span < math.MaxInt64:
		return lo + rng.Int63n(int64(span)+1)
	}
	for {
		if offset := rng.Uint64(); offset <= span {
			return int64(uint64(lo) + offset)
		}
	}
}
