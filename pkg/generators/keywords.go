package generators

import (
	"fmt"

	"github.com/goliatone/go-schemafaker/pkg/container"
)

const autoIncrementNext = "autoIncrement.next"

// Keywords defines the resolver-only keywords autoIncrement and template.
type Keywords struct{}

func (Keywords) Register(c *container.Container) {
	c.MustDefine("autoIncrement", autoIncrement)
	c.MustDefine("template", interpolateTemplate)
}

// autoIncrement returns consecutive integers per binding. The keyword value is
// the first number handed out; true or null start at 1.
func autoIncrement(req container.Request) (any, error) {
	next, ok := req.State[autoIncrementNext].(int)
	if !ok {
		start, err := initialOffset(req.Value)
		if err != nil {
			return nil, fmt.Errorf("autoIncrement %q: %w", req.Keyword, err)
		}
		next = start
	}
	req.State[autoIncrementNext] = next + 1
	return next, nil
}

func initialOffset(value any) (int, error) {
	switch typed := value.(type) {
	case nil, bool:
		return 1, nil
	default:
		return intArg([]any{typed}, 0, 1)
	}
}

// interpolateTemplate resolves a text (or list of texts) against the root.
func interpolateTemplate(req container.Request) (any, error) {
	switch req.Value.(type) {
	case string, []any:
	default:
		return nil, &container.SpecificationError{Property: req.Keyword, Reason: fmt.Sprintf("template must be text, got %T", req.Value)}
	}
	out, err := req.Interpolator.Interpolate(req.Value, req.Root)
	if err != nil {
		return nil, fmt.Errorf("template %q: %w", req.Keyword, err)
	}
	return out, nil
}
