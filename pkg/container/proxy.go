package container

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-schemafaker/pkg/schema"
)

// Proxy builds the default resolver for a dependency. The accessor is called
// on every invocation so re-extension and overrides are observed live.
//
// Specifications come in two shapes:
//
//	"internet.email"           keypath, no arguments
//	{"random.number": [1, 9]}  first key is the keypath; a sequence value is
//	                           the argument list, anything else one argument
//
// A generator expecting a sequence argument must receive it nested:
// {"random.pick": [["a", "b"]]}.
func Proxy(dependency func() any) Resolver {
	return func(req Request) (any, error) {
		keypath, args, err := parseSpecification(req.Keyword, req.Value)
		if err != nil {
			return nil, err
		}

		value, recv, err := walkKeypath(dependency(), req.Keyword, keypath)
		if err != nil {
			return nil, err
		}

		if fn, ok := asFunc(value); ok {
			resolved := make([]any, len(args))
			for idx, arg := range args {
				out, err := req.Interpolator.Interpolate(arg, req.Root)
				if err != nil {
					return nil, fmt.Errorf("container: %q: argument %d: %w", req.Keyword, idx, err)
				}
				resolved[idx] = out
			}
			value, err = fn(recv, resolved)
			if err != nil {
				return nil, fmt.Errorf("container: %q: %s: %w", req.Keyword, keypath, err)
			}
		}

		if hasPendingCallable(value) {
			return nil, &UnresolvedGeneratorError{Property: req.Keyword, Keypath: keypath, Value: value}
		}
		return value, nil
	}
}

// walkKeypath follows keypath through dep and returns the target with the
// mapping that holds it.
func walkKeypath(dep any, property, keypath string) (value, recv any, err error) {
	segments := strings.Split(keypath, ".")
	ctx := dep

	for _, segment := range segments[:len(segments)-1] {
		next, found, isMapping := index(ctx, segment)
		if !isMapping || !found {
			return nil, nil, &KeypathError{Property: property, Keypath: keypath, Segment: segment}
		}
		ctx = next
	}

	last := segments[len(segments)-1]
	value, found, isMapping := index(ctx, last)
	switch {
	case !isMapping:
		// a bare value or callable dependency answers any final key
		return ctx, nil, nil
	case !found:
		return nil, nil, &KeypathError{Property: property, Keypath: keypath, Segment: last}
	}
	return value, ctx, nil
}

func parseSpecification(property string, value any) (string, []any, error) {
	var (
		keypath string
		arg     any
	)
	switch typed := value.(type) {
	case string:
		if typed == "" {
			return "", nil, &SpecificationError{Property: property, Reason: "empty keypath"}
		}
		return typed, nil, nil
	case *schema.Node:
		if typed.Len() == 0 {
			return "", nil, &SpecificationError{Property: property, Reason: "object has no keys"}
		}
		keypath = typed.Keys()[0]
		arg, _ = typed.Get(keypath)
	case Map:
		keys := sortedKeys(map[string]any(typed))
		if len(keys) == 0 {
			return "", nil, &SpecificationError{Property: property, Reason: "object has no keys"}
		}
		keypath = keys[0]
		arg = typed[keypath]
	case map[string]any:
		keys := sortedKeys(typed)
		if len(keys) == 0 {
			return "", nil, &SpecificationError{Property: property, Reason: "object has no keys"}
		}
		keypath = keys[0]
		arg = typed[keypath]
	default:
		return "", nil, &SpecificationError{Property: property, Reason: fmt.Sprintf("unsupported %T value", value)}
	}

	if keypath == "" {
		return "", nil, &SpecificationError{Property: property, Reason: "empty keypath"}
	}
	if list, ok := arg.([]any); ok {
		return keypath, list, nil
	}
	return keypath, []any{arg}, nil
}
