// Package template substitutes `#{key}` placeholders inside strings, and
// recursively inside sequences, using a flat lookup context.
//
// Keys match `[\w.-]+` and are looked up verbatim: `#{a.b}` reads the key
// "a.b", it does not traverse into "a". Values other than strings and
// sequences pass through untouched.
package template

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var placeholderPattern = regexp.MustCompile(`#\{([\w.-]+)\}`)

// Context supplies placeholder values.
type Context interface {
	Get(key string) (any, bool)
}

// MapContext adapts a plain map to Context.
type MapContext map[string]any

// Get implements Context.
func (m MapContext) Get(key string) (any, bool) {
	value, ok := m[key]
	return value, ok
}

// MissingPolicy selects what happens when a placeholder key is absent.
type MissingPolicy int

const (
	// MissingError fails interpolation with a *MissingKeyError.
	MissingError MissingPolicy = iota
	// MissingLiteral substitutes the text "undefined".
	MissingLiteral
)

// ParseMissingPolicy maps "error" and "literal" onto a policy.
func ParseMissingPolicy(raw string) (MissingPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "error":
		return MissingError, nil
	case "literal", "undefined":
		return MissingLiteral, nil
	default:
		return MissingError, fmt.Errorf("template: unknown missing policy %q", raw)
	}
}

// MissingKeyError reports a placeholder whose key is not in the context.
type MissingKeyError struct {
	Key      string
	Template string
}

func (e *MissingKeyError) Error() string {
	return fmt.Sprintf("template: no value for #{%s} in %q", e.Key, e.Template)
}

// Interpolator performs placeholder substitution under a missing-key policy.
// The zero value fails on missing keys.
type Interpolator struct {
	Missing MissingPolicy
}

// Interpolate resolves placeholders with the default (strict) interpolator.
func Interpolate(value any, ctx Context) (any, error) {
	return Interpolator{}.Interpolate(value, ctx)
}

// Interpolate resolves placeholders in value against ctx. Sequences are mapped
// element-wise into a new slice; the input is never modified.
func (in Interpolator) Interpolate(value any, ctx Context) (any, error) {
	switch typed := value.(type) {
	case []any:
		out := make([]any, len(typed))
		for idx, item := range typed {
			resolved, err := in.Interpolate(item, ctx)
			if err != nil {
				return nil, err
			}
			out[idx] = resolved
		}
		return out, nil
	case string:
		return in.interpolateString(typed, ctx)
	default:
		return value, nil
	}
}

func (in Interpolator) interpolateString(text string, ctx Context) (string, error) {
	if !strings.Contains(text, "#{") {
		return text, nil
	}
	var firstErr error
	out := placeholderPattern.ReplaceAllStringFunc(text, func(match string) string {
		if firstErr != nil {
			return match
		}
		key := match[2 : len(match)-1]
		var (
			value any
			found bool
		)
		if ctx != nil {
			value, found = ctx.Get(key)
		}
		if !found {
			if in.Missing == MissingLiteral {
				return "undefined"
			}
			firstErr = &MissingKeyError{Key: key, Template: text}
			return match
		}
		return Stringify(value)
	})
	if firstErr != nil {
		return "", firstErr
	}
	return out, nil
}

// Stringify renders a value the way it appears inside interpolated text.
func Stringify(value any) string {
	switch typed := value.(type) {
	case nil:
		return "null"
	case string:
		return typed
	case bool:
		return strconv.FormatBool(typed)
	case int:
		return strconv.Itoa(typed)
	case int64:
		return strconv.FormatInt(typed, 10)
	case uint64:
		return strconv.FormatUint(typed, 10)
	case float32:
		return strconv.FormatFloat(float64(typed), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64)
	case []any:
		parts := make([]string, len(typed))
		for idx, item := range typed {
			parts[idx] = Stringify(item)
		}
		return strings.Join(parts, ",")
	case fmt.Stringer:
		return typed.String()
	default:
		if encoded, err := json.Marshal(typed); err == nil {
			return string(encoded)
		}
		return fmt.Sprint(typed)
	}
}
