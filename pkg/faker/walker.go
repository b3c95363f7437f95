package faker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/goliatone/go-schemafaker/pkg/container"
	"github.com/goliatone/go-schemafaker/pkg/generators"
	"github.com/goliatone/go-schemafaker/pkg/schema"
	"github.com/goliatone/go-schemafaker/pkg/template"
)

type formatGenerator struct {
	keyword string
	spec    any
}

// formatGenerators serves string formats from registered generators.
var formatGenerators = map[string]formatGenerator{
	"ipv4":     {keyword: "net", spec: "ipv4"},
	"ipv6":     {keyword: "net", spec: "ipv6"},
	"email":    {keyword: "internet", spec: "email"},
	"hostname": {keyword: "internet", spec: "domain"},
	"uri":      {keyword: "internet", spec: "url"},
	"url":      {keyword: "internet", spec: "url"},
	"uuid":     {keyword: "random", spec: "uuid"},
}

var (
	timestampFloor = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)
	timestampSpan  = time.Date(2030, time.January, 1, 0, 0, 0, 0, time.UTC).Sub(timestampFloor)
)

type walker struct {
	ctx       context.Context
	rng       *rand.Rand
	container *container.Container
	binder    *container.Binder
	root      *schema.Node
	document  any
	logger    *slog.Logger
	maxDepth  int

	visited int
	bound   int
}

func (w *walker) walk(value any, path string, depth int) (any, error) {
	if err := w.ctx.Err(); err != nil {
		return nil, err
	}
	if depth > w.maxDepth {
		return nil, fmt.Errorf("%w at %s", ErrMaxDepth, path)
	}
	node, ok := value.(*schema.Node)
	if !ok {
		// boolean schemas and malformed entries yield null
		return nil, nil
	}
	w.visited++

	if ref, ok := node.Get("$ref"); ok {
		target, err := w.resolveRef(ref)
		if err != nil {
			return nil, fmt.Errorf("faker: %s: %w", path, err)
		}
		return w.walk(target, path, depth+1)
	}

	if binding := w.binder.Wrap(node); binding != nil {
		w.bound++
		out, err := binding.Generate(w.root)
		if err != nil {
			return nil, fmt.Errorf("faker: %s: %w", path, err)
		}
		w.logger.Debug("Resolved keyword.", "path", path, "keyword", binding.Keyword())
		return out, nil
	}

	if value, ok := node.Get("const"); ok {
		return value, nil
	}
	if enum, ok := node.Get("enum"); ok {
		if options, ok := enum.([]any); ok && len(options) > 0 {
			return options[w.rng.Intn(len(options))], nil
		}
	}
	if value, ok := node.Get("default"); ok {
		return value, nil
	}

	switch schemaType(node) {
	case "object":
		return w.object(node, path, depth)
	case "array":
		return w.array(node, path, depth)
	case "string":
		return w.text(node, path)
	case "integer":
		return w.integer(node, path)
	case "number":
		return w.number(node, path)
	case "boolean":
		return w.rng.Intn(2) == 1, nil
	default:
		return nil, nil
	}
}

// resolveRef follows a local JSON pointer such as "#/definitions/user"
// against the walker's document.
func (w *walker) resolveRef(ref any) (any, error) {
	pointer, ok := ref.(string)
	if !ok || !strings.HasPrefix(pointer, "#") {
		return nil, fmt.Errorf("%w: unsupported $ref %v", ErrReference, ref)
	}
	current := w.document
	for _, segment := range strings.Split(strings.TrimPrefix(pointer, "#"), "/") {
		if segment == "" {
			continue
		}
		segment = strings.ReplaceAll(strings.ReplaceAll(segment, "~1", "/"), "~0", "~")
		switch typed := current.(type) {
		case *schema.Node:
			next, ok := typed.Get(segment)
			if !ok {
				return nil, fmt.Errorf("%w: %s not found", ErrReference, pointer)
			}
			current = next
		case []any:
			idx, err := strconv.Atoi(segment)
			if err != nil || idx < 0 || idx >= len(typed) {
				return nil, fmt.Errorf("%w: %s not found", ErrReference, pointer)
			}
			current = typed[idx]
		default:
			return nil, fmt.Errorf("%w: %s not found", ErrReference, pointer)
		}
	}
	return current, nil
}

// schemaType picks the first non-null entry of a type list and infers object
// or array from properties and items when type is absent.
func schemaType(node *schema.Node) string {
	raw, _ := node.Get("type")
	switch typed := raw.(type) {
	case string:
		return typed
	case []any:
		for _, candidate := range typed {
			if name, ok := candidate.(string); ok && name != "null" {
				return name
			}
		}
		return "null"
	}
	if _, ok := node.Get("properties"); ok {
		return "object"
	}
	if _, ok := node.Get("items"); ok {
		return "array"
	}
	return ""
}

func (w *walker) object(node *schema.Node, path string, depth int) (any, error) {
	out := schema.NewNode()
	raw, _ := node.Get("properties")
	properties, _ := raw.(*schema.Node)

	var walkErr error
	properties.Range(func(key string, child any) bool {
		value, err := w.walk(child, path+"."+key, depth+1)
		if err != nil {
			walkErr = err
			return false
		}
		out.Set(key, value)
		return true
	})
	if walkErr != nil {
		return nil, walkErr
	}
	return out, nil
}

func (w *walker) array(node *schema.Node, path string, depth int) (any, error) {
	items, _ := node.Get("items")
	if tuple, ok := items.([]any); ok {
		out := make([]any, 0, len(tuple))
		for idx, item := range tuple {
			value, err := w.walk(item, fmt.Sprintf("%s[%d]", path, idx), depth+1)
			if err != nil {
				return nil, err
			}
			out = append(out, value)
		}
		return out, nil
	}

	lo, hi, err := countRange(node, "minItems", "maxItems", 1)
	if err != nil {
		return nil, fmt.Errorf("faker: %s: %w", path, err)
	}
	count := int(generators.Int64Between(w.rng, int64(lo), int64(hi)))
	out := make([]any, 0, count)
	for idx := 0; idx < count; idx++ {
		value, err := w.walk(items, fmt.Sprintf("%s[%d]", path, idx), depth+1)
		if err != nil {
			return nil, err
		}
		out = append(out, value)
	}
	return out, nil
}

func (w *walker) text(node *schema.Node, path string) (any, error) {
	format, _ := node.Get("format")
	switch format {
	case "date-time":
		return w.timestamp().Format(time.RFC3339), nil
	case "date":
		return w.timestamp().Format(time.DateOnly), nil
	}
	if name, ok := format.(string); ok {
		if gen, ok := formatGenerators[name]; ok {
			out, err := w.container.Resolve(gen.keyword, gen.spec, w.root)
			switch {
			case err == nil:
				return out, nil
			case !errors.Is(err, container.ErrLookup):
				return nil, fmt.Errorf("faker: %s: format %q: %w", path, name, err)
			}
		}
	}

	lo, hi, err := countRange(node, "minLength", "maxLength", 0)
	if err != nil {
		return nil, fmt.Errorf("faker: %s: %w", path, err)
	}
	out, err := w.word()
	if err != nil {
		return nil, fmt.Errorf("faker: %s: %w", path, err)
	}
	for utf8.RuneCountInString(out) < lo {
		next, err := w.word()
		if err != nil {
			return nil, fmt.Errorf("faker: %s: %w", path, err)
		}
		out += " " + next
	}
	if _, bounded := node.Get("maxLength"); bounded {
		out = truncateRunes(out, hi)
	}
	return out, nil
}

func (w *walker) word() (string, error) {
	out, err := w.container.Resolve("lorem", "word", w.root)
	if errors.Is(err, container.ErrLookup) {
		return "lorem", nil
	}
	if err != nil {
		return "", err
	}
	return template.Stringify(out), nil
}

func (w *walker) integer(node *schema.Node, path string) (any, error) {
	bounds, err := numericBounds(node)
	if err != nil {
		return nil, fmt.Errorf("faker: %s: %w", path, err)
	}
	lo := math.Ceil(bounds.lo)
	if bounds.exclusiveLo && lo == bounds.lo {
		lo++
	}
	hi := math.Floor(bounds.hi)
	if bounds.exclusiveHi && hi == bounds.hi {
		hi--
	}
	// values outside int64 are not representable; sample the overlap
	lo = math.Max(lo, math.MinInt64)
	hi = math.Min(hi, maxInt64Float)
	if hi < lo {
		return nil, fmt.Errorf("faker: %s: no integer within [%v, %v]", path, bounds.lo, bounds.hi)
	}

	unit := int64(1)
	if multiple, ok := numberKeyword(node, "multipleOf"); ok && multiple > 0 {
		unit, err = integralMultiple(multiple)
		if err != nil {
			return nil, fmt.Errorf("faker: %s: %w", path, err)
		}
	}
	first := ceilDiv(int64(lo), unit)
	last := floorDiv(int64(hi), unit)
	if last < first {
		return nil, fmt.Errorf("faker: %s: no multiple of %d within [%v, %v]", path, unit, bounds.lo, bounds.hi)
	}
	return int(generators.Int64Between(w.rng, first, last) * unit), nil
}

// maxInt64Float is the largest float64 below 2^63.
const maxInt64Float = float64(math.MaxInt64 - 1023)

// maxMultiplier caps the search for an integral multiple of a fractional step.
const maxMultiplier = 1 << 16

// integralMultiple returns the smallest positive integer that is a multiple
// of step, the lcm of 1 and step.
func integralMultiple(step float64) (int64, error) {
	for m := 1; m <= maxMultiplier; m++ {
		product := step * float64(m)
		rounded := math.Round(product)
		if rounded < 1 || math.Abs(product-rounded) > 1e-9*math.Max(1, rounded) {
			continue
		}
		if rounded > maxInt64Float {
			break
		}
		return int64(rounded), nil
	}
	return 0, fmt.Errorf("no integer is a multiple of %v", step)
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && a < 0 {
		q--
	}
	return q
}

func ceilDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && a > 0 {
		q++
	}
	return q
}

func (w *walker) number(node *schema.Node, path string) (any, error) {
	bounds, err := numericBounds(node)
	if err != nil {
		return nil, fmt.Errorf("faker: %s: %w", path, err)
	}
	if bounds.hi == bounds.lo {
		return bounds.lo, nil
	}
	value := bounds.lo + w.rng.Float64()*(bounds.hi-bounds.lo)
	if bounds.exclusiveLo && value == bounds.lo {
		value = (bounds.lo + bounds.hi) / 2
	}
	return value, nil
}

func (w *walker) timestamp() time.Time {
	offset := time.Duration(w.rng.Int63n(int64(timestampSpan / time.Second)))
	return timestampFloor.Add(offset * time.Second)
}

type interval struct {
	lo, hi                   float64
	exclusiveLo, exclusiveHi bool
}

// numericBounds reads minimum/maximum and both exclusive styles: the numeric
// form of draft 6 and later, and the boolean modifier of draft 4. A missing
// side defaults to 100 away from the other, or [0, 100] when both are absent.
func numericBounds(node *schema.Node) (interval, error) {
	var out interval
	lo, hasLo := numberKeyword(node, "minimum")
	hi, hasHi := numberKeyword(node, "maximum")

	if value, ok := numberKeyword(node, "exclusiveMinimum"); ok {
		lo, hasLo, out.exclusiveLo = value, true, true
	} else if flag, _ := node.Get("exclusiveMinimum"); flag == true {
		out.exclusiveLo = hasLo
	}
	if value, ok := numberKeyword(node, "exclusiveMaximum"); ok {
		hi, hasHi, out.exclusiveHi = value, true, true
	} else if flag, _ := node.Get("exclusiveMaximum"); flag == true {
		out.exclusiveHi = hasHi
	}

	switch {
	case hasLo && !hasHi:
		hi = lo + 100
	case hasHi && !hasLo:
		lo = hi - 100
	case !hasLo && !hasHi:
		lo, hi = 0, 100
	}
	if hi < lo {
		return interval{}, fmt.Errorf("maximum %v is below minimum %v", hi, lo)
	}
	out.lo, out.hi = lo, hi
	return out, nil
}

// countRange reads an inclusive size range such as minItems/maxItems. A
// missing upper bound allows two more than the lower one.
func countRange(node *schema.Node, minKey, maxKey string, fallback int) (int, int, error) {
	lo := fallback
	if value, ok := numberKeyword(node, minKey); ok {
		if !countable(value) {
			return 0, 0, fmt.Errorf("%s %v is not a valid count", minKey, value)
		}
		lo = int(value)
	}
	hi := lo + 2
	if value, ok := numberKeyword(node, maxKey); ok {
		if !countable(value) {
			return 0, 0, fmt.Errorf("%s %v is not a valid count", maxKey, value)
		}
		hi = int(value)
		if _, hasMin := node.Get(minKey); !hasMin && hi < lo {
			lo = hi
		}
	}
	if lo < 0 || hi < lo {
		return 0, 0, fmt.Errorf("invalid %s/%s range [%d, %d]", minKey, maxKey, lo, hi)
	}
	return lo, hi, nil
}

func countable(value float64) bool {
	return value == math.Trunc(value) && value >= 0 && value <= math.MaxInt32
}

// truncateRunes cuts text to at most limit characters.
func truncateRunes(text string, limit int) string {
	if utf8.RuneCountInString(text) <= limit {
		return text
	}
	return string([]rune(text)[:limit])
}

func numberKeyword(node *schema.Node, key string) (float64, bool) {
	raw, ok := node.Get(key)
	if !ok {
		return 0, false
	}
	switch typed := raw.(type) {
	case int:
		return float64(typed), true
	case int64:
		return float64(typed), true
	case float64:
		return typed, true
	default:
		return 0, false
	}
}
