package generators

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// intArg reads args[idx] as an integer. Template-resolved arguments arrive as
// strings, so numeric text is accepted too.
func intArg(args []any, idx int, fallback int) (int, error) {
	if idx >= len(args) || args[idx] == nil {
		return fallback, nil
	}
	switch typed := args[idx].(type) {
	case int:
		return typed, nil
	case int64:
		return int(typed), nil
	case float64:
		if typed != math.Trunc(typed) {
			return 0, fmt.Errorf("argument %d: %v is not an integer", idx, typed)
		}
		if typed < math.MinInt64 || typed >= math.MaxInt64 {
			return 0, fmt.Errorf("argument %d: %v is out of range", idx, typed)
		}
		return int(typed), nil
	case string:
		parsed, err := strconv.Atoi(strings.TrimSpace(typed))
		if err != nil {
			return 0, fmt.Errorf("argument %d: %q is not an integer", idx, typed)
		}
		return parsed, nil
	default:
		return 0, fmt.Errorf("argument %d: unsupported %T", idx, typed)
	}
}

func floatArg(args []any, idx int, fallback float64) (float64, error) {
	if idx >= len(args) || args[idx] == nil {
		return fallback, nil
	}
	switch typed := args[idx].(type) {
	case int:
		return float64(typed), nil
	case int64:
		return float64(typed), nil
	case float64:
		return typed, nil
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(typed), 64)
		if err != nil {
			return 0, fmt.Errorf("argument %d: %q is not a number", idx, typed)
		}
		return parsed, nil
	default:
		return 0, fmt.Errorf("argument %d: unsupported %T", idx, typed)
	}
}

func stringArg(args []any, idx int, fallback string) string {
	if idx >= len(args) || args[idx] == nil {
		return fallback
	}
	if text, ok := args[idx].(string); ok {
		return text
	}
	return fmt.Sprint(args[idx])
}

// intRange reads an inclusive [lo, hi] pair, swapping reversed bounds.
func intRange(args []any, defaultLo, defaultHi int) (int, int, error) {
	lo, err := intArg(args, 0, defaultLo)
	if err != nil {
		return 0, 0, err
	}
	hi, err := intArg(args, 1, defaultHi)
	if err != nil {
		return 0, 0, err
	}
	if lo > hi {
		lo, hi = hi, lo
	}
	return lo, hi, nil
}
