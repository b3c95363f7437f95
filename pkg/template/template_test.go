package template_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-schemafaker/pkg/template"
)

func TestInterpolate(t *testing.T) {
	t.Parallel()

	ctx := template.MapContext{
		"name":    "Ada",
		"a.b":     "flat",
		"a":       map[string]any{"b": "nested"},
		"count":   3,
		"ratio":   0.5,
		"nothing": nil,
		"tags":    []any{"x", 2},
		"dash-ed": "ok",
	}

	cases := []struct {
		name  string
		input any
		want  any
	}{
		{name: "no placeholders", input: "plain text", want: "plain text"},
		{name: "single", input: "hi #{name}", want: "hi Ada"},
		{name: "repeated", input: "#{name}/#{name}", want: "Ada/Ada"},
		{name: "dotted key is flat", input: "#{a.b}", want: "flat"},
		{name: "numbers", input: "#{count}:#{ratio}", want: "3:0.5"},
		{name: "null", input: "#{nothing}", want: "null"},
		{name: "slice value", input: "#{tags}", want: "x,2"},
		{name: "dash", input: "#{dash-ed}", want: "ok"},
		{name: "non matching braces", input: "#{with space}", want: "#{with space}"},
		{name: "non string", input: 42, want: 42},
		{name: "sequence", input: []any{"#{name}", 1, []any{"#{count}"}}, want: []any{"Ada", 1, []any{"3"}}},
		{name: "empty sequence", input: []any{}, want: []any{}},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := template.Interpolate(tc.input, ctx)
			if err != nil {
				t.Fatalf("interpolate: %v", err)
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestInterpolate_Idempotent(t *testing.T) {
	ctx := template.MapContext{"a": "A"}
	once, err := template.Interpolate("#{a}-#{a}", ctx)
	if err != nil {
		t.Fatalf("interpolate: %v", err)
	}
	twice, err := template.Interpolate(once, ctx)
	if err != nil {
		t.Fatalf("interpolate: %v", err)
	}
	if once != twice {
		t.Fatalf("expected stable output, got %q then %q", once, twice)
	}
}

func TestInterpolate_DoesNotMutateInput(t *testing.T) {
	input := []any{"#{a}"}
	if _, err := template.Interpolate(input, template.MapContext{"a": "A"}); err != nil {
		t.Fatalf("interpolate: %v", err)
	}
	if input[0] != "#{a}" {
		t.Fatalf("input was modified: %#v", input)
	}
}

func TestInterpolate_MissingKey(t *testing.T) {
	_, err := template.Interpolate([]any{"ok", "#{gone}"}, template.MapContext{})
	var missing *template.MissingKeyError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingKeyError, got %v", err)
	}
	if missing.Key != "gone" || missing.Template != "#{gone}" {
		t.Fatalf("unexpected error fields: %#v", missing)
	}

	lenient := template.Interpolator{Missing: template.MissingLiteral}
	got, err := lenient.Interpolate("x=#{gone}", nil)
	if err != nil {
		t.Fatalf("interpolate: %v", err)
	}
	if got != "x=undefined" {
		t.Fatalf("expected literal undefined, got %#v", got)
	}
}

func TestParseMissingPolicy(t *testing.T) {
	cases := map[string]template.MissingPolicy{
		"":          template.MissingError,
		"error":     template.MissingError,
		"Literal":   template.MissingLiteral,
		"undefined": template.MissingLiteral,
	}
	for raw, want := range cases {
		got, err := template.ParseMissingPolicy(raw)
		if err != nil || got != want {
			t.Fatalf("ParseMissingPolicy(%q) = %v, %v", raw, got, err)
		}
	}
	if _, err := template.ParseMissingPolicy("ignore"); err == nil {
		t.Fatalf("expected error for unknown policy")
	}
}
