package validation

import (
	"context"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-schemafaker/pkg/faker"
	"github.com/goliatone/go-schemafaker/pkg/generators"
	"github.com/goliatone/go-schemafaker/pkg/schema"
)

const accountSchema = `{
  "type": "object",
  "required": ["age", "name"],
  "properties": {
    "name": {"type": "string", "x-name": "full"},
    "age": {"type": "integer", "minimum": 18, "maximum": 99},
    "ip": {"type": "string", "x-net": "ipv4"},
    "tags": {"type": "array", "items": {"type": "string"}, "maxItems": 4}
  }
}`

func TestValidateSample_Valid(t *testing.T) {
	sample := schema.NodeOf("name", "Ada Osei", "age", 30, "tags", []any{"a"})

	result, err := ValidateSample([]byte(accountSchema), sample)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if !result.Valid {
		t.Fatalf("expected sample to be valid: %#v", result.Issues)
	}
	if result.Error() != nil {
		t.Fatalf("valid result should not produce an error")
	}
}

func TestValidateSample_FieldPath(t *testing.T) {
	sample := schema.NodeOf("name", "Ada Osei", "age", 10)

	result, err := ValidateSample([]byte(accountSchema), sample)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if result.Valid || len(result.Issues) == 0 {
		t.Fatalf("expected issues for underage sample")
	}
	if got := result.Issues[0].Field; got != "age" {
		t.Fatalf("expected field age, got %q", got)
	}
	if got := result.Issues[0].Path; got != "/age" {
		t.Fatalf("expected path /age, got %q", got)
	}
	if result.Error() == nil {
		t.Fatalf("invalid result should produce an error")
	}
}

func TestValidateSample_CollectsAllIssues(t *testing.T) {
	sample := schema.NodeOf("age", "old", "tags", []any{1, 2, 3, 4, 5})

	result, err := ValidateSample([]byte(accountSchema), sample)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if len(result.Issues) < 2 {
		t.Fatalf("expected several issues, got %#v", result.Issues)
	}
}

func TestValidateSample_BadInput(t *testing.T) {
	if _, err := ValidateSample(nil, nil); err == nil {
		t.Fatalf("expected error for empty schema")
	}
	if _, err := ValidateSample([]byte(`{"type":`), nil); err == nil {
		t.Fatalf("expected error for broken schema")
	}
	if _, err := ValidateNode(nil, nil); err == nil {
		t.Fatalf("expected error for nil node")
	}
}

func TestValidateNode_GeneratedSamples(t *testing.T) {
	root, err := schema.DecodeNode([]byte(accountSchema))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	rng := generators.NewRand(5)
	g := faker.New(faker.WithRand(rng), faker.WithContainer(generators.NewContainer(rng)))

	samples, err := g.GenerateN(context.Background(), root, 10)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	for idx, sample := range samples {
		result, err := ValidateNode(root, sample)
		if err != nil {
			t.Fatalf("validate %d: %v", idx, err)
		}
		if !result.Valid {
			t.Fatalf("sample %d invalid: %#v", idx, result.Issues)
		}
	}
}

func TestValidate_LoadedSchema(t *testing.T) {
	minimum := 1.0
	target := &openapi3.Schema{
		Type: &openapi3.Types{openapi3.TypeInteger},
		Min:  &minimum,
	}

	result, err := Validate(target, 0)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if result.Valid || len(result.Issues) != 1 {
		t.Fatalf("expected one issue, got %#v", result)
	}
	if _, err := Validate(nil, 1); err == nil {
		t.Fatalf("expected error for nil schema")
	}
}
