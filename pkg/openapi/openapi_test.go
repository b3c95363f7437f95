package openapi

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const petstore = `openapi: 3.0.3
info:
  title: Pets
  version: 1.0.0
paths: {}
components:
  schemas:
    Pet:
      type: object
      properties:
        name:
          type: string
          x-name: first
        id:
          type: integer
        address:
          type: string
          x-net: ipv4
    Owner:
      type: object
      properties:
        email:
          type: string
          format: email
`

func TestDetect(t *testing.T) {
	cases := map[string]bool{
		petstore:                       true,
		`{"openapi": "3.1.0"}`:         true,
		`{"swagger": "2.0"}`:           true,
		`{"type": "object"}`:           false,
		"type: object\nproperties: {}": false,
		"":                             false,
	}
	for raw, want := range cases {
		if got := Detect([]byte(raw)); got != want {
			t.Fatalf("Detect(%q) = %v, want %v", raw, got, want)
		}
	}
}

func TestComponents(t *testing.T) {
	names, err := Components(context.Background(), []byte(petstore))
	if err != nil {
		t.Fatalf("components: %v", err)
	}
	if diff := cmp.Diff([]string{"Owner", "Pet"}, names); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
}

func TestComponent_KeepsPropertyOrder(t *testing.T) {
	node, err := Component(context.Background(), []byte(petstore), "Pet")
	if err != nil {
		t.Fatalf("component: %v", err)
	}
	raw, _ := node.Get("properties")
	properties, ok := raw.(interface{ Keys() []string })
	if !ok {
		t.Fatalf("expected properties object, got %T", raw)
	}
	if diff := cmp.Diff([]string{"name", "id", "address"}, properties.Keys()); diff != "" {
		t.Fatalf("property order mismatch (-want +got):\n%s", diff)
	}
}

func TestComponent_Errors(t *testing.T) {
	ctx := context.Background()
	if _, err := Component(ctx, []byte(petstore), "Missing"); err == nil {
		t.Fatalf("expected error for unknown component")
	}
	if _, err := Component(ctx, []byte(petstore), " "); err == nil {
		t.Fatalf("expected error for empty name")
	}
	if _, err := Components(ctx, []byte(`{"openapi": "3.0.3", "info": {"title": "x", "version": "1"}, "paths": {}}`)); err == nil {
		t.Fatalf("expected error for document without components")
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	if _, err := Components(cancelled, []byte(petstore)); err == nil {
		t.Fatalf("expected error for cancelled context")
	}
}

func TestSchema(t *testing.T) {
	ctx := context.Background()

	pet, err := Schema(ctx, []byte(petstore), "Pet")
	if err != nil {
		t.Fatalf("schema: %v", err)
	}
	if _, ok := pet.Properties["address"]; !ok {
		t.Fatalf("expected address property, got %v", pet.Properties)
	}
	if _, err := Schema(ctx, []byte(petstore), "Nope"); err == nil {
		t.Fatalf("expected error for unknown component")
	}
}
