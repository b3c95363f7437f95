package schema_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-schemafaker/pkg/schema"
)

func TestDecode_PreservesKeyOrder(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		raw  string
	}{
		{name: "json", raw: `{"zeta": 1, "x-net": "ipv4", "alpha": {"b": 2, "a": 1}}`},
		{name: "json with tabs", raw: "{\n\t\"zeta\": 1,\n\t\"x-net\": \"ipv4\",\n\t\"alpha\": {\"b\": 2, \"a\": 1}\n}"},
		{name: "yaml", raw: "zeta: 1\nx-net: ipv4\nalpha:\n  b: 2\n  a: 1\n"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			node, err := schema.DecodeNode([]byte(tc.raw))
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if diff := cmp.Diff([]string{"zeta", "x-net", "alpha"}, node.Keys()); diff != "" {
				t.Fatalf("key order mismatch (-want +got):\n%s", diff)
			}
			alpha, _ := node.Get("alpha")
			if diff := cmp.Diff([]string{"b", "a"}, alpha.(*schema.Node).Keys()); diff != "" {
				t.Fatalf("nested key order mismatch (-want +got):\n%s", diff)
			}
			zeta, _ := node.Get("zeta")
			if zeta != 1 {
				t.Fatalf("expected int 1, got %#v", zeta)
			}
		})
	}
}

func TestDecode_Scalars(t *testing.T) {
	decoded, err := schema.Decode([]byte(`[1, 2.5, 1e3, "s", true, null, 9223372036854775808]`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := []any{1, 2.5, 1000.0, "s", true, nil, 9223372036854775808.0}
	if diff := cmp.Diff(want, decoded); diff != "" {
		t.Fatalf("scalar mismatch (-want +got):\n%s", diff)
	}
}

func TestDecode_Errors(t *testing.T) {
	if _, err := schema.Decode(nil); err == nil {
		t.Fatalf("expected error for empty payload")
	}
	if _, err := schema.Decode([]byte("a: [1, 2")); err == nil {
		t.Fatalf("expected error for broken yaml")
	}
	if _, err := schema.DecodeNode([]byte(`[1, 2]`)); err == nil {
		t.Fatalf("expected error for non-object root")
	}
}

func TestNode_SetKeepsPosition(t *testing.T) {
	node := schema.NodeOf("a", 1, "b", 2, "c", 3)
	node.Set("a", 10)
	node.Set("d", 4)
	node.Delete("b")

	if diff := cmp.Diff([]string{"a", "c", "d"}, node.Keys()); diff != "" {
		t.Fatalf("keys mismatch (-want +got):\n%s", diff)
	}
	if value, _ := node.Get("a"); value != 10 {
		t.Fatalf("expected overwritten value, got %#v", value)
	}

	var visited []string
	node.Range(func(key string, _ any) bool {
		visited = append(visited, key)
		return key != "c"
	})
	if diff := cmp.Diff([]string{"a", "c"}, visited); diff != "" {
		t.Fatalf("range should stop early (-want +got):\n%s", diff)
	}
}

func TestNode_MarshalKeepsOrder(t *testing.T) {
	node := schema.NodeOf("z", 1, "a", schema.NodeOf("y", "v", "b", []any{1, "two"}))

	encoded, err := json.Marshal(node)
	if err != nil {
		t.Fatalf("marshal json: %v", err)
	}
	if got, want := string(encoded), `{"z":1,"a":{"y":"v","b":[1,"two"]}}`; got != want {
		t.Fatalf("json mismatch: got %s want %s", got, want)
	}

	out, err := yaml.Marshal(node)
	if err != nil {
		t.Fatalf("marshal yaml: %v", err)
	}
	if !strings.HasPrefix(string(out), "z: 1\na:\n    y: v\n") {
		t.Fatalf("unexpected yaml:\n%s", out)
	}

	var back schema.Node
	if err := json.Unmarshal(encoded, &back); err != nil {
		t.Fatalf("unmarshal json: %v", err)
	}
	if diff := cmp.Diff([]string{"z", "a"}, back.Keys()); diff != "" {
		t.Fatalf("decoded keys mismatch (-want +got):\n%s", diff)
	}
}

func TestPick(t *testing.T) {
	t.Parallel()

	root := schema.NodeOf(
		"items", []any{schema.NodeOf("name", "first")},
		"meta", map[string]any{"tags": []any{"a", "b"}},
	)

	cases := []struct {
		path  string
		want  any
		found bool
	}{
		{path: "items.0.name", want: "first", found: true},
		{path: "meta.tags.1", want: "b", found: true},
		{path: "items.3.name"},
		{path: "meta.missing"},
		{path: "items.0.name.deeper"},
	}

	for _, tc := range cases {
		got, ok := schema.Pick(root, tc.path)
		if ok != tc.found || got != tc.want {
			t.Fatalf("Pick(%q) = %#v, %v; want %#v, %v", tc.path, got, ok, tc.want, tc.found)
		}
	}
}

func TestDocument_Root(t *testing.T) {
	doc := schema.MustNewDocument(schema.SourceFromFile("fixtures/user.json"), []byte(`{"type":"object"}`))

	root, err := doc.Root()
	if err != nil {
		t.Fatalf("root: %v", err)
	}
	if value, _ := root.Get("type"); value != "object" {
		t.Fatalf("unexpected root: %#v", value)
	}

	broken := schema.MustNewDocument(schema.SourceFromFile("broken.json"), []byte(`[1]`))
	if _, err := broken.Root(); err == nil || !strings.Contains(err.Error(), "broken.json") {
		t.Fatalf("expected error naming the location, got %v", err)
	}
}

func TestParseSource(t *testing.T) {
	src, err := schema.ParseSource("https://example.com/openapi.yaml")
	if err != nil {
		t.Fatalf("parse url: %v", err)
	}
	if src.Kind() != schema.SourceKindURL {
		t.Fatalf("expected url source, got %s", src.Kind())
	}

	src, err = schema.ParseSource("./schemas/../user.json")
	if err != nil {
		t.Fatalf("parse file: %v", err)
	}
	if src.Kind() != schema.SourceKindFile || src.Location() != "user.json" {
		t.Fatalf("unexpected file source: %s %s", src.Kind(), src.Location())
	}

	if _, err := schema.ParseSource("  "); err == nil {
		t.Fatalf("expected error for empty location")
	}
}
