package output

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-schemafaker/pkg/schema"
)

func sample() *schema.Node {
	return schema.NodeOf("name", "Ada <b>Osei</b>", "ip", "10.0.0.1", "tags", []any{"a", "b"})
}

func TestJSON_KeepsOrder(t *testing.T) {
	var buf bytes.Buffer
	if err := (JSON{Indent: "  "}).Encode(&buf, sample()); err != nil {
		t.Fatalf("encode: %v", err)
	}
	want := "{\n  \"name\": \"Ada <b>Osei</b>\",\n  \"ip\": \"10.0.0.1\",\n  \"tags\": [\n    \"a\",\n    \"b\"\n  ]\n}\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Fatalf("json mismatch (-want +got):\n%s", diff)
	}
}

func TestYAML_KeepsOrder(t *testing.T) {
	var buf bytes.Buffer
	if err := (YAML{Indent: 2}).Encode(&buf, []any{sample()}); err != nil {
		t.Fatalf("encode: %v", err)
	}
	want := "- name: Ada <b>Osei</b>\n  ip: 10.0.0.1\n  tags:\n    - a\n    - b\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Fatalf("yaml mismatch (-want +got):\n%s", diff)
	}
}

func TestTemplate(t *testing.T) {
	tmpl, err := NewTemplate(`{% for s in samples %}<p onclick="x()">{{ s.name|safe }} {{ s.ip }}</p>{% endfor %}`, false)
	if err != nil {
		t.Fatalf("new template: %v", err)
	}
	var buf bytes.Buffer
	if err := tmpl.Encode(&buf, []any{sample(), sample()}); err != nil {
		t.Fatalf("encode: %v", err)
	}
	if got := strings.Count(buf.String(), "onclick"); got != 2 {
		t.Fatalf("expected raw markup twice, got %q", buf.String())
	}

	sanitised, err := NewTemplate(`<p onclick="x()">{{ sample.name|safe }}</p><script>alert(1)</script>`, true)
	if err != nil {
		t.Fatalf("new template: %v", err)
	}
	buf.Reset()
	if err := sanitised.Encode(&buf, sample()); err != nil {
		t.Fatalf("encode: %v", err)
	}
	if got, want := buf.String(), "<p>Ada <b>Osei</b></p>"; got != want {
		t.Fatalf("sanitised output mismatch: got %q want %q", got, want)
	}
}

func TestTemplate_Errors(t *testing.T) {
	if _, err := NewTemplate("  ", false); err == nil {
		t.Fatalf("expected error for empty template")
	}
	if _, err := NewTemplate("{% for %}", false); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestRegistry(t *testing.T) {
	registry := Default()
	if diff := cmp.Diff([]string{"json", "yaml"}, registry.List()); diff != "" {
		t.Fatalf("encoders mismatch (-want +got):\n%s", diff)
	}
	if err := registry.Register(JSON{}); err == nil {
		t.Fatalf("expected duplicate registration error")
	}
	if _, err := registry.Get("xml"); err == nil {
		t.Fatalf("expected error for unknown encoder")
	}

	tmpl, err := NewTemplate("{{ sample.ip }}", false)
	if err != nil {
		t.Fatalf("new template: %v", err)
	}
	registry.MustRegister(tmpl)
	encoder, err := registry.Get("template")
	if err != nil {
		t.Fatalf("get template: %v", err)
	}
	var buf bytes.Buffer
	if err := encoder.Encode(&buf, sample()); err != nil {
		t.Fatalf("encode: %v", err)
	}
	if buf.String() != "10.0.0.1" {
		t.Fatalf("unexpected output %q", buf.String())
	}
}

func TestEngine_NamedTemplates(t *testing.T) {
	files := fstest.MapFS{
		"row.tpl":  {Data: []byte("{{ prefix }}{{ sample|tojson|safe }}")},
		"list.tpl": {Data: []byte(`{% for s in samples %}{% include "row.tpl" with sample=s %};{% endfor %}`)},
	}
	engine, err := NewEngine(WithFS(files), WithGlobalData(map[string]any{"prefix": "* "}))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	data := map[string]any{"sample": map[string]any{"id": 1}, "samples": []any{map[string]any{"id": 1}, map[string]any{"id": 2}}}
	got, err := engine.RenderTemplate("row", data)
	if err != nil {
		t.Fatalf("render row: %v", err)
	}
	if want := `* {"id":1}`; got != want {
		t.Fatalf("row mismatch: got %q want %q", got, want)
	}

	var buf bytes.Buffer
	if _, err := engine.Render("list.tpl", data, &buf); err != nil {
		t.Fatalf("render list: %v", err)
	}
	if want := `* {"id":1};* {"id":2};`; buf.String() != want {
		t.Fatalf("list mismatch: got %q want %q", buf.String(), want)
	}

	inline, err := engine.Render("{{ sample.id }}", data)
	if err != nil {
		t.Fatalf("render inline: %v", err)
	}
	if inline != "1" {
		t.Fatalf("inline mismatch: got %q", inline)
	}

	if _, err := engine.RenderTemplate("missing", data); err == nil {
		t.Fatalf("expected error for missing template")
	}
	if _, err := engine.RenderString("{{ sample }}", []any{1}); err == nil {
		t.Fatalf("expected error for non-object data")
	}
}

func TestNewTemplateFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ips.txt")
	if err := os.WriteFile(path, []byte("{% for s in samples %}{{ s.ip }}\n{% endfor %}"), 0o600); err != nil {
		t.Fatalf("write template: %v", err)
	}

	tmpl, err := NewTemplateFile(path, false)
	if err != nil {
		t.Fatalf("new template file: %v", err)
	}
	var buf bytes.Buffer
	if err := tmpl.Encode(&buf, []any{sample(), sample()}); err != nil {
		t.Fatalf("encode: %v", err)
	}
	if want := "10.0.0.1\n10.0.0.1\n"; buf.String() != want {
		t.Fatalf("output mismatch: got %q want %q", buf.String(), want)
	}

	if _, err := NewTemplateFile(filepath.Join(dir, "absent.txt"), false); err == nil {
		t.Fatalf("expected error for missing template file")
	}
}
