package loader

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/goliatone/go-schemafaker/pkg/schema"
)

const payload = `{"type": "object", "properties": {"ip": {"x-net": "ipv4"}}}`

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "user.json")
	if err := os.WriteFile(path, []byte(payload), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	doc, err := New().Load(context.Background(), schema.SourceFromFile(path))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if string(doc.Raw()) != payload {
		t.Fatalf("unexpected payload %q", doc.Raw())
	}
	if doc.Location() != path {
		t.Fatalf("unexpected location %q", doc.Location())
	}

	if _, err := New().Load(context.Background(), schema.SourceFromFile(filepath.Join(t.TempDir(), "missing.json"))); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestLoad_FS(t *testing.T) {
	files := fstest.MapFS{"schemas/user.yaml": {Data: []byte("type: object\n")}}

	doc, err := New(WithFileSystem(files)).Load(context.Background(), schema.SourceFromFS("schemas/user.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	root, err := doc.Root()
	if err != nil {
		t.Fatalf("root: %v", err)
	}
	if value, _ := root.Get("type"); value != "object" {
		t.Fatalf("unexpected root %#v", value)
	}

	if _, err := New().Load(context.Background(), schema.SourceFromFS("schemas/user.yaml")); err == nil {
		t.Fatalf("expected error without fs")
	}
	if _, err := New(WithFileSystem(files)).Load(context.Background(), schema.SourceFromFS("../user.yaml")); err == nil {
		t.Fatalf("expected error for path outside the fs")
	}
}

func TestLoad_DirectoryRejected(t *testing.T) {
	_, err := New().Load(context.Background(), schema.SourceFromFile(t.TempDir()))
	if err == nil || !strings.Contains(err.Error(), "is a directory") {
		t.Fatalf("expected directory error, got %v", err)
	}
}

func TestLoad_HTTP(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing.json" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(payload))
	}))
	defer server.Close()

	src := schema.SourceFromURL(server.URL + "/user.json")

	if _, err := New().Load(context.Background(), src); err == nil || !strings.Contains(err.Error(), "disabled") {
		t.Fatalf("expected http disabled error, got %v", err)
	}

	loader := New(WithHTTP(time.Second))
	doc, err := loader.Load(context.Background(), src)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if string(doc.Raw()) != payload {
		t.Fatalf("unexpected payload %q", doc.Raw())
	}

	if _, err := loader.Load(context.Background(), schema.SourceFromURL(server.URL+"/missing.json")); err == nil {
		t.Fatalf("expected error for 404")
	}

	clientLoader := New(WithHTTPClient(server.Client()))
	if _, err := clientLoader.Load(context.Background(), src); err != nil {
		t.Fatalf("load with client: %v", err)
	}
}

func TestLoad_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := New().Load(ctx, schema.SourceFromFile("anything.json")); err == nil {
		t.Fatalf("expected context error")
	}
	if _, err := New().Load(ctx, nil); err == nil {
		t.Fatalf("expected error for nil source")
	}
}
