package schema

import (
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
)

// Source names a schema document: a path on disk, an entry in an fs.FS, or
// an http(s) URL.
type Source interface {
	Kind() SourceKind
	Location() string
}

// SourceKind selects the loader strategy for a Source.
type SourceKind string

const (
	SourceKindFile SourceKind = "file"
	SourceKindFS   SourceKind = "fs"
	SourceKindURL  SourceKind = "url"
)

type location struct {
	kind SourceKind
	at   string
}

func (l location) Kind() SourceKind { return l.kind }
func (l location) Location() string { return l.at }

func (l location) String() string {
	return string(l.kind) + ":" + l.at
}

// SourceFromFile points at a schema file. The path is cleaned.
func SourceFromFile(path string) Source {
	return location{kind: SourceKindFile, at: filepath.Clean(path)}
}

// SourceFromFS points at name inside the loader's fs.FS.
func SourceFromFS(name string) Source {
	return location{kind: SourceKindFS, at: name}
}

// SourceFromURL points at a remote schema. It panics on a malformed URL;
// use ParseSource for user input.
func SourceFromURL(raw string) Source {
	src, err := urlLocation(raw)
	if err != nil {
		panic(err.Error())
	}
	return src
}

// ParseSource reads a schema argument: http:// and https:// prefixes select
// a URL, anything else is a file path.
func ParseSource(raw string) (Source, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, errors.New("schema: source location is required")
	}
	if strings.HasPrefix(trimmed, "http://") || strings.HasPrefix(trimmed, "https://") {
		return urlLocation(trimmed)
	}
	return SourceFromFile(trimmed), nil
}

func urlLocation(raw string) (Source, error) {
	if raw == "" {
		return nil, errors.New("schema: empty URL source")
	}
	if _, err := url.ParseRequestURI(raw); err != nil {
		return nil, fmt.Errorf("schema: invalid URL %q: %w", raw, err)
	}
	return location{kind: SourceKindURL, at: raw}, nil
}
