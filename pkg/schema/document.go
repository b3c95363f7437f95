package schema

import (
	"errors"
	"fmt"
)

// Document is a loaded schema payload and the Source it came from. The
// payload is kept undecoded; Root parses it on demand.
type Document struct {
	source Source
	raw    []byte
}

// NewDocument copies raw. Both arguments are required.
func NewDocument(src Source, raw []byte) (Document, error) {
	switch {
	case src == nil:
		return Document{}, errors.New("schema: source is required")
	case len(raw) == 0:
		return Document{}, fmt.Errorf("schema: %s is empty", src.Location())
	}
	return Document{source: src, raw: append([]byte(nil), raw...)}, nil
}

// MustNewDocument is NewDocument for fixtures.
func MustNewDocument(src Source, raw []byte) Document {
	doc, err := NewDocument(src, raw)
	if err != nil {
		panic(err)
	}
	return doc
}

func (d Document) Source() Source { return d.source }

// Raw returns a copy of the payload.
func (d Document) Raw() []byte {
	return append([]byte(nil), d.raw...)
}

// Location is the source location, or "" for a zero Document.
func (d Document) Location() string {
	if d.source == nil {
		return ""
	}
	return d.source.Location()
}

// Root decodes the payload into an ordered node. Each call returns a new
// tree.
func (d Document) Root() (*Node, error) {
	node, err := DecodeNode(d.raw)
	if err != nil {
		return nil, fmt.Errorf("%w (%s)", err, d.Location())
	}
	return node, nil
}
