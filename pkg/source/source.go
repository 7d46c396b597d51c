package source

import (
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
)

// Kind enumerates the loader modalities.
type Kind string

const (
	KindFile Kind = "file"
	KindFS   Kind = "fs"
	KindURL  Kind = "url"
)

// Source identifies where a spec document originated.
type Source interface {
	Kind() Kind
	Location() string
}

type fileSource struct{ path string }

func (s fileSource) Location() string { return s.path }
func (s fileSource) Kind() Kind       { return KindFile }

// FromFile returns a Source pointing to a file path.
func FromFile(path string) Source {
	return fileSource{path: filepath.Clean(path)}
}

type fsSource struct{ name string }

func (s fsSource) Location() string { return s.name }
func (s fsSource) Kind() Kind       { return KindFS }

// FromFS returns a Source naming an entry inside the loader's fs.FS.
func FromFS(name string) Source {
	return fsSource{name: name}
}

type urlSource struct{ raw string }

func (s urlSource) Location() string { return s.raw }
func (s urlSource) Kind() Kind       { return KindURL }

// FromURL validates raw and returns an HTTP(S) Source.
func FromURL(raw string) (Source, error) {
	if raw == "" {
		return nil, errors.New("source: empty URL")
	}
	parsed, err := url.ParseRequestURI(raw)
	if err != nil {
		return nil, fmt.Errorf("source: invalid URL %q: %w", raw, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("source: unsupported URL scheme %q", parsed.Scheme)
	}
	return urlSource{raw: raw}, nil
}

// Parse picks a Source kind from a command-line style reference: http(s)
// URLs become URL sources, everything else a file path.
func Parse(ref string) (Source, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, errors.New("source: reference is required")
	}
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return FromURL(ref)
	}
	return FromFile(ref), nil
}

// Document is the raw spec text plus its origin.
type Document struct {
	source Source
	raw    []byte
}

// NewDocument wraps raw. Empty documents are allowed: a blank spec means no
// field-level validation is configured.
func NewDocument(src Source, raw []byte) (Document, error) {
	if src == nil {
		return Document{}, errors.New("source: source is required")
	}
	return Document{source: src, raw: append([]byte(nil), raw...)}, nil
}

// Source returns the origin metadata.
func (d Document) Source() Source { return d.source }

// Raw returns a copy of the document bytes.
func (d Document) Raw() []byte { return append([]byte(nil), d.raw...) }

// Text returns the document as a string.
func (d Document) Text() string { return string(d.raw) }

// Location is shorthand for Source().Location().
func (d Document) Location() string {
	if d.source == nil {
		return ""
	}
	return d.source.Location()
}
