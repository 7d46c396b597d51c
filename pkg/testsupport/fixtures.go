// Package testsupport holds fixture helpers shared by package tests.
package testsupport

import (
	"bytes"
	"context"
	"io"
	"os"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formspec/pkg/spec"
)

// LoadSpec reads a TOML fixture and decodes it, failing the test on error.
func LoadSpec(t *testing.T, path string) *spec.FormSpec {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read spec fixture: %v", err)
	}
	form, err := spec.Decode(string(data))
	if err != nil {
		t.Fatalf("decode spec fixture %s: %v", path, err)
	}
	return form
}

// LoadText reads a fixture as a string.
func LoadText(t *testing.T, path string) string {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	return string(data)
}

// CompareGolden returns a cmp diff, empty when want and got match. Specs
// compare by field order as well as content.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got, cmp.AllowUnexported(spec.Fields{}))
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// CaptureTemplateOutput runs a render function that also writes to an
// io.Writer and returns both the result and the writer contents.
func CaptureTemplateOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}
	return out, buf.String()
}
