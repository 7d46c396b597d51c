package render

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formspec/pkg/spec"
)

func stubRenderer(name string) Renderer {
	return RendererFunc{
		RendererName: name,
		Type:         "text/plain",
		Fn: func(_ *spec.FormSpec, options RenderOptions) string {
			return name + ":" + options.SubmitURL
		},
	}
}

func TestRegistryDefaultsToFirstRegistered(t *testing.T) {
	reg := NewRegistry()
	reg.MustRegister(stubRenderer("html"))
	reg.MustRegister(stubRenderer("curl"))

	got, err := reg.Get("")
	if err != nil {
		t.Fatalf("get default: %v", err)
	}
	if got.Name() != "html" {
		t.Fatalf("expected html default, got %q", got.Name())
	}

	if err := reg.SetDefault("curl"); err != nil {
		t.Fatalf("set default: %v", err)
	}
	if reg.Default() != "curl" {
		t.Fatalf("expected curl default, got %q", reg.Default())
	}
	if err := reg.SetDefault("missing"); err == nil {
		t.Fatalf("expected error for unknown default")
	}
}

func TestRegistryRejectsDuplicates(t *testing.T) {
	reg := NewRegistry()
	reg.MustRegister(stubRenderer("html"))
	if err := reg.Register(stubRenderer("html")); err == nil {
		t.Fatalf("expected duplicate registration error")
	}
	if _, err := reg.Get("prompt"); !errors.Is(err, ErrRendererNotFound) {
		t.Fatalf("expected ErrRendererNotFound, got %v", err)
	}
	if diff := cmp.Diff([]string{"html"}, reg.List()); diff != "" {
		t.Fatalf("unexpected list (-want +got):\n%s", diff)
	}
}

func TestRegistryByContentType(t *testing.T) {
	reg := NewRegistry()
	reg.MustRegister(RendererFunc{RendererName: "html", Type: "text/html; charset=utf-8", Fn: func(*spec.FormSpec, RenderOptions) string { return "" }})
	reg.MustRegister(stubRenderer("curl"))
	reg.MustRegister(stubRenderer("prompt"))

	if diff := cmp.Diff([]string{"curl", "prompt"}, reg.ByContentType("TEXT/PLAIN")); diff != "" {
		t.Fatalf("unexpected plain renderers (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"html"}, reg.ByContentType("text/html")); diff != "" {
		t.Fatalf("unexpected html renderers (-want +got):\n%s", diff)
	}
}

func TestRendererFuncHonoursContext(t *testing.T) {
	r := stubRenderer("html")
	out, err := r.Render(context.Background(), &spec.FormSpec{}, RenderOptions{SubmitURL: "https://x"})
	if err != nil || string(out) != "html:https://x" {
		t.Fatalf("unexpected render result %q, %v", out, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := r.Render(ctx, &spec.FormSpec{}, RenderOptions{}); err == nil {
		t.Fatalf("expected cancelled context error")
	}
}

func TestHiddenFields(t *testing.T) {
	merged := MergeHiddenFields(map[string]string{" b ": "1"}, RedirectField("https://example.com/thanks"), Hidden("", "x"))
	got := SortedHiddenFields(merged)
	want := []HiddenField{
		{Name: RedirectFieldName, Value: "https://example.com/thanks"},
		{Name: "b", Value: "1"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected hidden fields (-want +got):\n%s", diff)
	}
	if MergeHiddenFields(nil) != nil {
		t.Fatalf("expected nil for empty merge")
	}
}
