package formspec

import (
	"context"

	"github.com/goliatone/go-formspec/pkg/editor"
	"github.com/goliatone/go-formspec/pkg/orchestrator"
	"github.com/goliatone/go-formspec/pkg/render"
	"github.com/goliatone/go-formspec/pkg/source"
	"github.com/goliatone/go-formspec/pkg/spec"
)

// FormSpec aliases spec.FormSpec for callers that only import the root
// package.
type FormSpec = spec.FormSpec

// RenderOptions carries the submit URL, captcha settings and hidden inputs
// handed to every renderer.
type RenderOptions = render.RenderOptions

// ValidationError is returned when a spec fails structural validation
// before rendering.
type ValidationError = orchestrator.ValidationError

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// GenerateHTML loads the spec behind src, validates it and renders it with
// the named renderer ("" selects the v2 HTML generator).
func GenerateHTML(ctx context.Context, src source.Source, rendererName string, opts RenderOptions, options ...orchestrator.Option) ([]byte, error) {
	gen := orchestrator.New(options...)
	return gen.Generate(ctx, orchestrator.Request{
		Source:        src,
		Renderer:      rendererName,
		RenderOptions: opts,
	})
}

// GenerateHTMLFromText renders inline spec TOML, bypassing the loader.
func GenerateHTMLFromText(ctx context.Context, text, rendererName string, opts RenderOptions, options ...orchestrator.Option) ([]byte, error) {
	gen := orchestrator.New(options...)
	return gen.Generate(ctx, orchestrator.Request{
		Text:          &text,
		Renderer:      rendererName,
		RenderOptions: opts,
	})
}

// NewEditor returns an editor seeded with text. Blank text leaves it
// uninitialised.
func NewEditor(text string, options ...editor.Option) (*editor.Editor, error) {
	ed := editor.New(options...)
	if err := ed.Load(text); err != nil {
		return nil, err
	}
	return ed, nil
}
