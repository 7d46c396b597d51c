package render

import (
	"context"

	"github.com/goliatone/go-formspec/pkg/spec"
)

// Renderer converts a validated FormSpec into an artifact (HTML snippet, shell
// command, prompt text). Renderers do not re-validate their input: feeding an
// invalid spec is a caller error and may produce malformed output.
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, form *spec.FormSpec, options RenderOptions) ([]byte, error)
}

// RendererFunc adapts a pure generator into a Renderer.
type RendererFunc struct {
	RendererName string
	Type         string
	Fn           func(form *spec.FormSpec, options RenderOptions) string
}

// Name returns the registry name.
func (r RendererFunc) Name() string { return r.RendererName }

// ContentType returns the artifact media type.
func (r RendererFunc) ContentType() string { return r.Type }

// Render calls Fn after checking the context.
func (r RendererFunc) Render(ctx context.Context, form *spec.FormSpec, options RenderOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return []byte(r.Fn(form, options)), nil
}
