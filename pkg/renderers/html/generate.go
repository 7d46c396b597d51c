package html

import (
	"context"
	stdhtml "html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-formspec/pkg/render"
	"github.com/goliatone/go-formspec/pkg/spec"
)

var (
	helpPolicyOnce sync.Once
	helpPolicy     *bluemonday.Policy
)

// Generate renders form as an HTML <form> element. Fields appear in map
// order; each visible field gets a <label> (with " *" when required) before
// its control and a <small> help line after it. The enctype switches to
// multipart/form-data when any field is a file input. With captcha enabled an
// <altcha-widget> precedes the submit button.
//
// The spec is assumed to be valid.
func Generate(form *spec.FormSpec, options render.RenderOptions) string {
	return generate(form, options, dialect{
		attr:        stdhtml.EscapeString,
		text:        stdhtml.EscapeString,
		help:        sanitizeHelp,
		constraints: true,
		hidden:      true,
	})
}

// sanitizeHelp lets authors keep simple inline markup (links, emphasis) in
// help text while stripping everything else.
func sanitizeHelp(raw string) string {
	helpPolicyOnce.Do(func() {
		policy := bluemonday.NewPolicy()
		policy.AllowElements("strong", "em", "b", "i", "code", "br")
		policy.AllowAttrs("href").OnElements("a")
		policy.AllowStandardURLs()
		policy.RequireNoFollowOnLinks(true)
		helpPolicy = policy
	})
	return strings.TrimSpace(helpPolicy.Sanitize(raw))
}

// Renderer exposes Generate through the render.Renderer contract.
type Renderer struct{}

// New returns the current HTML renderer.
func New() *Renderer { return &Renderer{} }

// Name implements render.Renderer.
func (*Renderer) Name() string { return "html" }

// ContentType implements render.Renderer.
func (*Renderer) ContentType() string { return "text/html; charset=utf-8" }

// Render implements render.Renderer.
func (*Renderer) Render(ctx context.Context, form *spec.FormSpec, options render.RenderOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return []byte(Generate(form, options)), nil
}
