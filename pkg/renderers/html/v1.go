package html

import (
	"strings"

	"github.com/goliatone/go-formspec/pkg/render"
	"github.com/goliatone/go-formspec/pkg/spec"
)

// GenerateV1 renders form with the first-generation markup: the same
// structure as Generate, but only double quotes are escaped inside attribute
// values, text is written verbatim, and neither constraint attributes nor
// extra hidden inputs are emitted.
//
// Deprecated: use Generate. GenerateV1 only exists to compare against forms
// that were generated and stored with the old output.
func GenerateV1(form *spec.FormSpec, options render.RenderOptions) string {
	return generate(form, options, dialect{
		attr: escapeQuotesV1,
		text: identity,
		help: identity,
	})
}

func escapeQuotesV1(s string) string {
	return strings.ReplaceAll(s, `"`, "&quot;")
}

func identity(s string) string { return s }

// V1Renderer registers GenerateV1 as "html-v1".
//
// Deprecated: use Renderer.
func V1Renderer() render.Renderer {
	return render.RendererFunc{
		RendererName: "html-v1",
		Type:         "text/html; charset=utf-8",
		Fn:           GenerateV1,
	}
}
