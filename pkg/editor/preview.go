package editor

import (
	"github.com/goliatone/go-formspec/pkg/render"
	"github.com/goliatone/go-formspec/pkg/renderers/curl"
	"github.com/goliatone/go-formspec/pkg/renderers/html"
	"github.com/goliatone/go-formspec/pkg/renderers/prompt"
)

// PreviewHTML renders the live HTML preview of the current spec.
func (e *Editor) PreviewHTML(options render.RenderOptions) string {
	form := e.Spec()
	if form == nil {
		return ""
	}
	return html.Generate(form, options)
}

// PreviewCurl renders the form-encoded or JSON cURL example.
func (e *Editor) PreviewCurl(options render.RenderOptions, asJSON bool) string {
	form := e.Spec()
	if form == nil {
		return ""
	}
	if asJSON {
		return curl.JSON(form, options)
	}
	return curl.FormEncoded(form, options)
}

// PreviewPrompt renders the LLM instruction block.
func (e *Editor) PreviewPrompt(options render.RenderOptions) (string, error) {
	form := e.Spec()
	if form == nil {
		return "", nil
	}
	return prompt.Generate(form, options)
}
