// Package curl builds copyable curl commands that submit sample data to a
// form's digest endpoint, either form-encoded or as a JSON body.
package curl

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/goliatone/go-formspec/pkg/render"
	"github.com/goliatone/go-formspec/pkg/spec"
)

// sample is one field's example payload.
type sample struct {
	key    string
	name   string
	values []string
	multi  bool
}

// FormEncoded renders `curl -X POST <url> --data-urlencode key=value ...`.
// curl percent-encodes each value, so &, = and + in sample data survive.
// Multi-valued choice fields repeat `key[]=value` once per option. A field's
// value is its explicit value, else its options; fields with neither are
// omitted.
func FormEncoded(form *spec.FormSpec, options render.RenderOptions) string {
	var flags []string
	for _, s := range samples(form, false) {
		for _, value := range s.values {
			flags = append(flags, "--data-urlencode "+ShellQuote(s.name+"="+value))
		}
	}
	return command(options.SubmitURL, nil, flags)
}

// JSON renders a curl command posting one JSON object. Multi-valued choice
// fields become arrays. Value precedence is explicit value, then options, then
// placeholder.
func JSON(form *spec.FormSpec, options render.RenderOptions) string {
	var body bytes.Buffer
	body.WriteByte('{')
	for i, s := range samples(form, true) {
		if i > 0 {
			body.WriteByte(',')
		}
		key, _ := json.Marshal(s.key)
		body.Write(key)
		body.WriteByte(':')
		var value []byte
		if s.multi {
			value, _ = json.Marshal(s.values)
		} else {
			value, _ = json.Marshal(s.values[0])
		}
		body.Write(value)
	}
	body.WriteByte('}')

	headers := []string{"-H " + ShellQuote("Content-Type: application/json")}
	return command(options.SubmitURL, headers, []string{"-d " + ShellQuote(body.String())})
}

func samples(form *spec.FormSpec, usePlaceholder bool) []sample {
	if form == nil {
		return nil
	}
	var out []sample
	for key, field := range form.Fields.All() {
		if field.Field == spec.FieldSubmit || field.Field == spec.FieldFile {
			continue
		}
		multi := spec.MultiValued(field)
		options := spec.OptionList(field.Options)

		var values []string
		switch {
		case field.Value != "":
			values = []string{field.Value}
		case len(options) > 0 && multi:
			values = options
		case len(options) > 0:
			values = options[:1]
		case usePlaceholder && field.Placeholder != "":
			values = []string{field.Placeholder}
		default:
			continue
		}
		out = append(out, sample{key: key, name: spec.SubmittedName(key, field), values: values, multi: multi})
	}
	return out
}

func command(url string, headers, flags []string) string {
	lines := []string{"curl -X POST " + ShellQuote(url)}
	lines = append(lines, headers...)
	lines = append(lines, flags...)
	return strings.Join(lines, " \\\n  ") + "\n"
}

// ShellQuote wraps s in single quotes for POSIX shells.
func ShellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// Renderers returns the form-encoded ("curl") and JSON ("curl-json")
// variants.
func Renderers() []render.Renderer {
	return []render.Renderer{
		render.RendererFunc{RendererName: "curl", Type: "text/plain; charset=utf-8", Fn: FormEncoded},
		render.RendererFunc{RendererName: "curl-json", Type: "text/plain; charset=utf-8", Fn: JSON},
	}
}
