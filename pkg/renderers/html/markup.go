package html

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-formspec/pkg/render"
	"github.com/goliatone/go-formspec/pkg/spec"
)

const (
	enctypeMultipart  = "multipart/form-data"
	enctypeURLEncoded = "application/x-www-form-urlencoded"
	defaultSubmitText = "Submit"
)

// dialect captures what differs between generator generations.
type dialect struct {
	attr        func(string) string
	text        func(string) string
	help        func(string) string
	constraints bool
	hidden      bool
}

type formWriter struct {
	b       strings.Builder
	d       dialect
	captcha bool
	emitted bool
	url     string
}

func generate(form *spec.FormSpec, options render.RenderOptions, d dialect) string {
	w := &formWriter{d: d, captcha: options.CaptchaEnabled, url: options.ChallengeURL}

	w.b.WriteString(`<form action="`)
	w.b.WriteString(d.attr(options.SubmitURL))
	w.b.WriteString(`" method="POST" enctype="`)
	w.b.WriteString(enctypeFor(form))
	w.b.WriteString("\">\n")

	hasSubmit := false
	if form != nil {
		for key, field := range form.Fields.All() {
			if field.Field == spec.FieldSubmit {
				hasSubmit = true
				w.widget()
				w.submit(field)
				continue
			}
			w.field(key, field)
		}
	}

	if d.hidden {
		for _, hidden := range render.SortedHiddenFields(options.Hidden) {
			fmt.Fprintf(&w.b, "  <input type=\"hidden\" name=\"%s\" value=\"%s\">\n", d.attr(hidden.Name), d.attr(hidden.Value))
		}
	}

	if !hasSubmit {
		w.widget()
		w.b.WriteString("  <button type=\"submit\">" + defaultSubmitText + "</button>\n")
	}
	w.b.WriteString("</form>\n")
	return w.b.String()
}

func enctypeFor(form *spec.FormSpec) string {
	if form == nil {
		return enctypeURLEncoded
	}
	for _, field := range form.Fields.All() {
		if field.Field == spec.FieldFile {
			return enctypeMultipart
		}
	}
	return enctypeURLEncoded
}

func (w *formWriter) widget() {
	if !w.captcha || w.emitted {
		return
	}
	w.emitted = true
	w.b.WriteString(`  <altcha-widget challengeurl="`)
	w.b.WriteString(w.d.attr(w.url))
	w.b.WriteString("\"></altcha-widget>\n")
}

func (w *formWriter) submit(field spec.FormField) {
	text := field.Label
	if text == "" {
		text = field.Value
	}
	if text == "" {
		text = defaultSubmitText
	}
	w.b.WriteString("  <button type=\"submit\">")
	w.b.WriteString(w.d.text(text))
	w.b.WriteString("</button>\n")
}

func (w *formWriter) field(key string, field spec.FormField) {
	if field.Field == spec.FieldHidden {
		w.b.WriteString("  <input")
		w.attrs(key, field, "hidden")
		w.b.WriteString(">\n")
		return
	}

	w.b.WriteString("  <div>\n")
	if field.Label != "" {
		w.b.WriteString(`    <label for="`)
		w.b.WriteString(w.d.attr(key))
		w.b.WriteString(`">`)
		w.b.WriteString(w.d.text(field.Label))
		if field.Required {
			w.b.WriteString(" *")
		}
		w.b.WriteString("</label>\n")
	}

	switch field.Field {
	case spec.FieldSelect:
		w.selectControl(key, field)
	case spec.FieldRadio, spec.FieldCheckbox:
		w.choiceControl(key, field)
	case spec.FieldTextarea:
		w.b.WriteString("    <textarea")
		w.attrs(key, field, "")
		w.b.WriteString(">")
		w.b.WriteString(w.d.text(field.Value))
		w.b.WriteString("</textarea>\n")
	default:
		w.b.WriteString("    <input")
		w.attrs(key, field, inputType(field.Field))
		w.b.WriteString(">\n")
	}

	if field.HelpText != "" {
		w.b.WriteString("    <small>")
		w.b.WriteString(w.d.help(field.HelpText))
		w.b.WriteString("</small>\n")
	}
	w.b.WriteString("  </div>\n")
}

func (w *formWriter) selectControl(key string, field spec.FormField) {
	name := key
	if field.Multiple {
		name += "[]"
	}
	fmt.Fprintf(&w.b, `    <select id="%s" name="%s"`, w.d.attr(key), w.d.attr(name))
	w.flags(field, true)
	w.b.WriteString(">\n")
	if field.Placeholder != "" {
		fmt.Fprintf(&w.b, "      <option value=\"\">%s</option>\n", w.d.text(field.Placeholder))
	}
	selected := selectedSet(field.Value)
	for _, option := range spec.OptionList(field.Options) {
		fmt.Fprintf(&w.b, `      <option value="%s"`, w.d.attr(option))
		if _, ok := selected[option]; ok {
			w.b.WriteString(" selected")
		}
		fmt.Fprintf(&w.b, ">%s</option>\n", w.d.text(option))
	}
	w.b.WriteString("    </select>\n")
}

func (w *formWriter) choiceControl(key string, field spec.FormField) {
	name := key
	if field.Field == spec.FieldCheckbox && field.Multiple {
		name += "[]"
	}
	selected := selectedSet(field.Value)
	for i, option := range spec.OptionList(field.Options) {
		id := key
		if i > 0 {
			id = key + "_" + strconv.Itoa(i)
		}
		fmt.Fprintf(&w.b, `    <label><input type="%s" id="%s" name="%s" value="%s"`,
			field.Field, w.d.attr(id), w.d.attr(name), w.d.attr(option))
		if _, ok := selected[option]; ok {
			w.b.WriteString(" checked")
		}
		w.flags(field, false)
		fmt.Fprintf(&w.b, "> %s</label>\n", w.d.text(option))
	}
}

func (w *formWriter) attrs(key string, field spec.FormField, typ string) {
	if typ != "" {
		fmt.Fprintf(&w.b, ` type="%s"`, typ)
	}
	fmt.Fprintf(&w.b, ` id="%s" name="%s"`, w.d.attr(key), w.d.attr(key))
	if field.Placeholder != "" && typ != "hidden" {
		fmt.Fprintf(&w.b, ` placeholder="%s"`, w.d.attr(field.Placeholder))
	}
	if field.Value != "" && field.Field != spec.FieldTextarea {
		fmt.Fprintf(&w.b, ` value="%s"`, w.d.attr(field.Value))
	}
	if w.d.constraints {
		w.constraintAttrs(field)
	}
	w.flags(field, field.Field == spec.FieldFile || field.Field == spec.FieldEmail)
}

func (w *formWriter) constraintAttrs(field spec.FormField) {
	minAttr, maxAttr := "", ""
	switch field.Field {
	case spec.FieldNumber, spec.FieldDate:
		minAttr, maxAttr = "min", "max"
	case spec.FieldText, spec.FieldTextarea:
		minAttr, maxAttr = "minlength", "maxlength"
	}
	if minAttr != "" && field.IsMin != nil {
		fmt.Fprintf(&w.b, ` %s="%s"`, minAttr, formatNumber(*field.IsMin))
	}
	if maxAttr != "" && field.IsMax != nil {
		fmt.Fprintf(&w.b, ` %s="%s"`, maxAttr, formatNumber(*field.IsMax))
	}
	if field.IsPattern != nil && *field.IsPattern != "" {
		fmt.Fprintf(&w.b, ` pattern="%s"`, w.d.attr(*field.IsPattern))
	}
}

func (w *formWriter) flags(field spec.FormField, allowMultiple bool) {
	if field.Required {
		w.b.WriteString(" required")
	}
	if field.Disabled {
		w.b.WriteString(" disabled")
	}
	if field.ReadOnly {
		w.b.WriteString(" readonly")
	}
	if allowMultiple && field.Multiple {
		w.b.WriteString(" multiple")
	}
}

func inputType(t spec.FieldType) string {
	switch t {
	case spec.FieldNumber, spec.FieldDate, spec.FieldFile, spec.FieldTel,
		spec.FieldURL, spec.FieldEmail, spec.FieldHidden:
		return string(t)
	case spec.FieldDatetime:
		return "datetime-local"
	default:
		return "text"
	}
}

func selectedSet(value string) map[string]struct{} {
	out := make(map[string]struct{})
	for _, token := range spec.OptionList(value) {
		out[token] = struct{}{}
	}
	return out
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
