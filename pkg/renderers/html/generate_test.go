package html

import (
	"context"
	"regexp"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formspec/pkg/render"
	"github.com/goliatone/go-formspec/pkg/spec"
)

func buildSpec(fields ...spec.FormField) *spec.FormSpec {
	out := &spec.FormSpec{Settings: spec.FormSettings{DiscardAdditionalFields: spec.Bool(true)}}
	for _, field := range fields {
		out.Fields.Set(field.Name, field)
	}
	return out
}

var (
	inputNamePattern = regexp.MustCompile(`<input[^>]* name="([^"]+)"`)
	labelForPattern  = regexp.MustCompile(`<label for="([^"]+)"`)
)

func matches(re *regexp.Regexp, s string) []string {
	var out []string
	for _, m := range re.FindAllStringSubmatch(s, -1) {
		out = append(out, m[1])
	}
	return out
}

func TestGenerateKeepsMapOrder(t *testing.T) {
	form := buildSpec(
		spec.FormField{Name: "b", Field: spec.FieldText, Label: "B"},
		spec.FormField{Name: "a", Field: spec.FieldText, Label: "A"},
		spec.FormField{Name: "c", Field: spec.FieldText, Label: "C"},
	)
	out := Generate(form, render.RenderOptions{SubmitURL: "https://api.example.com/digest/f1"})

	if diff := cmp.Diff([]string{"b", "a", "c"}, matches(inputNamePattern, out)); diff != "" {
		t.Fatalf("unexpected input order (-want +got):\n%s\n%s", diff, out)
	}
	if diff := cmp.Diff([]string{"b", "a", "c"}, matches(labelForPattern, out)); diff != "" {
		t.Fatalf("unexpected label order (-want +got):\n%s", diff)
	}
}

func TestGenerateFieldMarkup(t *testing.T) {
	form := buildSpec(
		spec.FormField{
			Name: "email", Field: spec.FieldEmail, Label: "Email", Required: true,
			Placeholder: "you@example.com", HelpText: "We reply within a day.",
		},
		spec.FormField{Name: "age", Field: spec.FieldNumber, IsMin: spec.Float(18), IsMax: spec.Float(99.5)},
		spec.FormField{Name: "bio", Field: spec.FieldTextarea, Value: "hi", IsMax: nil, IsMin: spec.Float(3)},
		spec.FormField{Name: "ref", Field: spec.FieldHidden, Value: "ad"},
		spec.FormField{Name: "when", Field: spec.FieldDatetime},
	)
	out := Generate(form, render.RenderOptions{SubmitURL: "/digest/f1"})

	for _, want := range []string{
		`<form action="/digest/f1" method="POST" enctype="application/x-www-form-urlencoded">`,
		`<label for="email">Email *</label>`,
		`<input type="email" id="email" name="email" placeholder="you@example.com" required>`,
		`<small>We reply within a day.</small>`,
		`<input type="number" id="age" name="age" min="18" max="99.5">`,
		`<textarea id="bio" name="bio" minlength="3">hi</textarea>`,
		`<input type="hidden" id="ref" name="ref" value="ad">`,
		`<input type="datetime-local" id="when" name="when">`,
		`<button type="submit">Submit</button>`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in:\n%s", want, out)
		}
	}
	if strings.Contains(out, `<label for="age"`) {
		t.Fatalf("fields without labels should not render a label:\n%s", out)
	}
}

func TestGenerateChoiceFields(t *testing.T) {
	form := buildSpec(
		spec.FormField{Name: "topic", Field: spec.FieldSelect, Label: "Topic", Options: "Sales, Support", Value: "Support", Placeholder: "Pick one"},
		spec.FormField{Name: "plan", Field: spec.FieldRadio, Options: "Free,Pro", Required: true},
		spec.FormField{Name: "tags", Field: spec.FieldCheckbox, Options: "a,b", Multiple: true},
	)
	out := Generate(form, render.RenderOptions{})

	for _, want := range []string{
		`<select id="topic" name="topic">`,
		`<option value="">Pick one</option>`,
		`<option value="Sales">Sales</option>`,
		`<option value="Support" selected>Support</option>`,
		`<label><input type="radio" id="plan" name="plan" value="Free" required> Free</label>`,
		`<label><input type="radio" id="plan_1" name="plan" value="Pro" required> Pro</label>`,
		`<label><input type="checkbox" id="tags_1" name="tags[]" value="b"> b</label>`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in:\n%s", want, out)
		}
	}
}

func TestGenerateMultipartWhenFilePresent(t *testing.T) {
	form := buildSpec(spec.FormField{Name: "cv", Field: spec.FieldFile, Multiple: true})
	out := Generate(form, render.RenderOptions{})
	if !strings.Contains(out, `enctype="multipart/form-data"`) {
		t.Fatalf("expected multipart enctype:\n%s", out)
	}
	if !strings.Contains(out, `<input type="file" id="cv" name="cv" multiple>`) {
		t.Fatalf("expected multiple file input:\n%s", out)
	}
}

func TestGenerateCaptchaBeforeSubmit(t *testing.T) {
	options := render.RenderOptions{CaptchaEnabled: true, ChallengeURL: "https://api.example.com/forms/f1/challenge/altcha"}

	withoutSubmit := Generate(buildSpec(spec.FormField{Name: "a", Field: spec.FieldText}), options)
	widget := strings.Index(withoutSubmit, `<altcha-widget challengeurl="https://api.example.com/forms/f1/challenge/altcha"></altcha-widget>`)
	button := strings.Index(withoutSubmit, `<button type="submit">`)
	if widget < 0 || button < 0 || widget > button {
		t.Fatalf("expected widget before default submit button:\n%s", withoutSubmit)
	}

	withSubmit := Generate(buildSpec(
		spec.FormField{Name: "send", Field: spec.FieldSubmit, Label: "Send it"},
		spec.FormField{Name: "a", Field: spec.FieldText},
	), options)
	widget = strings.Index(withSubmit, "<altcha-widget")
	button = strings.Index(withSubmit, `<button type="submit">Send it</button>`)
	if widget < 0 || button < 0 || widget > button {
		t.Fatalf("expected widget before declared submit field:\n%s", withSubmit)
	}
	if strings.Count(withSubmit, "<button") != 1 || strings.Count(withSubmit, "<altcha-widget") != 1 {
		t.Fatalf("expected exactly one button and one widget:\n%s", withSubmit)
	}

	plain := Generate(buildSpec(spec.FormField{Name: "a", Field: spec.FieldText}), render.RenderOptions{})
	if strings.Contains(plain, "altcha") {
		t.Fatalf("captcha disabled should not emit widget:\n%s", plain)
	}
}

func TestGenerateHiddenOptions(t *testing.T) {
	out := Generate(buildSpec(), render.RenderOptions{
		Hidden: render.MergeHiddenFields(nil, render.RedirectField("https://example.com/thanks?a=1&b=2")),
	})
	want := `<input type="hidden" name="_redirect" value="https://example.com/thanks?a=1&amp;b=2">`
	if !strings.Contains(out, want) {
		t.Fatalf("expected %q in:\n%s", want, out)
	}
}

func TestGenerateEscapingDiffersFromV1(t *testing.T) {
	form := buildSpec(spec.FormField{
		Name: "q", Field: spec.FieldText, Label: `Fish & "Chips"`,
		HelpText: `See <a href="https://example.com/faq" onclick="x()">FAQ</a><script>alert(1)</script>`,
	})
	options := render.RenderOptions{SubmitURL: "/digest/f?x=1&y=2"}

	v2 := Generate(form, options)
	if !strings.Contains(v2, `<label for="q">Fish &amp; &#34;Chips&#34;</label>`) {
		t.Fatalf("expected escaped label in v2:\n%s", v2)
	}
	if strings.Contains(v2, "<script>") || strings.Contains(v2, "onclick") {
		t.Fatalf("expected sanitized help text in v2:\n%s", v2)
	}
	if !strings.Contains(v2, `href="https://example.com/faq"`) {
		t.Fatalf("expected link to survive sanitizing:\n%s", v2)
	}
	if !strings.Contains(v2, `action="/digest/f?x=1&amp;y=2"`) {
		t.Fatalf("expected escaped action in v2:\n%s", v2)
	}

	v1 := GenerateV1(form, options)
	if !strings.Contains(v1, `<label for="q">Fish & "Chips"</label>`) {
		t.Fatalf("expected raw label in v1:\n%s", v1)
	}
	if !strings.Contains(v1, `action="/digest/f?x=1&y=2"`) {
		t.Fatalf("expected unescaped ampersand in v1 action:\n%s", v1)
	}
	if v1 == v2 {
		t.Fatalf("expected v1 and v2 output to differ")
	}
}

func TestGenerateV1OmitsConstraints(t *testing.T) {
	form := buildSpec(spec.FormField{Name: "n", Field: spec.FieldNumber, IsMin: spec.Float(1)})
	if out := GenerateV1(form, render.RenderOptions{}); strings.Contains(out, "min=") {
		t.Fatalf("v1 does not emit constraint attributes:\n%s", out)
	}
}

func TestRenderers(t *testing.T) {
	form := buildSpec(spec.FormField{Name: "a", Field: spec.FieldText})
	for _, r := range []render.Renderer{New(), V1Renderer()} {
		out, err := r.Render(context.Background(), form, render.RenderOptions{})
		if err != nil {
			t.Fatalf("%s render: %v", r.Name(), err)
		}
		if !strings.HasPrefix(string(out), "<form") {
			t.Fatalf("%s: unexpected output %q", r.Name(), out)
		}
	}
}
