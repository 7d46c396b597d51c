package submission

import (
	"net/url"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formspec/pkg/render"
	"github.com/goliatone/go-formspec/pkg/renderers/curl"
	"github.com/goliatone/go-formspec/pkg/spec"
)

func contactSpec() *spec.FormSpec {
	form := &spec.FormSpec{Settings: spec.FormSettings{DiscardAdditionalFields: spec.Bool(true)}}
	form.Fields.Set("name", spec.FormField{Name: "name", Field: spec.FieldText, Required: true, IsMin: spec.Float(2), IsMax: spec.Float(10)})
	form.Fields.Set("email", spec.FormField{Name: "email", Field: spec.FieldEmail, Required: true, IsEmail: true})
	form.Fields.Set("age", spec.FormField{Name: "age", Field: spec.FieldNumber, IsMin: spec.Float(18), OnFail: spec.OnFailTrash})
	form.Fields.Set("topic", spec.FormField{Name: "topic", Field: spec.FieldSelect, Options: "a,b", IsIn: spec.String("a,b")})
	form.Fields.Set("message", spec.FormField{Name: "message", Field: spec.FieldTextarea, CheckSpam: true, MapTo: "body", IsPattern: spec.String(`^(?!.*http).*$`), OnFail: spec.OnFailSpam})
	form.Fields.Set("website", spec.FormField{Name: "website", Field: spec.FieldHidden, IsEmpty: true, OnFail: spec.OnFailSpam})
	form.Fields.Set("send", spec.FormField{Name: "send", Field: spec.FieldSubmit})
	return form
}

func TestCheckAcceptsValidSubmission(t *testing.T) {
	out := Check(contactSpec(), url.Values{
		"name":      {"Ada"},
		"email":     {"ada@example.com"},
		"age":       {"36"},
		"topic":     {"b"},
		"message":   {"Hello there"},
		"extra":     {"dropped"},
		"altcha":    {"payload"},
		"_redirect": {"https://example.com/thanks"},
	})
	if !out.Accepted || out.Action != "" || len(out.Issues) != 0 {
		t.Fatalf("expected clean accept, got %+v", out)
	}
	want := url.Values{
		"name":      {"Ada"},
		"email":     {"ada@example.com"},
		"age":       {"36"},
		"topic":     {"b"},
		"body":      {"Hello there"},
		"altcha":    {"payload"},
		"_redirect": {"https://example.com/thanks"},
	}
	if diff := cmp.Diff(want, out.Values); diff != "" {
		t.Fatalf("stored values mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"body"}, out.SpamCandidates); diff != "" {
		t.Fatalf("spam candidates mismatch (-want +got):\n%s", diff)
	}
}

func TestCheckKeepsExtrasWithoutDiscard(t *testing.T) {
	form := contactSpec()
	form.Settings.DiscardAdditionalFields = spec.Bool(false)
	out := Check(form, url.Values{"name": {"Ada"}, "email": {"ada@example.com"}, "extra": {"kept"}})
	if got := out.Values.Get("extra"); got != "kept" {
		t.Fatalf("expected extra field kept, got %q", got)
	}
}

func TestCheckReportsStrictestAction(t *testing.T) {
	cases := []struct {
		name       string
		values     url.Values
		action     spec.OnFail
		validators []string
	}{
		{
			name:       "missing required rejects",
			values:     url.Values{"email": {"ada@example.com"}},
			action:     spec.OnFailReject,
			validators: []string{"required"},
		},
		{
			name:       "honeypot is spam",
			values:     url.Values{"name": {"Ada"}, "email": {"ada@example.com"}, "website": {"http://spam"}},
			action:     spec.OnFailSpam,
			validators: []string{"is_empty"},
		},
		{
			name:       "spam beats trash",
			values:     url.Values{"name": {"Ada"}, "email": {"ada@example.com"}, "age": {"12"}, "message": {"visit http://x"}},
			action:     spec.OnFailSpam,
			validators: []string{"is_min", "is_pattern"},
		},
		{
			name:       "reject beats spam",
			values:     url.Values{"name": {"A"}, "email": {"not-an-email"}, "message": {"see http://x"}},
			action:     spec.OnFailReject,
			validators: []string{"is_min", "is_email", "is_pattern"},
		},
		{
			name:       "is_in and bad number",
			values:     url.Values{"name": {"Ada"}, "email": {"ada@example.com"}, "age": {"old"}, "topic": {"z"}},
			action:     spec.OnFailReject,
			validators: []string{"number", "is_in"},
		},
		{
			name:       "length counts runes",
			values:     url.Values{"name": {"Ñandú Über"}, "email": {"ada@example.com"}},
			action:     "",
			validators: nil,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out := Check(contactSpec(), tc.values)
			if out.Action != tc.action {
				t.Fatalf("expected action %q, got %q (%+v)", tc.action, out.Action, out.Issues)
			}
			var got []string
			for _, issue := range out.Issues {
				got = append(got, issue.Validator)
			}
			if diff := cmp.Diff(tc.validators, got); diff != "" {
				t.Fatalf("validators mismatch (-want +got):\n%s", diff)
			}
			if out.Accepted != (tc.action == "") {
				t.Fatalf("unexpected accepted=%v", out.Accepted)
			}
		})
	}
}

func TestCheckPassActionAccepts(t *testing.T) {
	form := &spec.FormSpec{}
	form.Fields.Set("nick", spec.FormField{Name: "nick", Field: spec.FieldText, IsMax: spec.Float(3), OnFail: spec.OnFailPass})
	out := Check(form, url.Values{"nick": {"toolong"}})
	if !out.Accepted || out.Action != spec.OnFailPass || len(out.Issues) != 1 {
		t.Fatalf("expected pass-through accept, got %+v", out)
	}
}

func TestCheckMultipleCheckbox(t *testing.T) {
	form := &spec.FormSpec{}
	form.Fields.Set("tags", spec.FormField{Name: "tags", Field: spec.FieldCheckbox, Multiple: true, Options: "go,sql", IsIn: spec.String("go,sql")})
	out := Check(form, url.Values{"tags[]": {"go", "rust"}})
	if len(out.Issues) != 1 || out.Issues[0].Validator != "is_in" {
		t.Fatalf("expected one is_in issue, got %+v", out.Issues)
	}
	if diff := cmp.Diff([]string{"go", "rust"}, out.Values["tags"]); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
}

// curlValues recovers the submitted values from a form-encoded curl command.
func curlValues(t *testing.T, command string) url.Values {
	t.Helper()
	values := url.Values{}
	for _, line := range strings.Split(command, "\n") {
		line = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(line), `\`))
		arg, ok := strings.CutPrefix(line, "--data-urlencode ")
		if !ok {
			continue
		}
		if len(arg) < 2 || arg[0] != '\'' || arg[len(arg)-1] != '\'' {
			t.Fatalf("unquoted curl argument %q", arg)
		}
		arg = strings.ReplaceAll(arg[1:len(arg)-1], `'\''`, "'")
		name, value, _ := strings.Cut(arg, "=")
		values.Add(name, value)
	}
	return values
}

func TestCheckAcceptsOwnCurlSample(t *testing.T) {
	form := &spec.FormSpec{Settings: spec.FormSettings{DiscardAdditionalFields: spec.Bool(true)}}
	form.Fields.Set("size", spec.FormField{Name: "size", Field: spec.FieldRadio, Options: "s,m", Multiple: true, Required: true, IsIn: spec.String("s,m")})
	form.Fields.Set("tags", spec.FormField{Name: "tags", Field: spec.FieldCheckbox, Options: "a,b", Multiple: true, Required: true})
	form.Fields.Set("query", spec.FormField{Name: "query", Field: spec.FieldText, Value: "a=1&b=2+3", Required: true})

	command := curl.FormEncoded(form, render.RenderOptions{SubmitURL: "https://api.example.com/digest/f1"})
	out := Check(form, curlValues(t, command))
	if !out.Accepted || len(out.Issues) != 0 {
		t.Fatalf("expected curl sample to be accepted, got %+v\n%s", out, command)
	}
	want := url.Values{
		"size":  {"s", "m"},
		"tags":  {"a", "b"},
		"query": {"a=1&b=2+3"},
	}
	if diff := cmp.Diff(want, out.Values); diff != "" {
		t.Fatalf("unexpected values (-want +got):\n%s", diff)
	}
}
