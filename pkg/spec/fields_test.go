package spec

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func newFields(keys ...string) *Fields {
	var f Fields
	for _, key := range keys {
		f.Set(key, FormField{Name: key, Field: FieldText})
	}
	return &f
}

func TestFieldsRenameKeepsPosition(t *testing.T) {
	f := newFields("a", "email", "c")
	if !f.Rename("email", "contact") {
		t.Fatalf("expected rename to succeed")
	}
	if diff := cmp.Diff([]string{"a", "contact", "c"}, f.Keys()); diff != "" {
		t.Fatalf("unexpected order (-want +got):\n%s", diff)
	}
	if f.Has("email") {
		t.Fatalf("expected old key removed")
	}
}

func TestFieldsRenameCollision(t *testing.T) {
	f := newFields("email", "phone")
	before := f.Clone()
	if f.Rename("email", "phone") {
		t.Fatalf("expected collision to be rejected")
	}
	if diff := cmp.Diff(before, *f, cmp.AllowUnexported(Fields{})); diff != "" {
		t.Fatalf("fields mutated on collision (-want +got):\n%s", diff)
	}
	if !f.Rename("email", "email") {
		t.Fatalf("renaming to the same key is a no-op success")
	}
}

func TestFieldsReorder(t *testing.T) {
	f := newFields("a", "b", "c")
	if err := f.Reorder([]string{"c", "a", "b"}); err != nil {
		t.Fatalf("reorder: %v", err)
	}
	if diff := cmp.Diff([]string{"c", "a", "b"}, f.Keys()); diff != "" {
		t.Fatalf("unexpected order (-want +got):\n%s", diff)
	}

	for _, bad := range [][]string{{"a", "b"}, {"a", "b", "x"}, {"a", "a", "b"}} {
		if err := f.Reorder(bad); err == nil {
			t.Fatalf("expected error for %v", bad)
		}
	}
	if diff := cmp.Diff([]string{"c", "a", "b"}, f.Keys()); diff != "" {
		t.Fatalf("failed reorder mutated order (-want +got):\n%s", diff)
	}
}

func TestFieldsDeleteAndSet(t *testing.T) {
	f := newFields("a", "b", "c")
	if !f.Delete("b") || f.Delete("b") {
		t.Fatalf("expected single successful delete")
	}
	f.Set("a", FormField{Name: "a", Field: FieldNumber})
	f.Set("d", FormField{Name: "d"})
	if diff := cmp.Diff([]string{"a", "c", "d"}, f.Keys()); diff != "" {
		t.Fatalf("unexpected order (-want +got):\n%s", diff)
	}
	if got, _ := f.Get("a"); got.Field != FieldNumber {
		t.Fatalf("expected in-place update, got %q", got.Field)
	}
}

func TestFieldsMarshalJSONKeepsOrder(t *testing.T) {
	f := newFields("b", "a")
	data, err := f.MarshalJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"b":{"name":"b","field":"text"},"a":{"name":"a","field":"text"}}`
	if string(data) != want {
		t.Fatalf("unexpected json:\n got %s\nwant %s", data, want)
	}
}

func TestHelpers(t *testing.T) {
	if diff := cmp.Diff([]string{"a", "b"}, OptionList(" a, ,b ,")); diff != "" {
		t.Fatalf("unexpected options (-want +got):\n%s", diff)
	}
	for key, want := range map[string]string{
		"first_name":   "First Name",
		"emailAddress": "Email Address",
		"address2":     "Address 2",
		"--":           "",
	} {
		if got := DefaultLabeler(key); got != want {
			t.Fatalf("DefaultLabeler(%q) = %q, want %q", key, got, want)
		}
	}
	if got := SanitizeKey(" Work Email! "); got != "work_email" {
		t.Fatalf("unexpected key %q", got)
	}
	if got := SanitizeKey("!!"); got != "field" {
		t.Fatalf("unexpected fallback key %q", got)
	}
	for _, tt := range []struct {
		field FormField
		want  string
	}{
		{FormField{Field: FieldRadio, Multiple: true}, "size[]"},
		{FormField{Field: FieldSelect, Multiple: true}, "size[]"},
		{FormField{Field: FieldCheckbox, Multiple: true}, "size[]"},
		{FormField{Field: FieldRadio}, "size"},
		{FormField{Field: FieldText, Multiple: true}, "size"},
	} {
		if got := SubmittedName("size", tt.field); got != tt.want {
			t.Fatalf("SubmittedName(%s, multiple=%t) = %q, want %q", tt.field.Field, tt.field.Multiple, got, tt.want)
		}
	}

	field := FormField{Field: FieldEmail, IsURL: true}
	ApplyTypeDefaults(&field)
	if !field.IsEmail || field.IsURL {
		t.Fatalf("expected email flags, got %+v", field)
	}
	if !FieldWithOptionsWithoutOptions(FormField{Field: FieldRadio, Options: "only"}) {
		t.Fatalf("expected radio with one option to be flagged")
	}
	if FieldWithOptionsWithoutOptions(FormField{Field: FieldText}) {
		t.Fatalf("text fields never need options")
	}
}
