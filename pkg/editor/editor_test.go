package editor

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formspec/pkg/render"
	"github.com/goliatone/go-formspec/pkg/spec"
)

type recorder struct {
	calls []string
}

func (r *recorder) record(text string) { r.calls = append(r.calls, text) }

func newRecorded(t *testing.T) (*Editor, *recorder) {
	t.Helper()
	rec := &recorder{}
	return New(WithOnChange(rec.record)), rec
}

const contactTOML = `
[email]
name = "email"
field = "email"
required = true

[phone]
name = "phone"
field = "text"

[message]
name = "message"
field = "textarea"

[settings]
discard_additional_fields = false
`

func TestLoadTransitions(t *testing.T) {
	ed, rec := newRecorded(t)
	if ed.State() != StateUninitialized {
		t.Fatalf("expected uninitialized, got %s", ed.State())
	}

	if err := ed.Load("   "); err != nil {
		t.Fatalf("blank load: %v", err)
	}
	if ed.State() != StateUninitialized {
		t.Fatalf("blank load should stay uninitialized, got %s", ed.State())
	}

	if err := ed.Load("[broken"); err == nil {
		t.Fatalf("expected decode error")
	}
	if ed.State() != StateUninitialized {
		t.Fatalf("failed load should not change state, got %s", ed.State())
	}

	if err := ed.Load(contactTOML); err != nil {
		t.Fatalf("load: %v", err)
	}
	if ed.State() != StateHasSpec {
		t.Fatalf("expected hasSpec, got %s", ed.State())
	}
	if len(rec.calls) != 0 {
		t.Fatalf("load must not emit changes, got %d", len(rec.calls))
	}
}

func TestCreateNewFieldGeneratesUniqueKeys(t *testing.T) {
	ed, rec := newRecorded(t)

	for _, want := range []string{"email", "email_1", "email_2"} {
		key, err := ed.CreateNewField(spec.FieldEmail, "Email")
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if key != want {
			t.Fatalf("expected key %q, got %q", want, key)
		}
	}
	if ed.State() != StateHasSpec {
		t.Fatalf("expected hasSpec, got %s", ed.State())
	}
	if len(rec.calls) != 3 {
		t.Fatalf("expected one change per create, got %d", len(rec.calls))
	}

	field, _ := ed.Spec().Fields.Get("email_1")
	if !field.IsEmail || field.Name != "email_1" || field.Label != "Email 1" {
		t.Fatalf("unexpected field %+v", field)
	}

	key, err := ed.CreateNewField(spec.FieldText, "settings")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if key != "settings_1" {
		t.Fatalf("reserved key must be suffixed, got %q", key)
	}

	if _, err := ed.CreateNewField("color", ""); err == nil {
		t.Fatalf("expected unknown type error")
	}
	if len(rec.calls) != 4 {
		t.Fatalf("rejected create must not emit, got %d calls", len(rec.calls))
	}
}

func TestCreateNewFieldURLSetsFlag(t *testing.T) {
	ed := New()
	key, err := ed.CreateNewField(spec.FieldURL, "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	field, _ := ed.Spec().Fields.Get(key)
	if key != "url" || !field.IsURL || field.IsEmail {
		t.Fatalf("unexpected %q %+v", key, field)
	}
}

func TestDeleteLastFieldEmptiesEditor(t *testing.T) {
	ed, rec := newRecorded(t)
	key, _ := ed.CreateNewField(spec.FieldText, "name")

	if err := ed.DeleteField("missing"); !errors.Is(err, ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}
	if err := ed.DeleteField(key); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if ed.State() != StateEmpty {
		t.Fatalf("expected empty, got %s", ed.State())
	}
	if len(rec.calls) != 2 {
		t.Fatalf("expected 2 changes, got %d", len(rec.calls))
	}

	if _, err := ed.CreateNewField(spec.FieldText, "again"); err != nil {
		t.Fatalf("create: %v", err)
	}
	if ed.State() != StateHasSpec {
		t.Fatalf("expected hasSpec after create from empty, got %s", ed.State())
	}
}

func TestRenameFieldKeepsPosition(t *testing.T) {
	ed, rec := newRecorded(t)
	if err := ed.Load(contactTOML); err != nil {
		t.Fatalf("load: %v", err)
	}

	if !ed.RenameField("phone", "mobile") {
		t.Fatalf("rename rejected")
	}
	form := ed.Spec()
	if diff := cmp.Diff([]string{"email", "mobile", "message"}, form.Fields.Keys()); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
	field, _ := form.Fields.Get("mobile")
	if field.Name != "mobile" {
		t.Fatalf("name property not updated: %+v", field)
	}
	if len(rec.calls) != 1 || !strings.Contains(rec.calls[0], "[mobile]") {
		t.Fatalf("expected single change with new key, got %v", rec.calls)
	}
}

func TestRenameCollisionLeavesSpecUnchanged(t *testing.T) {
	ed, rec := newRecorded(t)
	if err := ed.Load(contactTOML); err != nil {
		t.Fatalf("load: %v", err)
	}
	before, _ := ed.TOML()

	if ed.RenameField("email", "phone") {
		t.Fatalf("expected collision to be rejected")
	}
	if ed.RenameField("missing", "other") {
		t.Fatalf("expected unknown source to be rejected")
	}
	if ed.RenameField("email", "settings") {
		t.Fatalf("expected reserved key to be rejected")
	}
	if !ed.RenameField("email", "email") {
		t.Fatalf("self rename should succeed")
	}

	after, _ := ed.TOML()
	if diff := cmp.Diff(before, after); diff != "" {
		t.Fatalf("spec mutated (-before +after):\n%s", diff)
	}
	if len(rec.calls) != 0 {
		t.Fatalf("rejected renames must not emit, got %d", len(rec.calls))
	}
}

func TestReorderAndMove(t *testing.T) {
	ed, rec := newRecorded(t)
	if err := ed.Load(contactTOML); err != nil {
		t.Fatalf("load: %v", err)
	}

	if err := ed.ReorderFields([]string{"message", "email", "phone"}); err != nil {
		t.Fatalf("reorder: %v", err)
	}
	if err := ed.ReorderFields([]string{"message", "email"}); err == nil {
		t.Fatalf("expected partial reorder to fail")
	}
	if err := ed.MoveField("phone", 0); err != nil {
		t.Fatalf("move: %v", err)
	}
	if err := ed.MoveField("email", 99); err != nil {
		t.Fatalf("move: %v", err)
	}

	if diff := cmp.Diff([]string{"phone", "message", "email"}, ed.Spec().Fields.Keys()); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
	if len(rec.calls) != 3 {
		t.Fatalf("expected 3 changes, got %d", len(rec.calls))
	}
	last := rec.calls[len(rec.calls)-1]
	if strings.Index(last, "[phone]") > strings.Index(last, "[email]") {
		t.Fatalf("serialised order does not follow reorder:\n%s", last)
	}
}

func TestUpdateFieldAndSettings(t *testing.T) {
	ed, rec := newRecorded(t)
	if err := ed.UpdateField("x", func(*spec.FormField) {}); !errors.Is(err, ErrNoSpec) {
		t.Fatalf("expected ErrNoSpec, got %v", err)
	}
	if err := ed.UpdateSettings(func(s *spec.FormSettings) {
		s.DiscardAdditionalFields = spec.Bool(true)
	}); err != nil {
		t.Fatalf("settings: %v", err)
	}
	if ed.State() != StateEmpty {
		t.Fatalf("settings-only spec should be empty, got %s", ed.State())
	}

	key, _ := ed.CreateNewField(spec.FieldNumber, "age")
	if err := ed.UpdateField(key, func(f *spec.FormField) {
		f.Name = "ignored"
		f.IsMin = spec.Float(18)
		f.Required = true
	}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if err := ed.SetFieldType(key, spec.FieldEmail); err != nil {
		t.Fatalf("set type: %v", err)
	}

	field, _ := ed.Spec().Fields.Get(key)
	if field.Name != "age" || !field.Required || field.Field != spec.FieldEmail || !field.IsEmail {
		t.Fatalf("unexpected field %+v", field)
	}
	if len(rec.calls) != 4 {
		t.Fatalf("expected 4 changes, got %d", len(rec.calls))
	}
}

func TestOptionsErrorState(t *testing.T) {
	ed, rec := newRecorded(t)
	key, err := ed.CreateNewField(spec.FieldRadio, "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	preview := ed.PreviewHTML(render.RenderOptions{SubmitURL: "https://api.example.com/digest/f1"})
	if !strings.Contains(preview, `<label for="radio">`) || strings.Contains(preview, `type="radio"`) {
		t.Fatalf("expected label without radio inputs:\n%s", preview)
	}
	if !ed.FieldWithOptionsWithoutOptions(key) {
		t.Fatalf("expected radio without options to be flagged")
	}
	if diff := cmp.Diff([]string{key}, ed.FieldsMissingOptions()); diff != "" {
		t.Fatalf("missing options mismatch (-want +got):\n%s", diff)
	}

	for _, option := range []string{"Yes", "No"} {
		if err := ed.AddOption(key, option); err != nil {
			t.Fatalf("add option: %v", err)
		}
	}
	if err := ed.AddOption(key, "Yes"); err == nil {
		t.Fatalf("expected duplicate option error")
	}
	if err := ed.AddOption(key, " "); err == nil {
		t.Fatalf("expected blank option error")
	}
	if ed.FieldWithOptionsWithoutOptions(key) {
		t.Fatalf("expected flag cleared after two options")
	}

	if err := ed.RemoveOption(key, "No"); err != nil {
		t.Fatalf("remove option: %v", err)
	}
	field, _ := ed.Spec().Fields.Get(key)
	if field.Options != "Yes" {
		t.Fatalf("unexpected options %q", field.Options)
	}
	if len(rec.calls) != 4 {
		t.Fatalf("expected 4 changes, got %d", len(rec.calls))
	}
}

func TestEmittedTOMLRoundTrips(t *testing.T) {
	ed, rec := newRecorded(t)
	if err := ed.Load(contactTOML); err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := ed.UpdateField("phone", func(f *spec.FormField) { f.Placeholder = "+1 555" }); err != nil {
		t.Fatalf("update: %v", err)
	}

	result := spec.ParseAndValidate(rec.calls[0])
	if !result.Valid {
		t.Fatalf("emitted TOML invalid: %v", result.Errors)
	}
	if diff := cmp.Diff(ed.Spec(), result.Spec, cmp.AllowUnexported(spec.Fields{})); diff != "" {
		t.Fatalf("round trip mismatch (-editor +parsed):\n%s", diff)
	}
	if !ed.Validate().Valid {
		t.Fatalf("expected valid spec")
	}
}

func TestPreviewsBeforeInitialisation(t *testing.T) {
	ed := New()
	if ed.PreviewHTML(render.RenderOptions{}) != "" || ed.PreviewCurl(render.RenderOptions{}, true) != "" {
		t.Fatalf("expected empty previews")
	}
	out, err := ed.PreviewPrompt(render.RenderOptions{})
	if err != nil || out != "" {
		t.Fatalf("expected empty prompt, got %q %v", out, err)
	}
}
