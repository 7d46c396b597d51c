package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-formspec/pkg/tui"
)

const contactSpec = "testdata/contact.toml"

// runCLI executes the root command with a config path that does not exist,
// so only flags and the environment apply.
func runCLI(t *testing.T, a *app, args ...string) (string, string, error) {
	t.Helper()
	if a == nil {
		a = &app{}
	}
	if a.stdin == nil {
		a.stdin = strings.NewReader("")
	}
	cmd := newRootCommand(a)
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--config", filepath.Join(t.TempDir(), "missing.yaml")}, args...))
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestValidateCommand(t *testing.T) {
	out, _, err := runCLI(t, nil, "validate", contactSpec)
	require.NoError(t, err)
	assert.Contains(t, out, "contact.toml: ok")
}

func TestValidateCommandReportsLocators(t *testing.T) {
	bad := "[age]\nname = \"age\"\nfield = \"number\"\nis_min = 10\nis_max = 100\n"
	out, _, err := runCLI(t, &app{stdin: strings.NewReader(bad)}, "validate", "-")
	require.ErrorIs(t, err, errInvalidSpec)
	assert.Contains(t, out, "<stdin>: ")
	assert.Contains(t, out, "settings.discard_additional_fields")
}

func TestFmtWritesCanonicalForm(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spec.toml")
	input := "[settings]\ndiscard_additional_fields = false\n\n[b]\nname = \"b\"\nfield = \"text\"\n\n[a]\nname = \"a\"\nfield = \"text\"\n"
	require.NoError(t, os.WriteFile(path, []byte(input), 0o644))

	_, _, err := runCLI(t, nil, "fmt", "-w", path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)
	assert.Less(t, strings.Index(text, "[b]"), strings.Index(text, "[a]"), "field order is kept")
	assert.Greater(t, strings.Index(text, "[settings]"), strings.Index(text, "[a]"), "settings move last")
}

func TestHTMLCommandUsesFormEndpoints(t *testing.T) {
	out, _, err := runCLI(t, nil,
		"--api-base-url", "https://forms.example.com",
		"--form-id", "abc",
		"--redirect-url", "https://example.com/thanks",
		"html", contactSpec,
	)
	require.NoError(t, err)
	assert.Contains(t, out, `action="https://forms.example.com/digest/abc"`)
	assert.Contains(t, out, `name="_redirect"`)
	assert.Contains(t, out, `name="email"`)
}

func TestHTMLCommandRefusesInvalidSpec(t *testing.T) {
	_, _, err := runCLI(t, &app{stdin: strings.NewReader("[x]\nname = \"x\"\nfield = \"bogus\"\n")}, "html", "-")
	require.ErrorIs(t, err, errInvalidSpec)
}

func TestCurlCommandJSON(t *testing.T) {
	out, _, err := runCLI(t, nil, "--submit-url", "https://example.com/submit", "curl", "--json", contactSpec)
	require.NoError(t, err)
	assert.Contains(t, out, "curl -X POST")
	assert.Contains(t, out, "Content-Type: application/json")
	assert.Contains(t, out, `"name":"Jane Doe"`)
}

func TestPromptCommandWithCaptcha(t *testing.T) {
	out, _, err := runCLI(t, nil, "--form-id", "abc", "--captcha", "prompt", contactSpec)
	require.NoError(t, err)
	assert.Contains(t, out, `name="email"`)
	assert.Contains(t, out, "altcha")
	assert.Contains(t, out, "/digest/abc")
}

func TestCaptchaWithoutFormIDIsRejected(t *testing.T) {
	_, _, err := runCLI(t, nil, "--captcha", "html", contactSpec)
	require.ErrorContains(t, err, "captcha requires form_id")
}

func TestRenderersCommand(t *testing.T) {
	out, _, err := runCLI(t, nil, "renderers", "--type", "text/html")
	require.NoError(t, err)
	assert.Contains(t, out, "* html")
	assert.Contains(t, out, "html-v1")
	assert.NotContains(t, out, "curl")
}

func TestOpenAPICommandJSON(t *testing.T) {
	out, _, err := runCLI(t, nil, "openapi", "--format", "json", contactSpec)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	paths, ok := doc["paths"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, paths, "/digest/{formId}")
}

func TestOpenAPICommandRejectsUnknownFormat(t *testing.T) {
	_, _, err := runCLI(t, nil, "openapi", "--format", "xml", contactSpec)
	require.Error(t, err)
}

func TestTemplateCheckCommand(t *testing.T) {
	out, _, err := runCLI(t, nil, "template-check", "--text", `Hi {{ name | "there" }}, re: {{ topic }}`,
		"--preview", "--var", "topic=Sales")
	require.NoError(t, err)
	assert.Contains(t, out, "warning:")
	assert.Contains(t, out, "variables: name, topic")
	assert.Contains(t, out, "Hi there, re: Sales")

	_, _, err = runCLI(t, nil, "template-check", "--text", "Hello {{ }}")
	require.ErrorIs(t, err, errInvalidTemplate)
}

func TestCheckSubmissionCommand(t *testing.T) {
	out, _, err := runCLI(t, nil, "check-submission", contactSpec,
		"--data", "name=Ada&email=ada%40example.com",
		"--field", "message=Hello",
		"--field", "extra=dropped",
	)
	require.NoError(t, err)

	var outcome struct {
		Accepted bool                `json:"accepted"`
		Values   map[string][]string `json:"values"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &outcome))
	assert.True(t, outcome.Accepted)
	assert.Equal(t, []string{"Hello"}, outcome.Values["body"])
	assert.NotContains(t, outcome.Values, "extra")

	_, _, err = runCLI(t, nil, "check-submission", contactSpec, "--data", "name=Ada&email=not-an-email")
	require.ErrorIs(t, err, errSubmissionRefused)
}

func TestEditCommandSavesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "new.toml")
	// add a text field, set discard_additional_fields, save, quit
	driver := &scriptedDriver{
		selects:  []int{0, 0, 6, 9, 10},
		inputs:   []string{"nickname"},
		confirms: []bool{true},
	}

	_, _, err := runCLI(t, &app{driver: driver}, "edit", path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "[nickname]")
	assert.Contains(t, string(data), "discard_additional_fields = true")
}

func TestPullAndPush(t *testing.T) {
	var pushed string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/forms/abc", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		switch r.Method {
		case http.MethodGet:
			_ = json.NewEncoder(w).Encode(map[string]any{"id": "abc", "specs": "[settings]\ndiscard_additional_fields = true\n"})
		case http.MethodPatch:
			var body map[string]string
			data, _ := io.ReadAll(r.Body)
			_ = json.Unmarshal(data, &body)
			pushed = body["specs"]
			_ = json.NewEncoder(w).Encode(map[string]any{"id": "abc", "specs": pushed})
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	}))
	defer server.Close()

	t.Setenv("FORMSPEC_API_TOKEN", "secret")
	common := []string{"--api-base-url", server.URL, "--form-id", "abc"}

	out, _, err := runCLI(t, nil, append(common, "pull")...)
	require.NoError(t, err)
	assert.Contains(t, out, "discard_additional_fields = true")

	out, _, err = runCLI(t, nil, append(common, "push", contactSpec)...)
	require.NoError(t, err)
	assert.Contains(t, out, "Pushed 4 field(s) to form abc")
	assert.Contains(t, pushed, "[message]")
}

func TestPushRefusesInvalidSpec(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
	}))
	defer server.Close()

	bad := "[x]\nname = \"x\"\nfield = \"text\"\n"
	_, stderr, err := runCLI(t, &app{stdin: strings.NewReader(bad)},
		"--api-base-url", server.URL, "push", "-", "abc")
	require.ErrorIs(t, err, errInvalidSpec)
	assert.Contains(t, stderr, "settings.discard_additional_fields")
}

func TestFormIDRequiredForPull(t *testing.T) {
	t.Setenv("FORMSPEC_FORM_ID", "")
	_, _, err := runCLI(t, nil, "pull")
	require.ErrorContains(t, err, "form id is required")
}

func TestFlagsOverrideEnvironment(t *testing.T) {
	t.Setenv("FORMSPEC_API_BASE_URL", "https://env.example.com")
	t.Setenv("FORMSPEC_FORM_ID", "env-form")

	out, _, err := runCLI(t, nil, "html", contactSpec)
	require.NoError(t, err)
	assert.Contains(t, out, "https://env.example.com/digest/env-form")

	out, _, err = runCLI(t, nil, "--form-id", "flag-form", "html", contactSpec)
	require.NoError(t, err)
	assert.Contains(t, out, "https://env.example.com/digest/flag-form")
}

type scriptedDriver struct {
	inputs   []string
	selects  []int
	confirms []bool
	infos    []string
}

func (d *scriptedDriver) Input(context.Context, tui.InputConfig) (string, error) {
	if len(d.inputs) == 0 {
		return "", tui.ErrAborted
	}
	v := d.inputs[0]
	d.inputs = d.inputs[1:]
	return v, nil
}

func (d *scriptedDriver) Confirm(context.Context, tui.ConfirmConfig) (bool, error) {
	if len(d.confirms) == 0 {
		return false, tui.ErrAborted
	}
	v := d.confirms[0]
	d.confirms = d.confirms[1:]
	return v, nil
}

func (d *scriptedDriver) Select(context.Context, tui.SelectConfig) (int, error) {
	if len(d.selects) == 0 {
		return -1, tui.ErrAborted
	}
	v := d.selects[0]
	d.selects = d.selects[1:]
	return v, nil
}

func (d *scriptedDriver) TextArea(context.Context, tui.TextAreaConfig) (string, error) {
	return "", tui.ErrAborted
}

func (d *scriptedDriver) Info(_ context.Context, msg string) error {
	d.infos = append(d.infos, msg)
	return nil
}
