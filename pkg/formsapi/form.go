package formsapi

import (
	"net/url"
	"strings"

	"github.com/goliatone/go-formspec/pkg/render"
	"github.com/goliatone/go-formspec/pkg/spec"
)

// Form is the service resource a spec belongs to. Specs holds the TOML
// document verbatim.
type Form struct {
	ID             string `json:"id"`
	Title          string `json:"title,omitempty"`
	Specs          string `json:"specs"`
	CheckChallenge bool   `json:"check_challenge"`
	CheckSpecs     bool   `json:"check_specs"`
	RedirectURL    string `json:"redirect_url,omitempty"`
}

// ParseSpecs parses and validates the form's spec text.
func (f Form) ParseSpecs(opts ...spec.Option) spec.Result {
	return spec.ParseAndValidate(f.Specs, opts...)
}

// Endpoints derives the service URLs from the API base URL.
type Endpoints struct {
	BaseURL string
}

func (e Endpoints) join(parts ...string) string {
	base := strings.TrimRight(e.BaseURL, "/")
	for _, part := range parts {
		base += "/" + url.PathEscape(part)
	}
	return base
}

// DigestURL is the submission endpoint, <base>/digest/<formId>.
func (e Endpoints) DigestURL(formID string) string {
	return e.join("digest", formID)
}

// ChallengeURL is the captcha challenge endpoint,
// <base>/forms/<formId>/challenge/altcha.
func (e Endpoints) ChallengeURL(formID string) string {
	return e.join("forms", formID, "challenge", "altcha")
}

// FormURL is the resource URL, <base>/forms/<formId>.
func (e Endpoints) FormURL(formID string) string {
	return e.join("forms", formID)
}

// RenderOptions fills the generator inputs for form: the digest URL, the
// captcha flag and challenge URL, and the redirect hidden input when the
// form has a redirect_url.
func (e Endpoints) RenderOptions(form Form) render.RenderOptions {
	opts := render.RenderOptions{
		SubmitURL:      e.DigestURL(form.ID),
		CaptchaEnabled: form.CheckChallenge,
	}
	if form.CheckChallenge {
		opts.ChallengeURL = e.ChallengeURL(form.ID)
	}
	if form.RedirectURL != "" {
		opts.Hidden = render.MergeHiddenFields(nil, render.RedirectField(form.RedirectURL))
	}
	return opts
}
