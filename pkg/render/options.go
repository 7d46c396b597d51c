package render

// RenderOptions carries the per-form values every generator needs besides the
// spec itself. All URLs are opaque strings supplied by the host.
type RenderOptions struct {
	// SubmitURL is the form action / request target, typically
	// "<api>/digest/<formId>".
	SubmitURL string
	// CaptchaEnabled inserts the altcha widget (HTML) or the captcha
	// instructions (prompt).
	CaptchaEnabled bool
	// ChallengeURL is the altcha challenge endpoint,
	// "<api>/forms/<formId>/challenge/altcha".
	ChallengeURL string
	// Hidden adds extra hidden inputs to HTML output, keyed by input name.
	Hidden map[string]string
}
