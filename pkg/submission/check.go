// Package submission dry-runs a spec's field validators against sample
// submitted values, reporting which fields fail, the resulting on_fail
// action and the values that would be stored.
package submission

import (
	"fmt"
	"net/mail"
	"net/url"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/goliatone/go-formspec/pkg/render"
	"github.com/goliatone/go-formspec/pkg/spec"
)

// CaptchaFieldName is passed through untouched by discard_additional_fields.
const CaptchaFieldName = "altcha"

// DefaultOnFail applies to failing fields that set no on_fail.
const DefaultOnFail = spec.OnFailReject

// Issue is one failed validator.
type Issue struct {
	Field     string      `json:"field"`
	Validator string      `json:"validator"`
	Message   string      `json:"message"`
	Action    spec.OnFail `json:"action"`
}

// Outcome is the result of checking one submission.
type Outcome struct {
	// Accepted is false when the strictest failing action rejects, trashes
	// or flags the submission as spam.
	Accepted bool `json:"accepted"`
	// Action is the strictest on_fail among failing fields, empty when
	// every validator passed.
	Action spec.OnFail `json:"action,omitempty"`
	Issues []Issue     `json:"issues,omitempty"`
	// Values holds what would be stored: map_to applied and extras dropped
	// when discard_additional_fields is set.
	Values url.Values `json:"values"`
	// SpamCandidates names the stored keys whose content feeds spam
	// scoring.
	SpamCandidates []string `json:"spam_candidates,omitempty"`
}

var strictness = map[spec.OnFail]int{
	spec.OnFailPass:   1,
	spec.OnFailTrash:  2,
	spec.OnFailSpam:   3,
	spec.OnFailReject: 4,
}

// Check validates values against form. A nil form accepts everything.
func Check(form *spec.FormSpec, values url.Values) Outcome {
	out := Outcome{Accepted: true, Values: url.Values{}}
	if form == nil {
		for key, vals := range values {
			out.Values[key] = append([]string(nil), vals...)
		}
		return out
	}

	known := map[string]struct{}{
		CaptchaFieldName:         {},
		render.RedirectFieldName: {},
	}
	for key, field := range form.Fields.All() {
		if field.Field == spec.FieldSubmit {
			known[key] = struct{}{}
			continue
		}
		name := spec.SubmittedName(key, field)
		known[name] = struct{}{}
		submitted := values[name]

		for _, issue := range checkField(key, field, submitted) {
			out.record(issue)
		}

		storeAs := key
		if field.MapTo != "" {
			storeAs = field.MapTo
		}
		if len(submitted) > 0 {
			out.Values[storeAs] = append(out.Values[storeAs], submitted...)
		}
		if field.CheckSpam {
			out.SpamCandidates = append(out.SpamCandidates, storeAs)
		}
	}

	discard := form.Settings.DiscardAdditionalFields != nil && *form.Settings.DiscardAdditionalFields
	for key, vals := range values {
		if _, ok := known[key]; ok {
			if key == CaptchaFieldName || key == render.RedirectFieldName {
				out.Values[key] = append([]string(nil), vals...)
			}
			continue
		}
		if !discard {
			out.Values[key] = append([]string(nil), vals...)
		}
	}

	out.Accepted = out.Action == "" || out.Action == spec.OnFailPass
	return out
}

func (o *Outcome) record(issue Issue) {
	o.Issues = append(o.Issues, issue)
	if strictness[issue.Action] > strictness[o.Action] {
		o.Action = issue.Action
	}
}

func checkField(key string, field spec.FormField, submitted []string) []Issue {
	action := field.OnFail
	if action == "" {
		action = DefaultOnFail
	}
	fail := func(validator, format string, args ...any) Issue {
		return Issue{Field: key, Validator: validator, Message: fmt.Sprintf(format, args...), Action: action}
	}

	present := make([]string, 0, len(submitted))
	for _, v := range submitted {
		if strings.TrimSpace(v) != "" {
			present = append(present, v)
		}
	}

	var issues []Issue
	if field.IsEmpty && len(present) > 0 {
		issues = append(issues, fail("is_empty", "must be left empty"))
	}
	if len(present) == 0 {
		if field.Required {
			issues = append(issues, fail("required", "is required"))
		} else if field.IsNotEmpty {
			issues = append(issues, fail("is_not_empty", "must not be empty"))
		}
		return issues
	}

	var allowed map[string]struct{}
	if field.IsIn != nil {
		allowed = make(map[string]struct{})
		for _, token := range spec.OptionList(*field.IsIn) {
			allowed[token] = struct{}{}
		}
	}

	for _, value := range present {
		if issue, ok := checkBounds(field, value, fail); !ok {
			issues = append(issues, issue)
		}
		if allowed != nil {
			if _, ok := allowed[strings.TrimSpace(value)]; !ok {
				issues = append(issues, fail("is_in", "%q is not an allowed value", value))
			}
		}
		if field.IsPattern != nil && *field.IsPattern != "" {
			re, err := spec.CompilePattern(*field.IsPattern)
			if err != nil {
				issues = append(issues, fail("is_pattern", "pattern does not compile: %v", err))
			} else if matched, err := re.MatchString(value); err != nil || !matched {
				issues = append(issues, fail("is_pattern", "%q does not match the pattern", value))
			}
		}
		if field.IsEmail && !isEmail(value) {
			issues = append(issues, fail("is_email", "%q is not an email address", value))
		}
		if field.IsURL && !isURL(value) {
			issues = append(issues, fail("is_url", "%q is not a URL", value))
		}
	}
	return issues
}

// checkBounds compares numbers by value and text by rune length. Date
// bounds are not checked.
func checkBounds(field spec.FormField, value string, fail func(string, string, ...any) Issue) (Issue, bool) {
	var measure float64
	var unit string
	switch field.Field {
	case spec.FieldNumber:
		n, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return fail("number", "%q is not a number", value), false
		}
		measure = n
	case spec.FieldText, spec.FieldTextarea:
		measure = float64(utf8.RuneCountInString(value))
		unit = " characters"
	default:
		return Issue{}, true
	}

	if field.IsMin != nil && measure < *field.IsMin {
		return fail("is_min", "must be at least %s%s", formatBound(*field.IsMin), unit), false
	}
	if field.IsMax != nil && measure > *field.IsMax {
		return fail("is_max", "must be at most %s%s", formatBound(*field.IsMax), unit), false
	}
	return Issue{}, true
}

func formatBound(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func isEmail(value string) bool {
	addr, err := mail.ParseAddress(strings.TrimSpace(value))
	return err == nil && addr.Address == strings.TrimSpace(value)
}

func isURL(value string) bool {
	u, err := url.ParseRequestURI(strings.TrimSpace(value))
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
