package spec

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dlclark/regexp2"
	"go.uber.org/zap"
)

const (
	// LocatorTOML keys the synthetic error reported for undecodable input.
	LocatorTOML = "toml"
	// LocatorCheckSpam keys the form-wide check_spam error.
	LocatorCheckSpam = "check_spam"
	// LocatorDiscardAdditional keys the missing settings flag error.
	LocatorDiscardAdditional = SettingsKey + ".discard_additional_fields"
)

// Result is the outcome of validating a spec. Errors maps dotted locators
// (for example "email.is_min") to a message and is never nil.
type Result struct {
	Spec   *FormSpec         `json:"spec,omitempty"`
	Valid  bool              `json:"valid"`
	Errors map[string]string `json:"errors"`
}

// Locators returns the error locators sorted for stable display.
func (r Result) Locators() []string {
	out := make([]string, 0, len(r.Errors))
	for locator := range r.Errors {
		out = append(out, locator)
	}
	sort.Strings(out)
	return out
}

// Validate applies every structural rule and collects all failures. A nil
// spec is valid.
func Validate(spec *FormSpec) Result {
	result := Result{Spec: spec, Errors: make(map[string]string)}
	if spec == nil {
		result.Valid = true
		return result
	}

	var spamFields []string
	for key, field := range spec.Fields.All() {
		validateField(key, field, result.Errors)
		if field.CheckSpam {
			spamFields = append(spamFields, key)
		}
	}

	if len(spamFields) > 1 {
		result.Errors[LocatorCheckSpam] = fmt.Sprintf(
			"Only one field can have check_spam enabled, found %d: %s",
			len(spamFields), strings.Join(spamFields, ", "),
		)
	}

	if spec.Settings.DiscardAdditionalFields == nil {
		result.Errors[LocatorDiscardAdditional] = "discard_additional_fields must be set to true or false"
	}

	result.Valid = len(result.Errors) == 0
	return result
}

func validateField(key string, field FormField, errs map[string]string) {
	at := func(prop string) string { return key + "." + prop }

	if key == SettingsKey {
		errs[at("name")] = fmt.Sprintf("%q is reserved and cannot be used as a field name", SettingsKey)
	}
	if strings.TrimSpace(field.Name) == "" {
		errs[at("name")] = "Field name is required"
	}
	switch {
	case field.Field == "":
		errs[at("field")] = "Field type is required"
	case !field.Field.Valid():
		errs[at("field")] = fmt.Sprintf("Unknown field type %q", field.Field)
	}

	if field.IsMin != nil && !supportsMin(field.Field) {
		errs[at("is_min")] = "is_min is only valid for text, number, date and textarea fields"
	}
	if field.IsMax != nil && !supportsMax(field.Field) {
		errs[at("is_max")] = "is_max is only valid for text, number and date fields"
	}

	if field.IsIn != nil && len(OptionList(*field.IsIn)) == 0 {
		errs[at("is_in")] = "is_in must contain at least one comma-separated value"
	}

	if field.IsPattern != nil {
		if _, err := CompilePattern(*field.IsPattern); err != nil {
			errs[at("is_pattern")] = fmt.Sprintf("Invalid regular expression: %v", err)
		}
	}

	if field.OnFail != "" && !field.OnFail.Valid() {
		errs[at("on_fail")] = fmt.Sprintf("on_fail must be one of spam, trash, pass or reject, got %q", field.OnFail)
	}
}

func supportsMin(t FieldType) bool {
	switch t {
	case FieldText, FieldNumber, FieldDate, FieldTextarea:
		return true
	default:
		return false
	}
}

func supportsMax(t FieldType) bool {
	switch t {
	case FieldText, FieldNumber, FieldDate:
		return true
	default:
		return false
	}
}

// CompilePattern compiles an is_pattern expression with ECMAScript semantics,
// matching how the browser and the submission endpoint evaluate it.
func CompilePattern(pattern string) (*regexp2.Regexp, error) {
	return regexp2.Compile(pattern, regexp2.ECMAScript)
}

// ParseAndValidate decodes text and validates the result. Empty or
// whitespace-only text is valid with no spec. Undecodable text yields a single
// error under LocatorTOML.
func ParseAndValidate(text string, opts ...Option) Result {
	if strings.TrimSpace(text) == "" {
		return Result{Valid: true, Errors: make(map[string]string)}
	}

	cfg := newOptions(opts...)
	parsed, err := Decode(text)
	if err != nil {
		cfg.logger.Warn("form spec parse failed", zap.Error(err))
		return Result{
			Valid:  false,
			Errors: map[string]string{LocatorTOML: fmt.Sprintf("Invalid TOML: %v", err)},
		}
	}
	return Validate(parsed)
}
