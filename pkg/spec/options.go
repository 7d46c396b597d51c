package spec

import "strings"

// OptionList splits a comma-separated options or is_in string, trimming
// whitespace and dropping empty tokens.
func OptionList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if token := strings.TrimSpace(part); token != "" {
			out = append(out, token)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// JoinOptions is the inverse of OptionList.
func JoinOptions(options []string) string {
	clean := make([]string, 0, len(options))
	for _, option := range options {
		if token := strings.TrimSpace(option); token != "" {
			clean = append(clean, token)
		}
	}
	return strings.Join(clean, ",")
}

// MultiValued reports whether a field submits one value per selected option.
func MultiValued(field FormField) bool {
	return field.Multiple && field.Field.IsChoice()
}

// SubmittedName is the form parameter a field posts under: key[] for
// multi-valued choice fields, key otherwise.
func SubmittedName(key string, field FormField) string {
	if MultiValued(field) {
		return key + "[]"
	}
	return key
}

// MinChoiceOptions is the number of options a choice field needs to be usable.
const MinChoiceOptions = 2

// FieldWithOptionsWithoutOptions reports whether a select, radio or checkbox
// field has fewer than MinChoiceOptions options. Editors surface this as an
// error state on the field; it does not block saving.
func FieldWithOptionsWithoutOptions(field FormField) bool {
	if !field.Field.IsChoice() {
		return false
	}
	return len(OptionList(field.Options)) < MinChoiceOptions
}

// ApplyTypeDefaults keeps the semantic validators in step with the field
// type: email fields validate as email, url fields as URL.
func ApplyTypeDefaults(field *FormField) {
	switch field.Field {
	case FieldEmail:
		field.IsEmail = true
		field.IsURL = false
	case FieldURL:
		field.IsURL = true
		field.IsEmail = false
	}
}
