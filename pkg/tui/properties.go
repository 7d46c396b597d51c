package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-formspec/pkg/spec"
)

type propertyKind int

const (
	kindText propertyKind = iota
	kindBool
	kindNumber
	kindType
	kindOnFail
)

type property struct {
	name string
	kind propertyKind
}

// properties lists the editable field properties in menu order. name and
// options are handled by the rename and options actions.
var properties = []property{
	{"label", kindText},
	{"placeholder", kindText},
	{"helptext", kindText},
	{"field", kindType},
	{"required", kindBool},
	{"disabled", kindBool},
	{"readonly", kindBool},
	{"multiple", kindBool},
	{"value", kindText},
	{"is_min", kindNumber},
	{"is_max", kindNumber},
	{"is_in", kindText},
	{"is_pattern", kindText},
	{"is_email", kindBool},
	{"is_url", kindBool},
	{"is_empty", kindBool},
	{"is_not_empty", kindBool},
	{"on_fail", kindOnFail},
	{"check_spam", kindBool},
	{"map_to", kindText},
}

func propertyNames() []string {
	out := make([]string, len(properties))
	for i, p := range properties {
		out[i] = p.name
	}
	return out
}

// currentValue renders a property for use as a prompt default.
func currentValue(field spec.FormField, name string) string {
	switch name {
	case "label":
		return field.Label
	case "placeholder":
		return field.Placeholder
	case "helptext":
		return field.HelpText
	case "field":
		return string(field.Field)
	case "value":
		return field.Value
	case "map_to":
		return field.MapTo
	case "on_fail":
		return string(field.OnFail)
	case "is_in":
		return deref(field.IsIn)
	case "is_pattern":
		return deref(field.IsPattern)
	case "is_min":
		return formatFloat(field.IsMin)
	case "is_max":
		return formatFloat(field.IsMax)
	case "required":
		return strconv.FormatBool(field.Required)
	case "disabled":
		return strconv.FormatBool(field.Disabled)
	case "readonly":
		return strconv.FormatBool(field.ReadOnly)
	case "multiple":
		return strconv.FormatBool(field.Multiple)
	case "is_email":
		return strconv.FormatBool(field.IsEmail)
	case "is_url":
		return strconv.FormatBool(field.IsURL)
	case "is_empty":
		return strconv.FormatBool(field.IsEmpty)
	case "is_not_empty":
		return strconv.FormatBool(field.IsNotEmpty)
	case "check_spam":
		return strconv.FormatBool(field.CheckSpam)
	}
	return ""
}

// applyProperty parses raw and stores it on field. Blank text clears
// optional pointer properties.
func applyProperty(field *spec.FormField, name, raw string) error {
	trimmed := strings.TrimSpace(raw)
	switch name {
	case "label":
		field.Label = trimmed
	case "placeholder":
		field.Placeholder = trimmed
	case "helptext":
		field.HelpText = trimmed
	case "value":
		field.Value = raw
	case "map_to":
		field.MapTo = trimmed
	case "field":
		t := spec.FieldType(trimmed)
		if !t.Valid() {
			return fmt.Errorf("unknown field type %q", trimmed)
		}
		field.Field = t
		spec.ApplyTypeDefaults(field)
	case "on_fail":
		action := spec.OnFail(trimmed)
		if action != "" && !action.Valid() {
			return fmt.Errorf("unknown on_fail action %q", trimmed)
		}
		field.OnFail = action
	case "is_in":
		field.IsIn = optionalString(trimmed)
	case "is_pattern":
		if trimmed != "" {
			if _, err := spec.CompilePattern(trimmed); err != nil {
				return fmt.Errorf("invalid pattern: %w", err)
			}
		}
		field.IsPattern = optionalString(trimmed)
	case "is_min", "is_max":
		v, err := optionalFloat(trimmed)
		if err != nil {
			return err
		}
		if name == "is_min" {
			field.IsMin = v
		} else {
			field.IsMax = v
		}
	default:
		b, err := strconv.ParseBool(trimmed)
		if err != nil {
			return fmt.Errorf("%s expects true or false", name)
		}
		return setBool(field, name, b)
	}
	return nil
}

func setBool(field *spec.FormField, name string, v bool) error {
	switch name {
	case "required":
		field.Required = v
	case "disabled":
		field.Disabled = v
	case "readonly":
		field.ReadOnly = v
	case "multiple":
		field.Multiple = v
	case "is_email":
		field.IsEmail = v
	case "is_url":
		field.IsURL = v
	case "is_empty":
		field.IsEmpty = v
	case "is_not_empty":
		field.IsNotEmpty = v
	case "check_spam":
		field.CheckSpam = v
	default:
		return fmt.Errorf("unknown property %q", name)
	}
	return nil
}

func optionalString(v string) *string {
	if v == "" {
		return nil
	}
	return spec.String(v)
}

func optionalFloat(v string) (*float64, error) {
	if v == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil, fmt.Errorf("%q is not a number", v)
	}
	return spec.Float(f), nil
}

func deref(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func formatFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
