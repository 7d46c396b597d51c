package render

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// RedirectFieldName is read by the digest endpoint to send the browser on
// after an accepted submission.
const RedirectFieldName = "_redirect"

// HiddenField is one <input type="hidden"> written after the spec's fields.
type HiddenField struct {
	Name  string
	Value string
}

// Hidden builds a HiddenField, formatting value with fmt.Sprint.
func Hidden(name string, value any) HiddenField {
	return HiddenField{Name: strings.TrimSpace(name), Value: fmt.Sprint(value)}
}

// RedirectField is the hidden input carrying a form's redirect_url.
func RedirectField(url string) HiddenField {
	return Hidden(RedirectFieldName, url)
}

// MergeHiddenFields layers fields over base without touching base. Blank names
// are skipped and the last value for a name wins. A nil map is returned when
// nothing survives.
func MergeHiddenFields(base map[string]string, fields ...HiddenField) map[string]string {
	merged := map[string]string{}
	for name, value := range base {
		put(merged, name, value)
	}
	for _, field := range fields {
		put(merged, field.Name, field.Value)
	}
	if len(merged) == 0 {
		return nil
	}
	return merged
}

// SortedHiddenFields orders hidden inputs by name so markup is stable.
func SortedHiddenFields(fields map[string]string) []HiddenField {
	clean := MergeHiddenFields(fields)
	if clean == nil {
		return nil
	}
	out := make([]HiddenField, 0, len(clean))
	for _, name := range slices.Sorted(maps.Keys(clean)) {
		out = append(out, HiddenField{Name: name, Value: clean[name]})
	}
	return out
}

func put(into map[string]string, name, value string) {
	if name = strings.TrimSpace(name); name != "" {
		into[name] = value
	}
}
