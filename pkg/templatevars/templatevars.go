// Package templatevars checks the `{{ name | "fallback" }}` substitution
// syntax used by auto-response subjects and bodies. Checking is regex based:
// the grammar is a single flat token with an optional quoted fallback, with no
// nesting and no escapes.
package templatevars

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	tokenPattern    = regexp.MustCompile(`(?s)\{\{(.*?)\}\}`)
	variablePattern = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_]*(?:\.[A-Za-z_][A-Za-z0-9_]*)*)(?:\s*\|\s*"([^"]*)")?$`)
	loosePattern    = regexp.MustCompile(`^([^\s|"{}]+)(?:\s*\|\s*"[^"]*")?$`)
)

// Result reports hard errors, which make the template invalid, separately
// from warnings, which flag likely mistakes.
type Result struct {
	Valid     bool     `json:"valid"`
	Errors    []string `json:"errors,omitempty"`
	Warnings  []string `json:"warnings,omitempty"`
	Variables []string `json:"variables,omitempty"`
}

// Token is one `{{ ... }}` occurrence.
type Token struct {
	Raw         string
	Name        string
	Fallback    string
	HasFallback bool
	Start, End  int
}

// ValidateTemplateString checks every token in s.
func ValidateTemplateString(s string) Result {
	var result Result
	seen := make(map[string]struct{})

	for _, loc := range tokenPattern.FindAllStringSubmatchIndex(s, -1) {
		raw := s[loc[0]:loc[1]]
		inner := strings.TrimSpace(s[loc[2]:loc[3]])

		if inner == "" {
			result.Errors = append(result.Errors, fmt.Sprintf("Empty template variable %q at position %d", raw, loc[0]))
			continue
		}

		if m := variablePattern.FindStringSubmatch(inner); m != nil {
			name := m[1]
			if _, ok := seen[name]; !ok {
				seen[name] = struct{}{}
				result.Variables = append(result.Variables, name)
			}
			if !strings.Contains(inner, "|") {
				result.Warnings = append(result.Warnings, fmt.Sprintf(
					"Variable %q has no fallback and renders empty when missing; use {{ %s | \"default\" }}",
					name, name,
				))
			}
			continue
		}

		if m := loosePattern.FindStringSubmatch(inner); m != nil {
			result.Errors = append(result.Errors, fmt.Sprintf(
				"Invalid variable name %q: use letters, digits, underscores and dots, starting with a letter or underscore",
				m[1],
			))
			continue
		}

		result.Errors = append(result.Errors, fmt.Sprintf("Unrecognized template token %q", raw))
	}

	rest := tokenPattern.ReplaceAllString(s, " ")
	if n := strings.Count(rest, "{{"); n > 0 {
		result.Errors = append(result.Errors, fmt.Sprintf("Found %d unmatched '{{'", n))
	}
	if n := strings.Count(rest, "}}"); n > 0 {
		result.Errors = append(result.Errors, fmt.Sprintf("Found %d unmatched '}}'", n))
	}
	rest = strings.ReplaceAll(strings.ReplaceAll(rest, "{{", ""), "}}", "")
	if strings.ContainsAny(rest, "{}") {
		result.Warnings = append(result.Warnings,
			"Single braces found; template variables use double braces like {{ name }}")
	}

	result.Valid = len(result.Errors) == 0
	return result
}

// Tokens returns the well-formed variable tokens in s, in order.
func Tokens(s string) []Token {
	var out []Token
	for _, loc := range tokenPattern.FindAllStringSubmatchIndex(s, -1) {
		inner := strings.TrimSpace(s[loc[2]:loc[3]])
		m := variablePattern.FindStringSubmatch(inner)
		if m == nil {
			continue
		}
		out = append(out, Token{
			Raw:         s[loc[0]:loc[1]],
			Name:        m[1],
			Fallback:    m[2],
			HasFallback: strings.Contains(inner, "|"),
			Start:       loc[0],
			End:         loc[1],
		})
	}
	return out
}

// Variables lists the distinct variable names referenced by s.
func Variables(s string) []string {
	return ValidateTemplateString(s).Variables
}

// Render substitutes well-formed tokens with values, using the fallback when
// a value is missing or empty. Malformed tokens are left untouched.
func Render(s string, values map[string]string) string {
	tokens := Tokens(s)
	if len(tokens) == 0 {
		return s
	}
	var out strings.Builder
	last := 0
	for _, token := range tokens {
		out.WriteString(s[last:token.Start])
		if value := values[token.Name]; value != "" {
			out.WriteString(value)
		} else {
			out.WriteString(token.Fallback)
		}
		last = token.End
	}
	out.WriteString(s[last:])
	return out.String()
}
