package orchestrator

import (
	"fmt"
	"sort"
	"strings"
)

// ValidationError carries the structural errors that stopped a render.
type ValidationError struct {
	Errors map[string]string
}

func (e *ValidationError) Error() string {
	locators := make([]string, 0, len(e.Errors))
	for locator := range e.Errors {
		locators = append(locators, locator)
	}
	sort.Strings(locators)

	parts := make([]string, 0, len(locators))
	for _, locator := range locators {
		parts = append(parts, fmt.Sprintf("%s: %s", locator, e.Errors[locator]))
	}
	return "orchestrator: invalid spec: " + strings.Join(parts, "; ")
}
