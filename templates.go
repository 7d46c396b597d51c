package formspec

import (
	"io/fs"

	"github.com/goliatone/go-formspec/pkg/renderers/prompt"
)

// EmbeddedTemplates exposes the built-in LLM prompt template so callers can
// copy and extend it before pointing prompt.WithTemplatesDir at their copy.
func EmbeddedTemplates() fs.FS {
	return prompt.TemplatesFS()
}
