package template

import "io"

// TemplateRenderer is the seam text generators render through. The rendered
// text is returned and also copied to any writers supplied.
type TemplateRenderer interface {
	// RenderTemplate executes a named template. The engine's extension is
	// appended when name has none.
	RenderTemplate(name string, data any, out ...io.Writer) (string, error)
	// RenderString executes inline template content.
	RenderString(content string, data any, out ...io.Writer) (string, error)
}

// FilterFunc transforms a template value. param is nil when the filter is
// used without an argument.
type FilterFunc func(input any, param any) (any, error)
