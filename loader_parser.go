package formspec

import (
	internalLoader "github.com/goliatone/go-formspec/internal/source/loader"
	"github.com/goliatone/go-formspec/pkg/source"
	"github.com/goliatone/go-formspec/pkg/spec"
)

// NewLoader constructs a spec loader using the internal implementation while
// keeping the concrete type hidden from consumers.
func NewLoader(options ...source.LoaderOption) source.Loader {
	cfg := source.NewLoaderOptions(options...)
	return internalLoader.New(cfg)
}

// ParseAndValidate parses spec TOML and reports every structural error.
func ParseAndValidate(text string, options ...spec.Option) spec.Result {
	return spec.ParseAndValidate(text, options...)
}
