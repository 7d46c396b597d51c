package orchestrator

import (
	"context"

	"github.com/goliatone/go-formspec/pkg/spec"
)

// Transformer mutates a validated spec before rendering, for example to
// inject host-specific defaults. The spec passed in is a private copy.
type Transformer interface {
	Transform(ctx context.Context, form *spec.FormSpec) error
}

// TransformerFunc adapts plain functions to the Transformer interface.
type TransformerFunc func(ctx context.Context, form *spec.FormSpec) error

// Transform executes the wrapped function when non-nil.
func (fn TransformerFunc) Transform(ctx context.Context, form *spec.FormSpec) error {
	if fn == nil {
		return nil
	}
	return fn(ctx, form)
}
