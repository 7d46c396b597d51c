package orchestrator

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	internalLoader "github.com/goliatone/go-formspec/internal/source/loader"
	"github.com/goliatone/go-formspec/pkg/render"
	"github.com/goliatone/go-formspec/pkg/renderers/curl"
	"github.com/goliatone/go-formspec/pkg/renderers/html"
	"github.com/goliatone/go-formspec/pkg/renderers/prompt"
	"github.com/goliatone/go-formspec/pkg/source"
	"github.com/goliatone/go-formspec/pkg/spec"
)

const defaultRendererName = "html"

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithLoader injects a custom spec loader.
func WithLoader(loader source.Loader) Option {
	return func(o *Orchestrator) {
		o.loader = loader
	}
}

// WithRegistry injects a renderer registry in place of the built-in one.
func WithRegistry(registry *render.Registry) Option {
	return func(o *Orchestrator) {
		o.registry = registry
	}
}

// WithDefaultRenderer overrides the renderer used when a request names none.
func WithDefaultRenderer(name string) Option {
	return func(o *Orchestrator) {
		o.defaultRenderer = name
	}
}

// WithTransformers registers transformers that run, in order, after
// validation and before rendering.
func WithTransformers(transformers ...Transformer) Option {
	return func(o *Orchestrator) {
		o.transformers = append(o.transformers, transformers...)
	}
}

// WithLogger routes diagnostics to logger.
func WithLogger(logger *zap.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// Orchestrator coordinates source → spec → artifact.
type Orchestrator struct {
	loader          source.Loader
	registry        *render.Registry
	defaultRenderer string
	transformers    []Transformer
	logger          *zap.Logger
	initialiseErr   error
}

// New constructs an Orchestrator. Missing dependencies fall back to the
// offline loader and a registry holding every built-in renderer.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{
		defaultRenderer: defaultRendererName,
		logger:          zap.NewNop(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(o)
		}
	}
	if o.loader == nil {
		o.loader = internalLoader.New(source.NewLoaderOptions())
	}
	if o.registry == nil {
		o.registry, o.initialiseErr = DefaultRegistry()
	}
	return o
}

// DefaultRegistry returns a registry with html (default), html-v1, curl,
// curl-json and prompt.
func DefaultRegistry() (*render.Registry, error) {
	registry := render.NewRegistry()
	registry.MustRegister(html.New())
	registry.MustRegister(html.V1Renderer())
	for _, renderer := range curl.Renderers() {
		registry.MustRegister(renderer)
	}
	promptRenderer, err := prompt.New()
	if err != nil {
		return nil, fmt.Errorf("orchestrator: default renderer: %w", err)
	}
	registry.MustRegister(promptRenderer)
	return registry, nil
}

// Request describes one render.
type Request struct {
	// Source identifies where the spec TOML lives. Ignored when Text is set.
	Source source.Source

	// Text supplies the spec TOML inline.
	Text *string

	// Renderer names the renderer. Empty selects the default.
	Renderer string

	// RenderOptions carries the submission and captcha URLs.
	RenderOptions render.RenderOptions
}

// Registry exposes the renderer registry.
func (o *Orchestrator) Registry() *render.Registry { return o.registry }

// Load resolves the request text and parses and validates it. A blank
// document yields an empty spec. Structural failures return
// *ValidationError.
func (o *Orchestrator) Load(ctx context.Context, req Request) (*spec.FormSpec, error) {
	if ctx == nil {
		return nil, errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	text, err := o.resolveText(ctx, req)
	if err != nil {
		return nil, err
	}

	result := spec.ParseAndValidate(text, spec.WithLogger(o.logger))
	if !result.Valid {
		o.logger.Debug("orchestrator: spec rejected", zap.Int("errors", len(result.Errors)))
		return nil, &ValidationError{Errors: result.Errors}
	}
	if result.Spec == nil {
		return &spec.FormSpec{}, nil
	}
	return result.Spec, nil
}

// Generate runs the full pipeline and returns the rendered artifact.
func (o *Orchestrator) Generate(ctx context.Context, req Request) ([]byte, error) {
	if err := o.initialiseErr; err != nil {
		return nil, err
	}

	form, err := o.Load(ctx, req)
	if err != nil {
		return nil, err
	}

	for _, transformer := range o.transformers {
		if transformer == nil {
			continue
		}
		if err := transformer.Transform(ctx, form); err != nil {
			return nil, fmt.Errorf("orchestrator: transform spec: %w", err)
		}
	}

	renderer, err := o.rendererFor(req.Renderer)
	if err != nil {
		return nil, err
	}

	output, err := renderer.Render(ctx, form, req.RenderOptions)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: render output: %w", err)
	}
	o.logger.Debug("orchestrator: rendered",
		zap.String("renderer", renderer.Name()),
		zap.Int("fields", form.Fields.Len()),
		zap.Int("bytes", len(output)),
	)
	return output, nil
}

func (o *Orchestrator) resolveText(ctx context.Context, req Request) (string, error) {
	if req.Text != nil {
		return *req.Text, nil
	}
	if req.Source == nil {
		return "", errors.New("orchestrator: source or text is required")
	}
	doc, err := o.loader.Load(ctx, req.Source)
	if err != nil {
		return "", fmt.Errorf("orchestrator: load spec: %w", err)
	}
	return doc.Text(), nil
}

func (o *Orchestrator) rendererFor(name string) (render.Renderer, error) {
	if o.registry == nil {
		return nil, errors.New("orchestrator: renderer registry is nil")
	}
	target := name
	if target == "" {
		target = o.defaultRenderer
	}
	renderer, err := o.registry.Get(target)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: %w", err)
	}
	return renderer, nil
}
