// Package gotemplate renders text templates with pongo2, loading them from a
// directory on disk and/or an fs.FS.
package gotemplate

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-formspec/pkg/render/template"
)

const defaultExtension = ".tpl"

// Option configures the engine before construction.
type Option func(*config)

type config struct {
	dir     string
	files   fs.FS
	ext     string
	globals pongo2.Context
	filters map[string]template.FilterFunc
}

// WithBaseDir loads templates from dir. Combined with WithFS, the directory
// is searched first so single files can be overridden.
func WithBaseDir(dir string) Option {
	return func(cfg *config) {
		cfg.dir = strings.TrimSpace(dir)
	}
}

// WithFS loads templates from files.
func WithFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.files = files
	}
}

// WithExtension replaces the ".tpl" suffix added to bare template names.
func WithExtension(ext string) Option {
	return func(cfg *config) {
		ext = strings.TrimSpace(ext)
		if ext == "" {
			return
		}
		cfg.ext = "." + strings.TrimPrefix(ext, ".")
	}
}

// WithGlobalData makes values visible to every template. Request data wins
// on key collisions.
func WithGlobalData(data map[string]any) Option {
	return func(cfg *config) {
		for key, value := range data {
			cfg.globals[strings.TrimSpace(key)] = value
		}
	}
}

// WithFilter registers an extra filter. pongo2 filters are process-wide: a
// name that already exists keeps its first implementation.
func WithFilter(name string, fn template.FilterFunc) Option {
	return func(cfg *config) {
		if name = strings.TrimSpace(name); name != "" && fn != nil {
			cfg.filters[name] = fn
		}
	}
}

// Engine implements template.TemplateRenderer on a pongo2 template set.
// Values are autoescaped; plain-text templates mark them with |safe.
type Engine struct {
	set *pongo2.TemplateSet
	ext string
}

var _ template.TemplateRenderer = (*Engine)(nil)

// New builds an Engine. WithBaseDir or WithFS is required.
func New(options ...Option) (*Engine, error) {
	cfg := &config{
		ext:     defaultExtension,
		globals: pongo2.Context{},
		filters: map[string]template.FilterFunc{},
	}
	for _, opt := range options {
		if opt != nil {
			opt(cfg)
		}
	}

	var loaders []pongo2.TemplateLoader
	if cfg.dir != "" {
		local, err := pongo2.NewLocalFileSystemLoader(cfg.dir)
		if err != nil {
			return nil, fmt.Errorf("gotemplate: templates dir: %w", err)
		}
		loaders = append(loaders, local)
	}
	if cfg.files != nil {
		loaders = append(loaders, pongo2.NewFSLoader(cfg.files))
	}
	if len(loaders) == 0 {
		return nil, errors.New("gotemplate: a base dir or fs.FS is required")
	}

	registerBuiltinFilters()
	for name, fn := range cfg.filters {
		if err := registerFilter(name, fn); err != nil {
			return nil, err
		}
	}

	set := pongo2.NewSet("formspec", loaders...)
	set.Globals.Update(cfg.globals)
	return &Engine{set: set, ext: cfg.ext}, nil
}

// RenderTemplate executes the named template. Parsed templates are cached by
// the underlying set.
func (e *Engine) RenderTemplate(name string, data any, out ...io.Writer) (string, error) {
	if e == nil || e.set == nil {
		return "", errors.New("gotemplate: engine is nil")
	}
	if path.Ext(name) == "" {
		name += e.ext
	}
	tmpl, err := e.set.FromCache(name)
	if err != nil {
		return "", fmt.Errorf("gotemplate: load %q: %w", name, err)
	}
	return execute(tmpl, data, name, out)
}

// RenderString parses and executes content.
func (e *Engine) RenderString(content string, data any, out ...io.Writer) (string, error) {
	if e == nil || e.set == nil {
		return "", errors.New("gotemplate: engine is nil")
	}
	tmpl, err := e.set.FromString(content)
	if err != nil {
		return "", fmt.Errorf("gotemplate: parse inline template: %w", err)
	}
	return execute(tmpl, data, "inline template", out)
}

func execute(tmpl *pongo2.Template, data any, label string, out []io.Writer) (string, error) {
	ctx, err := contextFor(data)
	if err != nil {
		return "", fmt.Errorf("gotemplate: %s data: %w", label, err)
	}
	rendered, err := tmpl.Execute(ctx)
	if err != nil {
		return "", fmt.Errorf("gotemplate: execute %s: %w", label, err)
	}
	for _, w := range out {
		if _, err := io.WriteString(w, rendered); err != nil {
			return "", err
		}
	}
	return rendered, nil
}

// contextFor passes maps through and converts anything else via JSON, so
// struct tags name the template variables.
func contextFor(data any) (pongo2.Context, error) {
	switch v := data.(type) {
	case nil:
		return pongo2.Context{}, nil
	case pongo2.Context:
		return v, nil
	case map[string]any:
		return v, nil
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	var ctx pongo2.Context
	if err := json.Unmarshal(raw, &ctx); err != nil {
		return nil, fmt.Errorf("expected an object: %w", err)
	}
	return ctx, nil
}

func registerFilter(name string, fn template.FilterFunc) error {
	if pongo2.FilterExists(name) {
		return nil
	}
	err := pongo2.RegisterFilter(name, func(in, param *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
		var arg any
		if param != nil && !param.IsNil() {
			arg = param.Interface()
		}
		result, err := fn(in.Interface(), arg)
		if err != nil {
			return nil, &pongo2.Error{Sender: "filter:" + name, OrigError: err}
		}
		return pongo2.AsValue(result), nil
	})
	if err != nil {
		return fmt.Errorf("gotemplate: register filter %q: %w", name, err)
	}
	return nil
}

var builtinFilters sync.Once

// registerBuiltinFilters adds trim and quote, used by the prompt template.
func registerBuiltinFilters() {
	builtinFilters.Do(func() {
		_ = registerFilter("trim", func(in, _ any) (any, error) {
			if in == nil {
				return "", nil
			}
			return strings.TrimSpace(fmt.Sprint(in)), nil
		})
		_ = registerFilter("quote", func(in, _ any) (any, error) {
			if in == nil {
				return `""`, nil
			}
			return `"` + fmt.Sprint(in) + `"`, nil
		})
	})
}
