// Package prompt produces a natural-language instruction block asking an LLM
// to build an HTML form matching a FormSpec, including captcha setup when
// enabled and the destination URL.
package prompt

import (
	"context"
	"embed"
	"fmt"
	"html"
	"io/fs"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-formspec/pkg/render"
	rendertemplate "github.com/goliatone/go-formspec/pkg/render/template"
	"github.com/goliatone/go-formspec/pkg/render/template/gotemplate"
	"github.com/goliatone/go-formspec/pkg/spec"
)

// AltchaScriptTag is the script the captcha widget needs on the page.
const AltchaScriptTag = `<script async defer src="https://cdn.jsdelivr.net/gh/altcha-org/altcha/dist/altcha.min.js" type="module"></script>`

const templateName = "prompt"

//go:embed templates/*.tpl
var embedded embed.FS

// TemplatesFS exposes the bundled prompt templates.
func TemplatesFS() fs.FS {
	sub, err := fs.Sub(embedded, "templates")
	if err != nil {
		return embedded
	}
	return sub
}

// Option configures a Generator.
type Option func(*config)

type config struct {
	templatesDir string
	renderer     rendertemplate.TemplateRenderer
}

// WithTemplatesDir loads prompt.tpl from dir before falling back to the
// bundled template.
func WithTemplatesDir(dir string) Option {
	return func(cfg *config) {
		cfg.templatesDir = strings.TrimSpace(dir)
	}
}

// WithTemplateRenderer injects a custom template renderer.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.renderer = renderer
		}
	}
}

// Generator renders prompts through a TemplateRenderer.
type Generator struct {
	templates rendertemplate.TemplateRenderer
}

// New builds a Generator backed by the pongo2 engine.
func New(options ...Option) (*Generator, error) {
	var cfg config
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.renderer == nil {
		opts := []gotemplate.Option{gotemplate.WithFS(TemplatesFS())}
		if cfg.templatesDir != "" {
			opts = append(opts, gotemplate.WithBaseDir(cfg.templatesDir))
		}
		engine, err := gotemplate.New(opts...)
		if err != nil {
			return nil, fmt.Errorf("prompt: configure template renderer: %w", err)
		}
		cfg.renderer = engine
	}
	return &Generator{templates: cfg.renderer}, nil
}

// Generate renders the prompt for form.
func (g *Generator) Generate(form *spec.FormSpec, options render.RenderOptions) (string, error) {
	out, err := g.templates.RenderTemplate(templateName, templateData(form, options))
	if err != nil {
		return "", fmt.Errorf("prompt: render: %w", err)
	}
	return out, nil
}

// Name implements render.Renderer.
func (*Generator) Name() string { return "prompt" }

// ContentType implements render.Renderer.
func (*Generator) ContentType() string { return "text/plain; charset=utf-8" }

// Render implements render.Renderer.
func (g *Generator) Render(ctx context.Context, form *spec.FormSpec, options render.RenderOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out, err := g.Generate(form, options)
	if err != nil {
		return nil, err
	}
	return []byte(out), nil
}

var (
	defaultOnce sync.Once
	defaultGen  *Generator
	defaultErr  error
)

// Generate renders the prompt with the bundled template.
func Generate(form *spec.FormSpec, options render.RenderOptions) (string, error) {
	defaultOnce.Do(func() {
		defaultGen, defaultErr = New()
	})
	if defaultErr != nil {
		return "", defaultErr
	}
	return defaultGen.Generate(form, options)
}

var (
	plainPolicyOnce sync.Once
	plainPolicy     *bluemonday.Policy
)

// plainText strips markup authors may have put in labels or help text.
func plainText(raw string) string {
	plainPolicyOnce.Do(func() {
		plainPolicy = bluemonday.StrictPolicy()
	})
	return strings.TrimSpace(html.UnescapeString(plainPolicy.Sanitize(raw)))
}

func templateData(form *spec.FormSpec, options render.RenderOptions) map[string]any {
	var fields []any
	multipart := false
	if form != nil {
		for key, field := range form.Fields.All() {
			if field.Field == spec.FieldSubmit {
				continue
			}
			if field.Field == spec.FieldFile {
				multipart = true
			}
			label := plainText(field.Label)
			if label == "" {
				label = spec.DefaultLabeler(key)
			}
			status := "optional"
			if field.Required {
				status = "required"
			}
			fields = append(fields, map[string]any{
				"key":     key,
				"label":   label,
				"status":  status,
				"type":    string(field.Field),
				"options": strings.Join(spec.OptionList(field.Options), ", "),
				"value":   field.Value,
				"help":    plainText(field.HelpText),
			})
		}
	}

	return map[string]any{
		"fields":     fields,
		"multipart":  multipart,
		"captcha":    options.CaptchaEnabled,
		"script_tag": AltchaScriptTag,
		"widget":     fmt.Sprintf(`<altcha-widget challengeurl="%s"></altcha-widget>`, options.ChallengeURL),
		"submit_url": options.SubmitURL,
	}
}
