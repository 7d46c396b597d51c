package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formspec/pkg/openapi"
	"github.com/goliatone/go-formspec/pkg/orchestrator"
	"github.com/goliatone/go-formspec/pkg/spec"
)

// generate renders ref through the named renderer.
func (a *app) generate(cmd *cobra.Command, ref, renderer string) ([]byte, error) {
	text, _, err := a.readSpec(cmd.Context(), ref)
	if err != nil {
		return nil, err
	}
	gen := orchestrator.New(
		orchestrator.WithLoader(a.loader),
		orchestrator.WithLogger(a.logger),
	)
	output, err := gen.Generate(cmd.Context(), orchestrator.Request{
		Text:          &text,
		Renderer:      renderer,
		RenderOptions: a.renderOptions(),
	})
	var invalid *orchestrator.ValidationError
	if errors.As(err, &invalid) {
		return nil, fmt.Errorf("%w: %s", errInvalidSpec, invalid.Error())
	}
	return output, err
}

func newHTMLCmd(a *app) *cobra.Command {
	var (
		output string
		legacy bool
	)
	cmd := &cobra.Command{
		Use:   "html <spec>",
		Short: "Render the spec as an HTML form snippet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			renderer := "html"
			if legacy {
				renderer = "html-v1"
			}
			out, err := a.generate(cmd, args[0], renderer)
			if err != nil {
				return err
			}
			return writeOutput(cmd, output, out)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (stdout if empty)")
	cmd.Flags().BoolVar(&legacy, "v1", false, "Use the deprecated v1 markup")
	return cmd
}

func newCurlCmd(a *app) *cobra.Command {
	var (
		output string
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "curl <spec>",
		Short: "Render a cURL command that submits sample data",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			renderer := "curl"
			if asJSON {
				renderer = "curl-json"
			}
			out, err := a.generate(cmd, args[0], renderer)
			if err != nil {
				return err
			}
			return writeOutput(cmd, output, out)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (stdout if empty)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Post a JSON body instead of form fields")
	return cmd
}

func newPromptCmd(a *app) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "prompt <spec>",
		Short: "Render instructions an LLM agent can follow to submit the form",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := a.generate(cmd, args[0], "prompt")
			if err != nil {
				return err
			}
			return writeOutput(cmd, output, out)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (stdout if empty)")
	return cmd
}

func newOpenAPICmd(a *app) *cobra.Command {
	var (
		output  string
		format  string
		title   string
		version string
	)
	cmd := &cobra.Command{
		Use:   "openapi <spec>",
		Short: "Describe the submission endpoint as an OpenAPI 3 document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, _, err := a.readSpec(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			result := spec.ParseAndValidate(text, spec.WithLogger(a.logger))
			if !result.Valid {
				return fmt.Errorf("%w: %s", errInvalidSpec, (&orchestrator.ValidationError{Errors: result.Errors}).Error())
			}
			form := result.Spec
			if form == nil {
				form = &spec.FormSpec{}
			}

			doc, err := openapi.Document(form, openapi.DocumentOptions{
				Title:          title,
				Version:        version,
				ServerURL:      a.cfg.APIBaseURL,
				CaptchaEnabled: a.cfg.Captcha,
				RedirectURL:    a.redirectURL,
			})
			if err != nil {
				return err
			}

			var data []byte
			switch strings.ToLower(format) {
			case "yaml", "yml":
				data, err = openapi.MarshalYAML(doc)
			case "json":
				data, err = openapi.MarshalJSON(doc)
			default:
				return fmt.Errorf("unsupported format %q (want yaml or json)", format)
			}
			if err != nil {
				return err
			}
			return writeOutput(cmd, output, data)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (stdout if empty)")
	cmd.Flags().StringVar(&format, "format", "yaml", "Output format: yaml or json")
	cmd.Flags().StringVar(&title, "title", "", "Document title")
	cmd.Flags().StringVar(&version, "api-version", "", "Document version")
	return cmd
}

func newRenderersCmd(a *app) *cobra.Command {
	var mediaType string
	cmd := &cobra.Command{
		Use:   "renderers",
		Short: "List the available renderers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			registry := orchestrator.New(orchestrator.WithLogger(a.logger)).Registry()
			if registry == nil {
				return errors.New("renderer registry is unavailable")
			}
			names := registry.List()
			if mediaType != "" {
				names = registry.ByContentType(mediaType)
			}
			for _, name := range names {
				renderer, err := registry.Get(name)
				if err != nil {
					return err
				}
				marker := " "
				if name == registry.Default() {
					marker = "*"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %-10s %s\n", marker, name, renderer.ContentType())
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&mediaType, "type", "", "Only list renderers producing this media type, e.g. text/html")
	return cmd
}
