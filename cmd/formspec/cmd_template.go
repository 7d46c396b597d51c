package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formspec/pkg/templatevars"
)

var errInvalidTemplate = errors.New("template is invalid")

func newTemplateCheckCmd(a *app) *cobra.Command {
	var (
		text    string
		preview bool
		vars    map[string]string
	)
	cmd := &cobra.Command{
		Use:   "template-check [file]",
		Short: "Check {{ variable }} tokens in a notification template",
		Long:  "Reports malformed tokens as errors and variables without a fallback as warnings. Reads the template from a file, --text, or stdin.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			template, err := a.templateInput(args, text, cmd.Flags().Changed("text"))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			result := templatevars.ValidateTemplateString(template)
			for _, msg := range result.Errors {
				fmt.Fprintf(out, "error: %s\n", msg)
			}
			for _, msg := range result.Warnings {
				fmt.Fprintf(out, "warning: %s\n", msg)
			}
			if len(result.Variables) > 0 {
				fmt.Fprintf(out, "variables: %s\n", strings.Join(result.Variables, ", "))
			}
			if preview {
				fmt.Fprintln(out, "---")
				fmt.Fprintln(out, templatevars.Render(template, vars))
			}
			if !result.Valid {
				return fmt.Errorf("%w: %d error(s)", errInvalidTemplate, len(result.Errors))
			}
			if len(result.Errors) == 0 && len(result.Warnings) == 0 {
				fmt.Fprintln(out, "ok")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&text, "text", "", "Template text to check")
	cmd.Flags().BoolVar(&preview, "preview", false, "Print the template with --var values substituted")
	cmd.Flags().StringToStringVar(&vars, "var", nil, "Preview value as name=value (repeatable)")
	return cmd
}

func (a *app) templateInput(args []string, text string, hasText bool) (string, error) {
	switch {
	case hasText:
		return text, nil
	case len(args) == 1 && args[0] != "-":
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", fmt.Errorf("read template: %w", err)
		}
		return string(data), nil
	default:
		data, err := io.ReadAll(a.stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
}
