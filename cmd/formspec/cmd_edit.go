package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formspec/pkg/tui"
)

func newEditCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "edit <spec>",
		Short: "Edit a spec file interactively",
		Long:  "Opens a terminal menu over the spec. A missing file starts a new spec; Save writes it back.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			data, err := os.ReadFile(path)
			if err != nil && !errors.Is(err, os.ErrNotExist) {
				return fmt.Errorf("read %s: %w", path, err)
			}

			options := []tui.Option{
				tui.WithLogger(a.logger),
				tui.WithRenderOptions(a.renderOptions()),
				tui.WithSave(func(_ context.Context, toml string) error {
					return os.WriteFile(path, []byte(toml), 0o644)
				}),
			}
			if a.driver != nil {
				options = append(options, tui.WithPromptDriver(a.driver))
			} else {
				options = append(options, tui.WithPromptDriver(tui.NewSurveyDriver(tui.WithOutput(cmd.OutOrStdout()))))
			}

			session, err := tui.NewSession(string(data), options...)
			if err != nil {
				return err
			}
			err = session.Run(cmd.Context())
			if errors.Is(err, tui.ErrAborted) {
				fmt.Fprintln(cmd.ErrOrStderr(), "Aborted.")
				return nil
			}
			return err
		},
	}
}
