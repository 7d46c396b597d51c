package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-formspec/pkg/spec"
)

func newPullCmd(a *app) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "pull [form-id]",
		Short: "Download a form's spec from the forms service",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			formID, err := a.formIDArg(args)
			if err != nil {
				return err
			}
			client, err := a.client()
			if err != nil {
				return err
			}
			form, err := client.GetForm(cmd.Context(), formID)
			if err != nil {
				return err
			}
			if result := form.ParseSpecs(spec.WithLogger(a.logger)); !result.Valid {
				a.logger.Warn("pulled spec has validation errors",
					zap.String("form_id", formID),
					zap.Strings("locators", result.Locators()),
				)
			}
			return writeOutput(cmd, output, []byte(form.Specs))
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (stdout if empty)")
	return cmd
}

func newPushCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "push <spec> [form-id]",
		Short: "Validate a spec and upload it to the forms service",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			formID, err := a.formIDArg(args[1:])
			if err != nil {
				return err
			}
			text, location, err := a.readSpec(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			result := spec.ParseAndValidate(text, spec.WithLogger(a.logger))
			if !result.Valid {
				for _, locator := range result.Locators() {
					fmt.Fprintf(cmd.ErrOrStderr(), "  %s: %s\n", locator, result.Errors[locator])
				}
				return fmt.Errorf("%w: refusing to push %s", errInvalidSpec, location)
			}

			client, err := a.client()
			if err != nil {
				return err
			}
			form, err := client.UpdateSpecs(cmd.Context(), formID, text)
			if err != nil {
				return err
			}
			fields := 0
			if result.Spec != nil {
				fields = result.Spec.Fields.Len()
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Pushed %d field(s) to form %s\n", fields, form.ID)
			return nil
		},
	}
	return cmd
}
