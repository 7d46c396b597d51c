package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formspec/pkg/spec"
)

var errInvalidSpec = errors.New("spec is invalid")

func newValidateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <spec>...",
		Short: "Check specs for structural errors",
		Long:  "Parses each spec (a path, an http(s) URL or - for stdin) and lists every structural error by locator.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			failed := 0
			for _, ref := range args {
				text, location, err := a.readSpec(cmd.Context(), ref)
				if err != nil {
					return err
				}
				result := spec.ParseAndValidate(text, spec.WithLogger(a.logger))
				if result.Valid {
					fmt.Fprintf(out, "%s: ok\n", location)
					continue
				}
				failed++
				fmt.Fprintf(out, "%s: %d error(s)\n", location, len(result.Errors))
				for _, locator := range result.Locators() {
					fmt.Fprintf(out, "  %s: %s\n", locator, result.Errors[locator])
				}
			}
			if failed > 0 {
				return fmt.Errorf("%w: %d of %d failed", errInvalidSpec, failed, len(args))
			}
			return nil
		},
	}
}

func newFmtCmd(a *app) *cobra.Command {
	var write bool
	cmd := &cobra.Command{
		Use:   "fmt <spec>",
		Short: "Rewrite a spec in canonical form",
		Long:  "Decodes the spec and dumps it again: field order is kept, unset properties are dropped and [settings] moves last.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, _, err := a.readSpec(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			form, err := spec.Decode(text)
			if err != nil {
				return err
			}
			out, err := spec.Dump(form)
			if err != nil {
				return err
			}
			if !write || args[0] == "-" {
				_, err := fmt.Fprint(cmd.OutOrStdout(), out)
				return err
			}
			info, err := os.Stat(args[0])
			if err != nil {
				return err
			}
			return os.WriteFile(args[0], []byte(out), info.Mode().Perm())
		},
	}
	cmd.Flags().BoolVarP(&write, "write", "w", false, "Write the result back to the file")
	return cmd
}
