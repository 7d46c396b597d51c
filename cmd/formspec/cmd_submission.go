package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formspec/pkg/spec"
	"github.com/goliatone/go-formspec/pkg/submission"
)

var errSubmissionRefused = errors.New("submission would not be accepted")

func newCheckSubmissionCmd(a *app) *cobra.Command {
	var (
		data   string
		fields []string
	)
	cmd := &cobra.Command{
		Use:   "check-submission <spec>",
		Short: "Dry-run the field validators against sample values",
		Long:  "Checks a sample submission (a query string via --data and/or repeated --field key=value) and prints the outcome as JSON: issues, the on_fail action and the values that would be stored.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := parseSubmission(data, fields)
			if err != nil {
				return err
			}
			text, _, err := a.readSpec(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			result := spec.ParseAndValidate(text, spec.WithLogger(a.logger))
			if !result.Valid {
				return fmt.Errorf("%w: %d error(s); run validate for details", errInvalidSpec, len(result.Errors))
			}

			outcome := submission.Check(result.Spec, values)
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(outcome); err != nil {
				return err
			}
			if !outcome.Accepted {
				return fmt.Errorf("%w: on_fail=%s", errSubmissionRefused, outcome.Action)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&data, "data", "", "URL-encoded submission, e.g. 'name=Ada&email=ada%40example.com'")
	cmd.Flags().StringArrayVar(&fields, "field", nil, "Submitted value as key=value (repeatable)")
	return cmd
}

func parseSubmission(data string, fields []string) (url.Values, error) {
	values := url.Values{}
	if data != "" {
		parsed, err := url.ParseQuery(data)
		if err != nil {
			return nil, fmt.Errorf("parse --data: %w", err)
		}
		for key, vals := range parsed {
			values[key] = append(values[key], vals...)
		}
	}
	for _, pair := range fields {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("--field %q: expected key=value", pair)
		}
		values.Add(key, value)
	}
	return values, nil
}
