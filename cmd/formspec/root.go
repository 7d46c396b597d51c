package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/goliatone/go-formspec/internal/config"
	internalLoader "github.com/goliatone/go-formspec/internal/source/loader"
	"github.com/goliatone/go-formspec/pkg/formsapi"
	"github.com/goliatone/go-formspec/pkg/render"
	"github.com/goliatone/go-formspec/pkg/source"
	"github.com/goliatone/go-formspec/pkg/tui"
)

// app carries the state shared by every command: resolved settings, the
// logger and the spec loader.
type app struct {
	configPath string
	verbose    bool

	apiBaseURL  string
	apiToken    string
	formID      string
	captcha     bool
	submitURL   string
	redirectURL string
	timeout     time.Duration

	cfg    *config.Config
	logger *zap.Logger
	loader source.Loader
	stdin  io.Reader
	driver tui.PromptDriver
}

func newRootCmd() *cobra.Command {
	return newRootCommand(&app{stdin: os.Stdin})
}

func newRootCommand(a *app) *cobra.Command {
	if a.logger == nil {
		a.logger = zap.NewNop()
	}
	if a.stdin == nil {
		a.stdin = os.Stdin
	}

	root := &cobra.Command{
		Use:           "formspec",
		Short:         "Work with TOML form specs",
		Long:          "Validate, format and render TOML form specs as HTML, cURL examples, LLM prompts or OpenAPI, and sync them with the forms service.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.logger.Sync()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", config.DefaultPath, "Config file")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "Enable verbose logging")
	flags.StringVar(&a.apiBaseURL, "api-base-url", "", "Forms service base URL (or "+config.EnvPrefix+"API_BASE_URL)")
	flags.StringVar(&a.apiToken, "api-token", "", "Forms service token (or "+config.EnvPrefix+"API_TOKEN)")
	flags.StringVar(&a.formID, "form-id", "", "Form id used for endpoint URLs")
	flags.BoolVar(&a.captcha, "captcha", false, "Render the altcha captcha widget")
	flags.StringVar(&a.submitURL, "submit-url", "", "Override the form action URL")
	flags.StringVar(&a.redirectURL, "redirect-url", "", "Add a _redirect hidden field")
	flags.DurationVar(&a.timeout, "timeout", 0, "Request timeout for remote specs and the forms service")

	root.AddCommand(
		newValidateCmd(a),
		newFmtCmd(a),
		newHTMLCmd(a),
		newCurlCmd(a),
		newPromptCmd(a),
		newOpenAPICmd(a),
		newRenderersCmd(a),
		newTemplateCheckCmd(a),
		newCheckSubmissionCmd(a),
		newEditCmd(a),
		newPullCmd(a),
		newPushCmd(a),
	)
	return root
}

// setup resolves config (flags > env > file), builds the logger and the
// spec loader.
func (a *app) setup(cmd *cobra.Command) error {
	zapConfig := zap.NewProductionConfig()
	if a.verbose {
		zapConfig.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err := zapConfig.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	a.logger = logger

	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("api-base-url") {
		cfg.APIBaseURL = a.apiBaseURL
	}
	if flags.Changed("api-token") {
		cfg.APIToken = a.apiToken
	}
	if flags.Changed("form-id") {
		cfg.FormID = a.formID
	}
	if flags.Changed("captcha") {
		cfg.Captcha = a.captcha
	}
	if flags.Changed("timeout") {
		cfg.Timeout = a.timeout
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg
	a.loader = internalLoader.New(source.NewLoaderOptions(source.WithHTTPFallback(cfg.Timeout)))

	a.logger.Debug("config resolved",
		zap.String("config", a.configPath),
		zap.String("api_base_url", cfg.APIBaseURL),
		zap.String("form_id", cfg.FormID),
		zap.Bool("captcha", cfg.Captcha),
	)
	return nil
}

func (a *app) endpoints() formsapi.Endpoints {
	return formsapi.Endpoints{BaseURL: a.cfg.APIBaseURL}
}

// renderOptions derives generator inputs from the resolved settings.
func (a *app) renderOptions() render.RenderOptions {
	var opts render.RenderOptions
	if a.cfg.FormID != "" {
		opts = a.endpoints().RenderOptions(formsapi.Form{
			ID:             a.cfg.FormID,
			CheckChallenge: a.cfg.Captcha,
			RedirectURL:    a.redirectURL,
		})
	} else {
		opts.CaptchaEnabled = a.cfg.Captcha
		if a.redirectURL != "" {
			opts.Hidden = render.MergeHiddenFields(nil, render.RedirectField(a.redirectURL))
		}
	}
	if a.submitURL != "" {
		opts.SubmitURL = a.submitURL
	}
	return opts
}

func (a *app) client() (*formsapi.Client, error) {
	options := []formsapi.Option{
		formsapi.WithToken(a.cfg.APIToken),
		formsapi.WithRetries(a.cfg.Retries),
		formsapi.WithLogger(a.logger),
	}
	if a.cfg.Timeout > 0 {
		options = append(options, formsapi.WithHTTPClient(&http.Client{Timeout: a.cfg.Timeout}))
	}
	return formsapi.NewClient(a.cfg.APIBaseURL, options...)
}

// formIDArg returns the positional id when given, else the configured one.
func (a *app) formIDArg(args []string) (string, error) {
	if len(args) > 0 && strings.TrimSpace(args[0]) != "" {
		return strings.TrimSpace(args[0]), nil
	}
	if a.cfg.FormID != "" {
		return a.cfg.FormID, nil
	}
	return "", fmt.Errorf("form id is required (argument, --form-id or %sFORM_ID)", config.EnvPrefix)
}

// readSpec loads spec text from a path, URL or "-" for stdin. The second
// value names the origin for messages.
func (a *app) readSpec(ctx context.Context, ref string) (string, string, error) {
	if ref == "-" {
		data, err := io.ReadAll(a.stdin)
		if err != nil {
			return "", "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), "<stdin>", nil
	}
	src, err := source.Parse(ref)
	if err != nil {
		return "", "", err
	}
	doc, err := a.loader.Load(ctx, src)
	if err != nil {
		return "", "", err
	}
	return doc.Text(), doc.Location(), nil
}

// writeOutput writes data to path, or to the command output when path is
// empty.
func writeOutput(cmd *cobra.Command, path string, data []byte) error {
	if path == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s\n", path)
	return nil
}
