// Package tui edits a form spec from the terminal. A Session drives
// editor.Editor operations through a PromptDriver, so the same flows run
// against survey in a real terminal and a scripted driver in tests.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-formspec/pkg/editor"
	"github.com/goliatone/go-formspec/pkg/render"
	"github.com/goliatone/go-formspec/pkg/spec"
)

// SaveFunc persists the current TOML.
type SaveFunc func(ctx context.Context, toml string) error

// Option configures a Session.
type Option func(*Session)

// WithPromptDriver replaces the survey driver.
func WithPromptDriver(driver PromptDriver) Option {
	return func(s *Session) {
		if driver != nil {
			s.driver = driver
		}
	}
}

// WithSave sets the callback used by the save action.
func WithSave(fn SaveFunc) Option {
	return func(s *Session) {
		s.save = fn
	}
}

// WithRenderOptions sets the URLs used by previews.
func WithRenderOptions(opts render.RenderOptions) Option {
	return func(s *Session) {
		s.renderOptions = opts
	}
}

// WithLogger routes session diagnostics to logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Session is one interactive editing run.
type Session struct {
	driver        PromptDriver
	editor        *editor.Editor
	save          SaveFunc
	renderOptions render.RenderOptions
	logger        *zap.Logger

	current string
	dirty   bool
}

// Main menu entries, in display order.
const (
	actionAdd      = "Add field"
	actionEdit     = "Edit field property"
	actionRename   = "Rename field"
	actionDelete   = "Delete field"
	actionMove     = "Move field"
	actionOptions  = "Manage options"
	actionSettings = "Settings"
	actionPreview  = "Preview"
	actionValidate = "Validate"
	actionSave     = "Save"
	actionQuit     = "Quit"
)

var mainMenu = []string{
	actionAdd, actionEdit, actionRename, actionDelete, actionMove, actionOptions,
	actionSettings, actionPreview, actionValidate, actionSave, actionQuit,
}

var previewFormats = []string{"html", "curl", "curl-json", "prompt"}

// NewSession loads text into a fresh editor. Blank text starts an
// uninitialised editor.
func NewSession(text string, options ...Option) (*Session, error) {
	s := &Session{logger: zap.NewNop(), current: text}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}
	if s.driver == nil {
		s.driver = NewSurveyDriver()
	}
	s.editor = editor.New(
		editor.WithLogger(s.logger),
		editor.WithOnChange(func(toml string) {
			s.current = toml
			s.dirty = true
		}),
	)
	if err := s.editor.Load(text); err != nil {
		return nil, fmt.Errorf("tui: %w", err)
	}
	return s, nil
}

// Editor exposes the underlying editor.
func (s *Session) Editor() *editor.Editor { return s.editor }

// Current returns the latest TOML produced by the session.
func (s *Session) Current() string { return s.current }

// Dirty reports whether there are unsaved changes.
func (s *Session) Dirty() bool { return s.dirty }

// Run shows the main menu until the user quits. It returns ErrAborted when
// the terminal is interrupted.
func (s *Session) Run(ctx context.Context) error {
	for {
		choice, err := s.driver.Select(ctx, SelectConfig{
			Message:  fmt.Sprintf("Spec editor (%s, %d fields)", s.editor.State(), s.fieldCount()),
			Options:  mainMenu,
			PageSize: len(mainMenu),
		})
		if err != nil {
			return err
		}
		if choice < 0 || choice >= len(mainMenu) {
			continue
		}

		action := mainMenu[choice]
		if action == actionQuit {
			if !s.dirty {
				return nil
			}
			discard, err := s.driver.Confirm(ctx, ConfirmConfig{Message: "Discard unsaved changes?"})
			if err != nil {
				return err
			}
			if discard {
				return nil
			}
			continue
		}

		if err := s.dispatch(ctx, action); err != nil {
			if errors.Is(err, ErrAborted) || errors.Is(err, context.Canceled) {
				return err
			}
			if infoErr := s.driver.Info(ctx, "Error: "+err.Error()); infoErr != nil {
				return infoErr
			}
		}
	}
}

func (s *Session) dispatch(ctx context.Context, action string) error {
	switch action {
	case actionAdd:
		return s.addField(ctx)
	case actionEdit:
		return s.editField(ctx)
	case actionRename:
		return s.renameField(ctx)
	case actionDelete:
		return s.deleteField(ctx)
	case actionMove:
		return s.moveField(ctx)
	case actionOptions:
		return s.manageOptions(ctx)
	case actionSettings:
		return s.editSettings(ctx)
	case actionPreview:
		return s.preview(ctx)
	case actionValidate:
		return s.validate(ctx)
	case actionSave:
		return s.saveCurrent(ctx)
	}
	return fmt.Errorf("unknown action %q", action)
}

func (s *Session) fieldCount() int {
	form := s.editor.Spec()
	if form == nil {
		return 0
	}
	return form.Fields.Len()
}

func (s *Session) pickField(ctx context.Context, message string) (string, error) {
	form := s.editor.Spec()
	if form == nil || form.Fields.Len() == 0 {
		return "", errors.New("the spec has no fields")
	}
	keys := form.Fields.Keys()
	idx, err := s.driver.Select(ctx, SelectConfig{Message: message, Options: keys})
	if err != nil {
		return "", err
	}
	if idx < 0 || idx >= len(keys) {
		return "", errors.New("no field selected")
	}
	return keys[idx], nil
}

func (s *Session) addField(ctx context.Context) error {
	types := make([]string, len(spec.FieldTypes))
	for i, t := range spec.FieldTypes {
		types[i] = string(t)
	}
	idx, err := s.driver.Select(ctx, SelectConfig{Message: "Field type", Options: types})
	if err != nil {
		return err
	}
	if idx < 0 || idx >= len(types) {
		return errors.New("no field type selected")
	}
	name, err := s.driver.Input(ctx, InputConfig{Message: "Field name", Help: "Leave blank to use the type name"})
	if err != nil {
		return err
	}
	key, err := s.editor.CreateNewField(spec.FieldTypes[idx], name)
	if err != nil {
		return err
	}
	msg := "Added " + key
	if s.editor.FieldWithOptionsWithoutOptions(key) {
		msg += fmt.Sprintf(" (add at least %d options)", spec.MinChoiceOptions)
	}
	return s.driver.Info(ctx, msg)
}

func (s *Session) editField(ctx context.Context) error {
	key, err := s.pickField(ctx, "Field to edit")
	if err != nil {
		return err
	}
	names := propertyNames()
	idx, err := s.driver.Select(ctx, SelectConfig{Message: "Property", Options: names, PageSize: 10})
	if err != nil {
		return err
	}
	if idx < 0 || idx >= len(properties) {
		return errors.New("no property selected")
	}
	prop := properties[idx]

	field, _ := s.editor.Spec().Fields.Get(key)
	raw, err := s.askProperty(ctx, field, prop)
	if err != nil {
		return err
	}

	updated := field.Clone()
	if err := applyProperty(&updated, prop.name, raw); err != nil {
		return err
	}
	return s.editor.UpdateField(key, func(f *spec.FormField) {
		*f = updated
	})
}

func (s *Session) askProperty(ctx context.Context, field spec.FormField, prop property) (string, error) {
	current := currentValue(field, prop.name)
	switch prop.kind {
	case kindBool:
		v, err := s.driver.Confirm(ctx, ConfirmConfig{Message: prop.name, Default: current == "true"})
		if err != nil {
			return "", err
		}
		return strconv.FormatBool(v), nil
	case kindType:
		types := make([]string, len(spec.FieldTypes))
		def := 0
		for i, t := range spec.FieldTypes {
			types[i] = string(t)
			if string(t) == current {
				def = i
			}
		}
		idx, err := s.driver.Select(ctx, SelectConfig{Message: prop.name, Options: types, DefaultIndex: def})
		if err != nil || idx < 0 || idx >= len(types) {
			return "", errOrNoChoice(err)
		}
		return types[idx], nil
	case kindOnFail:
		actions := []string{"(unset)"}
		for _, a := range spec.OnFailActions {
			actions = append(actions, string(a))
		}
		idx, err := s.driver.Select(ctx, SelectConfig{Message: prop.name, Options: actions})
		if err != nil || idx < 0 || idx >= len(actions) {
			return "", errOrNoChoice(err)
		}
		if idx == 0 {
			return "", nil
		}
		return actions[idx], nil
	case kindNumber:
		return s.driver.Input(ctx, InputConfig{
			Message: prop.name,
			Default: current,
			Help:    "Leave blank to clear",
			Validator: func(v string) error {
				_, err := optionalFloat(strings.TrimSpace(v))
				return err
			},
		})
	default:
		if prop.name == "helptext" {
			return s.driver.TextArea(ctx, TextAreaConfig{Message: prop.name, Default: current})
		}
		return s.driver.Input(ctx, InputConfig{Message: prop.name, Default: current})
	}
}

func errOrNoChoice(err error) error {
	if err != nil {
		return err
	}
	return errors.New("nothing selected")
}

func (s *Session) renameField(ctx context.Context) error {
	key, err := s.pickField(ctx, "Field to rename")
	if err != nil {
		return err
	}
	next, err := s.driver.Input(ctx, InputConfig{Message: "New key", Default: key})
	if err != nil {
		return err
	}
	next = strings.TrimSpace(next)
	if !s.editor.RenameField(key, next) {
		return s.driver.Info(ctx, fmt.Sprintf("A field named %q already exists.", next))
	}
	return nil
}

func (s *Session) deleteField(ctx context.Context) error {
	key, err := s.pickField(ctx, "Field to delete")
	if err != nil {
		return err
	}
	ok, err := s.driver.Confirm(ctx, ConfirmConfig{Message: fmt.Sprintf("Delete %s?", key)})
	if err != nil || !ok {
		return err
	}
	return s.editor.DeleteField(key)
}

func (s *Session) moveField(ctx context.Context) error {
	key, err := s.pickField(ctx, "Field to move")
	if err != nil {
		return err
	}
	keys := s.editor.Spec().Fields.Keys()
	positions := make([]string, len(keys))
	for i, k := range keys {
		positions[i] = fmt.Sprintf("%d (now %s)", i+1, k)
	}
	idx, err := s.driver.Select(ctx, SelectConfig{Message: "New position", Options: positions})
	if err != nil {
		return err
	}
	return s.editor.MoveField(key, idx)
}

func (s *Session) manageOptions(ctx context.Context) error {
	key, err := s.pickField(ctx, "Field")
	if err != nil {
		return err
	}
	field, _ := s.editor.Spec().Fields.Get(key)
	options := spec.OptionList(field.Options)

	menu := []string{"Add option", "Remove option", "Back"}
	idx, err := s.driver.Select(ctx, SelectConfig{
		Message: fmt.Sprintf("Options for %s: %s", key, strings.Join(options, ", ")),
		Options: menu,
	})
	if err != nil {
		return err
	}
	switch idx {
	case 0:
		option, err := s.driver.Input(ctx, InputConfig{Message: "Option"})
		if err != nil {
			return err
		}
		return s.editor.AddOption(key, option)
	case 1:
		if len(options) == 0 {
			return errors.New("the field has no options")
		}
		pick, err := s.driver.Select(ctx, SelectConfig{Message: "Option to remove", Options: options})
		if err != nil || pick < 0 || pick >= len(options) {
			return errOrNoChoice(err)
		}
		return s.editor.RemoveOption(key, options[pick])
	}
	return nil
}

func (s *Session) editSettings(ctx context.Context) error {
	current := false
	if form := s.editor.Spec(); form != nil && form.Settings.DiscardAdditionalFields != nil {
		current = *form.Settings.DiscardAdditionalFields
	}
	discard, err := s.driver.Confirm(ctx, ConfirmConfig{
		Message: "Discard submitted fields that are not in the spec?",
		Default: current,
	})
	if err != nil {
		return err
	}
	return s.editor.UpdateSettings(func(settings *spec.FormSettings) {
		settings.DiscardAdditionalFields = spec.Bool(discard)
	})
}

func (s *Session) preview(ctx context.Context) error {
	idx, err := s.driver.Select(ctx, SelectConfig{Message: "Preview format", Options: previewFormats})
	if err != nil {
		return err
	}
	var out string
	switch idx {
	case 0:
		out = s.editor.PreviewHTML(s.renderOptions)
	case 1:
		out = s.editor.PreviewCurl(s.renderOptions, false)
	case 2:
		out = s.editor.PreviewCurl(s.renderOptions, true)
	case 3:
		out, err = s.editor.PreviewPrompt(s.renderOptions)
		if err != nil {
			return err
		}
	default:
		return errOrNoChoice(nil)
	}
	return s.driver.Info(ctx, out)
}

// validate lists structural errors followed by choice fields that still
// lack options.
func (s *Session) validate(ctx context.Context) error {
	result := s.editor.Validate()
	var lines []string
	for _, locator := range result.Locators() {
		lines = append(lines, fmt.Sprintf("%s: %s", locator, result.Errors[locator]))
	}
	for _, key := range s.editor.FieldsMissingOptions() {
		lines = append(lines, fmt.Sprintf("%s: needs at least %d options", key, spec.MinChoiceOptions))
	}
	if len(lines) == 0 {
		return s.driver.Info(ctx, "Spec is valid.")
	}
	return s.driver.Info(ctx, strings.Join(lines, "\n"))
}

func (s *Session) saveCurrent(ctx context.Context) error {
	if s.save == nil {
		return errors.New("saving is not configured")
	}
	if s.editor.State() == editor.StateUninitialized {
		return editor.ErrNoSpec
	}
	if result := s.editor.Validate(); !result.Valid {
		return fmt.Errorf("spec has %d validation errors; run Validate for details", len(result.Errors))
	}
	text, err := s.editor.TOML()
	if err != nil {
		return err
	}
	if err := s.save(ctx, text); err != nil {
		return fmt.Errorf("save: %w", err)
	}
	s.dirty = false
	s.logger.Debug("tui: saved spec", zap.Int("bytes", len(text)))
	return s.driver.Info(ctx, "Saved.")
}
