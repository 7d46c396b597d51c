package editor

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/goliatone/go-formspec/pkg/spec"
)

// State is the editor's lifecycle position.
type State int

const (
	// StateUninitialized means no spec has been loaded or created yet.
	StateUninitialized State = iota
	// StateHasSpec means the spec holds at least one field.
	StateHasSpec
	// StateEmpty means every field has been deleted.
	StateEmpty
)

func (s State) String() string {
	switch s {
	case StateHasSpec:
		return "hasSpec"
	case StateEmpty:
		return "empty"
	default:
		return "uninitialized"
	}
}

var (
	// ErrUnknownField is returned when a mutation names a key that is not in the spec.
	ErrUnknownField = errors.New("editor: unknown field")
	// ErrNoSpec is returned when a mutation needs a spec and none is loaded.
	ErrNoSpec = errors.New("editor: no spec loaded")
)

// ChangeFunc receives the re-serialised TOML after each mutation.
type ChangeFunc func(toml string)

// Option configures an Editor.
type Option func(*Editor)

// WithOnChange registers the serialisation callback.
func WithOnChange(fn ChangeFunc) Option {
	return func(e *Editor) {
		e.onChange = fn
	}
}

// WithLogger routes editor diagnostics to logger.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Editor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// Editor holds a single editing session.
type Editor struct {
	mu       sync.Mutex
	form     *spec.FormSpec
	state    State
	onChange ChangeFunc
	logger   *zap.Logger
}

// New returns an uninitialised editor.
func New(options ...Option) *Editor {
	e := &Editor{logger: zap.NewNop()}
	for _, opt := range options {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

// State reports the current lifecycle state.
func (e *Editor) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Spec returns a copy of the current spec, or nil before initialisation.
func (e *Editor) Spec() *spec.FormSpec {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.form.Clone()
}

// TOML serialises the current spec. It returns "" before initialisation.
func (e *Editor) TOML() (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.form == nil {
		return "", nil
	}
	return spec.Dump(e.form)
}

// Load replaces the session spec with the host-supplied TOML. Blank text
// leaves the editor uninitialised. Load never calls OnChange.
func (e *Editor) Load(text string) error {
	if strings.TrimSpace(text) == "" {
		e.mu.Lock()
		e.form, e.state = nil, StateUninitialized
		e.mu.Unlock()
		return nil
	}
	form, err := spec.Decode(text)
	if err != nil {
		e.logger.Warn("editor: load failed", zap.Error(err))
		return fmt.Errorf("editor: load: %w", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.form = form
	e.state = stateFor(form)
	e.logger.Debug("editor: loaded spec", zap.Int("fields", form.Fields.Len()), zap.Stringer("state", e.state))
	return nil
}

// CreateNewField appends a field of the given type. The key is derived from
// name (or the type when name is blank), sanitised and suffixed with _1, _2,
// ... until it is free. It returns the key used.
func (e *Editor) CreateNewField(fieldType spec.FieldType, name string) (string, error) {
	if !fieldType.Valid() {
		return "", fmt.Errorf("editor: unknown field type %q", fieldType)
	}
	base := strings.TrimSpace(name)
	if base == "" {
		base = string(fieldType)
	}

	var key string
	err := e.mutate(true, func(form *spec.FormSpec) error {
		key = uniqueKey(form, spec.SanitizeKey(base))
		field := spec.FormField{
			Name:  key,
			Field: fieldType,
			Label: spec.DefaultLabeler(key),
		}
		spec.ApplyTypeDefaults(&field)
		form.Fields.Set(key, field)
		return nil
	})
	if err != nil {
		return "", err
	}
	return key, nil
}

// DeleteField removes key. Deleting the last field moves the editor to
// StateEmpty.
func (e *Editor) DeleteField(key string) error {
	return e.mutate(false, func(form *spec.FormSpec) error {
		if !form.Fields.Delete(key) {
			return fmt.Errorf("%w: %q", ErrUnknownField, key)
		}
		return nil
	})
}

// RenameField moves oldKey to newKey at the same position and updates the
// field's name property. It returns false without mutating when newKey is
// already taken by another field, is blank or reserved, or oldKey is
// missing. Renaming a key to itself is a successful no-op.
func (e *Editor) RenameField(oldKey, newKey string) bool {
	newKey = strings.TrimSpace(newKey)
	if newKey == "" || newKey == spec.SettingsKey {
		return false
	}
	if oldKey == newKey {
		e.mu.Lock()
		defer e.mu.Unlock()
		return e.form != nil && e.form.Fields.Has(oldKey)
	}

	err := e.mutate(false, func(form *spec.FormSpec) error {
		field, ok := form.Fields.Get(oldKey)
		if !ok {
			return fmt.Errorf("%w: %q", ErrUnknownField, oldKey)
		}
		if form.Fields.Has(newKey) {
			return fmt.Errorf("editor: field %q already exists", newKey)
		}
		field.Name = newKey
		form.Fields.Set(oldKey, field)
		form.Fields.Rename(oldKey, newKey)
		return nil
	})
	if err != nil {
		e.logger.Debug("editor: rename rejected", zap.String("from", oldKey), zap.String("to", newKey), zap.Error(err))
		return false
	}
	return true
}

// UpdateField applies fn to a copy of the field stored under key. The key
// and name property are managed by RenameField and cannot be changed here.
func (e *Editor) UpdateField(key string, fn func(*spec.FormField)) error {
	if fn == nil {
		return errors.New("editor: update function required")
	}
	return e.mutate(false, func(form *spec.FormSpec) error {
		field, ok := form.Fields.Get(key)
		if !ok {
			return fmt.Errorf("%w: %q", ErrUnknownField, key)
		}
		name := field.Name
		fn(&field)
		field.Name = name
		form.Fields.Set(key, field)
		return nil
	})
}

// SetFieldType changes the field type and keeps is_email/is_url in step.
func (e *Editor) SetFieldType(key string, fieldType spec.FieldType) error {
	if !fieldType.Valid() {
		return fmt.Errorf("editor: unknown field type %q", fieldType)
	}
	return e.UpdateField(key, func(field *spec.FormField) {
		field.Field = fieldType
		spec.ApplyTypeDefaults(field)
	})
}

// ReorderFields rebuilds the field map in exactly the order given. keys must
// be a permutation of the current keys.
func (e *Editor) ReorderFields(keys []string) error {
	return e.mutate(false, func(form *spec.FormSpec) error {
		return form.Fields.Reorder(keys)
	})
}

// MoveField moves key to position index, clamped to the valid range.
func (e *Editor) MoveField(key string, index int) error {
	return e.mutate(false, func(form *spec.FormSpec) error {
		keys := form.Fields.Keys()
		from := -1
		for i, k := range keys {
			if k == key {
				from = i
				break
			}
		}
		if from < 0 {
			return fmt.Errorf("%w: %q", ErrUnknownField, key)
		}
		index = max(0, min(index, len(keys)-1))
		keys = append(keys[:from], keys[from+1:]...)
		keys = append(keys[:index], append([]string{key}, keys[index:]...)...)
		return form.Fields.Reorder(keys)
	})
}

// UpdateSettings applies fn to a copy of the form settings.
func (e *Editor) UpdateSettings(fn func(*spec.FormSettings)) error {
	if fn == nil {
		return errors.New("editor: update function required")
	}
	return e.mutate(true, func(form *spec.FormSpec) error {
		fn(&form.Settings)
		return nil
	})
}

// AddOption appends option to a field's comma-separated options. Blank and
// duplicate options are rejected.
func (e *Editor) AddOption(key, option string) error {
	option = strings.TrimSpace(option)
	if option == "" {
		return errors.New("editor: option is empty")
	}
	if strings.Contains(option, ",") {
		return fmt.Errorf("editor: option %q contains a comma", option)
	}
	return e.mutate(false, func(form *spec.FormSpec) error {
		field, ok := form.Fields.Get(key)
		if !ok {
			return fmt.Errorf("%w: %q", ErrUnknownField, key)
		}
		options := spec.OptionList(field.Options)
		for _, existing := range options {
			if existing == option {
				return fmt.Errorf("editor: option %q already present", option)
			}
		}
		field.Options = spec.JoinOptions(append(options, option))
		form.Fields.Set(key, field)
		return nil
	})
}

// RemoveOption drops option from a field's options.
func (e *Editor) RemoveOption(key, option string) error {
	option = strings.TrimSpace(option)
	return e.mutate(false, func(form *spec.FormSpec) error {
		field, ok := form.Fields.Get(key)
		if !ok {
			return fmt.Errorf("%w: %q", ErrUnknownField, key)
		}
		options := spec.OptionList(field.Options)
		kept := options[:0]
		for _, existing := range options {
			if existing != option {
				kept = append(kept, existing)
			}
		}
		if len(kept) == len(options) {
			return fmt.Errorf("editor: option %q not present", option)
		}
		field.Options = spec.JoinOptions(kept)
		form.Fields.Set(key, field)
		return nil
	})
}

// FieldWithOptionsWithoutOptions reports whether key is a choice field that
// still lacks enough options to render.
func (e *Editor) FieldWithOptionsWithoutOptions(key string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.form == nil {
		return false
	}
	field, ok := e.form.Fields.Get(key)
	return ok && spec.FieldWithOptionsWithoutOptions(field)
}

// FieldsMissingOptions lists choice fields in the error state, in field order.
func (e *Editor) FieldsMissingOptions() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.form == nil {
		return nil
	}
	var out []string
	for key, field := range e.form.Fields.All() {
		if spec.FieldWithOptionsWithoutOptions(field) {
			out = append(out, key)
		}
	}
	return out
}

// Validate runs the structural rules against the current spec.
func (e *Editor) Validate() spec.Result {
	e.mu.Lock()
	defer e.mu.Unlock()
	return spec.Validate(e.form)
}

// mutate applies fn to a clone of the current spec and swaps it in only when
// fn and serialisation succeed. create allows fn to run before any spec
// exists.
func (e *Editor) mutate(create bool, fn func(form *spec.FormSpec) error) error {
	e.mu.Lock()
	var next *spec.FormSpec
	switch {
	case e.form != nil:
		next = e.form.Clone()
	case create:
		next = &spec.FormSpec{}
	default:
		e.mu.Unlock()
		return ErrNoSpec
	}

	if err := fn(next); err != nil {
		e.mu.Unlock()
		return err
	}
	text, err := spec.Dump(next)
	if err != nil {
		e.mu.Unlock()
		return fmt.Errorf("editor: serialise: %w", err)
	}

	prev := e.state
	e.form = next
	e.state = stateFor(next)
	if prev != e.state {
		e.logger.Debug("editor: state changed", zap.Stringer("from", prev), zap.Stringer("to", e.state))
	}
	onChange := e.onChange
	e.mu.Unlock()

	if onChange != nil {
		onChange(text)
	}
	return nil
}

func stateFor(form *spec.FormSpec) State {
	if form == nil {
		return StateUninitialized
	}
	if form.Fields.Len() == 0 {
		return StateEmpty
	}
	return StateHasSpec
}

func uniqueKey(form *spec.FormSpec, base string) string {
	taken := func(key string) bool {
		return key == spec.SettingsKey || form.Fields.Has(key)
	}
	if !taken(base) {
		return base
	}
	for i := 1; ; i++ {
		candidate := base + "_" + strconv.Itoa(i)
		if !taken(candidate) {
			return candidate
		}
	}
}
