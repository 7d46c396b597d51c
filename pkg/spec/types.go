package spec

// FieldType is the type tag stored under the `field` key of a field table.
type FieldType string

const (
	FieldText     FieldType = "text"
	FieldTextarea FieldType = "textarea"
	FieldSelect   FieldType = "select"
	FieldCheckbox FieldType = "checkbox"
	FieldRadio    FieldType = "radio"
	FieldHidden   FieldType = "hidden"
	FieldSubmit   FieldType = "submit"
	FieldNumber   FieldType = "number"
	FieldDate     FieldType = "date"
	FieldFile     FieldType = "file"
	FieldDatetime FieldType = "datetime"
	FieldTel      FieldType = "tel"
	FieldURL      FieldType = "url"
	FieldEmail    FieldType = "email"
	FieldForm     FieldType = "form"
)

// FieldTypes lists every supported type tag in the order editors present them.
var FieldTypes = []FieldType{
	FieldText, FieldTextarea, FieldSelect, FieldCheckbox, FieldRadio,
	FieldHidden, FieldSubmit, FieldNumber, FieldDate, FieldFile,
	FieldDatetime, FieldTel, FieldURL, FieldEmail, FieldForm,
}

// Valid reports whether t is one of the supported type tags.
func (t FieldType) Valid() bool {
	for _, candidate := range FieldTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// IsChoice reports whether the type renders one control per option.
func (t FieldType) IsChoice() bool {
	switch t {
	case FieldSelect, FieldCheckbox, FieldRadio:
		return true
	default:
		return false
	}
}

// OnFail is the server-side action taken when a field validator fails.
type OnFail string

const (
	OnFailSpam   OnFail = "spam"
	OnFailTrash  OnFail = "trash"
	OnFailPass   OnFail = "pass"
	OnFailReject OnFail = "reject"
)

// OnFailActions lists the accepted on_fail literals.
var OnFailActions = []OnFail{OnFailSpam, OnFailTrash, OnFailPass, OnFailReject}

// Valid reports whether a is an accepted on_fail literal.
func (a OnFail) Valid() bool {
	for _, candidate := range OnFailActions {
		if candidate == a {
			return true
		}
	}
	return false
}

// SettingsKey is the reserved table name holding FormSettings.
const SettingsKey = "settings"

// FormField is a single configurable input. Pointer-typed properties
// distinguish "absent" from a zero value so that absent properties never
// reappear after a Dump/Decode round-trip.
type FormField struct {
	Name        string    `toml:"name,omitempty" json:"name,omitempty"`
	Field       FieldType `toml:"field,omitempty" json:"field,omitempty"`
	Label       string    `toml:"label,omitempty" json:"label,omitempty"`
	Placeholder string    `toml:"placeholder,omitempty" json:"placeholder,omitempty"`
	HelpText    string    `toml:"helptext,omitempty" json:"helptext,omitempty"`
	Required    bool      `toml:"required,omitempty" json:"required,omitempty"`
	Disabled    bool      `toml:"disabled,omitempty" json:"disabled,omitempty"`
	ReadOnly    bool      `toml:"readonly,omitempty" json:"readonly,omitempty"`
	Multiple    bool      `toml:"multiple,omitempty" json:"multiple,omitempty"`
	IsMin       *float64  `toml:"is_min,omitempty" json:"is_min,omitempty"`
	IsMax       *float64  `toml:"is_max,omitempty" json:"is_max,omitempty"`
	IsIn        *string   `toml:"is_in,omitempty" json:"is_in,omitempty"`
	IsPattern   *string   `toml:"is_pattern,omitempty" json:"is_pattern,omitempty"`
	IsEmail     bool      `toml:"is_email,omitempty" json:"is_email,omitempty"`
	IsURL       bool      `toml:"is_url,omitempty" json:"is_url,omitempty"`
	IsEmpty     bool      `toml:"is_empty,omitempty" json:"is_empty,omitempty"`
	IsNotEmpty  bool      `toml:"is_not_empty,omitempty" json:"is_not_empty,omitempty"`
	OnFail      OnFail    `toml:"on_fail,omitempty" json:"on_fail,omitempty"`
	CheckSpam   bool      `toml:"check_spam,omitempty" json:"check_spam,omitempty"`
	Options     string    `toml:"options,omitempty" json:"options,omitempty"`
	Value       string    `toml:"value,omitempty" json:"value,omitempty"`
	MapTo       string    `toml:"map_to,omitempty" json:"map_to,omitempty"`
}

// Clone returns a deep copy of the field.
func (f FormField) Clone() FormField {
	out := f
	out.IsMin = cloneFloat(f.IsMin)
	out.IsMax = cloneFloat(f.IsMax)
	out.IsIn = cloneString(f.IsIn)
	out.IsPattern = cloneString(f.IsPattern)
	return out
}

// FormSettings holds form-wide behaviour.
type FormSettings struct {
	// DiscardAdditionalFields must be set explicitly; nil fails validation.
	DiscardAdditionalFields *bool `toml:"discard_additional_fields,omitempty" json:"discard_additional_fields,omitempty"`
}

// FormSpec aggregates the ordered field tables and the settings table.
type FormSpec struct {
	Fields   Fields       `json:"fields"`
	Settings FormSettings `json:"settings"`
}

// Clone returns a deep copy of the spec.
func (s *FormSpec) Clone() *FormSpec {
	if s == nil {
		return nil
	}
	out := &FormSpec{Fields: s.Fields.Clone()}
	if s.Settings.DiscardAdditionalFields != nil {
		out.Settings.DiscardAdditionalFields = Bool(*s.Settings.DiscardAdditionalFields)
	}
	return out
}

// Bool returns a pointer to v.
func Bool(v bool) *bool { return &v }

// Float returns a pointer to v.
func Float(v float64) *float64 { return &v }

// String returns a pointer to v.
func String(v string) *string { return &v }

func cloneFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	return Float(*v)
}

func cloneString(v *string) *string {
	if v == nil {
		return nil
	}
	return String(*v)
}
