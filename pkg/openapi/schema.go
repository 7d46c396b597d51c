package openapi

import (
	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formspec/pkg/spec"
)

// Extension keys carried on the body schema.
const (
	ExtensionMapTo             = "x-map-to"
	ExtensionOnFail            = "x-on-fail"
	ExtensionCheckSpam         = "x-check-spam"
	ExtensionDiscardAdditional = "x-discard-additional-fields"
)

// BodySchema converts the spec into an object schema with one property per
// submitted field. Submit buttons are skipped.
func BodySchema(form *spec.FormSpec) *openapi3.Schema {
	body := openapi3.NewObjectSchema()
	for key, field := range form.Fields.All() {
		if field.Field == spec.FieldSubmit {
			continue
		}
		body.WithProperty(key, FieldSchema(field))
		if field.Required {
			body.Required = append(body.Required, key)
		}
	}
	if discard := form.Settings.DiscardAdditionalFields; discard != nil && *discard {
		body.Extensions = map[string]any{ExtensionDiscardAdditional: true}
	}
	return body
}

// FieldSchema maps one field and its validators onto a schema.
func FieldSchema(field spec.FormField) *openapi3.Schema {
	var schema *openapi3.Schema
	switch field.Field {
	case spec.FieldNumber:
		schema = openapi3.NewFloat64Schema()
		if field.IsMin != nil {
			schema.WithMin(*field.IsMin)
		}
		if field.IsMax != nil {
			schema.WithMax(*field.IsMax)
		}
	case spec.FieldText, spec.FieldTextarea:
		schema = openapi3.NewStringSchema()
		if field.IsMin != nil && *field.IsMin >= 0 {
			schema.WithMinLength(int64(*field.IsMin))
		}
		if field.IsMax != nil && *field.IsMax >= 0 {
			schema.WithMaxLength(int64(*field.IsMax))
		}
	case spec.FieldDate:
		schema = openapi3.NewStringSchema().WithFormat("date")
	case spec.FieldDatetime:
		schema = openapi3.NewStringSchema().WithFormat("date-time")
	case spec.FieldFile:
		schema = openapi3.NewStringSchema().WithFormat("binary")
	default:
		schema = openapi3.NewStringSchema()
	}

	switch {
	case field.IsEmail || field.Field == spec.FieldEmail:
		schema.WithFormat("email")
	case field.IsURL || field.Field == spec.FieldURL:
		schema.WithFormat("uri")
	}
	if field.IsPattern != nil && *field.IsPattern != "" {
		schema.WithPattern(*field.IsPattern)
	}
	if field.IsNotEmpty && schema.MinLength == 0 && schema.Type.Is(openapi3.TypeString) {
		schema.WithMinLength(1)
	}
	if field.IsEmpty {
		schema.WithMaxLength(0)
	}

	if enum := enumValues(field); len(enum) > 0 {
		schema.WithEnum(enum...)
	}

	schema.Title = field.Label
	schema.Description = field.HelpText
	if field.Value != "" && field.Field == spec.FieldHidden {
		schema.Default = field.Value
	}
	if field.Disabled || field.ReadOnly {
		schema.ReadOnly = true
	}

	extensions := map[string]any{}
	if field.MapTo != "" {
		extensions[ExtensionMapTo] = field.MapTo
	}
	if field.OnFail != "" {
		extensions[ExtensionOnFail] = string(field.OnFail)
	}
	if field.CheckSpam {
		extensions[ExtensionCheckSpam] = true
	}
	if len(extensions) > 0 {
		schema.Extensions = extensions
	}

	if field.Multiple && field.Field.IsChoice() {
		array := openapi3.NewArraySchema().WithItems(schema)
		array.Title, array.Description = schema.Title, schema.Description
		schema.Title, schema.Description = "", ""
		array.Extensions, schema.Extensions = schema.Extensions, nil
		return array
	}
	return schema
}

// enumValues prefers is_in, then the options of choice fields.
func enumValues(field spec.FormField) []any {
	var tokens []string
	switch {
	case field.IsIn != nil:
		tokens = spec.OptionList(*field.IsIn)
	case field.Field.IsChoice():
		tokens = spec.OptionList(field.Options)
	}
	if len(tokens) == 0 {
		return nil
	}
	out := make([]any, len(tokens))
	for i, token := range tokens {
		out[i] = token
	}
	return out
}
