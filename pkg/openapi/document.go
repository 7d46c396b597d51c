package openapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formspec/pkg/spec"
)

// DigestPath is the submission route with its form id parameter.
const DigestPath = "/digest/{formId}"

// CaptchaFieldName is the body property the captcha widget submits.
const CaptchaFieldName = "altcha"

const (
	contentForm      = "application/x-www-form-urlencoded"
	contentMultipart = "multipart/form-data"
	contentJSON      = "application/json"
)

// DocumentOptions describes the endpoint around the spec.
type DocumentOptions struct {
	Title          string
	Version        string
	ServerURL      string
	CaptchaEnabled bool
	// RedirectURL switches the success response to a 303 redirect.
	RedirectURL string
}

// Document builds and validates an OpenAPI document for the form's digest
// endpoint.
func Document(form *spec.FormSpec, options DocumentOptions) (*openapi3.T, error) {
	if form == nil {
		return nil, errors.New("openapi: spec is required")
	}

	title := strings.TrimSpace(options.Title)
	if title == "" {
		title = "Form submission"
	}
	version := strings.TrimSpace(options.Version)
	if version == "" {
		version = "1.0.0"
	}

	body := BodySchema(form)
	if options.CaptchaEnabled {
		captcha := openapi3.NewStringSchema()
		captcha.Description = "ALTCHA solution payload produced by the captcha widget."
		body.WithProperty(CaptchaFieldName, captcha)
		body.Required = append(body.Required, CaptchaFieldName)
	}

	consumes := []string{contentForm, contentJSON}
	if hasFile(form) {
		consumes = []string{contentMultipart}
	}

	op := openapi3.NewOperation()
	op.OperationID = "submitForm"
	op.Summary = "Submit " + title
	op.Parameters = openapi3.Parameters{
		&openapi3.ParameterRef{Value: openapi3.NewPathParameter("formId").WithSchema(openapi3.NewStringSchema())},
	}
	op.RequestBody = &openapi3.RequestBodyRef{
		Value: openapi3.NewRequestBody().
			WithRequired(true).
			WithContent(openapi3.NewContentWithSchema(body, consumes)),
	}
	op.Responses = responses(options.RedirectURL)

	doc := &openapi3.T{
		OpenAPI: "3.0.3",
		Info:    &openapi3.Info{Title: title, Version: version},
		Paths:   openapi3.NewPaths(),
	}
	if server := strings.TrimSpace(options.ServerURL); server != "" {
		doc.Servers = openapi3.Servers{&openapi3.Server{URL: strings.TrimRight(server, "/")}}
	}
	doc.Paths.Set(DigestPath, &openapi3.PathItem{Post: op})

	// Patterns are ECMAScript and may use syntax Go's regexp rejects; they
	// are checked by spec.Validate instead.
	if err := doc.Validate(context.Background(), openapi3.DisableSchemaPatternValidation()); err != nil {
		return nil, fmt.Errorf("openapi: invalid document: %w", err)
	}
	return doc, nil
}

func responses(redirectURL string) *openapi3.Responses {
	success := openapi3.WithStatus(http.StatusOK, &openapi3.ResponseRef{
		Value: openapi3.NewResponse().WithDescription("Submission accepted"),
	})
	if redirectURL != "" {
		redirect := openapi3.NewResponse().WithDescription("Submission accepted; redirects to " + redirectURL)
		redirect.Headers = openapi3.Headers{
			"Location": &openapi3.HeaderRef{Value: &openapi3.Header{Parameter: openapi3.Parameter{
				Schema: &openapi3.SchemaRef{Value: openapi3.NewStringSchema().WithFormat("uri")},
			}}},
		}
		success = openapi3.WithStatus(http.StatusSeeOther, &openapi3.ResponseRef{Value: redirect})
	}
	return openapi3.NewResponses(
		success,
		openapi3.WithStatus(http.StatusBadRequest, &openapi3.ResponseRef{
			Value: openapi3.NewResponse().WithDescription("Submission rejected by a field validator"),
		}),
	)
}

func hasFile(form *spec.FormSpec) bool {
	for _, field := range form.Fields.All() {
		if field.Field == spec.FieldFile {
			return true
		}
	}
	return false
}
