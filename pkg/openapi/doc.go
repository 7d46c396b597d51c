// Package openapi describes a form's submission endpoint as an OpenAPI 3
// document. Each field becomes a property of the request body schema with
// its validators mapped onto schema keywords, so API clients can be
// generated for the digest endpoint.
package openapi
