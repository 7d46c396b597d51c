// Package formsapi is the boundary to the forms service: the Form resource
// that carries a spec, the endpoint URLs the generators receive, and a small
// HTTP client for pulling and pushing specs with pacing and retries.
package formsapi
