// Package spec defines the form specification model: an ordered set of field
// tables plus a settings table, persisted as TOML. Decode and Dump round-trip
// the document preserving field order, Validate collects every structural
// problem keyed by dotted locators such as "email.is_min" or
// "settings.discard_additional_fields", and ParseAndValidate combines both for
// callers that hold raw text.
//
// The TOML string, not the in-memory FormSpec, is the persisted value. Callers
// that mutate a FormSpec are expected to Dump it after every change.
package spec
