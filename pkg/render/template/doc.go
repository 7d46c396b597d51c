// Package template defines the renderer-agnostic template contract used by
// text generators. The pongo2-backed implementation lives in the gotemplate
// subpackage.
package template
