// Package orchestrator wires the spec pipeline: load TOML, parse and
// validate it, optionally transform the result, and render it through a
// named renderer. Invalid specs are refused before any renderer runs.
package orchestrator
