// Package source describes where spec TOML documents come from and the
// loader contract that fetches them. Loading is offline-first: files and
// fs.FS entries always work, HTTP only when a client or fallback is
// configured.
package source
